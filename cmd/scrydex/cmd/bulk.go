package cmd

import (
	"github.com/spf13/cobra"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Inspect upstream bulk data exports",
}

var bulkLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the bulk data exports currently offered upstream",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dex, err := newScrydex()
		if err != nil {
			return err
		}

		manifest, err := dex.BulkManifest(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(manifest)
	},
}

func init() {
	bulkCmd.AddCommand(bulkLsCmd)
	rootCmd.AddCommand(bulkCmd)
}
