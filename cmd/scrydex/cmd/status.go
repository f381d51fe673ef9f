package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the loaded catalog generation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dex, err := newScrydex()
		if err != nil {
			return err
		}

		if !dex.Loaded() {
			cmd.Println("No catalog loaded. Run \"scrydex refresh\" to download one.")
			return nil
		}
		return printResult(dex.Generation())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
