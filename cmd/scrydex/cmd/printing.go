package cmd

import (
	"github.com/spf13/cobra"
)

var printingCmd = &cobra.Command{
	Use:   "printing SET NUMBER",
	Short: "Find a specific printing by set code and collector number",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dex, err := newScrydex()
		if err != nil {
			return err
		}

		card, err := dex.FindBySetAndNumber(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printResult(card)
	},
}

func init() {
	rootCmd.AddCommand(printingCmd)
}
