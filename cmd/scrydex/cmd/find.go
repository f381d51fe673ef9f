package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manabase/scrydex/pkg/errors"
)

var findAll bool

var findCmd = &cobra.Command{
	Use:   "find NAME",
	Short: "Find a card by name",
	Long: `Find a card by name. Matching is case- and diacritic-insensitive; when
several printings share the name, the most recently released one is shown
unless --all is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dex, err := newScrydex()
		if err != nil {
			return err
		}

		name := strings.Join(args, " ")

		if findAll {
			matches, err := dex.FindAllByName(cmd.Context(), name)
			if err != nil {
				return err
			}
			return printResult(matches)
		}

		card, err := dex.FindByName(cmd.Context(), name)
		if err != nil {
			var ambiguous *errors.AmbiguousError
			if errors.As(err, &ambiguous) {
				cmd.PrintErrf("%q matches several distinct cards; pass --all to list them\n", name)
			}
			return err
		}
		return printResult(card)
	},
}

func init() {
	findCmd.Flags().BoolVar(&findAll, "all", false, "list every matching printing")
	rootCmd.AddCommand(findCmd)
}
