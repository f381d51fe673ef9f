package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manabase/scrydex/pkg/constants"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Fuzzy-search card names",
	Long: `Fuzzy-search card names in the local catalog. Results are ranked by
closeness to the query, best match first. Misspellings within a few
characters still find the card.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dex, err := newScrydex()
		if err != nil {
			return err
		}

		matches, err := dex.FindFuzzy(cmd.Context(), strings.Join(args, " "), searchLimit)
		if err != nil {
			return err
		}
		return printResult(matches)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", constants.DefaultFuzzyLimit, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
