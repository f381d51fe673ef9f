package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/manabase/scrydex"
	"github.com/manabase/scrydex/pkg/constants"
)

var refreshBulkType string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the latest bulk card data and rebuild the catalog",
	Long: `Download the latest bulk card data, rebuild the lookup indexes, and
replace the on-disk snapshot. Lookups keep serving the previous catalog
until the new one is fully built.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dex, err := newScrydex()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), constants.RefreshTimeout)
		defer cancel()

		progress := newRefreshProgress(os.Stderr)

		result, err := dex.Refresh(ctx,
			scrydex.WithRefreshBulkType(refreshBulkType),
			scrydex.WithDownloadProgress(progress.download),
			scrydex.WithParseProgress(progress.parse),
		)
		progress.done()
		if err != nil {
			return err
		}

		cmd.Printf("Catalog refreshed: %d cards, %d distinct names (%s in %s)\n",
			result.Records, result.Names, formatBytes(result.Bytes), result.Duration.Round(time.Millisecond))
		if result.Collisions > 0 {
			cmd.Printf("Note: %d printings share a set and collector number with another record\n", result.Collisions)
		}
		return nil
	},
}

func init() {
	refreshCmd.Flags().StringVar(&refreshBulkType, "type", constants.DefaultBulkType, "bulk data type to download")
	rootCmd.AddCommand(refreshCmd)
}

// refreshProgress renders a single updating line on w. The download phase
// covers the first half of the bar and parsing covers the second.
type refreshProgress struct {
	w      *os.File
	active bool
}

func newRefreshProgress(w *os.File) *refreshProgress {
	return &refreshProgress{w: w}
}

func (p *refreshProgress) download(done, total int64) {
	if total <= 0 {
		p.render(fmt.Sprintf("Downloading... %s", formatBytes(done)), 0)
		return
	}
	pct := float64(done) / float64(total) * 50
	p.render(fmt.Sprintf("Downloading... %s / %s", formatBytes(done), formatBytes(total)), pct)
}

func (p *refreshProgress) parse(processed, total int) {
	if total <= 0 {
		p.render(fmt.Sprintf("Parsing... %d cards", processed), 50)
		return
	}
	pct := 50 + float64(processed)/float64(total)*50
	p.render(fmt.Sprintf("Parsing... %d / %d cards", processed, total), pct)
}

func (p *refreshProgress) render(msg string, pct float64) {
	p.active = true
	fmt.Fprintf(p.w, "\r\033[K[%5.1f%%] %s", pct, msg)
}

func (p *refreshProgress) done() {
	if p.active {
		fmt.Fprint(p.w, "\r\033[K")
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
