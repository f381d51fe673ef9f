// Package scrydex is an offline-first card catalog: it downloads the full
// card database as a bulk snapshot, indexes it in memory, and answers exact,
// composite, and fuzzy lookups locally, falling back to the card data API
// when the catalog is absent or a query misses.
//
// A Scrydex instance owns one current snapshot generation. Lookups are
// read-only and run fully in parallel against that generation; Refresh is
// the only writer and builds the next generation entirely off to the side
// before publishing it with a single atomic swap. Readers never observe a
// half-built index and never block on a refresh in progress.
//
// Example usage:
//
//	dex, err := scrydex.New(scrydex.WithDataDir("~/.cache/scrydex"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	card, err := dex.FindByName(ctx, "Lightning Bolt")
//	if errors.IsNotFound(err) {
//	    // no such card, locally or remotely
//	}
package scrydex

import (
	"context"
	"os"
	"path/filepath"

	"github.com/manabase/scrydex/internal/index"
	"github.com/manabase/scrydex/internal/scryfall"
	"github.com/manabase/scrydex/internal/store"
	"github.com/manabase/scrydex/pkg/cards"
	"github.com/manabase/scrydex/pkg/errors"
	"github.com/manabase/scrydex/pkg/logging"
)

// Scrydex is the query surface the rest of an application calls.
type Scrydex interface {
	// FindByName resolves a card name to a single printing. Multiple
	// printings of one logical card resolve to the most recently released
	// one; names shared by distinct logical cards return an AmbiguousError.
	FindByName(ctx context.Context, name string) (*cards.Card, error)

	// FindAllByName returns every printing matching the name, best first.
	FindAllByName(ctx context.Context, name string) ([]*cards.Card, error)

	// FindBySetAndNumber resolves one printing by its composite key. The
	// set code is case-insensitive.
	FindBySetAndNumber(ctx context.Context, setCode, collectorNumber string) (*cards.Card, error)

	// FindFuzzy returns up to limit cards ranked against the query. A
	// non-positive limit falls back to constants.DefaultFuzzyLimit and
	// anything above constants.MaxFuzzyLimit is capped there; results
	// never exceed the effective limit.
	FindFuzzy(ctx context.Context, query string, limit int) ([]*cards.Card, error)

	// Refresh downloads a new catalog snapshot and swaps it in atomically.
	// A second concurrent call fails immediately with ErrRefreshInProgress.
	Refresh(ctx context.Context, opts ...RefreshOption) (*RefreshResult, error)

	// BulkManifest lists the bulk data sets available for download.
	BulkManifest(ctx context.Context) ([]cards.BulkDescriptor, error)

	// Generation describes the currently installed snapshot generation.
	// The zero value means no snapshot is loaded.
	Generation() Generation

	// Loaded reports whether a catalog snapshot is currently installed.
	Loaded() bool
}

// Generation describes one installed snapshot generation. Callers can
// compare Tokens across calls to detect that a refresh happened; results are
// stable within a token and may legitimately change across one.
type Generation struct {
	Token        string
	DownloadedAt string
	Records      int
	Names        int
	Collisions   int
}

// New creates a Scrydex instance. If a snapshot file exists under the data
// directory it is loaded and indexed; its absence is the normal first-run
// state and the instance starts with network fallback only.
func New(opts ...Option) (Scrydex, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.dataDir == "" {
		cfg.dataDir = defaultDataDir()
	}

	c := &client{
		config: cfg,
		store:  store.New(cfg.dataDir),
		remote: scryfall.NewWithOptions(cfg.baseURL, cfg.httpClient),
	}

	snap, err := c.store.Load()
	switch {
	case err == nil:
		idx, stats := index.Build(snap)
		c.current.Store(&generation{snapshot: snap, indexes: idx, stats: stats})
		logging.Info().
			Str("generation", snap.Generation).
			Int("records", stats.Records).
			Int("collisions", stats.Collisions).
			Msg("Catalog snapshot loaded")
	case errors.IsNoSnapshot(err):
		logging.Debug().Str("dir", cfg.dataDir).Msg("No catalog snapshot on disk")
	default:
		// A corrupt or unreadable snapshot must not block the
		// application; queries degrade to the network path and the next
		// refresh replaces the bad file.
		logging.Warn().Err(err).Msg("Ignoring unusable catalog snapshot")
	}

	return c, nil
}

// defaultDataDir places the snapshot under the user cache directory, or the
// working directory when no cache directory is available.
func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "scrydex")
	}
	return ".scrydex"
}
