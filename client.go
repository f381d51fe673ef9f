package scrydex

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/manabase/scrydex/internal/index"
	"github.com/manabase/scrydex/internal/lookup"
	"github.com/manabase/scrydex/internal/norm"
	"github.com/manabase/scrydex/internal/scryfall"
	"github.com/manabase/scrydex/internal/store"
	"github.com/manabase/scrydex/pkg/cards"
	"github.com/manabase/scrydex/pkg/constants"
	"github.com/manabase/scrydex/pkg/errors"
	"github.com/manabase/scrydex/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Scrydex = (*client)(nil)

// generation bundles one immutable snapshot with its indexes. The pair is
// published as a unit: a reader that loads the pointer sees a snapshot and
// indexes that belong together, always.
type generation struct {
	snapshot *cards.Snapshot
	indexes  *index.Indexes
	stats    index.Stats
}

// client is the internal implementation of the Scrydex interface.
type client struct {
	config *config
	store  *store.Store
	remote *scryfall.Client

	// current is the only shared mutable state: which generation is
	// current. It is replaced, never edited in place.
	current atomic.Pointer[generation]

	// refreshing guards against concurrent refreshes. The CAS on it makes
	// Refresh single-writer end to end, persist and publish included.
	refreshing atomic.Bool

	// flight deduplicates concurrent identical network fallbacks so a
	// burst of lookups for the same card costs one API request.
	flight singleflight.Group
}

// FindByName resolves a card name to a single printing.
func (c *client) FindByName(ctx context.Context, name string) (*cards.Card, error) {
	if gen := c.current.Load(); gen != nil {
		card, err := lookup.ByName(gen.indexes, name)
		if err == nil || errors.IsAmbiguous(err) {
			return card, err
		}
	}
	return c.fallbackNamed(ctx, name)
}

// FindAllByName returns every printing matching the name, best first.
func (c *client) FindAllByName(ctx context.Context, name string) ([]*cards.Card, error) {
	if gen := c.current.Load(); gen != nil {
		if matches, err := lookup.AllByName(gen.indexes, name); err == nil {
			return matches, nil
		}
	}

	card, err := c.fallbackNamed(ctx, name)
	if err != nil {
		return nil, err
	}
	return []*cards.Card{card}, nil
}

// FindBySetAndNumber resolves one printing by its composite key.
func (c *client) FindBySetAndNumber(ctx context.Context, setCode, collectorNumber string) (*cards.Card, error) {
	if gen := c.current.Load(); gen != nil {
		if card, err := lookup.BySetAndNumber(gen.indexes, setCode, collectorNumber); err == nil {
			return card, nil
		}
	}

	if !c.config.remoteFallback {
		return nil, errors.NewNotFoundError("printing", setCode+"/"+collectorNumber)
	}

	ctx = logging.WithSet(ctx, setCode)
	logging.Ctx(ctx).Debug().Str("number", collectorNumber).
		Msg("Local miss, falling back to remote lookup")

	key := "printing:" + norm.Name(setCode) + "/" + collectorNumber
	return c.doFlight(ctx, key, func(ctx context.Context) (*cards.Card, error) {
		return c.remote.BySetAndNumber(ctx, setCode, collectorNumber)
	})
}

// FindFuzzy returns up to limit cards ranked against the query.
func (c *client) FindFuzzy(ctx context.Context, query string, limit int) ([]*cards.Card, error) {
	if limit <= 0 {
		limit = constants.DefaultFuzzyLimit
	}
	if limit > constants.MaxFuzzyLimit {
		limit = constants.MaxFuzzyLimit
	}

	if gen := c.current.Load(); gen != nil {
		if results := lookup.Fuzzy(gen.indexes, query, limit, constants.FuzzyDistanceCutoff); len(results) > 0 {
			return results, nil
		}
	}

	// The remote named endpoint applies the API's own fuzzy matching and
	// yields at most one card, so the limit holds trivially.
	card, err := c.fallbackNamed(ctx, query)
	if err != nil {
		return nil, err
	}
	return []*cards.Card{card}, nil
}

// BulkManifest lists the bulk data sets available for download.
func (c *client) BulkManifest(ctx context.Context) ([]cards.BulkDescriptor, error) {
	return c.remote.BulkManifest(ctx)
}

// Generation describes the currently installed snapshot generation.
func (c *client) Generation() Generation {
	gen := c.current.Load()
	if gen == nil {
		return Generation{}
	}
	return Generation{
		Token:        gen.snapshot.Generation,
		DownloadedAt: gen.snapshot.DownloadedAt.Format("2006-01-02 15:04:05"),
		Records:      gen.stats.Records,
		Names:        gen.stats.Names,
		Collisions:   gen.stats.Collisions,
	}
}

// Loaded reports whether a catalog snapshot is currently installed.
func (c *client) Loaded() bool {
	return c.current.Load() != nil
}

// fallbackNamed is the shared network fallback for name-based queries.
// Identical concurrent queries collapse into one outbound request.
func (c *client) fallbackNamed(ctx context.Context, name string) (*cards.Card, error) {
	if !c.config.remoteFallback {
		return nil, errors.NewNotFoundError("card", name)
	}

	ctx = logging.WithCard(ctx, name)
	logging.Ctx(ctx).Debug().Msg("Local miss, falling back to remote lookup")

	key := "named:" + norm.Name(name)
	return c.doFlight(ctx, key, func(ctx context.Context) (*cards.Card, error) {
		return c.remote.Named(ctx, name)
	})
}

// doFlight runs fn at most once per key across concurrent callers. The
// shared call runs on a context detached from every caller, so one caller
// canceling cannot fail the followers sharing the flight; each caller still
// honors its own context while waiting. The detached call stays bounded by
// the HTTP client's request timeout.
func (c *client) doFlight(ctx context.Context, key string, fn func(context.Context) (*cards.Card, error)) (*cards.Card, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.NewTimeoutError("remote lookup", "", "context deadline exceeded")
		}
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*cards.Card), nil
	}
}
