package scrydex

import (
	"context"
	"os"
	"time"

	"github.com/manabase/scrydex/internal/index"
	"github.com/manabase/scrydex/internal/scryfall"
	"github.com/manabase/scrydex/pkg/cards"
	"github.com/manabase/scrydex/pkg/constants"
	"github.com/manabase/scrydex/pkg/errors"
	"github.com/manabase/scrydex/pkg/logging"
)

// ProgressFunc reports byte-level download progress. total is -1 when the
// server did not report a size.
type ProgressFunc func(done, total int64)

// RecordProgressFunc reports record-level parse progress. total is -1 until
// the final call, when it equals processed.
type RecordProgressFunc func(processed, total int)

// RefreshOption configures a single Refresh call.
type RefreshOption func(*refreshOptions)

type refreshOptions struct {
	bulkType         string
	downloadProgress ProgressFunc
	parseProgress    RecordProgressFunc
}

// WithRefreshBulkType selects which bulk data set this refresh downloads,
// overriding the instance default.
func WithRefreshBulkType(bulkType string) RefreshOption {
	return func(o *refreshOptions) {
		o.bulkType = bulkType
	}
}

// WithDownloadProgress registers a byte-level progress callback.
func WithDownloadProgress(fn ProgressFunc) RefreshOption {
	return func(o *refreshOptions) {
		o.downloadProgress = fn
	}
}

// WithParseProgress registers a record-level progress callback.
func WithParseProgress(fn RecordProgressFunc) RefreshOption {
	return func(o *refreshOptions) {
		o.parseProgress = fn
	}
}

// RefreshResult summarizes a completed refresh.
type RefreshResult struct {
	Generation string
	Records    int
	Names      int
	Collisions int
	Bytes      int64
	Duration   time.Duration
}

// Refresh downloads a new catalog snapshot, builds its indexes off to the
// side, persists it, and publishes it with one atomic swap.
//
// The currently served generation stays valid and untouched for the whole
// refresh: lookups started against it complete against it, and any failure,
// at download, parse, build, or persist, leaves both the in-memory
// generation and the on-disk snapshot exactly as they were.
//
// At most one refresh runs at a time per instance; a concurrent call fails
// immediately with ErrRefreshInProgress instead of queuing.
func (c *client) Refresh(ctx context.Context, opts ...RefreshOption) (*RefreshResult, error) {
	if !c.refreshing.CompareAndSwap(false, true) {
		return nil, errors.ErrRefreshInProgress
	}
	defer c.refreshing.Store(false)

	options := &refreshOptions{bulkType: c.config.bulkType}
	for _, opt := range opts {
		opt(options)
	}

	ctx = logging.WithOperation(ctx, "refresh")

	start := time.Now()
	logging.Ctx(ctx).Info().Str("bulk_type", options.bulkType).Msg("Catalog refresh started")

	descriptor, err := c.findDescriptor(ctx, options.bulkType)
	if err != nil {
		return nil, err
	}

	records, bytes, err := c.downloadAndParse(ctx, descriptor, options)
	if err != nil {
		return nil, err
	}

	snap := cards.NewSnapshot(records, time.Now())
	idx, stats := index.Build(snap)

	ctx = logging.WithGeneration(ctx, snap.Generation)
	if stats.Collisions > 0 {
		logging.Ctx(ctx).Warn().
			Int("collisions", stats.Collisions).
			Msg("Duplicate printing keys in bulk data; last record wins")
	}

	// Persist before publish: a disk failure must leave lookups on the old
	// generation so memory and disk never disagree.
	if err := c.store.Persist(snap); err != nil {
		return nil, err
	}
	c.current.Store(&generation{snapshot: snap, indexes: idx, stats: stats})

	result := &RefreshResult{
		Generation: snap.Generation,
		Records:    stats.Records,
		Names:      stats.Names,
		Collisions: stats.Collisions,
		Bytes:      bytes,
		Duration:   time.Since(start),
	}

	logging.Ctx(ctx).Info().
		Int("records", result.Records).
		Int64("bytes", result.Bytes).
		Dur("elapsed", result.Duration).
		Msg("Catalog refresh complete")
	return result, nil
}

// findDescriptor resolves a bulk type to its manifest entry.
func (c *client) findDescriptor(ctx context.Context, bulkType string) (*cards.BulkDescriptor, error) {
	manifest, err := c.remote.BulkManifest(ctx)
	if err != nil {
		return nil, err
	}
	for i := range manifest {
		if manifest[i].Type == bulkType {
			return &manifest[i], nil
		}
	}
	return nil, errors.NewNotFoundError("bulk data", bulkType)
}

// downloadAndParse streams the bulk file to a temp file in the data
// directory, then parses it into card records. The temp file is always
// removed; only the parsed records move forward.
func (c *client) downloadAndParse(ctx context.Context, descriptor *cards.BulkDescriptor, options *refreshOptions) ([]cards.Card, int64, error) {
	if err := os.MkdirAll(c.config.dataDir, constants.DirPermissions); err != nil {
		return nil, 0, errors.WrapIO("create", c.config.dataDir, err)
	}

	tmp, err := os.CreateTemp(c.config.dataDir, "bulk_*.json")
	if err != nil {
		return nil, 0, errors.WrapIO("create", "bulk temp file", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	var fetched int64
	progress := func(done, total int64) {
		fetched = done
		if options.downloadProgress != nil {
			options.downloadProgress(done, total)
		}
	}

	// The download is bounded here, not by a per-request timeout: the file
	// is tens of megabytes and a slow link still making progress must not
	// be cut off at the single-card budget.
	dlCtx, cancel := context.WithTimeout(ctx, constants.BulkDownloadTimeout)
	defer cancel()

	if err := c.remote.DownloadBulk(dlCtx, descriptor.DownloadURI, tmp, progress); err != nil {
		_ = tmp.Close()
		return nil, 0, err
	}
	if err := tmp.Close(); err != nil {
		return nil, 0, errors.WrapIO("close", tmpPath, err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return nil, 0, errors.WrapIO("read", tmpPath, err)
	}
	defer func() { _ = f.Close() }()

	records, err := scryfall.ParseBulk(f, scryfall.RecordProgress(options.parseProgress))
	if err != nil {
		return nil, 0, err
	}

	return records, fetched, nil
}
