// Package constants provides shared constants used throughout the scrydex codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the library and CLI.
package constants

import "time"

// Timeout constants define various timeout durations used in the library
const (
	// DefaultHTTPTimeout is the standard timeout for single-card API requests
	DefaultHTTPTimeout = 30 * time.Second

	// BulkDownloadTimeout bounds the full bulk-data download; the file is
	// tens of megabytes, so this is deliberately generous
	BulkDownloadTimeout = 30 * time.Minute

	// RefreshTimeout bounds an entire refresh (download, parse, build, persist)
	RefreshTimeout = 45 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultFuzzyLimit is the default maximum number of fuzzy search results
	DefaultFuzzyLimit = 10

	// MaxFuzzyLimit caps fuzzy result sets regardless of what a caller asks for
	MaxFuzzyLimit = 100

	// FuzzyDistanceCutoff is the largest edit distance between a query and a
	// normalized card name that still counts as a fuzzy match
	FuzzyDistanceCutoff = 4

	// DownloadBufferSize is the copy buffer size for bulk downloads in bytes
	DownloadBufferSize = 256 * 1024

	// ProgressByteInterval is how many downloaded bytes pass between
	// byte-level progress callbacks
	ProgressByteInterval = 512 * 1024

	// ProgressRecordInterval is how many parsed records pass between
	// record-level progress callbacks
	ProgressRecordInterval = 1000
)

// Network identity constants
const (
	// UserAgent identifies scrydex to the card data API, which requires
	// clients to send a descriptive User-Agent header
	UserAgent = "scrydex/1.0"

	// DefaultAPIBaseURL is the base URL for the card data API
	DefaultAPIBaseURL = "https://api.scryfall.com"
)

// File name constants for the on-disk snapshot
const (
	// SnapshotFileName is the name of the persisted catalog snapshot file
	SnapshotFileName = "catalog-snapshot.json"

	// DefaultBulkType is the bulk data set downloaded when none is specified;
	// "default_cards" is one printing per card in the default language
	DefaultBulkType = "default_cards"
)
