package cards

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Snapshot is one complete, immutable materialization of the card catalog at
// a point in time. Snapshots are superseded whole by the next successful
// refresh, never mutated in place.
type Snapshot struct {
	// Generation is the opaque token identifying this snapshot. Tokens are
	// ULIDs, so they sort by installation time.
	Generation string `json:"generation"`

	// DownloadedAt records when the bulk data backing this snapshot was
	// fetched, or when the snapshot was loaded from a source that reported
	// its own freshness marker.
	DownloadedAt time.Time `json:"downloaded_at"`

	// Count is the total number of card records.
	Count int `json:"count"`

	// Cards is the ordered record set. Order is whatever the bulk data
	// delivered; composite-index collisions resolve last-in-order wins.
	Cards []Card `json:"cards"`
}

// NewSnapshot creates a snapshot over the given records with a fresh
// generation token.
func NewSnapshot(records []Card, downloadedAt time.Time) *Snapshot {
	return &Snapshot{
		Generation:   NewGeneration(),
		DownloadedAt: downloadedAt,
		Count:        len(records),
		Cards:        records,
	}
}

// NewGeneration mints a new generation token.
func NewGeneration() string {
	return ulid.Make().String()
}

// BulkDescriptor describes one downloadable bulk data set as reported by the
// card data API's manifest endpoint.
type BulkDescriptor struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updated_at"`
	DownloadURI string    `json:"download_uri"`
}
