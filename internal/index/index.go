// Package index builds the in-memory lookup structures over one catalog
// snapshot: an exact-name index, a normalized-name index, and a composite
// (set, collector number) index.
//
// Indexes are built in a single pass and belong to exactly one snapshot
// generation. They are never updated incrementally; a new generation gets a
// full rebuild.
package index

import (
	"strings"

	"github.com/manabase/scrydex/internal/norm"
	"github.com/manabase/scrydex/pkg/cards"
)

// Indexes holds the lookup structures for one snapshot generation. All maps
// are read-only after Build returns, so lookups need no locking.
type Indexes struct {
	// exact maps raw display names to the printings sharing that name.
	exact map[string][]*cards.Card

	// normalized maps normalized names to the printings sharing that name.
	normalized map[string][]*cards.Card

	// composite maps "set/number" (set lower-cased, number as given) to a
	// single printing. Last record in snapshot order wins on collision.
	composite map[compositeKey]*cards.Card

	// names lists every distinct normalized name once, in first-seen
	// snapshot order. Fuzzy scoring walks this instead of the full record
	// set so the scan is per name, not per printing.
	names []string
}

// compositeKey identifies one printing within a generation.
type compositeKey struct {
	set    string
	number string
}

// Stats reports diagnostics from one build pass.
type Stats struct {
	// Records is the number of card records indexed.
	Records int

	// Names is the number of distinct normalized names.
	Names int

	// Collisions counts composite-key overwrites. Duplicate printing keys
	// in upstream data are tolerated (last write wins) but surfaced here
	// so they can be monitored.
	Collisions int
}

// Build constructs all indexes over the snapshot in one pass.
func Build(snap *cards.Snapshot) (*Indexes, Stats) {
	idx := &Indexes{
		exact:      make(map[string][]*cards.Card, len(snap.Cards)),
		normalized: make(map[string][]*cards.Card, len(snap.Cards)),
		composite:  make(map[compositeKey]*cards.Card, len(snap.Cards)),
	}
	stats := Stats{Records: len(snap.Cards)}

	for i := range snap.Cards {
		c := &snap.Cards[i]

		idx.exact[c.Name] = append(idx.exact[c.Name], c)

		key := norm.Name(c.Name)
		if _, seen := idx.normalized[key]; !seen {
			idx.names = append(idx.names, key)
		}
		idx.normalized[key] = append(idx.normalized[key], c)

		if c.HasPrinting() {
			ck := compositeKey{set: strings.ToLower(c.SetCode), number: c.CollectorNumber}
			if _, exists := idx.composite[ck]; exists {
				stats.Collisions++
			}
			idx.composite[ck] = c
		}
	}

	stats.Names = len(idx.names)
	return idx, stats
}

// Exact returns the printings whose raw display name equals name.
func (idx *Indexes) Exact(name string) []*cards.Card {
	return idx.exact[name]
}

// Normalized returns the printings whose normalized name equals the
// normalized form of name.
func (idx *Indexes) Normalized(name string) []*cards.Card {
	return idx.normalized[norm.Name(name)]
}

// NormalizedKey returns the printings stored under an already-normalized key.
func (idx *Indexes) NormalizedKey(key string) []*cards.Card {
	return idx.normalized[key]
}

// Composite returns the single printing for (setCode, collectorNumber), or
// nil. The set code is matched case-insensitively; the collector number is
// matched as given.
func (idx *Indexes) Composite(setCode, collectorNumber string) *cards.Card {
	return idx.composite[compositeKey{set: strings.ToLower(setCode), number: collectorNumber}]
}

// Names returns every distinct normalized name, in first-seen snapshot order.
// The returned slice is shared and must not be modified.
func (idx *Indexes) Names() []string {
	return idx.names
}
