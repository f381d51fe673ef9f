// Package cards defines the canonical card record and catalog snapshot types
// shared across the scrydex system.
//
// A Card is one printing: the (OracleID, SetCode, CollectorNumber) triple
// uniquely identifies a specific printing when all three are present, while
// OracleID alone identifies the logical card across all printings. Records
// are immutable once they belong to a snapshot generation.
package cards

import (
	"fmt"
	"strings"
	"time"
)

// Card is a single printing of a card.
type Card struct {
	// OracleID is the stable catalog identifier for the logical card,
	// shared by every printing of it.
	OracleID string `json:"oracle_id"`

	// Name is the display name of the card.
	Name string `json:"name"`

	// TypeLine is the one-line type description.
	TypeLine string `json:"type_line,omitempty"`

	// CMC is the converted mana cost.
	CMC float64 `json:"cmc,omitempty"`

	// ManaCost is the mana cost string, e.g. "{1}{U}{U}".
	ManaCost string `json:"mana_cost,omitempty"`

	// OracleText is the rules text.
	OracleText string `json:"oracle_text,omitempty"`

	// Colors is the ordered list of color symbols.
	Colors []string `json:"colors,omitempty"`

	// SetCode is the printing's set code, stored as given by the source.
	SetCode string `json:"set,omitempty"`

	// CollectorNumber is the printing's collector number, kept as a string
	// because numbers like "146a" and "★12" exist.
	CollectorNumber string `json:"collector_number,omitempty"`

	// ImageURL is a reference to the printing's card image.
	ImageURL string `json:"image_url,omitempty"`

	// Layout is the card layout, e.g. "normal", "transform".
	Layout string `json:"layout,omitempty"`

	// ReleasedAt is the printing's release date. It drives the documented
	// disambiguation policy: when printings share a name, the most recently
	// released one is the best guess.
	ReleasedAt time.Time `json:"released_at,omitempty"`
}

// PrintingKey returns the "set/number" key identifying this printing, with
// the set code lower-cased and the collector number as given.
func (c *Card) PrintingKey() string {
	return fmt.Sprintf("%s/%s", strings.ToLower(c.SetCode), c.CollectorNumber)
}

// HasPrinting reports whether both set code and collector number are present,
// which is what the composite index requires.
func (c *Card) HasPrinting() bool {
	return c.SetCode != "" && c.CollectorNumber != ""
}

// String implements fmt.Stringer for log and error output.
func (c *Card) String() string {
	if c.HasPrinting() {
		return fmt.Sprintf("%s (%s)", c.Name, c.PrintingKey())
	}
	return c.Name
}
