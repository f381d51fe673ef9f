package scryfall

import (
	"time"

	"github.com/manabase/scrydex/pkg/cards"
)

// cardResponse is the wire shape of a single card object. Only the fields
// the catalog actually reads are declared; everything else in the payload is
// ignored.
type cardResponse struct {
	OracleID        string    `json:"oracle_id"`
	Name            string    `json:"name"`
	TypeLine        string    `json:"type_line"`
	CMC             float64   `json:"cmc"`
	ManaCost        string    `json:"mana_cost"`
	OracleText      string    `json:"oracle_text"`
	Colors          []string  `json:"colors"`
	Set             string    `json:"set"`
	CollectorNumber string    `json:"collector_number"`
	Layout          string    `json:"layout"`
	ReleasedAt      string    `json:"released_at"`
	ImageURIs       imageURIs `json:"image_uris"`
}

type imageURIs struct {
	Normal string `json:"normal"`
}

// releaseDateLayout is the date format the API uses for released_at.
const releaseDateLayout = "2006-01-02"

// toCard converts the wire shape to the canonical record.
func (r *cardResponse) toCard() cards.Card {
	released, err := time.Parse(releaseDateLayout, r.ReleasedAt)
	if err != nil {
		// An unparsable date leaves the zero time; the disambiguation
		// policy then ranks this printing oldest.
		released = time.Time{}
	}

	return cards.Card{
		OracleID:        r.OracleID,
		Name:            r.Name,
		TypeLine:        r.TypeLine,
		CMC:             r.CMC,
		ManaCost:        r.ManaCost,
		OracleText:      r.OracleText,
		Colors:          r.Colors,
		SetCode:         r.Set,
		CollectorNumber: r.CollectorNumber,
		ImageURL:        r.ImageURIs.Normal,
		Layout:          r.Layout,
		ReleasedAt:      released,
	}
}

// bulkListResponse is the wire shape of the bulk-data manifest endpoint.
type bulkListResponse struct {
	Data []bulkEntry `json:"data"`
}

type bulkEntry struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updated_at"`
	DownloadURI string    `json:"download_uri"`
}

func (e *bulkEntry) toDescriptor() cards.BulkDescriptor {
	return cards.BulkDescriptor{
		Type:        e.Type,
		Name:        e.Name,
		Description: e.Description,
		Size:        e.Size,
		UpdatedAt:   e.UpdatedAt,
		DownloadURI: e.DownloadURI,
	}
}
