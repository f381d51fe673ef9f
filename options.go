package scrydex

import (
	"net/http"

	"github.com/manabase/scrydex/pkg/constants"
	"github.com/manabase/scrydex/pkg/errors"
)

// Option is a function that configures a Scrydex instance.
type Option func(*config) error

// config holds construction-time settings.
type config struct {
	dataDir        string
	baseURL        string
	httpClient     *http.Client
	remoteFallback bool
	bulkType       string
}

func defaultConfig() *config {
	return &config{
		remoteFallback: true,
		bulkType:       constants.DefaultBulkType,
	}
}

// WithDataDir sets the directory holding the persisted catalog snapshot.
// Defaults to the user cache directory.
func WithDataDir(dir string) Option {
	return func(c *config) error {
		c.dataDir = dir
		return nil
	}
}

// WithBaseURL overrides the card data API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) error {
		if url == "" {
			return errors.NewValidationError("baseURL", url, "must not be empty")
		}
		c.baseURL = url
		return nil
	}
}

// WithHTTPClient supplies the http.Client used for all outbound requests,
// bulk downloads included, and hands timeout ownership to the caller. By
// default single-card calls carry a short request timeout and the bulk
// download is bounded separately, so most callers never need this.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithRemoteFallback configures whether lookups that miss the local catalog
// fall through to the network. Enabled by default; with it disabled, a miss
// is simply NotFound.
func WithRemoteFallback(enabled bool) Option {
	return func(c *config) error {
		c.remoteFallback = enabled
		return nil
	}
}

// WithBulkType sets which bulk data set Refresh downloads when no explicit
// type is passed to it. Defaults to "default_cards".
func WithBulkType(bulkType string) Option {
	return func(c *config) error {
		if bulkType == "" {
			return errors.NewValidationError("bulkType", bulkType, "must not be empty")
		}
		c.bulkType = bulkType
		return nil
	}
}
