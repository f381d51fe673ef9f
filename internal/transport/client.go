// Package transport provides the shared HTTP client for calls to the card
// data API. It applies the identity and accept headers the API requires and
// enforces a bounded timeout on every request; no request ever waits
// unbounded, and nothing here retries.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/manabase/scrydex/pkg/constants"
	"github.com/manabase/scrydex/pkg/errors"
)

// Client wraps an http.Client with the headers and timeout discipline every
// outbound call uses.
type Client struct {
	http      *http.Client
	userAgent string
}

// New creates a transport client with the default timeout.
func New() *Client {
	return NewWithHTTPClient(&http.Client{Timeout: constants.DefaultHTTPTimeout})
}

// NewWithHTTPClient creates a transport client around a caller-supplied
// http.Client. The caller keeps ownership of timeout configuration.
func NewWithHTTPClient(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: constants.DefaultHTTPTimeout}
	}
	return &Client{
		http:      hc,
		userAgent: constants.UserAgent,
	}
}

// Timeout returns the overall request timeout of the underlying client.
// Zero means unbounded; such a client must be driven by context deadlines.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// Do performs an HTTP request with common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

// Get performs a GET request against url.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapAPI(url, 0, err)
	}
	return c.Do(req)
}
