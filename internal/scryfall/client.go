// Package scryfall is the thin adapter to the external card data API: single
// card lookups for the network fallback path and the bulk manifest/download
// endpoints the refresh coordinator uses.
//
// Every call issues exactly one HTTP request with a bounded timeout and does
// not retry; retry policy belongs to the caller, because uncontrolled
// retries against a third-party API under a lookup-heavy UI are a
// self-inflicted rate-limit problem.
package scryfall

import (
	"context"
	"net/http"
	"net/url"

	"github.com/manabase/scrydex/internal/transport"
	"github.com/manabase/scrydex/pkg/cards"
	"github.com/manabase/scrydex/pkg/constants"
	"github.com/manabase/scrydex/pkg/errors"
)

// Client calls the card data API.
type Client struct {
	baseURL   string
	transport *transport.Client

	// bulk carries the bulk-data download. The per-call timeout that is
	// right for a single-card lookup would kill a multi-minute download
	// that is making steady progress, so this client has no overall
	// timeout and relies on the context deadline the caller sets.
	bulk *transport.Client
}

// New creates a client against the default API base URL.
func New() *Client {
	return NewWithOptions(constants.DefaultAPIBaseURL, nil)
}

// NewWithOptions creates a client against a specific base URL, optionally
// with a caller-supplied http.Client (used by tests and by callers that need
// their own timeout policy). A supplied client is used for every request,
// bulk downloads included.
func NewWithOptions(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultAPIBaseURL
	}

	bulk := hc
	if bulk == nil {
		bulk = &http.Client{}
	}
	return &Client{
		baseURL:   baseURL,
		transport: transport.NewWithHTTPClient(hc),
		bulk:      transport.NewWithHTTPClient(bulk),
	}
}

// Named resolves a card name to a single card with one request. The API's
// named-card endpoint applies its own fuzzy matching, so case and minor
// spelling differences resolve server-side the same way the local indexes
// resolve them. A 404 means no match, reported as NotFound rather than a
// failure.
func (c *Client) Named(ctx context.Context, name string) (*cards.Card, error) {
	endpoint := c.baseURL + "/cards/named?fuzzy=" + url.QueryEscape(name)

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, classify("named lookup", endpoint, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, errors.NewNotFoundError("card", name)
	}

	var raw cardResponse
	if err := transport.DecodeResponse(resp, endpoint, &raw); err != nil {
		return nil, err
	}

	card := raw.toCard()
	return &card, nil
}

// BySetAndNumber resolves one printing by its composite key with one request.
func (c *Client) BySetAndNumber(ctx context.Context, setCode, collectorNumber string) (*cards.Card, error) {
	endpoint := c.baseURL + "/cards/" + url.PathEscape(setCode) + "/" + url.PathEscape(collectorNumber)

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, classify("printing lookup", endpoint, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, errors.NewNotFoundError("printing", setCode+"/"+collectorNumber)
	}

	var raw cardResponse
	if err := transport.DecodeResponse(resp, endpoint, &raw); err != nil {
		return nil, err
	}

	card := raw.toCard()
	return &card, nil
}

// classify turns transport-level errors into the library taxonomy. Context
// deadline and client timeouts surface as timeouts (which also satisfy the
// coarse network-failure check); everything else is a plain network failure.
func classify(operation, endpoint string, err error) error {
	if ctxErr := contextError(err); ctxErr != nil {
		return ctxErr
	}
	if isTimeout(err) {
		return errors.NewTimeoutError(operation, "", err.Error())
	}
	return errors.WrapAPI(endpoint, 0, err)
}

func isTimeout(err error) bool {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Timeout()
	}
	return false
}

func contextError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError("request", "", "context deadline exceeded")
	case errors.Is(err, context.Canceled):
		return err
	}
	return nil
}
