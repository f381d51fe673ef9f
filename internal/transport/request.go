package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/manabase/scrydex/pkg/errors"
)

// DecodeResponse decodes a JSON response into the target structure, closing
// the body. Non-2xx responses become APIErrors carrying the status and body.
func DecodeResponse(resp *http.Response, endpoint string, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapAPI(endpoint, resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}

	return nil
}
