package scryfall

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/manabase/scrydex/internal/transport"
	"github.com/manabase/scrydex/pkg/cards"
	"github.com/manabase/scrydex/pkg/constants"
	"github.com/manabase/scrydex/pkg/errors"
)

// ByteProgress reports download progress. total is the expected size in
// bytes, or -1 when the server did not report one.
type ByteProgress func(done, total int64)

// RecordProgress reports parse progress. total is -1: the bulk file is a
// single JSON array whose length is unknown until fully read.
type RecordProgress func(processed, total int)

// BulkManifest fetches the list of available bulk data sets.
func (c *Client) BulkManifest(ctx context.Context) ([]cards.BulkDescriptor, error) {
	endpoint := c.baseURL + "/bulk-data"

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, classify("bulk manifest", endpoint, err)
	}

	var raw bulkListResponse
	if err := transport.DecodeResponse(resp, endpoint, &raw); err != nil {
		return nil, err
	}

	descriptors := make([]cards.BulkDescriptor, 0, len(raw.Data))
	for i := range raw.Data {
		descriptors = append(descriptors, raw.Data[i].toDescriptor())
	}
	return descriptors, nil
}

// DownloadBulk streams the bulk data file at uri into w, reporting byte
// progress along the way. The write target is the caller's (typically a temp
// file that is later renamed into place). The download runs on the bulk
// client, so the single-card request timeout does not apply; callers bound
// it with a context deadline.
func (c *Client) DownloadBulk(ctx context.Context, uri string, w io.Writer, progress ByteProgress) error {
	resp, err := c.bulk.Get(ctx, uri)
	if err != nil {
		return classify("bulk download", uri, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Endpoint:   uri,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	total := resp.ContentLength // -1 when unknown

	var done int64
	var lastReport int64
	buf := make([]byte, constants.DownloadBufferSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return errors.WrapIO("write", "bulk data", writeErr)
			}
			done += int64(n)
			if progress != nil && done-lastReport >= constants.ProgressByteInterval {
				progress(done, total)
				lastReport = done
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return classify("bulk download", uri, readErr)
		}
	}

	if progress != nil {
		progress(done, total)
	}
	return nil
}

// ParseBulk decodes a bulk data stream, one top-level JSON array of card
// objects, into card records, reporting record progress as it goes. The
// whole array is decoded token-wise so the raw file never has to fit in
// memory twice.
func ParseBulk(r io.Reader, progress RecordProgress) ([]cards.Card, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.NewParseError("json", "bulk data", "missing opening token", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, errors.NewParseError("json", "bulk data", "expected top-level array", nil)
	}

	var records []cards.Card
	for dec.More() {
		var raw cardResponse
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.NewParseError("json", "bulk data", "malformed card record", err)
		}
		if raw.Name == "" {
			// Records without a name cannot be indexed; skip rather
			// than fail the whole snapshot.
			continue
		}
		records = append(records, raw.toCard())

		if progress != nil && len(records)%constants.ProgressRecordInterval == 0 {
			progress(len(records), -1)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.NewParseError("json", "bulk data", "missing closing token", err)
	}

	if progress != nil {
		progress(len(records), len(records))
	}
	return records, nil
}
