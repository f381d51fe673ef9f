package scryfall

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manabase/scrydex/internal/transport"
	"github.com/manabase/scrydex/pkg/errors"
)

func TestBulkManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bulk-data", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"data": [
				{
					"type": "oracle_cards",
					"name": "Oracle Cards",
					"description": "One card object per oracle identity.",
					"size": 155000000,
					"updated_at": "2026-08-28T09:00:00Z",
					"download_uri": "https://data.example/oracle.json"
				},
				{
					"type": "default_cards",
					"name": "Default Cards",
					"description": "Every printing in English.",
					"size": 490000000,
					"updated_at": "2026-08-28T09:00:00Z",
					"download_uri": "https://data.example/default.json"
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewWithOptions(srv.URL, srv.Client())

	manifest, err := client.BulkManifest(context.Background())
	require.NoError(t, err)
	require.Len(t, manifest, 2)
	assert.Equal(t, "oracle_cards", manifest[0].Type)
	assert.Equal(t, "default_cards", manifest[1].Type)
	assert.Equal(t, int64(490000000), manifest[1].Size)
	assert.Equal(t, "https://data.example/default.json", manifest[1].DownloadURI)
}

func TestDownloadBulk(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 3000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Declare the length explicitly: the body is larger than net/http's
		// 2048-byte buffer, so without this the response would be chunked
		// and ContentLength would be -1.
		w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	client := NewWithOptions(srv.URL, srv.Client())

	var buf bytes.Buffer
	var finalDone, finalTotal int64
	err := client.DownloadBulk(context.Background(), srv.URL+"/bulk", &buf, func(done, total int64) {
		finalDone, finalTotal = done, total
	})
	require.NoError(t, err)
	assert.Equal(t, payload, buf.Bytes())
	assert.Equal(t, int64(len(payload)), finalDone, "final progress reports the full byte count")
	assert.Equal(t, int64(len(payload)), finalTotal)
}

func TestDownloadBulkNilProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	client := NewWithOptions(srv.URL, srv.Client())

	var buf bytes.Buffer
	require.NoError(t, client.DownloadBulk(context.Background(), srv.URL, &buf, nil))
	assert.Equal(t, "data", buf.String())
}

func TestDownloadBulkServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewWithOptions(srv.URL, srv.Client())

	var buf bytes.Buffer
	err := client.DownloadBulk(context.Background(), srv.URL, &buf, nil)
	require.Error(t, err)
	assert.True(t, errors.IsNetworkFailure(err))
}

func TestDownloadBulkOutlivesLookupTimeout(t *testing.T) {
	// A download slower than the single-card request timeout must still
	// complete as long as it makes progress.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for i := 0; i < 5; i++ {
			_, _ = w.Write([]byte("chunk"))
			flusher.Flush()
			time.Sleep(40 * time.Millisecond)
		}
	}))
	defer srv.Close()

	c := NewWithOptions(srv.URL, nil)
	c.transport = transport.NewWithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond})

	var buf bytes.Buffer
	err := c.DownloadBulk(context.Background(), srv.URL, &buf, nil)
	require.NoError(t, err, "the lookup timeout must not apply to the bulk stream")
	assert.Equal(t, strings.Repeat("chunk", 5), buf.String())
}

func TestDownloadBulkHonorsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	c := NewWithOptions(srv.URL, srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := c.DownloadBulk(ctx, srv.URL, &buf, nil)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
}

func TestParseBulk(t *testing.T) {
	input := `[
		{"oracle_id": "o-bolt", "name": "Lightning Bolt", "set": "m10", "collector_number": "146", "released_at": "2009-07-17"},
		{"oracle_id": "o-token", "name": "", "set": "tm10", "collector_number": "1"},
		{"oracle_id": "o-counter", "name": "Counterspell", "set": "lea", "collector_number": "55", "released_at": "1993-08-05"}
	]`

	records, err := ParseBulk(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, records, 2, "nameless records are skipped")
	assert.Equal(t, "Lightning Bolt", records[0].Name)
	assert.Equal(t, "Counterspell", records[1].Name)
}

func TestParseBulkProgress(t *testing.T) {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < 2500; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"oracle_id": "o-%d", "name": "Card %d"}`, i, i)
	}
	sb.WriteByte(']')

	var calls []int
	var finalTotal int
	records, err := ParseBulk(strings.NewReader(sb.String()), func(processed, total int) {
		calls = append(calls, processed)
		finalTotal = total
	})
	require.NoError(t, err)
	assert.Len(t, records, 2500)

	// Interval reports at 1000 and 2000, then the final report.
	require.Len(t, calls, 3)
	assert.Equal(t, []int{1000, 2000, 2500}, calls)
	assert.Equal(t, 2500, finalTotal, "the final report carries the real total")
}

func TestParseBulkMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "not an array", input: `{"name": "Lightning Bolt"}`},
		{name: "truncated array", input: `[{"name": "Lightning Bolt"}`},
		{name: "bad record", input: `[{"name": 42}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBulk(strings.NewReader(tt.input), nil)
			require.Error(t, err)
			assert.True(t, errors.IsParseFailure(err))
		})
	}
}

func TestParseBulkEmptyArray(t *testing.T) {
	records, err := ParseBulk(strings.NewReader("[]"), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}
