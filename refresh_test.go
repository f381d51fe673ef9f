package scrydex_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manabase/scrydex"
	"github.com/manabase/scrydex/pkg/constants"
	"github.com/manabase/scrydex/pkg/errors"
)

const testBulkJSON = `[
	{"oracle_id": "o-counter", "name": "Counterspell", "set": "lea", "collector_number": "55", "released_at": "1993-08-05"},
	{"oracle_id": "o-counter", "name": "Counterspell", "set": "mh2", "collector_number": "267", "released_at": "2021-06-18"},
	{"oracle_id": "o-bolt", "name": "Lightning Bolt", "set": "m10", "collector_number": "146", "released_at": "2009-07-17"}
]`

// upstream is a fake card data API serving a bulk manifest and one bulk file.
type upstream struct {
	srv *httptest.Server

	mu       sync.Mutex
	bulkJSON string
	bulkFail bool
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{bulkJSON: testBulkJSON}

	mux := http.NewServeMux()
	mux.HandleFunc("/bulk-data", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data": [
			{"type": "default_cards", "name": "Default Cards", "size": %d, "download_uri": %q},
			{"type": "oracle_cards", "name": "Oracle Cards", "size": 10, "download_uri": %q}
		]}`, len(u.bulkJSON), u.srv.URL+"/bulk/default.json", u.srv.URL+"/bulk/oracle.json")
	})
	mux.HandleFunc("/bulk/default.json", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		body, fail := u.bulkJSON, u.bulkFail
		u.mu.Unlock()
		if fail {
			http.Error(w, "bulk storage offline", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/bulk/oracle.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"oracle_id": "o-crow", "name": "Storm Crow", "set": "9ed", "collector_number": "100"}]`))
	})

	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) setBulk(body string, fail bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.bulkJSON = body
	u.bulkFail = fail
}

func newRefreshable(t *testing.T, u *upstream, dir string) scrydex.Scrydex {
	t.Helper()
	dex, err := scrydex.New(
		scrydex.WithDataDir(dir),
		scrydex.WithBaseURL(u.srv.URL),
		scrydex.WithHTTPClient(u.srv.Client()),
	)
	require.NoError(t, err)
	return dex
}

func TestRefresh(t *testing.T) {
	u := newUpstream(t)
	dir := t.TempDir()
	dex := newRefreshable(t, u, dir)
	require.False(t, dex.Loaded())

	result, err := dex.Refresh(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Generation)
	assert.Equal(t, 3, result.Records)
	assert.Equal(t, 2, result.Names)
	assert.Equal(t, 0, result.Collisions)
	assert.Equal(t, int64(len(testBulkJSON)), result.Bytes)
	assert.Greater(t, result.Duration, time.Duration(0))

	t.Run("catalog becomes queryable", func(t *testing.T) {
		assert.True(t, dex.Loaded())
		card, err := dex.FindByName(context.Background(), "counterspell")
		require.NoError(t, err)
		assert.Equal(t, "mh2", card.SetCode)
	})

	t.Run("snapshot persisted to disk", func(t *testing.T) {
		_, err := os.Stat(filepath.Join(dir, constants.SnapshotFileName))
		assert.NoError(t, err)
	})

	t.Run("no stray files in data dir", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "bulk temp files are cleaned up")
	})

	t.Run("new instance loads the persisted snapshot", func(t *testing.T) {
		again, err := scrydex.New(
			scrydex.WithDataDir(dir),
			scrydex.WithRemoteFallback(false),
		)
		require.NoError(t, err)
		assert.True(t, again.Loaded())
		assert.Equal(t, result.Generation, again.Generation().Token)
	})
}

func TestRefreshReplacesGeneration(t *testing.T) {
	u := newUpstream(t)
	dir := t.TempDir()
	dex := newRefreshable(t, u, dir)

	first, err := dex.Refresh(context.Background())
	require.NoError(t, err)

	u.setBulk(`[{"oracle_id": "o-crow", "name": "Storm Crow", "set": "9ed", "collector_number": "100", "released_at": "2005-07-29"}]`, false)

	second, err := dex.Refresh(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Generation, second.Generation)
	assert.Equal(t, second.Generation, dex.Generation().Token)

	// The old catalog's cards are gone; the new one's are present.
	_, err = dex.FindBySetAndNumber(context.Background(), "m10", "146")
	assert.Error(t, err)
	card, err := dex.FindByName(context.Background(), "Storm Crow")
	require.NoError(t, err)
	assert.Equal(t, "9ed", card.SetCode)
}

func TestRefreshBulkTypeOption(t *testing.T) {
	u := newUpstream(t)
	dex := newRefreshable(t, u, t.TempDir())

	result, err := dex.Refresh(context.Background(), scrydex.WithRefreshBulkType("oracle_cards"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Records)

	card, err := dex.FindByName(context.Background(), "Storm Crow")
	require.NoError(t, err)
	assert.Equal(t, "9ed", card.SetCode)
}

func TestRefreshUnknownBulkType(t *testing.T) {
	u := newUpstream(t)
	dex := newRefreshable(t, u, t.TempDir())

	_, err := dex.Refresh(context.Background(), scrydex.WithRefreshBulkType("no_such_type"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.False(t, dex.Loaded())
}

func TestRefreshProgress(t *testing.T) {
	u := newUpstream(t)
	dex := newRefreshable(t, u, t.TempDir())

	var downloadCalls, parseCalls int
	var lastProcessed, lastTotal int
	_, err := dex.Refresh(context.Background(),
		scrydex.WithDownloadProgress(func(done, total int64) { downloadCalls++ }),
		scrydex.WithParseProgress(func(processed, total int) {
			parseCalls++
			lastProcessed, lastTotal = processed, total
		}),
	)
	require.NoError(t, err)

	assert.Greater(t, downloadCalls, 0)
	assert.Greater(t, parseCalls, 0)
	assert.Equal(t, 3, lastProcessed, "final parse report carries the record count")
	assert.Equal(t, 3, lastTotal)
}

func TestRefreshDownloadFailureKeepsCurrent(t *testing.T) {
	u := newUpstream(t)
	dir := t.TempDir()
	dex := newRefreshable(t, u, dir)

	before, err := dex.Refresh(context.Background())
	require.NoError(t, err)

	u.setBulk("", true)

	_, err = dex.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNetworkFailure(err))

	t.Run("in-memory generation untouched", func(t *testing.T) {
		assert.Equal(t, before.Generation, dex.Generation().Token)
		card, err := dex.FindByName(context.Background(), "Lightning Bolt")
		require.NoError(t, err)
		assert.Equal(t, "m10", card.SetCode)
	})

	t.Run("on-disk snapshot untouched", func(t *testing.T) {
		again, err := scrydex.New(
			scrydex.WithDataDir(dir),
			scrydex.WithRemoteFallback(false),
		)
		require.NoError(t, err)
		assert.Equal(t, before.Generation, again.Generation().Token)
	})

	t.Run("a later refresh succeeds again", func(t *testing.T) {
		u.setBulk(testBulkJSON, false)
		after, err := dex.Refresh(context.Background())
		require.NoError(t, err)
		assert.NotEqual(t, before.Generation, after.Generation)
	})
}

func TestRefreshCorruptBulkKeepsCurrent(t *testing.T) {
	u := newUpstream(t)
	dex := newRefreshable(t, u, t.TempDir())

	before, err := dex.Refresh(context.Background())
	require.NoError(t, err)

	u.setBulk(`[{"name": truncated`, false)

	_, err = dex.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsParseFailure(err))
	assert.Equal(t, before.Generation, dex.Generation().Token)
}

func TestRefreshConcurrentRejected(t *testing.T) {
	u := newUpstream(t)

	// Hold the first refresh open inside the bulk download.
	var entered sync.Once
	enteredCh := make(chan struct{})
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/bulk-data", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data": [{"type": "default_cards", "name": "Default Cards", "size": 1, "download_uri": %q}]}`,
			u.srv.URL+"/slow-bulk")
	})
	mux.HandleFunc("/slow-bulk", func(w http.ResponseWriter, r *http.Request) {
		entered.Do(func() { close(enteredCh) })
		<-release
		_, _ = w.Write([]byte(testBulkJSON))
	})
	u.srv.Config.Handler = mux

	dex := newRefreshable(t, u, t.TempDir())

	done := make(chan error, 1)
	go func() {
		_, err := dex.Refresh(context.Background())
		done <- err
	}()

	<-enteredCh
	_, err := dex.Refresh(context.Background())
	assert.True(t, errors.IsRefreshInProgress(err), "a concurrent refresh is rejected, not queued")

	close(release)
	require.NoError(t, <-done)

	// The guard clears once the first refresh finishes.
	_, err = dex.Refresh(context.Background())
	require.NoError(t, err)
}

func TestLookupsDuringRefresh(t *testing.T) {
	u := newUpstream(t)
	dir := t.TempDir()
	dex := newRefreshable(t, u, dir)

	_, err := dex.Refresh(context.Background())
	require.NoError(t, err)

	// Lookups keep answering from a consistent generation while refreshes
	// churn underneath them.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				card, err := dex.FindByName(context.Background(), "Counterspell")
				if err != nil {
					t.Errorf("lookup failed during refresh: %v", err)
					return
				}
				if card.SetCode != "mh2" {
					t.Errorf("lookup saw unexpected printing %s", card.PrintingKey())
					return
				}
			}
		}()
	}

	for i := 0; i < 3; i++ {
		_, err := dex.Refresh(context.Background())
		require.NoError(t, err)
	}

	close(stop)
	wg.Wait()
}
