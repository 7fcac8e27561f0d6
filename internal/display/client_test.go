package display

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjid-cloud/minbar/internal/schedule"
)

func contentServer(t *testing.T, items []schedule.ResolvedContent) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tv/content", r.URL.Path)
		require.Equal(t, "Bearer device-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(items)
	}))
}

// durations are long so engine timers never fire during a test
func testItems(kinds ...string) []schedule.ResolvedContent {
	out := make([]schedule.ResolvedContent, len(kinds))
	for i, k := range kinds {
		out[i] = schedule.ResolvedContent{Kind: k, DurationSeconds: 3600}
	}
	return out
}

func TestRefetch_SetsRotationContent(t *testing.T) {
	srv := contentServer(t, testItems("webview", "prayer"))
	defer srv.Close()

	c := NewClient(Options{ServerURL: srv.URL, Token: "device-token"})
	defer c.engine.Stop()

	c.refetch(context.Background(), true)

	current, ok := c.engine.Current()
	require.True(t, ok)
	assert.Equal(t, "webview", current.Kind)
}

func TestRefetch_UnchangedPayloadLeavesRotationAlone(t *testing.T) {
	srv := contentServer(t, testItems("prayer"))
	defer srv.Close()

	var shows atomic.Int32
	c := NewClient(Options{
		ServerURL: srv.URL,
		Token:     "device-token",
		OnShow:    func(schedule.ResolvedContent) { shows.Add(1) },
	})
	defer c.engine.Stop()

	c.refetch(context.Background(), true)
	c.refetch(context.Background(), false)
	c.refetch(context.Background(), false)

	// only the first fetch reshapes; identical payloads must not restart
	assert.Equal(t, int32(1), shows.Load())
}

func TestRefetch_ForceRestartsRotation(t *testing.T) {
	srv := contentServer(t, testItems("prayer"))
	defer srv.Close()

	var shows atomic.Int32
	c := NewClient(Options{
		ServerURL: srv.URL,
		Token:     "device-token",
		OnShow:    func(schedule.ResolvedContent) { shows.Add(1) },
	})
	defer c.engine.Stop()

	c.refetch(context.Background(), true)
	c.refetch(context.Background(), true)

	assert.Equal(t, int32(2), shows.Load())
}

// Poll ticks and push events refetch from different goroutines; this must
// stay clean under the race detector.
func TestRefetch_ConcurrentPollAndPush(t *testing.T) {
	srv := contentServer(t, testItems("webview"))
	defer srv.Close()

	c := NewClient(Options{ServerURL: srv.URL, Token: "device-token"})
	defer c.engine.Stop()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				c.refetch(context.Background(), n == 0 && i%5 == 0)
			}
		}(g)
	}
	wg.Wait()

	current, ok := c.engine.Current()
	require.True(t, ok)
	assert.Equal(t, "webview", current.Kind)
}
