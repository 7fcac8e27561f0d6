package rotation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjid-cloud/minbar/internal/schedule"
)

type showRecorder struct {
	mu    sync.Mutex
	kinds []string
}

func (r *showRecorder) record(item schedule.ResolvedContent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, item.Kind)
}

func (r *showRecorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.kinds...)
}

func items(kinds ...string) []schedule.ResolvedContent {
	out := make([]schedule.ResolvedContent, len(kinds))
	for i, k := range kinds {
		// long durations keep the wall-clock timer out of these tests;
		// transitions are driven through advance directly
		out[i] = schedule.ResolvedContent{Kind: k, DurationSeconds: 3600}
	}
	return out
}

func TestEngine_SetContentShowsFirstItem(t *testing.T) {
	rec := &showRecorder{}
	e := NewEngine(rec.record)
	defer e.Stop()

	e.SetContent(items("a", "b", "c"))

	current, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, "a", current.Kind)
	assert.Equal(t, []string{"a"}, rec.seen())
}

func TestEngine_AdvanceWrapsAround(t *testing.T) {
	rec := &showRecorder{}
	e := NewEngine(rec.record)
	defer e.Stop()

	e.SetContent(items("a", "b", "c"))
	gen := e.gen
	e.advance(gen)
	e.advance(gen)
	e.advance(gen)

	current, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, "a", current.Kind, "advance is modular")
	assert.Equal(t, []string{"a", "b", "c", "a"}, rec.seen())
}

func TestEngine_SingleItemRedisplays(t *testing.T) {
	rec := &showRecorder{}
	e := NewEngine(rec.record)
	defer e.Stop()

	e.SetContent(items("prayer"))
	gen := e.gen
	e.advance(gen)
	e.advance(gen)

	current, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, "prayer", current.Kind)
	assert.Equal(t, []string{"prayer", "prayer", "prayer"}, rec.seen())
}

func TestEngine_SetContentRestartsAtZero(t *testing.T) {
	rec := &showRecorder{}
	e := NewEngine(rec.record)
	defer e.Stop()

	e.SetContent(items("a", "b", "c"))
	e.advance(e.gen)
	e.advance(e.gen)

	// position is not preserved across a reshape
	e.SetContent(items("x", "y"))

	current, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, "x", current.Kind)
}

func TestEngine_StaleGenerationIgnored(t *testing.T) {
	rec := &showRecorder{}
	e := NewEngine(rec.record)
	defer e.Stop()

	e.SetContent(items("a", "b"))
	stale := e.gen
	e.SetContent(items("x", "y"))

	// a timer armed for the old list must not advance the new one
	e.advance(stale)

	current, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, "x", current.Kind)
}

func TestEngine_EmptyContentGoesIdle(t *testing.T) {
	rec := &showRecorder{}
	e := NewEngine(rec.record)
	defer e.Stop()

	e.SetContent(items("a"))
	e.SetContent(nil)

	_, ok := e.Current()
	assert.False(t, ok)
}

func TestEngine_StopIsIdempotent(t *testing.T) {
	e := NewEngine(nil)
	e.SetContent(items("a"))
	e.Stop()
	e.Stop()

	_, ok := e.Current()
	assert.False(t, ok)
}
