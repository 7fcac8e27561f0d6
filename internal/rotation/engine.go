package rotation

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/schedule"
)

// Engine walks a display through its resolved content list. Each item holds
// the screen for its own duration; when the deadline passes the engine
// advances to the next item modulo the list length. A list of one simply
// re-displays the same item, which is exactly the prayer-fallback case.
//
// Deadline expiry and an out-of-cycle SetContent (triggered by a push
// notification) both funnel into the same mutex-guarded transition, so no
// two transitions are ever in flight at once: a push cancels the pending
// timer and performs its own transition immediately.
type Engine struct {
	mu     sync.Mutex
	items  []schedule.ResolvedContent
	index  int
	gen    int
	timer  *time.Timer
	onShow func(schedule.ResolvedContent)
}

// NewEngine creates an idle engine. onShow is invoked for every displayed
// item while the engine lock is held; it must not call back into the engine.
func NewEngine(onShow func(schedule.ResolvedContent)) *Engine {
	return &Engine{onShow: onShow}
}

// SetContent replaces the rotation list and restarts at index 0. Position is
// never preserved across a resolve: when the list reshapes, continuing from
// a stale index is meaningless.
func (e *Engine) SetContent(items []schedule.ResolvedContent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.gen++
	e.stopTimerLocked()
	e.items = items
	e.index = 0
	if len(e.items) == 0 {
		return
	}
	e.showLocked()
}

// Stop cancels any pending advance and leaves the engine idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.stopTimerLocked()
	e.items = nil
	e.index = 0
}

// Current returns the item on screen, if any.
func (e *Engine) Current() (schedule.ResolvedContent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.items) == 0 {
		return schedule.ResolvedContent{}, false
	}
	return e.items[e.index], true
}

func (e *Engine) advance(gen int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// a stale generation means SetContent or Stop already superseded this
	// timer; its transition must not run
	if gen != e.gen || len(e.items) == 0 {
		return
	}
	e.index = (e.index + 1) % len(e.items)
	e.showLocked()
}

func (e *Engine) showLocked() {
	item := e.items[e.index]
	if e.onShow != nil {
		e.onShow(item)
	}
	log.Debug().Str("kind", item.Kind).Int("index", e.index).
		Int("duration_seconds", item.DurationSeconds).Msg("showing content")

	gen := e.gen
	e.timer = time.AfterFunc(time.Duration(item.DurationSeconds)*time.Second, func() {
		e.advance(gen)
	})
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
