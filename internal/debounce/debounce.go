// Package debounce runs at most one deferred callback per Timer. Scheduling
// a new callback cancels the pending one, so a stale callback never fires
// after the state that triggered it has changed again.
package debounce

import (
	"sync"
	"time"
)

// Timer holds zero or one pending callback.
type Timer struct {
	mu      sync.Mutex
	t       *time.Timer
	gen     uint64
	stopped bool
}

// Schedule runs fn after d, replacing any pending callback.
// It is a no-op once Stop has been called.
func (t *Timer) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.cancelLocked()
	gen := t.gen
	t.t = time.AfterFunc(d, func() {
		t.mu.Lock()
		// A later Schedule/Cancel bumped gen; this callback is stale.
		if t.gen != gen || t.stopped {
			t.mu.Unlock()
			return
		}
		t.t = nil
		t.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending callback, if any.
func (t *Timer) Cancel() {
	t.mu.Lock()
	t.cancelLocked()
	t.mu.Unlock()
}

// Pending reports whether a callback is waiting to fire.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.t != nil
}

// Stop cancels the pending callback and refuses further scheduling.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.cancelLocked()
	t.stopped = true
	t.mu.Unlock()
}

func (t *Timer) cancelLocked() {
	t.gen++
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
}
