package server

import (
	"sync"
	"time"
)

// TurnTimer is a cancellable one-shot deadline. Arming a new deadline
// always invalidates the previous one, and a fire that lost the race with
// Stop or a re-arm is discarded by the generation check, so a stale
// callback can never run against state that has moved on. Sessions own one
// of these per deferred concern (turn deadline, bot move, round break).
type TurnTimer struct {
	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// Arm schedules fn after d, cancelling any pending deadline first.
func (t *TurnTimer) Arm(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		live := t.gen == gen
		t.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Stop cancels any pending deadline. Safe to call repeatedly; a callback
// already past its generation check may still be running, which is why
// callbacks must re-validate session state under the directory lock.
func (t *TurnTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
