package runtime

import (
	"sync"
	"time"
)

// watchdog is a resettable wall-clock timer guarding one player's loop
// invocations. It is (re)armed whenever the player's program starts a
// new timed action, and cleared when a loop invocation returns
// normally. A tight synchronous loop with no awaited action never
// resets it, so it eventually fires and the sandbox treats that as a
// forfeit. A legitimate program blocked inside a timed action (up to
// the 1s canonical action duration) never trips it, because the
// action-started hook resets the deadline every time a new action
// begins.
type watchdog struct {
	timeout time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	firedCh chan struct{}
}

func newWatchdog(timeout time.Duration) *watchdog {
	return &watchdog{
		timeout: timeout,
		firedCh: make(chan struct{}, 1),
	}
}

// Reset (re)arms the timer for another full timeout from now.
func (w *watchdog) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.timeout, func() {
		select {
		case w.firedCh <- struct{}{}:
		default:
		}
	})
}

// Clear disarms the timer without signaling a fire.
func (w *watchdog) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Fired reports the channel that receives once if the watchdog ever
// times out. Non-blocking to read from when nothing has fired.
func (w *watchdog) Fired() <-chan struct{} {
	return w.firedCh
}
