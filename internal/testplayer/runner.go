// Package testplayer is a native Go implementation of a player
// program, satisfying the same tankapi.PlayerAPI capability set the
// sandboxed goja runtime drives. Grounded on the teacher's Bot
// (internal/agent/bot.go): a headless participant that plays by the
// same rules as everyone else, used here as an in-process substitute
// for a scripted player in tests and local exhibition matches instead
// of standing up a real sandbox for every fixture.
package testplayer

import (
	goruntime "runtime"

	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/matcherr"
	"github.com/philippe-ths/tanks/internal/tankapi"
)

// LoopFunc is a native Go loop body, called repeatedly with the same
// capability object a sandboxed player's loop function would receive.
type LoopFunc func(tank tankapi.PlayerAPI)

// Runner drives a LoopFunc the same way runtime.Sandbox drives a
// goja loop function, minus the watchdog: a native Go loop can't sit
// in a tight uninterruptible synchronous spin the way untrusted script
// theoretically could, so there is nothing here for a wall-clock timer
// to catch.
type Runner struct {
	slot   domain.Slot
	handle *tankapi.Handle
	loopFn LoopFunc

	stopCh  chan struct{}
	stopped bool
}

// NewRunner binds a native loop function to slot's handle.
func NewRunner(slot domain.Slot, handle *tankapi.Handle, loopFn LoopFunc) *Runner {
	return &Runner{
		slot:   slot,
		handle: handle,
		loopFn: loopFn,
		stopCh: make(chan struct{}),
	}
}

// Run repeatedly invokes the loop function until Stop is called or it
// panics, in which case onError receives a *matcherr.PlayerRuntimeError
// and the runner exits — the native-code equivalent of a thrown
// exception inside a sandboxed loop.
func (r *Runner) Run(onError func(err error)) {
	for {
		select {
		case <-r.stopCh:
			return
		default:
		}

		if !r.invokeOnce(onError) {
			return
		}

		goruntime.Gosched()
	}
}

func (r *Runner) invokeOnce(onError func(err error)) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			if onError != nil {
				onError(&matcherr.PlayerRuntimeError{Slot: string(r.slot), Cause: panicToError(rec)})
			}
		}
	}()

	r.loopFn(r.handle)
	return true
}

func panicToError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return panicString{rec}
}

type panicString struct{ v any }

func (p panicString) Error() string {
	return "panic: " + toString(p.v)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "non-string panic value"
}

// Stop requests the outer loop to halt gracefully and resolves any
// pending completion so the runner's goroutine cannot deadlock.
func (r *Runner) Stop() {
	if r.stopped {
		return
	}
	r.stopped = true
	close(r.stopCh)
	r.handle.Kill()
}
