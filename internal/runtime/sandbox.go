// Package runtime executes untrusted player source inside an embedded
// ECMAScript interpreter (goja), under a wall-clock watchdog. A bare
// goja.Runtime already has no filesystem, network, process, or timer
// primitives reachable from script — those are Node/browser additions
// goja only provides if you explicitly wire in its companion
// goja_nodejs packages, which this sandbox never does. The only
// globals a player's source can see are ECMAScript's own standard
// library (Math, JSON, etc.) and the "tank" capability object bound
// in binding.go.
package runtime

import (
	"fmt"
	goruntime "runtime"
	"time"

	"github.com/dop251/goja"

	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/matcherr"
	"github.com/philippe-ths/tanks/internal/tankapi"
)

// DefaultWatchdogTimeout is the canonical 5s per-loop-invocation
// wall-clock budget. It is generous relative to the 1s canonical
// action duration so a cooperating program that awaits every action
// never trips it; it only catches a tight synchronous loop that never
// calls into the tank API at all.
const DefaultWatchdogTimeout = 5 * time.Second

// Sandbox holds one player's loaded program: its VM, its extracted
// loop function and class tag, and the watchdog guarding it.
type Sandbox struct {
	slot   domain.Slot
	vm     *goja.Runtime
	loopFn goja.Callable
	class  domain.TankClass

	handle   *tankapi.Handle
	watchdog *watchdog

	stopCh  chan struct{}
	stopped bool
}

// Load parses src, extracts the CLASS and loop (or default) bindings,
// and wires the tank API in as the "tank" global. Any ingest failure
// is returned as a *matcherr.LoadError; the caller should abort the
// match for this slot without ever calling Run.
func Load(slot domain.Slot, src string, handle *tankapi.Handle, validClasses map[domain.TankClass]domain.ClassStats) (*Sandbox, error) {
	return LoadWithTimeout(slot, src, handle, validClasses, DefaultWatchdogTimeout)
}

// LoadWithTimeout is Load with an explicit watchdog timeout, split out
// so tests can exercise the timeout path without waiting 5 real
// seconds.
func LoadWithTimeout(slot domain.Slot, src string, handle *tankapi.Handle, validClasses map[domain.TankClass]domain.ClassStats, timeout time.Duration) (*Sandbox, error) {
	vm := goja.New()
	bindTankAPI(vm, handle)

	if _, err := vm.RunString(src); err != nil {
		return nil, &matcherr.LoadError{
			Slot:   string(slot),
			Reason: fmt.Sprintf("source failed to evaluate: %v", err),
		}
	}

	classVal := vm.Get("CLASS")
	if classVal == nil || goja.IsUndefined(classVal) {
		return nil, &matcherr.LoadError{Slot: string(slot), Reason: "missing CLASS binding"}
	}
	class := domain.TankClass(classVal.String())
	if _, ok := validClasses[class]; !ok {
		return nil, &matcherr.LoadError{Slot: string(slot), Reason: fmt.Sprintf("unknown class tag %q", class)}
	}

	loopVal := vm.Get("loop")
	if loopVal == nil || goja.IsUndefined(loopVal) {
		loopVal = vm.Get("default")
	}
	loopFn, ok := goja.AssertFunction(loopVal)
	if !ok {
		return nil, &matcherr.LoadError{Slot: string(slot), Reason: "missing loop (or default) function binding"}
	}

	s := &Sandbox{
		slot:     slot,
		vm:       vm,
		loopFn:   loopFn,
		class:    class,
		handle:   handle,
		watchdog: newWatchdog(timeout),
		stopCh:   make(chan struct{}),
	}
	handle.SetActionStartedHook(s.watchdog.Reset)
	return s, nil
}

// Class reports the tag extracted at load time.
func (s *Sandbox) Class() domain.TankClass {
	return s.class
}

// Run drives the loop function repeatedly, yielding briefly to the
// host scheduler between invocations, until Stop is called or the
// player forfeits. onError is invoked exactly once, with either a
// *matcherr.PlayerRuntimeError (the loop threw) or a
// *matcherr.PlayerTimeoutError (the watchdog fired); it is never
// called after a graceful Stop. Run should be started on its own
// goroutine by the orchestrator.
func (s *Sandbox) Run(onError func(err error)) {
	tankVal := s.vm.Get("tank")

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		s.watchdog.Reset()
		resultCh := make(chan error, 1)

		go func() {
			_, err := s.loopFn(goja.Undefined(), tankVal)
			resultCh <- err
		}()

		select {
		case err := <-resultCh:
			s.watchdog.Clear()
			if err != nil {
				if onError != nil {
					onError(&matcherr.PlayerRuntimeError{Slot: string(s.slot), Cause: err})
				}
				return
			}

		case <-s.watchdog.Fired():
			s.vm.Interrupt("watchdog timeout")
			<-resultCh
			if onError != nil {
				onError(&matcherr.PlayerTimeoutError{Slot: string(s.slot)})
			}
			return

		case <-s.stopCh:
			s.vm.Interrupt("stopped")
			<-resultCh
			return
		}

		// Yield to the host scheduler between invocations so other
		// goroutines (the simulation loop, other sandboxes) run even
		// when a loop iteration completes without awaiting anything.
		goruntime.Gosched()
	}
}

// Stop requests the outer task to halt gracefully: the run loop exits
// at its next check, any script execution mid-flight is interrupted,
// and the handle's pending completion (if any) is resolved
// synthetically so the player's goroutine cannot deadlock waiting on
// a tick that will never come. Idempotent.
func (s *Sandbox) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.stopCh)
	s.handle.Kill()
}
