// Package tankapi is the capability object handed to each player's
// loop function: turnLeft/turnRight/moveForward/moveBackward/scan/
// shoot/log/random, plus a hidden control surface the resolver and
// runtime use to drive completion and the watchdog. Re-architected
// from the source's duck-typed, non-enumerable-accessor object per
// the design notes: a concrete type with an exported capability
// surface (PlayerAPI) and collaborator hooks kept out of that
// interface. *Handle is the only PlayerAPI implementation; both the
// goja sandbox and internal/testplayer's native runner drive player
// code through it.
package tankapi

import (
	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/sim"
)

// Mutator runs fn against the world on the simulation's single-writer
// goroutine and returns its result. *sim.Loop implements this.
type Mutator interface {
	Mutate(fn func(*domain.World) any) any
}

// PlayerAPI is the public surface visible to player code (native test
// harness or sandboxed runtime alike). It deliberately excludes the
// pending-completion and watchdog hooks on *Handle.
type PlayerAPI interface {
	TurnLeft(degrees *float64)
	TurnRight(degrees *float64)
	MoveForward()
	MoveBackward()
	Scan(aDeg, bDeg float64) bool
	Shoot() bool
	Log(msg string)
	Random() float64
}

// LogSink receives log(msg) calls, tagged with the originating slot.
type LogSink func(slot domain.Slot, msg string)

// Handle is the concrete per-slot tank API instance. It closes over
// the world (through a Mutator, never directly) and a slot — a
// one-way capture, per the design notes; the world never references
// back to a Handle.
type Handle struct {
	mutator Mutator
	slot    domain.Slot
	logSink LogSink

	pending chan completionResult

	// onActionStarted is armed whenever a timed action is accepted, so
	// the runtime's watchdog can reset its timer. Exists only for the
	// runtime package to set; not part of PlayerAPI.
	onActionStarted func()

	// onAccepted, when set, is called with every accepted action
	// (timed or instant) from inside the Mutate callback that accepted
	// it — giving the caller a consistent view of w.T alongside the
	// action. Used by the orchestrator to feed internal/replay's
	// recorder; nil by default so recording is opt-in.
	onAccepted func(kind domain.ActionKind, degrees *float64, aDeg, bDeg float64, shoot bool)
}

type completionResult struct {
	scanResult bool
}

// NewHandle constructs the tank API instance for slot, bound to a
// Mutator (normally a *sim.Loop) and a sink for log(msg) calls.
func NewHandle(mutator Mutator, slot domain.Slot, logSink LogSink) *Handle {
	return &Handle{
		mutator: mutator,
		slot:    slot,
		logSink: logSink,
	}
}

// SetActionStartedHook installs the runtime watchdog's reset
// callback. Collaborator-only; never exposed through PlayerAPI.
func (h *Handle) SetActionStartedHook(hook func()) {
	h.onActionStarted = hook
}

// SetAcceptedHook installs the orchestrator's action-recording
// callback. Collaborator-only; never exposed through PlayerAPI.
func (h *Handle) SetAcceptedHook(hook func(kind domain.ActionKind, degrees *float64, aDeg, bDeg float64, shoot bool)) {
	h.onAccepted = hook
}

// Slot reports the slot this handle is bound to.
func (h *Handle) Slot() domain.Slot {
	return h.slot
}

func (h *Handle) TurnLeft(degrees *float64) {
	accepted, _ := h.mutator.Mutate(func(w *domain.World) any {
		ok := sim.TurnLeft(w, h.slot, degrees)
		if ok && h.onAccepted != nil {
			h.onAccepted(domain.ActionTurnLeft, degrees, 0, 0, false)
		}
		return ok
	}).(bool)
	if !accepted {
		return
	}
	h.await()
}

func (h *Handle) TurnRight(degrees *float64) {
	accepted, _ := h.mutator.Mutate(func(w *domain.World) any {
		ok := sim.TurnRight(w, h.slot, degrees)
		if ok && h.onAccepted != nil {
			h.onAccepted(domain.ActionTurnRight, degrees, 0, 0, false)
		}
		return ok
	}).(bool)
	if !accepted {
		return
	}
	h.await()
}

func (h *Handle) MoveForward() {
	accepted, _ := h.mutator.Mutate(func(w *domain.World) any {
		ok := sim.MoveForward(w, h.slot)
		if ok && h.onAccepted != nil {
			h.onAccepted(domain.ActionMoveForward, nil, 0, 0, false)
		}
		return ok
	}).(bool)
	if !accepted {
		return
	}
	h.await()
}

func (h *Handle) MoveBackward() {
	accepted, _ := h.mutator.Mutate(func(w *domain.World) any {
		ok := sim.MoveBackward(w, h.slot)
		if ok && h.onAccepted != nil {
			h.onAccepted(domain.ActionMoveBackward, nil, 0, 0, false)
		}
		return ok
	}).(bool)
	if !accepted {
		return
	}
	h.await()
}

// Scan starts a scan and awaits its boolean result. If the tank is
// already busy, it resolves false immediately without suspending —
// mirroring the source's "already-resolved promise" behavior.
func (h *Handle) Scan(aDeg, bDeg float64) bool {
	accepted, _ := h.mutator.Mutate(func(w *domain.World) any {
		ok := sim.Scan(w, h.slot, aDeg, bDeg)
		if ok && h.onAccepted != nil {
			h.onAccepted(domain.ActionScan, nil, aDeg, bDeg, false)
		}
		return ok
	}).(bool)
	if !accepted {
		return false
	}
	return h.await().scanResult
}

// Shoot is instant: it never suspends the caller.
func (h *Handle) Shoot() bool {
	ok, _ := h.mutator.Mutate(func(w *domain.World) any {
		fired := sim.Shoot(w, h.slot)
		if fired && h.onAccepted != nil {
			h.onAccepted(domain.ActionNone, nil, 0, 0, true)
		}
		return fired
	}).(bool)
	return ok
}

// Log is instant and routes to the collaborator-supplied sink rather
// than any real console, per the sandbox's "log is the only
// sanctioned output" requirement.
func (h *Handle) Log(msg string) {
	if h.logSink != nil {
		h.logSink(h.slot, msg)
	}
}

// Random is instant and draws from the world's seeded PRNG, giving
// player code access to the same reproducible stream createWorld used
// (component A), without letting player code reach the PRNG's seed or
// internal state directly.
func (h *Handle) Random() float64 {
	v, _ := h.mutator.Mutate(func(w *domain.World) any {
		return w.RNG.Float64()
	}).(float64)
	return v
}

// await registers a single-slot pending completion, arms the
// watchdog's action-started hook, and blocks until the resolver
// delivers a result (or the handle is killed/stopped, in which case
// complete is called synthetically with a zero result).
func (h *Handle) await() completionResult {
	ch := make(chan completionResult, 1)

	h.mutator.Mutate(func(w *domain.World) any {
		h.pending = ch
		return nil
	})

	if h.onActionStarted != nil {
		h.onActionStarted()
	}

	return <-ch
}

// complete is the resolver's (or orchestrator's) entry point: detach
// the pending mailbox before handing it a value, so that a loop
// function that synchronously starts another action right after
// resuming sees an idle handle, not one still holding a stale
// channel. A no-op if nothing is pending (e.g. a synthetic completion
// racing a loop function that already moved on).
func (h *Handle) complete(result completionResult) {
	ch := h.pending
	h.pending = nil
	if ch != nil {
		ch <- result
	}
}

// HasPending reports whether this handle is currently awaiting a
// completion.
func (h *Handle) HasPending() bool {
	return h.pending != nil
}

// Kill synthetically resolves any pending completion with an innocuous
// zero value. Called by the orchestrator when a tank's hp reaches
// zero while its runtime is still suspended on an action, or by the
// runtime when a player's sandbox is stopped — without this, the
// dying or stopping task's loop would never resume and the watchdog
// would eventually fire a spurious timeout for a player who did
// nothing wrong. Safe to call from any goroutine other than the
// loop's own: it routes through Mutate so the actual pending-field
// access happens on the loop's goroutine alongside await/complete.
// Called on the loop's goroutine while the loop runs, Mutate never
// returns; use KillNow there.
func (h *Handle) Kill() {
	h.mutator.Mutate(func(w *domain.World) any {
		h.complete(completionResult{})
		return nil
	})
}

// KillNow is Kill without the Mutate round-trip. Only safe to call
// from code that is already executing on the loop's own goroutine —
// typically the orchestrator's OnTick callback, which runs
// synchronously inside the loop's tick-draining loop. Calling this
// from any other goroutine races with await/complete.
func (h *Handle) KillNow() {
	h.complete(completionResult{})
}
