package sim

import (
	"time"

	"github.com/philippe-ths/tanks/internal/domain"
)

// Loop drives Step in real time at Constants.TickRate Hz. A run loops
// like the teacher's RunGameLoop, but on a wall-clock ticker instead
// of a turn queue: wake, accumulate elapsed wall time, drain whole
// ticks out of the accumulator, hand events to onTick, and stop as
// soon as a matchEnd event appears.
type Loop struct {
	World *domain.World

	OnTick     func(events []domain.Event)
	OnMatchEnd func(events []domain.Event)

	tickInterval time.Duration
	stopCh       chan struct{}
	stopped      bool
	mutateCh     chan mutationRequest
}

// NewLoop constructs a Loop bound to w, ticking at w.Constants.TickRate.
func NewLoop(w *domain.World, onTick, onMatchEnd func(events []domain.Event)) *Loop {
	return &Loop{
		World:        w,
		OnTick:       onTick,
		OnMatchEnd:   onMatchEnd,
		tickInterval: time.Second / time.Duration(w.Constants.TickRate),
		stopCh:       make(chan struct{}),
		mutateCh:     make(chan mutationRequest),
	}
}

// maxCatchUpTicks caps the accumulator at 10 ticks worth of wall time so a
// long stall (GC pause, scheduler hiccup, debugger breakpoint) cannot
// make the loop try to replay hundreds of ticks in one burst.
const maxCatchUpTicks = 10

// Run blocks until the match ends or Stop is called. It should be
// started on its own goroutine by the orchestrator.
func (l *Loop) Run() {
	var accumulator time.Duration
	last := time.Now()
	timer := time.NewTimer(l.tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case req := <-l.mutateCh:
			req.resp <- req.fn(l.World)
		case now := <-timer.C:
			accumulator += now.Sub(last)
			last = now

			if cap := time.Duration(maxCatchUpTicks) * l.tickInterval; accumulator > cap {
				accumulator = cap
			}

			for accumulator >= l.tickInterval {
				events, matchEnded := l.stepOnce()
				if l.OnTick != nil {
					l.OnTick(events)
				}
				accumulator -= l.tickInterval

				if matchEnded {
					if l.OnMatchEnd != nil {
						l.OnMatchEnd(events)
					}
					return
				}
			}

			wait := l.tickInterval - accumulator
			if wait < time.Millisecond {
				wait = time.Millisecond
			}
			timer.Reset(wait)
		}
	}
}

// stepOnce calls Step once, recovering a panic inside it into a
// synthetic matchEnd{reason:"error"} event per the SimulationError
// contract — the loop driver is the one place step's failure is
// translated into a visible outcome instead of crashing the process.
func (l *Loop) stepOnce() (events []domain.Event, matchEnded bool) {
	defer func() {
		if r := recover(); r != nil {
			events = []domain.Event{{
				Kind: domain.EventMatchEnd,
				MatchEnd: &domain.MatchEndEvent{
					Reason: domain.ReasonError,
					Detail: formatRecover(r),
				},
			}}
			matchEnded = true
		}
	}()

	events = Step(l.World)
	for _, e := range events {
		if e.Kind == domain.EventMatchEnd {
			matchEnded = true
		}
	}
	return events, matchEnded
}

func formatRecover(r interface{}) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	if s, ok := r.(string); ok {
		return s
	}
	return "simulation panic"
}

// Stop requests the loop to exit before its next scheduled tick
// batch. Idempotent: closing an already-closed channel would panic,
// so a stopped flag guards it.
func (l *Loop) Stop() {
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.stopCh)
}
