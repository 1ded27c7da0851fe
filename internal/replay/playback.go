package replay

import (
	"fmt"

	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/sim"
)

// Play deterministically re-simulates a recorded session with no
// sandboxes or player code involved at all: every action in
// session.Actions is fed directly to the matching sim starter at its
// recorded tick, and the world advances exactly as it did the first
// time by invariant I7/P1 (the same seed plus the same input sequence
// reproduces the same outcome). This is the teacher's "Mode: Replay
// Simulation" (cmd/server/main.go's -replay flag), rebuilt against
// sim.Step directly instead of engine.Service's turn-queue playback
// since this server has no turn queue.
func Play(session *Session) ([]domain.Event, error) {
	if session.Constants.TickRate <= 0 {
		return nil, fmt.Errorf("replay: invalid tick rate %d", session.Constants.TickRate)
	}

	specs := make([]sim.PlayerSpec, len(session.Participants))
	for i, p := range session.Participants {
		specs[i] = sim.PlayerSpec{Slot: p.Slot, Class: p.Class}
	}
	world := sim.CreateWorld(session.Seed, session.Constants, specs)

	byTick := make(map[int64][]Action, len(session.Actions))
	var maxTick int64
	for _, a := range session.Actions {
		byTick[a.Tick] = append(byTick[a.Tick], a)
		if a.Tick > maxTick {
			maxTick = a.Tick
		}
	}

	// Safety cap: the match's own time limit bounds how long a
	// legitimate recording can run, plus headroom for actions issued on
	// the final tick to actually resolve.
	maxTicks := int64(session.Constants.MatchTimeLimit*float64(session.Constants.TickRate)) + int64(session.Constants.TickRate)
	if maxTick+1 > maxTicks {
		maxTicks = maxTick + 1
	}

	var allEvents []domain.Event
	for tick := int64(0); tick < maxTicks; tick++ {
		for _, a := range byTick[tick] {
			applyRecordedAction(world, a)
		}

		events := sim.Step(world)
		allEvents = append(allEvents, events...)

		for _, e := range events {
			if e.Kind == domain.EventMatchEnd {
				return allEvents, nil
			}
		}
	}

	return allEvents, nil
}

func applyRecordedAction(w *domain.World, a Action) {
	switch a.Kind {
	case domain.ActionTurnLeft:
		sim.TurnLeft(w, a.Slot, a.Degrees)
	case domain.ActionTurnRight:
		sim.TurnRight(w, a.Slot, a.Degrees)
	case domain.ActionMoveForward:
		sim.MoveForward(w, a.Slot)
	case domain.ActionMoveBackward:
		sim.MoveBackward(w, a.Slot)
	case domain.ActionScan:
		sim.Scan(w, a.Slot, a.ADeg, a.BDeg)
	}
	if a.Shoot {
		sim.Shoot(w, a.Slot)
	}
}
