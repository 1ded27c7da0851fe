package sim

import (
	"math"

	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/geometry"
)

// ApplyActions is called by Step before anything else each tick. For
// every alive tank with a non-nil activeAction it applies the
// per-tick kinematic effect, then checks for completion. Iteration is
// over AllSlots (sorted) rather than the Tanks map directly so that
// two runs with the same seed and action sequence visit tanks in the
// same order every time (invariant I7) even though none of the
// per-tick effects here actually depend on visitation order yet —
// scan resolution, which does depend on every other tank's current
// pose, is evaluated after all kinematics for this tick have already
// been applied by the time any scan in this same tick resolves,
// because dt has already been folded into every tank's pose above.
func ApplyActions(w *domain.World, dt float64) []domain.Event {
	var events []domain.Event

	for _, slot := range w.AllSlots() {
		tank := w.Tanks[slot]
		if !tank.Alive() || tank.ActiveAction.IsNone() {
			continue
		}
		applyKinematics(w, tank, dt)
	}

	for _, slot := range w.AllSlots() {
		tank := w.Tanks[slot]
		if !tank.Alive() || tank.ActiveAction.IsNone() {
			continue
		}

		if w.T+dt < tank.BusyUntil-domain.Epsilon {
			continue
		}

		kind := tank.ActiveAction.Kind
		var scanResult bool
		if kind == domain.ActionScan {
			scanResult = resolveScan(w, tank)
			tank.LastScanResult = scanResult
		}

		events = append(events, domain.Event{
			Kind: domain.EventActionComplete,
			ActionComplete: &domain.ActionCompleteEvent{
				Slot:       slot,
				ActionKind: kind,
				ScanResult: scanResult,
			},
		})

		tank.ActiveAction = domain.ActiveAction{}
	}

	return events
}

func applyKinematics(w *domain.World, tank *domain.Tank, dt float64) {
	switch tank.ActiveAction.Kind {
	case domain.ActionTurnLeft:
		tank.Pose.Heading = domain.NormalizeDeg(tank.Pose.Heading - tank.Stats.TurnRate*dt)
	case domain.ActionTurnRight:
		tank.Pose.Heading = domain.NormalizeDeg(tank.Pose.Heading + tank.Stats.TurnRate*dt)
	case domain.ActionMoveForward:
		headingRad := tank.Pose.Heading * math.Pi / 180
		tank.Pose.X += math.Cos(headingRad) * tank.Stats.MoveSpeed * dt
		tank.Pose.Y += math.Sin(headingRad) * tank.Stats.MoveSpeed * dt
		tank.Pose.ClampToArena(w.Constants)
	case domain.ActionMoveBackward:
		headingRad := tank.Pose.Heading * math.Pi / 180
		tank.Pose.X -= math.Cos(headingRad) * tank.Stats.MoveSpeed * dt
		tank.Pose.Y -= math.Sin(headingRad) * tank.Stats.MoveSpeed * dt
		tank.Pose.ClampToArena(w.Constants)
	case domain.ActionScan:
		// no kinematic effect
	}
}

// resolveScan evaluates the scan arc test (§4.C in spirit, geometry.InArc
// in code) against every other alive tank using current positions,
// i.e. at completion time rather than at the moment the scan started.
// Iterating AllSlots keeps the result independent of map order even
// though the predicate is a pure OR over opponents and so does not
// itself depend on visitation order — the determinism discipline is
// applied uniformly rather than case-by-case.
func resolveScan(w *domain.World, scanner *domain.Tank) bool {
	action := scanner.ActiveAction
	for _, slot := range w.AllSlots() {
		if slot == scanner.Slot {
			continue
		}
		target := w.Tanks[slot]
		if !target.Alive() {
			continue
		}
		if geometry.InArc(scanner.Pose.X, scanner.Pose.Y, scanner.Pose.Heading, target.Pose.X, target.Pose.Y, action.ADeg, action.BDeg, w.Constants.ScanRange) {
			return true
		}
	}
	return false
}
