package sim

import (
	"math"

	"github.com/philippe-ths/tanks/internal/domain"
)

// startTimed is the shared acceptance/bookkeeping path for every timed
// action starter: accept iff idle, then commit busyUntil and
// activeAction. Returns the same "accepted" boolean every starter
// returns to its caller.
func startTimed(w *domain.World, slot domain.Slot, duration float64, action domain.ActiveAction) bool {
	tank, ok := w.Tanks[slot]
	if !ok || !tank.Alive() {
		return false
	}
	if !tank.IsIdle(w.T) {
		return false
	}

	tank.BusyUntil = w.T + duration
	tank.ActiveAction = action
	return true
}

// turnDuration resolves the optional "degrees" argument for turnLeft
// and turnRight: an explicit degrees rescales the default action
// duration to |degrees|/turnRate; omitting it (degrees == nil) uses
// the default duration outright, which corresponds to turnRate *
// actionDuration degrees of rotation.
func turnDuration(w *domain.World, tank *domain.Tank, degrees *float64) float64 {
	if degrees == nil {
		return w.Constants.ActionDuration
	}
	return math.Abs(*degrees) / tank.Stats.TurnRate
}

// TurnLeft starts a turnLeft action. degrees is optional; pass nil for
// the default duration.
func TurnLeft(w *domain.World, slot domain.Slot, degrees *float64) bool {
	tank, ok := w.Tanks[slot]
	if !ok {
		return false
	}
	duration := turnDuration(w, tank, degrees)
	return startTimed(w, slot, duration, domain.ActiveAction{Kind: domain.ActionTurnLeft})
}

// TurnRight starts a turnRight action. degrees is optional; pass nil
// for the default duration.
func TurnRight(w *domain.World, slot domain.Slot, degrees *float64) bool {
	tank, ok := w.Tanks[slot]
	if !ok {
		return false
	}
	duration := turnDuration(w, tank, degrees)
	return startTimed(w, slot, duration, domain.ActiveAction{Kind: domain.ActionTurnRight})
}

// MoveForward starts a moveForward action at the default duration.
func MoveForward(w *domain.World, slot domain.Slot) bool {
	return startTimed(w, slot, w.Constants.ActionDuration, domain.ActiveAction{Kind: domain.ActionMoveForward})
}

// MoveBackward starts a moveBackward action at the default duration.
func MoveBackward(w *domain.World, slot domain.Slot) bool {
	return startTimed(w, slot, w.Constants.ActionDuration, domain.ActiveAction{Kind: domain.ActionMoveBackward})
}

// Scan starts a scan action. aDeg/bDeg are heading-relative, clockwise,
// resolved at completion time against the tank's position then (see
// ApplyActions).
func Scan(w *domain.World, slot domain.Slot, aDeg, bDeg float64) bool {
	return startTimed(w, slot, w.Constants.ActionDuration, domain.ActiveAction{
		Kind: domain.ActionScan,
		ADeg: aDeg,
		BDeg: bDeg,
	})
}

// Shoot is an instant action: it fails if the shooter already has a
// live projectile (the one-shot rule, invariant I2), otherwise it
// spawns a projectile just outside the tank's hull along its current
// heading so the shooter cannot be hit by its own shot on tick 0.
func Shoot(w *domain.World, slot domain.Slot) bool {
	tank, ok := w.Tanks[slot]
	if !ok || !tank.Alive() {
		return false
	}
	if tank.HasActiveProjectile {
		return false
	}

	headingRad := tank.Pose.Heading * math.Pi / 180
	offset := w.Constants.TankRadius + w.Constants.ProjectileRadius + 1

	id := w.NewProjectileID()
	proj := &domain.Projectile{
		ID:    id,
		Owner: slot,
		X:     tank.Pose.X + math.Cos(headingRad)*offset,
		Y:     tank.Pose.Y + math.Sin(headingRad)*offset,
		VX:    math.Cos(headingRad) * w.Constants.ProjectileSpeed,
		VY:    math.Sin(headingRad) * w.Constants.ProjectileSpeed,
	}

	w.Projectiles[id] = proj
	tank.ActiveProjectileID = id
	tank.HasActiveProjectile = true
	return true
}
