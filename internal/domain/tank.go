package domain

import "math"

// Pose is a tank's position and heading. Heading follows the
// convention 0deg = +x, growing clockwise (y grows downward on the
// arena's screen-space axes, so clockwise-positive degrees need no
// sign flip against atan2).
type Pose struct {
	X, Y    float64
	Heading float64 // degrees, normalized to [0, 360)
}

// NormalizeDeg folds any real angle into [0, 360).
func NormalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// Tank is one per-player participant. Zero value is not meaningful;
// construct via sim.CreateWorld.
type Tank struct {
	Slot  Slot
	Class TankClass

	Pose Pose

	Stats ClassStats

	HP int // clamped to >= 0; 0 means dead

	// BusyUntil is the simulated time at which ActiveAction completes.
	// Zero means idle (no tank ever has a legitimate busyUntil of
	// exactly zero once it has acted, since Step always advances t
	// before any action could complete at t==0; the zero value purely
	// signals "never been assigned a deadline").
	BusyUntil float64

	ActiveAction ActiveAction

	// ActiveProjectileID is the id of this tank's single live
	// projectile; HasActiveProjectile is false if it has none
	// (enforces the one-shot rule, invariant I2).
	ActiveProjectileID  ProjectileID
	HasActiveProjectile bool
	LastScanResult      bool
}

// Alive reports whether this tank still has hit points.
func (t *Tank) Alive() bool {
	return t.HP > 0
}

// IsIdle reports whether the tank may accept a new timed action at
// simulated time t, honoring the epsilon tolerance against
// floating-point accumulation across many tick increments.
func (t *Tank) IsIdle(t0 float64) bool {
	return t.ActiveAction.IsNone() || t0 >= t.BusyUntil-Epsilon
}

// ApplyDamage subtracts amount from HP, floored at zero. Returns true
// if this damage killed the tank (HP hit zero on this call).
func (t *Tank) ApplyDamage(amount int) bool {
	if t.HP <= 0 {
		return false
	}
	t.HP -= amount
	if t.HP < 0 {
		t.HP = 0
	}
	return t.HP == 0
}

// ClampToArena confines the tank's center to the inset rectangle
// [R, W-R] x [R, H-R], enforcing invariant I4.
func (p *Pose) ClampToArena(w Constants) {
	r := w.TankRadius
	if p.X < r {
		p.X = r
	} else if p.X > w.ArenaWidth-r {
		p.X = w.ArenaWidth - r
	}
	if p.Y < r {
		p.Y = r
	} else if p.Y > w.ArenaHeight-r {
		p.Y = w.ArenaHeight - r
	}
}
