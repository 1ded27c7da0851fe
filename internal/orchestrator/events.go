package orchestrator

import "github.com/philippe-ths/tanks/internal/domain"

// The types below are the wire-shape of the events the broadcaster
// collaborator receives, so nothing outside this package needs to know
// domain.Event's internal tagged-union representation.

// TankInfo is the static per-tank identity carried in MatchStart.
type TankInfo struct {
	Slot     domain.Slot
	TankType domain.TankClass
	Name     string
}

// MatchStart is emitted once when a match begins.
type MatchStart struct {
	Seed      int64
	Constants domain.Constants
	Tanks     map[domain.Slot]TankInfo
}

// ScanHint is the optional live scan overlay attached to a tank in a
// snapshot: present iff that tank currently has a scan in flight.
type ScanHint struct {
	ADeg  float64
	BDeg  float64
	Found bool
}

// TankSnapshot is one tank's row in a State snapshot.
type TankSnapshot struct {
	Slot       domain.Slot
	X, Y       float64
	HeadingDeg float64
	HP         int
	TankType   domain.TankClass
	Scan       *ScanHint
}

// ProjectileSnapshot is one projectile's row in a State snapshot.
type ProjectileSnapshot struct {
	Owner domain.Slot
	X, Y  float64
}

// State is emitted at the throttled snapshot rate.
type State struct {
	T           float64
	Tanks       []TankSnapshot
	Projectiles []ProjectileSnapshot
}

// MatchEnd is emitted once, in place of further State snapshots.
type MatchEnd struct {
	Winner    domain.Slot
	HasWinner bool
	Reason    domain.MatchEndReason
	Detail    string
}

// Forfeit is emitted whenever a runtime error or a watchdog timeout
// kills a tank mid-match; the match itself continues.
type Forfeit struct {
	Slot  domain.Slot
	Error string
}

// Broadcaster receives the match's externally-visible events. The
// wire protocol, fan-out to individual client connections, and LAN
// discovery all live in internal/network above this interface; this
// package only needs somewhere to hand events to.
type Broadcaster interface {
	MatchStart(MatchStart)
	State(State)
	MatchEnd(MatchEnd)
	Forfeit(Forfeit)
}
