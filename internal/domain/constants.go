package domain

// TankClass identifies which row of derived stats a tank uses.
type TankClass string

const (
	ClassLight TankClass = "light"
	ClassHeavy TankClass = "heavy"
)

// ClassStats is one row of the class table: HP, movement, and turning
// derive entirely from the class tag chosen by the player program.
type ClassStats struct {
	MaxHP     int
	MoveSpeed float64 // units/s
	TurnRate  float64 // deg/s
}

// Constants is a frozen snapshot taken at match start. Every value that
// influences simulation outcome lives here rather than as a package
// global, so two concurrent matches never share tuning state and a
// test can freely vary any of them (see Q1 in DESIGN.md for the heavy
// class's MoveSpeed in particular).
type Constants struct {
	ArenaWidth  float64
	ArenaHeight float64

	TickRate int // Hz, canonical 60

	ActionDuration float64 // seconds of simulated time, canonical 1.0

	ScanRange float64

	TankRadius float64

	ProjectileRadius float64
	ProjectileSpeed  float64
	ProjectileDamage int

	Classes map[TankClass]ClassStats

	SnapshotRate   int // Hz, canonical 20
	MatchTimeLimit float64

	MaxCodeSize int // bytes
}

// DefaultConstants returns the canonical numeric constants from the
// specification. Classes[ClassHeavy].MoveSpeed defaults to 60 (Q1 is left open by the
// source documents; 60 matches the "light is nimble, heavy is slow and
// tough" reading, with 100 available to callers that want the other
// interpretation — see DESIGN.md).
func DefaultConstants() Constants {
	return Constants{
		ArenaWidth:  1200,
		ArenaHeight: 800,

		TickRate: 60,

		ActionDuration: 1.0,

		ScanRange: 700,

		TankRadius: 18,

		ProjectileRadius: 4,
		ProjectileSpeed:  420,
		ProjectileDamage: 20,

		Classes: map[TankClass]ClassStats{
			ClassLight: {MaxHP: 60, MoveSpeed: 160, TurnRate: 120},
			ClassHeavy: {MaxHP: 120, MoveSpeed: 60, TurnRate: 90},
		},

		SnapshotRate:   20,
		MatchTimeLimit: 180,

		MaxCodeSize: 50 * 1024,
	}
}

// Dt returns the fixed simulated-time slice of one tick.
func (c Constants) Dt() float64 {
	return 1.0 / float64(c.TickRate)
}

// Epsilon absorbs floating-point accumulation across many tick
// increments when comparing simulated time against a busyUntil deadline.
const Epsilon = 1e-9
