// Package replay records and reconstructs a match's action log: the
// seed, constants, and participants needed to replay a match
// deterministically (component A + the seeded PRNG in internal/rng
// guarantee the same inputs reproduce the same outcome), plus the
// ordered list of actions each player issued and the tick each one was
// accepted on. Adapted from the teacher's internal/infrastructure/storage
// (domain.ReplaySession, the CDRP binary framing in writer.go/reader.go),
// generalized from a roguelike turn log to a tick-stamped tank action
// log and wired to github.com/klauspost/compress for the action body.
package replay

import "github.com/philippe-ths/tanks/internal/domain"

const (
	magicHeader   = "TNKR"
	formatVersion uint32 = 1
)

// ParticipantInfo is the static per-slot identity recorded once at the
// top of a session, mirroring orchestrator.TankInfo without importing
// that package (replay has no business depending on the orchestrator).
type ParticipantInfo struct {
	Slot  domain.Slot
	Class domain.TankClass
	Name  string
}

// Action is one accepted action, tagged with the tick it started on.
// Degrees is nil unless Kind is a turn with an explicit degrees
// argument — mirroring sim.TurnLeft/TurnRight's optional parameter.
// Shoot is independent of Kind: shoot is instant and never occupies
// the tank's busy window. The recorder stores each accepted shot as
// its own Action with Kind == ActionNone and Shoot set; playback also
// accepts an Action carrying both a timed Kind and Shoot.
type Action struct {
	Tick    int64
	Slot    domain.Slot
	Kind    domain.ActionKind
	Degrees *float64
	ADeg    float64 // only meaningful when Kind == ActionScan
	BDeg    float64
	Shoot   bool
}

// Session is a complete recorded match: everything Match needs to
// reconstruct the same run via sim.CreateWorld plus a scripted replay
// of Actions against the same tick cadence.
type Session struct {
	Seed         int64
	Constants    domain.Constants
	Timestamp    int64
	Participants []ParticipantInfo
	Actions      []Action
}
