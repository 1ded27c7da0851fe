package replay

import "github.com/philippe-ths/tanks/internal/domain"

// Recorder accumulates accepted actions tick by tick. It has no
// locking of its own: callers (the orchestrator) only ever append from
// the simulation's single-writer goroutine, the same guarantee
// *domain.World itself relies on.
type Recorder struct {
	actions []Action
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one accepted action at tick.
func (r *Recorder) Record(tick int64, slot domain.Slot, kind domain.ActionKind, degrees *float64, aDeg, bDeg float64, shoot bool) {
	r.actions = append(r.actions, Action{
		Tick:    tick,
		Slot:    slot,
		Kind:    kind,
		Degrees: degrees,
		ADeg:    aDeg,
		BDeg:    bDeg,
		Shoot:   shoot,
	})
}

// Session finalizes the recording into a complete Session ready for Save.
func (r *Recorder) Session(seed int64, constants domain.Constants, timestamp int64, participants []ParticipantInfo) *Session {
	return &Session{
		Seed:         seed,
		Constants:    constants,
		Timestamp:    timestamp,
		Participants: participants,
		Actions:      r.actions,
	}
}
