package sim

import (
	"testing"

	"github.com/philippe-ths/tanks/internal/domain"
)

func TestStep_ProjectileHitsDealsDamageAndConsumesShot(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")
	w.Tanks["p1"].Pose = domain.Pose{X: 100, Y: 100, Heading: 0}
	w.Tanks["p2"].Pose = domain.Pose{X: 150, Y: 100, Heading: 180}

	Shoot(w, "p1")

	startHP := w.Tanks["p2"].HP
	var hit *domain.HitEvent
	for i := 0; i < 10 && hit == nil; i++ {
		for _, e := range Step(w) {
			if e.Kind == domain.EventHit {
				hit = e.Hit
			}
		}
	}

	if hit == nil {
		t.Fatal("expected a hit event within 10 ticks")
	}
	if hit.Target != "p2" || hit.Owner != "p1" {
		t.Fatalf("unexpected hit event: %+v", hit)
	}
	if w.Tanks["p2"].HP != startHP-w.Constants.ProjectileDamage {
		t.Fatalf("hp = %d, want %d", w.Tanks["p2"].HP, startHP-w.Constants.ProjectileDamage)
	}
	if len(w.Projectiles) != 0 {
		t.Fatal("expected the consumed projectile to be removed from the world")
	}
	if w.Tanks["p1"].HasActiveProjectile {
		t.Fatal("expected the owner's active-projectile slot to be cleared on hit")
	}
}

func TestStep_ProjectileDespawnsOutOfBounds(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")
	w.Tanks["p1"].Pose = domain.Pose{X: 30, Y: 400, Heading: 180}
	w.Tanks["p2"].Pose = domain.Pose{X: 1100, Y: 400, Heading: 0}

	Shoot(w, "p1")

	var despawn *domain.DespawnEvent
	for i := 0; i < 30 && despawn == nil; i++ {
		for _, e := range Step(w) {
			if e.Kind == domain.EventDespawn {
				despawn = e.Despawn
			}
		}
	}

	if despawn == nil {
		t.Fatal("expected the projectile to despawn once it left the arena")
	}
	if w.Tanks["p1"].HasActiveProjectile {
		t.Fatal("expected the owner's active-projectile slot to be cleared on despawn")
	}
	if !Shoot(w, "p1") {
		t.Fatal("expected shoot to be accepted again once the prior shot despawned")
	}
}

func TestStep_MatchEndsOnSingleSurvivor(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")
	w.Tanks["p2"].HP = 1
	w.Tanks["p1"].Pose = domain.Pose{X: 100, Y: 100, Heading: 0}
	w.Tanks["p2"].Pose = domain.Pose{X: 150, Y: 100, Heading: 180}

	Shoot(w, "p1")

	var end *domain.MatchEndEvent
	for i := 0; i < 10 && end == nil; i++ {
		for _, e := range Step(w) {
			if e.Kind == domain.EventMatchEnd {
				end = e.MatchEnd
			}
		}
	}

	if end == nil {
		t.Fatal("expected a matchEnd event once p2's hp reached zero")
	}
	if !end.HasWinner || end.Winner != "p1" {
		t.Fatalf("unexpected matchEnd: %+v", end)
	}
	if end.Reason != domain.ReasonHP {
		t.Fatalf("reason = %v, want hp", end.Reason)
	}
}

func TestStep_MatchEndsDoubleKOWithNoWinner(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")
	w.Tanks["p1"].HP = 0
	w.Tanks["p2"].HP = 0

	var end *domain.MatchEndEvent
	for _, e := range Step(w) {
		if e.Kind == domain.EventMatchEnd {
			end = e.MatchEnd
		}
	}

	if end == nil {
		t.Fatal("expected a matchEnd event")
	}
	if end.HasWinner {
		t.Fatal("expected no winner on a double KO")
	}
	if end.Reason != domain.ReasonDoubleKO {
		t.Fatalf("reason = %v, want double_ko", end.Reason)
	}
}

func TestStep_MatchEndsOnTimeoutWithHigherHPWinner(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")
	w.Tanks["p1"].HP = 40
	w.Tanks["p2"].HP = 10
	w.T = w.Constants.MatchTimeLimit - w.Constants.Dt()/2

	var end *domain.MatchEndEvent
	for _, e := range Step(w) {
		if e.Kind == domain.EventMatchEnd {
			end = e.MatchEnd
		}
	}

	if end == nil {
		t.Fatal("expected a matchEnd event at the time limit")
	}
	if !end.HasWinner || end.Winner != "p1" {
		t.Fatalf("unexpected matchEnd: %+v", end)
	}
	if end.Reason != domain.ReasonTimeout {
		t.Fatalf("reason = %v, want timeout", end.Reason)
	}
}

func TestStep_MatchEndsOnTimeoutTieHasNoWinner(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")
	w.Tanks["p1"].HP = 40
	w.Tanks["p2"].HP = 40
	w.T = w.Constants.MatchTimeLimit

	var end *domain.MatchEndEvent
	for _, e := range Step(w) {
		if e.Kind == domain.EventMatchEnd {
			end = e.MatchEnd
		}
	}

	if end == nil {
		t.Fatal("expected a matchEnd event at the time limit")
	}
	if end.HasWinner {
		t.Fatal("expected a tied timeout to have no winner")
	}
}

// Property P1: determinism. Two worlds built from the same seed, same
// class choices, and the same action-start sequence must produce
// bit-identical tank state at every tick.
func TestStep_DeterministicAcrossIdenticalRuns(t *testing.T) {
	run := func() domain.Tank {
		w := newTestWorld(t, "p1", "p2")
		MoveForward(w, "p1")
		TurnRight(w, "p2", nil)
		for i := 0; i < 120; i++ {
			Step(w)
		}
		return *w.Tanks["p1"]
	}

	a := run()
	b := run()

	if a.Pose != b.Pose || a.HP != b.HP || a.BusyUntil != b.BusyUntil {
		t.Fatalf("runs diverged: %+v vs %+v", a, b)
	}
}

// Property R2: stepping a world that has already concluded is a
// no-op. Once MatchEnd has fired, further Step calls must keep
// re-reporting the same conclusion without mutating tank state.
func TestStep_IsIdempotentPastMatchEnd(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")
	w.Tanks["p2"].HP = 0

	var first *domain.MatchEndEvent
	for _, e := range Step(w) {
		if e.Kind == domain.EventMatchEnd {
			first = e.MatchEnd
		}
	}
	if first == nil {
		t.Fatal("expected a matchEnd event")
	}

	snapshot := *w.Tanks["p1"]
	for i := 0; i < 5; i++ {
		var again *domain.MatchEndEvent
		for _, e := range Step(w) {
			if e.Kind == domain.EventMatchEnd {
				again = e.MatchEnd
			}
		}
		if again == nil || *again != *first {
			t.Fatalf("matchEnd changed on repeated step: %+v vs %+v", again, first)
		}
	}
	if *w.Tanks["p1"] != snapshot {
		t.Fatal("expected no further tank state mutation once the match has ended")
	}
}

// Property P4: at most one in-flight timed action per tank. A second
// timed action attempted while the first is still busy must be
// rejected outright, never queued or silently dropped.
func TestStep_OnlyOneInFlightActionPerTank(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")

	if !MoveForward(w, "p1") {
		t.Fatal("expected the first action to be accepted")
	}
	if TurnLeft(w, "p1", nil) {
		t.Fatal("expected a second timed action to be rejected while busy")
	}
	if MoveBackward(w, "p1") {
		t.Fatal("expected a third timed action to be rejected while busy")
	}

	for !w.Tanks["p1"].IsIdle(w.T) {
		Step(w)
	}

	if !TurnLeft(w, "p1", nil) {
		t.Fatal("expected a new action to be accepted once idle again")
	}
}

// Property P10: a dead tank is quiescent. Once HP reaches zero, Step
// must never again emit an ActionComplete for that tank, even if it
// had an action in flight at the moment it died.
func TestStep_DeadTankEmitsNoFurtherActionCompletes(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")
	MoveForward(w, "p1")
	w.Tanks["p1"].HP = 0

	for i := 0; i < 120; i++ {
		for _, e := range Step(w) {
			if e.Kind == domain.EventActionComplete && e.ActionComplete.Slot == "p1" {
				t.Fatal("expected no ActionComplete for a dead tank")
			}
		}
	}
}

// Invariant I6: one Step advances simulated time by exactly one dt.
// Only the time delta is checked here, not tank pose.
func TestStep_TickAdvancesTimeByExactlyOneDt(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")
	before := w.T
	Step(w)
	got := w.T - before
	want := w.Constants.Dt()
	if got < want-domain.Epsilon || got > want+domain.Epsilon {
		t.Fatalf("tick advanced time by %v, want exactly %v", got, want)
	}
}

// Property P3: arena containment. A tank driven forward for far
// longer than it takes to cross the arena must end up clamped inside
// the inset rectangle, never beyond it.
func TestStep_ArenaContainment(t *testing.T) {
	w := newTestWorld(t, "p1", "p2")
	tank := w.Tanks["p1"]
	tank.Pose = domain.Pose{X: w.Constants.ArenaWidth - 50, Y: 100, Heading: 0}

	for i := 0; i < 10; i++ {
		MoveForward(w, "p1")
		for !tank.IsIdle(w.T) {
			Step(w)
		}
	}

	r := w.Constants.TankRadius
	if tank.Pose.X < r || tank.Pose.X > w.Constants.ArenaWidth-r {
		t.Fatalf("x = %v escaped the inset bounds", tank.Pose.X)
	}
}
