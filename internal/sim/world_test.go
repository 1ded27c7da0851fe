package sim

import (
	"math"
	"testing"

	"github.com/philippe-ths/tanks/internal/domain"
)

func TestCreateWorld_TanksFaceCenterAndStartIdle(t *testing.T) {
	constants := domain.DefaultConstants()
	players := []PlayerSpec{
		{Slot: "p1", Class: domain.ClassLight},
		{Slot: "p2", Class: domain.ClassHeavy},
	}
	w := CreateWorld(42, constants, players)

	if w.T != 0 {
		t.Fatalf("t = %v, want 0", w.T)
	}
	if len(w.Tanks) != 2 || len(w.Projectiles) != 0 {
		t.Fatalf("unexpected initial world shape: %d tanks, %d projectiles", len(w.Tanks), len(w.Projectiles))
	}

	cx, cy := constants.ArenaWidth/2, constants.ArenaHeight/2
	for slot, tank := range w.Tanks {
		if !tank.ActiveAction.IsNone() {
			t.Fatalf("%s: expected idle at spawn", slot)
		}
		if tank.HasActiveProjectile {
			t.Fatalf("%s: expected no active projectile at spawn", slot)
		}

		wantHeading := domain.NormalizeDeg(radToDegLocal(math.Atan2(cy-tank.Pose.Y, cx-tank.Pose.X)))
		diff := math.Abs(domain.NormalizeDeg(tank.Pose.Heading - wantHeading))
		if diff > 1e-6 && math.Abs(diff-360) > 1e-6 {
			t.Fatalf("%s: heading %v does not face the center (want ~%v)", slot, tank.Pose.Heading, wantHeading)
		}
	}
}

func TestCreateWorld_SameSeedProducesSameLayout(t *testing.T) {
	constants := domain.DefaultConstants()
	players := []PlayerSpec{
		{Slot: "p1", Class: domain.ClassLight},
		{Slot: "p2", Class: domain.ClassLight},
		{Slot: "p3", Class: domain.ClassHeavy},
	}

	a := CreateWorld(99, constants, players)
	b := CreateWorld(99, constants, players)

	for _, slot := range a.AllSlots() {
		if a.Tanks[slot].Pose != b.Tanks[slot].Pose {
			t.Fatalf("%s: pose diverged between identically seeded worlds", slot)
		}
	}
}

func TestCreateWorld_DifferentSeedsDiverge(t *testing.T) {
	constants := domain.DefaultConstants()
	players := []PlayerSpec{
		{Slot: "p1", Class: domain.ClassLight},
		{Slot: "p2", Class: domain.ClassLight},
	}

	a := CreateWorld(1, constants, players)
	b := CreateWorld(2, constants, players)

	if a.Tanks["p1"].Pose == b.Tanks["p1"].Pose {
		t.Fatal("expected different seeds to produce a different rotational offset")
	}
}

func radToDegLocal(rad float64) float64 {
	return rad * 180 / math.Pi
}
