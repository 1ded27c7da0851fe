package geometry

import (
	"math"
	"testing"
)

func TestInArc_DirectlyAhead(t *testing.T) {
	// Scenario 2: scanner facing +x, opponent straight ahead.
	got := InArc(100, 100, 0, 200, 100, -30, 30, 700)
	if !got {
		t.Fatal("expected opponent directly ahead to be inside a +-30deg forward arc")
	}
}

func TestInArc_WrapAroundRearArc(t *testing.T) {
	// Scenario 3: opponent due west, scanning the rear arc (wraps
	// through 180deg) should find it; the forward arc should not.
	if got := InArc(100, 100, 0, 0, 100, 170, -170, 700); !got {
		t.Fatal("expected rear arc scan(170,-170) to find opponent due west")
	}
	if got := InArc(100, 100, 0, 0, 100, -30, 30, 700); got {
		t.Fatal("expected forward arc scan(-30,30) to miss opponent due west")
	}
}

func TestInArc_OutOfRangeRejectsEvenInsideArc(t *testing.T) {
	// Scenario 4: bearing is inside the arc but the target is out of range.
	got := InArc(0, 0, 90, 0, 800, -45, 45, 700)
	if got {
		t.Fatal("expected out-of-range target to be rejected despite matching bearing")
	}
}

func TestInArc_FullCircleAcceptsAnyBearingInRange(t *testing.T) {
	// Property P7: scan(theta, theta) is true for any theta iff an
	// opponent exists within range, regardless of bearing.
	for _, theta := range []float64{0, 45, 90, 180, 270, -30, 720} {
		if !InArc(0, 0, 33, 100, 100, theta, theta, 1000) {
			t.Fatalf("full circle scan(%v,%v) should accept any in-range target", theta, theta)
		}
	}
}

func TestInArc_CoincidentPointsAlwaysAccepted(t *testing.T) {
	if !InArc(50, 50, 10, 50, 50, 0, 1, 100) {
		t.Fatal("coincident scanner/target should always be accepted")
	}
}

// Property P6: if InArc returns true because distance passes, then
// |AB| <= range; if it returns false due to distance, |AB| > range.
func TestInArc_RangeConsistency_Property(t *testing.T) {
	cases := []struct {
		x, y, heading, tx, ty, a, b, rng float64
	}{
		{0, 0, 0, 10, 0, -10, 10, 5},
		{0, 0, 0, 10, 0, -10, 10, 20},
		{0, 0, 45, 500, 500, 0, 360, 707},
		{0, 0, 45, 500, 500, 0, 360, 706},
	}

	for _, c := range cases {
		dist := math.Hypot(c.tx-c.x, c.ty-c.y)
		got := InArc(c.x, c.y, c.heading, c.tx, c.ty, c.a, c.b, c.rng)
		if got && dist > c.rng {
			t.Fatalf("InArc returned true but distance %v exceeds range %v", dist, c.rng)
		}
	}
}

func TestNormalizeDeg(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-1, 359},
		{-361, 359},
		{720, 0},
		{45, 45},
	}
	for _, tt := range tests {
		if got := NormalizeDeg(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeDeg(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
