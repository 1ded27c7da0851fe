// Package geometry holds the pure, world-independent math the
// simulation needs. Keeping it free of any *domain.World dependency
// means it can be called both from the per-tick action applicator (to
// resolve a completing scan) and from snapshot construction (to render
// a "found" hint alongside an in-flight scan) without either caller
// owning the math — mirrors the teacher's HasLineOfSight, a pure
// function taking only the positions and map it needs.
package geometry

import "math"

// NormalizeDeg folds any real angle into [0, 360) using real-number
// mod, so it behaves correctly for negative inputs too.
func NormalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// InArc reports whether the point (targetX, targetY) lies inside the
// heading-relative clockwise arc [aDeg, bDeg] swept from a scanner at
// (x, y, headingDeg), within range.
//
// The arc bounds are clockwise from a to b; a == b (after
// normalization) is a full circle. Coincident scanner/target points
// are always accepted (the convention that "any arc contains a point
// at the scanner's own location").
func InArc(x, y, headingDeg float64, targetX, targetY float64, aDeg, bDeg, rng float64) bool {
	dx := targetX - x
	dy := targetY - y

	distSq := dx*dx + dy*dy
	if distSq > rng*rng {
		return false
	}
	if dx == 0 && dy == 0 {
		return true
	}

	bearing := NormalizeDeg(radToDeg(math.Atan2(dy, dx)))
	relBearing := NormalizeDeg(bearing - headingDeg)

	a := NormalizeDeg(aDeg)
	b := NormalizeDeg(bDeg)
	if a == b {
		return true
	}

	arcSpan := NormalizeDeg(b - a)
	offset := NormalizeDeg(relBearing - a)

	return offset <= arcSpan
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
