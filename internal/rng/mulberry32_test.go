package rng

import "testing"

func TestMulberry32DeterministicForSameSeed(t *testing.T) {
	a := New(1234)
	b := New(1234)

	for i := 0; i < 100; i++ {
		av, bv := a.Float64(), b.Float64()
		if av != bv {
			t.Fatalf("sequence diverged at index %d: %v != %v", i, av, bv)
		}
	}
}

func TestMulberry32RangeIsHalfOpenUnit(t *testing.T) {
	m := New(7)
	for i := 0; i < 10000; i++ {
		v := m.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("value %v out of [0,1) range", v)
		}
	}
}

func TestMulberry32DifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	if a.Float64() == b.Float64() {
		t.Fatal("expected different seeds to produce different first values")
	}
}
