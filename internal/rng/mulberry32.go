// Package rng provides the engine's single deterministic PRNG: a
// Mulberry32 generator. It is tiny, fast, and its numeric sequence is
// stable across implementations because it operates purely on
// unsigned 32-bit wraparound arithmetic — the same property that lets
// property P9 (PRNG determinism) hold across ports of this engine to
// other languages.
package rng

// Mulberry32 is a seeded uniform [0,1) generator. The zero value is
// usable and behaves as if seeded with 0.
type Mulberry32 struct {
	state uint32
}

// New returns a Mulberry32 generator seeded from a 32-bit integer.
// Non-integer or out-of-range seeds should be coerced by the caller
// before reaching here (uint32 wraps as Go's numeric conversion rules
// dictate, matching the spec's "coerced to 32-bit" misuse handling).
func New(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Seed resets the generator's internal state.
func (m *Mulberry32) Seed(seed uint32) {
	m.state = seed
}

// Float64 returns the next value in [0, 1). uint32 arithmetic wraps
// exactly the way Math.imul/|0 truncation does in the reference
// Mulberry32 implementation, so this sequence matches it bit for bit.
func (m *Mulberry32) Float64() float64 {
	m.state += 0x6D2B79F5
	t := m.state

	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	t ^= t >> 14

	return float64(t) / 4294967296.0
}

// Source is the minimal interface the simulation needs from a PRNG.
// It exists so callers that never touch a concrete Mulberry32 (tests,
// alternate seeding strategies) can substitute their own.
type Source interface {
	Float64() float64
}
