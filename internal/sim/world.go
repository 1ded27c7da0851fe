// Package sim holds the authoritative tick-driven simulation: world
// construction, the action starters player code calls through the tank
// API, the per-tick applicator, the canonical step order, and the
// fixed-timestep real-time loop that drives it. Nothing in this
// package touches goja or a network socket; it only knows about
// *domain.World and plain Go values, which is what makes P1
// (determinism) and package-level unit testing possible without
// standing up a sandbox or a server.
package sim

import (
	"math"

	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/rng"
)

// PlayerSpec is one participant's class choice, keyed by slot. World
// construction only needs the class tag; the source code and runtime
// wiring live above this package.
type PlayerSpec struct {
	Slot  domain.Slot
	Class domain.TankClass
}

// CreateWorld places len(players) tanks evenly around a ring centered
// on the arena, each facing the center, with stats drawn from the
// class table. The ring's rotational offset is drawn once from the
// freshly seeded PRNG so starting positions are fair (no player
// structurally favored) and reproducible (same seed, same layout).
func CreateWorld(seed int64, constants domain.Constants, players []PlayerSpec) *domain.World {
	source := rng.New(uint32(seed))

	w := &domain.World{
		T:           0,
		Seed:        seed,
		Constants:   constants,
		RNG:         source,
		Tanks:       make(map[domain.Slot]*domain.Tank, len(players)),
		Projectiles: make(map[domain.ProjectileID]*domain.Projectile),
	}

	cx := constants.ArenaWidth / 2
	cy := constants.ArenaHeight / 2
	radius := 0.55 * math.Min(constants.ArenaWidth, constants.ArenaHeight) / 2

	offset := source.Float64() * 360
	n := len(players)

	for i, p := range players {
		bearingDeg := offset + 360*float64(i)/float64(n)
		bearingRad := bearingDeg * math.Pi / 180

		x := cx + radius*math.Cos(bearingRad)
		y := cy + radius*math.Sin(bearingRad)

		// Face the arena center: heading is the bearing from the tank
		// toward (cx, cy), which is the reverse of its own placement
		// bearing around the ring.
		heading := domain.NormalizeDeg(bearingDeg + 180)

		stats := constants.Classes[p.Class]

		w.Tanks[p.Slot] = &domain.Tank{
			Slot:  p.Slot,
			Class: p.Class,
			Pose: domain.Pose{
				X:       x,
				Y:       y,
				Heading: heading,
			},
			Stats: stats,
			HP:    stats.MaxHP,
		}
	}

	return w
}
