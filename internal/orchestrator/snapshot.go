package orchestrator

import (
	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/geometry"
)

// snapshotInterval converts the constants' snapshot rate into a tick
// count: how many ticks elapse between broadcast State messages.
// SnapshotRate <= 0 disables snapshotting entirely (useful for
// headless benchmark runs that only care about the final MatchEnd).
func snapshotInterval(c domain.Constants) uint64 {
	if c.SnapshotRate <= 0 {
		return 0
	}
	interval := c.TickRate / c.SnapshotRate
	if interval < 1 {
		interval = 1
	}
	return uint64(interval)
}

// emitSnapshot builds a State broadcast: tank poses/HP/optional live
// scan hints, plus live projectile positions. The scan hint is
// recomputed at snapshot time with the same pure predicate the
// applicator uses, not cached from whenever the scan started, so a
// slow-updating client still sees a "found" flag consistent with the
// tanks' current positions.
func (m *Match) emitSnapshot() {
	if m.broadcast == nil {
		return
	}

	tanks := make([]TankSnapshot, 0, len(m.world.Tanks))
	for _, slot := range m.world.AllSlots() {
		tank := m.world.Tanks[slot]
		snap := TankSnapshot{
			Slot:       slot,
			X:          tank.Pose.X,
			Y:          tank.Pose.Y,
			HeadingDeg: tank.Pose.Heading,
			HP:         tank.HP,
			TankType:   tank.Class,
		}
		if tank.Alive() && tank.ActiveAction.Kind == domain.ActionScan {
			snap.Scan = &ScanHint{
				ADeg:  tank.ActiveAction.ADeg,
				BDeg:  tank.ActiveAction.BDeg,
				Found: liveScanFound(m.world, tank),
			}
		}
		tanks = append(tanks, snap)
	}

	projectiles := make([]ProjectileSnapshot, 0, len(m.world.Projectiles))
	for _, id := range sortedProjectileIDsForSnapshot(m.world) {
		p := m.world.Projectiles[id]
		projectiles = append(projectiles, ProjectileSnapshot{Owner: p.Owner, X: p.X, Y: p.Y})
	}

	m.broadcast.State(State{T: m.world.T, Tanks: tanks, Projectiles: projectiles})
}

func liveScanFound(w *domain.World, scanner *domain.Tank) bool {
	for _, slot := range w.AllSlots() {
		if slot == scanner.Slot {
			continue
		}
		target := w.Tanks[slot]
		if !target.Alive() {
			continue
		}
		if geometry.InArc(scanner.Pose.X, scanner.Pose.Y, scanner.Pose.Heading, target.Pose.X, target.Pose.Y, scanner.ActiveAction.ADeg, scanner.ActiveAction.BDeg, w.Constants.ScanRange) {
			return true
		}
	}
	return false
}

// sortedProjectileIDsForSnapshot returns deterministic projectile
// order for a snapshot. An insertion sort is plenty: there are at most
// one live projectile per tank, so this list never grows large enough
// for sort.Slice's overhead to pay off.
func sortedProjectileIDsForSnapshot(w *domain.World) []domain.ProjectileID {
	ids := make([]domain.ProjectileID, 0, len(w.Projectiles))
	for id := range w.Projectiles {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
