package sim

import (
	"sort"

	"github.com/philippe-ths/tanks/internal/domain"
)

// Step advances the world by exactly one dt = 1/TickRate of simulated
// time and returns the ordered events the tick produced. The order
// within a tick is load-bearing, not cosmetic:
//
//  1. Actions commit before projectiles move, so a move that just
//     completed affects this same tick's collision geometry.
//  2. Despawn is checked before hit detection, so a projectile that
//     left the arena this tick cannot also register a hit.
//  3. Time advances after physics, so every event in the returned
//     slice is produced at the pre-advance time, coherently with
//     invariant I6.
//  4. Match-end is evaluated last, against the post-advance state.
func Step(w *domain.World) []domain.Event {
	dt := w.Constants.Dt()
	var events []domain.Event

	events = append(events, ApplyActions(w, dt)...)
	events = append(events, advanceProjectiles(w)...)
	events = append(events, resolveHits(w)...)

	w.T += dt

	if end := checkMatchEnd(w); end != nil {
		events = append(events, *end)
	}

	return events
}

// advanceProjectiles moves every live projectile by one tick and
// despawns any that left the arena bounds (extended outward by the
// projectile radius), clearing the owner's one-shot slot so it can fire again.
func advanceProjectiles(w *domain.World) []domain.Event {
	dt := w.Constants.Dt()
	r := w.Constants.ProjectileRadius
	minX, maxX := -r, w.Constants.ArenaWidth+r
	minY, maxY := -r, w.Constants.ArenaHeight+r

	var events []domain.Event
	var despawned []domain.ProjectileID

	for _, id := range sortedProjectileIDs(w) {
		p := w.Projectiles[id]
		p.X += p.VX * dt
		p.Y += p.VY * dt

		if p.X < minX || p.X > maxX || p.Y < minY || p.Y > maxY {
			events = append(events, domain.Event{
				Kind: domain.EventDespawn,
				Despawn: &domain.DespawnEvent{
					ProjectileID: id,
					Owner:        p.Owner,
					Reason:       domain.DespawnOutOfBounds,
				},
			})
			despawned = append(despawned, id)
		}
	}

	for _, id := range despawned {
		owner := w.Projectiles[id].Owner
		delete(w.Projectiles, id)
		if tank, ok := w.Tanks[owner]; ok && tank.ActiveProjectileID == id {
			tank.HasActiveProjectile = false
		}
	}

	return events
}

// resolveHits scans every surviving projectile against every alive
// tank other than its owner. A projectile is consumed by its first
// hit; order among simultaneous candidate hits follows sortedProjectileIDs
// and then AllSlots, both deterministic.
func resolveHits(w *domain.World) []domain.Event {
	var events []domain.Event
	r2 := (w.Constants.ProjectileRadius + w.Constants.TankRadius) * (w.Constants.ProjectileRadius + w.Constants.TankRadius)

	for _, id := range sortedProjectileIDs(w) {
		p, ok := w.Projectiles[id]
		if !ok {
			continue // consumed earlier in this same loop
		}

		for _, slot := range w.AllSlots() {
			if slot == p.Owner {
				continue
			}
			tank := w.Tanks[slot]
			if !tank.Alive() {
				continue
			}

			dx := tank.Pose.X - p.X
			dy := tank.Pose.Y - p.Y
			if dx*dx+dy*dy > r2 {
				continue
			}

			tank.ApplyDamage(w.Constants.ProjectileDamage)
			events = append(events, domain.Event{
				Kind: domain.EventHit,
				Hit: &domain.HitEvent{
					ProjectileID: id,
					Owner:        p.Owner,
					Target:       slot,
					Damage:       w.Constants.ProjectileDamage,
				},
			})

			delete(w.Projectiles, id)
			if owner, ok := w.Tanks[p.Owner]; ok && owner.ActiveProjectileID == id {
				owner.HasActiveProjectile = false
			}
			break
		}
	}

	return events
}

func sortedProjectileIDs(w *domain.World) []domain.ProjectileID {
	ids := make([]domain.ProjectileID, 0, len(w.Projectiles))
	for id := range w.Projectiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// checkMatchEnd evaluates the post-advance state: hp-based end (one
// or zero survivors) takes priority over the time-limit check.
func checkMatchEnd(w *domain.World) *domain.Event {
	alive := w.AliveSlots()

	if len(alive) <= 1 {
		var winner domain.Slot
		hasWinner := false
		reason := domain.ReasonDoubleKO
		if len(alive) == 1 {
			winner = alive[0]
			hasWinner = true
			reason = domain.ReasonHP
		}
		return &domain.Event{
			Kind: domain.EventMatchEnd,
			MatchEnd: &domain.MatchEndEvent{
				Winner:    winner,
				HasWinner: hasWinner,
				Reason:    reason,
			},
		}
	}

	if w.T >= w.Constants.MatchTimeLimit {
		sort.Slice(alive, func(i, j int) bool {
			return w.Tanks[alive[i]].HP > w.Tanks[alive[j]].HP
		})
		top := w.Tanks[alive[0]]
		second := w.Tanks[alive[1]]

		if top.HP > second.HP {
			return &domain.Event{
				Kind: domain.EventMatchEnd,
				MatchEnd: &domain.MatchEndEvent{
					Winner:    alive[0],
					HasWinner: true,
					Reason:    domain.ReasonTimeout,
				},
			}
		}
		return &domain.Event{
			Kind: domain.EventMatchEnd,
			MatchEnd: &domain.MatchEndEvent{
				Reason: domain.ReasonTimeout,
			},
		}
	}

	return nil
}
