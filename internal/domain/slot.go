package domain

// Slot is the stable identifier of a player participant within a
// match, e.g. "p1", "p2". Kept as a plain string rather than a packed
// numeric ID: a match has at most a handful of slots, they are already
// exposed to player code through event payloads, and packing buys
// nothing at this scale.
type Slot string

// ProjectileID is a per-match monotonic identifier for a projectile.
type ProjectileID uint64
