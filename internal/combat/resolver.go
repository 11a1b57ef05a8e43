package combat

import (
	"log/slog"

	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/weapon"
)

// HitEvent is emitted for every accepted hit.
type HitEvent struct {
	ProjectileID uint32
	AttackerID   uint32
	TargetID     uint32
	Weapon       string
	Damage       float64
	DamageType   weapon.DamageType
	Position     geom.Vec3
	Source       Source
	Shielded     bool
}

// ShieldHitEvent is emitted in addition to HitEvent when the hit landed on
// an active shield.
type ShieldHitEvent struct {
	TargetID        uint32
	Position        geom.Vec3
	ShieldRemaining float64
}

// Resolver validates hit candidates and applies damage.
//
// A projectile hits at most once: whichever detection path reports first
// wins, later candidates for the same projectile are rejected.
type Resolver struct {
	sink DamageSink

	hitObservers    []func(HitEvent)
	shieldObservers []func(ShieldHitEvent)
}

// NewResolver creates a resolver applying damage to sink. A nil sink
// resolves hits without applying damage.
func NewResolver(sink DamageSink) *Resolver {
	return &Resolver{sink: sink}
}

// OnHit registers a hit observer.
func (r *Resolver) OnHit(fn func(HitEvent)) {
	if fn != nil {
		r.hitObservers = append(r.hitObservers, fn)
	}
}

// OnShieldHit registers a shield hit observer.
func (r *Resolver) OnShieldHit(fn func(ShieldHitEvent)) {
	if fn != nil {
		r.shieldObservers = append(r.shieldObservers, fn)
	}
}

// Resolve applies candidate c to projectile p. Returns false when the
// candidate is the projectile's owner, outside its target mask, or the
// projectile already hit or expired.
func (r *Resolver) Resolve(p *Projectile, c HitCandidate) (HitEvent, bool) {
	if p == nil || !p.Active() {
		return HitEvent{}, false
	}
	if c.ColliderOwnerID == p.OwnerID {
		return HitEvent{}, false
	}
	if !p.TargetMask.Has(c.Category) {
		return HitEvent{}, false
	}

	shielded, remaining := r.shieldState(c)

	if r.sink != nil {
		r.sink.ApplyDamage(c.ColliderOwnerID, p.Damage, p.DamageType)
	}

	ev := HitEvent{
		ProjectileID: p.ID,
		AttackerID:   p.OwnerID,
		TargetID:     c.ColliderOwnerID,
		Weapon:       p.Weapon,
		Damage:       p.Damage,
		DamageType:   p.DamageType,
		Position:     c.Position,
		Source:       c.Source,
		Shielded:     shielded,
	}
	for _, fn := range r.hitObservers {
		fn(ev)
	}
	if shielded {
		sev := ShieldHitEvent{
			TargetID:        c.ColliderOwnerID,
			Position:        c.Position,
			ShieldRemaining: remaining,
		}
		for _, fn := range r.shieldObservers {
			fn(sev)
		}
	}

	p.markHit()

	slog.Debug("projectile hit",
		"projectile", p.ID,
		"attacker", p.OwnerID,
		"target", c.ColliderOwnerID,
		"damage", p.Damage,
		"source", c.Source,
		"shielded", shielded)
	return ev, true
}

// shieldState reports whether the target's shield is up before the hit.
// The sink is queried when present: a candidate carries the shield state of
// the physics query, which an earlier hit in the same tick may have drained.
func (r *Resolver) shieldState(c HitCandidate) (bool, float64) {
	if r.sink == nil {
		return c.HasShield && c.ShieldRemaining > 0, c.ShieldRemaining
	}
	remaining := r.sink.ShieldRemaining(c.ColliderOwnerID)
	return r.sink.HasShield(c.ColliderOwnerID) && remaining > 0, remaining
}
