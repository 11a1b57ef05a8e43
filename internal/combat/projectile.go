package combat

import (
	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/pool"
	"github.com/udisondev/voidstrike/internal/weapon"
)

// State is the lifecycle phase of a projectile.
type State uint8

const (
	StateDespawned State = iota
	StateSpawned
	StateActive
	StateHit
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateSpawned:
		return "spawned"
	case StateActive:
		return "active"
	case StateHit:
		return "hit"
	case StateExpired:
		return "expired"
	default:
		return "despawned"
	}
}

// Projectile is a pooled projectile slot.
//
// Lifecycle: Spawned → Active → (Hit | Expired) → Despawned. A slot
// returns to defaults through Reset when its pool handle is re-acquired.
type Projectile struct {
	Handle pool.Handle
	ID     uint32

	Position  geom.Vec3
	Direction geom.Vec3
	Speed     float64

	Damage     float64
	DamageType weapon.DamageType
	Weapon     string
	Homing     *weapon.HomingProfile

	OwnerID    uint32
	TargetMask Layer

	SpawnTime float64
	Lifetime  float64

	State State

	// HomingTarget is the collider the projectile is currently steering at.
	HomingTarget uint32
}

// Reset returns the slot to defaults, keeping the pool identity.
func (p *Projectile) Reset(h pool.Handle) {
	*p = Projectile{Handle: h, ID: h.ID, State: StateSpawned}
}

// Activate moves a freshly spawned projectile into flight.
func (p *Projectile) Activate() bool {
	if p.State != StateSpawned {
		return false
	}
	p.State = StateActive
	return true
}

// Active reports whether the projectile can still hit something.
func (p *Projectile) Active() bool {
	return p.State == StateActive
}

// Finished reports whether the projectile is waiting to be despawned.
func (p *Projectile) Finished() bool {
	return p.State == StateHit || p.State == StateExpired
}

// Age returns seconds since spawn.
func (p *Projectile) Age(now float64) float64 {
	return now - p.SpawnTime
}

// LifetimeElapsed reports whether the projectile outlived its lifetime.
// A non-positive lifetime never expires.
func (p *Projectile) LifetimeElapsed(now float64) bool {
	return p.Lifetime > 0 && p.Age(now) >= p.Lifetime
}

// Expire ends an active flight without a hit.
func (p *Projectile) Expire() bool {
	if p.State != StateActive {
		return false
	}
	p.State = StateExpired
	return true
}

// markHit ends an active flight with a hit.
func (p *Projectile) markHit() bool {
	if p.State != StateActive {
		return false
	}
	p.State = StateHit
	return true
}

// Advance integrates position over dt.
func (p *Projectile) Advance(dt float64) {
	p.Position = p.Position.Add(p.Direction.Scale(p.Speed * dt))
}
