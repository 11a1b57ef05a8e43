package combat

import (
	"errors"
	"log/slog"

	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/pool"
	"github.com/udisondev/voidstrike/internal/weapon"
)

const (
	// ProjectileKind is the pool kind projectile slots are registered under.
	ProjectileKind = "projectile"
	// LookaheadTicks is how many fixed steps ahead the raycast looks.
	LookaheadTicks = 2
	// DefaultTriggerRadius is the overlap radius of a projectile.
	DefaultTriggerRadius = 0.5
)

// SlotPool hands out projectile slots.
type SlotPool interface {
	Acquire(kind string) (pool.Handle, error)
	Release(h pool.Handle) error
}

// ManagerConfig tunes projectile detection.
type ManagerConfig struct {
	Kind           string
	LookaheadTicks int
	TriggerRadius  float64
}

// DefaultManagerConfig returns the standard detection settings.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Kind:           ProjectileKind,
		LookaheadTicks: LookaheadTicks,
		TriggerRadius:  DefaultTriggerRadius,
	}
}

// Launch describes who fired a command and what it may hit.
type Launch struct {
	OwnerID    uint32
	TargetMask Layer
	Now        float64
}

// ProjectileManager owns projectiles in flight. Each fixed step it runs
// the raycast lookahead first and the trigger overlap second, then
// despawns projectiles that hit or expired.
//
// Not safe for concurrent use: the simulation runs on a single loop.
type ProjectileManager struct {
	slots    SlotPool
	physics  Physics
	resolver *Resolver
	cfg      ManagerConfig

	byID   map[uint32]*Projectile
	active []*Projectile

	// despawnObserver sees the final state before the slot is released (nil in production).
	despawnObserver func(Projectile)
}

// NewProjectileManager creates a manager. Zero config fields fall back to
// DefaultManagerConfig values.
func NewProjectileManager(slots SlotPool, physics Physics, resolver *Resolver, cfg ManagerConfig) *ProjectileManager {
	def := DefaultManagerConfig()
	if cfg.Kind == "" {
		cfg.Kind = def.Kind
	}
	if cfg.LookaheadTicks <= 0 {
		cfg.LookaheadTicks = def.LookaheadTicks
	}
	if cfg.TriggerRadius <= 0 {
		cfg.TriggerRadius = def.TriggerRadius
	}
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	return &ProjectileManager{
		slots:    slots,
		physics:  physics,
		resolver: resolver,
		cfg:      cfg,
		byID:     make(map[uint32]*Projectile),
	}
}

// SetDespawnObserver sets the callback invoked before a slot is released.
func (m *ProjectileManager) SetDespawnObserver(fn func(Projectile)) {
	m.despawnObserver = fn
}

// Resolver returns the hit resolver.
func (m *ProjectileManager) Resolver() *Resolver {
	return m.resolver
}

// Spawn acquires one projectile per shot of cmd. Stops at pool
// exhaustion and returns the projectiles spawned so far.
func (m *ProjectileManager) Spawn(cmd weapon.FireCommand, l Launch) []*Projectile {
	out := make([]*Projectile, 0, len(cmd.Shots))
	for i, shot := range cmd.Shots {
		h, err := m.slots.Acquire(m.cfg.Kind)
		if err != nil {
			if errors.Is(err, pool.ErrExhausted) {
				slog.Warn("projectile pool exhausted",
					"weapon", cmd.Weapon,
					"spawned", len(out),
					"requested", len(cmd.Shots))
			} else {
				slog.Error("acquire projectile slot", "weapon", cmd.Weapon, "error", err)
			}
			break
		}

		p, ok := m.byID[h.ID]
		if !ok {
			p = &Projectile{}
			m.byID[h.ID] = p
		}
		p.Reset(h)
		p.Position = shot.Origin
		p.Direction = shot.Direction.Normalize()
		p.Speed = cmd.Speed
		p.Damage = cmd.ShotDamage(i)
		p.DamageType = cmd.DamageType
		p.Weapon = cmd.Weapon
		p.Homing = cmd.Homing
		p.OwnerID = l.OwnerID
		p.TargetMask = l.TargetMask
		p.SpawnTime = l.Now
		p.Lifetime = cmd.Lifetime

		m.active = append(m.active, p)
		out = append(out, p)
	}
	return out
}

// FixedTick advances every projectile by dt.
func (m *ProjectileManager) FixedTick(now, dt float64) {
	for _, p := range m.active {
		m.step(p, now, dt)
	}

	kept := m.active[:0]
	for _, p := range m.active {
		if p.Finished() {
			m.despawn(p)
			continue
		}
		kept = append(kept, p)
	}
	clear(m.active[len(kept):])
	m.active = kept
}

func (m *ProjectileManager) step(p *Projectile, now, dt float64) {
	p.Activate()
	if !p.Active() {
		return
	}
	if p.LifetimeElapsed(now) {
		p.Expire()
		return
	}

	m.steer(p, dt)

	if m.physics != nil && p.Speed > 0 {
		dist := p.Speed * dt * float64(m.cfg.LookaheadTicks)
		if c, ok := m.physics.RaycastAhead(p.Position, p.Direction, dist, p.TargetMask); ok {
			c.Source = SourceRaycast
			if _, hit := m.resolver.Resolve(p, c); hit {
				p.Position = c.Position
				return
			}
		}
	}

	p.Advance(dt)

	if m.physics == nil {
		return
	}
	for _, c := range m.physics.OverlapVolume(p.Position, m.cfg.TriggerRadius, p.TargetMask) {
		c.Source = SourceTrigger
		if _, hit := m.resolver.Resolve(p, c); hit {
			return
		}
	}
}

func (m *ProjectileManager) despawn(p *Projectile) {
	if m.despawnObserver != nil {
		m.despawnObserver(*p)
	}
	if err := m.slots.Release(p.Handle); err != nil {
		slog.Error("release projectile slot", "projectile", p.Handle, "error", err)
	}
	p.State = StateDespawned
}

// Clear despawns every projectile in flight.
func (m *ProjectileManager) Clear() {
	for _, p := range m.active {
		m.despawn(p)
	}
	clear(m.active)
	m.active = m.active[:0]
}

// Active returns the projectiles in flight. The slice is reused between
// ticks.
func (m *ProjectileManager) Active() []*Projectile {
	return m.active
}

// Count returns the number of projectiles in flight.
func (m *ProjectileManager) Count() int {
	return len(m.active)
}

// Get returns the projectile occupying slot id.
func (m *ProjectileManager) Get(id uint32) (*Projectile, bool) {
	p, ok := m.byID[id]
	if !ok || p.State == StateDespawned {
		return nil, false
	}
	return p, true
}

// Nearest returns the candidate closest to pos, ignoring ownerID.
func Nearest(pos geom.Vec3, ownerID uint32, candidates []HitCandidate) (HitCandidate, bool) {
	var (
		best  HitCandidate
		found bool
		bestD float64
	)
	for _, c := range candidates {
		if c.ColliderOwnerID == ownerID {
			continue
		}
		d := geom.DistanceSq(pos, c.Position)
		if !found || d < bestD {
			best, bestD, found = c, d, true
		}
	}
	return best, found
}
