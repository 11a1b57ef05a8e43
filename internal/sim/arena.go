package sim

import (
	"math"

	"github.com/udisondev/voidstrike/internal/combat"
	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/weapon"
)

// Hull is a circular collider with health and shield.
type Hull struct {
	ID       uint32
	Layer    combat.Layer
	Position geom.Vec3
	Radius   float64

	Health    float64
	MaxHealth float64
	Shield    float64
	MaxShield float64
}

// Alive reports whether the hull still has health.
func (h *Hull) Alive() bool {
	return h.Health > 0
}

// Arena is an in-memory world of circular hulls. It answers physics
// queries, absorbs damage and reports its playable bounds.
//
// Not safe for concurrent use: the simulation runs on a single loop.
type Arena struct {
	bounds geom.Bounds3
	hulls  []*Hull
	index  map[uint32]int
}

// NewArena creates an empty arena.
func NewArena(bounds geom.Bounds3) *Arena {
	return &Arena{bounds: bounds, index: make(map[uint32]int)}
}

// PlayableBounds implements spawn.MapBounds.
func (a *Arena) PlayableBounds() (geom.Bounds3, bool) {
	return a.bounds, a.bounds.Extents.X > 0 && a.bounds.Extents.Z > 0
}

// Add inserts or replaces a hull. Health and shield start full.
func (a *Arena) Add(h Hull) *Hull {
	h.Position.Y = geom.GroundY
	if h.Health <= 0 {
		h.Health = h.MaxHealth
	}
	if h.Shield <= 0 {
		h.Shield = h.MaxShield
	}
	hp := &h
	if i, ok := a.index[h.ID]; ok {
		a.hulls[i] = hp
		return hp
	}
	a.index[h.ID] = len(a.hulls)
	a.hulls = append(a.hulls, hp)
	return hp
}

// Remove deletes a hull.
func (a *Arena) Remove(id uint32) bool {
	i, ok := a.index[id]
	if !ok {
		return false
	}
	last := len(a.hulls) - 1
	if i != last {
		a.hulls[i] = a.hulls[last]
		a.index[a.hulls[i].ID] = i
	}
	a.hulls[last] = nil
	a.hulls = a.hulls[:last]
	delete(a.index, id)
	return true
}

// Hull returns the hull with id.
func (a *Arena) Hull(id uint32) (*Hull, bool) {
	i, ok := a.index[id]
	if !ok {
		return nil, false
	}
	return a.hulls[i], true
}

// Move sets a hull position, clamped to the arena.
func (a *Arena) Move(id uint32, pos geom.Vec3) bool {
	h, ok := a.Hull(id)
	if !ok {
		return false
	}
	h.Position = a.bounds.ClampPoint(pos)
	return true
}

// Len returns the number of hulls.
func (a *Arena) Len() int {
	return len(a.hulls)
}

func (a *Arena) candidate(h *Hull, pos geom.Vec3, src combat.Source) combat.HitCandidate {
	return combat.HitCandidate{
		ColliderOwnerID: h.ID,
		Category:        h.Layer,
		Position:        pos,
		HasShield:       h.MaxShield > 0,
		ShieldRemaining: h.Shield,
		Source:          src,
	}
}

// RaycastAhead returns the nearest live hull crossed by the segment. The
// candidate position is the contact point.
func (a *Arena) RaycastAhead(origin, dir geom.Vec3, dist float64, mask combat.Layer) (combat.HitCandidate, bool) {
	d := geom.Vec3{X: dir.X, Z: dir.Z}.Normalize()
	if d.IsZero() || dist <= 0 {
		return combat.HitCandidate{}, false
	}
	o := geom.Vec3{X: origin.X, Z: origin.Z}

	var (
		best  *Hull
		bestT = math.Inf(1)
	)
	for _, h := range a.hulls {
		if !h.Alive() || !mask.Has(h.Layer) {
			continue
		}
		t, ok := raySphere(o, d, h.Position, h.Radius)
		if ok && t <= dist && t < bestT {
			best, bestT = h, t
		}
	}
	if best == nil {
		return combat.HitCandidate{}, false
	}
	return a.candidate(best, o.Add(d.Scale(bestT)), combat.SourceRaycast), true
}

// raySphere returns the entry distance of a unit ray into a circle on the
// ground plane; 0 when the origin is already inside.
func raySphere(o, d, center geom.Vec3, r float64) (float64, bool) {
	m := o.Sub(center)
	c := m.Dot(m) - r*r
	if c <= 0 {
		return 0, true
	}
	b := m.Dot(d)
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}

// OverlapVolume returns every live hull touching the sphere. Candidate
// positions are hull centers.
func (a *Arena) OverlapVolume(pos geom.Vec3, radius float64, mask combat.Layer) []combat.HitCandidate {
	var out []combat.HitCandidate
	p := geom.Vec3{X: pos.X, Z: pos.Z}
	for _, h := range a.hulls {
		if !h.Alive() || !mask.Has(h.Layer) {
			continue
		}
		reach := radius + h.Radius
		if geom.DistanceSq(p, h.Position) <= reach*reach {
			out = append(out, a.candidate(h, h.Position, combat.SourceTrigger))
		}
	}
	return out
}

// ApplyDamage drains the shield first, then health.
func (a *Arena) ApplyDamage(targetID uint32, amount float64, _ weapon.DamageType) {
	h, ok := a.Hull(targetID)
	if !ok || !h.Alive() || amount <= 0 {
		return
	}
	absorbed := min(h.Shield, amount)
	h.Shield -= absorbed
	h.Health -= amount - absorbed
	if h.Health < 0 {
		h.Health = 0
	}
}

func (a *Arena) HasShield(targetID uint32) bool {
	h, ok := a.Hull(targetID)
	return ok && h.MaxShield > 0
}

func (a *Arena) ShieldRemaining(targetID uint32) float64 {
	if h, ok := a.Hull(targetID); ok {
		return h.Shield
	}
	return 0
}
