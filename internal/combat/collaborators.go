package combat

import (
	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/weapon"
)

// Layer is a collision category bit. A set of layers forms a target mask.
type Layer uint32

const (
	LayerPlayer Layer = 1 << iota
	LayerEnemy
	LayerObstacle

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

// Has reports whether mask contains any bit of category.
func (m Layer) Has(category Layer) bool {
	return m&category != 0
}

// Source tells which detection path produced a candidate.
type Source uint8

const (
	SourceRaycast Source = iota
	SourceTrigger
)

func (s Source) String() string {
	if s == SourceTrigger {
		return "trigger"
	}
	return "raycast"
}

// HitCandidate is a potential hit reported by a physics query. The shield
// fields are a snapshot taken by the query; Resolver prefers the live state
// of its DamageSink.
type HitCandidate struct {
	ColliderOwnerID uint32
	Category        Layer
	Position        geom.Vec3
	HasShield       bool
	ShieldRemaining float64
	Source          Source
}

// Physics answers the two queries projectiles need.
type Physics interface {
	// RaycastAhead returns the first collider along dir within dist.
	RaycastAhead(origin, dir geom.Vec3, dist float64, mask Layer) (HitCandidate, bool)
	// OverlapVolume returns every collider whose volume touches the sphere.
	OverlapVolume(pos geom.Vec3, radius float64, mask Layer) []HitCandidate
}

// DamageSink receives damage and exposes shield state.
type DamageSink interface {
	ApplyDamage(targetID uint32, amount float64, damageType weapon.DamageType)
	HasShield(targetID uint32) bool
	ShieldRemaining(targetID uint32) float64
}
