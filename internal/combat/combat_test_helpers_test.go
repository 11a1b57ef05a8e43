package combat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/pool"
	"github.com/udisondev/voidstrike/internal/weapon"
)

// fakeSink записывает урон по целям.
type fakeSink struct {
	damage  map[uint32]float64
	hits    int
	shields map[uint32]float64
}

func newFakeSink() *fakeSink {
	return &fakeSink{damage: make(map[uint32]float64), shields: make(map[uint32]float64)}
}

func (s *fakeSink) ApplyDamage(targetID uint32, amount float64, _ weapon.DamageType) {
	s.damage[targetID] += amount
	s.hits++
}

func (s *fakeSink) HasShield(targetID uint32) bool { return s.shields[targetID] > 0 }

func (s *fakeSink) ShieldRemaining(targetID uint32) float64 { return s.shields[targetID] }

type fakeCollider struct {
	id     uint32
	layer  Layer
	pos    geom.Vec3
	radius float64
}

type rayCall struct {
	origin, dir geom.Vec3
	dist        float64
}

// fakePhysics отвечает на overlap по списку коллайдеров; raycast задаётся явно.
type fakePhysics struct {
	colliders []fakeCollider
	rayHit    *HitCandidate
	rays      []rayCall
	overlaps  int
}

func (f *fakePhysics) RaycastAhead(origin, dir geom.Vec3, dist float64, mask Layer) (HitCandidate, bool) {
	f.rays = append(f.rays, rayCall{origin: origin, dir: dir, dist: dist})
	if f.rayHit == nil || !mask.Has(f.rayHit.Category) {
		return HitCandidate{}, false
	}
	return *f.rayHit, true
}

func (f *fakePhysics) OverlapVolume(pos geom.Vec3, radius float64, mask Layer) []HitCandidate {
	f.overlaps++
	var out []HitCandidate
	for _, c := range f.colliders {
		if !mask.Has(c.layer) {
			continue
		}
		if geom.Distance(pos, c.pos) <= radius+c.radius {
			out = append(out, HitCandidate{ColliderOwnerID: c.id, Category: c.layer, Position: c.pos})
		}
	}
	return out
}

func newProjectilePool(t *testing.T, max int) *pool.Pool {
	t.Helper()
	p := pool.New(pool.ProjectileIDBase)
	require.NoError(t, p.Register(ProjectileKind, 0, max))
	return p
}

func singleShot(origin, dir geom.Vec3, speed, damage float64) weapon.FireCommand {
	return weapon.FireCommand{
		Weapon:     "test",
		Shots:      []weapon.Shot{{Origin: origin, Direction: dir, DamageFraction: 1}},
		Damage:     damage,
		DamageType: weapon.DamageKinetic,
		Speed:      speed,
		Lifetime:   5,
		BurstCount: 1,
	}
}

func activeProjectile(owner uint32, mask Layer) *Projectile {
	p := &Projectile{}
	p.Reset(pool.Handle{Kind: ProjectileKind, ID: 1, Generation: 1})
	p.OwnerID = owner
	p.TargetMask = mask
	p.Damage = 10
	p.Activate()
	return p
}
