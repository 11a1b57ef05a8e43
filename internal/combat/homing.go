package combat

import "github.com/udisondev/voidstrike/internal/geom"

// steer turns a homing projectile towards the nearest valid collider in
// its search radius, at most TurnRate·dt degrees per step. The target is
// re-acquired every step.
func (m *ProjectileManager) steer(p *Projectile, dt float64) {
	h := p.Homing
	if h == nil || h.SearchRadius <= 0 || m.physics == nil {
		return
	}

	target, ok := Nearest(p.Position, p.OwnerID, m.physics.OverlapVolume(p.Position, h.SearchRadius, p.TargetMask))
	if !ok {
		p.HomingTarget = 0
		return
	}
	p.HomingTarget = target.ColliderOwnerID

	to := target.Position.Sub(p.Position)
	to.Y = 0
	if to.IsZero() {
		return
	}
	p.Direction = geom.RotateTowards(p.Direction, to.Normalize(), h.TurnRate*dt)
}
