package weapon

import (
	"math/rand/v2"

	"github.com/udisondev/voidstrike/internal/geom"
)

const (
	// AimDeadzone is the minimum aim magnitude that overrides owner facing.
	AimDeadzone = 0.1
	// MaxInaccuracy is the deviation in degrees at accuracy 0.
	MaxInaccuracy = 10.0
)

// FirePoint is a weapon mount.
type FirePoint struct {
	Position geom.Vec3
	Forward  geom.Vec3
	Disabled bool
}

// Input is everything the resolver needs for one volley.
type Input struct {
	Aim           geom.Vec3 // stick/mouse aim, may be inside the deadzone
	OwnerPosition geom.Vec3
	OwnerForward  geom.Vec3
	FirePoints    []FirePoint

	Target    geom.Vec3
	HasTarget bool
}

// Shot is one projectile of a volley.
type Shot struct {
	Origin         geom.Vec3
	Direction      geom.Vec3
	DamageFraction float64
}

// FireCommand is the resolved output of one volley. Fractions of all shots
// sum to 1; shot damage is Damage × DamageFraction.
type FireCommand struct {
	Weapon     string
	Shots      []Shot
	Damage     float64 // volley budget, already divided by the burst count
	DamageType DamageType
	Speed      float64
	Lifetime   float64
	Homing     *HomingProfile

	BurstIndex int
	BurstCount int
	FiredAt    float64
}

// TotalFraction sums the damage fractions of all shots.
func (c FireCommand) TotalFraction() float64 {
	total := 0.0
	for _, s := range c.Shots {
		total += s.DamageFraction
	}
	return total
}

// ShotDamage returns the damage carried by shot i.
func (c FireCommand) ShotDamage(i int) float64 {
	return c.Damage * c.Shots[i].DamageFraction
}

// BaseDirection returns aim when it leaves the deadzone, otherwise forward.
// The result lies on the ground plane and is normalised.
func BaseDirection(aim, forward geom.Vec3) geom.Vec3 {
	flatAim := geom.Vec3{X: aim.X, Z: aim.Z}
	if flatAim.Len() > AimDeadzone {
		return flatAim.Normalize()
	}
	f := geom.Vec3{X: forward.X, Z: forward.Z}.Normalize()
	if f.IsZero() {
		return geom.Forward
	}
	return f
}

// SpreadDirection returns the direction of shot index out of the profile's
// projectile count around base.
//
// A single projectile (or zero spread) deviates randomly by up to
// ±(1-accuracy)·MaxInaccuracy degrees; several projectiles fan evenly across
// SpreadAngle centered on base.
func SpreadDirection(base geom.Vec3, index int, p *Profile, rng *rand.Rand) geom.Vec3 {
	if p == nil {
		return base
	}
	count := p.Projectiles()
	if count == 1 || p.SpreadAngle == 0 {
		dev := (1 - geom.Clamp(p.Accuracy, 0, 1)) * MaxInaccuracy
		if dev <= 0 || rng == nil {
			return base
		}
		return geom.RotateY(base, (rng.Float64()*2-1)*dev)
	}

	step := p.SpreadAngle / float64(count-1)
	angle := -p.SpreadAngle/2 + float64(index)*step
	return geom.RotateY(base, angle).Normalize()
}

func activeMounts(points []FirePoint) []FirePoint {
	out := make([]FirePoint, 0, len(points))
	for _, fp := range points {
		if !fp.Disabled {
			out = append(out, fp)
		}
	}
	return out
}

// Resolve computes one volley. It is pure apart from rng, which is only
// consulted for accuracy deviation. A nil profile yields an empty command.
func Resolve(p *Profile, in Input, rng *rand.Rand) FireCommand {
	if p == nil {
		return FireCommand{}
	}
	forward := in.OwnerForward
	mounts := activeMounts(in.FirePoints)
	if forward.IsZero() && len(mounts) > 0 {
		forward = mounts[0].Forward
	}
	base := BaseDirection(in.Aim, forward)

	cmd := FireCommand{
		Weapon:     p.Name,
		Damage:     p.Damage / float64(p.Volleys()),
		DamageType: p.DamageType,
		Speed:      p.ProjectileSpeed,
		Lifetime:   p.ProjectileLifetime,
		Homing:     p.Homing,
		BurstCount: p.Volleys(),
	}

	if len(mounts) > 1 {
		cmd.Shots = resolveMulti(p, in, mounts, base, rng)
		return cmd
	}

	origin := in.OwnerPosition
	if len(mounts) == 1 {
		origin = mounts[0].Position
	}

	count := p.Projectiles()
	frac := 1.0 / float64(count)
	cmd.Shots = make([]Shot, count)
	for i := range count {
		cmd.Shots[i] = Shot{
			Origin:         origin,
			Direction:      SpreadDirection(base, i, p, rng),
			DamageFraction: frac,
		}
	}
	return cmd
}

// resolveMulti aims every mount at the target, at a synthetic convergence
// point, or parallel, and splits damage evenly over mounts × projectiles.
func resolveMulti(p *Profile, in Input, mounts []FirePoint, base geom.Vec3, rng *rand.Rand) []Shot {
	var aimPoint geom.Vec3
	converge := false
	switch {
	case in.HasTarget:
		aimPoint, converge = in.Target, true
	case p.ConvergenceDistance > 0:
		aimPoint, converge = in.OwnerPosition.Add(base.Scale(p.ConvergenceDistance)), true
	}

	count := p.Projectiles()
	frac := 1.0 / float64(len(mounts)*count)
	shots := make([]Shot, 0, len(mounts)*count)

	for _, m := range mounts {
		dir := base
		if converge {
			if d := aimPoint.Sub(m.Position).Normalize(); !d.IsZero() {
				dir = d
			}
		}

		for i := range count {
			shotDir := dir
			if count > 1 {
				shotDir = SpreadDirection(dir, i, p, rng)
			}
			shots = append(shots, Shot{Origin: m.Position, Direction: shotDir, DamageFraction: frac})
		}
	}
	return shots
}
