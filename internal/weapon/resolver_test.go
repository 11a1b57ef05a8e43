package weapon

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/voidstrike/internal/geom"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func testProfile(mutate func(*Profile)) *Profile {
	p := DefaultProfile()
	p.Accuracy = 1
	if mutate != nil {
		mutate(&p)
	}
	return &p
}

func TestBaseDirection(t *testing.T) {
	tests := []struct {
		name    string
		aim     geom.Vec3
		forward geom.Vec3
		want    geom.Vec3
	}{
		{"aim outside deadzone", geom.Vec3{X: 1}, geom.Forward, geom.Vec3{X: 1}},
		{"aim inside deadzone", geom.Vec3{X: 0.05}, geom.Vec3{X: -1}, geom.Vec3{X: -1}},
		{"aim normalised", geom.Vec3{X: 0, Z: -3}, geom.Forward, geom.Vec3{Z: -1}},
		{"no aim no forward", geom.Vec3{}, geom.Vec3{}, geom.Forward},
		{"vertical aim ignored", geom.Vec3{Y: 5}, geom.Vec3{X: 1}, geom.Vec3{X: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseDirection(tt.aim, tt.forward))
		})
	}
}

func TestSpreadDirection_Fan(t *testing.T) {
	p := testProfile(func(p *Profile) {
		p.ProjectileCount = 3
		p.SpreadAngle = 30
	})

	base := geom.FromHeading(40)
	want := []float64{25, 40, 55}
	for i, w := range want {
		got := SpreadDirection(base, i, p, newRNG(1))
		assert.InDelta(t, w, geom.Heading(got), 1e-9)
		assert.InDelta(t, 1, got.Len(), 1e-12)
	}
}

func TestSpreadDirection_Accuracy(t *testing.T) {
	t.Run("perfect accuracy keeps base", func(t *testing.T) {
		p := testProfile(nil)
		base := geom.V3(0.6, 0, 0.8)
		assert.Equal(t, base, SpreadDirection(base, 0, p, newRNG(1)))
	})

	t.Run("zero accuracy stays within ten degrees", func(t *testing.T) {
		p := testProfile(func(p *Profile) { p.Accuracy = 0 })
		rng := newRNG(2)
		deviated := false
		for range 500 {
			got := SpreadDirection(geom.Forward, 0, p, rng)
			angle := geom.AngleBetween(geom.Forward, got)
			assert.LessOrEqual(t, angle, MaxInaccuracy+1e-9)
			assert.GreaterOrEqual(t, angle, -MaxInaccuracy-1e-9)
			if angle != 0 {
				deviated = true
			}
		}
		assert.True(t, deviated)
	})

	t.Run("half accuracy stays within five degrees", func(t *testing.T) {
		p := testProfile(func(p *Profile) { p.Accuracy = 0.5 })
		rng := newRNG(3)
		for range 500 {
			angle := geom.AngleBetween(geom.Forward, SpreadDirection(geom.Forward, 0, p, rng))
			assert.LessOrEqual(t, angle, 5+1e-9)
			assert.GreaterOrEqual(t, angle, -5-1e-9)
		}
	})
}

func TestResolve_SingleShotPerfectAccuracy(t *testing.T) {
	p := testProfile(nil)
	in := Input{
		Aim:          geom.Vec3{X: 1},
		OwnerForward: geom.Forward,
		FirePoints:   []FirePoint{{Position: geom.Flat(0, 1), Forward: geom.Forward}},
	}

	cmd := Resolve(p, in, newRNG(1))
	require.Len(t, cmd.Shots, 1)
	assert.Equal(t, geom.Vec3{X: 1}, cmd.Shots[0].Direction)
	assert.Equal(t, geom.Flat(0, 1), cmd.Shots[0].Origin)
	assert.Equal(t, 1.0, cmd.Shots[0].DamageFraction)
	assert.Equal(t, p.Damage, cmd.ShotDamage(0))
}

func TestResolve_SpreadScenario(t *testing.T) {
	p := testProfile(func(p *Profile) {
		p.ProjectileCount = 3
		p.SpreadAngle = 30
	})
	in := Input{Aim: geom.Forward}

	cmd := Resolve(p, in, newRNG(1))
	require.Len(t, cmd.Shots, 3)

	for i, want := range []float64{-15, 0, 15} {
		assert.InDelta(t, want, geom.Heading(cmd.Shots[i].Direction), 1e-9)
		assert.InDelta(t, 1.0/3, cmd.Shots[i].DamageFraction, 1e-12)
	}
}

func TestResolve_MultiMountConvergesOnTarget(t *testing.T) {
	p := testProfile(nil)
	target := geom.Flat(10, 0)
	in := Input{
		Aim:          geom.Forward,
		OwnerForward: geom.Forward,
		FirePoints: []FirePoint{
			{Position: geom.Flat(-1, 0)},
			{Position: geom.Flat(0, 0)},
			{Position: geom.Flat(1, 0)},
		},
		Target:    target,
		HasTarget: true,
	}

	cmd := Resolve(p, in, newRNG(1))
	require.Len(t, cmd.Shots, 3)

	for i, s := range cmd.Shots {
		assert.Equal(t, in.FirePoints[i].Position, s.Origin)
		want := target.Sub(s.Origin).Normalize()
		assert.InDelta(t, want.X, s.Direction.X, 1e-12)
		assert.InDelta(t, want.Z, s.Direction.Z, 1e-12)

		// the ray from the mount reaches the target
		hit := s.Origin.Add(s.Direction.Scale(geom.Distance(s.Origin, target)))
		assert.InDelta(t, 0, geom.Distance(hit, target), 1e-9)

		assert.InDelta(t, 1.0/3, s.DamageFraction, 1e-12)
	}
}

func TestResolve_MultiMountWithoutTarget(t *testing.T) {
	mounts := []FirePoint{{Position: geom.Flat(-2, 0)}, {Position: geom.Flat(2, 0)}}

	t.Run("synthetic convergence point", func(t *testing.T) {
		p := testProfile(func(p *Profile) { p.ConvergenceDistance = 20 })
		cmd := Resolve(p, Input{OwnerForward: geom.Forward, FirePoints: mounts}, nil)
		require.Len(t, cmd.Shots, 2)

		aimPoint := geom.Flat(0, 20)
		for _, s := range cmd.Shots {
			want := aimPoint.Sub(s.Origin).Normalize()
			assert.InDelta(t, want.X, s.Direction.X, 1e-12)
			assert.InDelta(t, want.Z, s.Direction.Z, 1e-12)
		}
	})

	t.Run("parallel", func(t *testing.T) {
		p := testProfile(func(p *Profile) { p.ConvergenceDistance = 0 })
		cmd := Resolve(p, Input{Aim: geom.Vec3{X: 1}, FirePoints: mounts}, nil)
		for _, s := range cmd.Shots {
			assert.Equal(t, geom.Vec3{X: 1}, s.Direction)
		}
	})
}

func TestResolve_DisabledMountsIgnored(t *testing.T) {
	p := testProfile(nil)
	in := Input{
		Aim: geom.Forward,
		FirePoints: []FirePoint{
			{Position: geom.Flat(-1, 0), Disabled: true},
			{Position: geom.Flat(1, 0)},
		},
		Target:    geom.Flat(50, 50),
		HasTarget: true,
	}

	cmd := Resolve(p, in, nil)
	require.Len(t, cmd.Shots, 1, "single active mount takes the single-point path")
	assert.Equal(t, geom.Flat(1, 0), cmd.Shots[0].Origin)
	assert.Equal(t, geom.Forward, cmd.Shots[0].Direction)
}

func TestResolve_NoFirePointsUsesOwner(t *testing.T) {
	p := testProfile(nil)
	cmd := Resolve(p, Input{OwnerPosition: geom.Flat(5, 5), OwnerForward: geom.Vec3{X: -1}}, nil)
	require.Len(t, cmd.Shots, 1)
	assert.Equal(t, geom.Flat(5, 5), cmd.Shots[0].Origin)
	assert.Equal(t, geom.Vec3{X: -1}, cmd.Shots[0].Direction)
}

func TestResolve_NilProfileYieldsNoShots(t *testing.T) {
	in := Input{
		OwnerForward: geom.Forward,
		FirePoints:   []FirePoint{{Forward: geom.Forward}, {Position: geom.Flat(1, 0), Forward: geom.Forward}},
	}

	cmd := Resolve(nil, in, newRNG(1))
	assert.Empty(t, cmd.Shots)
	assert.Zero(t, cmd.Damage)
	assert.Zero(t, cmd.TotalFraction())

	assert.Equal(t, geom.Forward, SpreadDirection(geom.Forward, 0, nil, newRNG(1)))
}

func TestResolve_DamageFractionsSumToOne(t *testing.T) {
	mounts := func(n int) []FirePoint {
		out := make([]FirePoint, n)
		for i := range out {
			out[i] = FirePoint{Position: geom.Flat(float64(i), 0)}
		}
		return out
	}

	tests := []struct {
		name   string
		mutate func(*Profile)
		mounts int
		shots  int
	}{
		{"single", nil, 1, 1},
		{"spread five", func(p *Profile) { p.ProjectileCount = 5; p.SpreadAngle = 40 }, 1, 5},
		{"spread without angle", func(p *Profile) { p.ProjectileCount = 4; p.Accuracy = 0.3 }, 1, 4},
		{"three mounts", nil, 3, 3},
		{"seven mounts spread", func(p *Profile) { p.ProjectileCount = 3; p.SpreadAngle = 12 }, 7, 21},
		{"burst", func(p *Profile) { p.BurstFire = true; p.BurstCount = 4; p.BurstDelay = 0.1 }, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile(tt.mutate)
			cmd := Resolve(p, Input{Aim: geom.Forward, FirePoints: mounts(tt.mounts)}, newRNG(9))
			assert.Len(t, cmd.Shots, tt.shots)
			assert.InDelta(t, 1.0, cmd.TotalFraction(), 1e-4)
		})
	}
}

func TestResolve_BurstScalesDamage(t *testing.T) {
	p := testProfile(func(p *Profile) {
		p.Damage = 30
		p.BurstFire = true
		p.BurstCount = 3
		p.BurstDelay = 0.1
	})

	cmd := Resolve(p, Input{Aim: geom.Forward}, nil)
	assert.InDelta(t, 10, cmd.Damage, 1e-12)
	assert.Equal(t, 3, cmd.BurstCount)
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr bool
	}{
		{"default", nil, false},
		{"zero fire rate", func(p *Profile) { p.FireRate = 0 }, true},
		{"accuracy above one", func(p *Profile) { p.Accuracy = 1.5 }, true},
		{"negative accuracy", func(p *Profile) { p.Accuracy = -0.1 }, true},
		{"burst without count", func(p *Profile) { p.BurstFire = true; p.BurstCount = 0 }, true},
		{"count without burst", func(p *Profile) { p.BurstCount = 0 }, false},
		{"negative damage", func(p *Profile) { p.Damage = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testProfile(tt.mutate).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidProfile)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	var nilProfile *Profile
	assert.ErrorIs(t, nilProfile.Validate(), ErrInvalidProfile)
}
