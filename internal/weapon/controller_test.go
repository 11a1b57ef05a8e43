package weapon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/voidstrike/internal/geom"
)

func burstProfile() *Profile {
	return testProfile(func(p *Profile) {
		p.Damage = 30
		p.FireRate = 0.1
		p.BurstFire = true
		p.BurstCount = 3
		p.BurstDelay = 0.1
	})
}

func TestController_Cooldown(t *testing.T) {
	c := NewController(testProfile(nil), newRNG(1))
	in := Input{Aim: geom.Forward}

	_, ok := c.TryFire(0, in)
	require.True(t, ok)

	_, ok = c.TryFire(0.1, in)
	assert.False(t, ok, "second pull inside fire rate must be rejected")
	assert.False(t, c.Ready(0.2))

	cmd, ok := c.TryFire(0.25, in)
	require.True(t, ok)
	assert.Equal(t, 0.25, cmd.FiredAt)
}

func TestController_TwoPullsWithinFireRateProduceOneCommand(t *testing.T) {
	c := NewController(testProfile(nil), newRNG(1))
	in := Input{Aim: geom.Forward}

	var cmds []FireCommand
	for _, now := range []float64{1.0, 1.1} {
		if cmd, ok := c.TryFire(now, in); ok {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, c.Tick(now)...)
	}
	assert.Len(t, cmds, 1)
}

func TestController_Unarmed(t *testing.T) {
	c := NewController(nil, newRNG(1))
	_, ok := c.TryFire(0, Input{})
	assert.False(t, ok)
	assert.Nil(t, c.Tick(10))

	invalid := testProfile(func(p *Profile) { p.FireRate = 0 })
	c.SetProfile(invalid)
	assert.Nil(t, c.Profile(), "invalid profile leaves the controller unarmed")
	_, ok = c.TryFire(0, Input{})
	assert.False(t, ok)
}

func TestController_BurstSequence(t *testing.T) {
	c := NewController(burstProfile(), newRNG(1))
	in := Input{Aim: geom.Forward}

	first, ok := c.TryFire(0, in)
	require.True(t, ok)
	assert.Equal(t, 0, first.BurstIndex)
	assert.Equal(t, 3, first.BurstCount)
	assert.True(t, c.BurstInFlight())

	assert.Empty(t, c.Tick(0.05))

	second := c.Tick(0.1)
	require.Len(t, second, 1)
	assert.Equal(t, 1, second[0].BurstIndex)
	assert.InDelta(t, 0.1, second[0].FiredAt, 1e-12)

	_, ok = c.TryFire(0.15, in)
	assert.False(t, ok, "trigger pull rejected while burst is in flight")

	third := c.Tick(0.35)
	require.Len(t, third, 1)
	assert.Equal(t, 2, third[0].BurstIndex)
	assert.False(t, c.BurstInFlight())
	assert.Empty(t, c.Tick(1))

	total := 0.0
	for _, cmd := range []FireCommand{first, second[0], third[0]} {
		for i := range cmd.Shots {
			total += cmd.ShotDamage(i)
		}
	}
	assert.InDelta(t, 30, total, 1e-9)
}

func TestController_TickCatchesUp(t *testing.T) {
	c := NewController(burstProfile(), newRNG(1))
	_, ok := c.TryFire(0, Input{Aim: geom.Forward})
	require.True(t, ok)

	cmds := c.Tick(1)
	require.Len(t, cmds, 2)
	assert.InDelta(t, 0.1, cmds[0].FiredAt, 1e-12)
	assert.InDelta(t, 0.2, cmds[1].FiredAt, 1e-12)
	assert.Equal(t, []int{1, 2}, []int{cmds[0].BurstIndex, cmds[1].BurstIndex})
}

func TestController_AimUpdatesRemainingVolleys(t *testing.T) {
	c := NewController(burstProfile(), newRNG(1))
	_, ok := c.TryFire(0, Input{Aim: geom.Forward})
	require.True(t, ok)

	c.Aim(Input{Aim: geom.Vec3{X: 1}})
	cmds := c.Tick(0.1)
	require.Len(t, cmds, 1)
	assert.Equal(t, geom.Vec3{X: 1}, cmds[0].Shots[0].Direction)
}

func TestController_Interrupt(t *testing.T) {
	c := NewController(burstProfile(), newRNG(1))
	in := Input{Aim: geom.Forward}

	_, ok := c.TryFire(0, in)
	require.True(t, ok)

	_, ok = c.Interrupt(0.05, in)
	assert.False(t, ok, "interrupt respects the cooldown")
	assert.True(t, c.BurstInFlight())

	require.Len(t, c.Tick(0.1), 1)

	cmd, ok := c.Interrupt(0.15, in)
	require.True(t, ok)
	assert.Equal(t, 0, cmd.BurstIndex, "interrupt starts a fresh burst")
	assert.Equal(t, 0.15, cmd.FiredAt)

	next := c.Tick(0.3)
	require.Len(t, next, 1)
	assert.Equal(t, 1, next[0].BurstIndex)
}

func TestController_CancelBurst(t *testing.T) {
	c := NewController(burstProfile(), newRNG(1))
	_, ok := c.TryFire(0, Input{Aim: geom.Forward})
	require.True(t, ok)

	assert.Equal(t, 2, c.CancelBurst())
	assert.False(t, c.BurstInFlight())
	assert.Empty(t, c.Tick(5))
	assert.Equal(t, 0, c.CancelBurst())
}

func TestController_SetProfileDropsBurst(t *testing.T) {
	c := NewController(burstProfile(), newRNG(1))
	_, ok := c.TryFire(0, Input{Aim: geom.Forward})
	require.True(t, ok)

	c.SetProfile(testProfile(nil))
	assert.False(t, c.BurstInFlight())
	assert.Empty(t, c.Tick(1))
	assert.Equal(t, "blaster", c.Profile().Name)
}
