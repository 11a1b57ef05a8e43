package weapon

import (
	"log/slog"
	"math/rand/v2"
)

// burstState is the scheduled remainder of a burst sequence.
type burstState struct {
	active    bool
	next      int     // index of the next volley
	nextAt    float64 // deadline of the next volley
	remaining int
}

// Controller gates trigger pulls by cooldown and schedules burst volleys.
// Advanced by Tick from the simulation loop.
//
// Not safe for concurrent use: the simulation runs on a single loop.
type Controller struct {
	profile *Profile
	rng     *rand.Rand

	input    Input
	lastFire float64
	hasFired bool
	burst    burstState
}

// NewController creates a controller for profile. A nil or invalid profile
// yields a controller whose TryFire always fails.
func NewController(profile *Profile, rng *rand.Rand) *Controller {
	c := &Controller{rng: rng}
	c.SetProfile(profile)
	return c
}

// SetProfile swaps the weapon, dropping any pending burst volleys.
func (c *Controller) SetProfile(profile *Profile) {
	if profile != nil {
		if err := profile.Validate(); err != nil {
			slog.Error("weapon profile rejected", "weapon", profile.Name, "error", err)
			profile = nil
		}
	}
	c.CancelBurst()
	c.profile = profile
}

// Profile returns the active profile (nil when unarmed).
func (c *Controller) Profile() *Profile {
	return c.profile
}

// Aim updates the input used by the remaining volleys of a running burst.
func (c *Controller) Aim(in Input) {
	c.input = in
}

// Ready reports whether a trigger pull at now would pass the cooldown gate.
func (c *Controller) Ready(now float64) bool {
	if c.profile == nil || c.burst.active {
		return false
	}
	return !c.hasFired || now >= c.lastFire+c.profile.FireRate
}

// TryFire resolves a trigger pull. Rejected when unarmed, on cooldown or
// while a burst is still in flight.
func (c *Controller) TryFire(now float64, in Input) (FireCommand, bool) {
	if !c.Ready(now) {
		return FireCommand{}, false
	}

	c.input = in
	c.lastFire = now
	c.hasFired = true

	if volleys := c.profile.Volleys(); volleys > 1 {
		c.burst = burstState{
			active:    true,
			next:      1,
			nextAt:    now + c.profile.BurstDelay,
			remaining: volleys - 1,
		}
	}

	cmd := Resolve(c.profile, in, c.rng)
	cmd.FiredAt = now
	return cmd, true
}

// Interrupt cancels the pending remainder of a running burst and starts a
// fresh trigger pull. The cooldown still applies; when it has not elapsed
// the running burst is left untouched.
func (c *Controller) Interrupt(now float64, in Input) (FireCommand, bool) {
	if c.profile == nil || (c.hasFired && now < c.lastFire+c.profile.FireRate) {
		return FireCommand{}, false
	}
	if dropped := c.CancelBurst(); dropped > 0 {
		slog.Debug("burst interrupted", "weapon", c.profile.Name, "dropped", dropped)
	}
	return c.TryFire(now, in)
}

// CancelBurst drops the pending volleys and returns how many were dropped.
// Volleys already fired stand.
func (c *Controller) CancelBurst() int {
	dropped := c.burst.remaining
	c.burst = burstState{}
	return dropped
}

// BurstInFlight reports whether burst volleys are still scheduled.
func (c *Controller) BurstInFlight() bool {
	return c.burst.active
}

// Tick emits every burst volley whose deadline passed by now.
func (c *Controller) Tick(now float64) []FireCommand {
	if !c.burst.active || c.profile == nil {
		return nil
	}

	var out []FireCommand
	for c.burst.active && now >= c.burst.nextAt {
		cmd := Resolve(c.profile, c.input, c.rng)
		cmd.BurstIndex = c.burst.next
		cmd.FiredAt = c.burst.nextAt
		out = append(out, cmd)

		c.burst.next++
		c.burst.nextAt += c.profile.BurstDelay
		c.burst.remaining--
		if c.burst.remaining <= 0 {
			c.burst = burstState{}
		}
	}
	return out
}
