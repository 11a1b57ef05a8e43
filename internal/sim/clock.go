package sim

// Clock exposes simulation time in seconds.
type Clock interface {
	// Now is the simulation time of the current frame.
	Now() float64
	// DeltaTime is the length of the current frame.
	DeltaTime() float64
	// FixedDeltaTime is the length of one fixed physics step.
	FixedDeltaTime() float64
}

// ManualClock is a Clock advanced explicitly.
type ManualClock struct {
	now   float64
	delta float64
	fixed float64
}

// NewManualClock creates a clock at 0 with the given fixed step.
func NewManualClock(fixed float64) *ManualClock {
	return &ManualClock{fixed: fixed}
}

// Advance moves the clock forward by dt.
func (c *ManualClock) Advance(dt float64) {
	c.delta = dt
	c.now += dt
}

func (c *ManualClock) Now() float64            { return c.now }
func (c *ManualClock) DeltaTime() float64      { return c.delta }
func (c *ManualClock) FixedDeltaTime() float64 { return c.fixed }
