package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// System is advanced by the loop. FixedTick runs at the fixed physics rate,
// Tick once per frame after the fixed steps.
type System interface {
	FixedTick(now, dt float64)
	Tick(now, dt float64)
}

// LoopConfig configures step rates.
type LoopConfig struct {
	FixedRate     float64 `yaml:"fixed_rate"`      // physics steps per second
	FrameRate     float64 `yaml:"frame_rate"`      // frames per second in Run
	MaxFixedSteps int     `yaml:"max_fixed_steps"` // per frame, backlog beyond is dropped
	TimeScale     float64 `yaml:"time_scale"`      // simulated seconds per wall second
}

// DefaultLoopConfig returns 50 Hz physics and 60 fps frames.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		FixedRate:     50,
		FrameRate:     60,
		MaxFixedSteps: 5,
		TimeScale:     1,
	}
}

// Validate checks the rates.
func (c LoopConfig) Validate() error {
	if c.FixedRate <= 0 {
		return fmt.Errorf("fixed rate %v must be positive", c.FixedRate)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate %v must be positive", c.FrameRate)
	}
	if c.MaxFixedSteps < 1 {
		return fmt.Errorf("max fixed steps %d must be at least 1", c.MaxFixedSteps)
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("time scale %v must be positive", c.TimeScale)
	}
	return nil
}

// Loop drives systems with a fixed-timestep accumulator. It is the
// simulation Clock.
//
// Not safe for concurrent use: Step and Run must not overlap.
type Loop struct {
	cfg     LoopConfig
	systems []System

	now         float64
	fixedNow    float64
	delta       float64
	fixedDelta  float64
	accumulator float64

	frames     uint64
	fixedSteps uint64
}

// NewLoop creates a loop. Invalid rates fall back to DefaultLoopConfig.
func NewLoop(cfg LoopConfig, systems ...System) *Loop {
	if err := cfg.Validate(); err != nil {
		slog.Warn("invalid loop config, using defaults", "error", err)
		cfg = DefaultLoopConfig()
	}
	if cfg.TimeScale <= 0 {
		cfg.TimeScale = 1
	}
	return &Loop{
		cfg:        cfg,
		systems:    systems,
		fixedDelta: 1 / cfg.FixedRate,
	}
}

// Add appends a system.
func (l *Loop) Add(s System) {
	l.systems = append(l.systems, s)
}

func (l *Loop) Now() float64            { return l.now }
func (l *Loop) DeltaTime() float64      { return l.delta }
func (l *Loop) FixedDeltaTime() float64 { return l.fixedDelta }

// Frames returns the number of frames stepped.
func (l *Loop) Frames() uint64 { return l.frames }

// FixedSteps returns the number of fixed steps run.
func (l *Loop) FixedSteps() uint64 { return l.fixedSteps }

// Step advances the simulation by one frame of frameDelta seconds and
// returns how many fixed steps ran.
func (l *Loop) Step(frameDelta float64) int {
	if frameDelta < 0 || math.IsNaN(frameDelta) {
		frameDelta = 0
	}

	l.accumulator += frameDelta
	steps := 0
	for l.accumulator >= l.fixedDelta && steps < l.cfg.MaxFixedSteps {
		l.fixedNow += l.fixedDelta
		for _, s := range l.systems {
			s.FixedTick(l.fixedNow, l.fixedDelta)
		}
		l.accumulator -= l.fixedDelta
		steps++
	}
	if l.accumulator >= l.fixedDelta {
		dropped := int(l.accumulator / l.fixedDelta)
		l.accumulator = math.Mod(l.accumulator, l.fixedDelta)
		// simulation time stays with the fixed steps that actually ran
		frameDelta -= float64(dropped) * l.fixedDelta
		slog.Debug("fixed steps clamped", "dropped", dropped, "max", l.cfg.MaxFixedSteps)
	}

	l.delta = frameDelta
	l.now += frameDelta
	for _, s := range l.systems {
		s.Tick(l.now, frameDelta)
	}

	l.frames++
	l.fixedSteps += uint64(steps)
	return steps
}

// Run steps the loop at FrameRate using wall-clock deltas scaled by
// TimeScale. Blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / l.cfg.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("simulation loop started",
		"fixed_rate", l.cfg.FixedRate,
		"frame_rate", l.cfg.FrameRate,
		"time_scale", l.cfg.TimeScale)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation loop stopping", "frames", l.frames, "sim_time", l.now)
			return ctx.Err()
		case t := <-ticker.C:
			l.Step(t.Sub(last).Seconds() * l.cfg.TimeScale)
			last = t
		}
	}
}
