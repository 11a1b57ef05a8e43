package spawn

import (
	"log/slog"
	"slices"

	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/pool"
)

// RespawnTask represents a scheduled respawn
type RespawnTask struct {
	RespawnAt float64
}

// RespawnScheduler keeps a population topped up by re-spawning returned
// entities after a delay. Advanced by Tick from the simulation loop, no
// goroutines or timers of its own.
type RespawnScheduler struct {
	orchestrator *Orchestrator
	tasks        []RespawnTask // sorted by RespawnAt
}

// NewRespawnScheduler creates new respawn scheduler
func NewRespawnScheduler(orchestrator *Orchestrator) *RespawnScheduler {
	return &RespawnScheduler{orchestrator: orchestrator}
}

// Schedule queues one respawn delay seconds after now.
func (s *RespawnScheduler) Schedule(now, delay float64) {
	if delay < 0 {
		delay = 0
	}
	task := RespawnTask{RespawnAt: now + delay}

	idx, _ := slices.BinarySearchFunc(s.tasks, task.RespawnAt, func(t RespawnTask, at float64) int {
		switch {
		case t.RespawnAt < at:
			return -1
		case t.RespawnAt > at:
			return 1
		default:
			return 0
		}
	})
	// Equal deadlines keep FIFO order
	for idx < len(s.tasks) && s.tasks[idx].RespawnAt == task.RespawnAt {
		idx++
	}
	s.tasks = slices.Insert(s.tasks, idx, task)

	slog.Debug("respawn scheduled", "delay", delay, "respawnAt", task.RespawnAt, "pending", len(s.tasks))
}

// Tick spawns every task that is due at now, using exclusion as the
// dynamic exclusion center (usually the player position).
func (s *RespawnScheduler) Tick(now float64, exclusion geom.Vec3) []pool.Handle {
	due := 0
	for due < len(s.tasks) && s.tasks[due].RespawnAt <= now {
		due++
	}
	if due == 0 {
		return nil
	}
	s.tasks = s.tasks[due:]

	spawned := make([]pool.Handle, 0, due)
	for range due {
		h, ok := s.orchestrator.SpawnOne(exclusion)
		if !ok {
			slog.Debug("respawn skipped", "active", s.orchestrator.ActiveCount())
			continue
		}
		spawned = append(spawned, h)
	}

	if len(spawned) > 0 {
		slog.Info("entities respawned", "count", len(spawned), "pending", len(s.tasks))
	}
	return spawned
}

// Cancel drops all pending respawns.
func (s *RespawnScheduler) Cancel() {
	if len(s.tasks) > 0 {
		slog.Debug("respawns cancelled", "count", len(s.tasks))
	}
	s.tasks = nil
}

// Pending returns number of scheduled respawns
func (s *RespawnScheduler) Pending() int {
	return len(s.tasks)
}

// Next returns the earliest pending task.
func (s *RespawnScheduler) Next() (RespawnTask, bool) {
	if len(s.tasks) == 0 {
		return RespawnTask{}, false
	}
	return s.tasks[0], true
}
