package sim

import "log/slog"

// Reporter logs a match summary every interval of simulated time.
type Reporter struct {
	world    *World
	interval float64
	next     float64
	reports  int
}

// NewReporter creates a reporter. A non-positive interval disables it.
func NewReporter(w *World, interval float64) *Reporter {
	return &Reporter{world: w, interval: interval, next: interval}
}

// Reports returns the number of summaries logged.
func (r *Reporter) Reports() int { return r.reports }

func (r *Reporter) FixedTick(float64, float64) {}

func (r *Reporter) Tick(now, _ float64) {
	if r.interval <= 0 || now < r.next {
		return
	}
	for r.next <= now {
		r.next += r.interval
	}
	r.reports++

	hits, kills := r.world.Stats()
	var health, shield float64
	if h, ok := r.world.Arena().Hull(r.world.Player().ID); ok {
		health, shield = h.Health, h.Shield
	}
	slog.Info("match report",
		"sim_time", now,
		"enemies", r.world.Enemies(),
		"projectiles", r.world.Projectiles().Count(),
		"pending_respawns", r.world.Respawns().Pending(),
		"player_health", health,
		"player_shield", shield,
		"hits", hits,
		"kills", kills)
}
