package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/voidstrike/internal/sim"
)

// DefaultBatchSize caps the events buffered before Record asks for a flush.
const DefaultBatchSize = 500

var matchEventColumns = []string{
	"match_id", "at", "kind", "actor_id", "target_id", "x", "z", "amount", "detail", "fallback",
}

// MatchRecorder buffers match events in memory and writes them with COPY.
//
// Record is called from the simulation loop, Flush and Run from a separate
// goroutine; the buffer is guarded by a mutex.
type MatchRecorder struct {
	pool      *pgxpool.Pool
	matchID   uuid.UUID
	batchSize int

	mu      sync.Mutex
	buf     []sim.Event
	written int
	dropped int

	// full is signalled when the buffer reaches batchSize.
	full chan struct{}
}

// NewMatchRecorder creates a recorder for one match.
func NewMatchRecorder(pool *pgxpool.Pool, matchID uuid.UUID, batchSize int) *MatchRecorder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &MatchRecorder{
		pool:      pool,
		matchID:   matchID,
		batchSize: batchSize,
		buf:       make([]sim.Event, 0, batchSize),
		full:      make(chan struct{}, 1),
	}
}

// MatchID returns the recorded match.
func (r *MatchRecorder) MatchID() uuid.UUID {
	return r.matchID
}

func (r *MatchRecorder) pgMatchID() pgtype.UUID {
	return pgtype.UUID{Bytes: r.matchID, Valid: true}
}

// Begin inserts the match row. Must run before the first Flush.
func (r *MatchRecorder) Begin(ctx context.Context, strategy string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO matches (match_id, strategy, started_at) VALUES ($1, $2, $3)`,
		r.pgMatchID(), strategy, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("creating match %s: %w", r.matchID, err)
	}
	return nil
}

// Finish stores the match summary.
func (r *MatchRecorder) Finish(ctx context.Context, simTime float64, hits, kills int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE matches SET finished_at = $2, sim_time = $3, hits = $4, kills = $5 WHERE match_id = $1`,
		r.pgMatchID(), time.Now(), simTime, hits, kills,
	)
	if err != nil {
		return fmt.Errorf("finishing match %s: %w", r.matchID, err)
	}
	return nil
}

// Record buffers one event. Safe to use as a sim.World observer.
func (r *MatchRecorder) Record(ev sim.Event) {
	r.mu.Lock()
	r.buf = append(r.buf, ev)
	full := len(r.buf) >= r.batchSize
	r.mu.Unlock()

	if full {
		select {
		case r.full <- struct{}{}:
		default:
		}
	}
}

// Pending returns the number of buffered events.
func (r *MatchRecorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

// Written returns the number of events stored so far.
func (r *MatchRecorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Dropped returns the number of events lost to failed flushes.
func (r *MatchRecorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Flush writes the buffered events. On failure the batch is dropped and
// counted; the simulation never blocks on the database.
func (r *MatchRecorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	batch := r.buf
	r.buf = make([]sim.Event, 0, r.batchSize)
	r.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	matchID := r.pgMatchID()
	rows := make([][]any, 0, len(batch))
	for _, ev := range batch {
		rows = append(rows, []any{
			matchID, ev.At, string(ev.Kind), int64(ev.ActorID), int64(ev.TargetID),
			ev.Position.X, ev.Position.Z, ev.Amount, ev.Detail, ev.Fallback,
		})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"match_events"},
		matchEventColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		r.mu.Lock()
		r.dropped += len(batch)
		r.mu.Unlock()
		return fmt.Errorf("copying %d match events: %w", len(batch), err)
	}

	r.mu.Lock()
	r.written += int(n)
	r.mu.Unlock()

	slog.Debug("match events flushed", "match", r.matchID, "count", n)
	return nil
}

// Run flushes every interval and whenever the buffer fills, until ctx is
// cancelled; then flushes the remainder once more.
func (r *MatchRecorder) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := r.Flush(final); err != nil {
				return fmt.Errorf("final flush: %w", err)
			}
			slog.Info("match recorder stopped", "match", r.matchID, "written", r.Written(), "dropped", r.Dropped())
			return nil
		case <-ticker.C:
		case <-r.full:
		}

		if err := r.Flush(ctx); err != nil {
			slog.Error("flushing match events", "match", r.matchID, "error", err)
		}
	}
}

// EventCounts returns the number of stored events of each kind.
func (r *MatchRecorder) EventCounts(ctx context.Context) (map[sim.EventKind]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT kind, count(*) FROM match_events WHERE match_id = $1 GROUP BY kind`,
		r.pgMatchID(),
	)
	if err != nil {
		return nil, fmt.Errorf("counting events of match %s: %w", r.matchID, err)
	}
	defer rows.Close()

	out := make(map[sim.EventKind]int)
	for rows.Next() {
		var (
			kind  string
			count int64
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scanning event count: %w", err)
		}
		out[sim.EventKind(kind)] = int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event counts: %w", err)
	}
	return out, nil
}
