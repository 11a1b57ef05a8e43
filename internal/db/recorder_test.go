package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/sim"
	"github.com/udisondev/voidstrike/internal/testutil"
)

// newRecorder создаёт recorder с уже записанной строкой matches.
func newRecorder(t *testing.T, pool *pgxpool.Pool, batch int) *MatchRecorder {
	t.Helper()
	rec := NewMatchRecorder(pool, uuid.New(), batch)
	require.NoError(t, rec.Begin(context.Background(), "uniform"))
	return rec
}

func TestMatchRecorder_FlushWritesEvents(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	rec := newRecorder(t, pool, 100)
	ctx := context.Background()

	rec.Record(sim.Event{At: 0, Kind: sim.EventSpawn, ActorID: 0x20000001, Position: geom.Vec3{X: 10, Z: -5}, Detail: "uniform"})
	rec.Record(sim.Event{At: 1.2, Kind: sim.EventHit, ActorID: 0x10000001, TargetID: 0x20000001, Amount: 12, Detail: "twin_cannon"})
	rec.Record(sim.Event{At: 1.4, Kind: sim.EventHit, ActorID: 0x10000001, TargetID: 0x20000001, Amount: 12, Detail: "twin_cannon"})
	rec.Record(sim.Event{At: 1.4, Kind: sim.EventKill, ActorID: 0x10000001, TargetID: 0x20000001})
	assert.Equal(t, 4, rec.Pending())

	require.NoError(t, rec.Flush(ctx))
	assert.Zero(t, rec.Pending())
	assert.Equal(t, 4, rec.Written())

	counts, err := rec.EventCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[sim.EventKind]int{
		sim.EventSpawn: 1,
		sim.EventHit:   2,
		sim.EventKill:  1,
	}, counts)

	var x, z float64
	var detail string
	err = pool.QueryRow(ctx,
		`SELECT x, z, detail FROM match_events WHERE match_id = $1 AND kind = 'spawn'`,
		rec.pgMatchID(),
	).Scan(&x, &z, &detail)
	require.NoError(t, err)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, -5.0, z)
	assert.Equal(t, "uniform", detail)
}

func TestMatchRecorder_EmptyFlush(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	rec := newRecorder(t, pool, 10)

	require.NoError(t, rec.Flush(context.Background()))
	assert.Zero(t, rec.Written())
}

func TestMatchRecorder_Finish(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	rec := newRecorder(t, pool, 10)
	ctx := context.Background()

	require.NoError(t, rec.Finish(ctx, 60, 42, 7))

	var (
		simTime     float64
		hits, kills int32
		finished    *time.Time
	)
	err := pool.QueryRow(ctx,
		`SELECT sim_time, hits, kills, finished_at FROM matches WHERE match_id = $1`,
		rec.pgMatchID(),
	).Scan(&simTime, &hits, &kills, &finished)
	require.NoError(t, err)
	assert.Equal(t, 60.0, simTime)
	assert.EqualValues(t, 42, hits)
	assert.EqualValues(t, 7, kills)
	assert.NotNil(t, finished)
}

func TestMatchRecorder_FlushWithoutMatchDropsBatch(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	rec := NewMatchRecorder(pool, uuid.New(), 10)

	rec.Record(sim.Event{Kind: sim.EventHit})
	rec.Record(sim.Event{Kind: sim.EventHit})

	assert.Error(t, rec.Flush(context.Background()), "foreign key violation")
	assert.Equal(t, 2, rec.Dropped())
	assert.Zero(t, rec.Pending())
}

func TestMatchRecorder_RunFlushesWhenBatchFills(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	rec := newRecorder(t, pool, 3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rec.Run(ctx, time.Hour) }()

	for i := range 3 {
		rec.Record(sim.Event{At: float64(i), Kind: sim.EventHit})
	}

	require.Eventually(t, func() bool { return rec.Written() == 3 }, 10*time.Second, 20*time.Millisecond)

	rec.Record(sim.Event{At: 5, Kind: sim.EventKill})
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, 4, rec.Written(), "remainder flushed on shutdown")
}
