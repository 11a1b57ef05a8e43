package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/pool"
)

// stubMapBounds для тестов
type stubMapBounds struct {
	bounds geom.Bounds3
	ok     bool
}

func (m stubMapBounds) PlayableBounds() (geom.Bounds3, bool) {
	return m.bounds, m.ok
}

func newTestOrchestrator(t *testing.T, mutate func(*Config)) (*Orchestrator, *pool.Pool) {
	t.Helper()

	p := pool.New(pool.EnemyIDBase)
	o := NewOrchestrator(p, nil, newRNG(1))

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, o.Initialize(cfg))
	return o, p
}

func TestOrchestrator_SpawnInitial(t *testing.T) {
	o, p := newTestOrchestrator(t, nil)

	var events []SpawnEvent
	o.OnSpawn(func(ev SpawnEvent) { events = append(events, ev) })

	handles := o.SpawnInitial(10, geom.Flat(0, 0))
	require.Len(t, handles, 10)
	assert.Len(t, events, 10)
	assert.Equal(t, 10, o.ActiveCount())
	assert.Equal(t, 10, p.Count("enemy"))

	for i, h := range handles {
		pos, ok := o.Position(h)
		require.True(t, ok)
		assert.Equal(t, events[i].Handle, h)
		assert.Equal(t, events[i].Position, pos)
		assert.GreaterOrEqual(t, geom.Distance(pos, geom.Flat(0, 0)), 20.0)
	}
}

func TestOrchestrator_PoolExhaustionStopsBatch(t *testing.T) {
	o, _ := newTestOrchestrator(t, func(c *Config) {
		c.PoolMin = 0
		c.PoolMax = 3
	})

	handles := o.SpawnInitial(5, geom.Flat(0, 0))
	assert.Len(t, handles, 3)

	_, ok := o.SpawnOne(geom.Flat(0, 0))
	assert.False(t, ok)
}

func TestOrchestrator_Return(t *testing.T) {
	o, p := newTestOrchestrator(t, nil)

	handles := o.SpawnInitial(3, geom.Flat(0, 0))
	require.Len(t, handles, 3)

	assert.True(t, o.Return(handles[0]))
	assert.False(t, o.Return(handles[0]), "second return is a no-op")
	assert.Equal(t, 2, o.ActiveCount())
	assert.Equal(t, 2, p.Count("enemy"))

	_, ok := o.Position(handles[0])
	assert.False(t, ok)

	// swap-remove keeps the rest addressable
	for _, h := range handles[1:] {
		_, ok := o.Position(h)
		assert.True(t, ok)
	}
}

func TestOrchestrator_SpawnOneKeepsSpacingFromActive(t *testing.T) {
	o, _ := newTestOrchestrator(t, func(c *Config) {
		c.MinSpacing = 30
		c.MinDistance = 0
	})

	first := o.SpawnInitial(4, geom.Flat(0, 0))
	require.Len(t, first, 4)

	h, ok := o.SpawnOne(geom.Flat(0, 0))
	require.True(t, ok)
	pos, _ := o.Position(h)

	for _, e := range o.Active() {
		if e.Handle == h {
			continue
		}
		assert.GreaterOrEqual(t, geom.Distance(pos, e.Position), 30.0)
	}
}

func TestOrchestrator_MissingPoolIsNoop(t *testing.T) {
	o := NewOrchestrator(nil, nil, newRNG(1))
	err := o.Initialize(DefaultConfig())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, o.Ready())

	assert.Nil(t, o.SpawnInitial(5, geom.Flat(0, 0)))
	_, ok := o.SpawnOne(geom.Flat(0, 0))
	assert.False(t, ok)
	assert.False(t, o.Return(pool.Handle{Kind: "enemy", ID: 1}))
}

func TestOrchestrator_MissingEntityKindIsNoop(t *testing.T) {
	o := NewOrchestrator(pool.New(pool.EnemyIDBase), nil, newRNG(1))
	cfg := DefaultConfig()
	cfg.EntityKind = ""
	assert.ErrorIs(t, o.Initialize(cfg), ErrNotConfigured)

	_, ok := o.SpawnOne(geom.Flat(0, 0))
	assert.False(t, ok)
}

func TestOrchestrator_BoundsResolution(t *testing.T) {
	mapBounds := geom.BoundsFromMinMax(-300, -300, 300, 300)

	t.Run("explicit area wins", func(t *testing.T) {
		o := NewOrchestrator(pool.New(pool.EnemyIDBase), stubMapBounds{mapBounds, true}, newRNG(1))
		cfg := DefaultConfig()
		cfg.Area = &Rect{MinX: -10, MinZ: -20, MaxX: 10, MaxZ: 20}
		require.NoError(t, o.Initialize(cfg))
		assert.Equal(t, geom.BoundsFromMinMax(-10, -20, 10, 20), o.Bounds())
	})

	t.Run("map bounds", func(t *testing.T) {
		o := NewOrchestrator(pool.New(pool.EnemyIDBase), stubMapBounds{mapBounds, true}, newRNG(1))
		require.NoError(t, o.Initialize(DefaultConfig()))
		assert.Equal(t, mapBounds, o.Bounds())
	})

	t.Run("map bounds unavailable", func(t *testing.T) {
		o := NewOrchestrator(pool.New(pool.EnemyIDBase), stubMapBounds{}, newRNG(1))
		require.NoError(t, o.Initialize(DefaultConfig()))
		assert.Equal(t, DefaultBounds, o.Bounds())
	})

	t.Run("hardcoded fallback", func(t *testing.T) {
		o := NewOrchestrator(pool.New(pool.EnemyIDBase), nil, newRNG(1))
		require.NoError(t, o.Initialize(DefaultConfig()))
		assert.Equal(t, DefaultBounds, o.Bounds())
	})
}

func TestOrchestrator_SetStrategyKeepsActive(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)

	handles := o.SpawnInitial(5, geom.Flat(0, 0))
	before := o.Active()

	require.NoError(t, o.SetStrategyKind(KindEdge))
	assert.Equal(t, KindEdge, o.Strategy().Kind())
	assert.Equal(t, before, o.Active())

	h, ok := o.SpawnOne(geom.Flat(0, 0))
	require.True(t, ok)
	pos, _ := o.Position(h)
	margin := o.Config().Strategy.EdgeMargin
	onEdge := pos.X == -100+margin || pos.X == 100-margin || pos.Z == -100+margin || pos.Z == 100-margin
	assert.True(t, onEdge, "edge strategy position %v", pos)

	assert.ErrorIs(t, o.SetStrategyKind("spiral"), ErrUnknownKind)
	assert.Equal(t, KindEdge, o.Strategy().Kind())

	o.SetStrategy(nil)
	assert.Equal(t, KindEdge, o.Strategy().Kind())

	o.SetStrategy(Ring{RingCount: 1})
	assert.Equal(t, KindRing, o.Strategy().Kind())
	assert.Len(t, handles, 5)
}

func TestOrchestrator_UpdatePosition(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)
	h, ok := o.SpawnOne(geom.Flat(0, 0))
	require.True(t, ok)

	assert.True(t, o.UpdatePosition(h, geom.Flat(1, 2)))
	pos, _ := o.Position(h)
	assert.Equal(t, geom.Flat(1, 2), pos)

	assert.False(t, o.UpdatePosition(pool.Handle{Kind: "enemy", ID: 9}, geom.Flat(0, 0)))
}
