package spawn

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/voidstrike/internal/geom"
	"github.com/udisondev/voidstrike/internal/pool"
)

// DefaultBounds is used when neither an explicit area nor map bounds are available.
var DefaultBounds = geom.BoundsFromMinMax(-100, -100, 100, 100)

// Pool interface for entity slots (implemented by pool.Pool)
type Pool interface {
	Register(kind string, min, max int) error
	Acquire(kind string) (pool.Handle, error)
	Release(h pool.Handle) error
	Capacity(kind string) int
	Count(kind string) int
}

// MapBounds interface for the level collaborator that knows the playable area
type MapBounds interface {
	PlayableBounds() (geom.Bounds3, bool)
}

// Rect is an axis-aligned area in config form.
type Rect struct {
	MinX float64 `yaml:"min_x"`
	MinZ float64 `yaml:"min_z"`
	MaxX float64 `yaml:"max_x"`
	MaxZ float64 `yaml:"max_z"`
}

// Bounds converts the rect into geom.Bounds3.
func (r Rect) Bounds() geom.Bounds3 {
	return geom.BoundsFromMinMax(r.MinX, r.MinZ, r.MaxX, r.MaxZ)
}

// Config describes one orchestrated entity population.
type Config struct {
	EntityKind string         `yaml:"entity_kind"`
	Area       *Rect          `yaml:"area"` // explicit override of map bounds
	Strategy   StrategyConfig `yaml:"strategy"`

	MinDistance float64 `yaml:"min_distance"`
	MinSpacing  float64 `yaml:"min_spacing"`

	PoolMin int `yaml:"pool_min"`
	PoolMax int `yaml:"pool_max"`

	InitialCount int     `yaml:"initial_count"`
	RespawnDelay float64 `yaml:"respawn_delay"` // seconds, 0 disables respawn
}

// DefaultConfig returns an enemy population config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EntityKind:   "enemy",
		Strategy:     DefaultStrategyConfig(),
		MinDistance:  20,
		MinSpacing:   5,
		PoolMin:      10,
		PoolMax:      50,
		InitialCount: 10,
		RespawnDelay: 3,
	}
}

// SpawnEvent is emitted for every successful spawn.
type SpawnEvent struct {
	Handle   pool.Handle
	Position geom.Vec3
	Fallback bool
}

// Entity is an active spawned entity.
type Entity struct {
	Handle   pool.Handle
	Position geom.Vec3
}

// Orchestrator bridges spawn distribution output to a live-entity pool.
// It owns the current strategy, the bounds and the set of active entities.
//
// Not safe for concurrent use: the simulation runs on a single loop.
type Orchestrator struct {
	pool      Pool
	mapBounds MapBounds
	rng       *rand.Rand

	cfg      Config
	bounds   geom.Bounds3
	strategy Strategy
	ready    bool

	active    map[pool.Handle]int // handle → index in entities
	entities  []Entity
	observers []func(SpawnEvent)
}

// NewOrchestrator creates orchestrator. pool and mapBounds may be nil;
// a nil pool turns every spawn into a logged no-op.
func NewOrchestrator(p Pool, mapBounds MapBounds, rng *rand.Rand) *Orchestrator {
	return &Orchestrator{
		pool:      p,
		mapBounds: mapBounds,
		rng:       rng,
		bounds:    DefaultBounds,
		strategy:  Uniform{},
		active:    make(map[pool.Handle]int),
	}
}

// Initialize applies cfg: resolves bounds, builds the strategy and sizes the pool.
// Configuration problems are logged and leave the orchestrator unable to
// spawn; the returned error is informational.
func (o *Orchestrator) Initialize(cfg Config) error {
	o.cfg = cfg
	o.ready = false

	switch {
	case cfg.Area != nil:
		o.bounds = cfg.Area.Bounds()
	case o.mapBounds != nil:
		if b, ok := o.mapBounds.PlayableBounds(); ok {
			o.bounds = b
		} else {
			o.bounds = DefaultBounds
		}
	default:
		o.bounds = DefaultBounds
	}

	o.strategy = MustStrategy(cfg.Strategy)

	if o.pool == nil || cfg.EntityKind == "" {
		slog.Error("spawn orchestrator has no pool or entity kind configured",
			"entityKind", cfg.EntityKind,
			"hasPool", o.pool != nil)
		return fmt.Errorf("initializing orchestrator: %w", ErrNotConfigured)
	}

	if err := o.pool.Register(cfg.EntityKind, cfg.PoolMin, cfg.PoolMax); err != nil {
		slog.Error("sizing entity pool", "entityKind", cfg.EntityKind, "error", err)
		return fmt.Errorf("initializing orchestrator: %w", err)
	}

	o.ready = true
	slog.Info("spawn orchestrator initialized",
		"entityKind", cfg.EntityKind,
		"strategy", o.strategy.Kind(),
		"boundsMin", o.bounds.Min(),
		"boundsMax", o.bounds.Max(),
		"poolMin", cfg.PoolMin,
		"poolMax", cfg.PoolMax)
	return nil
}

// OnSpawn registers an observer called after every successful spawn.
func (o *Orchestrator) OnSpawn(fn func(SpawnEvent)) {
	o.observers = append(o.observers, fn)
}

// SetStrategy hot-swaps the distribution algorithm. Active entities stay put.
func (o *Orchestrator) SetStrategy(s Strategy) {
	if s == nil {
		slog.Warn("ignoring nil spawn strategy")
		return
	}
	o.strategy = s
	slog.Debug("spawn strategy changed", "strategy", s.Kind())
}

// SetStrategyKind rebuilds the strategy for kind keeping the other parameters.
func (o *Orchestrator) SetStrategyKind(kind Kind) error {
	cfg := o.cfg.Strategy
	cfg.Kind = kind
	s, err := NewStrategy(cfg)
	if err != nil {
		return fmt.Errorf("switching spawn strategy: %w", err)
	}
	o.cfg.Strategy = cfg
	o.SetStrategy(s)
	return nil
}

func (o *Orchestrator) request(count int, exclusion geom.Vec3) Request {
	occupied := make([]geom.Vec3, len(o.entities))
	for i, e := range o.entities {
		occupied[i] = e.Position
	}
	return Request{
		Count:           count,
		ExclusionCenter: exclusion,
		MinDistance:     o.cfg.MinDistance,
		MinSpacing:      o.cfg.MinSpacing,
		Bounds:          o.bounds,
		Occupied:        occupied,
	}
}

// SpawnInitial spawns count entities away from exclusion.
// Stops early (logged) when the pool is exhausted.
func (o *Orchestrator) SpawnInitial(count int, exclusion geom.Vec3) []pool.Handle {
	if !o.canSpawn() || count <= 0 {
		return nil
	}

	placements := o.strategy.Place(o.rng, o.request(count, exclusion))
	handles := make([]pool.Handle, 0, len(placements))
	for _, pl := range placements {
		h, ok := o.spawnAt(pl)
		if !ok {
			break
		}
		handles = append(handles, h)
	}

	slog.Info("initial wave spawned",
		"entityKind", o.cfg.EntityKind,
		"strategy", o.strategy.Kind(),
		"requested", count,
		"spawned", len(handles))
	return handles
}

// SpawnOne spawns a single entity, validated against exclusion and all
// active entities.
func (o *Orchestrator) SpawnOne(exclusion geom.Vec3) (pool.Handle, bool) {
	if !o.canSpawn() {
		return pool.Handle{}, false
	}
	placements := o.strategy.Place(o.rng, o.request(1, exclusion))
	if len(placements) == 0 {
		return pool.Handle{}, false
	}
	return o.spawnAt(placements[0])
}

// Return removes the entity from the active set and releases its slot.
func (o *Orchestrator) Return(h pool.Handle) bool {
	idx, ok := o.active[h]
	if !ok {
		slog.Debug("returning unknown entity", "handle", h.String())
		return false
	}

	// swap-remove
	last := len(o.entities) - 1
	if idx != last {
		moved := o.entities[last]
		o.entities[idx] = moved
		o.active[moved.Handle] = idx
	}
	o.entities = o.entities[:last]
	delete(o.active, h)

	if err := o.pool.Release(h); err != nil {
		slog.Warn("releasing entity slot", "handle", h.String(), "error", err)
	}

	slog.Debug("entity returned", "handle", h.String(), "active", len(o.entities))
	return true
}

func (o *Orchestrator) canSpawn() bool {
	if !o.ready {
		slog.Error("spawn skipped: orchestrator not configured",
			"entityKind", o.cfg.EntityKind,
			"hasPool", o.pool != nil)
		return false
	}
	return true
}

func (o *Orchestrator) spawnAt(pl Placement) (pool.Handle, bool) {
	h, err := o.pool.Acquire(o.cfg.EntityKind)
	if err != nil {
		slog.Warn("spawn skipped: no free slot",
			"entityKind", o.cfg.EntityKind,
			"active", o.pool.Count(o.cfg.EntityKind),
			"capacity", o.pool.Capacity(o.cfg.EntityKind),
			"error", err)
		return pool.Handle{}, false
	}

	o.active[h] = len(o.entities)
	o.entities = append(o.entities, Entity{Handle: h, Position: pl.Position})

	slog.Debug("entity spawned",
		"handle", h.String(),
		"position", pl.Position,
		"fallback", pl.Fallback)

	ev := SpawnEvent{Handle: h, Position: pl.Position, Fallback: pl.Fallback}
	for _, fn := range o.observers {
		fn(ev)
	}
	return h, true
}

// Active returns a copy of the active entities.
func (o *Orchestrator) Active() []Entity {
	out := make([]Entity, len(o.entities))
	copy(out, o.entities)
	return out
}

// ActiveCount returns number of active entities.
func (o *Orchestrator) ActiveCount() int {
	return len(o.entities)
}

// Position returns the spawn position of an active entity.
func (o *Orchestrator) Position(h pool.Handle) (geom.Vec3, bool) {
	idx, ok := o.active[h]
	if !ok {
		return geom.Vec3{}, false
	}
	return o.entities[idx].Position, true
}

// UpdatePosition records where an active entity moved to, so later spawns
// keep their spacing from it.
func (o *Orchestrator) UpdatePosition(h pool.Handle, pos geom.Vec3) bool {
	idx, ok := o.active[h]
	if !ok {
		return false
	}
	o.entities[idx].Position = pos
	return true
}

// Bounds returns the resolved spawn area.
func (o *Orchestrator) Bounds() geom.Bounds3 { return o.bounds }

// Strategy returns the current strategy.
func (o *Orchestrator) Strategy() Strategy { return o.strategy }

// Config returns the applied config.
func (o *Orchestrator) Config() Config { return o.cfg }

// Ready reports whether Initialize succeeded.
func (o *Orchestrator) Ready() bool { return o.ready }
