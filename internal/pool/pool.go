package pool

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrUnknownKind is returned when a kind was never registered.
	ErrUnknownKind = errors.New("pool: unknown kind")
	// ErrExhausted is returned when a kind reached its maximum capacity.
	ErrExhausted = errors.New("pool: capacity exhausted")
	// ErrNotAcquired is returned when releasing a handle that is not active
	// (double release or a stale handle from an earlier generation).
	ErrNotAcquired = errors.New("pool: handle not acquired")
)

// Handle identifies one pooled slot. Generation changes every time the slot
// is re-acquired, so a stale handle never releases someone else's entity.
type Handle struct {
	Kind       string
	ID         uint32
	Generation uint32
}

// Valid reports whether the handle was produced by Acquire.
func (h Handle) Valid() bool {
	return h.ID != 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%s#%d.%d", h.Kind, h.ID, h.Generation)
}

type slot struct {
	generation uint32
	active     bool
}

type bucket struct {
	min, max int
	free     []uint32 // IDs ready for reuse, LIFO
	slots    map[uint32]*slot
	active   int
}

// Pool is a kind-keyed handle pool with prewarmed minimum and hard maximum
// capacity per kind.
//
// Acquire and Release complete within the call; there is no half-acquired
// state. Not safe for concurrent use: the simulation runs on a single loop.
type Pool struct {
	ids     *IDGenerator
	buckets map[string]*bucket
}

// New creates an empty pool whose IDs start after base.
func New(base uint32) *Pool {
	return &Pool{
		ids:     NewIDGenerator(base),
		buckets: make(map[string]*bucket),
	}
}

// Register declares a kind with min prewarmed slots and max capacity.
// max <= 0 means unbounded. Registering an existing kind resizes it.
func (p *Pool) Register(kind string, min, max int) error {
	if kind == "" {
		return fmt.Errorf("registering pool kind: %w", ErrUnknownKind)
	}
	if min < 0 {
		min = 0
	}
	if max > 0 && min > max {
		return fmt.Errorf("registering pool kind %q: min %d exceeds max %d", kind, min, max)
	}

	b, ok := p.buckets[kind]
	if !ok {
		b = &bucket{slots: make(map[uint32]*slot)}
		p.buckets[kind] = b
	}
	b.min, b.max = min, max

	// Prewarm
	for len(b.slots) < min {
		id := p.ids.Next()
		b.slots[id] = &slot{}
		b.free = append(b.free, id)
	}

	slog.Debug("pool kind registered", "kind", kind, "min", min, "max", max, "slots", len(b.slots))
	return nil
}

// Acquire takes a slot of kind, growing the pool up to its capacity.
func (p *Pool) Acquire(kind string) (Handle, error) {
	b, ok := p.buckets[kind]
	if !ok {
		return Handle{}, fmt.Errorf("acquiring %q: %w", kind, ErrUnknownKind)
	}

	var id uint32
	if n := len(b.free); n > 0 {
		id = b.free[n-1]
		b.free = b.free[:n-1]
	} else {
		if b.max > 0 && len(b.slots) >= b.max {
			return Handle{}, fmt.Errorf("acquiring %q (%d/%d): %w", kind, b.active, b.max, ErrExhausted)
		}
		id = p.ids.Next()
		b.slots[id] = &slot{}
	}

	s := b.slots[id]
	s.generation++
	s.active = true
	b.active++

	return Handle{Kind: kind, ID: id, Generation: s.generation}, nil
}

// Release returns the slot to its kind's free list.
func (p *Pool) Release(h Handle) error {
	b, ok := p.buckets[h.Kind]
	if !ok {
		return fmt.Errorf("releasing %s: %w", h, ErrUnknownKind)
	}
	s, ok := b.slots[h.ID]
	if !ok || !s.active || s.generation != h.Generation {
		return fmt.Errorf("releasing %s: %w", h, ErrNotAcquired)
	}

	s.active = false
	b.active--
	b.free = append(b.free, h.ID)
	return nil
}

// Capacity returns the maximum number of slots for kind
// (0 for unbounded or unknown kinds).
func (p *Pool) Capacity(kind string) int {
	if b, ok := p.buckets[kind]; ok {
		return b.max
	}
	return 0
}

// Count returns the number of acquired slots of kind.
func (p *Pool) Count(kind string) int {
	if b, ok := p.buckets[kind]; ok {
		return b.active
	}
	return 0
}
