package spawn

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind is returned for strategy kinds without a registered constructor.
	ErrUnknownKind = errors.New("spawn: unknown strategy kind")
	// ErrNotConfigured is returned when the orchestrator lacks a pool or entity kind.
	ErrNotConfigured = errors.New("spawn: orchestrator not configured")
)

// Kind names a spawn distribution algorithm. Closed set, see kinds.
type Kind string

const (
	KindUniform   Kind = "uniform"
	KindGrid      Kind = "grid"
	KindRing      Kind = "ring"
	KindClustered Kind = "clustered"
	KindEdge      Kind = "edge"
)

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindUniform, KindGrid, KindRing, KindClustered, KindEdge}
}

// ParseKind converts a config string into a Kind (case-insensitive).
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := constructors[k]; !ok {
		return "", fmt.Errorf("parsing kind %q: %w", s, ErrUnknownKind)
	}
	return k, nil
}

// EdgeBias selects which bounds edges the Edge strategy samples from.
type EdgeBias string

const (
	EdgeAny        EdgeBias = "any"
	EdgeHorizontal EdgeBias = "horizontal" // north/south edges (±Z)
	EdgeVertical   EdgeBias = "vertical"   // east/west edges (±X)
	EdgeFarthest   EdgeBias = "farthest"   // edge farthest from the exclusion center
)
