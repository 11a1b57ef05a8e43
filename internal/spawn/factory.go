package spawn

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/voidstrike/internal/geom"
)

// Strategy is a stateless spawn distribution algorithm. Place always
// returns exactly req.Count placements.
type Strategy interface {
	Kind() Kind
	Place(rng *rand.Rand, req Request) []Placement
}

// StrategyConfig holds the parameters of every kind; each constructor reads
// only its own fields.
type StrategyConfig struct {
	Kind Kind `yaml:"kind"`

	GridJitter float64 `yaml:"grid_jitter"`

	RingCount        int     `yaml:"ring_count"`
	InnerRadiusRatio float64 `yaml:"inner_radius_ratio"`

	ClusterCount  int     `yaml:"cluster_count"`
	ClusterRadius float64 `yaml:"cluster_radius"`

	EdgeMargin float64  `yaml:"edge_margin"`
	EdgeBias   EdgeBias `yaml:"edge_bias"`
}

// DefaultStrategyConfig returns uniform distribution with sensible
// parameters for the other kinds.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		Kind:             KindUniform,
		GridJitter:       0.5,
		RingCount:        2,
		InnerRadiusRatio: 0.5,
		ClusterCount:     3,
		ClusterRadius:    10,
		EdgeMargin:       5,
		EdgeBias:         EdgeAny,
	}
}

var constructors = map[Kind]func(StrategyConfig) Strategy{
	KindUniform: func(StrategyConfig) Strategy { return Uniform{} },
	KindGrid: func(c StrategyConfig) Strategy {
		return Grid{Jitter: c.GridJitter}
	},
	KindRing: func(c StrategyConfig) Strategy {
		return Ring{RingCount: c.RingCount, InnerRadiusRatio: c.InnerRadiusRatio}
	},
	KindClustered: func(c StrategyConfig) Strategy {
		return Clustered{ClusterCount: c.ClusterCount, ClusterRadius: c.ClusterRadius}
	},
	KindEdge: func(c StrategyConfig) Strategy {
		bias := c.EdgeBias
		if bias == "" {
			bias = EdgeAny
		}
		return Edge{Margin: c.EdgeMargin, Bias: bias}
	},
}

// NewStrategy builds the strategy named by cfg.Kind.
func NewStrategy(cfg StrategyConfig) (Strategy, error) {
	build, ok := constructors[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("building spawn strategy %q: %w", cfg.Kind, ErrUnknownKind)
	}
	return build(cfg), nil
}

// MustStrategy builds cfg's strategy, or Uniform when the kind is unknown.
// The configuration error is logged, never returned.
func MustStrategy(cfg StrategyConfig) Strategy {
	s, err := NewStrategy(cfg)
	if err != nil {
		slog.Error("spawn strategy misconfigured, using uniform", "kind", cfg.Kind, "error", err)
		return Uniform{}
	}
	return s
}

// Positions runs s and strips placement metadata.
func Positions(s Strategy, rng *rand.Rand, req Request) []geom.Vec3 {
	placements := s.Place(rng, req)
	out := make([]geom.Vec3, len(placements))
	for i, pl := range placements {
		out[i] = pl.Position
	}
	return out
}

// Generate builds the strategy for cfg and returns req.Count positions.
func Generate(cfg StrategyConfig, rng *rand.Rand, req Request) []geom.Vec3 {
	return Positions(MustStrategy(cfg), rng, req)
}
