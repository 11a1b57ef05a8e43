package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/voidstrike/internal/spawn"
)

// SpawnPreset is a named spawn strategy with its placement constraints.
type SpawnPreset struct {
	Name        string
	Strategy    spawn.StrategyConfig
	MinDistance float64
	MinSpacing  float64
}

// Apply copies the preset into an orchestrator config.
func (p SpawnPreset) Apply(cfg *spawn.Config) {
	cfg.Strategy = p.Strategy
	cfg.MinDistance = p.MinDistance
	cfg.MinSpacing = p.MinSpacing
}

// SpawnPresetRepository handles spawn preset CRUD operations
type SpawnPresetRepository struct {
	pool *pgxpool.Pool
}

// NewSpawnPresetRepository creates a new spawn preset repository
func NewSpawnPresetRepository(pool *pgxpool.Pool) *SpawnPresetRepository {
	return &SpawnPresetRepository{pool: pool}
}

const presetColumns = `name, kind, grid_jitter, ring_count, inner_radius_ratio,
	cluster_count, cluster_radius, edge_margin, edge_bias, min_distance, min_spacing`

func scanPreset(row pgx.Row) (SpawnPreset, error) {
	var (
		p          SpawnPreset
		kind, bias string
	)
	err := row.Scan(
		&p.Name, &kind, &p.Strategy.GridJitter, &p.Strategy.RingCount, &p.Strategy.InnerRadiusRatio,
		&p.Strategy.ClusterCount, &p.Strategy.ClusterRadius, &p.Strategy.EdgeMargin, &bias,
		&p.MinDistance, &p.MinSpacing,
	)
	if err != nil {
		return SpawnPreset{}, err
	}
	k, err := spawn.ParseKind(kind)
	if err != nil {
		return SpawnPreset{}, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	p.Strategy.Kind = k
	p.Strategy.EdgeBias = spawn.EdgeBias(bias)
	return p, nil
}

// LoadAll loads all spawn presets ordered by name
func (r *SpawnPresetRepository) LoadAll(ctx context.Context) ([]SpawnPreset, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+presetColumns+` FROM spawn_presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("loading spawn presets: %w", err)
	}
	defer rows.Close()

	presets := make([]SpawnPreset, 0, 8)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning spawn preset row: %w", err)
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawn preset rows: %w", err)
	}
	return presets, nil
}

// LoadByName loads a spawn preset by name
func (r *SpawnPresetRepository) LoadByName(ctx context.Context, name string) (SpawnPreset, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+presetColumns+` FROM spawn_presets WHERE name = $1`, name)
	p, err := scanPreset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SpawnPreset{}, fmt.Errorf("spawn preset %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return SpawnPreset{}, fmt.Errorf("loading spawn preset %q: %w", name, err)
	}
	return p, nil
}

// Upsert stores a preset, replacing any row with the same name.
func (r *SpawnPresetRepository) Upsert(ctx context.Context, p SpawnPreset) error {
	if _, err := spawn.ParseKind(string(p.Strategy.Kind)); err != nil {
		return fmt.Errorf("saving spawn preset %q: %w", p.Name, err)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO spawn_presets (`+presetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (name) DO UPDATE SET
			kind = EXCLUDED.kind,
			grid_jitter = EXCLUDED.grid_jitter,
			ring_count = EXCLUDED.ring_count,
			inner_radius_ratio = EXCLUDED.inner_radius_ratio,
			cluster_count = EXCLUDED.cluster_count,
			cluster_radius = EXCLUDED.cluster_radius,
			edge_margin = EXCLUDED.edge_margin,
			edge_bias = EXCLUDED.edge_bias,
			min_distance = EXCLUDED.min_distance,
			min_spacing = EXCLUDED.min_spacing,
			updated_at = now()`,
		p.Name, string(p.Strategy.Kind), p.Strategy.GridJitter, p.Strategy.RingCount, p.Strategy.InnerRadiusRatio,
		p.Strategy.ClusterCount, p.Strategy.ClusterRadius, p.Strategy.EdgeMargin, string(p.Strategy.EdgeBias),
		p.MinDistance, p.MinSpacing,
	)
	if err != nil {
		return fmt.Errorf("saving spawn preset %q: %w", p.Name, err)
	}
	return nil
}
