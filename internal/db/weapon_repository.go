package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/voidstrike/internal/weapon"
)

// ErrNotFound is returned when a named row does not exist.
var ErrNotFound = errors.New("db: not found")

// WeaponRepository stores weapon profiles.
type WeaponRepository struct {
	pool *pgxpool.Pool
}

// NewWeaponRepository creates a new weapon repository
func NewWeaponRepository(pool *pgxpool.Pool) *WeaponRepository {
	return &WeaponRepository{pool: pool}
}

const weaponColumns = `name, damage, damage_type, projectile_speed, projectile_lifetime,
	fire_rate, projectile_count, spread_angle, accuracy,
	burst_fire, burst_count, burst_delay, convergence_distance,
	homing_turn_rate, homing_search_radius`

func scanWeapon(row pgx.Row) (weapon.Profile, error) {
	var (
		p            weapon.Profile
		damageType   string
		turnRate     *float64
		searchRadius *float64
	)
	err := row.Scan(
		&p.Name, &p.Damage, &damageType, &p.ProjectileSpeed, &p.ProjectileLifetime,
		&p.FireRate, &p.ProjectileCount, &p.SpreadAngle, &p.Accuracy,
		&p.BurstFire, &p.BurstCount, &p.BurstDelay, &p.ConvergenceDistance,
		&turnRate, &searchRadius,
	)
	if err != nil {
		return weapon.Profile{}, err
	}
	p.DamageType = weapon.DamageType(damageType)
	if turnRate != nil && searchRadius != nil {
		p.Homing = &weapon.HomingProfile{TurnRate: *turnRate, SearchRadius: *searchRadius}
	}
	return p, nil
}

// LoadAll loads every weapon profile ordered by name.
func (r *WeaponRepository) LoadAll(ctx context.Context) ([]weapon.Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+weaponColumns+` FROM weapon_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("loading weapon profiles: %w", err)
	}
	defer rows.Close()

	var out []weapon.Profile
	for rows.Next() {
		p, err := scanWeapon(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning weapon profile row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weapon profile rows: %w", err)
	}
	return out, nil
}

// LoadByName loads one weapon profile.
func (r *WeaponRepository) LoadByName(ctx context.Context, name string) (weapon.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+weaponColumns+` FROM weapon_profiles WHERE name = $1`, name)
	p, err := scanWeapon(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return weapon.Profile{}, fmt.Errorf("weapon profile %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return weapon.Profile{}, fmt.Errorf("loading weapon profile %q: %w", name, err)
	}
	return p, nil
}

// Upsert validates and stores a profile, replacing any row with the same name.
func (r *WeaponRepository) Upsert(ctx context.Context, p weapon.Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("saving weapon profile: %w", err)
	}

	var turnRate, searchRadius *float64
	if p.Homing != nil {
		turnRate, searchRadius = &p.Homing.TurnRate, &p.Homing.SearchRadius
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO weapon_profiles (`+weaponColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (name) DO UPDATE SET
			damage = EXCLUDED.damage,
			damage_type = EXCLUDED.damage_type,
			projectile_speed = EXCLUDED.projectile_speed,
			projectile_lifetime = EXCLUDED.projectile_lifetime,
			fire_rate = EXCLUDED.fire_rate,
			projectile_count = EXCLUDED.projectile_count,
			spread_angle = EXCLUDED.spread_angle,
			accuracy = EXCLUDED.accuracy,
			burst_fire = EXCLUDED.burst_fire,
			burst_count = EXCLUDED.burst_count,
			burst_delay = EXCLUDED.burst_delay,
			convergence_distance = EXCLUDED.convergence_distance,
			homing_turn_rate = EXCLUDED.homing_turn_rate,
			homing_search_radius = EXCLUDED.homing_search_radius,
			updated_at = now()`,
		p.Name, p.Damage, string(p.DamageType), p.ProjectileSpeed, p.ProjectileLifetime,
		p.FireRate, p.ProjectileCount, p.SpreadAngle, p.Accuracy,
		p.BurstFire, p.BurstCount, p.BurstDelay, p.ConvergenceDistance,
		turnRate, searchRadius,
	)
	if err != nil {
		return fmt.Errorf("saving weapon profile %q: %w", p.Name, err)
	}
	return nil
}
