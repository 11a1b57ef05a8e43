package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/voidstrike/internal/sim"
	"github.com/udisondev/voidstrike/internal/spawn"
	"github.com/udisondev/voidstrike/internal/weapon"
)

// Simulation holds all configuration for the headless simulator.
type Simulation struct {
	LogLevel string `yaml:"log_level"`

	// MatchID seeds the match RNG. Empty means a fresh random match.
	MatchID string `yaml:"match_id"`
	// Duration of simulated time; 0 runs until interrupted.
	Duration time.Duration `yaml:"duration"`
	// ReportInterval between match summaries in the log.
	ReportInterval time.Duration `yaml:"report_interval"`

	Loop    sim.LoopConfig   `yaml:"loop"`
	World   sim.WorldConfig  `yaml:"world"`
	Weapons []weapon.Profile `yaml:"weapons"`

	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	// LoadPresets overrides weapon profiles and the spawn strategy with the
	// rows stored in the database.
	LoadPresets bool `yaml:"load_presets"`
	// SpawnPreset names the spawn preset to apply when LoadPresets is set.
	SpawnPreset string `yaml:"spawn_preset"`

	FlushInterval time.Duration `yaml:"flush_interval"` // match event recorder
	BatchSize     int           `yaml:"batch_size"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultWeapons returns the stock weapon roster.
func DefaultWeapons() []weapon.Profile {
	blaster := weapon.DefaultProfile()

	cannon := weapon.DefaultProfile()
	cannon.Name = "twin_cannon"
	cannon.Damage = 24
	cannon.DamageType = weapon.DamageKinetic
	cannon.ProjectileSpeed = 80
	cannon.ProjectileLifetime = 2.5
	cannon.FireRate = 0.3
	cannon.Accuracy = 0.98

	scatter := weapon.DefaultProfile()
	scatter.Name = "scatter"
	scatter.Damage = 30
	scatter.DamageType = weapon.DamageKinetic
	scatter.ProjectileCount = 5
	scatter.SpreadAngle = 40
	scatter.FireRate = 0.8
	scatter.ProjectileLifetime = 1

	burst := weapon.DefaultProfile()
	burst.Name = "burst_rifle"
	burst.Damage = 36
	burst.FireRate = 0.9
	burst.BurstFire = true
	burst.BurstCount = 3
	burst.BurstDelay = 0.08
	burst.Accuracy = 0.9

	seeker := weapon.DefaultProfile()
	seeker.Name = "seeker"
	seeker.Damage = 40
	seeker.DamageType = weapon.DamageExplosive
	seeker.ProjectileSpeed = 35
	seeker.ProjectileLifetime = 4
	seeker.FireRate = 1.5
	seeker.Accuracy = 1
	seeker.Homing = &weapon.HomingProfile{TurnRate: 120, SearchRadius: 30}

	return []weapon.Profile{blaster, cannon, scatter, burst, seeker}
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:       "info",
		Duration:       60 * time.Second,
		ReportInterval: 5 * time.Second,
		Loop:           sim.DefaultLoopConfig(),
		World:          sim.DefaultWorldConfig(),
		Weapons:        DefaultWeapons(),
		Database: DatabaseConfig{
			Host:          "127.0.0.1",
			Port:          5432,
			User:          "voidstrike",
			Password:      "voidstrike",
			DBName:        "voidstrike",
			SSLMode:       "disable",
			FlushInterval: 2 * time.Second,
			BatchSize:     500,
		},
	}
}

// LoadSimulation loads simulator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks loop rates, weapon profiles and the spawn strategy kind.
func (s Simulation) Validate() error {
	var errs []error

	if err := s.Loop.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("loop: %w", err))
	}

	seen := make(map[string]bool, len(s.Weapons))
	for i := range s.Weapons {
		w := &s.Weapons[i]
		if err := w.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[w.Name] {
			errs = append(errs, fmt.Errorf("duplicate weapon %q", w.Name))
		}
		seen[w.Name] = true
	}

	if _, err := spawn.ParseKind(string(s.World.Spawn.Strategy.Kind)); err != nil {
		errs = append(errs, fmt.Errorf("world.spawn.strategy: %w", err))
	}

	if _, err := s.ParseMatchID(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// WeaponMap indexes the weapon roster by name.
func (s Simulation) WeaponMap() map[string]weapon.Profile {
	out := make(map[string]weapon.Profile, len(s.Weapons))
	for _, w := range s.Weapons {
		out[w.Name] = w
	}
	return out
}

// ParseMatchID returns the configured match ID, or uuid.Nil when unset.
func (s Simulation) ParseMatchID() (uuid.UUID, error) {
	if s.MatchID == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s.MatchID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("match_id %q: %w", s.MatchID, err)
	}
	return id, nil
}
