package weapon

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is returned by Profile.Validate.
var ErrInvalidProfile = errors.New("weapon: invalid profile")

// DamageType classifies damage for sinks and hit effects.
type DamageType string

const (
	DamageKinetic   DamageType = "kinetic"
	DamageEnergy    DamageType = "energy"
	DamageExplosive DamageType = "explosive"
)

// HomingProfile turns projectiles into seekers.
type HomingProfile struct {
	TurnRate     float64 `yaml:"turn_rate"`     // degrees per second
	SearchRadius float64 `yaml:"search_radius"` // target reacquisition radius
}

// Profile holds the static parameters of a weapon.
type Profile struct {
	Name       string     `yaml:"name"`
	Damage     float64    `yaml:"damage"`
	DamageType DamageType `yaml:"damage_type"`

	ProjectileSpeed    float64 `yaml:"projectile_speed"`
	ProjectileLifetime float64 `yaml:"projectile_lifetime"` // seconds

	FireRate        float64 `yaml:"fire_rate"` // cooldown seconds between trigger pulls
	ProjectileCount int     `yaml:"projectile_count"`
	SpreadAngle     float64 `yaml:"spread_angle"` // degrees
	Accuracy        float64 `yaml:"accuracy"`     // 1 = no random deviation

	BurstFire  bool    `yaml:"burst_fire"`
	BurstCount int     `yaml:"burst_count"`
	BurstDelay float64 `yaml:"burst_delay"` // seconds between burst volleys

	// ConvergenceDistance projects a synthetic aim point ahead of the owner
	// for multi-mount weapons without a target. 0 fires mounts in parallel.
	ConvergenceDistance float64 `yaml:"convergence_distance"`

	Homing *HomingProfile `yaml:"homing"`
}

// DefaultProfile returns a single-shot blaster.
func DefaultProfile() Profile {
	return Profile{
		Name:                "blaster",
		Damage:              10,
		DamageType:          DamageEnergy,
		ProjectileSpeed:     60,
		ProjectileLifetime:  2,
		FireRate:            0.25,
		ProjectileCount:     1,
		Accuracy:            0.95,
		ConvergenceDistance: 30,
	}
}

// Validate checks the profile invariants.
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("nil profile: %w", ErrInvalidProfile)
	}
	if p.FireRate <= 0 {
		return fmt.Errorf("profile %q: fire rate %v must be positive: %w", p.Name, p.FireRate, ErrInvalidProfile)
	}
	if p.Accuracy < 0 || p.Accuracy > 1 {
		return fmt.Errorf("profile %q: accuracy %v outside [0,1]: %w", p.Name, p.Accuracy, ErrInvalidProfile)
	}
	if p.BurstFire && p.BurstCount < 1 {
		return fmt.Errorf("profile %q: burst count %d must be at least 1: %w", p.Name, p.BurstCount, ErrInvalidProfile)
	}
	if p.BurstDelay < 0 {
		return fmt.Errorf("profile %q: negative burst delay: %w", p.Name, ErrInvalidProfile)
	}
	if p.Damage < 0 {
		return fmt.Errorf("profile %q: negative damage: %w", p.Name, ErrInvalidProfile)
	}
	return nil
}

// Volleys returns how many FireCommands one trigger pull produces.
func (p *Profile) Volleys() int {
	if p.BurstFire && p.BurstCount > 1 {
		return p.BurstCount
	}
	return 1
}

// Projectiles returns projectiles per mount per volley (at least 1).
func (p *Profile) Projectiles() int {
	return max(1, p.ProjectileCount)
}
