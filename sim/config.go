package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfiguration marks every validation failure. Callers test for it with
// errors.Is; the wrapped message names the offending field.
var ErrConfiguration = errors.New("invalid configuration")

// Default values for Config, matching the reference parameter set.
const (
	DefaultRingSize  = 5000
	DefaultAsymmetry = 0.0
	DefaultRate      = 0.005
	DefaultDtShot    = 5000
	DefaultShots     = 3000
	DefaultReplicas  = 100
	DefaultWorkers   = 1
)

// Config is the immutable run configuration. It is built once at startup and
// passed by value into every component.
//
// YAML keys are used by config files, env keys (with the IPSIM_ prefix) by
// environment overrides.
type Config struct {
	RingSize     int     `yaml:"ring_size" env:"RING_SIZE"`         // N, number of sites on the ring
	Asymmetry    float64 `yaml:"asymmetry" env:"ASYMMETRY"`         // A in [-1, 1]
	Rate         float64 `yaml:"rate" env:"RATE"`                   // B > 0, dissociation rate of a neutral pair
	DtShot       int     `yaml:"dt_shot" env:"DT_SHOT"`             // attempts between two shots
	Shots        int     `yaml:"shots" env:"SHOTS"`                 // shots per replica, shot 0 is the initial state
	Replicas     int     `yaml:"replicas" env:"REPLICAS"`           // SUM, independent replicas averaged
	LeftDensity  float64 `yaml:"left_density" env:"LEFT_DENSITY"`   // vl, density on sites [0, N/2)
	RightDensity float64 `yaml:"right_density" env:"RIGHT_DENSITY"` // vr, density on sites [N/2, N)
	Seed         *int64  `yaml:"seed,omitempty" env:"SEED"`         // nil = caller picks a time-based seed
	Workers      int     `yaml:"workers" env:"WORKERS"`             // replicas run concurrently
}

// DefaultConfig returns the default configuration. The densities have no
// meaningful default and are left zero, which Validate rejects.
func DefaultConfig() Config {
	return Config{
		RingSize:  DefaultRingSize,
		Asymmetry: DefaultAsymmetry,
		Rate:      DefaultRate,
		DtShot:    DefaultDtShot,
		Shots:     DefaultShots,
		Replicas:  DefaultReplicas,
		Workers:   DefaultWorkers,
	}
}

// Validate checks every field, including the domain of the initial measure,
// so that no arithmetic failure can surface once replicas are running.
func (c Config) Validate() error {
	if c.RingSize <= 0 {
		return fmt.Errorf("%w: ring_size must be positive, got %d", ErrConfiguration, c.RingSize)
	}
	if c.DtShot <= 0 {
		return fmt.Errorf("%w: dt_shot must be positive, got %d", ErrConfiguration, c.DtShot)
	}
	if c.Shots <= 0 {
		return fmt.Errorf("%w: shots must be positive, got %d", ErrConfiguration, c.Shots)
	}
	if c.Replicas <= 0 {
		return fmt.Errorf("%w: replicas must be positive, got %d", ErrConfiguration, c.Replicas)
	}
	if c.Replicas > math.MaxInt32 {
		return fmt.Errorf("%w: replicas must not exceed %d, got %d", ErrConfiguration, math.MaxInt32, c.Replicas)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrConfiguration, c.Workers)
	}
	if _, err := NewRateTable(c.Asymmetry, c.Rate); err != nil {
		return err
	}
	if _, err := NewSiteMeasure(c.LeftDensity, c.Rate); err != nil {
		return fmt.Errorf("left_density: %w", err)
	}
	if _, err := NewSiteMeasure(c.RightDensity, c.Rate); err != nil {
		return fmt.Errorf("right_density: %w", err)
	}
	return nil
}

// SeedOr returns the configured seed, or fallback when none is set.
func (c Config) SeedOr(fallback int64) int64 {
	if c.Seed == nil {
		return fallback
	}
	return *c.Seed
}

// validateFinite rejects NaN and infinities.
func validateFinite(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%w: %s must be a finite number, got %f", ErrConfiguration, name, val)
	}
	return nil
}
