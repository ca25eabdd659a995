package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ipsim/ipsim/sim"
)

// envPrefix prefixes every environment override, e.g. IPSIM_SEED.
const envPrefix = "IPSIM_"

// loadConfigFile overlays a YAML config file onto cfg.
// Uses strict field checking: unrecognized keys (typos) are rejected.
func loadConfigFile(path string, cfg *sim.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays IPSIM_* variables onto cfg. A nil environ reads the
// process environment.
func applyEnv(cfg *sim.Config, environ map[string]string) error {
	opts := env.Options{Prefix: envPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// runFlags holds the simulation flags of the run command.
type runFlags struct {
	ringSize     int
	asymmetry    float64
	rate         float64
	dtShot       int
	shots        int
	replicas     int
	leftDensity  float64
	rightDensity float64
	seed         int64
	workers      int
}

// register binds the flags with the default configuration as defaults.
func (f *runFlags) register(fs *pflag.FlagSet) {
	d := sim.DefaultConfig()
	fs.IntVar(&f.ringSize, "ring-size", d.RingSize, "Number of lattice sites N on the ring")
	fs.Float64Var(&f.asymmetry, "asymmetry", d.Asymmetry, "Asymmetry parameter A in [-1, 1]")
	fs.Float64Var(&f.rate, "rate", d.Rate, "Dissociation rate B of a neutral pair (> 0)")
	fs.IntVar(&f.dtShot, "dt-shot", d.DtShot, "Attempts between two shots")
	fs.IntVar(&f.shots, "shots", d.Shots, "Shots per replica (shot 0 is the initial state)")
	fs.IntVar(&f.replicas, "replicas", d.Replicas, "Number of independent replicas averaged")
	fs.Float64Var(&f.leftDensity, "left-density", 0, "Initial density vl on sites [0, N/2), in (0, 1)")
	fs.Float64Var(&f.rightDensity, "right-density", 0, "Initial density vr on sites [N/2, N), in (0, 1)")
	fs.Int64Var(&f.seed, "seed", 0, "Master seed (default: IPSIM_SEED, config file, or current time)")
	fs.IntVar(&f.workers, "workers", d.Workers, "Replicas simulated concurrently")
}

// apply overlays only the flags the user explicitly set.
func (f *runFlags) apply(fs *pflag.FlagSet, cfg *sim.Config) {
	if fs.Changed("ring-size") {
		cfg.RingSize = f.ringSize
	}
	if fs.Changed("asymmetry") {
		cfg.Asymmetry = f.asymmetry
	}
	if fs.Changed("rate") {
		cfg.Rate = f.rate
	}
	if fs.Changed("dt-shot") {
		cfg.DtShot = f.dtShot
	}
	if fs.Changed("shots") {
		cfg.Shots = f.shots
	}
	if fs.Changed("replicas") {
		cfg.Replicas = f.replicas
	}
	if fs.Changed("left-density") {
		cfg.LeftDensity = f.leftDensity
	}
	if fs.Changed("right-density") {
		cfg.RightDensity = f.rightDensity
	}
	if fs.Changed("seed") {
		seed := f.seed
		cfg.Seed = &seed
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
}

// resolveConfig layers defaults, the config file, the environment and the
// explicitly set flags, in increasing precedence.
func resolveConfig(fs *pflag.FlagSet, f *runFlags, configPath string, environ map[string]string) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		if err := loadConfigFile(configPath, &cfg); err != nil {
			return sim.Config{}, err
		}
	}
	if err := applyEnv(&cfg, environ); err != nil {
		return sim.Config{}, err
	}
	f.apply(fs, &cfg)
	return cfg, nil
}
