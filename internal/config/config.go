// Package config loads and saves the YAML scenario descriptions the
// crucible CLI runs: which prototype to bake, the Crucible tunables to
// build it with, and the physics profile overrides for each stage.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/beautiful-code/crucible/internal/physics"
)

const (
	DefaultTargetAltitude      = 0.0
	DefaultPretenstTarget      = 0.1
	DefaultPretenseDuration    = 2.0
	DefaultPretenseRampSteps   = 2000
	DefaultConvergeInitialDrag = 0.01
	DefaultConvergeDuration    = 3.0
	DefaultFallDuration        = 4.0
	DefaultSettleInitialDrag   = 1e-4
	DefaultSettleDuration      = 6.0
	DefaultFPS                 = 60.0
)

// Config is one scenario: the named prototype to bake and the Crucible
// tunables that drive it from Building through Viewing.
type Config struct {
	Prototype string  `yaml:"prototype"`
	Scale     float32 `yaml:"scale"`
	Surface   string  `yaml:"surface"` // "absent", "frozen", "bouncy"
	FPS       float64 `yaml:"fps"`

	TargetAltitude      float32 `yaml:"target_altitude"`
	PretenstTarget      float32 `yaml:"pretenst_target"`
	PretenseDuration    float64 `yaml:"pretense_duration"`
	PretenseRampSteps   int     `yaml:"pretense_ramp_steps"`
	ConvergeInitialDrag float32 `yaml:"converge_initial_drag"`
	ConvergeDuration    float64 `yaml:"converge_duration"`
	FallDuration        float64 `yaml:"fall_duration"`
	SettleInitialDrag   float32 `yaml:"settle_initial_drag"`
	SettleDuration      float64 `yaml:"settle_duration"`
}

// DefaultConfig returns a scenario against the built-in single-right
// prototype with the reference stage durations.
func DefaultConfig() *Config {
	return &Config{
		Prototype:           "single-right",
		Scale:               1.0,
		Surface:             "bouncy",
		FPS:                 DefaultFPS,
		TargetAltitude:      DefaultTargetAltitude,
		PretenstTarget:      DefaultPretenstTarget,
		PretenseDuration:    DefaultPretenseDuration,
		PretenseRampSteps:   DefaultPretenseRampSteps,
		ConvergeInitialDrag: DefaultConvergeInitialDrag,
		ConvergeDuration:    DefaultConvergeDuration,
		FallDuration:        DefaultFallDuration,
		SettleInitialDrag:   DefaultSettleInitialDrag,
		SettleDuration:      DefaultSettleDuration,
	}
}

// Load reads a scenario from path, layering it over DefaultConfig so a
// file only needs to name the fields it overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SurfaceMode translates the config's string surface name into the
// physics package's enum, defaulting to Bouncy for an unrecognized or
// empty value.
func (c *Config) SurfaceMode() physics.SurfaceMode {
	switch c.Surface {
	case "absent":
		return physics.SurfaceAbsent
	case "frozen":
		return physics.SurfaceFrozen
	default:
		return physics.SurfaceBouncy
	}
}
