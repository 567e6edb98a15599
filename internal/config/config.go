// Package config loads the YAML configuration shared by the commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no path is given.
const EnvPath = "QUICKFPS_CONFIG"

type Config struct {
	World   WorldConfig   `yaml:"world"`
	Loop    LoopConfig    `yaml:"loop"`
	Targets TargetsConfig `yaml:"targets"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// WorldConfig describes the spatial grid of a session.
type WorldConfig struct {
	Min     [2]float64 `yaml:"min"`
	Max     [2]float64 `yaml:"max"`
	Columns int        `yaml:"columns"`
	Rows    int        `yaml:"rows"`
}

type LoopConfig struct {
	MaxStep  time.Duration `yaml:"max_step"`
	TickRate int           `yaml:"tick_rate"`
}

type TargetsConfig struct {
	Count    int           `yaml:"count"`
	Spacing  float64       `yaml:"spacing"`
	Radius   float64       `yaml:"radius"`
	Lifetime time.Duration `yaml:"lifetime"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type MetricsConfig struct {
	// Addr is the listen address of the /metrics endpoint; empty disables it.
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Min:     [2]float64{-5000, -5000},
			Max:     [2]float64{5000, 5000},
			Columns: 100,
			Rows:    100,
		},
		Loop: LoopConfig{
			MaxStep:  time.Second / 30,
			TickRate: 60,
		},
		Targets: TargetsConfig{
			Count:    24,
			Spacing:  400,
			Radius:   60,
			Lifetime: 12 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path falls
// back to $QUICKFPS_CONFIG, and to the defaults alone if that is unset too.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values the runtime cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Max[0] <= c.World.Min[0] || c.World.Max[1] <= c.World.Min[1] {
		errs = append(errs, errors.New("world max must exceed world min"))
	}
	if c.World.Columns <= 0 || c.World.Rows <= 0 {
		errs = append(errs, errors.New("world columns and rows must be positive"))
	}
	if c.Loop.MaxStep <= 0 {
		errs = append(errs, errors.New("loop max_step must be positive"))
	}
	if c.Loop.TickRate <= 0 {
		errs = append(errs, errors.New("loop tick_rate must be positive"))
	}
	if c.Targets.Count < 0 {
		errs = append(errs, errors.New("targets count must not be negative"))
	}
	return errors.Join(errs...)
}

// TickInterval returns the frame interval implied by the tick rate.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Loop.TickRate)
}
