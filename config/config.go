package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TickRate int           `yaml:"tick_rate"`
	MaxDelta float64       `yaml:"max_delta"`
	Ticks    int           `yaml:"ticks"`
	LogEvery int           `yaml:"log_every"`
	Level    string        `yaml:"level"`
	Logging  LoggingConfig `yaml:"logging"`
	Prefabs  PrefabsConfig `yaml:"prefabs"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PrefabsConfig struct {
	Dir       string `yaml:"dir"`
	Character string `yaml:"character"`
	Scenario  string `yaml:"scenario"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	return &Config{
		TickRate: 60,
		MaxDelta: 0.1,
		Ticks:    0,
		LogEvery: 30,
		Level:    "arena.json",
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Prefabs: PrefabsConfig{
			Dir:       "prefabs",
			Character: "character.yaml",
			Scenario:  "scenario_walk_jump.yaml",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.TickRate))
	}
	if c.MaxDelta <= 0 {
		errs = append(errs, fmt.Errorf("max_delta must be positive, got %v", c.MaxDelta))
	}
	if c.Ticks < 0 {
		errs = append(errs, fmt.Errorf("ticks must not be negative, got %d", c.Ticks))
	}
	if c.LogEvery < 0 {
		errs = append(errs, fmt.Errorf("log_every must not be negative, got %d", c.LogEvery))
	}
	if c.Prefabs.Character == "" {
		errs = append(errs, errors.New("prefabs.character is required"))
	}
	return errors.Join(errs...)
}

// TickInterval is the wall-clock period of one fixed tick.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// FixedDelta is the simulated seconds per tick, capped at MaxDelta.
func (c *Config) FixedDelta() float64 {
	dt := 1 / float64(c.TickRate)
	if dt > c.MaxDelta {
		return c.MaxDelta
	}
	return dt
}
