package cp

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds solver and search settings. Zero limits mean unlimited.
//
// Loaded with priority env > file > defaults:
//
//	max_solutions: 1
//	max_nodes: 100000
//	time_limit: 30s
//	log_level: info
//	workers: 4
type Config struct {
	MaxSolutions int           `yaml:"max_solutions" validate:"gte=0"`
	MaxNodes     int           `yaml:"max_nodes" validate:"gte=0"`
	MaxFailures  int           `yaml:"max_failures" validate:"gte=0"`
	TimeLimit    time.Duration `yaml:"time_limit" validate:"gte=0"`
	LogLevel     string        `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Workers      int           `yaml:"workers" validate:"gte=1,lte=256"`
}

var configValidate = validator.New()

// DefaultConfig returns a config with no search limits, warn-level logging
// and one worker.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		Workers:  1,
	}
}

// LoadConfig reads a YAML file over the defaults, applies CP_* environment
// overrides and validates the result. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	loadConfigFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFromEnv(cfg *Config) {
	ints := map[string]*int{
		"CP_MAX_SOLUTIONS": &cfg.MaxSolutions,
		"CP_MAX_NODES":     &cfg.MaxNodes,
		"CP_MAX_FAILURES":  &cfg.MaxFailures,
		"CP_WORKERS":       &cfg.Workers,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				*dst = i
			}
		}
	}
	if v := os.Getenv("CP_TIME_LIMIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TimeLimit = d
		}
	}
	if v := os.Getenv("CP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// Level returns the zerolog level for LogLevel, defaulting to warn.
func (c *Config) Level() zerolog.Level {
	if c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.WarnLevel
	}
	return lvl
}

// StopCondition builds the stop condition implied by the limits. It is nil
// when no limit is set.
func (c *Config) StopCondition() StopCondition {
	var conds []StopCondition
	if c.MaxSolutions > 0 {
		conds = append(conds, StopAfterSolutions(c.MaxSolutions))
	}
	if c.MaxNodes > 0 {
		conds = append(conds, StopAfterNodes(c.MaxNodes))
	}
	if c.MaxFailures > 0 {
		conds = append(conds, StopAfterFailures(c.MaxFailures))
	}
	if c.TimeLimit > 0 {
		conds = append(conds, StopAfterDuration(c.TimeLimit))
	}
	switch len(conds) {
	case 0:
		return nil
	case 1:
		return conds[0]
	}
	return AnyStop(conds...)
}
