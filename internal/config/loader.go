package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SPOTWATCH_CONFIG is set
//  3. env (prefix SPOTWATCH_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SPOTWATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SPOTWATCH_ADDR, SPOTWATCH_OSU_USER_ID, ...
	// Map env keys like SPOTWATCH_POLL_INTERVAL_SECONDS -> poll_interval_seconds.
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SPOTWATCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "spotwatch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate enforces the invariants main relies on.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.PollIntervalSeconds <= 0:
		return fmt.Errorf("%w: poll_interval_seconds must be positive", ErrInvalidConfig)
	case c.ActivityLimit <= 0:
		return fmt.Errorf("%w: activity_limit must be positive", ErrInvalidConfig)
	case c.RateLimitRPS <= 0:
		return fmt.Errorf("%w: rate_limit_rps must be positive", ErrInvalidConfig)
	}
	return nil
}
