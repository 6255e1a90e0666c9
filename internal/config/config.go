// Package config loads the optional user configuration file at
// ~/.skills/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds user-tunable defaults. Every field is optional; zero values
// fall back to the defaults below.
type Config struct {
	// DefaultTarget is used when install is invoked without --type.
	DefaultTarget string `toml:"default_target"`

	// Workers bounds concurrent file fetches while mirroring.
	Workers int `toml:"workers"`

	// TimeoutSeconds caps each GitHub API request.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Workers:        6,
		TimeoutSeconds: 30,
	}
}

// DefaultPath is where Load looks without an explicit path.
func DefaultPath() string {
	return filepath.Join(xdg.Home, ".skills", "config.toml")
}

// Load reads a config file. A missing file yields the defaults (no error);
// a present one overrides them and is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultTarget, validation.In("", "codex", "copilot", "claude")),
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(32)),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1), validation.Max(600)),
	)
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
