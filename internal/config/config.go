// Package config loads the runner configuration from a TOML file and can
// watch it for live script-list reloads.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Errors for configuration loading.
var (
	// ErrInvalidConfig wraps validation failures.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the runner configuration.
type Config struct {
	// Scripts are the Lua files loaded into the engine, in order.
	Scripts []string `toml:"scripts"`

	// TickRate is the loop rate in ticks per second.
	TickRate int `toml:"tick_rate"`

	// Listen is the address the host serves the viewer hub on, e.g.
	// ":8420". Empty disables the hub.
	Listen string `toml:"listen"`

	// Connect is the host URL a viewer connects to, e.g.
	// "ws://localhost:8420". Empty means host mode.
	Connect string `toml:"connect"`

	// LogLevel is a zerolog level name.
	LogLevel string `toml:"log_level"`

	// DataDir is where script config and keybind autosaves persist.
	DataDir string `toml:"data_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TickRate: 20,
		LogLevel: "info",
		DataDir:  "data",
	}
}

// Load reads a TOML config file over the defaults. A missing file is not
// an error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalidConfig, c.TickRate)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.Listen != "" && c.Connect != "" {
		return fmt.Errorf("%w: listen and connect are mutually exclusive", ErrInvalidConfig)
	}
	for _, s := range c.Scripts {
		if s == "" {
			return fmt.Errorf("%w: empty script path", ErrInvalidConfig)
		}
	}
	return nil
}

// IsViewer reports whether the config describes a viewer instance.
func (c *Config) IsViewer() bool {
	return c.Connect != ""
}
