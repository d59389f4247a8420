// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and the environment on top of the defaults.
// - Validation errors wrap ErrInvalidConfig, loading errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// LogFile enables a rotating log file in addition to stdout.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`
	LogMaxAgeDays int    `koanf:"log_max_age_days"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIRoute is the prefix of the public Api.
	APIRoute string `koanf:"api_route"`

	// SystemRoute is the prefix of the health, metrics and introspection Api.
	SystemRoute string `koanf:"system_route"`

	// MaxBodyBytes caps request bodies read by handlers.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MetricsEnabled turns on the periodic runtime metrics updater.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		LogMaxSizeMB:      100,
		LogMaxBackups:     3,
		LogMaxAgeDays:     28,
		Addr:              ":9080",
		APIRoute:          "/api",
		SystemRoute:       "/system",
		MaxBodyBytes:      1 << 20,
		MetricsEnabled:    true,
		ShutdownTimeoutMS: 30_000,
	}
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Validate checks the values Load cannot fix up.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must be positive", ErrInvalidConfig)
	}
	if err := validateRoute("api_route", c.APIRoute); err != nil {
		return err
	}
	if err := validateRoute("system_route", c.SystemRoute); err != nil {
		return err
	}
	// The dispatcher hands a request to the first route that prefixes it.
	if strings.HasPrefix(c.APIRoute, c.SystemRoute) || strings.HasPrefix(c.SystemRoute, c.APIRoute) {
		return fmt.Errorf("%w: api_route %q and system_route %q overlap", ErrInvalidConfig, c.APIRoute, c.SystemRoute)
	}
	return nil
}

func validateRoute(key, route string) error {
	if route == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, key)
	}
	if !strings.HasPrefix(route, "/") {
		return fmt.Errorf("%w: %s must start with /, got %q", ErrInvalidConfig, key, route)
	}
	return nil
}
