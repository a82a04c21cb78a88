package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// CountdownLayout is the layout of COUNTDOWN_TARGET. The value is interpreted
// in local time.
const CountdownLayout = "2006-01-02T15:04:05"

// Load reads configuration from the environment, loading a .env file first
// when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if _, ok := ProfileFor(c.Variant); !ok {
		return fmt.Errorf("invalid VARIANT: %q (must be timed, click or scroll)", c.Variant)
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d (must be 1-65535)", c.HTTPPort)
	}
	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}
	if c.MetricsPort == c.HTTPPort {
		return fmt.Errorf("METRICS_PORT and HTTP_PORT must differ (both %d)", c.HTTPPort)
	}
	switch c.PrefsBackend {
	case "memory", "file", "sqlite", "redis":
	default:
		return fmt.Errorf("invalid PREFS_BACKEND: %q", c.PrefsBackend)
	}
	if (c.PrefsBackend == "file" || c.PrefsBackend == "sqlite") && c.PrefsPath == "" {
		return fmt.Errorf("PREFS_PATH is required for the %s backend", c.PrefsBackend)
	}
	if _, err := c.Target(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// Target parses the countdown expiry timestamp in local time.
func (c *Config) Target() (time.Time, error) {
	t, err := time.ParseInLocation(CountdownLayout, c.CountdownTarget, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid COUNTDOWN_TARGET %q: %w", c.CountdownTarget, err)
	}
	return t, nil
}

// Profile returns the fixed profile for the configured variant.
func (c *Config) Profile() Profile {
	p, _ := ProfileFor(c.Variant)
	return p
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
