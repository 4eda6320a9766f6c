// Package config loads server configuration from an optional JSON file with
// sane defaults; command-line flags override both.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds every tunable of the server process
type Config struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	HTTPAddr string `json:"http_addr"` // healthz/metrics/websocket gateway; empty disables

	LogLevel string `json:"log_level"`
	LogDir   string `json:"log_dir"`

	TickRate      int `json:"tick_rate"`      // simulation ticks per second
	RoundSeconds  int `json:"round_seconds"`  // match round duration
	SweepInterval int `json:"sweep_interval"` // registry sweep period, seconds
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Host:          "0.0.0.0",
		Port:          12345,
		HTTPAddr:      ":8080",
		LogLevel:      "INFO",
		LogDir:        "./logs",
		TickRate:      60,
		RoundSeconds:  180,
		SweepInterval: 300,
	}
}

// Load reads cfg from path on top of the defaults. A missing file is not an
// error; the defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Addr returns the TCP listen address
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TickInterval returns the simulation tick period
func (c Config) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// RoundDuration returns the match round duration
func (c Config) RoundDuration() time.Duration {
	if c.RoundSeconds <= 0 {
		return 180 * time.Second
	}
	return time.Duration(c.RoundSeconds) * time.Second
}

// SweepPeriod returns the registry sweep period
func (c Config) SweepPeriod() time.Duration {
	if c.SweepInterval <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.SweepInterval) * time.Second
}
