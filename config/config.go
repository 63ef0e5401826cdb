/*
Package config holds the server configuration.

PURPOSE:
  Central place for everything tunable at deploy time: HTTP listener, CORS,
  rate limiting, storage path, engine defaults, the auto-assign loop, and
  seed loading. Values start from Default() and YAML files overlay it in
  order, so a deployment only states what differs.

USAGE:
  cfg, err := config.Load("/etc/workforce/config.yaml")
  if err != nil {
      log.Fatal(err)
  }

EXAMPLE FILE:
  server:
    port: 8080
    cors_origins: ["https://app.example.com"]
  engine:
    strategy: lp
    daily_capacity: 8
  autoassign:
    enabled: true
    interval_seconds: 300
    horizon_days: 7

SEE ALSO:
  - cmd/server/main.go: Flag overrides on top of the loaded config
*/
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warp/workforce-engine/engine"
)

// Server configures the HTTP listener.
type Server struct {
	Port           int      `yaml:"port"`
	CORSOrigins    []string `yaml:"cors_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

// Storage configures persistence.
type Storage struct {
	Path string `yaml:"path"`
}

// Engine configures assignment defaults. NodeLimit caps the exact solver's
// search; 0 keeps the solver's built-in budget.
type Engine struct {
	Strategy      string `yaml:"strategy"`
	DailyCapacity int    `yaml:"daily_capacity"`
	NodeLimit     int    `yaml:"node_limit"`
}

// AutoAssign configures the background assignment loop.
type AutoAssign struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"interval_seconds"`
	HorizonDays     int  `yaml:"horizon_days"`
}

// Seed configures demo-data loading at startup.
type Seed struct {
	Dir      string `yaml:"dir"`
	Truncate bool   `yaml:"truncate"`
}

// Config is the full server configuration.
type Config struct {
	Server     Server     `yaml:"server"`
	Storage    Storage    `yaml:"storage"`
	Engine     Engine     `yaml:"engine"`
	AutoAssign AutoAssign `yaml:"autoassign"`
	Seed       Seed       `yaml:"seed"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: Server{
			Port:           8080,
			CORSOrigins:    []string{"*"},
			RateLimitRPS:   5,
			RateLimitBurst: 10,
		},
		Storage: Storage{
			Path: "./data/workforce.db",
		},
		Engine: Engine{
			Strategy:      "lp",
			DailyCapacity: engine.DefaultDailyCapacity,
		},
		AutoAssign: AutoAssign{
			Enabled:         false,
			IntervalSeconds: 3600,
			HorizonDays:     7,
		},
	}
}

// Load starts from Default and overlays the given YAML files in order, so
// later files win. The merged result is validated before it is returned.
func Load(files ...string) (Config, error) {
	cfg := Default()
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can actually run.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("server.rate_limit_rps must be positive, got %v", c.Server.RateLimitRPS)
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("server.rate_limit_burst must be at least 1, got %d", c.Server.RateLimitBurst)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if _, err := engine.ParseStrategy(c.Engine.Strategy); err != nil {
		return fmt.Errorf("engine.strategy: %w", err)
	}
	if c.Engine.DailyCapacity < 1 {
		return fmt.Errorf("engine.daily_capacity must be positive, got %d", c.Engine.DailyCapacity)
	}
	if c.Engine.NodeLimit < 0 {
		return fmt.Errorf("engine.node_limit must not be negative, got %d", c.Engine.NodeLimit)
	}
	if c.AutoAssign.Enabled {
		if c.AutoAssign.IntervalSeconds < 1 {
			return fmt.Errorf("autoassign.interval_seconds must be positive, got %d", c.AutoAssign.IntervalSeconds)
		}
		if c.AutoAssign.HorizonDays < 1 {
			return fmt.Errorf("autoassign.horizon_days must be positive, got %d", c.AutoAssign.HorizonDays)
		}
	}
	return nil
}
