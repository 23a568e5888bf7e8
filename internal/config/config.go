package config

import (
	"fmt"
	"os"
	"time"

	"github.com/damon-houk/emission-decay/internal/domain/decay"
	"github.com/damon-houk/emission-decay/internal/domain/entity"
	"github.com/damon-houk/emission-decay/internal/infrastructure/logger"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when CONFIG_PATH is not set
const DefaultPath = "configs/config.yaml"

// Schedule declares a recurring snapshot of a decaying amount
type Schedule struct {
	Name   string  `yaml:"name"`
	Cron   string  `yaml:"cron"`
	Amount float64 `yaml:"amount"`
	Rate   float64 `yaml:"rate"`
	Mode   string  `yaml:"mode"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Storage struct {
		Path       string `yaml:"path"`
		SyncWrites bool   `yaml:"sync_writes"`
	} `yaml:"storage"`
	Cache struct {
		RedisAddr string        `yaml:"redis_addr"`
		TTL       time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Schedules []Schedule `yaml:"schedules"`
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DECAY_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DECAY_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("QUOTE_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse QUOTE_CACHE_TTL: %w", err)
		}
		cfg.Cache.TTL = ttl
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = string(logger.InfoLevel)
	}
	for i := range cfg.Schedules {
		if cfg.Schedules[i].Mode == "" {
			cfg.Schedules[i].Mode = string(decay.ModeFloat)
		}
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	seen := make(map[string]bool, len(c.Schedules))
	for i, s := range c.Schedules {
		if s.Name == "" {
			return fmt.Errorf("schedules[%d].name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("schedules[%d]: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true

		if _, err := parser.Parse(s.Cron); err != nil {
			return fmt.Errorf("schedules[%d].cron: %w", i, err)
		}
		if _, err := decay.ParseMode(s.Mode); err != nil {
			return fmt.Errorf("schedules[%d].mode: %w", i, err)
		}
		if err := entity.ValidateInputs(s.Amount, s.Rate); err != nil {
			return fmt.Errorf("schedules[%d]: %w", i, err)
		}
	}
	return nil
}
