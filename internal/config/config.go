// Package config loads txtree server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// ServerConfig configures `txtree serve`. Command flags override it.
type ServerConfig struct {
	Addr     string `env:"TXTREE_ADDR" envDefault:":8080"`
	Store    string `env:"TXTREE_STORE" envDefault:"memory"`
	FileDir  string `env:"TXTREE_FILE_DIR" envDefault:".txtree/documents"`
	LogLevel string `env:"TXTREE_LOG_LEVEL" envDefault:"info"`

	RedisAddr     string        `env:"TXTREE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"TXTREE_REDIS_PASSWORD"`
	RedisDB       int           `env:"TXTREE_REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"TXTREE_REDIS_TTL" envDefault:"0s"`
	// RedisLock serializes edits across replicas sharing the Redis store.
	RedisLock bool `env:"TXTREE_REDIS_LOCK" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer parses a ServerConfig from the environment and validates it.
func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the combination of settings.
func (c ServerConfig) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreFile:
		if c.FileDir == "" {
			return fmt.Errorf("TXTREE_FILE_DIR is required for the file store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("TXTREE_REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store %q (want memory, file or redis)", c.Store)
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("TXTREE_REDIS_TTL must not be negative")
	}
	return nil
}
