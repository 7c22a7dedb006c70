// Package config loads tacticsd's YAML configuration, grounded on the
// teacher's Config/Load shape, trimmed to this repository's actual
// surface: an HTTP server, JWT issuance, and a storage backend choice.
// SessionConfig's hex-chunk radius, ChatConfig, and DatabaseConfig from the
// teacher's config are dropped entirely — see DESIGN.md for why nothing in
// this repository's scope needed them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all process configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	JWT    JWTConfig    `yaml:"jwt"`
	Redis  RedisConfig  `yaml:"redis"`
	Store  StoreConfig  `yaml:"store"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// JWTConfig holds bearer-token issuance settings.
type JWTConfig struct {
	Issuer        string `yaml:"issuer"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// RedisConfig holds Redis connection settings, used only when
// Store.Backend is "redis".
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "memory" or "redis"
}

// Load reads configuration from a YAML file, applying defaults for
// anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "tacticsd"
	}
	if cfg.JWT.TokenTTLHours == 0 {
		cfg.JWT.TokenTTLHours = 24
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
}
