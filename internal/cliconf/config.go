// Package cliconf loads the client configuration file.
package cliconf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ojpad/internal/bridge"
	"ojpad/internal/cache"
	"ojpad/pkg/utils/logger"
)

const (
	DefaultBaseURL          = "https://leetcode.com"
	DefaultTimeout          = 15 * time.Second
	DefaultSessionStatePath = "configs/session.json"
	DefaultSolutionsDir     = "solutions"
	DefaultBridgeAddr       = "127.0.0.1:8787"
)

// defaultExtensions is the search priority for local solution files.
var defaultExtensions = []string{"go", "py", "cpp", "java", "js", "ts", "rs", "c"}

// PollConfig bounds the judge status poll loop.
type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
	Attempts int           `yaml:"attempts"`
}

// CacheConfig enables the optional redis metadata cache.
type CacheConfig struct {
	Enabled bool              `yaml:"enabled"`
	TTL     time.Duration     `yaml:"ttl"`
	Redis   cache.RedisConfig `yaml:"redis"`
}

// BridgeConfig enables the local panel bridge endpoint.
type BridgeConfig struct {
	Enabled bool                `yaml:"enabled"`
	Server  bridge.ServerConfig `yaml:"server"`
}

// Config holds client configuration.
type Config struct {
	BaseURL          string        `yaml:"baseURL"`
	Timeout          time.Duration `yaml:"timeout"`
	SessionStatePath string        `yaml:"sessionStatePath"`
	SolutionsDir     string        `yaml:"solutionsDir"`
	Extensions       []string      `yaml:"extensions"`
	Poll             PollConfig    `yaml:"poll"`
	Cache            CacheConfig   `yaml:"cache"`
	Bridge           BridgeConfig  `yaml:"bridge"`
	Logger           logger.Config `yaml:"logger"`
}

// Load reads the YAML config at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file failed: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.SessionStatePath == "" {
		cfg.SessionStatePath = DefaultSessionStatePath
	}
	if cfg.SolutionsDir == "" {
		cfg.SolutionsDir = DefaultSolutionsDir
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string(nil), defaultExtensions...)
	}
	if cfg.Bridge.Server.Addr == "" {
		cfg.Bridge.Server.Addr = DefaultBridgeAddr
	}
}
