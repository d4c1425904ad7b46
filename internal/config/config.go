package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the rule service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Mining    MiningConfig    `yaml:"mining"`
	Selection SelectionConfig `yaml:"selection"`
}

// ServerConfig controls gRPC listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
	// RateLimit is the sustained requests per second across the server; 0 disables it.
	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// MiningConfig tunes the Apriori search and the rule filters.
type MiningConfig struct {
	UpperBoundSupport float64 `yaml:"upperBoundSupport"`
	Delta             float64 `yaml:"delta"`
	DiscretizeBins    int     `yaml:"discretizeBins"`
	MinLift           float64 `yaml:"minLift"`
	MinConviction     float64 `yaml:"minConviction"`
	ErrorPolicy       string  `yaml:"errorPolicy"`
}

// SelectionConfig bounds the attribute subset search.
type SelectionConfig struct {
	MaxStale int `yaml:"maxStale"`
	MaxNodes int `yaml:"maxNodes"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TECMIDES_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":50051",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Mining: MiningConfig{
			UpperBoundSupport: 1.0,
			Delta:             0.05,
			DiscretizeBins:    10,
			MinLift:           1.1,
			MinConviction:     1.1,
			ErrorPolicy:       "compat",
		},
		Selection: SelectionConfig{
			MaxStale: 5,
			MaxNodes: 1000,
		},
	}
}

// Validate rejects settings the miner cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Mining.UpperBoundSupport <= 0 || c.Mining.UpperBoundSupport > 1:
		return fmt.Errorf("mining.upperBoundSupport must be in (0,1], got %v", c.Mining.UpperBoundSupport)
	case c.Mining.Delta <= 0 || c.Mining.Delta > 1:
		return fmt.Errorf("mining.delta must be in (0,1], got %v", c.Mining.Delta)
	case c.Mining.DiscretizeBins < 1:
		return fmt.Errorf("mining.discretizeBins must be >= 1, got %d", c.Mining.DiscretizeBins)
	case c.Selection.MaxStale < 1 || c.Selection.MaxNodes < 1:
		return fmt.Errorf("selection.maxStale and selection.maxNodes must be >= 1")
	case c.Server.RateLimit < 0:
		return fmt.Errorf("server.rateLimit must be >= 0, got %v", c.Server.RateLimit)
	}
	switch strings.ToLower(c.Mining.ErrorPolicy) {
	case "", "compat", "strict":
	default:
		return fmt.Errorf("mining.errorPolicy must be compat or strict, got %q", c.Mining.ErrorPolicy)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TECMIDES_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("TECMIDES_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("TECMIDES_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
	if v := os.Getenv("TECMIDES_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Server.RateLimit = f
		}
	}
	if v := os.Getenv("TECMIDES_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateBurst = n
		}
	}
	if v := os.Getenv("TECMIDES_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TECMIDES_LOG_FORMAT"); v != "" {
		cfg.Logging.JSON = strings.EqualFold(v, "json")
	}
	if v := os.Getenv("TECMIDES_ERROR_POLICY"); v != "" {
		cfg.Mining.ErrorPolicy = v
	}
	if v := os.Getenv("TECMIDES_MINING_UPPER_BOUND_SUPPORT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Mining.UpperBoundSupport = f
		}
	}
	if v := os.Getenv("TECMIDES_MINING_DELTA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Mining.Delta = f
		}
	}
	if v := os.Getenv("TECMIDES_MINING_BINS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Mining.DiscretizeBins = n
		}
	}
	if v := os.Getenv("TECMIDES_MINING_MIN_LIFT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Mining.MinLift = f
		}
	}
	if v := os.Getenv("TECMIDES_MINING_MIN_CONVICTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Mining.MinConviction = f
		}
	}
	if v := os.Getenv("TECMIDES_SELECTION_MAX_STALE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Selection.MaxStale = n
		}
	}
	if v := os.Getenv("TECMIDES_SELECTION_MAX_NODES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Selection.MaxNodes = n
		}
	}
}
