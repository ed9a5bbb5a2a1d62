// Package config provides configuration loading, defaults, and validation
// for claimcheck.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Reasoner ReasonerConfig `mapstructure:"reasoner"`
	Parser   ParserConfig   `mapstructure:"parser"`
	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReasonerConfig configures the chat completions reasoner. An unusable
// APIKey selects the rule-based fallback instead.
type ReasonerConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ParserConfig points at the PDF text extraction service.
type ParserConfig struct {
	ServiceURL string        `mapstructure:"service_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StoreConfig selects the clause cache backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // memory | sqlite
	Path   string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// WatchConfig configures the policy directory watcher.
type WatchConfig struct {
	Dir        string   `mapstructure:"dir"`
	Extensions []string `mapstructure:"extensions"`
}

// AnalysisConfig tunes clause ranking.
type AnalysisConfig struct {
	TopK int `mapstructure:"top_k"`
}

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Validate checks cross-field constraints. All errors are reported at once.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	if c.Reasoner.Temperature < 0 || c.Reasoner.Temperature > 2 {
		errs = append(errs, fmt.Errorf("reasoner.temperature must be within [0, 2], got %v", c.Reasoner.Temperature))
	}
	if c.Reasoner.Timeout <= 0 {
		errs = append(errs, errors.New("reasoner.timeout must be positive"))
	}
	if c.Parser.Timeout <= 0 {
		errs = append(errs, errors.New("parser.timeout must be positive"))
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be %s or %s, got %q", StoreMemory, StoreSQLite, c.Store.Driver))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Analysis.TopK <= 0 {
		errs = append(errs, fmt.Errorf("analysis.top_k must be positive, got %d", c.Analysis.TopK))
	}

	return errors.Join(errs...)
}
