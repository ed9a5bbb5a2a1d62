package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "CLAIMCHECK"

// Defaults. Registering every key with viper also makes it resolvable from
// the environment during Unmarshal.
var defaults = map[string]interface{}{
	"log.level":            "info",
	"log.format":           "console",
	"reasoner.api_key":     "",
	"reasoner.base_url":    "https://api.perplexity.ai",
	"reasoner.model":       "sonar",
	"reasoner.temperature": 0.1,
	"reasoner.timeout":     60 * time.Second,
	"parser.service_url":   "http://localhost:8081",
	"parser.timeout":       60 * time.Second,
	"store.driver":         StoreMemory,
	"store.path":           "./data",
	"server.addr":          ":8080",
	"watch.dir":            "./documents",
	"watch.extensions":     []string{".pdf", ".txt", ".md"},
	"analysis.top_k":       5,
}

// newViper builds a Viper instance with YAML file type, the CLAIMCHECK_ env
// prefix and a "." → "_" key replacer, so "reasoner.model" resolves to
// CLAIMCHECK_REASONER_MODEL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	// The reasoner key is commonly exported under the provider's own name.
	_ = v.BindEnv("reasoner.api_key", envPrefix+"_REASONER_API_KEY", "PERPLEXITY_API_KEY")
	return v
}

// Load reads the YAML file at configPath when one is given, merges
// CLAIMCHECK_* environment overrides, applies defaults and validates.
func Load(configPath string) (*Config, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
		}
	}
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields. Temperature is left alone since
// zero is a legitimate setting.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults["log.level"].(string)
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults["log.format"].(string)
	}
	if cfg.Reasoner.BaseURL == "" {
		cfg.Reasoner.BaseURL = defaults["reasoner.base_url"].(string)
	}
	if cfg.Reasoner.Model == "" {
		cfg.Reasoner.Model = defaults["reasoner.model"].(string)
	}
	if cfg.Reasoner.Timeout == 0 {
		cfg.Reasoner.Timeout = defaults["reasoner.timeout"].(time.Duration)
	}
	if cfg.Parser.ServiceURL == "" {
		cfg.Parser.ServiceURL = defaults["parser.service_url"].(string)
	}
	if cfg.Parser.Timeout == 0 {
		cfg.Parser.Timeout = defaults["parser.timeout"].(time.Duration)
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = defaults["store.driver"].(string)
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaults["store.path"].(string)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults["server.addr"].(string)
	}
	if cfg.Watch.Dir == "" {
		cfg.Watch.Dir = defaults["watch.dir"].(string)
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = append([]string(nil), defaults["watch.extensions"].([]string)...)
	}
	if cfg.Analysis.TopK == 0 {
		cfg.Analysis.TopK = defaults["analysis.top_k"].(int)
	}
}
