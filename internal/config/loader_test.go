package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PERPLEXITY_API_KEY", "")
	t.Setenv("CLAIMCHECK_REASONER_API_KEY", "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claimcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Reasoner.APIKey)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Reasoner.BaseURL)
	assert.Equal(t, "sonar", cfg.Reasoner.Model)
	assert.Equal(t, 0.1, cfg.Reasoner.Temperature)
	assert.Equal(t, 60*time.Second, cfg.Reasoner.Timeout)
	assert.Equal(t, "http://localhost:8081", cfg.Parser.ServiceURL)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{".pdf", ".txt", ".md"}, cfg.Watch.Extensions)
	assert.Equal(t, 5, cfg.Analysis.TopK)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
log:
  level: debug
  format: json
reasoner:
  model: sonar-pro
  timeout: 30s
store:
  driver: sqlite
  path: /var/lib/claimcheck
analysis:
  top_k: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sonar-pro", cfg.Reasoner.Model)
	assert.Equal(t, 30*time.Second, cfg.Reasoner.Timeout)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, "/var/lib/claimcheck", cfg.Store.Path)
	assert.Equal(t, 3, cfg.Analysis.TopK)
	assert.Equal(t, ":8080", cfg.Server.Addr, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "reasoner:\n  model: sonar-pro\n")
	t.Setenv("CLAIMCHECK_REASONER_MODEL", "sonar-reasoning")
	t.Setenv("CLAIMCHECK_ANALYSIS_TOP_K", "7")
	t.Setenv("CLAIMCHECK_SERVER_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sonar-reasoning", cfg.Reasoner.Model)
	assert.Equal(t, 7, cfg.Analysis.TopK)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_ProviderKeyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERPLEXITY_API_KEY", "pplx-from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pplx-from-env", cfg.Reasoner.APIKey)
}

func TestLoad_PrefixedKeyWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERPLEXITY_API_KEY", "pplx-generic")
	t.Setenv("CLAIMCHECK_REASONER_API_KEY", "pplx-specific")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pplx-specific", cfg.Reasoner.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
store:
  driver: redis
reasoner:
  temperature: 3
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
	assert.Contains(t, err.Error(), "reasoner.temperature")
}

func TestValidate_SQLiteNeedsPath(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Store.Driver = StoreSQLite
	cfg.Store.Path = ""

	assert.ErrorContains(t, cfg.Validate(), "store.path")
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{Analysis: AnalysisConfig{TopK: 2}, Server: ServerConfig{Addr: ":1"}}
	ApplyDefaults(cfg)

	assert.Equal(t, 2, cfg.Analysis.TopK)
	assert.Equal(t, ":1", cfg.Server.Addr)
	assert.Zero(t, cfg.Reasoner.Temperature)
	assert.NoError(t, cfg.Validate())
}
