package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.ListenAddr)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":8080"
store_urls:
  - http://es1:9200
  - http://es2:9200
max_page_size: 100
shutdown_timeout: 5s
metrics_enabled: false
`)
	t.Setenv("CATALOG_LISTEN_ADDR", ":9090")
	t.Setenv("CATALOG_STORE_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.StoreURLs)
	assert.Equal(t, "secret", cfg.StorePassword)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
}

func TestLoad_EnvList(t *testing.T) {
	t.Setenv("CATALOG_CORS_ALLOW_ORIGIN", "http://a.test,http://b.test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigin)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "listen_addr: [unclosed"))
	assert.ErrorContains(t, err, "malformed config file")

	_, err = Load(writeConfig(t, "max_page_size: -1"))
	assert.ErrorIs(t, err, ErrInvalidValue)

	t.Setenv("CATALOG_MAX_UPLOAD_BYTES", "lots")
	_, err = Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen addr", func(c *Config) { c.ListenAddr = " " }},
		{"no store urls", func(c *Config) { c.StoreURLs = nil }},
		{"blank store url", func(c *Config) { c.StoreURLs = []string{""} }},
		{"negative page size", func(c *Config) { c.MaxPageSize = -5 }},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }},
		{"negative timeout", func(c *Config) { c.ShutdownTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidValue)
		})
	}
	assert.NoError(t, Default().Validate())
}
