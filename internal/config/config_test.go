package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 5*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, "dir", cfg.Export.Sink)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Suggestions.SeedDemo)
}

func TestLoad_ValidJSON(t *testing.T) {
	content := `{
		"server": {"port": 9000, "rate_limit": {"requests_per_minute": 30}},
		"storage": {"backend": "memory", "timeout": "2s"},
		"print": {"settle_delay": "250ms"},
		"suggestions": {"seed_demo": true}
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.RateLimit.RequestsPerMinute)
	assert.Equal(t, 20, cfg.Server.RateLimit.Burst)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 2*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Print.SettleDelay)
	assert.True(t, cfg.Suggestions.SeedDemo)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CVMAKER_SERVER_PORT", "9191")
	t.Setenv("CVMAKER_STORAGE_BACKEND", "memory")
	t.Setenv("CVMAKER_LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := Load(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "s3" }, wantErr: "config error"},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "config error"},
		{name: "postgres without url", mutate: func(c *Config) { c.Storage.Backend = "postgres" }, wantErr: "storage.database_url"},
		{name: "redis without addr", mutate: func(c *Config) {
			c.Storage.Backend = "redis"
			c.Storage.RedisAddr = ""
		}, wantErr: "storage.redis_addr"},
		{name: "minio without bucket", mutate: func(c *Config) {
			c.Export.Sink = "minio"
			c.Export.MinIO.Bucket = ""
		}, wantErr: "export.minio.bucket"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: "config error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		Server:  ServerConfig{Port: 3000},
		Storage: StorageConfig{Backend: "memory"},
	}

	merged := partial.MergeWithDefaults(Defaults())

	// Custom values should be preserved
	assert.Equal(t, 3000, merged.Server.Port)
	assert.Equal(t, "memory", merged.Storage.Backend)

	// Default values should fill in empty fields
	assert.Equal(t, "localhost", merged.Server.Host)
	assert.Equal(t, 5*time.Second, merged.Storage.Timeout)
	assert.Equal(t, "exports", merged.Export.Dir)
	assert.Equal(t, "console", merged.Log.Format)
	require.NoError(t, merged.Validate())
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:8080", Defaults().Server.Addr())
}
