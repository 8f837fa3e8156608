package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no settings file or .env leaks in
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		viper.Reset()
	})
	viper.Reset()
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, load())

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "./cache", cfg.Storage.CacheDir)
	assert.Equal(t, time.Hour, cfg.Storage.TempMaxAge)
	assert.Equal(t, 15*time.Minute, cfg.Storage.CleanupInterval)
	assert.Equal(t, FetchBackendYTDL, cfg.Fetch.Backend)
	assert.Equal(t, "18", cfg.Fetch.Format)
	assert.True(t, cfg.Fetch.WriteInfoJSON)
	assert.Equal(t, WindowAnchored, cfg.Processing.Window)
	assert.Empty(t, cfg.Pipeline.Version)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "./logs", cfg.Logging.Dir)
}

func TestLoadSettingsFile(t *testing.T) {
	dir := chdirTemp(t)

	content := `
storage:
  cache_dir: "/var/cache/herotrend"
pipeline:
  version: "v2"
processing:
  window: "aligned"
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "settings.yaml"), []byte(content), 0644))

	require.NoError(t, load())

	assert.Equal(t, "/var/cache/herotrend", GetString("storage.cache_dir"))
	assert.Equal(t, "v2", GetString("pipeline.version"))
	assert.Equal(t, WindowAligned, GetString("processing.window"))
}

func TestLoadEnvironmentOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HEROTREND_SERVER_PORT", "9090")
	t.Setenv("HEROTREND_STORAGE_CACHE_DIR", "/tmp/hero-cache")

	require.NoError(t, load())

	assert.Equal(t, 9090, GetInt("server.port"))
	assert.Equal(t, "/tmp/hero-cache", GetString("storage.cache_dir"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HEROTREND_PIPELINE_VERSION=from-dotenv\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("HEROTREND_PIPELINE_VERSION") })

	require.NoError(t, load())

	assert.Equal(t, "from-dotenv", GetString("pipeline.version"))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "invalid port", env: map[string]string{"HEROTREND_SERVER_PORT": "70000"}},
		{name: "unknown backend", env: map[string]string{"HEROTREND_FETCH_BACKEND": "ftp"}},
		{name: "http backend without template", env: map[string]string{"HEROTREND_FETCH_BACKEND": "http"}},
		{name: "unknown window", env: map[string]string{"HEROTREND_PROCESSING_WINDOW": "sliding"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Error(t, load())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: 8080},
			Storage:    StorageConfig{CacheDir: "./cache"},
			Fetch:      FetchConfig{Backend: FetchBackendYTDL},
			Processing: ProcessingConfig{Window: WindowAnchored},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 5, cfg.RateLimiting.RequestsPerSecond, "rate limit should be auto-corrected")
	})

	t.Run("empty cache dir", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.CacheDir = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown window", func(t *testing.T) {
		cfg := valid()
		cfg.Processing.Window = "sliding"
		assert.Error(t, cfg.Validate())
	})
}
