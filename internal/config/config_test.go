package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, DefaultPageSize, cfg.Paging.PageSize)
	assert.Equal(t, DefaultAdminPageSize, cfg.Paging.AdminPageSize)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 60*time.Second, cfg.Timeout())
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestNew_ReadsGlobalFile(t *testing.T) {
	home := stubHome(t)
	dir := filepath.Join(home, ".mindtool")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
api:
  base_url: https://example.test/api
  timeout_seconds: 5
  rate_limit: 2
  burst: 1
  server_constraint: ">= 1.0.0"
`), 0o600))

	cfg := New()
	assert.Equal(t, "https://example.test/api", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.TimeoutSeconds)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigPath())
	// Sections absent from the file keep their defaults.
	assert.Equal(t, DefaultPageSize, cfg.Paging.PageSize)
}

func TestNew_IgnoresCorruptFile(t *testing.T) {
	home := stubHome(t)
	dir := filepath.Join(home, ".mindtool")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api: [unclosed"), 0o600))

	cfg := New()
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoad(t *testing.T) {
	stubHome(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("paging: {page_size: [}"), 0o600))
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output:\n  default_format: json\n"), 0o600))
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, cfg.Output.DefaultFormat)
		assert.Equal(t, path, cfg.ConfigPath())
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIURL:       "https://env.test",
		EnvToken:        "tok",
		EnvPageSize:     "12",
		EnvOutputFormat: "yaml",
		EnvLogLevel:     "debug",
		EnvLogFormat:    "json",
		EnvLogFile:      "/tmp/mindtool.log",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Defaults()
	cfg.ApplyEnv(lookup)

	assert.Equal(t, "https://env.test", cfg.API.BaseURL)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, 12, cfg.Paging.PageSize)
	assert.Equal(t, "yaml", cfg.Output.DefaultFormat)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/tmp/mindtool.log", cfg.Logging.File)

	env[EnvPageSize] = "many"
	cfg.ApplyEnv(lookup)
	assert.Equal(t, 12, cfg.Paging.PageSize, "unparseable page size is ignored")
}

func TestLoadDotEnv(t *testing.T) {
	const key = "MINDTOOL_TEST_DOTENV"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv(key))

	t.Setenv(key, "from-env")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv(key), "existing variables win")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "relative url", mutate: func(c *Config) { c.API.BaseURL = "api" }},
		{name: "zero timeout", mutate: func(c *Config) { c.API.TimeoutSeconds = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.API.RateLimit = -1 }},
		{name: "zero page size", mutate: func(c *Config) { c.Paging.PageSize = 0 }},
		{name: "zero admin page size", mutate: func(c *Config) { c.Paging.AdminPageSize = 0 }},
		{name: "zero fetch timeout", mutate: func(c *Config) { c.Paging.FetchTimeoutSeconds = 0 }},
		{name: "negative tag cache ttl", mutate: func(c *Config) { c.Tags.CacheTTLSeconds = -1 }},
		{name: "unknown format", mutate: func(c *Config) { c.Output.DefaultFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestSave(t *testing.T) {
	stubHome(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Defaults()
	cfg.API.Token = "secret"
	cfg.SetConfigPath(path)
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.API, loaded.API)
	assert.Equal(t, cfg.Paging, loaded.Paging)
}

func TestSave_NoPath(t *testing.T) {
	require.Error(t, Defaults().Save())
}

func TestToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", got.Output)

	lc.File = "/tmp/x.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, "file", got.Output)
	assert.Equal(t, "/tmp/x.log", got.File)
}
