// Package config loads mindtool settings from ~/.mindtool/config.yaml, an optional
// project overlay, .env files and MINDTOOL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultBaseURL          = "http://localhost:8080/api"
	DefaultTimeoutSeconds   = 60
	DefaultRateLimit        = 10.0
	DefaultBurst            = 5
	DefaultServerConstraint = ">= 1.0.0, < 2.0.0"
	DefaultPageSize         = 10
	DefaultAdminPageSize    = 20
	DefaultFetchTimeout     = 30
	DefaultOutputFormat     = "table"
	DefaultTagCacheTTL      = 3600

	configFileName = "config.yaml"
)

// Environment variables consulted after the config files.
const (
	EnvHome         = "MINDTOOL_HOME"
	EnvProjectDir   = "MINDTOOL_PROJECT_DIR"
	EnvAPIURL       = "MINDTOOL_API_URL"
	EnvToken        = "MINDTOOL_TOKEN"
	EnvPageSize     = "MINDTOOL_PAGE_SIZE"
	EnvOutputFormat = "MINDTOOL_OUTPUT"
	EnvLogLevel     = "MINDTOOL_LOG_LEVEL"
	EnvLogFormat    = "MINDTOOL_LOG_FORMAT"
	EnvLogFile      = "MINDTOOL_LOG_FILE"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete mindtool configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Paging  PagingConfig  `yaml:"paging"`
	Tags    TagsConfig    `yaml:"tags"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	configPath string
}

// APIConfig describes the content server.
type APIConfig struct {
	BaseURL          string  `yaml:"base_url"`
	Token            string  `yaml:"token,omitempty"`
	TimeoutSeconds   int     `yaml:"timeout_seconds"`
	RateLimit        float64 `yaml:"rate_limit"`
	Burst            int     `yaml:"burst"`
	ServerConstraint string  `yaml:"server_constraint"`
}

// PagingConfig holds page sizes and the per-page fetch timeout.
type PagingConfig struct {
	PageSize            int `yaml:"page_size"`
	AdminPageSize       int `yaml:"admin_page_size"`
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
}

// TagsConfig controls where tag catalogs come from.
type TagsConfig struct {
	// LibraryFile replaces the built-in tag library when set.
	LibraryFile string `yaml:"library_file,omitempty"`
	// Remote fetches catalogs from the server instead of the library.
	Remote bool `yaml:"remote"`
	// CacheTTLSeconds keeps fetched server catalogs on disk; 0 disables the cache.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// OutputConfig holds list rendering preferences.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig holds logging preferences.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Defaults returns a Config holding only built-in defaults.
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:          DefaultBaseURL,
			TimeoutSeconds:   DefaultTimeoutSeconds,
			RateLimit:        DefaultRateLimit,
			Burst:            DefaultBurst,
			ServerConstraint: DefaultServerConstraint,
		},
		Paging: PagingConfig{
			PageSize:            DefaultPageSize,
			AdminPageSize:       DefaultAdminPageSize,
			FetchTimeoutSeconds: DefaultFetchTimeout,
		},
		Tags:   TagsConfig{CacheTTLSeconds: DefaultTagCacheTTL},
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// New returns the defaults overlaid with the global config file, when present, and
// the environment. Problems reading the file leave the defaults in place.
func New() *Config {
	cfg := Defaults()
	if dir, err := GetConfigDir(); err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
		_ = cfg.readFile(cfg.configPath)
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg
}

// Load reads an explicit config file. Unlike New, a missing or malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	cfg.configPath = path
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files. Missing files are skipped and
// variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from MINDTOOL_* variables. Unparseable numbers are ignored.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvAPIURL); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookupEnv(EnvToken); ok && v != "" {
		c.API.Token = v
	}
	if v, ok := lookupEnv(EnvPageSize); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Paging.PageSize = n
		}
	}
	if v, ok := lookupEnv(EnvOutputFormat); ok && v != "" {
		c.Output.DefaultFormat = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvLogFile); ok {
		c.Logging.File = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q is not an absolute URL", ErrInvalidConfig, c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: api.timeout_seconds must be > 0, got %d", ErrInvalidConfig, c.API.TimeoutSeconds)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must be >= 0, got %v", ErrInvalidConfig, c.API.RateLimit)
	}
	if c.Paging.PageSize <= 0 {
		return fmt.Errorf("%w: paging.page_size must be > 0, got %d", ErrInvalidConfig, c.Paging.PageSize)
	}
	if c.Paging.AdminPageSize <= 0 {
		return fmt.Errorf("%w: paging.admin_page_size must be > 0, got %d",
			ErrInvalidConfig, c.Paging.AdminPageSize)
	}
	if c.Paging.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: paging.fetch_timeout_seconds must be > 0, got %d",
			ErrInvalidConfig, c.Paging.FetchTimeoutSeconds)
	}
	if c.Tags.CacheTTLSeconds < 0 {
		return fmt.Errorf("%w: tags.cache_ttl_seconds must be >= 0, got %d", ErrInvalidConfig, c.Tags.CacheTTLSeconds)
	}
	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: output.default_format %q must be one of table, json, yaml",
			ErrInvalidConfig, c.Output.DefaultFormat)
	}
	return nil
}

// TagCacheTTL is how long fetched server catalogs stay fresh.
func (c *Config) TagCacheTTL() time.Duration {
	return time.Duration(c.Tags.CacheTTLSeconds) * time.Second
}

// Timeout is the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// FetchTimeout bounds a single page fetch.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Paging.FetchTimeoutSeconds) * time.Second
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML. The file may hold a token, so it is
// created owner-only.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}
