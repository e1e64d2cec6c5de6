// Package config loads and validates contentcore configuration.
// Configuration comes from three layers, later layers winning:
// built-in defaults, a YAML file (contentcore.yaml), and
// CONTENTCORE_* environment variables.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "contentcore.yaml"

// Cache backend names.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config represents the complete contentcore configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Content ContentConfig `yaml:"content" json:"content"`
	CMS     CMSConfig     `yaml:"cms" json:"cms"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Index   IndexConfig   `yaml:"index" json:"index"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
}

// ContentConfig configures the local content tree and locale policy.
type ContentConfig struct {
	// Dir is the root of the on-disk content layout.
	Dir string `yaml:"dir" json:"dir"`
	// DefaultLocale is the locale whose root-level files act as the
	// fallback for partially translated slugs.
	DefaultLocale string `yaml:"default_locale" json:"default_locale"`
	// Locales is the closed set of supported locales.
	Locales []string `yaml:"locales" json:"locales"`
}

// CMSConfig configures the remote CMS source.
// An empty BaseURL means the remote source is disabled and every
// lookup short-circuits to the local tree.
type CMSConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	// APIPath is appended to BaseURL to form the pages endpoint
	// (default: /api/v2).
	APIPath string `yaml:"api_path" json:"api_path"`
	// Timeout bounds a single CMS request (default: 10s).
	Timeout string `yaml:"timeout" json:"timeout"`
	// PreviewToken authorizes draft lookups against the CMS.
	PreviewToken string `yaml:"preview_token" json:"preview_token"`
}

// CacheConfig configures the resolution-result cache.
type CacheConfig struct {
	// Backend selects the cache implementation: "memory" or "redis".
	Backend string `yaml:"backend" json:"backend"`
	// TTL is how long a resolved document stays cached (default: 60s,
	// mirroring the CMS revalidation window).
	TTL string `yaml:"ttl" json:"ttl"`
	// Size is the maximum number of cached resolutions (memory backend).
	Size int `yaml:"size" json:"size"`
	// RedisAddr is the host:port of the Redis server (redis backend).
	RedisAddr string `yaml:"redis_addr" json:"redis_addr"`
	// RedisDB is the Redis database number.
	RedisDB int `yaml:"redis_db" json:"redis_db"`
}

// IndexConfig configures the search index build.
type IndexConfig struct {
	// OutputPath is where the JSON index artifact is written.
	OutputPath string `yaml:"output_path" json:"output_path"`
	// Workers bounds concurrent slug resolution during the build.
	Workers int `yaml:"workers" json:"workers"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	LogLevel string `yaml:"log_level" json:"log_level"`
	// RevalidateSecret guards the /invalidate webhook. Empty disables
	// the endpoint.
	RevalidateSecret string `yaml:"revalidate_secret" json:"revalidate_secret"`
}

// WatchConfig configures content-tree watching.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Debounce string `yaml:"debounce" json:"debounce"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Content: ContentConfig{
			Dir:           "content",
			DefaultLocale: "en",
			Locales:       []string{"en", "ar"},
		},
		CMS: CMSConfig{
			BaseURL: "",
			APIPath: "/api/v2",
			Timeout: "10s",
		},
		Cache: CacheConfig{
			Backend:   "memory",
			TTL:       "60s",
			Size:      1024,
			RedisAddr: "localhost:6379",
		},
		Index: IndexConfig{
			OutputPath: "search-index.json",
			Workers:    runtime.NumCPU(),
		},
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     8080,
			LogLevel: "info",
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: "200ms",
		},
	}
}

// Load reads configuration from the given path, falling back to
// DefaultFileName in the working directory. A missing file is not an
// error; defaults plus env overrides are returned.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file; defaults apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies CONTENTCORE_* environment overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("CONTENTCORE_CONTENT_DIR"); v != "" {
		c.Content.Dir = v
	}
	if v := os.Getenv("CONTENTCORE_CMS_URL"); v != "" {
		c.CMS.BaseURL = v
	}
	if v := os.Getenv("CONTENTCORE_CMS_PREVIEW_TOKEN"); v != "" {
		c.CMS.PreviewToken = v
	}
	if v := os.Getenv("CONTENTCORE_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("CONTENTCORE_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("CONTENTCORE_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("CONTENTCORE_REVALIDATE_SECRET"); v != "" {
		c.Server.RevalidateSecret = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if len(c.Content.Locales) == 0 {
		return fmt.Errorf("content.locales must not be empty")
	}
	found := false
	for _, l := range c.Content.Locales {
		if l == c.Content.DefaultLocale {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("content.default_locale %q is not in content.locales", c.Content.DefaultLocale)
	}
	if c.Cache.Backend != CacheBackendMemory && c.Cache.Backend != CacheBackendRedis {
		return fmt.Errorf("cache.backend must be \"memory\" or \"redis\", got %q", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return fmt.Errorf("cache.ttl: %w", err)
	}
	if _, err := c.CMSTimeout(); err != nil {
		return fmt.Errorf("cms.timeout: %w", err)
	}
	if c.Index.Workers <= 0 {
		return fmt.Errorf("index.workers must be positive, got %d", c.Index.Workers)
	}
	return nil
}

// RemoteEnabled reports whether the CMS source is configured.
func (c *Config) RemoteEnabled() bool {
	return c.CMS.BaseURL != ""
}

// CacheTTL parses the cache TTL duration.
func (c *Config) CacheTTL() (time.Duration, error) {
	return parseDuration(c.Cache.TTL, 60*time.Second)
}

// CMSTimeout parses the CMS request timeout.
func (c *Config) CMSTimeout() (time.Duration, error) {
	return parseDuration(c.CMS.Timeout, 10*time.Second)
}

// WatchDebounce parses the watcher debounce window.
func (c *Config) WatchDebounce() (time.Duration, error) {
	return parseDuration(c.Watch.Debounce, 200*time.Millisecond)
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", s)
	}
	return d, nil
}
