package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL       = "http://localhost:5226"
	DefaultQueryTTL     = 5 * time.Minute
	DefaultCacheSizeMB  = 16
	defaultDataDirName  = ".liftlog"
	StorageSQLite       = "sqlite"
	StorageRedis        = "redis"
	StorageMemory       = "memory"
	AuthProviderDev     = "dev"
	AuthProviderHosted  = "hosted"
	defaultHTTPTimeout  = 30 * time.Second
	defaultCallbackPort = 5899
)

type Config struct {
	Environment string `toml:"-"`
	// Dev selects the development stub identity and relaxes auth fallbacks.
	Dev bool `toml:"dev"`

	// remote api
	APIURL         string        `toml:"api_url"`
	HTTPTimeout    time.Duration `toml:"http_timeout"`
	QueryTTL       time.Duration `toml:"query_ttl"`
	QueryCacheSize int           `toml:"query_cache_size_mb"`

	// identity provider
	AuthProvider      string `toml:"auth_provider"`
	AuthURL           string `toml:"auth_url"`
	AuthAnonKey       string `toml:"-"`
	AuthCallbackPort  int    `toml:"auth_callback_port"`
	AuthOAuthProvider string `toml:"auth_oauth_provider"`

	// local storage
	DataDir       string `toml:"data_dir"`
	Storage       string `toml:"storage"`
	RedisHost     string `toml:"redis_host"`
	RedisPort     string `toml:"redis_port"`
	RedisPassword string `toml:"-"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// dev server
	DevServerHost        string `toml:"dev_server_host"`
	DevServerPort        int    `toml:"dev_server_port"`
	DevServerMetricsPort int    `toml:"dev_server_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, errors.New("no development section in config")
		}
		t.Development.Environment = "development"
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, errors.New("no production section in config")
		}
		t.Production.Environment = "production"
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Default returns the config used when no config file exists.
func Default(env string) *Config {
	cfg := &Config{
		Environment:          "development",
		Dev:                  true,
		AuthProvider:         AuthProviderDev,
		Storage:              StorageSQLite,
		LogLevel:             "info",
		DevServerHost:        "localhost",
		DevServerPort:        5226,
		DevServerMetricsPort: 5227,
	}
	if strings.HasPrefix(strings.ToLower(env), "prod") {
		cfg.Environment = "production"
		cfg.Dev = false
		cfg.AuthProvider = AuthProviderHosted
		cfg.LogLevel = "warn"
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads the env section of the TOML file at path, then applies environment overrides.
// A missing file falls back to Default(env).
func Load(env, path string) (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg = Default(env)
	} else {
		var t Toml
		if _, err := toml.DecodeFile(path, &t); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
		cfg, err = t.Get(env)
		if err != nil {
			return nil, err
		}
		cfg.applyDefaults()
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	if c.QueryTTL <= 0 {
		c.QueryTTL = DefaultQueryTTL
	}
	if c.QueryCacheSize <= 0 {
		c.QueryCacheSize = DefaultCacheSizeMB
	}
	if c.AuthProvider == "" {
		c.AuthProvider = AuthProviderDev
	}
	if c.AuthCallbackPort == 0 {
		c.AuthCallbackPort = defaultCallbackPort
	}
	if c.Storage == "" {
		c.Storage = StorageSQLite
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, defaultDataDirName)
		} else {
			c.DataDir = defaultDataDirName
		}
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LIFTLOG_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("LIFTLOG_DEV"); v != "" {
		c.Dev = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("LIFTLOG_AUTH_URL"); v != "" {
		c.AuthURL = v
	}
	if v := os.Getenv("LIFTLOG_AUTH_ANON_KEY"); v != "" {
		c.AuthAnonKey = v
	}
	if v := os.Getenv("LIFTLOG_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("LIFTLOG_STORAGE"); v != "" {
		c.Storage = v
	}
	if v := os.Getenv("LIFTLOG_REDIS_ADDR"); v != "" {
		if host, port, ok := strings.Cut(v, ":"); ok {
			c.RedisHost, c.RedisPort = host, port
		} else {
			c.RedisHost = v
		}
	}
	if v := os.Getenv("LIFTLOG_REDIS_PASS"); v != "" {
		c.RedisPassword = v
	}
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageSQLite, StorageMemory:
	case StorageRedis:
		if c.RedisHost == "" {
			return errors.New("redis storage selected, but redis_host is empty")
		}
	default:
		return fmt.Errorf("unknown storage: %s", c.Storage)
	}

	switch c.AuthProvider {
	case AuthProviderDev:
	case AuthProviderHosted:
		if c.AuthURL == "" {
			return errors.New("hosted auth provider selected, but auth_url is empty")
		}
	default:
		return fmt.Errorf("unknown auth provider: %s", c.AuthProvider)
	}

	return nil
}
