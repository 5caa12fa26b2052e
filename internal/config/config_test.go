package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
dev = true
api_url = "http://localhost:9000"
query_ttl = "30s"
storage = "memory"
log_level = "debug"

[production]
dev = false
api_url = "https://api.liftlog.example"
auth_provider = "hosted"
auth_url = "https://auth.liftlog.example"
storage = "redis"
redis_host = "redis.internal"
log_level = "warn"
logs_path = "/var/log/liftlog"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	path := writeTestConfig(t, testConfigToml)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.Dev)
	assert.Equal(t, "http://localhost:9000", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.QueryTTL)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, AuthProviderDev, cfg.AuthProvider)
	assert.Equal(t, DefaultCacheSizeMB, cfg.QueryCacheSize)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoad_Production(t *testing.T) {
	path := writeTestConfig(t, testConfigToml)

	cfg, err := Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.Dev)
	assert.Equal(t, AuthProviderHosted, cfg.AuthProvider)
	assert.Equal(t, "redis.internal", cfg.RedisHost)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, DefaultQueryTTL, cfg.QueryTTL)
}

func TestLoad_UnknownEnv(t *testing.T) {
	path := writeTestConfig(t, testConfigToml)
	_, err := Load("staging", path)
	require.EqualError(t, err, "unknown env: staging")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("dev", filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.True(t, cfg.Dev)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, StorageSQLite, cfg.Storage)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeTestConfig(t, testConfigToml)
	t.Setenv("LIFTLOG_API_URL", "http://override:1234")
	t.Setenv("LIFTLOG_DEV", "false")
	t.Setenv("LIFTLOG_REDIS_ADDR", "cache.local:6380")
	t.Setenv("LIFTLOG_STORAGE", "redis")
	t.Setenv("LIFTLOG_AUTH_ANON_KEY", "anon-key")

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:1234", cfg.APIURL)
	assert.False(t, cfg.Dev)
	assert.Equal(t, "cache.local", cfg.RedisHost)
	assert.Equal(t, "6380", cfg.RedisPort)
	assert.Equal(t, StorageRedis, cfg.Storage)
	assert.Equal(t, "anon-key", cfg.AuthAnonKey)
}

func TestLoad_Validation(t *testing.T) {
	path := writeTestConfig(t, `
[development]
storage = "floppy"
`)
	_, err := Load("dev", path)
	require.ErrorContains(t, err, "unknown storage: floppy")

	path = writeTestConfig(t, `
[development]
auth_provider = "hosted"
`)
	_, err = Load("dev", path)
	require.ErrorContains(t, err, "auth_url is empty")

	path = writeTestConfig(t, `
[development]
storage = "redis"
`)
	_, err = Load("dev", path)
	require.ErrorContains(t, err, "redis_host is empty")
}
