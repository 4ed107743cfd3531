package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  read_timeout: 3s
auth:
  jwt_secret: from-file
inventory:
  max_page_size: 0
cache:
  driver: " Redis "
kafka:
  import_topic: items.import
  dlq_topic: ""
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_DSN", "postgres://localhost/inventory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres://localhost/inventory", cfg.Database.DSN)
	assert.Equal(t, 100, cfg.Inventory.MaxPageSize)
	assert.Equal(t, CacheDriverRedis, cfg.Cache.Driver)
	assert.Equal(t, "items.import.dlq", cfg.Kafka.DLQTopic)
	assert.Equal(t, ":9090", cfg.Server.Address())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "secret"
	require.NoError(t, cfg.Validate())

	cfg.Cache.Driver = "memcached"
	require.Error(t, cfg.Validate())
}

func TestApplyFlags(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, ApplyFlags(&cfg, []string{"-a", "127.0.0.1:8081", "-dsn", "postgres://db"}))
	assert.Equal(t, "127.0.0.1:8081", cfg.Server.Address())
	assert.Equal(t, "postgres://db", cfg.Database.DSN)

	cfg = defaultConfig()
	require.NoError(t, ApplyFlags(&cfg, nil))
	assert.Equal(t, ":5000", cfg.Server.Address())
	assert.Empty(t, cfg.Database.DSN)

	require.Error(t, ApplyFlags(&cfg, []string{"-a", "host:port"}))
}
