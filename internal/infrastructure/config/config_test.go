package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedConfig "github.com/orris-inc/ticketflow/internal/shared/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: mysql
  database: tickets
lock:
  driver: redis
`)

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, sharedConfig.DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "tickets", cfg.Database.Database)
	assert.Equal(t, sharedConfig.LockDriverRedis, cfg.Lock.Driver)
	assert.Equal(t, 30, cfg.Lock.TTLSeconds)
	assert.Equal(t, "admin", cfg.Permission.AdminRole)
	assert.False(t, cfg.Events.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.PerMinute)
	assert.True(t, cfg.RedisRequired())
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverridesAndMode(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("TICKETFLOW_SERVER_PORT", "7070")
	t.Setenv("TICKETFLOW_AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load("production", path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWT.Secret)
	assert.Equal(t, "production", cfg.Server.Mode)
}

func TestLoad_Rejects(t *testing.T) {
	_, err := Load("", writeConfig(t, "database:\n  driver: oracle\n"))
	assert.Error(t, err)

	_, err = Load("", writeConfig(t, "lock:\n  driver: etcd\n"))
	assert.Error(t, err)

	_, err = Load("", writeConfig(t, "rate_limit:\n  enabled: true\n  per_minute: 0\n  per_hour: 0\n"))
	assert.Error(t, err)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_RedisRequired(t *testing.T) {
	cfg, err := Load("", writeConfig(t, "lock:\n  driver: memory\n"))
	require.NoError(t, err)
	assert.False(t, cfg.RedisRequired())

	cfg.Events.Enabled = true
	assert.True(t, cfg.RedisRequired())

	cfg.Events.Enabled = false
	cfg.RateLimit.Enabled = true
	assert.True(t, cfg.RedisRequired())
}
