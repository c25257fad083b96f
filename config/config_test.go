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
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 64, cfg.Auth.TokenLength)
	assert.Equal(t, "storage", cfg.Storage.Root)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("RECRUIT_DB_DRIVER", "sqlite")
	t.Setenv("RECRUIT_SERVER_PORT", "9090")

	cfg, err := Load(writeConfig(t, "server:\n  port: 7000\n"))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: DriverSQLite},
			Auth:     AuthConfig{TokenTTL: time.Hour, TokenLength: 64},
			Storage:  StorageConfig{Root: "storage"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }},
		{"未知驱动", func(c *Config) { c.Database.Driver = "mysql" }},
		{"令牌过短", func(c *Config) { c.Auth.TokenLength = 16 }},
		{"TTL 为零", func(c *Config) { c.Auth.TokenTTL = 0 }},
		{"存储根目录为空", func(c *Config) { c.Storage.Root = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
