package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 8080
  env: production
  client_url: https://gigmarket.example
database:
  driver: postgres
  url: postgres://localhost/gigmarket
jwt:
  secret: from-file
  ttl_hours: 24
redis:
  addr: localhost:6379
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileThenEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, sampleYAML))
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())

	// значения по умолчанию остаются, если их нет в файле
	assert.Equal(t, "gigmarket:relay", cfg.Redis.Channel)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 60, cfg.Workers.RatingReconcileMinutes)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"no dsn", map[string]string{"JWT_SECRET": "s"}},
		{"no secret", map[string]string{"DATABASE_URL": "postgres://x"}},
		{"bad driver", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s", "DATABASE_DRIVER": "mysql"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
			t.Setenv("DATABASE_URL", "")
			t.Setenv("JWT_SECRET", "")
			t.Setenv("DATABASE_DRIVER", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_BrokenYAML(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "server: [unclosed"))
	_, err := Load()
	assert.Error(t, err)
}
