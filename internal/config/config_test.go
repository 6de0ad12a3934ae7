package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "investcast"
postgres_user = "investcast"
redis_host = "localhost"
redis_port = "6379"
audio_root_path = "/tmp/investcast-audio"
audio_public_base_url = "http://localhost:8080"

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/investcast/service.log"
sentry_enabled = true
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "investcast"
redis_host = "redis"
redis_port = "6379"
auth_rate_limit_max_attempts = 5
auth_rate_limit_window_minutes = 15
audio_root_path = "/data/audio"
audio_public_base_url = "https://investcast.online"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigToml), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("dev", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.Equal(t, "investcast", cfg.PostgresUser)
	// rate limit defaults applied
	assert.Equal(t, 5, cfg.AuthRateLimitMaxAttempts)
	assert.Equal(t, 15, cfg.AuthRateLimitWindowMins)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("production", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, "/data/audio", cfg.AudioRootPath)
}

func TestLoad_MissingSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	prodOnly := `
[production]
host = "localhost"
port = 9000
`
	require.NoError(t, os.WriteFile(path, []byte(prodOnly), 0o600))

	// a missing env table is an error, not a panic
	_, err := Load("development", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config section")

	cfg, err := Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
}

func TestLoad_UnknownEnv(t *testing.T) {
	_, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env")
}
