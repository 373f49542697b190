package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
user = "agenda"
dbname = "agenda"

[scheduling]
timezone = "America/Sao_Paulo"
`)
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REDIS_URL", "redis://default:pw@cache:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30, cfg.Scheduling.SlotGranularityMinutes)
	assert.Equal(t, 30, cfg.Scheduling.DefaultDurationMinutes)
	assert.True(t, cfg.Scheduling.RejectPast())
	assert.Equal(t, "America/Sao_Paulo", cfg.Scheduling.Location().String())

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "default", cfg.Redis.Username)
	assert.Equal(t, "pw", cfg.Redis.Password)

	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"

[scheduling]
timezone = "Mars/Olympus"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_PastBookingsCanBeAllowed(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"

[scheduling]
reject_past_bookings = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Scheduling.RejectPast())
}
