package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sensor.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, 365*24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, time.Second, cfg.Feed.PollInterval)
	assert.Equal(t, 50, cfg.Feed.WindowSize)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SQLITE_PATH", "/var/lib/fld/telemetry.db")
	t.Setenv("FEED_POLL_INTERVAL", "250ms")
	t.Setenv("FEED_WINDOW_SIZE", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/var/lib/fld/telemetry.db", cfg.Database.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Feed.PollInterval)
	assert.Equal(t, 10, cfg.Feed.WindowSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestValidateRejectsBadFeedSettings(t *testing.T) {
	t.Setenv("FEED_WINDOW_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Path: "telemetry.db", BusyTimeout: 30 * time.Second}}

	dsn := cfg.GetDatabaseDSN()
	assert.Equal(t, "file:telemetry.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_pragma=foreign_keys(on)", dsn)
}

func TestGetMQTTBrokerURL(t *testing.T) {
	cfg := &BridgeConfig{MQTT: MQTTConfig{BrokerHost: "broker.local", BrokerPort: 8883, UseTLS: true}}
	assert.Equal(t, "tcps://broker.local:8883", cfg.GetMQTTBrokerURL())

	cfg.MQTT.UseTLS = false
	cfg.MQTT.BrokerPort = 1883
	assert.Equal(t, "tcp://broker.local:1883", cfg.GetMQTTBrokerURL())
}
