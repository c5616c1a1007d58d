package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:35000", cfg.GatewayURL)
	assert.Equal(t, "ws://localhost:35000/ws", cfg.PushWebSocketURL)
	assert.Equal(t, PushTransportStomp, cfg.PushTransport)
	assert.Equal(t, time.Second, cfg.PollInterval())
	assert.Equal(t, 15*time.Second, cfg.GatewayTimeout())
	assert.Equal(t, 10, cfg.PageSize)
	assert.Nil(t, cfg.CoordinatesMaxX)
	assert.Nil(t, cfg.CoordinatesMinYExclusive)

	initial, max := cfg.HistoryPollBounds()
	assert.Equal(t, 4*time.Second, initial)
	assert.Equal(t, 30*time.Second, max)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GATEWAY_URL", "https://registry.example.com")
	t.Setenv("POLL_INTERVAL_MS", "250")
	t.Setenv("COORDINATES_MAX_X", "882")
	t.Setenv("COORDINATES_MIN_Y_EXCLUSIVE", "-540")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "wss://registry.example.com/ws", cfg.PushWebSocketURL)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval())
	require.NotNil(t, cfg.CoordinatesMaxX)
	assert.Equal(t, int64(882), *cfg.CoordinatesMaxX)
	require.NotNil(t, cfg.CoordinatesMinYExclusive)
	assert.Equal(t, int64(-540), *cfg.CoordinatesMinYExclusive)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	content := "ENVIRONMENT: production\nPUSH_TRANSPORT: nats\nNATS_URL: nats://127.0.0.1:4222\nPAGE_SIZE: 25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, PushTransportNATS, cfg.PushTransport)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATSURL)
	assert.Equal(t, 25, cfg.PageSize)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			GatewayURL:           "http://localhost:35000",
			GatewayTimeoutSec:    15,
			PushTransport:        PushTransportStomp,
			PushWebSocketURL:     "ws://localhost:35000/ws",
			PushReconnectDelayMs: 5000,
			PollIntervalMs:       1000,
			HistoryPollInitialMs: 4000,
			HistoryPollMaxMs:     30000,
			PageSize:             10,
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validate(valid()))
	})

	t.Run("relative gateway url", func(t *testing.T) {
		cfg := valid()
		cfg.GatewayURL = "/api"
		assert.ErrorContains(t, validate(cfg), "GATEWAY_URL")
	})

	t.Run("nats without url", func(t *testing.T) {
		cfg := valid()
		cfg.PushTransport = PushTransportNATS
		assert.ErrorContains(t, validate(cfg), "NATS_URL")
	})

	t.Run("unknown push transport", func(t *testing.T) {
		cfg := valid()
		cfg.PushTransport = "carrier-pigeon"
		assert.ErrorContains(t, validate(cfg), "unknown PUSH_TRANSPORT")
	})

	t.Run("non positive interval", func(t *testing.T) {
		cfg := valid()
		cfg.PollIntervalMs = 0
		assert.ErrorContains(t, validate(cfg), "must be positive")
	})

	t.Run("inverted history bounds", func(t *testing.T) {
		cfg := valid()
		cfg.HistoryPollMaxMs = 1000
		assert.ErrorContains(t, validate(cfg), "HISTORY_POLL_MAX_MS")
	})

	t.Run("page size out of range", func(t *testing.T) {
		cfg := valid()
		cfg.PageSize = 0
		assert.ErrorContains(t, validate(cfg), "PAGE_SIZE")
	})
}

// chdir stands in for testing.T.Chdir (Go 1.24+): it switches to dir and
// restores the previous working directory when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
