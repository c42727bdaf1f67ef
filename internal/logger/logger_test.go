package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/config"
)

func TestNewLogger_Development(t *testing.T) {
	cfg := &config.Config{AppEnv: "development", LogLevel: slog.LevelDebug}

	var buf bytes.Buffer
	log := NewWithWriter(&buf, cfg)
	log.Debug("test message", "meetup_id", 7)

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "meetup_id=7")
}

func TestNewLogger_Production(t *testing.T) {
	cfg := &config.Config{AppEnv: "production", LogLevel: slog.LevelInfo}

	var buf bytes.Buffer
	log := NewWithWriter(&buf, cfg)
	log.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewLogger_LogLevels(t *testing.T) {
	cfg := &config.Config{LogLevel: slog.LevelWarn}

	var buf bytes.Buffer
	log := NewWithWriter(&buf, cfg)
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_SetsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	log := New(&config.Config{LogLevel: slog.LevelInfo})

	assert.NotNil(t, log)
	assert.Same(t, log, slog.Default())
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.False(t, log.Enabled(t.Context(), slog.LevelError))
}
