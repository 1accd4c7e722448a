package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/tripsync/internal/config"
	"github.com/EgehanKilicarslan/tripsync/internal/logger"
)

func TestNewWithWriter_Development(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{AppEnv: "development", LogLevel: slog.LevelDebug}, &buf)

	log.Debug("debug message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "debug message")
	assert.Contains(t, output, "key=value")
	assert.Contains(t, output, "service=tripsync")
}

func TestNewWithWriter_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{AppEnv: "Production", LogLevel: slog.LevelInfo}, &buf)

	log.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{LogLevel: slog.LevelWarn}, &buf)

	log.Info("info message")
	log.Warn("warn message")

	output := buf.String()
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
}

func TestNew_SetsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	log := logger.New(&config.Config{LogLevel: slog.LevelInfo})

	assert.Same(t, log, slog.Default())
}

func TestDiscard(t *testing.T) {
	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
