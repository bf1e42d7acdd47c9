package logger_test

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restkit/core/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("development defaults", func(t *testing.T) {
		t.Parallel()

		var buf strings.Builder
		log := logger.New(logger.WithDevelopment("testapp"), logger.WithOutput(&buf))

		log.Debug("debug visible")
		out := buf.String()
		assert.Contains(t, out, "debug visible")
		assert.Contains(t, out, "app=testapp")
	})

	t.Run("production defaults", func(t *testing.T) {
		t.Parallel()

		var buf strings.Builder
		log := logger.New(logger.WithProduction("testapp"), logger.WithOutput(&buf))

		log.Debug("suppressed")
		log.Info("visible", "key", "value")

		out := buf.String()
		assert.NotContains(t, out, "suppressed")

		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &record))
		assert.Equal(t, "visible", record["msg"])
		assert.Equal(t, "testapp", record["app"])
		assert.Equal(t, "value", record["key"])
	})

	t.Run("custom level", func(t *testing.T) {
		t.Parallel()

		var buf strings.Builder
		log := logger.New(logger.WithLevel(slog.LevelError), logger.WithOutput(&buf))

		log.Warn("dropped")
		log.Error("kept")
		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "kept")
	})
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		logger.Discard().Info("goes nowhere")
	})
}
