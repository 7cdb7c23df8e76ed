package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("writes to the configured file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(config.LogConfig{
			FileName: path,
			Level:    "info",
		})
		require.NoError(t, err)

		log.Info("hello")
		require.NoError(t, log.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello")
	})

	t.Run("debug messages are dropped at info level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(config.LogConfig{
			FileName: path,
			Level:    "info",
		})
		require.NoError(t, err)

		log.Debug("quiet")
		log.Sync()

		data, _ := os.ReadFile(path)
		assert.NotContains(t, string(data), "quiet")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(config.LogConfig{Level: "shouting"})
		assert.Error(t, err)
	})
}
