package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "localhost:8000", cfg.ServerAddr)
		assert.Equal(t, 2*time.Second, cfg.Call.ConnectDelay)
		assert.Equal(t, 15*time.Second, cfg.Call.IncomingMin)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		data := `
serverAddr = "localhost:9999"
allowedOrigins = ["http://localhost:5173"]

[log]
level = "debug"

[call]
connectDelay = "500ms"
teardownDelay = "250ms"
tickInterval = "1s"
incomingMin = "5s"
incomingMax = "10s"
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "localhost:9999", cfg.ServerAddr)
		assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 500*time.Millisecond, cfg.Call.ConnectDelay)
		assert.Equal(t, 5*time.Second, cfg.Call.IncomingMin)
		assert.Equal(t, 30, cfg.Log.MaxAge, "untouched defaults survive the decode")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("invalid call window", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		data := `
[call]
incomingMin = "30s"
incomingMax = "10s"
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("non-positive delay", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		data := `
[call]
tickInterval = "0s"
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}
