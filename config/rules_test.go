package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules(t *testing.T) {
	t.Run("Empty path gives defaults", func(t *testing.T) {
		rules, err := LoadRules("")
		require.NoError(t, err)
		assert.Equal(t, DefaultRules(), rules)
	})

	t.Run("File overrides only the fields it sets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		content := "base_size: 6\ntorch_max: 4\npursuit_interval: 250ms\nseed: 42\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		rules, err := LoadRules(path)
		require.NoError(t, err)
		assert.Equal(t, 6, rules.BaseSize)
		assert.Equal(t, 4, rules.TorchMax)
		assert.Equal(t, 250*time.Millisecond, rules.PursuitInterval)
		assert.Equal(t, int64(42), rules.Seed)
		assert.Equal(t, 2, rules.SizeIncrement)
		assert.Equal(t, time.Second, rules.IdleInterval)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base_size: [1, 2"), 0o600))

		_, err := LoadRules(path)
		assert.Error(t, err)
	})
}
