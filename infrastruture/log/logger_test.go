package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/beka-birhanu/torchmaze/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("GAME", config.ColorCyan, &buf)
	require.NoError(t, err)

	l.Info("stage cleared")
	l.Warning("slow subscriber")
	l.Error("caught")

	out := buf.String()
	assert.Contains(t, out, "[GAME]")
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "stage cleared")
	assert.Contains(t, out, "[WARNING]")
	assert.Contains(t, out, "[ERROR]")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		l := Discard()
		l.Info("dropped")
		l.Warning("dropped")
		l.Error("dropped")
	})
}

func TestNewValidation(t *testing.T) {
	_, err := New("", config.ColorCyan, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("APP", config.ColorCyan, nil)
	assert.Error(t, err)
}
