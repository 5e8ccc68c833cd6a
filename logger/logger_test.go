package logger

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestSetup_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app", "app.log")
	require.NoError(t, Setup(Options{Level: "debug", File: file}))

	Error("reservation failed", errors.New("slot taken"), "booking_id", 7)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reservation failed")
	assert.Contains(t, string(data), "slot taken")
	assert.Contains(t, string(data), "booking_id=7")
}
