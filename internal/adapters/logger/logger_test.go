package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/warden/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger(t *testing.T) {
	l := logger.New()
	concrete, ok := l.(*logger.Logger)
	require.True(t, ok)

	var buf bytes.Buffer
	concrete.SetOutput(&buf)

	l.Info("worker spawned")
	l.Warn("health probe failed")
	l.Error(zerr.With(zerr.New("startup failed"), "exit_code", 7))

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "worker spawned")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "health probe failed")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "startup failed")
}
