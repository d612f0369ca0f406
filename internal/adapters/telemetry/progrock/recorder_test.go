package progrock_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/warden/internal/adapters/telemetry/progrock"
)

func TestRecorder_SpanLifecycle(t *testing.T) {
	rec := progrock.New()

	_, span := rec.Start(context.Background(), "validate")
	require.NotNil(t, span)

	span.SetAttribute("attempt", 0)
	n, err := span.Write([]byte("graph TD\n"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	span.End()

	_, failed := rec.Start(context.Background(), "validate-retry")
	failed.RecordError(errors.New("invalid edge"))
	failed.End()

	assert.NoError(t, rec.Close())
}

func TestConsoleWriter_RendersSpanLifecycles(t *testing.T) {
	var buf bytes.Buffer
	rec := progrock.NewConsole(&buf)

	_, span := rec.Start(context.Background(), "validate")
	span.End()

	_, failed := rec.Start(context.Background(), "correct")
	failed.RecordError(errors.New("invalid edge"))
	failed.End()

	require.NoError(t, rec.Close())

	out := buf.String()
	assert.Contains(t, out, "▶ validate")
	assert.Contains(t, out, "✓ validate")
	assert.Contains(t, out, "✗ correct")
	assert.Contains(t, out, "invalid edge")
}
