// Package progrock renders validation attempts as Progrock vertices, giving
// interactive runs a live progress view.
package progrock

import (
	"context"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/warden/internal/core/ports"
)

// Recorder implements ports.Tracer on a Progrock tape.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewConsole creates a Recorder rendering plain-text progress lines to w.
func NewConsole(w io.Writer) *Recorder {
	return NewRecorder(NewConsoleWriter(w))
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Start implements ports.Tracer by opening a vertex named after the span.
func (r *Recorder) Start(ctx context.Context, name string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	d := digest.FromString(name)
	v := r.rec.Vertex(d, name)
	return ctx, &Span{vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
