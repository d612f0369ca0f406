package progrock

import (
	"fmt"
	"sync"

	"github.com/vito/progrock"
)

// Span implements ports.Span on a Progrock vertex. The vertex completes when
// the span ends, carrying the last recorded error if any.
type Span struct {
	vertex *progrock.VertexRecorder

	mu  sync.Mutex
	err error
}

// Write streams raw output into the vertex.
func (s *Span) Write(p []byte) (n int, err error) {
	return s.vertex.Stdout().Write(p)
}

// End completes the vertex.
func (s *Span) End() {
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	s.vertex.Done(err)
}

// RecordError stores the error the vertex will complete with.
func (s *Span) RecordError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// SetAttribute renders the attribute into the vertex output.
func (s *Span) SetAttribute(key string, value any) {
	_, _ = fmt.Fprintf(s.vertex.Stdout(), "%s=%v\n", key, value)
}
