package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

// ConsoleWriter renders vertex updates as plain text lines, one per state
// change. It is the progress surface for terminal runs.
type ConsoleWriter struct {
	mu   sync.Mutex
	w    io.Writer
	seen map[string]bool
	done map[string]bool
}

// NewConsoleWriter creates a ConsoleWriter rendering to w.
func NewConsoleWriter(w io.Writer) *ConsoleWriter {
	return &ConsoleWriter{
		w:    w,
		seen: make(map[string]bool),
		done: make(map[string]bool),
	}
}

// Close implements progrock.Writer.
func (c *ConsoleWriter) Close() error { return nil }

// WriteStatus implements progrock.Writer.
func (c *ConsoleWriter) WriteStatus(update *progrock.StatusUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range update.Vertexes {
		if !c.seen[v.Id] {
			c.seen[v.Id] = true
			_, _ = fmt.Fprintf(c.w, "▶ %s\n", v.Name)
		}
		if v.Completed == nil || c.done[v.Id] {
			continue
		}
		c.done[v.Id] = true
		if v.Error != nil {
			_, _ = fmt.Fprintf(c.w, "✗ %s: %s\n", v.Name, *v.Error)
		} else {
			_, _ = fmt.Fprintf(c.w, "✓ %s\n", v.Name)
		}
	}
	return nil
}
