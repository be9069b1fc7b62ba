package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*LineWriter)(nil)

// LineWriter renders progress as plain lines, one per completed vertex.
// It fits non-TTY runs where a live display would be noise; status updates
// for vertexes still in flight are dropped.
type LineWriter struct {
	mu   sync.Mutex
	out  io.Writer
	done map[string]bool
}

// NewLineWriter creates a LineWriter emitting to out.
func NewLineWriter(out io.Writer) *LineWriter {
	return &LineWriter{out: out, done: make(map[string]bool)}
}

// WriteStatus prints a line for each vertex completing for the first time.
func (w *LineWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, v := range update.Vertexes {
		if v.Completed == nil || w.done[v.Id] {
			continue
		}
		w.done[v.Id] = true

		switch {
		case v.Error != nil:
			fmt.Fprintf(w.out, "%s: failed: %s\n", v.Name, *v.Error)
		case v.Cached:
			fmt.Fprintf(w.out, "%s (cached)\n", v.Name)
		default:
			fmt.Fprintf(w.out, "%s: done\n", v.Name)
		}
	}
	return nil
}

// Close is a no-op; the underlying writer is owned by the caller.
func (w *LineWriter) Close() error {
	return nil
}
