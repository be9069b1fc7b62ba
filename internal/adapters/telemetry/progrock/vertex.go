package progrock

import "github.com/vito/progrock"

// Vertex wraps *progrock.VertexRecorder as a ports.Vertex.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Complete marks the vertex as finished.
func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}

// Cached marks the vertex as a cache hit and finishes it. A cache hit is
// terminal for a fetch, so the completion stamp lands here.
func (v *Vertex) Cached() {
	v.vertex.Cached()
	v.vertex.Done(nil)
}
