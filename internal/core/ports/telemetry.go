package ports

import "context"

// Tracer records units of work (one vertex per fetched dependency) for
// progress rendering.
//
//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Tracer interface {
	// Start begins recording a vertex with the given display name.
	Start(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is one recorded unit of work.
type Vertex interface {
	// Complete marks the vertex finished, with err nil on success.
	Complete(err error)

	// Cached marks the vertex as a cache hit.
	Cached()
}
