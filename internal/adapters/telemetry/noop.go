// Package telemetry provides progress recording behind ports.Tracer: a noop
// tracer for quiet runs and a progrock-backed recorder for live progress.
package telemetry

import (
	"context"

	"go.trai.ch/keel/internal/core/ports"
)

var _ ports.Tracer = (*Noop)(nil)

// Noop is a Tracer that records nothing.
type Noop struct{}

// NewNoop creates a Noop tracer.
func NewNoop() *Noop {
	return &Noop{}
}

// Start returns the context unchanged and a vertex that ignores everything.
func (n *Noop) Start(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close is a no-op.
func (n *Noop) Close() error {
	return nil
}

type noopVertex struct{}

func (noopVertex) Complete(error) {}
func (noopVertex) Cached()       {}
