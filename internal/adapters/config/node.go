package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keel/internal/core/ports"
)

const (
	NodeID       graft.ID = "adapter.manifest_loader"
	PolicyNodeID graft.ID = "adapter.policy_loader"
)

func init() {
	graft.Register(graft.Node[ports.ManifestLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ManifestLoader, error) {
			return NewFileLoader(), nil
		},
	})

	graft.Register(graft.Node[ports.PolicyLoader]{
		ID:        PolicyNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.PolicyLoader, error) {
			return NewFileLoader(), nil
		},
	})
}
