package registry

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/keel/internal/core/ports"
)

const NodeID graft.ID = "adapter.registry_index"

// IndexPathEnv overrides the default registry index location.
const IndexPathEnv = "KEEL_REGISTRY"

func init() {
	graft.Register(graft.Node[ports.RegistryOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.RegistryOpener, error) {
			return NewOpener(), nil
		},
	})
}
