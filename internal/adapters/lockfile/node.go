package lockfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keel/internal/core/ports"
)

const NodeID graft.ID = "adapter.lockfile_repository"

func init() {
	graft.Register(graft.Node[ports.LockfileRepository]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.LockfileRepository, error) {
			return NewRepository(), nil
		},
	})
}
