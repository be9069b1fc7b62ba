package fetch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/keel/internal/adapters/fs"
	"go.trai.ch/keel/internal/core/ports"
)

const NodeID graft.ID = "adapter.fetcher"

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.DigesterNodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			digester, err := graft.Dep[ports.Digester](ctx)
			if err != nil {
				return nil, err
			}
			return New(digester, filepath.Join(os.TempDir(), "keel-stage")), nil
		},
	})
}
