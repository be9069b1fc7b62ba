package cas

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/keel/internal/core/ports"
	"go.trai.ch/zerr"
)

const NodeID graft.ID = "adapter.artifact_store"

// CacheRootEnv overrides the default cache root location.
const CacheRootEnv = "KEEL_CACHE_DIR"

func init() {
	graft.Register(graft.Node[ports.ArtifactStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ArtifactStore, error) {
			root, err := defaultRoot()
			if err != nil {
				return nil, err
			}
			return NewStore(root), nil
		},
	})
}

func defaultRoot() (string, error) {
	if dir := os.Getenv(CacheRootEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", zerr.Wrap(err, "failed to locate user cache directory")
	}
	return filepath.Join(base, "keel"), nil
}
