package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	keelprogrock "go.trai.ch/keel/internal/adapters/telemetry/progrock"
	"go.trai.ch/keel/internal/core/ports"
)

const TracerNodeID graft.ID = "adapter.telemetry.tracer"

// ProgressEnv selects the live progrock progress display when set to "1".
const ProgressEnv = "KEEL_PROGRESS"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Tracer, error) {
			if os.Getenv(ProgressEnv) == "1" {
				return keelprogrock.New(), nil
			}
			return NewNoop(), nil
		},
	})
}
