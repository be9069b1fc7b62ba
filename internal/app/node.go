package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keel/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/keel/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/keel/internal/adapters/fetch"     //nolint:depguard // Wired in app layer
	"go.trai.ch/keel/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/keel/internal/adapters/lockfile"  //nolint:depguard // Wired in app layer
	"go.trai.ch/keel/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/keel/internal/adapters/registry"  //nolint:depguard // Wired in app layer
	"go.trai.ch/keel/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/keel/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles the app with the adapters the CLI needs directly.
type Components struct {
	App    *App
	Logger ports.Logger
	Tracer ports.Tracer
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.PolicyNodeID,
			registry.NodeID,
			fetch.NodeID,
			cas.NodeID,
			lockfile.NodeID,
			fs.DigesterNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: application, Logger: log, Tracer: tracer}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	manifests, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}
	policies, err := graft.Dep[ports.PolicyLoader](ctx)
	if err != nil {
		return nil, err
	}
	opener, err := graft.Dep[ports.RegistryOpener](ctx)
	if err != nil {
		return nil, err
	}
	fetcher, err := graft.Dep[ports.Fetcher](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.ArtifactStore](ctx)
	if err != nil {
		return nil, err
	}
	locks, err := graft.Dep[ports.LockfileRepository](ctx)
	if err != nil {
		return nil, err
	}
	digester, err := graft.Dep[ports.Digester](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(manifests, policies, opener, fetcher, store, locks, digester, log, tracer), nil
}
