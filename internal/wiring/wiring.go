// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/keel/internal/adapters/cas"
	_ "go.trai.ch/keel/internal/adapters/config"
	_ "go.trai.ch/keel/internal/adapters/fetch"
	_ "go.trai.ch/keel/internal/adapters/fs"
	_ "go.trai.ch/keel/internal/adapters/lockfile"
	_ "go.trai.ch/keel/internal/adapters/logger"
	_ "go.trai.ch/keel/internal/adapters/registry"
	_ "go.trai.ch/keel/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/keel/internal/app"
)
