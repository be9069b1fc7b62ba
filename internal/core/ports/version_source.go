// Package ports defines the interfaces between the resolution core and its
// adapters.
package ports

import (
	"context"

	"go.trai.ch/keel/internal/core/domain"
)

// VersionSource provides the candidate version set for a package. The
// resolver queries it when selecting the winner for each package name.
//
//go:generate mockgen -source=version_source.go -destination=mocks/mock_version_source.go -package=mocks
type VersionSource interface {
	// Versions returns every known version of the named package, in any order.
	Versions(ctx context.Context, name string) ([]domain.SemanticVersion, error)
}
