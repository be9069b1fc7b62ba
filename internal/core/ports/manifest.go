package ports

import "go.trai.ch/keel/internal/core/domain"

// ManifestLoader reads the project manifest from a working directory and
// yields its dependency declarations in declaration order.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestLoader interface {
	Load(cwd string) (*domain.Manifest, error)
}

// PolicyLoader reads the audit policy from a working directory. A missing
// policy file yields an empty policy.
type PolicyLoader interface {
	LoadPolicy(cwd string) (domain.Policy, error)
}
