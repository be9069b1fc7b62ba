package ports

import "go.trai.ch/keel/internal/core/domain"

// LockfileRepository persists lockfiles.
//
//go:generate mockgen -source=lockfile.go -destination=mocks/mock_lockfile.go -package=mocks
type LockfileRepository interface {
	// Load reads the lockfile at path. A missing file yields an empty
	// lockfile; any other I/O or parse failure propagates.
	Load(path string) (*domain.Lockfile, error)

	// Save writes the lockfile atomically, entries in name-sorted order so
	// diffs across runs stay meaningful.
	Save(path string, lock *domain.Lockfile) error

	// Stale reports whether the lockfile at lockPath is older than the
	// manifest at manifestPath (drift detection by modification time).
	Stale(lockPath, manifestPath string) (bool, error)
}
