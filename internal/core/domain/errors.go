package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidVersion is returned when a version string cannot be parsed.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrInvalidConstraint is returned when a constraint string cannot be parsed.
	ErrInvalidConstraint = zerr.New("invalid constraint")

	// ErrVersionConflict is returned when no version satisfies every registered
	// requirement for a package.
	ErrVersionConflict = zerr.New("version conflict")

	// ErrNoVersions is returned when the version source has no candidates for a package.
	ErrNoVersions = zerr.New("no versions available")

	// ErrCycleDetected is returned when the dependency graph contains a cycle.
	ErrCycleDetected = zerr.New("circular dependency detected")

	// ErrNotCached is returned when a hash is not present in the artifact store.
	ErrNotCached = zerr.New("artifact not cached")

	// ErrHashMismatch is returned when a fetched artifact does not match its declared hash.
	ErrHashMismatch = zerr.New("hash mismatch")

	// ErrUnknownSource is returned when a manifest declares an unrecognized source kind.
	ErrUnknownSource = zerr.New("unknown dependency source")

	// ErrDuplicateDependency is returned when a manifest or lockfile declares
	// the same package name twice.
	ErrDuplicateDependency = zerr.New("duplicate dependency")

	// ErrPackageNotFound is returned when a package is missing from the registry index.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrConflictsDetected is returned when pairwise conflict detection finds
	// incompatible requirements; the conflicts ride along as structured data.
	ErrConflictsDetected = zerr.New("conflicting requirements detected")

	// ErrPolicyRejected is returned when the policy audit fails for the
	// dependency set being installed.
	ErrPolicyRejected = zerr.New("policy rejected dependencies")
)
