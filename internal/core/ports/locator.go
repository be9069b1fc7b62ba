package ports

// ArtifactLocator maps a registry package at an exact version to its archive
// location and declared digest.
//
//go:generate mockgen -source=locator.go -destination=mocks/mock_locator.go -package=mocks
type ArtifactLocator interface {
	// Locate returns the archive URL and declared digest for name@version.
	Locate(name, version string) (url, hash string, err error)

	// DependenciesOf returns the declared dependency names and constraints
	// for name@version, in declaration order.
	DependenciesOf(name, version string) ([]DeclaredDependency, error)
}

// DeclaredDependency is one edge in registry metadata: a package needs
// another package under a constraint expression.
type DeclaredDependency struct {
	Name       string
	Constraint string
}

// Registry is the full read surface of one registry index: candidate
// versions for the resolver plus artifact locations and declared
// transitive metadata.
type Registry interface {
	VersionSource
	ArtifactLocator
}

// RegistryOpener resolves and loads the registry index for a project
// directory. The index is a per-project surface like the manifest, so it
// must be opened against the directory an operation runs in, not the
// process working directory.
type RegistryOpener interface {
	Open(cwd string) (Registry, error)
}
