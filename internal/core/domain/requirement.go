package domain

// Requirement is one requester's declared version need for a package.
// Requirements are append-only: they accumulate per package name during
// manifest ingestion and are never mutated afterwards.
type Requirement struct {
	// Package is the name of the required package.
	Package InternedString

	// Constraint filters the acceptable versions.
	Constraint Constraint

	// RequestedBy names the requester (the project itself, or the package
	// whose metadata pulled this in transitively).
	RequestedBy InternedString
}

// ResolvedPackage is the chosen winner for a package name after one resolve
// pass. Resolved packages live only for the lifetime of that pass.
type ResolvedPackage struct {
	// Name is the package name.
	Name InternedString

	// Version is the selected version.
	Version SemanticVersion

	// URL is the artifact location, when known at resolution time.
	URL string

	// Hash is the content digest, when known at resolution time.
	Hash string

	// Dependencies lists the package names this version depends on,
	// in the order the registry metadata declares them.
	Dependencies []InternedString
}

// Conflict is a pair of mutually unsatisfiable requirements for one package.
type Conflict struct {
	Package InternedString
	First   Requirement
	Second  Requirement
}

// Dependency is a manifest-level dependency declaration: a name, where its
// content comes from, and which versions are acceptable.
type Dependency struct {
	Name       InternedString
	Source     Source
	Constraint Constraint
}

// Manifest is the ordered set of dependency declarations for a project.
type Manifest struct {
	// Name is the declaring project's name, used as the root requester.
	Name string

	// Dependencies preserves manifest declaration order.
	Dependencies []Dependency
}
