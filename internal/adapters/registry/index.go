// Package registry serves package metadata from a local YAML index file.
// No registry wire protocol exists upstream, so the index is the candidate
// source for the resolver and the artifact locator for the fetcher.
package registry

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	_ ports.Registry       = (*Index)(nil)
	_ ports.RegistryOpener = (*Opener)(nil)
)

// IndexFilename is the registry index expected in a project directory when
// KEEL_REGISTRY is unset.
const IndexFilename = "registry.yaml"

// Opener loads registry indexes per project directory. The index lives next
// to the manifest unless KEEL_REGISTRY points elsewhere, so it has to be
// resolved against the directory an operation runs in rather than the
// process working directory.
type Opener struct{}

func NewOpener() *Opener { return &Opener{} }

func (o *Opener) Open(cwd string) (ports.Registry, error) {
	path := os.Getenv(IndexPathEnv)
	if path == "" {
		path = filepath.Join(cwd, IndexFilename)
	}
	return LoadIndex(path)
}

// Index is an in-memory registry index loaded once from disk.
type Index struct {
	packages map[string][]Release
}

// Release is one published version of a package in the index.
type Release struct {
	Version      string               `yaml:"version"`
	URL          string               `yaml:"url,omitempty"`
	Hash         string               `yaml:"hash,omitempty"`
	Dependencies map[string]string    `yaml:"dependencies,omitempty"`
	depOrder     []string             // declaration order of Dependencies
	parsed       domain.SemanticVersion
}

type indexFile struct {
	Packages map[string][]releaseDTO `yaml:"packages"`
}

type releaseDTO struct {
	Version      string    `yaml:"version"`
	URL          string    `yaml:"url,omitempty"`
	Hash         string    `yaml:"hash,omitempty"`
	Dependencies yaml.Node `yaml:"dependencies,omitempty"`
}

// LoadIndex reads a registry index file. A missing file yields an empty
// index; parse failures propagate.
func LoadIndex(path string) (*Index, error) {
	idx := &Index{packages: make(map[string][]Release)}

	data, err := os.ReadFile(path) //nolint:gosec // Path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx, nil
		}
		return nil, zerr.Wrap(err, "failed to read registry index")
	}

	var file indexFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse registry index")
	}

	for name, dtos := range file.Packages {
		releases := make([]Release, 0, len(dtos))
		for _, dto := range dtos {
			rel, err := toRelease(dto)
			if err != nil {
				return nil, zerr.With(err, "package", name)
			}
			releases = append(releases, rel)
		}
		idx.packages[name] = releases
	}

	return idx, nil
}

func toRelease(dto releaseDTO) (Release, error) {
	parsed, err := domain.ParseVersion(dto.Version)
	if err != nil {
		return Release{}, err
	}

	rel := Release{
		Version: dto.Version,
		URL:     dto.URL,
		Hash:    dto.Hash,
		parsed:  parsed,
	}

	// Decode the dependency mapping through yaml.Node so declaration order
	// survives into depOrder.
	if dto.Dependencies.Kind == yaml.MappingNode {
		rel.Dependencies = make(map[string]string, len(dto.Dependencies.Content)/2)
		for i := 0; i+1 < len(dto.Dependencies.Content); i += 2 {
			key := dto.Dependencies.Content[i].Value
			rel.Dependencies[key] = dto.Dependencies.Content[i+1].Value
			rel.depOrder = append(rel.depOrder, key)
		}
	}

	return rel, nil
}

// Versions returns every published version of the named package.
func (i *Index) Versions(_ context.Context, name string) ([]domain.SemanticVersion, error) {
	releases, ok := i.packages[name]
	if !ok {
		return nil, zerr.With(domain.ErrPackageNotFound, "package", name)
	}
	versions := make([]domain.SemanticVersion, len(releases))
	for idx, rel := range releases {
		versions[idx] = rel.parsed
	}
	return versions, nil
}

// Locate returns the archive URL and declared digest for name@version.
func (i *Index) Locate(name, version string) (string, string, error) {
	rel, err := i.release(name, version)
	if err != nil {
		return "", "", err
	}
	return rel.URL, rel.Hash, nil
}

// DependenciesOf returns the declared dependencies of name@version in
// declaration order.
func (i *Index) DependenciesOf(name, version string) ([]ports.DeclaredDependency, error) {
	rel, err := i.release(name, version)
	if err != nil {
		return nil, err
	}
	deps := make([]ports.DeclaredDependency, 0, len(rel.depOrder))
	for _, dep := range rel.depOrder {
		deps = append(deps, ports.DeclaredDependency{Name: dep, Constraint: rel.Dependencies[dep]})
	}
	return deps, nil
}

func (i *Index) release(name, version string) (Release, error) {
	releases, ok := i.packages[name]
	if !ok {
		return Release{}, zerr.With(domain.ErrPackageNotFound, "package", name)
	}
	for _, rel := range releases {
		if rel.Version == version {
			return rel, nil
		}
	}
	err := zerr.With(domain.ErrPackageNotFound, "package", name)
	return Release{}, zerr.With(err, "version", version)
}
