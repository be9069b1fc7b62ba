// Package config loads the keel.yaml manifest and the keel.policy.yaml
// audit policy.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ManifestFilename is the manifest file name looked up in the working directory.
const ManifestFilename = "keel.yaml"

// PolicyFilename is the policy file name looked up in the working directory.
const PolicyFilename = "keel.policy.yaml"

var (
	_ ports.ManifestLoader = (*FileLoader)(nil)
	_ ports.PolicyLoader   = (*FileLoader)(nil)
)

// FileLoader implements ports.ManifestLoader and ports.PolicyLoader from
// YAML files in a working directory.
type FileLoader struct{}

// NewFileLoader creates a FileLoader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads the manifest from cwd. Dependency declaration order in the file
// is preserved in the returned manifest.
func (l *FileLoader) Load(cwd string) (*domain.Manifest, error) {
	path := filepath.Join(cwd, ManifestFilename)
	data, err := os.ReadFile(path) //nolint:gosec // Path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read manifest")
	}
	return parseManifest(data)
}

// LoadPolicy reads the policy from cwd. A missing policy file is treated as
// an empty policy; any other failure propagates.
func (l *FileLoader) LoadPolicy(cwd string) (domain.Policy, error) {
	path := filepath.Join(cwd, PolicyFilename)
	data, err := os.ReadFile(path) //nolint:gosec // Path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Policy{}, nil
		}
		return domain.Policy{}, zerr.Wrap(err, "failed to read policy file")
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Policy{}, zerr.Wrap(err, "failed to parse policy file")
	}

	return domain.Policy{
		Allow:       file.Allow,
		Deny:        file.Deny,
		RequireHash: file.RequireHash,
	}, nil
}

func parseManifest(data []byte) (*domain.Manifest, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}

	// A plain map would shuffle declaration order, so the dependencies
	// section is walked as a yaml.Node mapping.
	var doc struct {
		Dependencies yaml.Node `yaml:"dependencies"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}

	manifest := &domain.Manifest{Name: file.Name}
	if manifest.Name == "" {
		manifest.Name = "project"
	}

	if doc.Dependencies.Kind == 0 {
		return manifest, nil
	}
	if doc.Dependencies.Kind != yaml.MappingNode {
		return nil, zerr.New("manifest dependencies must be a mapping")
	}

	seen := make(map[string]bool)
	content := doc.Dependencies.Content
	for i := 0; i+1 < len(content); i += 2 {
		name := content[i].Value
		if seen[name] {
			return nil, zerr.With(domain.ErrDuplicateDependency, "package", name)
		}
		seen[name] = true

		var dto DependencyDTO
		if err := content[i+1].Decode(&dto); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse dependency"), "package", name)
		}

		dep, err := toDependency(name, dto)
		if err != nil {
			return nil, err
		}
		manifest.Dependencies = append(manifest.Dependencies, dep)
	}

	return manifest, nil
}

func toDependency(name string, dto DependencyDTO) (domain.Dependency, error) {
	constraint, err := domain.ParseConstraint(dto.Version)
	if err != nil {
		return domain.Dependency{}, zerr.With(err, "package", name)
	}

	var source domain.Source
	switch domain.SourceKind(dto.Source) {
	case domain.SourceGit:
		source = domain.GitSource(dto.URL, dto.Ref)
	case domain.SourceArchive:
		source = domain.ArchiveSource(dto.URL, dto.Hash)
	case domain.SourceLocal:
		source = domain.LocalSource(dto.Path)
	case domain.SourceRegistry, "":
		// Registry is the default when only a version constraint is given.
		source = domain.RegistrySource()
		source.Hash = dto.Hash
	case domain.SourceHosted:
		source = domain.HostedSource(dto.Owner, dto.Repo, dto.Ref)
	default:
		err := zerr.With(domain.ErrUnknownSource, "package", name)
		return domain.Dependency{}, zerr.With(err, "source", dto.Source)
	}

	return domain.Dependency{
		Name:       domain.NewInternedString(name),
		Source:     source,
		Constraint: constraint,
	}, nil
}
