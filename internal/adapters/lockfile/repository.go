// Package lockfile persists lockfiles as YAML with deterministic entry order.
package lockfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.LockfileRepository = (*Repository)(nil)

// Filename is the default lockfile name.
const Filename = "keel.lock"

// Repository reads and writes lockfiles.
type Repository struct{}

// NewRepository creates a Repository.
func NewRepository() *Repository {
	return &Repository{}
}

type lockfileDoc struct {
	Version  int        `yaml:"version"`
	Packages []entryDTO `yaml:"packages"`
}

type entryDTO struct {
	Name         string         `yaml:"name"`
	Version      string         `yaml:"version"`
	Hash         string         `yaml:"hash"`
	Source       string         `yaml:"source"`
	Commit       string         `yaml:"commit,omitempty"`
	Fingerprint  string         `yaml:"fingerprint,omitempty"`
	Dependencies []string       `yaml:"dependencies,omitempty"`
	Provenance   *provenanceDTO `yaml:"provenance,omitempty"`
}

type provenanceDTO struct {
	Origin    string    `yaml:"origin"`
	Digest    string    `yaml:"digest"`
	FetchedAt time.Time `yaml:"fetched_at"`
	SizeBytes int64     `yaml:"size_bytes"`
}

// Load reads the lockfile at path. A missing file yields an empty lockfile;
// any other I/O or parse failure propagates. A duplicate package name in the
// file is a parse failure.
func (r *Repository) Load(path string) (*domain.Lockfile, error) {
	lock := domain.NewLockfile()

	data, err := os.ReadFile(path) //nolint:gosec // Path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lock, nil
		}
		return nil, zerr.Wrap(err, "failed to read lockfile")
	}

	var doc lockfileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, "failed to parse lockfile")
	}
	if doc.Version != 0 {
		lock.Version = doc.Version
	}

	for _, dto := range doc.Packages {
		if err := lock.Add(toEntry(dto)); err != nil {
			return nil, err
		}
	}

	return lock, nil
}

// Save writes the lockfile atomically: entries name-sorted into a temp file
// in the target directory, then a single rename over path.
func (r *Repository) Save(path string, lock *domain.Lockfile) error {
	doc := lockfileDoc{Version: lock.Version}
	for _, entry := range lock.Entries() {
		doc.Packages = append(doc.Packages, toDTO(entry))
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal lockfile")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create lockfile directory")
	}

	tmp, err := os.CreateTemp(dir, ".keel.lock-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary lockfile")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write lockfile")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temporary lockfile")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return zerr.Wrap(err, "failed to set lockfile permissions")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "failed to commit lockfile")
	}
	return nil
}

// Stale reports whether the lockfile at lockPath is older than the manifest
// at manifestPath. A missing lockfile is stale; a missing manifest is not.
func (r *Repository) Stale(lockPath, manifestPath string) (bool, error) {
	lockInfo, err := os.Stat(lockPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, zerr.Wrap(err, "failed to stat lockfile")
	}

	manifestInfo, err := os.Stat(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.Wrap(err, "failed to stat manifest")
	}

	return lockInfo.ModTime().Before(manifestInfo.ModTime()), nil
}

func toEntry(dto entryDTO) domain.LockfileEntry {
	entry := domain.LockfileEntry{
		Name:         dto.Name,
		Version:      dto.Version,
		Hash:         dto.Hash,
		Source:       dto.Source,
		Commit:       dto.Commit,
		Fingerprint:  dto.Fingerprint,
		Dependencies: dto.Dependencies,
	}
	if dto.Provenance != nil {
		entry.Provenance = &domain.Provenance{
			Origin:    dto.Provenance.Origin,
			Digest:    dto.Provenance.Digest,
			FetchedAt: dto.Provenance.FetchedAt,
			SizeBytes: dto.Provenance.SizeBytes,
		}
	}
	return entry
}

func toDTO(entry domain.LockfileEntry) entryDTO {
	dto := entryDTO{
		Name:         entry.Name,
		Version:      entry.Version,
		Hash:         entry.Hash,
		Source:       entry.Source,
		Commit:       entry.Commit,
		Fingerprint:  entry.Fingerprint,
		Dependencies: entry.Dependencies,
	}
	if entry.Provenance != nil {
		dto.Provenance = &provenanceDTO{
			Origin:    entry.Provenance.Origin,
			Digest:    entry.Provenance.Digest,
			FetchedAt: entry.Provenance.FetchedAt,
			SizeBytes: entry.Provenance.SizeBytes,
		}
	}
	return dto
}
