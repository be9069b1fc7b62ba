// Package cas implements the content-addressed artifact store.
package cas

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactStore = (*Store)(nil)

// Store keeps immutable artifact directories under
// <root>/deps/<hash[0:2]>/<hash[2:4]>/<hash>. The two-level fan-out bounds
// directory size; the hash is the lowercase hex of a 256-bit content digest.
//
// Store and Retrieve are safe under concurrent multi-process use: identical
// hashes write identical content and land via rename, and distinct hashes
// touch disjoint paths. Clean must be serialized externally against active
// fetch sessions on the same root.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given cache directory.
func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) slot(hash string) (string, error) {
	if len(hash) < 4 || !isLowerHex(hash) {
		return "", zerr.With(zerr.New("malformed cache key"), "hash", hash)
	}
	return filepath.Join(s.root, "deps", hash[0:2], hash[2:4], hash), nil
}

func isLowerHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// IsCached reports whether the hash slot exists. It is a directory-existence
// check only; Verify does content inspection.
func (s *Store) IsCached(hash string) bool {
	slot, err := s.slot(hash)
	if err != nil {
		return false
	}
	info, err := os.Stat(slot)
	return err == nil && info.IsDir()
}

// Store copies srcDir into the slot for hash. Repeated calls with the same
// hash are no-ops: identical hashes are assumed to denote identical content.
// The copy is staged next to the slot and moved in with a single rename, so
// a concurrent writer of the same hash cannot expose a partial artifact.
func (s *Store) Store(hash, srcDir string) error {
	slot, err := s.slot(hash)
	if err != nil {
		return err
	}
	if s.IsCached(hash) {
		return nil
	}

	parent := filepath.Dir(slot)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create cache fan-out directory")
	}

	stage, err := os.MkdirTemp(parent, "."+hash[:8]+"-stage-")
	if err != nil {
		return zerr.Wrap(err, "failed to create staging directory")
	}
	defer os.RemoveAll(stage) //nolint:errcheck // Stage is gone after a successful rename

	if err := copyTree(srcDir, stage); err != nil {
		return zerr.With(err, "hash", hash)
	}

	if err := os.Rename(stage, slot); err != nil {
		// A concurrent store of the same hash won the rename.
		if s.IsCached(hash) {
			return nil
		}
		return zerr.Wrap(err, "failed to commit artifact into cache")
	}
	return nil
}

// Retrieve copies the cached artifact for hash into destDir.
func (s *Store) Retrieve(hash, destDir string) error {
	slot, err := s.slot(hash)
	if err != nil {
		return err
	}
	if !s.IsCached(hash) {
		return zerr.With(domain.ErrNotCached, "hash", hash)
	}
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create destination directory")
	}
	if err := copyTree(slot, destDir); err != nil {
		return zerr.With(err, "hash", hash)
	}
	return nil
}

// Clean is mark-and-sweep garbage collection: every stored hash not present
// in keep is deleted. It returns the removed hashes sorted.
func (s *Store) Clean(keep map[string]struct{}) ([]string, error) {
	var removed []string

	for _, hash := range s.list() {
		if _, keepIt := keep[hash]; keepIt {
			continue
		}
		slot, err := s.slot(hash)
		if err != nil {
			continue
		}
		if err := os.RemoveAll(slot); err != nil {
			return removed, zerr.With(zerr.Wrap(err, "failed to remove cache entry"), "hash", hash)
		}
		removed = append(removed, hash)
	}

	slices.Sort(removed)
	return removed, nil
}

// Verify walks every stored file and confirms it can be read back in full.
// Unreadable paths are reported, never repaired.
func (s *Store) Verify() ([]string, error) {
	depsRoot := filepath.Join(s.root, "deps")
	if _, err := os.Stat(depsRoot); os.IsNotExist(err) {
		return nil, nil
	}

	var corrupted []string
	err := filepath.WalkDir(depsRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			corrupted = append(corrupted, path)
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !readable(path) {
			corrupted = append(corrupted, path)
		}
		return nil
	})
	if err != nil {
		return corrupted, zerr.Wrap(err, "cache integrity walk failed")
	}
	return corrupted, nil
}

// list returns every stored hash by walking the two fan-out levels.
func (s *Store) list() []string {
	var hashes []string

	depsRoot := filepath.Join(s.root, "deps")
	level1, err := os.ReadDir(depsRoot)
	if err != nil {
		return nil
	}
	for _, d1 := range level1 {
		if !d1.IsDir() {
			continue
		}
		level2, err := os.ReadDir(filepath.Join(depsRoot, d1.Name()))
		if err != nil {
			continue
		}
		for _, d2 := range level2 {
			if !d2.IsDir() {
				continue
			}
			slots, err := os.ReadDir(filepath.Join(depsRoot, d1.Name(), d2.Name()))
			if err != nil {
				continue
			}
			for _, slot := range slots {
				if slot.IsDir() && !strings.HasPrefix(slot.Name(), ".") {
					hashes = append(hashes, slot.Name())
				}
			}
		}
	}

	return hashes
}

func readable(path string) bool {
	f, err := os.Open(path) //nolint:gosec // Paths come from walking our own root
	if err != nil {
		return false
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	_, err = io.Copy(io.Discard, f)
	return err == nil
}

// copyTree recursively copies the contents of src into dst, preserving file
// modes. dst must already exist.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return zerr.Wrap(err, "failed to walk source tree")
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return zerr.Wrap(err, "failed to relativize path")
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return zerr.Wrap(err, "failed to stat source entry")
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case d.Type().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			// Symlinks and other special files are not cacheable content.
			return nil
		}
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src) //nolint:gosec // Path is produced by our own walk
	if err != nil {
		return zerr.Wrap(err, "failed to open source file")
	}
	defer in.Close() //nolint:errcheck // Read-only handle

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) //nolint:gosec // Destination is under our control
	if err != nil {
		return zerr.Wrap(err, "failed to create destination file")
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.Wrap(err, "failed to copy file content")
	}
	return out.Close()
}
