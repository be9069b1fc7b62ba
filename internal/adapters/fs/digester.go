// Package fs provides filesystem digests: the canonical sha256 tree digest
// used as the cache key for every source kind, and a cheap xxhash fingerprint
// for local-source change detection.
package fs

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/keel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Digester = (*Digester)(nil)

// Digester implements ports.Digester.
type Digester struct{}

// NewDigester creates a Digester.
func NewDigester() *Digester {
	return &Digester{}
}

// DigestFile returns the lowercase hex sha256 of a file's content.
func (d *Digester) DigestFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestTree returns the lowercase hex sha256 over a canonicalized walk of
// the tree: relative paths sorted lexically, each written as path, a
// separator, then the file content. Two trees with identical relative layout
// and bytes digest identically regardless of fetch order or timestamps.
func (d *Digester) DigestTree(root string) (string, error) {
	paths, err := regularFiles(root)
	if err != nil {
		return "", err
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, rel := range paths {
		_, _ = h.Write([]byte(rel))
		_, _ = h.Write([]byte{0})

		f, err := os.Open(filepath.Join(root, rel)) //nolint:gosec // Path produced by our own walk
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to open tree entry"), "path", rel)
		}
		if _, err := io.Copy(h, f); err != nil {
			_ = f.Close()
			return "", zerr.With(zerr.Wrap(err, "failed to hash tree entry"), "path", rel)
		}
		_ = f.Close()
		_, _ = h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fingerprint hashes a path's identity plus the modification time and size
// of every regular file under it with xxhash. It is a cheap change probe
// for local sources, not a content digest: no file bytes are read.
func (d *Digester) Fingerprint(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.Wrap(err, "failed to absolutize path")
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}

	h := xxhash.New()
	_, _ = h.WriteString(abs)
	_, _ = h.Write([]byte{0})

	if !info.IsDir() {
		writeStamp(h, info)
		return fmt.Sprintf("%016x", h.Sum64()), nil
	}

	paths, err := regularFiles(abs)
	if err != nil {
		return "", err
	}
	sort.Strings(paths)
	for _, rel := range paths {
		info, err := os.Stat(filepath.Join(abs, rel))
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to stat tree entry"), "path", rel)
		}
		_, _ = h.WriteString(rel)
		_, _ = h.Write([]byte{0})
		writeStamp(h, info)
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func writeStamp(h *xxhash.Digest, info os.FileInfo) {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(info.ModTime().UnixNano()))
	binary.LittleEndian.PutUint64(buf[8:], uint64(info.Size()))
	_, _ = h.Write(buf[:])
}

func regularFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return zerr.Wrap(err, "failed to walk tree")
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return zerr.Wrap(err, "failed to relativize path")
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, zerr.With(err, "root", root)
	}
	return paths, nil
}
