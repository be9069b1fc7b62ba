package domain

import (
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// CurrentLockfileVersion is the lockfile format version written by this build.
const CurrentLockfileVersion = 1

// Provenance records where a locked artifact came from, for supply-chain audit.
type Provenance struct {
	// Origin is the URL or path the artifact was fetched from.
	Origin string

	// Digest is the content digest computed at fetch time.
	Digest string

	// FetchedAt is when the artifact was fetched.
	FetchedAt time.Time

	// SizeBytes is the total artifact size on disk.
	SizeBytes int64
}

// LockfileEntry pins one dependency to an exact version, digest and source.
type LockfileEntry struct {
	Name         string
	Version      string
	Hash         string
	Source       string
	Commit       string
	// Fingerprint is the stat fingerprint of a local source directory at
	// fetch time. Empty for every other source kind.
	Fingerprint  string
	Dependencies []string
	Provenance   *Provenance
}

// Lockfile is the persisted record of one complete resolution. It is loaded
// once per session, mutated in memory, and saved atomically at session end.
type Lockfile struct {
	// Version is the lockfile format version, for schema migration.
	Version int

	packages map[string]LockfileEntry
}

// NewLockfile creates an empty lockfile at the current format version.
func NewLockfile() *Lockfile {
	return &Lockfile{
		Version:  CurrentLockfileVersion,
		packages: make(map[string]LockfileEntry),
	}
}

// Put inserts or replaces the entry for its package name.
func (l *Lockfile) Put(entry LockfileEntry) {
	l.packages[entry.Name] = entry
}

// Add inserts an entry and fails if the name is already present. Used when
// ingesting an on-disk lockfile, which must never hold duplicate names.
func (l *Lockfile) Add(entry LockfileEntry) error {
	if _, exists := l.packages[entry.Name]; exists {
		return zerr.With(ErrDuplicateDependency, "package", entry.Name)
	}
	l.packages[entry.Name] = entry
	return nil
}

// Get returns the entry for a package name, if present.
func (l *Lockfile) Get(name string) (LockfileEntry, bool) {
	e, ok := l.packages[name]
	return e, ok
}

// Len returns the number of locked packages.
func (l *Lockfile) Len() int {
	return len(l.packages)
}

// Entries returns all entries sorted by package name. Serialization must
// never leak map iteration order, so this is the only way out.
func (l *Lockfile) Entries() []LockfileEntry {
	entries := make([]LockfileEntry, 0, len(l.packages))
	for _, e := range l.packages {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b LockfileEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}

// HashSet returns the set of content digests referenced by the lockfile.
// This is the keep set for cache garbage collection.
func (l *Lockfile) HashSet() map[string]struct{} {
	set := make(map[string]struct{}, len(l.packages))
	for _, e := range l.packages {
		if e.Hash != "" {
			set[e.Hash] = struct{}{}
		}
	}
	return set
}
