// Package domain contains the core domain models for dependency resolution:
// semantic versions, constraints, requirements, the dependency graph,
// the lockfile and the audit policy.
package domain

import (
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// SemanticVersion is a parsed MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD] version.
// It is immutable once parsed.
type SemanticVersion struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
}

// ParseVersion parses a semantic version string. All three numeric components
// are mandatory; prerelease and build metadata are kept as opaque strings.
func ParseVersion(s string) (SemanticVersion, error) {
	var v SemanticVersion

	rest := s
	if idx := strings.IndexByte(rest, '+'); idx >= 0 {
		v.Build = rest[idx+1:]
		rest = rest[:idx]
	}
	if idx := strings.IndexByte(rest, '-'); idx >= 0 {
		v.Prerelease = rest[idx+1:]
		rest = rest[:idx]
	}

	parts := strings.Split(rest, ".")
	if len(parts) != 3 {
		return SemanticVersion{}, zerr.With(ErrInvalidVersion, "version", s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (len(p) > 1 && p[0] == '0') {
			return SemanticVersion{}, zerr.With(ErrInvalidVersion, "version", s)
		}
		nums[i] = n
	}

	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

// MustParseVersion parses a version string and panics on failure.
// Intended for literals in tests and wiring code.
func MustParseVersion(s string) SemanticVersion {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String formats the version back into its canonical form, so that
// ParseVersion(v.String()) round-trips.
func (v SemanticVersion) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		b.WriteByte('-')
		b.WriteString(v.Prerelease)
	}
	if v.Build != "" {
		b.WriteByte('+')
		b.WriteString(v.Build)
	}
	return b.String()
}

// Compare orders two versions. It returns a negative number if v < other,
// zero if equal, and a positive number if v > other.
//
// Order is by the numeric triple first. At an equal triple a release sorts
// above any prerelease, and two prereleases fall back to plain lexical string
// order. Build metadata never participates in ordering.
func (v SemanticVersion) Compare(other SemanticVersion) int {
	if c := v.Major - other.Major; c != 0 {
		return c
	}
	if c := v.Minor - other.Minor; c != 0 {
		return c
	}
	if c := v.Patch - other.Patch; c != 0 {
		return c
	}

	switch {
	case v.Prerelease == "" && other.Prerelease == "":
		return 0
	case v.Prerelease == "":
		return 1
	case other.Prerelease == "":
		return -1
	default:
		return strings.Compare(v.Prerelease, other.Prerelease)
	}
}

// Equal reports whether two versions compare as equal.
func (v SemanticVersion) Equal(other SemanticVersion) bool {
	return v.Compare(other) == 0
}

// Less reports whether v orders strictly before other.
func (v SemanticVersion) Less(other SemanticVersion) bool {
	return v.Compare(other) < 0
}
