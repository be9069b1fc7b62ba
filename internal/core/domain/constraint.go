package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// ConstraintKind discriminates the constraint variants. Constraint is a
// closed sum type; Kind decides which payload fields are meaningful.
type ConstraintKind int

const (
	// ConstraintAny accepts every version.
	ConstraintAny ConstraintKind = iota
	// ConstraintExact accepts only a version equal to Version.
	ConstraintExact
	// ConstraintGt accepts versions strictly above Version.
	ConstraintGt
	// ConstraintGte accepts versions at or above Version.
	ConstraintGte
	// ConstraintLt accepts versions strictly below Version.
	ConstraintLt
	// ConstraintLte accepts versions at or below Version.
	ConstraintLte
	// ConstraintCaret accepts versions compatible with Version under caret
	// semantics (locked at the first non-zero leading component).
	ConstraintCaret
	// ConstraintTilde accepts versions at or above Version with the same
	// major.minor.
	ConstraintTilde
	// ConstraintRange accepts versions between Version and Max, both inclusive.
	ConstraintRange
	// ConstraintWildcard accepts versions matching WildMajor and, when set,
	// WildMinor.
	ConstraintWildcard
)

// Constraint is a predicate over semantic versions.
//
// Version is the lower bound or pivot for every kind except Any and Wildcard.
// Max is only meaningful for Range. WildMinor is -1 when the wildcard pins
// the major component only.
type Constraint struct {
	Kind      ConstraintKind
	Version   SemanticVersion
	Max       SemanticVersion
	WildMajor int
	WildMinor int

	raw string
}

// AnyConstraint returns the constraint that accepts every version.
func AnyConstraint() Constraint {
	return Constraint{Kind: ConstraintAny, WildMinor: -1, raw: "*"}
}

// ParseConstraint parses a constraint expression:
//
//	*            any version
//	^1.2.3       caret (compatible within first non-zero component)
//	~1.2.3       tilde (same major.minor, at least the given patch)
//	>=1.2.3, >1.2.3, <=1.2.3, <1.2.3, =1.2.3, ==1.2.3
//	1.0.0...2.0.0  inclusive range
//	1.*, 1.2.*   wildcard on major or major.minor
//	1.2.3        exact
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)

	if s == "" || s == "*" {
		return AnyConstraint(), nil
	}

	if min, max, ok := strings.Cut(s, "..."); ok {
		lo, err := ParseVersion(strings.TrimSpace(min))
		if err != nil {
			return Constraint{}, zerr.With(ErrInvalidConstraint, "constraint", s)
		}
		hi, err := ParseVersion(strings.TrimSpace(max))
		if err != nil {
			return Constraint{}, zerr.With(ErrInvalidConstraint, "constraint", s)
		}
		return Constraint{Kind: ConstraintRange, Version: lo, Max: hi, WildMinor: -1, raw: s}, nil
	}

	for _, p := range []struct {
		prefix string
		kind   ConstraintKind
	}{
		{"^", ConstraintCaret},
		{"~", ConstraintTilde},
		{">=", ConstraintGte},
		{">", ConstraintGt},
		{"<=", ConstraintLte},
		{"<", ConstraintLt},
		{"==", ConstraintExact},
		{"=", ConstraintExact},
	} {
		if strings.HasPrefix(s, p.prefix) {
			v, err := ParseVersion(strings.TrimSpace(s[len(p.prefix):]))
			if err != nil {
				return Constraint{}, zerr.With(ErrInvalidConstraint, "constraint", s)
			}
			return Constraint{Kind: p.kind, Version: v, WildMinor: -1, raw: s}, nil
		}
	}

	if strings.HasSuffix(s, ".*") {
		return parseWildcard(s)
	}

	v, err := ParseVersion(s)
	if err != nil {
		return Constraint{}, zerr.With(ErrInvalidConstraint, "constraint", s)
	}
	return Constraint{Kind: ConstraintExact, Version: v, WildMinor: -1, raw: s}, nil
}

// MustParseConstraint is ParseConstraint that panics on failure. For tests and
// literals known to be valid.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseWildcard(s string) (Constraint, error) {
	parts := strings.Split(strings.TrimSuffix(s, ".*"), ".")
	if len(parts) < 1 || len(parts) > 2 {
		return Constraint{}, zerr.With(ErrInvalidConstraint, "constraint", s)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return Constraint{}, zerr.With(ErrInvalidConstraint, "constraint", s)
	}

	minor := -1
	if len(parts) == 2 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil || minor < 0 {
			return Constraint{}, zerr.With(ErrInvalidConstraint, "constraint", s)
		}
	}

	return Constraint{Kind: ConstraintWildcard, WildMajor: major, WildMinor: minor, raw: s}, nil
}

// Satisfies reports whether v is accepted by the constraint.
func (c Constraint) Satisfies(v SemanticVersion) bool {
	switch c.Kind {
	case ConstraintAny:
		return true
	case ConstraintExact:
		return v.Equal(c.Version)
	case ConstraintGt:
		return v.Compare(c.Version) > 0
	case ConstraintGte:
		return v.Compare(c.Version) >= 0
	case ConstraintLt:
		return v.Compare(c.Version) < 0
	case ConstraintLte:
		return v.Compare(c.Version) <= 0
	case ConstraintCaret:
		return c.satisfiesCaret(v)
	case ConstraintTilde:
		return v.Compare(c.Version) >= 0 &&
			v.Major == c.Version.Major && v.Minor == c.Version.Minor
	case ConstraintRange:
		return v.Compare(c.Version) >= 0 && v.Compare(c.Max) <= 0
	case ConstraintWildcard:
		if v.Major != c.WildMajor {
			return false
		}
		return c.WildMinor < 0 || v.Minor == c.WildMinor
	default:
		return false
	}
}

// satisfiesCaret implements caret semantics: at least the bound, capped at the
// first non-zero leading component. ^1.2.3 locks major 1, ^0.2.3 locks 0.2,
// and ^0.0.3 admits exactly 0.0.3.
func (c Constraint) satisfiesCaret(v SemanticVersion) bool {
	if v.Compare(c.Version) < 0 {
		return false
	}
	switch {
	case c.Version.Major > 0:
		return v.Major == c.Version.Major
	case c.Version.Minor > 0:
		return v.Major == 0 && v.Minor == c.Version.Minor
	default:
		return v.Major == 0 && v.Minor == 0 && v.Patch == c.Version.Patch
	}
}

// String returns the constraint expression as originally written.
func (c Constraint) String() string {
	if c.raw == "" && c.Kind == ConstraintAny {
		return "*"
	}
	return c.raw
}
