package resolver

import "go.trai.ch/keel/internal/core/domain"

// compatible decides structurally whether some version could satisfy both
// constraints. The check is per constraint-pair shape; pair combinations with
// no rule below are assumed compatible, the final Resolve pass against real
// candidates being the authority.
func compatible(a, b domain.Constraint) bool {
	if a.Kind == domain.ConstraintAny || b.Kind == domain.ConstraintAny {
		return true
	}
	// Normalize so the switch only has to consider one ordering.
	if b.Kind < a.Kind {
		a, b = b, a
	}

	switch {
	case a.Kind == domain.ConstraintExact && b.Kind == domain.ConstraintExact:
		return a.Version.Equal(b.Version)

	case a.Kind == domain.ConstraintCaret && b.Kind == domain.ConstraintCaret:
		return a.Version.Major == b.Version.Major

	case a.Kind == domain.ConstraintTilde && b.Kind == domain.ConstraintTilde:
		return a.Version.Major == b.Version.Major && a.Version.Minor == b.Version.Minor

	case a.Kind == domain.ConstraintGte && b.Kind == domain.ConstraintLt:
		return a.Version.Less(b.Version)

	case a.Kind == domain.ConstraintRange && b.Kind == domain.ConstraintRange:
		// Overlap iff min1 <= max2 and min2 <= max1.
		return a.Version.Compare(b.Max) <= 0 && b.Version.Compare(a.Max) <= 0

	default:
		return true
	}
}
