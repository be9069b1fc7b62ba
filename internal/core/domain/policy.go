package domain

// Policy is the allow/deny and hash-requirement configuration loaded from the
// policy file. An empty policy allows everything.
type Policy struct {
	// Allow is the whitelist. When non-empty, a dependency must match one of
	// these patterns to pass.
	Allow []string

	// Deny patterns reject matching dependencies unconditionally; deny wins
	// over allow.
	Deny []string

	// RequireHash rejects hash-verifiable sources declared without a digest.
	RequireHash bool
}

// IsEmpty reports whether the policy constrains anything at all.
func (p Policy) IsEmpty() bool {
	return len(p.Allow) == 0 && len(p.Deny) == 0 && !p.RequireHash
}

// Violation is one failed policy rule for one package. Violations are data,
// not errors.
type Violation struct {
	Package string
	Message string
}

// ValidationResult is the outcome of validating a single dependency.
type ValidationResult struct {
	Allowed    bool
	Violations []Violation
}

// AuditReport tallies a full policy audit over a dependency set.
type AuditReport struct {
	Total      int
	Passed     int
	Failed     int
	Violations []Violation
}
