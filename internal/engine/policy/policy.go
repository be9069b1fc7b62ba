// Package policy validates dependencies against allow/deny rules and the
// hash-requirement policy, producing audit reports.
package policy

import (
	"fmt"
	"strings"

	"go.trai.ch/keel/internal/core/domain"
)

// Engine evaluates one policy over dependency declarations.
type Engine struct {
	policy domain.Policy
}

// New creates an Engine for the given policy.
func New(p domain.Policy) *Engine {
	return &Engine{policy: p}
}

// Validate checks one dependency, in order: deny patterns first (a match
// rejects immediately), then the allow list when non-empty (whitelist mode),
// then the hash requirement for hash-verifiable sources. Evaluation stops at
// the first failing rule, so a result carries at most one violation.
func (e *Engine) Validate(dep domain.Dependency) domain.ValidationResult {
	name := dep.Name.String()

	for _, pattern := range e.policy.Deny {
		if Match(name, pattern) {
			return rejected(name, fmt.Sprintf("denied by pattern %q", pattern))
		}
	}

	if len(e.policy.Allow) > 0 && !matchesAny(name, e.policy.Allow) {
		return rejected(name, "not covered by any allow pattern")
	}

	if e.policy.RequireHash && dep.Source.HashVerifiable() && dep.Source.Hash == "" {
		return rejected(name, "hash required but not declared")
	}

	return domain.ValidationResult{Allowed: true}
}

// Audit validates every dependency independently; a failure on one never
// stops auditing the rest.
func (e *Engine) Audit(deps []domain.Dependency) domain.AuditReport {
	report := domain.AuditReport{Total: len(deps)}

	for _, dep := range deps {
		result := e.Validate(dep)
		if result.Allowed {
			report.Passed++
			continue
		}
		report.Failed++
		report.Violations = append(report.Violations, result.Violations...)
	}

	return report
}

// Match reports whether a package name matches a policy pattern. A pattern
// ending in "/*" or "*" is a prefix match on the part before the wildcard;
// anything else is exact equality.
func Match(name, pattern string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(name, prefix+"/")
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(name, prefix)
	}
	return name == pattern
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if Match(name, p) {
			return true
		}
	}
	return false
}

func rejected(name, msg string) domain.ValidationResult {
	return domain.ValidationResult{
		Allowed:    false,
		Violations: []domain.Violation{{Package: name, Message: msg}},
	}
}
