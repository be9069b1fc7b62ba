// Package resolver selects final package versions from accumulated
// requirements and reports pairwise constraint conflicts.
package resolver

import (
	"context"
	"slices"

	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver aggregates per-package requirements from multiple requesters and
// picks, for each package, the highest version satisfying every registered
// constraint. It is not internally synchronized: writes must come from a
// single goroutine, and reads are safe only once all writes are done.
type Resolver struct {
	source       ports.VersionSource
	requirements map[domain.InternedString][]domain.Requirement
	order        []domain.InternedString
}

// New creates a Resolver backed by the given candidate version source.
func New(source ports.VersionSource) *Resolver {
	return &Resolver{
		source:       source,
		requirements: make(map[domain.InternedString][]domain.Requirement),
	}
}

// AddRequirement appends one requester's need for a package. Requirements
// accumulate; registration order is preserved per package and across packages.
func (r *Resolver) AddRequirement(name string, constraint domain.Constraint, requestedBy string) {
	pkg := domain.NewInternedString(name)
	if _, seen := r.requirements[pkg]; !seen {
		r.order = append(r.order, pkg)
	}
	r.requirements[pkg] = append(r.requirements[pkg], domain.Requirement{
		Package:     pkg,
		Constraint:  constraint,
		RequestedBy: domain.NewInternedString(requestedBy),
	})
}

// Requirements returns the registered requirements for a package.
func (r *Resolver) Requirements(name string) []domain.Requirement {
	return r.requirements[domain.NewInternedString(name)]
}

// Packages returns every package name with at least one requirement, in
// registration order.
func (r *Resolver) Packages() []string {
	names := make([]string, len(r.order))
	for i, pkg := range r.order {
		names[i] = pkg.String()
	}
	return names
}

// Resolve selects, for every package with at least one requirement, the
// highest candidate version that satisfies all of its constraints. Packages
// with no satisfying version fail the whole pass with a structured version
// conflict; nothing is ever silently defaulted.
//
// The result maps package names to winners and is rebuilt on every call.
func (r *Resolver) Resolve(ctx context.Context) (map[string]domain.ResolvedPackage, error) {
	resolved := make(map[string]domain.ResolvedPackage, len(r.order))

	for _, pkg := range r.order {
		winner, err := r.resolveOne(ctx, pkg)
		if err != nil {
			return nil, err
		}
		resolved[pkg.String()] = winner
	}

	return resolved, nil
}

func (r *Resolver) resolveOne(ctx context.Context, pkg domain.InternedString) (domain.ResolvedPackage, error) {
	candidates, err := r.source.Versions(ctx, pkg.String())
	if err != nil {
		return domain.ResolvedPackage{}, zerr.Wrap(err, "failed to list candidate versions")
	}
	if len(candidates) == 0 {
		return domain.ResolvedPackage{}, zerr.With(domain.ErrNoVersions, "package", pkg.String())
	}

	reqs := r.requirements[pkg]

	var best domain.SemanticVersion
	found := false
	for _, candidate := range candidates {
		if !satisfiesAll(candidate, reqs) {
			continue
		}
		if !found || best.Less(candidate) {
			best = candidate
			found = true
		}
	}

	if !found {
		err := zerr.With(domain.ErrVersionConflict, "package", pkg.String())
		err = zerr.With(err, "constraints", constraintStrings(reqs))
		return domain.ResolvedPackage{}, zerr.With(err, "candidates", len(candidates))
	}

	return domain.ResolvedPackage{Name: pkg, Version: best}, nil
}

func satisfiesAll(v domain.SemanticVersion, reqs []domain.Requirement) bool {
	for _, req := range reqs {
		if !req.Constraint.Satisfies(v) {
			return false
		}
	}
	return true
}

func constraintStrings(reqs []domain.Requirement) []string {
	out := make([]string, len(reqs))
	for i, req := range reqs {
		out[i] = req.Constraint.String() + " (" + req.RequestedBy.String() + ")"
	}
	return out
}

// DetectConflicts performs pairwise compatibility checks between every pair
// of requirements sharing a package name and returns the incompatible pairs,
// grouped by package in registration order. Callers must inspect the result
// before trusting Resolve's output for a reproducible build.
func (r *Resolver) DetectConflicts() []domain.Conflict {
	var conflicts []domain.Conflict

	for _, pkg := range r.order {
		reqs := r.requirements[pkg]
		for i := 0; i < len(reqs); i++ {
			for j := i + 1; j < len(reqs); j++ {
				if !compatible(reqs[i].Constraint, reqs[j].Constraint) {
					conflicts = append(conflicts, domain.Conflict{
						Package: pkg,
						First:   reqs[i],
						Second:  reqs[j],
					})
				}
			}
		}
	}

	return slices.Clip(conflicts)
}
