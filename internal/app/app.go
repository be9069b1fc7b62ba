// Package app implements the application layer for keel: it drives manifest
// ingestion, resolution, policy auditing, fetching, caching and lockfile
// persistence.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/keel/internal/adapters/config"
	"go.trai.ch/keel/internal/adapters/lockfile"
	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/core/ports"
	"go.trai.ch/keel/internal/engine/policy"
	"go.trai.ch/keel/internal/engine/resolver"
	"go.trai.ch/keel/internal/ui/deptree"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// maxResolveRounds bounds the transitive-closure fixpoint. Each round can
// only add requirements for packages discovered in the previous one, so a
// well-formed registry converges far earlier.
const maxResolveRounds = 32

// App wires the resolution core to its adapters.
type App struct {
	manifests ports.ManifestLoader
	policies  ports.PolicyLoader
	registry  ports.RegistryOpener
	fetcher   ports.Fetcher
	store     ports.ArtifactStore
	locks     ports.LockfileRepository
	digester  ports.Digester
	logger    ports.Logger
	tracer    ports.Tracer
}

// New creates an App.
func New(
	manifests ports.ManifestLoader,
	policies ports.PolicyLoader,
	registry ports.RegistryOpener,
	fetcher ports.Fetcher,
	store ports.ArtifactStore,
	locks ports.LockfileRepository,
	digester ports.Digester,
	logger ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		manifests: manifests,
		policies:  policies,
		registry:  registry,
		fetcher:   fetcher,
		store:     store,
		locks:     locks,
		digester:  digester,
		logger:    logger,
		tracer:    tracer,
	}
}

// ResolutionReport is the outcome of one resolve pass over a manifest.
type ResolutionReport struct {
	// Packages holds the winners, sorted by name.
	Packages []domain.ResolvedPackage

	// Conflicts lists pairwise-incompatible requirements, grouped by package.
	Conflicts []domain.Conflict

	// Cycle is the first circular dependency found, if any.
	Cycle *domain.CircularDependency

	// Tree is the rendered dependency tree rooted at the manifest's
	// declarations.
	Tree string
}

// InstallOptions tunes one install run.
type InstallOptions struct {
	// Jobs caps concurrent fetches. Zero means one per CPU.
	Jobs int
}

// InstallReport summarizes a completed install.
type InstallReport struct {
	Resolved     int
	Fetched      int
	Cached       int
	LockfilePath string
}

// Resolve loads the manifest in cwd and computes a full resolution without
// fetching anything. Conflicts and cycles are reported as data inside the
// report together with a sentinel error, so callers can show everything
// found.
func (a *App) Resolve(ctx context.Context, cwd string) (*ResolutionReport, error) {
	manifest, err := a.manifests.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}
	reg, err := a.registry.Open(cwd)
	if err != nil {
		return nil, err
	}
	return a.resolveManifest(ctx, reg, manifest)
}

// Install resolves, audits, fetches and locks the manifest in cwd.
func (a *App) Install(ctx context.Context, cwd string, opts InstallOptions) (*InstallReport, error) {
	manifest, err := a.manifests.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}

	if err := a.enforcePolicy(cwd, manifest); err != nil {
		return nil, err
	}

	a.logger.Info(fmt.Sprintf("resolving %d dependencies", len(manifest.Dependencies)))

	reg, err := a.registry.Open(cwd)
	if err != nil {
		return nil, err
	}

	report, err := a.resolveManifest(ctx, reg, manifest)
	if err != nil {
		return nil, err
	}

	lockPath := filepath.Join(cwd, lockfile.Filename)
	previous, err := a.locks.Load(lockPath)
	if err != nil {
		return nil, err
	}

	lock, fetched, cached, err := a.fetchAll(ctx, reg, manifest, report.Packages, previous, opts.Jobs)
	if err != nil {
		return nil, err
	}

	if err := a.locks.Save(lockPath, lock); err != nil {
		return nil, err
	}

	return &InstallReport{
		Resolved:     len(report.Packages),
		Fetched:      fetched,
		Cached:       cached,
		LockfilePath: lockPath,
	}, nil
}

// Audit validates the manifest's dependency set against the policy in cwd.
func (a *App) Audit(cwd string) (domain.AuditReport, error) {
	manifest, err := a.manifests.Load(cwd)
	if err != nil {
		return domain.AuditReport{}, zerr.Wrap(err, "failed to load manifest")
	}
	pol, err := a.policies.LoadPolicy(cwd)
	if err != nil {
		return domain.AuditReport{}, err
	}
	return policy.New(pol).Audit(manifest.Dependencies), nil
}

// Clean garbage-collects the artifact store: every cached hash not referenced
// by the lockfile in cwd is deleted. Callers must not run Clean concurrently
// with an install touching the same cache root.
func (a *App) Clean(cwd string) ([]string, error) {
	lock, err := a.locks.Load(filepath.Join(cwd, lockfile.Filename))
	if err != nil {
		return nil, err
	}
	removed, err := a.store.Clean(lock.HashSet())
	if err != nil {
		return removed, err
	}
	a.logger.Info(fmt.Sprintf("removed %d unreferenced cache entries", len(removed)))
	return removed, nil
}

// Doctor scans the artifact store and reports unreadable files. Nothing is
// repaired.
func (a *App) Doctor() ([]string, error) {
	return a.store.Verify()
}

// Stale reports whether the lockfile in cwd is out of date with the manifest.
func (a *App) Stale(cwd string) (bool, error) {
	return a.locks.Stale(
		filepath.Join(cwd, lockfile.Filename),
		filepath.Join(cwd, config.ManifestFilename),
	)
}

func (a *App) enforcePolicy(cwd string, manifest *domain.Manifest) error {
	pol, err := a.policies.LoadPolicy(cwd)
	if err != nil {
		return err
	}
	if pol.IsEmpty() {
		return nil
	}

	report := policy.New(pol).Audit(manifest.Dependencies)
	if report.Failed == 0 {
		return nil
	}

	msgs := make([]string, len(report.Violations))
	for i, v := range report.Violations {
		msgs[i] = v.Package + ": " + v.Message
	}
	err = zerr.With(domain.ErrPolicyRejected, "failed", report.Failed)
	return zerr.With(err, "violations", msgs)
}

// resolveManifest registers the manifest's registry requirements, expands the
// transitive closure through registry metadata to a fixpoint, and checks
// conflicts and cycles. Git, hosted and local sources are pinned by their
// declaration rather than resolved against registry candidates.
func (a *App) resolveManifest(ctx context.Context, reg ports.Registry, manifest *domain.Manifest) (*ResolutionReport, error) {
	res := resolver.New(reg)

	roots := make([]string, 0, len(manifest.Dependencies))
	pinned := make(map[string]domain.ResolvedPackage)
	for _, dep := range manifest.Dependencies {
		name := dep.Name.String()
		roots = append(roots, name)
		if dep.Source.Kind == domain.SourceRegistry {
			res.AddRequirement(name, dep.Constraint, manifest.Name)
			continue
		}
		pinned[name] = domain.ResolvedPackage{
			Name:    dep.Name,
			Version: pinnedVersion(dep.Constraint),
		}
	}

	resolved, err := a.expand(ctx, reg, res, pinned)
	if err != nil {
		// A version conflict during expansion still has a story to tell:
		// report the structurally incompatible requirement pairs so the
		// caller can show which declarations collide.
		if errors.Is(err, domain.ErrVersionConflict) {
			return &ResolutionReport{Conflicts: res.DetectConflicts()}, err
		}
		return nil, err
	}
	for name, pkg := range pinned {
		resolved[name] = pkg
	}

	report := &ResolutionReport{}
	for _, pkg := range resolved {
		report.Packages = append(report.Packages, pkg)
	}
	slices.SortFunc(report.Packages, func(x, y domain.ResolvedPackage) int {
		return x.Name.Compare(y.Name)
	})

	if conflicts := res.DetectConflicts(); len(conflicts) > 0 {
		report.Conflicts = conflicts
		return report, conflictError(conflicts)
	}

	graph := domain.NewDependencyGraph()
	for _, pkg := range resolved {
		graph.Add(domain.DependencyNode{
			Name:         pkg.Name,
			Version:      pkg.Version,
			Dependencies: pkg.Dependencies,
		})
	}
	if cycle := graph.DetectCycle(); cycle != nil {
		report.Cycle = cycle
		return report, zerr.With(domain.ErrCycleDetected, "cycle", cycle.String())
	}

	report.Tree = deptree.Render(deptree.Build(graph, roots))
	return report, nil
}

// expand runs resolve rounds, feeding registry-declared dependencies of each
// winner back in as requirements until no new requirement appears. Declared
// edges onto pinned packages stay in the graph but never reach the resolver.
func (a *App) expand(
	ctx context.Context,
	reg ports.Registry,
	res *resolver.Resolver,
	pinned map[string]domain.ResolvedPackage,
) (map[string]domain.ResolvedPackage, error) {
	type edge struct{ from, to, constraint string }
	registered := make(map[edge]bool)

	var resolved map[string]domain.ResolvedPackage
	for round := 0; round < maxResolveRounds; round++ {
		var err error
		resolved, err = res.Resolve(ctx)
		if err != nil {
			return nil, err
		}

		names := make([]string, 0, len(resolved))
		for name := range resolved {
			names = append(names, name)
		}
		slices.Sort(names)

		added := false
		for _, name := range names {
			pkg := resolved[name]

			declared, err := reg.DependenciesOf(name, pkg.Version.String())
			if err != nil {
				return nil, err
			}

			deps := make([]domain.InternedString, 0, len(declared))
			for _, dec := range declared {
				deps = append(deps, domain.NewInternedString(dec.Name))

				e := edge{from: name, to: dec.Name, constraint: dec.Constraint}
				if registered[e] {
					continue
				}
				registered[e] = true

				if _, isPinned := pinned[dec.Name]; isPinned {
					continue
				}
				constraint, err := domain.ParseConstraint(dec.Constraint)
				if err != nil {
					return nil, zerr.With(err, "declared_by", name)
				}
				res.AddRequirement(dec.Name, constraint, name)
				added = true
			}

			pkg.Dependencies = deps
			resolved[name] = pkg
		}

		if !added {
			return resolved, nil
		}
	}

	return nil, zerr.With(zerr.New("dependency expansion did not converge"), "rounds", maxResolveRounds)
}

// fetchAll fetches every resolved package with a bounded worker pool over
// distinct dependencies. Entries already locked at the same version and
// present in the store are reused without fetching. All lockfile mutation
// happens on the calling goroutine after the pool drains.
func (a *App) fetchAll(
	ctx context.Context,
	reg ports.Registry,
	manifest *domain.Manifest,
	packages []domain.ResolvedPackage,
	previous *domain.Lockfile,
	jobs int,
) (*domain.Lockfile, int, int, error) {
	sources := make(map[string]domain.Source, len(manifest.Dependencies))
	for _, dep := range manifest.Dependencies {
		sources[dep.Name.String()] = dep.Source
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	var mu sync.Mutex
	entries := make([]domain.LockfileEntry, 0, len(packages))
	fetched, cachedCount := 0, 0

	for _, pkg := range packages {
		g.Go(func() error {
			entry, cached, err := a.fetchOne(gctx, reg, pkg, sources, previous)
			if err != nil {
				return err
			}
			mu.Lock()
			entries = append(entries, entry)
			if cached {
				cachedCount++
			} else {
				fetched++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, 0, err
	}

	lock := domain.NewLockfile()
	for _, entry := range entries {
		lock.Put(entry)
	}
	return lock, fetched, cachedCount, nil
}

func (a *App) fetchOne(
	ctx context.Context,
	reg ports.Registry,
	pkg domain.ResolvedPackage,
	sources map[string]domain.Source,
	previous *domain.Lockfile,
) (domain.LockfileEntry, bool, error) {
	name := pkg.Name.String()
	source, ok := sources[name]
	if !ok {
		source = domain.RegistrySource()
	}

	_, vertex := a.tracer.Start(ctx, fmt.Sprintf("fetch %s@%s", name, pkg.Version))

	prev, hasPrev := previous.Get(name)

	// Local sources are reused on a matching stat fingerprint instead of a
	// matching version: a vendored directory changes content without ever
	// bumping a version. Everything else reuses on exact locked version.
	var fingerprint string
	if source.Kind == domain.SourceLocal {
		var err error
		fingerprint, err = a.digester.Fingerprint(source.Path)
		if err != nil {
			vertex.Complete(err)
			return domain.LockfileEntry{}, false, zerr.With(err, "package", name)
		}
		if hasPrev && prev.Fingerprint == fingerprint && a.store.IsCached(prev.Hash) {
			vertex.Cached()
			return prev, true, nil
		}
	} else if hasPrev && prev.Version == pkg.Version.String() && a.store.IsCached(prev.Hash) {
		vertex.Cached()
		return prev, true, nil
	}

	// Registry entries resolve to a concrete archive location before
	// fetching; the lockfile still records "registry" as the source.
	fetchSrc := source
	if source.Kind == domain.SourceRegistry {
		url, hash, err := reg.Locate(name, pkg.Version.String())
		if err != nil {
			vertex.Complete(err)
			return domain.LockfileEntry{}, false, zerr.With(err, "package", name)
		}
		fetchSrc = domain.ArchiveSource(url, hash)
	}

	result, err := a.fetcher.Fetch(ctx, name, fetchSrc, pkg.Version)
	if err != nil {
		vertex.Complete(err)
		return domain.LockfileEntry{}, false, zerr.With(err, "package", name)
	}
	// Staged content is scratch space for every source kind except local,
	// where result.Path is the user's own directory.
	if source.Kind != domain.SourceLocal {
		defer os.RemoveAll(result.Path) //nolint:errcheck // Scratch space
	}

	cached := a.store.IsCached(result.Hash)
	if cached {
		vertex.Cached()
	} else {
		if err := a.store.Store(result.Hash, result.Path); err != nil {
			vertex.Complete(err)
			return domain.LockfileEntry{}, false, zerr.With(err, "package", name)
		}
		vertex.Complete(nil)
	}

	deps := make([]string, len(pkg.Dependencies))
	for i, dep := range pkg.Dependencies {
		deps[i] = dep.String()
	}

	entry := domain.LockfileEntry{
		Name:         name,
		Version:      pkg.Version.String(),
		Hash:         result.Hash,
		Source:       source.String(),
		Commit:       result.Commit,
		Fingerprint:  fingerprint,
		Dependencies: deps,
		Provenance:   a.provenance(source, result),
	}
	return entry, cached, nil
}

func (a *App) provenance(source domain.Source, result domain.FetchResult) *domain.Provenance {
	origin := result.Origin
	if origin == "" {
		origin = source.String()
	}
	return &domain.Provenance{
		Origin:    origin,
		Digest:    result.Hash,
		FetchedAt: nowUTC(),
		SizeBytes: treeSize(result.Path),
	}
}

// pinnedVersion derives a display version for sources resolved outside the
// registry. An exact constraint names the version; anything else has no
// meaningful version of its own.
func pinnedVersion(c domain.Constraint) domain.SemanticVersion {
	if c.Kind == domain.ConstraintExact {
		return c.Version
	}
	return domain.SemanticVersion{}
}

func conflictError(conflicts []domain.Conflict) error {
	msgs := make([]string, len(conflicts))
	for i, c := range conflicts {
		msgs[i] = fmt.Sprintf("%s: %s (%s) vs %s (%s)",
			c.Package,
			c.First.Constraint, c.First.RequestedBy,
			c.Second.Constraint, c.Second.RequestedBy,
		)
	}
	err := zerr.With(domain.ErrConflictsDetected, "count", len(conflicts))
	return zerr.With(err, "conflicts", strings.Join(msgs, "; "))
}
