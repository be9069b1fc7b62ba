package domain

import "fmt"

// SourceKind discriminates where a dependency's content comes from.
type SourceKind string

const (
	// SourceGit is a git repository pinned by ref.
	SourceGit SourceKind = "git"
	// SourceArchive is a downloadable archive with a declared digest.
	SourceArchive SourceKind = "archive"
	// SourceLocal is a directory on the local filesystem.
	SourceLocal SourceKind = "local"
	// SourceRegistry is a named package served by the registry index.
	SourceRegistry SourceKind = "registry"
	// SourceHosted is an owner/repo shorthand for a hosted git forge.
	SourceHosted SourceKind = "hosted"
)

// Source identifies where a dependency's content comes from. It is a closed
// sum discriminated by Kind; only the fields for the active kind are set.
type Source struct {
	Kind SourceKind

	// URL is the remote location for git and archive sources.
	URL string
	// Ref is the git reference (branch, tag or commit) for git and hosted sources.
	Ref string
	// Hash is the declared content digest for archive sources.
	Hash string
	// Path is the directory for local sources.
	Path string
	// Owner and Repo identify a hosted forge repository.
	Owner string
	Repo  string
}

// GitSource builds a git source.
func GitSource(url, ref string) Source {
	return Source{Kind: SourceGit, URL: url, Ref: ref}
}

// ArchiveSource builds an archive source with its declared digest.
func ArchiveSource(url, hash string) Source {
	return Source{Kind: SourceArchive, URL: url, Hash: hash}
}

// LocalSource builds a local filesystem source.
func LocalSource(path string) Source {
	return Source{Kind: SourceLocal, Path: path}
}

// RegistrySource builds a registry source.
func RegistrySource() Source {
	return Source{Kind: SourceRegistry}
}

// HostedSource builds a hosted forge source.
func HostedSource(owner, repo, ref string) Source {
	return Source{Kind: SourceHosted, Owner: owner, Repo: repo, Ref: ref}
}

// HashVerifiable reports whether this source kind carries an up-front content
// digest that can be checked at fetch time. Git and hosted sources are pinned
// by commit instead, and local paths have nothing to verify against.
func (s Source) HashVerifiable() bool {
	return s.Kind == SourceArchive || s.Kind == SourceRegistry
}

// String renders a short, stable description for logs and lockfile entries.
func (s Source) String() string {
	switch s.Kind {
	case SourceGit:
		if s.Ref != "" {
			return fmt.Sprintf("git+%s@%s", s.URL, s.Ref)
		}
		return "git+" + s.URL
	case SourceArchive:
		return "archive+" + s.URL
	case SourceLocal:
		return "local+" + s.Path
	case SourceRegistry:
		return "registry"
	case SourceHosted:
		if s.Ref != "" {
			return fmt.Sprintf("hosted+%s/%s@%s", s.Owner, s.Repo, s.Ref)
		}
		return fmt.Sprintf("hosted+%s/%s", s.Owner, s.Repo)
	default:
		return string(s.Kind)
	}
}

// FetchResult is what the external fetcher hands back to the core: a staged
// directory, the canonical content digest, where the content actually came
// from, and the resolved commit for git-backed sources.
type FetchResult struct {
	Path   string
	Hash   string
	Origin string
	Commit string
}
