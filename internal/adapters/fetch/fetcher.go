// Package fetch stages dependency content: local directories, archive
// downloads with digest verification, and git checkouts via the git CLI.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fetcher = (*Fetcher)(nil)

// Fetcher implements ports.Fetcher. Every result carries the canonical
// sha256 tree digest as its content identity, regardless of source kind;
// git-backed results additionally carry the resolved commit.
type Fetcher struct {
	digester ports.Digester
	client   *http.Client
	stageDir string
}

// New creates a Fetcher staging content under stageDir.
func New(digester ports.Digester, stageDir string) *Fetcher {
	return &Fetcher{
		digester: digester,
		client:   http.DefaultClient,
		stageDir: stageDir,
	}
}

// WithClient overrides the HTTP client. Used by tests.
func (f *Fetcher) WithClient(client *http.Client) *Fetcher {
	f.client = client
	return f
}

// Fetch stages the content for one dependency and returns its identity.
func (f *Fetcher) Fetch(ctx context.Context, name string, source domain.Source, version domain.SemanticVersion) (domain.FetchResult, error) {
	switch source.Kind {
	case domain.SourceLocal:
		return f.fetchLocal(source)
	case domain.SourceArchive:
		return f.fetchArchive(ctx, name, source.URL, source.Hash)
	case domain.SourceGit:
		return f.fetchGit(ctx, name, source.URL, source.Ref)
	case domain.SourceHosted:
		url := fmt.Sprintf("https://github.com/%s/%s.git", source.Owner, source.Repo)
		return f.fetchGit(ctx, name, url, source.Ref)
	case domain.SourceRegistry:
		// Registry entries are located by the caller, which hands us the
		// resulting archive source instead.
		return domain.FetchResult{}, zerr.With(zerr.New("registry source reached fetcher unlocated"), "package", name)
	default:
		return domain.FetchResult{}, zerr.With(domain.ErrUnknownSource, "source", string(source.Kind))
	}
}

// fetchLocal digests a local directory in place. Nothing is copied; the cas
// store does the copy when the artifact is admitted.
func (f *Fetcher) fetchLocal(source domain.Source) (domain.FetchResult, error) {
	info, err := os.Stat(source.Path)
	if err != nil {
		return domain.FetchResult{}, zerr.With(zerr.Wrap(err, "failed to stat local dependency"), "path", source.Path)
	}
	if !info.IsDir() {
		return domain.FetchResult{}, zerr.With(zerr.New("local dependency is not a directory"), "path", source.Path)
	}

	hash, err := f.digester.DigestTree(source.Path)
	if err != nil {
		return domain.FetchResult{}, err
	}
	return domain.FetchResult{Path: source.Path, Hash: hash, Origin: source.Path}, nil
}

// fetchArchive downloads url into a staged directory and verifies the file
// against the declared digest. A mismatch is fatal for this dependency: the
// staged artifact is deleted before the error surfaces.
func (f *Fetcher) fetchArchive(ctx context.Context, name, url, declaredHash string) (domain.FetchResult, error) {
	stage, err := f.stage(name)
	if err != nil {
		return domain.FetchResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.FetchResult{}, zerr.Wrap(err, "failed to build archive request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		_ = os.RemoveAll(stage)
		return domain.FetchResult{}, zerr.With(zerr.Wrap(err, "archive download failed"), "url", url)
	}
	defer resp.Body.Close() //nolint:errcheck // Read side only

	if resp.StatusCode != http.StatusOK {
		_ = os.RemoveAll(stage)
		err := zerr.With(zerr.New("archive download failed"), "url", url)
		return domain.FetchResult{}, zerr.With(err, "status", resp.StatusCode)
	}

	target := filepath.Join(stage, filepath.Base(req.URL.Path))
	if filepath.Base(req.URL.Path) == "/" || filepath.Base(req.URL.Path) == "." {
		target = filepath.Join(stage, "archive")
	}

	out, err := os.Create(target) //nolint:gosec // Target is inside our own staging directory
	if err != nil {
		_ = os.RemoveAll(stage)
		return domain.FetchResult{}, zerr.Wrap(err, "failed to create staged archive")
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.RemoveAll(stage)
		return domain.FetchResult{}, zerr.With(zerr.Wrap(err, "archive download interrupted"), "url", url)
	}
	if err := out.Close(); err != nil {
		_ = os.RemoveAll(stage)
		return domain.FetchResult{}, zerr.Wrap(err, "failed to finalize staged archive")
	}

	if declaredHash != "" {
		actual, err := f.digester.DigestFile(target)
		if err != nil {
			_ = os.RemoveAll(stage)
			return domain.FetchResult{}, err
		}
		if actual != declaredHash {
			_ = os.RemoveAll(stage)
			err := zerr.With(domain.ErrHashMismatch, "url", url)
			err = zerr.With(err, "declared", declaredHash)
			return domain.FetchResult{}, zerr.With(err, "actual", actual)
		}
	}

	// The cache key is the tree digest of the staged content, matching every
	// other source kind. For a single-file archive stage it covers the
	// archive name and bytes.
	treeHash, err := f.digester.DigestTree(stage)
	if err != nil {
		_ = os.RemoveAll(stage)
		return domain.FetchResult{}, err
	}

	return domain.FetchResult{Path: stage, Hash: treeHash, Origin: url}, nil
}

func (f *Fetcher) stage(name string) (string, error) {
	if err := os.MkdirAll(f.stageDir, 0o750); err != nil {
		return "", zerr.Wrap(err, "failed to create staging root")
	}
	stage, err := os.MkdirTemp(f.stageDir, sanitize(name)+"-")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create staging directory")
	}
	return stage, nil
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
