package fetch

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/zerr"
)

// fetchGit clones url at ref into a staged directory using the git CLI,
// resolves the checked-out commit, strips the .git directory and digests the
// remaining tree.
func (f *Fetcher) fetchGit(ctx context.Context, name, url, ref string) (domain.FetchResult, error) {
	stage, err := f.stage(name)
	if err != nil {
		return domain.FetchResult{}, err
	}

	args := []string{"clone", "--quiet", "--depth", "1"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, url, stage)

	if _, err := f.git(ctx, "", args...); err != nil {
		_ = os.RemoveAll(stage)
		return domain.FetchResult{}, zerr.With(err, "url", url)
	}

	commit, err := f.git(ctx, stage, "rev-parse", "HEAD")
	if err != nil {
		_ = os.RemoveAll(stage)
		return domain.FetchResult{}, zerr.With(err, "url", url)
	}

	// Repository metadata is not content; drop it before digesting.
	if err := os.RemoveAll(filepath.Join(stage, ".git")); err != nil {
		_ = os.RemoveAll(stage)
		return domain.FetchResult{}, zerr.Wrap(err, "failed to strip repository metadata")
	}

	hash, err := f.digester.DigestTree(stage)
	if err != nil {
		_ = os.RemoveAll(stage)
		return domain.FetchResult{}, err
	}

	return domain.FetchResult{Path: stage, Hash: hash, Origin: url, Commit: commit}, nil
}

// git runs one git command and returns its trimmed stdout. Stderr is folded
// into the error metadata on failure.
func (f *Fetcher) git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //nolint:gosec // Arguments are constructed from validated inputs
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			gitErr := zerr.Wrap(exitErr, "git command failed")
			gitErr = zerr.With(gitErr, "args", strings.Join(args, " "))
			return "", zerr.With(gitErr, "stderr", stderr)
		}
		return "", zerr.Wrap(err, "git command failed")
	}

	return strings.TrimSpace(string(output)), nil
}
