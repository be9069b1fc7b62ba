package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keel/internal/adapters/registry"
	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/core/ports"
)

const sampleIndex = `
packages:
  libfoo:
    - version: 1.0.5
      url: https://example.com/libfoo-1.0.5.tar.gz
      hash: aaaa
    - version: 1.0.9
      url: https://example.com/libfoo-1.0.9.tar.gz
      hash: bbbb
      dependencies:
        zlib: ^1.2.0
        libbar: ~2.0.0
    - version: 1.1.0
      url: https://example.com/libfoo-1.1.0.tar.gz
      hash: cccc
  zlib:
    - version: 1.2.13
      url: https://example.com/zlib-1.2.13.tar.gz
      hash: dddd
`

func loadSample(t *testing.T) *registry.Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleIndex), 0o600))
	idx, err := registry.LoadIndex(path)
	require.NoError(t, err)
	return idx
}

func TestLoadIndex_MissingFileIsEmpty(t *testing.T) {
	idx, err := registry.LoadIndex(filepath.Join(t.TempDir(), "registry.yaml"))
	require.NoError(t, err)

	_, err = idx.Versions(context.Background(), "anything")
	require.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestLoadIndex_BadVersionFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	content := "packages:\n  broken:\n    - version: not-semver\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := registry.LoadIndex(path)
	require.ErrorIs(t, err, domain.ErrInvalidVersion)
}

func TestVersions(t *testing.T) {
	idx := loadSample(t)

	versions, err := idx.Versions(context.Background(), "libfoo")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Contains(t, versions, domain.MustParseVersion("1.0.5"))
	assert.Contains(t, versions, domain.MustParseVersion("1.0.9"))
	assert.Contains(t, versions, domain.MustParseVersion("1.1.0"))

	_, err = idx.Versions(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestLocate(t *testing.T) {
	idx := loadSample(t)

	url, hash, err := idx.Locate("libfoo", "1.0.9")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/libfoo-1.0.9.tar.gz", url)
	assert.Equal(t, "bbbb", hash)

	_, _, err = idx.Locate("libfoo", "9.9.9")
	require.ErrorIs(t, err, domain.ErrPackageNotFound)

	_, _, err = idx.Locate("ghost", "1.0.0")
	require.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestOpener_ResolvesAgainstProjectDir(t *testing.T) {
	t.Setenv(registry.IndexPathEnv, "")

	project := t.TempDir()
	path := filepath.Join(project, registry.IndexFilename)
	require.NoError(t, os.WriteFile(path, []byte(sampleIndex), 0o600))

	reg, err := registry.NewOpener().Open(project)
	require.NoError(t, err)

	versions, err := reg.Versions(context.Background(), "zlib")
	require.NoError(t, err)
	assert.Contains(t, versions, domain.MustParseVersion("1.2.13"))
}

func TestOpener_EnvOverrideWins(t *testing.T) {
	override := filepath.Join(t.TempDir(), "elsewhere.yaml")
	require.NoError(t, os.WriteFile(override, []byte(sampleIndex), 0o600))
	t.Setenv(registry.IndexPathEnv, override)

	// The project directory holds no index at all; the override must win.
	reg, err := registry.NewOpener().Open(t.TempDir())
	require.NoError(t, err)

	_, err = reg.Versions(context.Background(), "libfoo")
	require.NoError(t, err)
}

func TestDependenciesOf_PreservesDeclarationOrder(t *testing.T) {
	idx := loadSample(t)

	deps, err := idx.DependenciesOf("libfoo", "1.0.9")
	require.NoError(t, err)
	assert.Equal(t, []ports.DeclaredDependency{
		{Name: "zlib", Constraint: "^1.2.0"},
		{Name: "libbar", Constraint: "~2.0.0"},
	}, deps)

	// A release without a dependencies block has none.
	deps, err = idx.DependenciesOf("libfoo", "1.1.0")
	require.NoError(t, err)
	assert.Empty(t, deps)
}
