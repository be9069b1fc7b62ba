package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keel/internal/adapters/fs"
	"go.trai.ch/keel/internal/adapters/lockfile"
	"go.trai.ch/keel/internal/adapters/telemetry"
	"go.trai.ch/keel/internal/app"
	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// mockSet is the full set of mocked ports for exercising install flows
// without any filesystem or network.
type mockSet struct {
	manifests *mocks.MockManifestLoader
	policies  *mocks.MockPolicyLoader
	registry  *mocks.MockRegistry
	opener    *mocks.MockRegistryOpener
	fetcher   *mocks.MockFetcher
	store     *mocks.MockArtifactStore
	locks     *mocks.MockLockfileRepository
	logger    *mocks.MockLogger
}

func newMockSet(ctrl *gomock.Controller) *mockSet {
	s := &mockSet{
		manifests: mocks.NewMockManifestLoader(ctrl),
		policies:  mocks.NewMockPolicyLoader(ctrl),
		registry:  mocks.NewMockRegistry(ctrl),
		opener:    mocks.NewMockRegistryOpener(ctrl),
		fetcher:   mocks.NewMockFetcher(ctrl),
		store:     mocks.NewMockArtifactStore(ctrl),
		locks:     mocks.NewMockLockfileRepository(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	s.opener.EXPECT().Open(gomock.Any()).Return(s.registry, nil).AnyTimes()
	return s
}

func (s *mockSet) app() *app.App {
	return app.New(
		s.manifests, s.policies, s.opener, s.fetcher,
		s.store, s.locks, fs.NewDigester(), s.logger, telemetry.NewNoop(),
	)
}

func singleDepManifest(name, constraint string) *domain.Manifest {
	return &domain.Manifest{
		Name: "project",
		Dependencies: []domain.Dependency{{
			Name:       domain.NewInternedString(name),
			Source:     domain.RegistrySource(),
			Constraint: domain.MustParseConstraint(constraint),
		}},
	}
}

func TestInstall_FetchFailureAbortsWithoutLocking(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newMockSet(ctrl)

	cwd := "/proj"
	s.manifests.EXPECT().Load(cwd).Return(singleDepManifest("libfoo", "^1.0.0"), nil)
	s.policies.EXPECT().LoadPolicy(cwd).Return(domain.Policy{}, nil)
	s.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	s.registry.EXPECT().Versions(gomock.Any(), "libfoo").
		Return([]domain.SemanticVersion{domain.MustParseVersion("1.0.0")}, nil).AnyTimes()
	s.registry.EXPECT().DependenciesOf("libfoo", "1.0.0").Return(nil, nil).AnyTimes()
	s.registry.EXPECT().Locate("libfoo", "1.0.0").
		Return("https://example.com/libfoo.tar.gz", "cafe", nil)

	s.locks.EXPECT().Load(filepath.Join(cwd, lockfile.Filename)).Return(domain.NewLockfile(), nil)
	s.fetcher.EXPECT().Fetch(gomock.Any(), "libfoo", gomock.Any(), domain.MustParseVersion("1.0.0")).
		Return(domain.FetchResult{}, errors.New("network down"))

	// Save must never run after a failed fetch.

	_, err := s.app().Install(context.Background(), cwd, app.InstallOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
}

func TestInstall_ReusesLockedEntryWithoutFetching(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newMockSet(ctrl)

	cwd := "/proj"
	s.manifests.EXPECT().Load(cwd).Return(singleDepManifest("libfoo", "^1.0.0"), nil)
	s.policies.EXPECT().LoadPolicy(cwd).Return(domain.Policy{}, nil)
	s.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	s.registry.EXPECT().Versions(gomock.Any(), "libfoo").
		Return([]domain.SemanticVersion{domain.MustParseVersion("1.0.0")}, nil).AnyTimes()
	s.registry.EXPECT().DependenciesOf("libfoo", "1.0.0").Return(nil, nil).AnyTimes()

	previous := domain.NewLockfile()
	previous.Put(domain.LockfileEntry{Name: "libfoo", Version: "1.0.0", Hash: "cafe", Source: "registry"})
	s.locks.EXPECT().Load(filepath.Join(cwd, lockfile.Filename)).Return(previous, nil)

	// The locked artifact is still cached, so the fetcher is never touched.
	s.store.EXPECT().IsCached("cafe").Return(true)

	var saved *domain.Lockfile
	s.locks.EXPECT().Save(filepath.Join(cwd, lockfile.Filename), gomock.Any()).
		DoAndReturn(func(_ string, lock *domain.Lockfile) error {
			saved = lock
			return nil
		})

	report, err := s.app().Install(context.Background(), cwd, app.InstallOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Resolved)
	assert.Zero(t, report.Fetched)
	assert.Equal(t, 1, report.Cached)

	require.NotNil(t, saved)
	entry, ok := saved.Get("libfoo")
	require.True(t, ok)
	assert.Equal(t, "cafe", entry.Hash)
}

func TestInstall_StoresFetchedArtifact(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newMockSet(ctrl)

	cwd := "/proj"
	s.manifests.EXPECT().Load(cwd).Return(singleDepManifest("libfoo", "^1.0.0"), nil)
	s.policies.EXPECT().LoadPolicy(cwd).Return(domain.Policy{}, nil)
	s.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	s.registry.EXPECT().Versions(gomock.Any(), "libfoo").
		Return([]domain.SemanticVersion{domain.MustParseVersion("1.0.0")}, nil).AnyTimes()
	s.registry.EXPECT().DependenciesOf("libfoo", "1.0.0").Return(nil, nil).AnyTimes()
	s.registry.EXPECT().Locate("libfoo", "1.0.0").
		Return("https://example.com/libfoo.tar.gz", "beef", nil)
	s.locks.EXPECT().Load(gomock.Any()).Return(domain.NewLockfile(), nil)

	// The fetcher receives the located archive, never the bare registry source.
	result := domain.FetchResult{Path: t.TempDir(), Hash: "beef", Origin: "https://example.com/libfoo.tar.gz"}
	s.fetcher.EXPECT().Fetch(gomock.Any(), "libfoo", domain.ArchiveSource("https://example.com/libfoo.tar.gz", "beef"), domain.MustParseVersion("1.0.0")).
		Return(result, nil)
	s.store.EXPECT().IsCached("beef").Return(false)
	s.store.EXPECT().Store("beef", result.Path).Return(nil)
	s.locks.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.app().Install(context.Background(), cwd, app.InstallOptions{Jobs: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Fetched)
	assert.Zero(t, report.Cached)
}
