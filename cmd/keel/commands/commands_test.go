package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keel/cmd/keel/commands"
	"go.trai.ch/keel/internal/app"
	"go.trai.ch/keel/internal/build"
	"go.trai.ch/keel/internal/core/domain"
)

type mockApp struct {
	installFunc func(ctx context.Context, cwd string, opts app.InstallOptions) (*app.InstallReport, error)
	resolveFunc func(ctx context.Context, cwd string) (*app.ResolutionReport, error)
	auditFunc   func(cwd string) (domain.AuditReport, error)
	cleanFunc   func(cwd string) ([]string, error)
	doctorFunc  func() ([]string, error)
	staleFunc   func(cwd string) (bool, error)
}

func (m *mockApp) Install(ctx context.Context, cwd string, opts app.InstallOptions) (*app.InstallReport, error) {
	if m.installFunc != nil {
		return m.installFunc(ctx, cwd, opts)
	}
	return &app.InstallReport{}, nil
}

func (m *mockApp) Resolve(ctx context.Context, cwd string) (*app.ResolutionReport, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, cwd)
	}
	return &app.ResolutionReport{}, nil
}

func (m *mockApp) Audit(cwd string) (domain.AuditReport, error) {
	if m.auditFunc != nil {
		return m.auditFunc(cwd)
	}
	return domain.AuditReport{}, nil
}

func (m *mockApp) Clean(cwd string) ([]string, error) {
	if m.cleanFunc != nil {
		return m.cleanFunc(cwd)
	}
	return nil, nil
}

func (m *mockApp) Doctor() ([]string, error) {
	if m.doctorFunc != nil {
		return m.doctorFunc()
	}
	return nil, nil
}

func (m *mockApp) Stale(cwd string) (bool, error) {
	if m.staleFunc != nil {
		return m.staleFunc(cwd)
	}
	return false, nil
}

func execute(t *testing.T, mock *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Install(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedDir string
		var capturedOpts app.InstallOptions

		mock := &mockApp{
			installFunc: func(_ context.Context, cwd string, opts app.InstallOptions) (*app.InstallReport, error) {
				capturedDir = cwd
				capturedOpts = opts
				return &app.InstallReport{Resolved: 3, Fetched: 2, Cached: 1, LockfilePath: "/proj/keel.lock"}, nil
			},
		}

		out, err := execute(t, mock, "install", "-C", "/proj", "--jobs", "4")
		require.NoError(t, err)
		assert.Equal(t, "/proj", capturedDir)
		assert.Equal(t, 4, capturedOpts.Jobs)
		assert.Contains(t, out, "resolved 3 packages (2 fetched, 1 cached)")
		assert.Contains(t, out, "wrote /proj/keel.lock")
	})

	t.Run("returns error on install failure", func(t *testing.T) {
		mock := &mockApp{
			installFunc: func(_ context.Context, _ string, _ app.InstallOptions) (*app.InstallReport, error) {
				return nil, errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "install")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Resolve(t *testing.T) {
	t.Run("prints packages and tree", func(t *testing.T) {
		mock := &mockApp{
			resolveFunc: func(_ context.Context, _ string) (*app.ResolutionReport, error) {
				return &app.ResolutionReport{
					Packages: []domain.ResolvedPackage{
						{Name: domain.NewInternedString("libfoo"), Version: domain.MustParseVersion("1.1.0")},
					},
					Tree: "libfoo 1.1.0\n",
				}, nil
			},
		}

		out, err := execute(t, mock, "resolve")
		require.NoError(t, err)
		assert.Contains(t, out, "libfoo 1.1.0")
	})

	t.Run("prints conflicts before failing", func(t *testing.T) {
		conflict := domain.Conflict{
			Package: domain.NewInternedString("zlib"),
			First: domain.Requirement{
				Constraint:  domain.MustParseConstraint("^1.0.0"),
				RequestedBy: domain.NewInternedString("libfoo"),
			},
			Second: domain.Requirement{
				Constraint:  domain.MustParseConstraint("^2.0.0"),
				RequestedBy: domain.NewInternedString("libbar"),
			},
		}
		mock := &mockApp{
			resolveFunc: func(_ context.Context, _ string) (*app.ResolutionReport, error) {
				return &app.ResolutionReport{Conflicts: []domain.Conflict{conflict}},
					domain.ErrConflictsDetected
			},
		}

		out, err := execute(t, mock, "resolve")
		require.Error(t, err)
		assert.Contains(t, out, "conflict: zlib requires ^1.0.0 (libfoo) and ^2.0.0 (libbar)")
	})

	t.Run("prints conflicts found during expansion", func(t *testing.T) {
		conflict := domain.Conflict{
			Package: domain.NewInternedString("zlib"),
			First: domain.Requirement{
				Constraint:  domain.MustParseConstraint("^1.0.0"),
				RequestedBy: domain.NewInternedString("libfoo"),
			},
			Second: domain.Requirement{
				Constraint:  domain.MustParseConstraint("^2.0.0"),
				RequestedBy: domain.NewInternedString("libbar"),
			},
		}
		mock := &mockApp{
			resolveFunc: func(_ context.Context, _ string) (*app.ResolutionReport, error) {
				return &app.ResolutionReport{Conflicts: []domain.Conflict{conflict}},
					domain.ErrVersionConflict
			},
		}

		out, err := execute(t, mock, "resolve")
		require.Error(t, err)
		assert.EqualError(t, err, "resolution failed")
		assert.Contains(t, out, "conflict: zlib requires ^1.0.0 (libfoo) and ^2.0.0 (libbar)")
	})

	t.Run("prints cycle before failing", func(t *testing.T) {
		cycle := &domain.CircularDependency{Cycle: []domain.InternedString{
			domain.NewInternedString("a"),
			domain.NewInternedString("b"),
			domain.NewInternedString("a"),
		}}
		mock := &mockApp{
			resolveFunc: func(_ context.Context, _ string) (*app.ResolutionReport, error) {
				return &app.ResolutionReport{Cycle: cycle}, domain.ErrCycleDetected
			},
		}

		out, err := execute(t, mock, "resolve")
		require.Error(t, err)
		assert.Contains(t, out, "cycle: a -> b -> a")
	})

	t.Run("hints at stale lockfile", func(t *testing.T) {
		mock := &mockApp{
			staleFunc: func(_ string) (bool, error) { return true, nil },
		}

		out, err := execute(t, mock, "resolve")
		require.NoError(t, err)
		assert.Contains(t, out, "keel.lock is out of date")
	})
}

func TestCommands_Audit(t *testing.T) {
	t.Run("fails when violations exist", func(t *testing.T) {
		mock := &mockApp{
			auditFunc: func(_ string) (domain.AuditReport, error) {
				return domain.AuditReport{
					Total:  2,
					Passed: 1,
					Failed: 1,
					Violations: []domain.Violation{
						{Package: "libbar", Message: "denied by policy"},
					},
				}, nil
			},
		}

		out, err := execute(t, mock, "audit")
		require.Error(t, err)
		assert.Contains(t, out, "violation: libbar: denied by policy")
		assert.Contains(t, out, "audited 2 dependencies: 1 passed, 1 failed")
	})

	t.Run("passes on clean report", func(t *testing.T) {
		mock := &mockApp{
			auditFunc: func(_ string) (domain.AuditReport, error) {
				return domain.AuditReport{Total: 2, Passed: 2}, nil
			},
		}

		_, err := execute(t, mock, "audit")
		require.NoError(t, err)
	})
}

func TestCommands_Clean(t *testing.T) {
	mock := &mockApp{
		cleanFunc: func(_ string) ([]string, error) {
			return []string{"aaaa", "bbbb"}, nil
		},
	}

	out, err := execute(t, mock, "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "removed aaaa")
	assert.Contains(t, out, "removed 2 cache entries")
}

func TestCommands_Doctor(t *testing.T) {
	t.Run("healthy cache", func(t *testing.T) {
		out, err := execute(t, &mockApp{}, "doctor")
		require.NoError(t, err)
		assert.Contains(t, out, "cache is healthy")
	})

	t.Run("reports unreadable files", func(t *testing.T) {
		mock := &mockApp{
			doctorFunc: func() ([]string, error) {
				return []string{"/cache/deps/aa/bb/broken"}, nil
			},
		}

		out, err := execute(t, mock, "doctor")
		require.NoError(t, err)
		assert.Contains(t, out, "unreadable: /cache/deps/aa/bb/broken")
	})
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
