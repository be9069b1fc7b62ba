package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/engine/policy"
)

func dep(name string, source domain.Source) domain.Dependency {
	return domain.Dependency{
		Name:       domain.NewInternedString(name),
		Source:     source,
		Constraint: domain.AnyConstraint(),
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name, pattern string
		want          bool
	}{
		{"foo/bar/baz", "foo/*", true},
		{"foo", "foo/*", false},
		{"foobar", "foo*", true},
		{"barfoo", "foo*", false},
		{"exact", "exact", true},
		{"exactly", "exact", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.Match(tt.name, tt.pattern), "%s vs %s", tt.name, tt.pattern)
	}
}

func TestValidate_DenyWins(t *testing.T) {
	// A name matching both an allow and a deny pattern is always rejected.
	e := policy.New(domain.Policy{
		Allow: []string{"corp/*"},
		Deny:  []string{"corp/legacy*"},
	})

	result := e.Validate(dep("corp/legacy-auth", domain.RegistrySource()))
	require.False(t, result.Allowed)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0].Message, "denied")

	assert.True(t, e.Validate(dep("corp/modern", domain.RegistrySource())).Allowed)
}

func TestValidate_WhitelistMode(t *testing.T) {
	e := policy.New(domain.Policy{Allow: []string{"corp/*", "stdlib"}})

	assert.True(t, e.Validate(dep("corp/tool", domain.RegistrySource())).Allowed)
	assert.True(t, e.Validate(dep("stdlib", domain.RegistrySource())).Allowed)

	result := e.Validate(dep("random/pkg", domain.RegistrySource()))
	require.False(t, result.Allowed)
	assert.Len(t, result.Violations, 1)
}

func TestValidate_RequireHash(t *testing.T) {
	e := policy.New(domain.Policy{RequireHash: true})

	// Archive without a declared hash fails.
	result := e.Validate(dep("pkg", domain.ArchiveSource("https://example.com/a.tar", "")))
	require.False(t, result.Allowed)

	// Archive with a hash passes.
	assert.True(t, e.Validate(dep("pkg", domain.ArchiveSource("https://example.com/a.tar", "abcd"))).Allowed)

	// Git is pinned by commit, not digest, so the rule does not apply.
	assert.True(t, e.Validate(dep("pkg", domain.GitSource("https://example.com/r.git", "main"))).Allowed)
}

func TestAudit_IndependentValidation(t *testing.T) {
	e := policy.New(domain.Policy{Deny: []string{"bad*"}})

	report := e.Audit([]domain.Dependency{
		dep("good-one", domain.RegistrySource()),
		dep("bad-apple", domain.RegistrySource()),
		dep("good-two", domain.RegistrySource()),
		dep("bad-seed", domain.RegistrySource()),
	})

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Violations, 2)
	assert.Equal(t, "bad-apple", report.Violations[0].Package)
	assert.Equal(t, "bad-seed", report.Violations[1].Package)
}

func TestAudit_EmptyPolicyAllowsEverything(t *testing.T) {
	e := policy.New(domain.Policy{})
	report := e.Audit([]domain.Dependency{
		dep("anything", domain.RegistrySource()),
		dep("at/all", domain.LocalSource("/tmp/x")),
	})
	assert.Equal(t, 2, report.Passed)
	assert.Zero(t, report.Failed)
}
