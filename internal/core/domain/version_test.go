package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keel/internal/core/domain"
)

func TestParseVersion_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"0.0.0",
		"1.2.3",
		"10.20.30",
		"1.2.3-alpha.1",
		"1.2.3+build.5",
		"1.2.3-rc.1+build.5",
	} {
		v, err := domain.ParseVersion(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, v.String())

		again, err := domain.ParseVersion(v.String())
		require.NoError(t, err)
		assert.Zero(t, v.Compare(again))
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"1",
		"1.2",
		"1.2.3.4",
		"a.b.c",
		"1.2.x",
		"-1.2.3",
		"01.2.3",
	} {
		_, err := domain.ParseVersion(s)
		assert.Error(t, err, s)
	}
}

func TestCompare_Ordering(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"2.1.0", "2.0.9", 1},
		{"1.2.3", "1.2.4", -1},
		// A release outranks any prerelease at the same triple.
		{"1.0.0", "1.0.0-alpha", 1},
		{"1.0.0-alpha", "1.0.0", -1},
		// Two prereleases fall back to lexical order.
		{"1.0.0-alpha", "1.0.0-beta", -1},
		// Build metadata never participates.
		{"1.0.0+a", "1.0.0+b", 0},
	}

	for _, tt := range tests {
		a := domain.MustParseVersion(tt.a)
		b := domain.MustParseVersion(tt.b)

		got := a.Compare(b)
		switch {
		case tt.want < 0:
			assert.Negative(t, got, "%s vs %s", tt.a, tt.b)
		case tt.want > 0:
			assert.Positive(t, got, "%s vs %s", tt.a, tt.b)
		default:
			assert.Zero(t, got, "%s vs %s", tt.a, tt.b)
		}

		// Antisymmetry.
		back := b.Compare(a)
		assert.Equal(t, sign(got), -sign(back))
	}
}

func TestCompare_ConsistentWithGte(t *testing.T) {
	bound := domain.MustParseVersion("1.5.0")
	gte, err := domain.ParseConstraint(">=1.5.0")
	require.NoError(t, err)

	for _, s := range []string{"1.4.9", "1.5.0", "1.5.1", "2.0.0", "1.5.0-rc.1"} {
		w := domain.MustParseVersion(s)
		assert.Equal(t, w.Compare(bound) >= 0, gte.Satisfies(w), s)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
