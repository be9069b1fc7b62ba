package deptree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keel/internal/core/domain"
	"go.trai.ch/keel/internal/ui/deptree"
)

func addNode(g *domain.DependencyGraph, name, version string, deps ...string) {
	node := domain.DependencyNode{
		Name:    domain.NewInternedString(name),
		Version: domain.MustParseVersion(version),
	}
	for _, dep := range deps {
		node.Dependencies = append(node.Dependencies, domain.NewInternedString(dep))
	}
	g.Add(node)
}

func TestBuild_SharedDependencyMarkedAsRepeat(t *testing.T) {
	g := domain.NewDependencyGraph()
	addNode(g, "app", "1.0.0", "libfoo", "libbar")
	addNode(g, "libfoo", "1.2.0", "zlib")
	addNode(g, "libbar", "2.0.0", "zlib")
	addNode(g, "zlib", "1.2.13")

	trees := deptree.Build(g, []string{"app"})
	require.Len(t, trees, 1)

	app := trees[0]
	require.Len(t, app.Children, 2)

	foo := app.Children[0]
	require.Len(t, foo.Children, 1)
	assert.Equal(t, "zlib", foo.Children[0].Name)
	assert.False(t, foo.Children[0].Repeat)

	// The second path to zlib is a leaf, not re-expanded.
	bar := app.Children[1]
	require.Len(t, bar.Children, 1)
	assert.True(t, bar.Children[0].Repeat)
	assert.Empty(t, bar.Children[0].Children)
}

func TestBuild_CyclicGraphTerminates(t *testing.T) {
	g := domain.NewDependencyGraph()
	addNode(g, "a", "1.0.0", "b")
	addNode(g, "b", "1.0.0", "a")

	trees := deptree.Build(g, []string{"a"})
	require.Len(t, trees, 1)

	a := trees[0]
	require.Len(t, a.Children, 1)
	b := a.Children[0]
	require.Len(t, b.Children, 1)
	assert.Equal(t, "a", b.Children[0].Name)
	assert.True(t, b.Children[0].Repeat)
}

func TestRender(t *testing.T) {
	g := domain.NewDependencyGraph()
	addNode(g, "app", "1.0.0", "libfoo", "libbar")
	addNode(g, "libfoo", "1.2.0", "zlib")
	addNode(g, "libbar", "2.0.0", "zlib")
	addNode(g, "zlib", "1.2.13")

	out := deptree.Render(deptree.Build(g, []string{"app"}))

	want := "app 1.0.0\n" +
		"├── libfoo 1.2.0\n" +
		"│   └── zlib 1.2.13\n" +
		"└── libbar 2.0.0\n" +
		"    └── zlib 1.2.13 (*)\n"
	assert.Equal(t, want, out)
}

func TestRender_UnknownRootHasNoVersion(t *testing.T) {
	out := deptree.Render(deptree.Build(domain.NewDependencyGraph(), []string{"ghost"}))
	assert.Equal(t, "ghost\n", out)
}
