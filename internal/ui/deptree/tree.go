// Package deptree renders a resolved dependency graph as a human-readable
// tree.
package deptree

import (
	"fmt"
	"strings"

	"go.trai.ch/keel/internal/core/domain"
)

// Node is one rendered package. Children are owned by their parent; repeat
// visits are marked by name only, so the tree itself never cycles in memory.
type Node struct {
	Name     string
	Version  string
	Repeat   bool
	Children []*Node
}

// Build constructs display trees for the given roots. The first time a
// package is shown its children are expanded; later occurrences become
// leaves marked as repeats. Purely cosmetic: cycle detection belongs to
// the graph, not the renderer.
func Build(graph *domain.DependencyGraph, roots []string) []*Node {
	shown := make(map[string]bool)

	var build func(name string) *Node
	build = func(name string) *Node {
		node := &Node{Name: name}

		gn, ok := graph.Node(domain.NewInternedString(name))
		if ok {
			node.Version = gn.Version.String()
		}
		if shown[name] {
			node.Repeat = true
			return node
		}
		shown[name] = true

		if ok {
			for _, dep := range gn.Dependencies {
				node.Children = append(node.Children, build(dep.String()))
			}
		}
		return node
	}

	trees := make([]*Node, 0, len(roots))
	for _, root := range roots {
		trees = append(trees, build(root))
	}
	return trees
}

// Render writes the trees with box-drawing connectors.
func Render(trees []*Node) string {
	var b strings.Builder
	for _, tree := range trees {
		writeNode(&b, tree, "", true, true)
	}
	return b.String()
}

func writeNode(b *strings.Builder, node *Node, prefix string, last, root bool) {
	if !root {
		connector := "├── "
		if last {
			connector = "└── "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
	}

	label := node.Name
	if node.Version != "" {
		label = fmt.Sprintf("%s %s", node.Name, node.Version)
	}
	if node.Repeat {
		label += " (*)"
	}
	b.WriteString(label)
	b.WriteByte('\n')

	childPrefix := prefix
	if !root {
		if last {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}
	for i, child := range node.Children {
		writeNode(b, child, childPrefix, i == len(node.Children)-1, false)
	}
}
