package domain

import (
	"slices"
	"strings"
)

// DependencyNode is one resolved package in the dependency graph. Edges are
// held by name, not by pointer, so the graph itself never forms reference
// cycles in memory even when the dependencies do.
type DependencyNode struct {
	Name         InternedString
	Version      SemanticVersion
	Dependencies []InternedString
}

// DependencyGraph is a directed graph of resolved packages keyed by name.
type DependencyGraph struct {
	nodes map[InternedString]DependencyNode
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[InternedString]DependencyNode),
	}
}

// Add inserts a node, overwriting any existing node with the same name.
func (g *DependencyGraph) Add(node DependencyNode) {
	g.nodes[node.Name] = node
}

// Node returns the node with the given name, if present.
func (g *DependencyGraph) Node(name InternedString) (DependencyNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Len returns the number of nodes.
func (g *DependencyGraph) Len() int {
	return len(g.nodes)
}

// Names returns all node names sorted lexically, for deterministic iteration.
func (g *DependencyGraph) Names() []InternedString {
	names := make([]InternedString, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	slices.SortFunc(names, InternedString.Compare)
	return names
}

// CircularDependency is an ordered dependency path that returns to its start.
// The path always closes: the first and last element are the same package.
type CircularDependency struct {
	Cycle []InternedString
}

// String renders the cycle as "a -> b -> a".
func (c *CircularDependency) String() string {
	parts := make([]string, len(c.Cycle))
	for i, name := range c.Cycle {
		parts[i] = name.String()
	}
	return strings.Join(parts, " -> ")
}

// DetectCycle runs a depth-first search from every unvisited node, tracking
// the nodes on the current stack. The first time an on-stack neighbor is
// reached the closed path is returned and the scan stops; only one cycle is
// reported per call. Edges to names without a node are skipped. O(V+E).
func (g *DependencyGraph) DetectCycle() *CircularDependency {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)

	state := make(map[InternedString]int, len(g.nodes))
	var path []InternedString
	var found *CircularDependency

	var visit func(name InternedString)
	visit = func(name InternedString) {
		state[name] = onStack
		path = append(path, name)

		node := g.nodes[name]
		for _, dep := range node.Dependencies {
			if found != nil {
				return
			}
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			switch state[dep] {
			case onStack:
				found = closeCycle(path, dep)
				return
			case unvisited:
				visit(dep)
			}
		}

		state[name] = done
		path = path[:len(path)-1]
	}

	// Deterministic scan order so the same graph reports the same cycle.
	for _, name := range g.Names() {
		if state[name] == unvisited {
			path = path[:0]
			visit(name)
			if found != nil {
				return found
			}
		}
	}
	return nil
}

// closeCycle slices the current DFS path from the first occurrence of start
// and appends start again so the reported path closes on itself.
func closeCycle(path []InternedString, start InternedString) *CircularDependency {
	idx := slices.Index(path, start)
	cycle := make([]InternedString, 0, len(path)-idx+1)
	cycle = append(cycle, path[idx:]...)
	cycle = append(cycle, start)
	return &CircularDependency{Cycle: cycle}
}
