package domain_test

import (
	"testing"

	"go.trai.ch/keel/internal/core/domain"
)

func node(name string, deps ...string) domain.DependencyNode {
	n := domain.DependencyNode{
		Name:    domain.NewInternedString(name),
		Version: domain.MustParseVersion("1.0.0"),
	}
	for _, dep := range deps {
		n.Dependencies = append(n.Dependencies, domain.NewInternedString(dep))
	}
	return n
}

func TestDetectCycle_Triangle(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.Add(node("A", "B"))
	g.Add(node("B", "C"))
	g.Add(node("C", "A"))

	cycle := g.DetectCycle()
	if cycle == nil {
		t.Fatal("expected a cycle, got nil")
	}

	path := cycle.Cycle
	if len(path) < 2 {
		t.Fatalf("cycle too short: %v", path)
	}
	if path[0] != path[len(path)-1] {
		t.Errorf("cycle path does not close: %s", cycle)
	}

	members := make(map[string]bool)
	for _, name := range path {
		members[name.String()] = true
	}
	for _, want := range []string{"A", "B", "C"} {
		if !members[want] {
			t.Errorf("cycle %s missing member %s", cycle, want)
		}
	}
}

func TestDetectCycle_Acyclic(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.Add(node("A", "B", "C"))
	g.Add(node("B", "C"))
	g.Add(node("C"))

	if cycle := g.DetectCycle(); cycle != nil {
		t.Errorf("expected no cycle, got %s", cycle)
	}
}

func TestDetectCycle_SelfLoop(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.Add(node("A", "A"))

	cycle := g.DetectCycle()
	if cycle == nil {
		t.Fatal("expected a cycle, got nil")
	}
	if got := cycle.String(); got != "A -> A" {
		t.Errorf("expected A -> A, got %s", got)
	}
}

func TestDetectCycle_MissingEdgeTargetIgnored(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.Add(node("A", "ghost"))

	if cycle := g.DetectCycle(); cycle != nil {
		t.Errorf("expected no cycle, got %s", cycle)
	}
}

func TestAdd_Overwrites(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.Add(node("A", "B"))
	g.Add(node("A"))

	n, ok := g.Node(domain.NewInternedString("A"))
	if !ok {
		t.Fatal("node A missing")
	}
	if len(n.Dependencies) != 0 {
		t.Errorf("expected overwritten node to have no edges, got %v", n.Dependencies)
	}
	if g.Len() != 1 {
		t.Errorf("expected 1 node, got %d", g.Len())
	}
}
