package graph

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// scenario builds Reuben->Interstellar (Watched, rating 5),
// John->Interstellar (Watched) and John->Reuben (Knows).
func scenario() (g *PropertyGraph, reuben, john, interstellar *Node) {
	interstellar = NewNode("Interstellar", "Movie", map[string]Value{
		"genre": String("Sci-Fi"),
		"year":  Int(2014),
	})
	reuben = NewNode("Reuben", "Person", map[string]Value{"occupation": String("student")})
	john = NewNode("John", "Person", map[string]Value{"occupation": String("professor")})

	g = New()
	g.AddRelationship(reuben, interstellar, NewRelationship("Watched", map[string]Value{"rating": Int(5)}))
	g.AddRelationship(john, interstellar, NewRelationship("Watched", nil))
	g.AddRelationship(john, reuben, NewRelationship("Knows", nil))
	return g, reuben, john, interstellar
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func TestNodeProperty(t *testing.T) {
	n := NewNode("Top Gun", "Movie", map[string]Value{"rated": String("PG")})

	v, err := n.Property("rated")
	if err != nil {
		t.Fatalf("Property failed: %v", err)
	}
	if s, _ := v.AsString(); s != "PG" {
		t.Errorf("expected PG, got %v", v)
	}

	_, err = n.Property("year")
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("expected ErrPropertyNotFound, got %v", err)
	}

	n.SetProperty("year", Int(1986))
	if v, err := n.Property("year"); err != nil || !v.Equal(Int(1986)) {
		t.Errorf("SetProperty did not store value: %v, %v", v, err)
	}

	// Properties is a copy.
	props := n.Properties()
	props["rated"] = String("R")
	if v, _ := n.Property("rated"); !v.Equal(String("PG")) {
		t.Error("mutating Properties() leaked into the node")
	}
}

func TestAbsentPropertiesAreNotStored(t *testing.T) {
	n := NewNode("Top Gun", "Movie", map[string]Value{"rated": Absent, "year": Int(1986)})
	if _, err := n.Property("rated"); !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("absent value at construction should not be stored, got %v", err)
	}

	n.SetProperty("year", Absent)
	if _, err := n.Property("year"); !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("setting Absent should remove the key, got %v", err)
	}
	if len(n.Properties()) != 0 {
		t.Errorf("expected no properties, got %v", n.Properties())
	}
	if !n.Equal(NewNode("Top Gun", "Movie", nil)) {
		t.Error("node without stored properties should equal one built with none")
	}

	r := NewRelationship("Watched", map[string]Value{"rating": Absent})
	if _, ok := r.Properties()["rating"]; ok {
		t.Error("absent relationship value should not be stored")
	}
	r.SetProperty("rating", Int(5))
	r.SetProperty("rating", Absent)
	if len(r.Properties()) != 0 {
		t.Errorf("setting Absent should remove the key, got %v", r.Properties())
	}
}

func TestNodeEqual(t *testing.T) {
	a := NewNode("John", "Person", map[string]Value{"age": Int(40)})
	b := NewNode("John", "Person", map[string]Value{"age": Float(40)})
	c := NewNode("John", "Movie", map[string]Value{"age": Int(40)})

	if a.ID() == b.ID() {
		t.Fatal("generated IDs should differ")
	}
	if !a.Equal(b) {
		t.Error("nodes with equal fields should be Equal")
	}
	if a.Equal(c) {
		t.Error("nodes with different categories should not be Equal")
	}
}

func TestRelationshipPropertyAbsent(t *testing.T) {
	r := NewRelationship("Watched", map[string]Value{"rating": Int(4)})
	if v := r.Property("rating"); !v.Equal(Int(4)) {
		t.Errorf("expected rating 4, got %v", v)
	}
	if v := r.Property("missing"); !v.IsAbsent() {
		t.Errorf("expected absent value, got %v", v)
	}
	if r.String() != "Watched" {
		t.Errorf("unexpected String(): %s", r.String())
	}
}

func TestAddRelationshipOnce(t *testing.T) {
	n := NewNode("n", "A", nil)
	m := NewNode("m", "B", nil)
	r := NewRelationship("R", nil)

	g := New()
	g.AddRelationship(n, m, r)

	if got := g.Adjacent(n, "", ""); len(got) != 1 || got[0] != m {
		t.Fatalf("Adjacent should contain m exactly once, got %v", got)
	}

	count := 0
	for e := range g.Edges() {
		if e.Source == n && e.Target == m && e.Relationship == r {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected edge triple exactly once, got %d", count)
	}
}

func TestAddRelationshipOverwrite(t *testing.T) {
	n := NewNode("n", "A", nil)
	m := NewNode("m", "B", nil)
	other := NewNode("o", "B", nil)
	r1 := NewRelationship("First", nil)
	r2 := NewRelationship("Second", nil)

	g := New()
	g.AddRelationship(n, m, r1)
	g.AddRelationship(n, other, r1)
	g.AddRelationship(n, m, r2)

	if g.EdgeCount() != 2 {
		t.Fatalf("expected 2 edges, got %d", g.EdgeCount())
	}
	rel, ok := g.Relationship(n, m)
	if !ok || rel != r2 {
		t.Errorf("last write should win, got %v", rel)
	}

	// The overwritten slot keeps its original position.
	var first Edge
	for e := range g.Edges() {
		first = e
		break
	}
	if first.Target != m || first.Relationship != r2 {
		t.Errorf("unexpected first edge: %v -> %v [%v]", first.Source, first.Target, first.Relationship)
	}
}

func TestDirected(t *testing.T) {
	g, reuben, john, _ := scenario()

	if got := g.Adjacent(john, "Person", "Knows"); !slices.Equal(names(got), []string{"Reuben"}) {
		t.Errorf("John knows: got %v", names(got))
	}
	if got := g.Adjacent(reuben, "Person", "Knows"); len(got) != 0 {
		t.Errorf("reverse direction should be empty, got %v", names(got))
	}
}

func TestSelfLoop(t *testing.T) {
	n := NewNode("Narcissus", "Person", nil)
	g := New()
	g.AddRelationship(n, n, NewRelationship("Knows", nil))

	if got := g.Adjacent(n, "Person", "Knows"); len(got) != 1 || got[0] != n {
		t.Errorf("self-loop not returned: %v", names(got))
	}
	if g.NodeCount() != 1 {
		t.Errorf("expected 1 node, got %d", g.NodeCount())
	}
}

func TestAddNodeIdempotent(t *testing.T) {
	n := NewNode("Laney", "Person", nil)
	g := New()
	g.AddNode(n)
	g.AddNode(n)

	if g.NodeCount() != 1 || g.EdgeCount() != 0 {
		t.Fatalf("expected 1 node and 0 edges, got %d/%d", g.NodeCount(), g.EdgeCount())
	}
	if !g.HasNode(n) {
		t.Error("HasNode should report the registered node")
	}
	if got, ok := g.NodeByName("Laney"); !ok || got != n {
		t.Error("NodeByName should resolve the registered node")
	}
	// Isolated nodes are members but do not appear in the adjacency index.
	if got := g.FindNodes(WithName("Laney")); len(got) != 0 {
		t.Errorf("isolated node should not be found via the index, got %v", names(got))
	}
}

func TestBuild(t *testing.T) {
	a := NewNode("a", "X", nil)
	b := NewNode("b", "X", nil)
	c := NewNode("c", "X", nil)
	r := NewRelationship("R", nil)

	g := Build([]*Node{c}, []Edge{{Source: a, Target: b, Relationship: r}})

	if !slices.Equal(names(g.Nodes()), []string{"c", "a", "b"}) {
		t.Errorf("unexpected registration order: %v", names(g.Nodes()))
	}
	if g.EdgeCount() != 1 {
		t.Errorf("expected 1 edge, got %d", g.EdgeCount())
	}
}

func TestEdgesRestartable(t *testing.T) {
	g, _, _, _ := scenario()
	seq := g.Edges()

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	if first != 3 || second != 3 {
		t.Errorf("expected 3 edges on each pass, got %d and %d", first, second)
	}
}

func TestString(t *testing.T) {
	g, _, _, _ := scenario()
	s := g.String()
	if !strings.Contains(s, "[(John, Reuben)] => [Knows]") {
		t.Errorf("unexpected repr:\n%s", s)
	}
	if strings.Count(s, "\n") != 3 {
		t.Errorf("expected one line per edge:\n%s", s)
	}
}
