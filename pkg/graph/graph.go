// Package graph implements an in-memory property graph: categorized,
// attributed nodes connected by categorized, attributed directed
// relationships.
//
// The graph's only storage structure is the adjacency index, which maps an
// ordered (source, target) node pair to the Relationship labeling that edge.
// Iteration over the index follows first-insertion order; overwriting an
// existing pair keeps its original position.
//
// A PropertyGraph is not safe for concurrent mutation. Use engine.Engine
// when the graph is shared between goroutines.
//
// Basic usage:
//
//	john := graph.NewNode("John", "Person", nil)
//	movie := graph.NewNode("Interstellar", "Movie", nil)
//	g := graph.New()
//	g.AddRelationship(john, movie, graph.NewRelationship("Watched", nil))
//	movies := g.Adjacent(john, "Movie", "Watched")
package graph

import (
	"fmt"
	"iter"
	"strings"
)

// Edge is one adjacency index entry, as exposed to export collaborators.
type Edge struct {
	Source       *Node
	Target       *Node
	Relationship *Relationship
}

// PropertyGraph owns the node set and the adjacency index.
type PropertyGraph struct {
	nodes     map[string]*Node // by ID
	nodeOrder []*Node
	byName    map[string]*Node // first node registered under a name

	pairs   map[pairKey]*entry
	entries []*entry // insertion order
	out     *outIndex
	seq     uint64
}

// New returns an empty graph.
func New() *PropertyGraph {
	return &PropertyGraph{
		nodes:  make(map[string]*Node),
		byName: make(map[string]*Node),
		pairs:  make(map[pairKey]*entry),
		out:    newOutIndex(),
	}
}

// Build creates a graph from an initial node list and edge list, applied
// through AddNode and AddRelationship in sequence order.
func Build(nodes []*Node, edges []Edge) *PropertyGraph {
	g := New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		g.AddRelationship(e.Source, e.Target, e.Relationship)
	}
	return g
}

// AddNode registers n with no edges. Adding a node that is already a member,
// either the same ID or a node Equal to the one registered under its name,
// is a no-op.
func (g *PropertyGraph) AddNode(n *Node) {
	if n == nil {
		return
	}
	g.intern(n)
}

// intern returns the member node for n, registering n first if the graph has
// no such member.
func (g *PropertyGraph) intern(n *Node) *Node {
	if m, ok := g.member(n); ok {
		return m
	}
	g.nodes[n.id] = n
	g.nodeOrder = append(g.nodeOrder, n)
	if _, taken := g.byName[n.name]; !taken {
		g.byName[n.name] = n
	}
	return n
}

// member resolves n to the graph's own node: the node with n's ID, or the
// node registered under n's name when the two are Equal.
func (g *PropertyGraph) member(n *Node) (*Node, bool) {
	if m, ok := g.nodes[n.id]; ok {
		return m, true
	}
	if m, ok := g.byName[n.name]; ok && m.Equal(n) {
		return m, true
	}
	return nil, false
}

// AddRelationship labels the directed edge src -> dst with rel, replacing
// any relationship previously stored for that ordered pair. Both endpoints
// become graph members; an endpoint Equal to an existing member stands for
// that member. Self-loops are allowed.
func (g *PropertyGraph) AddRelationship(src, dst *Node, rel *Relationship) {
	if src == nil || dst == nil || rel == nil {
		return
	}
	src = g.intern(src)
	dst = g.intern(dst)

	key := pairKey{src: src.id, dst: dst.id}
	if e, ok := g.pairs[key]; ok {
		e.rel = rel
		return
	}

	g.seq++
	e := &entry{seq: g.seq, source: src, target: dst, rel: rel}
	g.pairs[key] = e
	g.entries = append(g.entries, e)
	g.out.insert(e)
}

// Edges yields one Edge per adjacency index entry, in index order. The
// sequence is lazy and may be ranged over any number of times.
func (g *PropertyGraph) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, e := range g.entries {
			if !yield(e.edge()) {
				return
			}
		}
	}
}

// Relationship returns the relationship labeling src -> dst.
func (g *PropertyGraph) Relationship(src, dst *Node) (*Relationship, bool) {
	if src == nil || dst == nil {
		return nil, false
	}
	s, ok := g.member(src)
	if !ok {
		return nil, false
	}
	d, ok := g.member(dst)
	if !ok {
		return nil, false
	}
	e, ok := g.pairs[pairKey{src: s.id, dst: d.id}]
	if !ok {
		return nil, false
	}
	return e.rel, true
}

// Nodes returns every member node in registration order, including nodes
// added through AddNode that have no edges.
func (g *PropertyGraph) Nodes() []*Node {
	out := make([]*Node, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// Node returns the member node with the given ID.
func (g *PropertyGraph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeByName returns the first member node registered under name.
func (g *PropertyGraph) NodeByName(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// HasNode reports whether n, or a node Equal to it under the same name, is a
// member.
func (g *PropertyGraph) HasNode(n *Node) bool {
	if n == nil {
		return false
	}
	_, ok := g.member(n)
	return ok
}

func (g *PropertyGraph) NodeCount() int { return len(g.nodes) }
func (g *PropertyGraph) EdgeCount() int { return len(g.entries) }

// String renders one "[(source, target)] => [relationship]" line per edge.
func (g *PropertyGraph) String() string {
	var b strings.Builder
	for _, e := range g.entries {
		fmt.Fprintf(&b, "[(%s, %s)] => [%s]\n", e.source, e.target, e.rel)
	}
	return b.String()
}
