// Package engine provides a concurrency-safe wrapper around a
// graph.PropertyGraph.
//
// Mutations (AddNode, AddRelationship, property updates) take an exclusive
// lock; queries (FindNodes, Adjacent, Subgraph, Edges) share a read lock and
// may run in parallel with each other. Every operation is counted in the
// Prometheus metrics of pkg/metrics.
//
// Basic usage:
//
//	eng := engine.New(graph.New())
//	eng.AddRelationship(john, movie, graph.NewRelationship("Watched", nil))
//	movies := eng.Adjacent(john, "Movie", "Watched")
package engine

import (
	"log/slog"
	"sync"

	"github.com/sanonone/propgraph/pkg/graph"
	"github.com/sanonone/propgraph/pkg/metrics"
)

// Stats is a point-in-time summary of the graph size.
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// Engine guards a PropertyGraph with a read-write mutex.
type Engine struct {
	mu sync.RWMutex
	g  *graph.PropertyGraph
}

// New wraps g. The caller must not mutate g directly afterwards.
func New(g *graph.PropertyGraph) *Engine {
	if g == nil {
		g = graph.New()
	}
	e := &Engine{g: g}
	e.updateGauges()
	return e
}

// --- Mutations ---

func (e *Engine) AddNode(n *graph.Node) {
	if n == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.g.AddNode(n)
	metrics.GraphOperationsTotal.WithLabelValues("add_node").Inc()
	e.updateGauges()
	slog.Debug("Node added", "name", n.Name(), "category", n.Category(), "id", n.ID())
}

// AddUniqueNode adds n only if neither its ID nor its name is already in
// use. It reports whether n was added.
func (e *Engine) AddUniqueNode(n *graph.Node) bool {
	if n == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, taken := e.g.NodeByName(n.Name()); taken || e.g.HasNode(n) {
		return false
	}
	e.g.AddNode(n)
	metrics.GraphOperationsTotal.WithLabelValues("add_node").Inc()
	e.updateGauges()
	slog.Debug("Node added", "name", n.Name(), "category", n.Category(), "id", n.ID())
	return true
}

func (e *Engine) AddRelationship(src, dst *graph.Node, rel *graph.Relationship) {
	if src == nil || dst == nil || rel == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.g.AddRelationship(src, dst, rel)
	metrics.GraphOperationsTotal.WithLabelValues("add_relationship").Inc()
	e.updateGauges()
	slog.Debug("Relationship added", "source", src.Name(), "target", dst.Name(), "category", rel.Category())
}

// SetNodeProperty updates a node property under the write lock, so readers
// never observe a concurrent map write.
func (e *Engine) SetNodeProperty(n *graph.Node, key string, value graph.Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n.SetProperty(key, value)
	metrics.GraphOperationsTotal.WithLabelValues("set_property").Inc()
}

// SetRelationshipProperty is the relationship counterpart of SetNodeProperty.
func (e *Engine) SetRelationshipProperty(r *graph.Relationship, key string, value graph.Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r.SetProperty(key, value)
	metrics.GraphOperationsTotal.WithLabelValues("set_property").Inc()
}

// --- Queries ---

func (e *Engine) FindNodes(filters ...graph.NodeFilter) []*graph.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	metrics.GraphOperationsTotal.WithLabelValues("find_nodes").Inc()
	return e.g.FindNodes(filters...)
}

func (e *Engine) Adjacent(n *graph.Node, nodeCategory, relCategory string) []*graph.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	metrics.GraphOperationsTotal.WithLabelValues("adjacent").Inc()
	return e.g.Adjacent(n, nodeCategory, relCategory)
}

func (e *Engine) AdjacentWhere(n *graph.Node, preds ...graph.EdgePredicate) []*graph.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	metrics.GraphOperationsTotal.WithLabelValues("adjacent").Inc()
	return e.g.AdjacentWhere(n, preds...)
}

// Subgraph returns a new, unshared PropertyGraph of the induced edges.
func (e *Engine) Subgraph(nodes []*graph.Node) *graph.PropertyGraph {
	e.mu.RLock()
	defer e.mu.RUnlock()
	metrics.GraphOperationsTotal.WithLabelValues("subgraph").Inc()
	return e.g.Subgraph(nodes)
}

// Edges returns a snapshot of the adjacency index taken under the read lock.
func (e *Engine) Edges() []graph.Edge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	metrics.GraphOperationsTotal.WithLabelValues("edges").Inc()

	out := make([]graph.Edge, 0, e.g.EdgeCount())
	for edge := range e.g.Edges() {
		out = append(out, edge)
	}
	return out
}

func (e *Engine) Nodes() []*graph.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.Nodes()
}

func (e *Engine) NodeByName(name string) (*graph.Node, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.NodeByName(name)
}

func (e *Engine) Relationship(src, dst *graph.Node) (*graph.Relationship, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.g.Relationship(src, dst)
}

func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{Nodes: e.g.NodeCount(), Edges: e.g.EdgeCount()}
}

// View runs fn with the underlying graph under the read lock. fn must not
// mutate the graph or retain it after returning.
func (e *Engine) View(fn func(g *graph.PropertyGraph)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.g)
}

// updateGauges must be called with the write lock held (or before sharing).
func (e *Engine) updateGauges() {
	metrics.GraphNodes.Set(float64(e.g.NodeCount()))
	metrics.GraphEdges.Set(float64(e.g.EdgeCount()))
}
