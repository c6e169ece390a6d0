package graph

// NodePredicate is a single boolean condition on a node.
type NodePredicate func(*Node) bool

// NodeFilter adds one predicate to a FindNodes query.
type NodeFilter func(*nodeQuery)

type nodeQuery struct {
	preds []NodePredicate
}

func (q *nodeQuery) match(n *Node) bool {
	for _, p := range q.preds {
		if !p(n) {
			return false
		}
	}
	return true
}

// WithName matches nodes whose name equals name.
func WithName(name string) NodeFilter {
	return func(q *nodeQuery) {
		q.preds = append(q.preds, func(n *Node) bool { return n.name == name })
	}
}

// WithCategory matches nodes whose category equals category.
func WithCategory(category string) NodeFilter {
	return func(q *nodeQuery) {
		q.preds = append(q.preds, func(n *Node) bool { return n.category == category })
	}
}

// WithProperty matches nodes holding value under key. Nodes without the key
// do not match.
func WithProperty(key string, value Value) NodeFilter {
	return func(q *nodeQuery) {
		q.preds = append(q.preds, propertyPredicate(key, value))
	}
}

// Where adds an arbitrary predicate.
func Where(p NodePredicate) NodeFilter {
	return func(q *nodeQuery) {
		q.preds = append(q.preds, p)
	}
}

func propertyPredicate(key string, value Value) NodePredicate {
	return func(n *Node) bool {
		v, ok := n.Lookup(key)
		return ok && v.Equal(value)
	}
}

// FindNodes returns the distinct nodes appearing as source or target in the
// adjacency index that satisfy every filter, in first-seen order.
//
// Calling FindNodes without filters returns an empty result rather than
// every node. Callers that want all members should use Nodes.
func (g *PropertyGraph) FindNodes(filters ...NodeFilter) []*Node {
	var q nodeQuery
	for _, f := range filters {
		f(&q)
	}
	if len(q.preds) == 0 {
		return nil
	}

	var found []*Node
	seen := make(map[string]struct{})
	visit := func(n *Node) {
		if _, ok := seen[n.id]; ok {
			return
		}
		seen[n.id] = struct{}{}
		if q.match(n) {
			found = append(found, n)
		}
	}
	for _, e := range g.entries {
		visit(e.source)
		visit(e.target)
	}
	return found
}

// EdgePredicate is a condition on an outgoing edge and its target.
type EdgePredicate func(target *Node, rel *Relationship) bool

// TargetCategory keeps edges whose target node has the given category.
func TargetCategory(category string) EdgePredicate {
	return func(t *Node, _ *Relationship) bool { return t.category == category }
}

// RelationshipCategory keeps edges labeled with the given category.
func RelationshipCategory(category string) EdgePredicate {
	return func(_ *Node, r *Relationship) bool { return r.category == category }
}

// TargetProperty keeps edges whose target holds value under key.
func TargetProperty(key string, value Value) EdgePredicate {
	p := propertyPredicate(key, value)
	return func(t *Node, _ *Relationship) bool { return p(t) }
}

// RelationshipProperty keeps edges whose relationship holds value under key.
func RelationshipProperty(key string, value Value) EdgePredicate {
	return func(_ *Node, r *Relationship) bool {
		v := r.Property(key)
		return !v.IsAbsent() && v.Equal(value)
	}
}

// Adjacent returns the direct successors of n. An empty nodeCategory or
// relCategory means that filter is not applied; supplied filters are ANDed.
// A node that is not in the graph has no successors.
func (g *PropertyGraph) Adjacent(n *Node, nodeCategory, relCategory string) []*Node {
	var preds []EdgePredicate
	if nodeCategory != "" {
		preds = append(preds, TargetCategory(nodeCategory))
	}
	if relCategory != "" {
		preds = append(preds, RelationshipCategory(relCategory))
	}
	return g.AdjacentWhere(n, preds...)
}

// AdjacentWhere returns the targets of n's outgoing edges that satisfy all
// predicates, in adjacency index order. A node that is not itself a member
// is matched by name against the member registered under that name.
func (g *PropertyGraph) AdjacentWhere(n *Node, preds ...EdgePredicate) []*Node {
	if n == nil {
		return nil
	}
	start, ok := g.nodes[n.id]
	if !ok {
		if start, ok = g.byName[n.name]; !ok {
			return nil
		}
	}
	var out []*Node
	g.out.scan(start.id, func(e *entry) bool {
		for _, p := range preds {
			if !p(e.target, e.rel) {
				return true
			}
		}
		out = append(out, e.target)
		return true
	})
	return out
}

// Subgraph returns a new graph holding every edge of g whose endpoints are
// both in nodes, each labeled by the original relationship (shared, not
// copied). Nodes without an induced edge are not part of the result.
func (g *PropertyGraph) Subgraph(nodes []*Node) *PropertyGraph {
	set := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if m, ok := g.member(n); ok {
			set = append(set, m)
		}
	}

	sub := New()
	for _, n := range set {
		for _, m := range set {
			if e, ok := g.pairs[pairKey{src: n.id, dst: m.id}]; ok {
				sub.AddRelationship(e.source, e.target, e.rel)
			}
		}
	}
	return sub
}
