package export

import (
	"fmt"
	"iter"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"

	"github.com/sanonone/propgraph/pkg/graph"
)

// dotNode adapts a graph.Node to gonum's node and DOT interfaces.
type dotNode struct {
	id    int64
	node  *graph.Node
	color string
}

func (n dotNode) ID() int64     { return n.id }
func (n dotNode) DOTID() string { return n.node.Name() }

func (n dotNode) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{{Key: "category", Value: n.node.Category()}}
	if n.color != "" {
		attrs = append(attrs,
			encoding.Attribute{Key: "style", Value: "filled"},
			encoding.Attribute{Key: "fillcolor", Value: n.color},
		)
	}
	return attrs
}

// dotLine is a directed edge labeled with its relationship category. A
// multigraph is used so self-loops can be rendered.
type dotLine struct {
	id       int64
	from, to dotNode
	label    string
}

func (l dotLine) ID() int64             { return l.id }
func (l dotLine) From() gonumgraph.Node { return l.from }
func (l dotLine) To() gonumgraph.Node   { return l.to }

func (l dotLine) ReversedLine() gonumgraph.Line {
	return dotLine{id: l.id, from: l.to, to: l.from, label: l.label}
}

func (l dotLine) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: l.label}}
}

// DOT renders the edges as a Graphviz digraph. Nodes are colored with
// Colors(edges, scheme) and edges are labeled with relationship categories.
// Only nodes that appear in an edge are emitted.
func DOT(edges iter.Seq[graph.Edge], name string, scheme map[string]EndpointColors) ([]byte, error) {
	colors := make(map[string]string)
	for _, nc := range Colors(edges, scheme) {
		colors[nc.Node.ID()] = nc.Color
	}

	g := multi.NewDirectedGraph()
	nodes := make(map[string]dotNode)
	nodeFor := func(n *graph.Node) dotNode {
		if dn, ok := nodes[n.ID()]; ok {
			return dn
		}
		dn := dotNode{id: int64(len(nodes)), node: n, color: colors[n.ID()]}
		nodes[n.ID()] = dn
		g.AddNode(dn)
		return dn
	}

	var lineID int64
	for e := range edges {
		from := nodeFor(e.Source)
		to := nodeFor(e.Target)
		g.SetLine(dotLine{id: lineID, from: from, to: to, label: e.Relationship.Category()})
		lineID++
	}

	out, err := dot.MarshalMulti(g, name, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode DOT: %w", err)
	}
	return out, nil
}
