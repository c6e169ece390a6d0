package export

import (
	"iter"

	"github.com/sanonone/propgraph/pkg/graph"
)

// EndpointColors is the pair of colors given to the source and target of an
// edge with a given relationship category.
type EndpointColors struct {
	Source string
	Target string
}

// DefaultScheme colors persons blue and movies red.
var DefaultScheme = map[string]EndpointColors{
	"Watched": {Source: "blue", Target: "red"},
	"Knows":   {Source: "blue", Target: "blue"},
}

// NodeColor is the display color chosen for one node.
type NodeColor struct {
	Node  *graph.Node
	Color string
}

// Colors assigns a color to each endpoint of every edge whose relationship
// category appears in scheme. Later edges override earlier assignments, but
// a node keeps the position of its first assignment. A nil scheme means
// DefaultScheme.
func Colors(edges iter.Seq[graph.Edge], scheme map[string]EndpointColors) []NodeColor {
	if scheme == nil {
		scheme = DefaultScheme
	}
	var out []NodeColor
	pos := make(map[string]int)
	assign := func(n *graph.Node, color string) {
		if i, ok := pos[n.ID()]; ok {
			out[i].Color = color
			return
		}
		pos[n.ID()] = len(out)
		out = append(out, NodeColor{Node: n, Color: color})
	}
	for e := range edges {
		c, ok := scheme[e.Relationship.Category()]
		if !ok {
			continue
		}
		assign(e.Source, c.Source)
		assign(e.Target, c.Target)
	}
	return out
}
