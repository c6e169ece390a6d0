package server

import "github.com/sanonone/propgraph/pkg/graph"

// NodeRequest is the body of POST /nodes.
type NodeRequest struct {
	ID         string                 `json:"id,omitempty"`
	Name       string                 `json:"name"`
	Category   string                 `json:"category"`
	Properties map[string]graph.Value `json:"properties,omitempty"`
}

// RelationshipRequest is the body of POST /relationships. Endpoints are
// node names.
type RelationshipRequest struct {
	Source     string                 `json:"source"`
	Target     string                 `json:"target"`
	Category   string                 `json:"category"`
	Properties map[string]graph.Value `json:"properties,omitempty"`
}

// PropertiesRequest is the body of PATCH /nodes/{name} and PATCH
// /relationships. A null value removes the property.
type PropertiesRequest struct {
	Source     string                 `json:"source,omitempty"`
	Target     string                 `json:"target,omitempty"`
	Properties map[string]graph.Value `json:"properties"`
}

// SubgraphRequest is the body of POST /subgraph.
type SubgraphRequest struct {
	Names []string `json:"names"`
}

// NodeResponse is the wire form of a node.
type NodeResponse struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Category   string                 `json:"category"`
	Properties map[string]graph.Value `json:"properties"`
}

// EdgeResponse is the wire form of an adjacency index entry.
type EdgeResponse struct {
	Source     string                 `json:"source"`
	Target     string                 `json:"target"`
	Category   string                 `json:"category"`
	Properties map[string]graph.Value `json:"properties"`
}

type NodesResponse struct {
	Nodes []NodeResponse `json:"nodes"`
}

type EdgesResponse struct {
	Edges []EdgeResponse `json:"edges"`
}

func toNodeResponse(n *graph.Node) NodeResponse {
	return NodeResponse{
		ID:         n.ID(),
		Name:       n.Name(),
		Category:   n.Category(),
		Properties: n.Properties(),
	}
}

func toNodesResponse(nodes []*graph.Node) NodesResponse {
	out := NodesResponse{Nodes: make([]NodeResponse, 0, len(nodes))}
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, toNodeResponse(n))
	}
	return out
}

func toEdgeResponse(e graph.Edge) EdgeResponse {
	return EdgeResponse{
		Source:     e.Source.Name(),
		Target:     e.Target.Name(),
		Category:   e.Relationship.Category(),
		Properties: e.Relationship.Properties(),
	}
}

func toEdgesResponse(edges []graph.Edge) EdgesResponse {
	out := EdgesResponse{Edges: make([]EdgeResponse, 0, len(edges))}
	for _, e := range edges {
		out.Edges = append(out.Edges, toEdgeResponse(e))
	}
	return out
}
