package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/propgraph/pkg/engine"
	"github.com/sanonone/propgraph/pkg/graph"
	"github.com/sanonone/propgraph/pkg/recommend"
)

type Service struct {
	engine *engine.Engine
	rules  recommend.Rules
}

func NewService(eng *engine.Engine, rules recommend.Rules) *Service {
	return &Service{
		engine: eng,
		rules:  rules,
	}
}

// --- Tool Handlers ---

func (s *Service) FindNodes(ctx context.Context, req *mcp.CallToolRequest, args FindNodesArgs) (*mcp.CallToolResult, NodesResult, error) {
	var filters []graph.NodeFilter
	if args.Name != "" {
		filters = append(filters, graph.WithName(args.Name))
	}
	if args.Category != "" {
		filters = append(filters, graph.WithCategory(args.Category))
	}
	switch {
	case args.Key != "":
		// An omitted value matches the empty string, as "?value=" does over HTTP.
		filters = append(filters, graph.WithProperty(args.Key, graph.ParseValue(args.Value)))
	case args.Value != "":
		return nil, NodesResult{}, fmt.Errorf("'key' is required when 'value' is set")
	}
	return nil, toNodesResult(s.engine.FindNodes(filters...)), nil
}

func (s *Service) Adjacent(ctx context.Context, req *mcp.CallToolRequest, args AdjacentArgs) (*mcp.CallToolResult, NodesResult, error) {
	n, ok := s.engine.NodeByName(args.Name)
	if !ok {
		// Unknown start nodes have no neighbours.
		return nil, NodesResult{Nodes: []NodeInfo{}}, nil
	}
	return nil, toNodesResult(s.engine.Adjacent(n, args.NodeCategory, args.RelationCategory)), nil
}

func (s *Service) Subgraph(ctx context.Context, req *mcp.CallToolRequest, args SubgraphArgs) (*mcp.CallToolResult, SubgraphResult, error) {
	nodes := make([]*graph.Node, 0, len(args.Names))
	for _, name := range args.Names {
		if n, ok := s.engine.NodeByName(name); ok {
			nodes = append(nodes, n)
		} else {
			slog.Debug("[MCP] Subgraph: ignoring unknown node", "name", name)
		}
	}
	sub := s.engine.Subgraph(nodes)
	desc := sub.String()
	if desc == "" {
		desc = "No relationships between the given nodes.\n"
	}
	return nil, SubgraphResult{GraphDescription: desc, EdgeCount: sub.EdgeCount()}, nil
}

func (s *Service) Recommend(ctx context.Context, req *mcp.CallToolRequest, args RecommendArgs) (*mcp.CallToolResult, NodesResult, error) {
	n, ok := s.engine.NodeByName(args.Name)
	if !ok {
		return nil, NodesResult{Nodes: []NodeInfo{}}, nil
	}
	return nil, toNodesResult(recommend.Items(s.engine, n, s.rules)), nil
}

func (s *Service) Connect(ctx context.Context, req *mcp.CallToolRequest, args ConnectArgs) (*mcp.CallToolResult, struct{}, error) {
	src, ok := s.engine.NodeByName(args.Source)
	if !ok {
		return nil, struct{}{}, fmt.Errorf("source node not found: %s", args.Source)
	}
	dst, ok := s.engine.NodeByName(args.Target)
	if !ok {
		return nil, struct{}{}, fmt.Errorf("target node not found: %s", args.Target)
	}
	s.engine.AddRelationship(src, dst, graph.NewRelationship(args.Relation, nil))
	return nil, struct{}{}, nil
}

func toNodesResult(nodes []*graph.Node) NodesResult {
	out := NodesResult{Nodes: make([]NodeInfo, 0, len(nodes))}
	for _, n := range nodes {
		info := NodeInfo{ID: n.ID(), Name: n.Name(), Category: n.Category()}
		if props := n.Properties(); len(props) > 0 {
			info.Properties = make(map[string]any, len(props))
			for k, v := range props {
				info.Properties[k] = v.Interface()
			}
		}
		out.Nodes = append(out.Nodes, info)
	}
	return out
}
