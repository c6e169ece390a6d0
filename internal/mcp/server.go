package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/propgraph/pkg/engine"
	"github.com/sanonone/propgraph/pkg/recommend"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

func NewMCPServer(eng *engine.Engine, rules recommend.Rules) *mcp.Server {
	service := NewService(eng, rules)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "propgraph",
		Version: Version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "find_nodes",
		Description: "Find nodes by exact name, category and/or a single property. At least one criterion is required.",
	}, service.FindNodes)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "adjacent",
		Description: "List the direct successors of a node, optionally filtered by neighbour and relationship category.",
	}, service.Adjacent)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "subgraph",
		Description: "Return the relationships whose endpoints are both in the given set of node names.",
	}, service.Subgraph)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "recommend",
		Description: "Recommend items consumed by people the given person knows and that the person has not consumed.",
	}, service.Recommend)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "connect_nodes",
		Description: "Create or overwrite the relationship between two existing nodes.",
	}, service.Connect)

	return s
}
