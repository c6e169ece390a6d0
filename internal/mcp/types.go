package mcp

// --- Tool Arguments ---

type FindNodesArgs struct {
	Name     string `json:"name,omitempty" jsonschema:"Exact node name to match"`
	Category string `json:"category,omitempty" jsonschema:"Node category to match (e.g. 'Person', 'Movie')"`
	Key      string `json:"key,omitempty" jsonschema:"Property key to match against 'value'"`
	Value    string `json:"value,omitempty" jsonschema:"Property value to match; empty matches the empty string. Numbers and booleans are parsed"`
}

type NodeInfo struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Category   string         `json:"category"`
	Properties map[string]any `json:"properties,omitempty"`
}

type NodesResult struct {
	Nodes []NodeInfo `json:"nodes"`
}

type AdjacentArgs struct {
	Name             string `json:"name" jsonschema:"Name of the node to start from,required"`
	NodeCategory     string `json:"node_category,omitempty" jsonschema:"Only return neighbours of this category"`
	RelationCategory string `json:"relation_category,omitempty" jsonschema:"Only follow relationships of this category"`
}

type SubgraphArgs struct {
	Names []string `json:"names" jsonschema:"Names of the nodes to keep,required"`
}

type SubgraphResult struct {
	GraphDescription string `json:"graph_description"` // one "(src, dst) => rel" line per edge
	EdgeCount        int    `json:"edge_count"`
}

type RecommendArgs struct {
	Name string `json:"name" jsonschema:"Name of the person to recommend items for,required"`
}

type ConnectArgs struct {
	Source   string `json:"source" jsonschema:"Name of the source node,required"`
	Target   string `json:"target" jsonschema:"Name of the target node,required"`
	Relation string `json:"relation" jsonschema:"Relationship category (e.g. 'Knows', 'Watched'),required"`
}
