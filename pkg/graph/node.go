package graph

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
)

// Node is a vertex of the property graph (e.g. a movie or a person).
//
// The graph indexes nodes by ID. A node built separately but Equal to the
// member registered under its name is treated as that member, and Adjacent
// matches a non-member start node by name. Callers are responsible for
// keeping names unique across a graph, since name-based lookups return the
// first node registered under a name.
type Node struct {
	id       string
	name     string
	category string
	props    map[string]Value
}

// NewNode creates a node with a freshly generated ID.
func NewNode(name, category string, props map[string]Value) *Node {
	return NewNodeWithID(uuid.New().String(), name, category, props)
}

// NewNodeWithID creates a node with a caller-supplied stable ID. Absent
// values in props are dropped.
func NewNodeWithID(id, name, category string, props map[string]Value) *Node {
	return &Node{
		id:       id,
		name:     name,
		category: category,
		props:    presentProps(props),
	}
}

func (n *Node) ID() string       { return n.id }
func (n *Node) Name() string     { return n.name }
func (n *Node) Category() string { return n.category }

// Property returns the value stored under key. A missing key is an error
// wrapping ErrPropertyNotFound.
func (n *Node) Property(key string) (Value, error) {
	v, ok := n.props[key]
	if !ok {
		return Absent, fmt.Errorf("node %q: %w: %s", n.name, ErrPropertyNotFound, key)
	}
	return v, nil
}

// Lookup is the non-failing variant of Property used by query filters.
func (n *Node) Lookup(key string) (Value, bool) {
	v, ok := n.props[key]
	return v, ok
}

// SetProperty creates or overwrites a property. Setting Absent removes key.
func (n *Node) SetProperty(key string, value Value) {
	setProp(n.props, key, value)
}

// Properties returns a copy of all properties.
func (n *Node) Properties() map[string]Value {
	return maps.Clone(n.props)
}

// Equal reports whether two nodes have the same name, category and
// properties. IDs are not compared.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.name != o.name || n.category != o.category {
		return false
	}
	return maps.EqualFunc(n.props, o.props, Value.Equal)
}

func (n *Node) String() string { return n.name }

func presentProps(props map[string]Value) map[string]Value {
	out := make(map[string]Value, len(props))
	for k, v := range props {
		setProp(out, k, v)
	}
	return out
}

func setProp(props map[string]Value, key string, value Value) {
	if value.IsAbsent() {
		delete(props, key)
		return
	}
	props[key] = value
}
