package graph

import "maps"

// Relationship labels a directed edge. It has no identity of its own and
// may be reused to label several edges.
type Relationship struct {
	category string
	props    map[string]Value
}

func NewRelationship(category string, props map[string]Value) *Relationship {
	return &Relationship{category: category, props: presentProps(props)}
}

func (r *Relationship) Category() string { return r.category }

// Property returns the value stored under key, or Absent when missing.
// Unlike Node.Property this never fails, so optional filters can use it.
func (r *Relationship) Property(key string) Value {
	return r.props[key]
}

// SetProperty creates or overwrites a property. Setting Absent removes key.
func (r *Relationship) SetProperty(key string, value Value) {
	setProp(r.props, key, value)
}

// Properties returns a copy of all properties.
func (r *Relationship) Properties() map[string]Value {
	return maps.Clone(r.props)
}

func (r *Relationship) String() string { return r.category }
