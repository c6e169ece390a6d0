// Package dataset bulk-loads a property graph from a YAML document.
//
// A document lists nodes, optional named relationships (which may label
// several edges, sharing one Relationship value) and edges. Edge endpoints
// refer to nodes by name, so names must be unique within a document.
package dataset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sanonone/propgraph/pkg/graph"
)

//go:embed movies.yaml
var moviesYAML []byte

// Document is the YAML layout of a dataset.
type Document struct {
	Nodes         []NodeSpec         `yaml:"nodes"`
	Relationships []RelationshipSpec `yaml:"relationships"`
	Edges         []EdgeSpec         `yaml:"edges"`
}

type NodeSpec struct {
	ID         string         `yaml:"id"` // optional, generated when empty
	Name       string         `yaml:"name"`
	Category   string         `yaml:"category"`
	Properties map[string]any `yaml:"properties"`
}

type RelationshipSpec struct {
	Name       string         `yaml:"name"`
	Category   string         `yaml:"category"`
	Properties map[string]any `yaml:"properties"`
}

// EdgeSpec either references a named relationship or declares an inline
// one through Category and Properties.
type EdgeSpec struct {
	Source       string         `yaml:"source"`
	Target       string         `yaml:"target"`
	Relationship string         `yaml:"relationship"`
	Category     string         `yaml:"category"`
	Properties   map[string]any `yaml:"properties"`
}

// Load decodes a YAML dataset using strict parsing and builds the graph.
func Load(r io.Reader) (*graph.PropertyGraph, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var doc Document
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML syntax error in dataset: %w", err)
	}
	return doc.Build()
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (*graph.PropertyGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Movies returns the bundled movies/people graph.
func Movies() (*graph.PropertyGraph, error) {
	return Load(bytes.NewReader(moviesYAML))
}

// Build converts the document into a graph through graph.Build.
func (d *Document) Build() (*graph.PropertyGraph, error) {
	nodes := make([]*graph.Node, 0, len(d.Nodes))
	byName := make(map[string]*graph.Node, len(d.Nodes))
	for i, spec := range d.Nodes {
		if spec.Name == "" {
			return nil, fmt.Errorf("node #%d: name is required", i)
		}
		if _, dup := byName[spec.Name]; dup {
			return nil, fmt.Errorf("node #%d: duplicate name %q", i, spec.Name)
		}
		props, err := convertProps(spec.Properties)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", spec.Name, err)
		}
		var n *graph.Node
		if spec.ID != "" {
			n = graph.NewNodeWithID(spec.ID, spec.Name, spec.Category, props)
		} else {
			n = graph.NewNode(spec.Name, spec.Category, props)
		}
		nodes = append(nodes, n)
		byName[spec.Name] = n
	}

	named := make(map[string]*graph.Relationship, len(d.Relationships))
	for i, spec := range d.Relationships {
		if spec.Name == "" {
			return nil, fmt.Errorf("relationship #%d: name is required", i)
		}
		props, err := convertProps(spec.Properties)
		if err != nil {
			return nil, fmt.Errorf("relationship %q: %w", spec.Name, err)
		}
		named[spec.Name] = graph.NewRelationship(spec.Category, props)
	}

	edges := make([]graph.Edge, 0, len(d.Edges))
	for i, spec := range d.Edges {
		src, ok := byName[spec.Source]
		if !ok {
			return nil, fmt.Errorf("edge #%d: unknown source %q", i, spec.Source)
		}
		dst, ok := byName[spec.Target]
		if !ok {
			return nil, fmt.Errorf("edge #%d: unknown target %q", i, spec.Target)
		}

		var rel *graph.Relationship
		if spec.Relationship != "" {
			rel, ok = named[spec.Relationship]
			if !ok {
				return nil, fmt.Errorf("edge #%d: unknown relationship %q", i, spec.Relationship)
			}
		} else {
			if spec.Category == "" {
				return nil, fmt.Errorf("edge #%d: relationship or category is required", i)
			}
			props, err := convertProps(spec.Properties)
			if err != nil {
				return nil, fmt.Errorf("edge #%d: %w", i, err)
			}
			rel = graph.NewRelationship(spec.Category, props)
		}
		edges = append(edges, graph.Edge{Source: src, Target: dst, Relationship: rel})
	}

	return graph.Build(nodes, edges), nil
}

func convertProps(raw map[string]any) (map[string]graph.Value, error) {
	props := make(map[string]graph.Value, len(raw))
	for k, v := range raw {
		val, err := graph.ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		props[k] = val
	}
	return props, nil
}
