// Package recommend answers "watched by someone I know" style questions on
// top of the adjacency primitive of a property graph.
package recommend

import "github.com/sanonone/propgraph/pkg/graph"

// Traverser is the adjacency query both graph.PropertyGraph and
// engine.Engine provide.
type Traverser interface {
	Adjacent(n *graph.Node, nodeCategory, relCategory string) []*graph.Node
}

// Rules names the categories the recommendation walks.
type Rules struct {
	PersonCategory string `yaml:"person_category" json:"person_category"`
	ItemCategory   string `yaml:"item_category" json:"item_category"`
	Knows          string `yaml:"knows" json:"knows"`
	Consumed       string `yaml:"consumed" json:"consumed"`
}

// DefaultRules matches the movies/people graph.
func DefaultRules() Rules {
	return Rules{
		PersonCategory: "Person",
		ItemCategory:   "Movie",
		Knows:          "Knows",
		Consumed:       "Watched",
	}
}

// Items returns the items consumed by people who person knows and that
// person has not consumed yet. Each item appears once, in the order it is
// first reached.
func Items(t Traverser, person *graph.Node, rules Rules) []*graph.Node {
	own := t.Adjacent(person, rules.ItemCategory, rules.Consumed)
	skip := make(map[string]struct{}, len(own))
	for _, n := range own {
		skip[n.ID()] = struct{}{}
	}

	var out []*graph.Node
	for _, friend := range t.Adjacent(person, rules.PersonCategory, rules.Knows) {
		for _, item := range t.Adjacent(friend, rules.ItemCategory, rules.Consumed) {
			if _, ok := skip[item.ID()]; ok {
				continue
			}
			skip[item.ID()] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

// Common returns the items consumed by both a and b, in a's order.
func Common(t Traverser, a, b *graph.Node, rules Rules) []*graph.Node {
	theirs := make(map[string]struct{})
	for _, n := range t.Adjacent(b, rules.ItemCategory, rules.Consumed) {
		theirs[n.ID()] = struct{}{}
	}

	var out []*graph.Node
	for _, n := range t.Adjacent(a, rules.ItemCategory, rules.Consumed) {
		if _, ok := theirs[n.ID()]; ok {
			out = append(out, n)
		}
	}
	return out
}
