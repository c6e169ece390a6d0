package graph

import "github.com/tidwall/btree"

// pairKey addresses one slot of the adjacency index by node IDs.
type pairKey struct {
	src string
	dst string
}

// entry is a single adjacency index slot. seq is fixed at first insertion
// and defines the iteration order of the index.
type entry struct {
	seq    uint64
	source *Node
	target *Node
	rel    *Relationship
}

func (e *entry) edge() Edge {
	return Edge{Source: e.source, Target: e.target, Relationship: e.rel}
}

// outItem orders outgoing entries by (source ID, sequence), so the edges
// leaving one node form a contiguous, insertion-ordered range.
type outItem struct {
	src string
	seq uint64
	e   *entry
}

func outItemLess(a, b outItem) bool {
	if a.src != b.src {
		return a.src < b.src
	}
	return a.seq < b.seq
}

type outIndex struct {
	tree *btree.BTreeG[outItem]
}

func newOutIndex() *outIndex {
	return &outIndex{tree: btree.NewBTreeG[outItem](outItemLess)}
}

func (x *outIndex) insert(e *entry) {
	x.tree.Set(outItem{src: e.source.id, seq: e.seq, e: e})
}

// scan calls fn for every entry whose source is srcID, in insertion order,
// until fn returns false.
func (x *outIndex) scan(srcID string, fn func(*entry) bool) {
	x.tree.Ascend(outItem{src: srcID}, func(item outItem) bool {
		if item.src != srcID {
			return false
		}
		return fn(item.e)
	})
}
