// Package export turns the edge triples of a property graph into tabular
// and visual representations. It only consumes graph.Edge sequences and
// node categories; it never touches the adjacency index directly.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"

	"github.com/sanonone/propgraph/pkg/graph"
)

// DefaultColumns are the column names used when none are supplied.
var DefaultColumns = [2]string{"n", "m"}

// Table is a two-column (source, target) edge list. Relationship categories
// and properties are intentionally dropped.
type Table struct {
	Columns [2]string
	Rows    [][2]string
}

// NewTable builds a Table with one row per edge, in sequence order.
func NewTable(edges iter.Seq[graph.Edge], columns ...string) (*Table, error) {
	t := &Table{Columns: DefaultColumns}
	switch len(columns) {
	case 0:
	case 2:
		t.Columns = [2]string{columns[0], columns[1]}
	default:
		return nil, fmt.Errorf("table needs exactly 2 column names, got %d", len(columns))
	}
	for e := range edges {
		t.Rows = append(t.Rows, [2]string{e.Source.Name(), e.Target.Name()})
	}
	return t, nil
}

// WriteCSV writes the header followed by every row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns[:]); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row[:]); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
