// Package core implements the upsert pipeline: dataset validation, type
// inference, table reconciliation, statement building, chunk planning and
// sequential execution against a database/sql connection.
package core

import "fmt"

// Dataset is an ordered sequence of rows keyed by one or more named columns.
// The key columns come first in every row, followed by the non-key columns
// in declaration order. The dataset is read-only to the upsert pipeline.
type Dataset struct {
	key     []string
	columns []string
	rows    [][]any
}

// NewDataset creates a dataset with the given key levels and non-key columns.
// Column order is significant and must be declared up front; Go maps cannot
// provide one.
func NewDataset(key []string, columns []string) *Dataset {
	return &Dataset{
		key:     append([]string(nil), key...),
		columns: append([]string(nil), columns...),
	}
}

// AppendRow appends one row given positionally: key values first, then
// non-key column values in declaration order.
func (d *Dataset) AppendRow(values ...any) error {
	if len(values) != len(d.key)+len(d.columns) {
		return fmt.Errorf("%w: got %d values, want %d (%d key + %d columns)",
			ErrColumnCountMismatch, len(values), len(d.key)+len(d.columns), len(d.key), len(d.columns))
	}
	d.rows = append(d.rows, append([]any(nil), values...))
	return nil
}

// AppendRecord appends one row given as a label→value map. Labels absent
// from the record bind NULL; labels absent from the dataset are an error.
func (d *Dataset) AppendRecord(rec map[string]any) error {
	labels := d.labels()
	index := make(map[string]int, len(labels))
	for i, name := range labels {
		index[name] = i
	}
	row := make([]any, len(labels))
	for name, v := range rec {
		i, ok := index[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		row[i] = v
	}
	d.rows = append(d.rows, row)
	return nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// KeyLevels returns a copy of the key level names.
func (d *Dataset) KeyLevels() []string { return append([]string(nil), d.key...) }

// Columns returns a copy of the non-key column names.
func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// labels returns key level names followed by non-key column names, matching
// the value order inside each row.
func (d *Dataset) labels() []string {
	labels := make([]string, 0, len(d.key)+len(d.columns))
	labels = append(labels, d.key...)
	return append(labels, d.columns...)
}

// filtered returns a dataset sharing key/column metadata but holding only
// the given rows. Used by the validator when null-key rows are skipped.
func (d *Dataset) filtered(rows [][]any) *Dataset {
	return &Dataset{key: d.key, columns: d.columns, rows: rows}
}
