package core

import (
	"strings"

	"github.com/coregx/tabsert/internal/dialects"
)

// ConflictMode selects what happens when an incoming row's key already
// exists in the table.
type ConflictMode string

const (
	// OnConflictUpdate overwrites every non-key column of the existing row
	// with the incoming values. Columns absent from the dataset are left
	// untouched (a partial update, not a partial insert).
	OnConflictUpdate ConflictMode = "update"
	// OnConflictIgnore leaves the existing row unmodified.
	OnConflictIgnore ConflictMode = "ignore"
)

// buildUpsertSQL renders one multi-row parameterized upsert statement for
// numRows rows. Identifiers are quoted per dialect; values are always bound
// parameters, never interpolated. The same column set yields the same
// statement for every chunk of equal size, so it can be re-bound per chunk.
func buildUpsertSQL(d dialects.Dialect, schema, table string, cols []Column, mode ConflictMode, numRows int) string {
	ignore := mode == OnConflictIgnore

	quoted := make([]string, len(cols))
	var keyCols, updateCols []string
	for i, col := range cols {
		quoted[i] = d.QuoteIdentifier(col.Name)
		if col.IsKey {
			keyCols = append(keyCols, quoted[i])
		} else {
			updateCols = append(updateCols, quoted[i])
		}
	}

	var b strings.Builder
	b.WriteString(d.InsertVerb(ignore))
	b.WriteByte(' ')
	b.WriteString(qualifiedTable(d, schema, table))
	b.WriteString(" (")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(") VALUES ")

	n := 1
	for row := 0; row < numRows; row++ {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for i := range cols {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.Placeholder(n))
			n++
		}
		b.WriteByte(')')
	}

	b.WriteString(d.ConflictClause(keyCols, updateCols, ignore))
	return b.String()
}

// bindChunkArgs flattens the chunk's rows into driver-bindable arguments in
// statement order.
func bindChunkArgs(ds *Dataset, cols []Column, chunk Chunk) ([]any, error) {
	args := make([]any, 0, chunk.Rows()*len(cols))
	for _, row := range ds.rows[chunk.Start:chunk.End] {
		for i, col := range cols {
			v, err := bindValue(row[i], col.Type)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
	}
	return args, nil
}

// qualifiedTable renders the quoted, optionally schema-qualified table name.
func qualifiedTable(d dialects.Dialect, schema, table string) string {
	if schema == "" {
		return d.QuoteIdentifier(table)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}
