package core

// Type inference scans every non-null value of each column and selects the
// narrowest canonical type representing all of them. It is a pure function
// of the dataset: no errors, no side effects. Caller overrides win
// unconditionally over inference.

import "github.com/coregx/tabsert/internal/dialects"

// inferColumns produces the column descriptors for a validated dataset,
// key levels first. typeOverrides maps labels to canonical types and
// rawOverrides maps labels to concrete SQL type strings.
func inferColumns(ds *Dataset, typeOverrides map[string]dialects.ColumnType, rawOverrides map[string]string) []Column {
	labels := ds.labels()
	cols := make([]Column, len(labels))
	for i, name := range labels {
		col := Column{Name: name, IsKey: i < len(ds.key)}

		if t, ok := typeOverrides[name]; ok {
			col.Type = t
		} else {
			t := dialects.TypeUnknown
			for _, row := range ds.rows {
				if row[i] == nil {
					continue
				}
				t = widenType(t, classifyValue(row[i]))
				if t == dialects.TypeText {
					break // cannot widen further
				}
			}
			col.Type = t
		}

		if raw, ok := rawOverrides[name]; ok {
			col.RawTypeSQL = raw
		}
		cols[i] = col
	}
	return cols
}
