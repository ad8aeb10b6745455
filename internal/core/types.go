package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/coregx/tabsert/internal/dialects"
)

// Column describes one dataset column after validation and inference.
type Column struct {
	// Name is the column label.
	Name string
	// Type is the inferred (or overridden) canonical type.
	Type dialects.ColumnType
	// RawTypeSQL, when non-empty, is a caller-supplied concrete SQL type
	// that replaces the dialect rendering (e.g. "VARCHAR(50)").
	RawTypeSQL string
	// IsKey marks key levels.
	IsKey bool
}

// typeSQL renders the column's SQL type for the given dialect.
func (c Column) typeSQL(d dialects.Dialect) string {
	if c.RawTypeSQL != "" {
		return c.RawTypeSQL
	}
	if c.IsKey {
		return d.KeyTypeSQL(c.Type)
	}
	return d.TypeSQL(c.Type)
}

// classifyValue maps a single Go value to its canonical type. nil maps to
// TypeUnknown so that all-null columns keep the generic fallback.
func classifyValue(v any) dialects.ColumnType {
	switch v.(type) {
	case nil:
		return dialects.TypeUnknown
	case bool:
		return dialects.TypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return dialects.TypeInteger
	case float32, float64:
		return dialects.TypeFloat
	case string:
		return dialects.TypeText
	case time.Time, *time.Time:
		// Go times always carry a location, so inference yields the zoned
		// type; the naive type stays reachable via an explicit override.
		return dialects.TypeTimestampTZ
	case []byte:
		return dialects.TypeBytes
	case json.Marshaler:
		return dialects.TypeJSON
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return dialects.TypeJSON
	default:
		// Exotic values fall back to text rather than failing.
		return dialects.TypeText
	}
}

// widenType merges two observed canonical types into the narrowest type
// that losslessly represents both. Unknown (null) never narrows anything;
// mixed incompatible types widen to text.
func widenType(a, b dialects.ColumnType) dialects.ColumnType {
	if a == b {
		return a
	}
	if a == dialects.TypeUnknown {
		return b
	}
	if b == dialects.TypeUnknown {
		return a
	}
	if (a == dialects.TypeInteger && b == dialects.TypeFloat) ||
		(a == dialects.TypeFloat && b == dialects.TypeInteger) {
		return dialects.TypeFloat
	}
	if (a == dialects.TypeTimestamp && b == dialects.TypeTimestampTZ) ||
		(a == dialects.TypeTimestampTZ && b == dialects.TypeTimestamp) {
		return dialects.TypeTimestampTZ
	}
	return dialects.TypeText
}

// bindValue converts a dataset value into a driver-bindable argument.
// JSON columns are serialized; values that no driver understands are
// stringified. NULLs pass through untouched.
func bindValue(v any, t dialects.ColumnType) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case dialects.TypeJSON:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal json value: %w", err)
		}
		return string(b), nil
	case dialects.TypeText:
		if s, ok := v.(string); ok {
			return s, nil
		}
		switch v.(type) {
		case bool, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64, time.Time, []byte:
			// A text column can still carry native scalars from mixed
			// inputs; drivers handle those directly.
			return v, nil
		}
		return fmt.Sprint(v), nil
	default:
		return v, nil
	}
}
