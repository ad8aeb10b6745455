package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coregx/tabsert/internal/dialects"
	"github.com/coregx/tabsert/internal/logger"
)

// badPostgresColName matches column names the PostgreSQL driver cannot bind
// with its default parameter style.
var badPostgresColName = regexp.MustCompile(`[()%]`)

// validateDataset enforces the dataset invariants before any SQL is built:
//
//  1. every key level is named
//  2. no label repeats across key levels and columns
//  3. non-null key tuples are unique across rows
//  4. key values are non-null
//
// Check 4 is dialect-dependent: where the conflict syntax cannot target a
// NULL key, offending rows are filtered out with a warning and the filtered
// dataset is returned; everywhere else a NULL key fails the operation.
// Validation has zero side effects on failure.
func validateDataset(ds *Dataset, d dialects.Dialect, log logger.Logger) (*Dataset, error) {
	for _, name := range ds.key {
		if name == "" {
			return nil, ErrUnnamedKeyLevel
		}
	}

	labels := ds.labels()
	seen := make(map[string]bool, len(labels))
	var dups []string
	for _, name := range labels {
		if seen[name] {
			dups = append(dups, name)
		}
		seen[name] = true
	}
	if len(dups) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateLabels, dups)
	}

	if d.Name() == "postgres" {
		var bad []string
		for _, name := range labels {
			if badPostgresColName.MatchString(name) {
				bad = append(bad, name)
			}
		}
		if len(bad) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrBadColumnNames, bad)
		}
	}

	if err := checkUniqueKeys(ds); err != nil {
		return nil, err
	}

	return checkNullKeys(ds, d, log)
}

// checkUniqueKeys verifies that no two rows share a key tuple and names the
// offending tuples in the error. Tuples holding a NULL are left to the
// null-key check: depending on the dialect those rows are filtered out or
// rejected with the more precise error.
func checkUniqueKeys(ds *Dataset) error {
	tuples := make(map[string]bool, len(ds.rows))
	var dups []string
	for _, row := range ds.rows {
		if hasNullKey(row[:len(ds.key)]) {
			continue
		}
		fp := keyFingerprint(row[:len(ds.key)])
		if tuples[fp] && len(dups) < 10 {
			dups = append(dups, keyTupleString(ds.key, row[:len(ds.key)]))
		}
		tuples[fp] = true
	}
	if len(dups) > 0 {
		return fmt.Errorf("%w: the key is used as the conflict target and must be unique; offending tuples: %s",
			ErrDuplicateKeyValues, strings.Join(dups, ", "))
	}
	return nil
}

// checkNullKeys rejects or filters rows holding NULL key values.
func checkNullKeys(ds *Dataset, d dialects.Dialect, log logger.Logger) (*Dataset, error) {
	var kept [][]any
	for i, row := range ds.rows {
		if !hasNullKey(row[:len(ds.key)]) {
			if kept != nil {
				kept = append(kept, row)
			}
			continue
		}
		if !d.FiltersNullKeys() {
			return nil, fmt.Errorf("%w: row %d, key %s",
				ErrNullKeyValue, i, keyTupleString(ds.key, row[:len(ds.key)]))
		}
		if kept == nil {
			// copy-on-write: most datasets have nothing to filter
			kept = append(make([][]any, 0, len(ds.rows)), ds.rows[:i]...)
		}
	}
	if kept == nil {
		return ds, nil
	}
	log.Warn("skipped rows with null key values",
		"dialect", d.Name(),
		"skipped", len(ds.rows)-len(kept),
		"remaining", len(kept),
	)
	return ds.filtered(kept), nil
}

// hasNullKey reports whether any key value in the tuple is NULL.
func hasNullKey(key []any) bool {
	for _, v := range key {
		if v == nil {
			return true
		}
	}
	return false
}

// keyFingerprint builds a collision-safe comparison key for a key tuple.
func keyFingerprint(key []any) string {
	var b strings.Builder
	for _, v := range key {
		fmt.Fprintf(&b, "%T:%#v\x1f", v, v)
	}
	return b.String()
}

// keyTupleString renders a key tuple for error and log messages.
func keyTupleString(names []string, values []any) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%v", name, values[i])
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
