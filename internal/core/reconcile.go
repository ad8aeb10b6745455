package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/coregx/tabsert/internal/dialects"
)

// ActionKind identifies one structural change in a reconciliation plan.
type ActionKind int

const (
	// ActionCreateSchema creates the target schema/namespace.
	ActionCreateSchema ActionKind = iota
	// ActionCreateTable creates the target table with all dataset columns
	// and the key as primary key.
	ActionCreateTable
	// ActionAddColumn adds one dataset column missing from the table.
	ActionAddColumn
	// ActionAlterColumnType changes the type of one empty table column.
	ActionAlterColumnType
)

// String returns the action kind name.
func (k ActionKind) String() string {
	switch k {
	case ActionCreateSchema:
		return "create-schema"
	case ActionCreateTable:
		return "create-table"
	case ActionAddColumn:
		return "add-column"
	default:
		return "alter-column-type"
	}
}

// Action is one structural change, rendered as a single DDL statement.
// Actions are expressed idempotently where the dialect allows it, so a
// retried operation does not fail solely because a prior attempt already
// created structures.
type Action struct {
	Kind   ActionKind
	SQL    string
	Column string // affected column, when the kind targets one
}

// Plan is the ordered sequence of structural actions the executor applies
// before any chunk is sent. It is computed once, applied once, discarded.
type Plan struct {
	Actions []Action
}

// typeSuffix strips character counts like "(50)" from reported SQL types,
// so VARCHAR(50) and VARCHAR compare equal.
var typeSuffix = regexp.MustCompile(`\(\d+\)`)

// reconcile diffs the dataset's implied structure against the catalog and
// produces the change plan, gated by the operation's capability flags.
// It only reads from the database.
func (u *Upserter) reconcile(ctx context.Context, cat Catalog, cols []Column) (*Plan, error) {
	plan := &Plan{}
	target := qualifiedTable(u.dialect, u.schema, u.table)

	if u.createSchema && u.schema != "" {
		exists, err := cat.SchemaExists(ctx)
		if err != nil {
			return nil, err
		}
		if !exists {
			plan.Actions = append(plan.Actions, Action{
				Kind: ActionCreateSchema,
				SQL:  u.dialect.CreateSchemaSQL(u.schema),
			})
		}
	}

	tableExists, err := cat.TableExists(ctx)
	if err != nil {
		return nil, err
	}

	if !tableExists {
		if u.createTable {
			plan.Actions = append(plan.Actions, Action{
				Kind: ActionCreateTable,
				SQL:  createTableSQL(u.dialect, target, cols),
			})
		}
		// Missing table with creation disabled is left for the database to
		// report naturally during execution.
		return plan, nil
	}

	if !u.addNewColumns && !u.adaptEmptyColumns {
		return plan, nil
	}

	existing, err := cat.Columns(ctx)
	if err != nil {
		return nil, err
	}
	existingByName := make(map[string]ColumnInfo, len(existing))
	for _, info := range existing {
		existingByName[info.Name] = info
	}

	if u.addNewColumns {
		for _, col := range cols {
			if _, ok := existingByName[col.Name]; ok {
				continue
			}
			if col.IsKey {
				return nil, fmt.Errorf("%w: %q is a key level missing from table %s; "+
					"fix the table's key or the dataset's key instead",
					ErrMissingKeyColumn, col.Name, u.table)
			}
			plan.Actions = append(plan.Actions, Action{
				Kind:   ActionAddColumn,
				SQL:    u.dialect.AddColumnSQL(target, col.Name, col.typeSQL(u.dialect)),
				Column: col.Name,
			})
		}
	}

	if u.adaptEmptyColumns {
		alters, err := u.planAlterActions(ctx, cat, target, cols, existingByName)
		if err != nil {
			return nil, err
		}
		plan.Actions = append(plan.Actions, alters...)
	}

	return plan, nil
}

// planAlterActions plans type changes for columns that exist on both sides,
// hold no data in the table, and disagree on type. Columns with any
// existing data are never altered, regardless of flags: the emptiness probe
// is the gate, and it protects against silent data loss.
func (u *Upserter) planAlterActions(ctx context.Context, cat Catalog, target string, cols []Column, existing map[string]ColumnInfo) ([]Action, error) {
	empty, err := cat.EmptyColumns(ctx)
	if err != nil {
		return nil, err
	}
	emptySet := make(map[string]bool, len(empty))
	for _, name := range empty {
		emptySet[name] = true
	}

	var actions []Action
	for _, col := range cols {
		info, ok := existing[col.Name]
		if !ok || !emptySet[col.Name] {
			continue
		}
		// An all-null dataset column implies no type; leave the table as is.
		if col.RawTypeSQL == "" && col.Type == dialects.TypeUnknown {
			continue
		}
		want := col.typeSQL(u.dialect)
		if sameColumnType(info.TypeSQL, want) {
			continue
		}
		if !u.dialect.SupportsAlterColumnType() {
			return nil, fmt.Errorf("%w: column %q is %s but the dataset implies %s",
				ErrCannotAlterColumnType, col.Name, info.TypeSQL, want)
		}
		actions = append(actions, Action{
			Kind:   ActionAlterColumnType,
			SQL:    u.dialect.AlterColumnTypeSQL(target, col.Name, want),
			Column: col.Name,
		})
	}
	return actions, nil
}

// sameColumnType compares a catalog-reported type against a rendered type,
// ignoring case and character counts. JSON stored as TEXT (dialects without
// native JSON) also counts as matching.
func sameColumnType(have, want string) bool {
	h := strings.ToUpper(typeSuffix.ReplaceAllString(strings.TrimSpace(have), ""))
	w := strings.ToUpper(typeSuffix.ReplaceAllString(strings.TrimSpace(want), ""))
	if h == w {
		return true
	}
	// information_schema spells several renderings differently
	aliases := map[string][]string{
		"BOOLEAN":     {"TINYINT", "BOOL"},
		"DOUBLE":      {"DOUBLE PRECISION", "REAL"},
		"TEXT":        {"CHARACTER VARYING", "VARCHAR"},
		"TIMESTAMP":   {"TIMESTAMP WITHOUT TIME ZONE", "DATETIME"},
		"TIMESTAMPTZ": {"TIMESTAMP WITH TIME ZONE"},
		"JSONB":       {"JSON"},
	}
	for _, pair := range [][2]string{{w, h}, {h, w}} {
		for _, alias := range aliases[pair[0]] {
			if pair[1] == alias {
				return true
			}
		}
	}
	// JSON columns legitimately live in TEXT on flavors without JSON storage.
	if (h == "JSON" || h == "JSONB") && w == "TEXT" {
		return true
	}
	return false
}

// createTableSQL renders the idempotent CREATE TABLE with the dataset's
// columns and the key as primary key.
func createTableSQL(d dialects.Dialect, target string, cols []Column) string {
	defs := make([]string, 0, len(cols)+1)
	var keyCols []string
	for _, col := range cols {
		quoted := d.QuoteIdentifier(col.Name)
		defs = append(defs, quoted+" "+col.typeSQL(d))
		if col.IsKey {
			keyCols = append(keyCols, quoted)
		}
	}
	defs = append(defs, "PRIMARY KEY ("+strings.Join(keyCols, ", ")+")")
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", target, strings.Join(defs, ", "))
}
