// Package enrichment provides read-only lookup tables backed by
// SQLite. Tables are registered before compilation and shared
// immutably by every evaluation.
package enrichment

import (
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/remaplang/remap/internal/value"
)

// Registry holds the named tables available to a program. It is
// populated once at startup and read-only afterwards.
type Registry struct {
	tables map[string]*Table
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Register opens the SQLite database at path and exposes its table
// named like the registry entry.
func (r *Registry) Register(name, path string) error {
	if !validIdentifier(name) {
		return fmt.Errorf("invalid enrichment table name %q", name)
	}
	if _, ok := r.tables[name]; ok {
		return fmt.Errorf("enrichment table %q already registered", name)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open enrichment table %q: %w", name, err)
	}
	r.tables[name] = &Table{name: name, db: db}
	return nil
}

// Lookup returns the registered table, or false.
func (r *Registry) Lookup(name string) (*Table, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tables[name]
	return t, ok
}

// Names lists registered tables in sorted order, for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tables))
	for n := range r.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close releases all table handles.
func (r *Registry) Close() error {
	var first error
	for _, t := range r.tables {
		if err := t.db.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Table is one SQLite-backed lookup table. Lookups are point queries
// by column equality; the first matching row wins.
type Table struct {
	name string
	db   *sql.DB
}

// FindRow returns the first row where column = key, as an object value.
// It fails when no row matches.
func (t *Table) FindRow(column string, key string) (*value.Object, error) {
	if !validIdentifier(column) {
		return nil, fmt.Errorf("invalid column name %q", column)
	}
	// Identifiers cannot be placeholders. Register validated the table
	// name, the check above covers the column.
	query := fmt.Sprintf(`SELECT * FROM %q WHERE %q = ? LIMIT 1`, t.name, column)
	rows, err := t.db.Query(query, key)
	if err != nil {
		return nil, fmt.Errorf("enrichment table %q: %w", t.name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("no row in table %q where %s = %q", t.name, column, key)
	}

	raw := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	obj := value.NewObject()
	for i, col := range columns {
		v, err := value.FromInterface(normalize(raw[i]))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		obj.Pairs[col] = v
	}
	return obj, nil
}

// normalize maps driver-level scan types onto what value.FromInterface
// understands.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case []byte:
		return string(t)
	default:
		return v
	}
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}
