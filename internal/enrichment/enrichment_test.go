package enrichment

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/remaplang/remap/internal/value"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lookup.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE users (id INTEGER, name TEXT, score REAL)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO users VALUES (1, 'ada', 0.5), (2, 'bob', 1.5)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	reg := NewRegistry()
	if err := reg.Register("users", path); err != nil {
		t.Fatalf("register: %v", err)
	}
	t.Cleanup(func() { reg.Close() })
	return reg
}

func TestFindRow(t *testing.T) {
	reg := newTestRegistry(t)
	table, ok := reg.Lookup("users")
	if !ok {
		t.Fatal("table not registered")
	}

	row, err := table.FindRow("name", "bob")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !value.Equal(row.Pairs["id"], &value.Integer{Value: 2}) {
		t.Errorf("id = %s", row.Pairs["id"].Inspect())
	}
	if !value.Equal(row.Pairs["name"], value.NewBytes("bob")) {
		t.Errorf("name = %s", row.Pairs["name"].Inspect())
	}
	if !value.Equal(row.Pairs["score"], &value.Float{Value: 1.5}) {
		t.Errorf("score = %s", row.Pairs["score"].Inspect())
	}
}

func TestFindRowNoMatch(t *testing.T) {
	reg := newTestRegistry(t)
	table, _ := reg.Lookup("users")
	_, err := table.FindRow("name", "eve")
	if err == nil || !strings.Contains(err.Error(), "no row") {
		t.Errorf("err = %v", err)
	}
}

func TestFindRowRejectsBadColumn(t *testing.T) {
	reg := newTestRegistry(t)
	table, _ := reg.Lookup("users")
	_, err := table.FindRow(`name" OR "1" = "1`, "x")
	if err == nil || !strings.Contains(err.Error(), "invalid column name") {
		t.Errorf("err = %v", err)
	}
}

func TestRegisterRejectsBadName(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{``, `users" --`, `a b`} {
		err := reg.Register(name, "lookup.db")
		if err == nil || !strings.Contains(err.Error(), "invalid enrichment table name") {
			t.Errorf("Register(%q) err = %v", name, err)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := newTestRegistry(t)
	if err := reg.Register("users", "other.db"); err == nil {
		t.Error("duplicate registration must fail")
	}
}

func TestNames(t *testing.T) {
	reg := newTestRegistry(t)
	names := reg.Names()
	if len(names) != 1 || names[0] != "users" {
		t.Errorf("names = %v", names)
	}
	var nilReg *Registry
	if _, ok := nilReg.Lookup("users"); ok {
		t.Error("nil registry must report absent")
	}
}
