package stdlib

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/remaplang/remap/internal/compiler"
	"github.com/remaplang/remap/internal/enrichment"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/value"
)

func newDeviceTable(t *testing.T) *enrichment.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE devices (mac TEXT, vendor TEXT, year INTEGER)`)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = db.Exec(`INSERT INTO devices VALUES ('aa:bb', 'Acme', 2019), ('cc:dd', 'Bolt', 2022)`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	reg := enrichment.NewRegistry()
	if err := reg.Register("devices", path); err != nil {
		t.Fatalf("register: %v", err)
	}
	t.Cleanup(func() { reg.Close() })
	return reg
}

func TestGetEnrichmentTableRecord(t *testing.T) {
	reg := newDeviceTable(t)
	c := compiler.New(NewRegistry(), nil, &function.CompileContext{Tables: reg})
	prog, err := c.CompileSource(`get_enrichment_table_record("devices", "mac", "cc:dd")`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	want := value.NewObject()
	want.Pairs["mac"] = value.NewBytes("cc:dd")
	want.Pairs["vendor"] = value.NewBytes("Bolt")
	want.Pairs["year"] = &value.Integer{Value: 2022}

	for _, b := range allBackends() {
		ctx := exampleContext(t)
		ctx.Tables = reg
		got, err := b.Run(prog, ctx)
		if err != nil {
			t.Fatalf("%s: %v", b.Name(), err)
		}
		if !value.Equal(got, want) {
			t.Errorf("%s: got %s, want %s", b.Name(), got.Inspect(), want.Inspect())
		}
	}
}

func TestGetEnrichmentTableRecordNoMatch(t *testing.T) {
	reg := newDeviceTable(t)
	c := compiler.New(NewRegistry(), nil, &function.CompileContext{Tables: reg})
	prog, err := c.CompileSource(`get_enrichment_table_record("devices", "mac", "ff:ff")`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for _, b := range allBackends() {
		ctx := exampleContext(t)
		ctx.Tables = reg
		_, err := b.Run(prog, ctx)
		if err == nil || !strings.Contains(err.Error(), "no row") {
			t.Errorf("%s: err = %v, want no row", b.Name(), err)
		}
	}
}

func TestGetEnrichmentTableRecordUnknownTable(t *testing.T) {
	reg := newDeviceTable(t)
	c := compiler.New(NewRegistry(), nil, &function.CompileContext{Tables: reg})
	_, err := c.CompileSource(`get_enrichment_table_record("users", "id", "1")`)
	if err == nil {
		t.Fatal("expected compile error")
	}
	if !strings.Contains(err.Error(), `unknown enrichment table "users"`) {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(err.Error(), "devices") {
		t.Errorf("error should list registered tables, got %v", err)
	}
}
