package stdlib

import (
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// GetEnrichmentTableRecord looks up a single row in a registered
// enrichment table by column equality.
type GetEnrichmentTableRecord struct{}

var getEnrichmentTableRecordParams = []function.Parameter{
	{Keyword: "table", Kinds: typesystem.KindBytes, Required: true},
	{Keyword: "column", Kinds: typesystem.KindBytes, Required: true},
	{Keyword: "key", Kinds: typesystem.KindBytes, Required: true},
}

func (GetEnrichmentTableRecord) Identifier() string { return "get_enrichment_table_record" }

func (GetEnrichmentTableRecord) Parameters() []function.Parameter {
	return getEnrichmentTableRecordParams
}

func (GetEnrichmentTableRecord) Compile(_ *expression.State, ctx *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	table, err := args.RequiredLiteralString("get_enrichment_table_record", "table")
	if err != nil {
		return nil, err
	}
	if ctx.Tables != nil {
		if _, ok := ctx.Tables.Lookup(table); !ok {
			return nil, function.NewCompileError("get_enrichment_table_record",
				"unknown enrichment table %q, registered tables: %v", table, ctx.Tables.Names())
		}
	}
	return &getEnrichmentTableRecordFn{
		table:  table,
		column: args.Required("column"),
		key:    args.Required("key"),
	}, nil
}

func (GetEnrichmentTableRecord) Examples() []function.Example {
	return []function.Example{
		{
			Title:   "unregistered table",
			Source:  `get_enrichment_table_record("geoip", "ip", "203.0.113.7")`,
			WantErr: `unknown enrichment table "geoip"`,
		},
	}
}

func (GetEnrichmentTableRecord) Call(args function.VMArgumentList) (value.Value, error) {
	table, err := value.TryBytesUTF8Lossy(args.Required("table"))
	if err != nil {
		return nil, err
	}
	return findEnrichmentRow(args.Context(), table, args.Required("column"), args.Required("key"))
}

func findEnrichmentRow(ctx *expression.Context, table string, columnVal, keyVal value.Value) (value.Value, error) {
	column, err := value.TryBytesUTF8Lossy(columnVal)
	if err != nil {
		return nil, err
	}
	key, err := value.TryBytesUTF8Lossy(keyVal)
	if err != nil {
		return nil, err
	}
	t, ok := ctx.Tables.Lookup(table)
	if !ok {
		return nil, value.Errorf("unknown enrichment table %q", table)
	}
	row, err := t.FindRow(column, key)
	if err != nil {
		return nil, value.Errorf("%v", err)
	}
	return row, nil
}

type getEnrichmentTableRecordFn struct {
	table  string
	column expression.Expression
	key    expression.Expression
}

func (f *getEnrichmentTableRecordFn) Resolve(ctx *expression.Context) (value.Value, error) {
	column, err := f.column.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	key, err := f.key.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return findEnrichmentRow(ctx, f.table, column, key)
}

func (f *getEnrichmentTableRecordFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Fallible(typesystem.KindObject)
}
