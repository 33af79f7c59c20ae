package function

import (
	"strings"
	"testing"

	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// repeat is a minimal two-parameter function for exercising the binder.
type repeat struct{}

var repeatParams = []Parameter{
	{Keyword: "value", Kinds: typesystem.KindBytes, Required: true},
	{Keyword: "count", Kinds: typesystem.KindInteger, Required: false},
}

func (repeat) Identifier() string      { return "repeat" }
func (repeat) Parameters() []Parameter { return repeatParams }

func (repeat) Compile(_ *expression.State, _ *CompileContext, args ArgumentList) (expression.Expression, error) {
	return args.Required("value"), nil
}

func (repeat) Examples() []Example { return nil }

func (repeat) Call(args VMArgumentList) (value.Value, error) {
	return args.Required("value"), nil
}

func lit(v value.Value) *expression.Literal {
	return &expression.Literal{Value: v}
}

func TestBindPositionalAndKeyword(t *testing.T) {
	state := expression.NewState()
	tests := []struct {
		name string
		args []CallArgument
	}{
		{"all positional", []CallArgument{
			{Expr: lit(value.NewBytes("x"))},
			{Expr: lit(&value.Integer{Value: 2})},
		}},
		{"all keyword", []CallArgument{
			{Keyword: "count", Expr: lit(&value.Integer{Value: 2})},
			{Keyword: "value", Expr: lit(value.NewBytes("x"))},
		}},
		{"positional then keyword", []CallArgument{
			{Expr: lit(value.NewBytes("x"))},
			{Keyword: "count", Expr: lit(&value.Integer{Value: 2})},
		}},
		{"required only", []CallArgument{
			{Expr: lit(value.NewBytes("x"))},
		}},
	}
	for _, tt := range tests {
		bound, err := Bind(state, repeat{}, tt.args)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if bound.Required("value") == nil {
			t.Errorf("%s: value not bound", tt.name)
		}
	}
}

func TestBindErrors(t *testing.T) {
	state := expression.NewState()
	tests := []struct {
		name    string
		args    []CallArgument
		keyword string
		wantErr string
	}{
		{
			name:    "missing required",
			args:    nil,
			keyword: "value",
			wantErr: "missing required argument `value`",
		},
		{
			name: "unknown keyword",
			args: []CallArgument{
				{Expr: lit(value.NewBytes("x"))},
				{Keyword: "times", Expr: lit(&value.Integer{Value: 2})},
			},
			keyword: "times",
			wantErr: "unknown argument keyword `times`",
		},
		{
			name: "duplicate",
			args: []CallArgument{
				{Expr: lit(value.NewBytes("x"))},
				{Keyword: "value", Expr: lit(value.NewBytes("y"))},
			},
			keyword: "value",
			wantErr: "duplicate argument `value`",
		},
		{
			name: "too many",
			args: []CallArgument{
				{Expr: lit(value.NewBytes("x"))},
				{Expr: lit(&value.Integer{Value: 1})},
				{Expr: lit(&value.Integer{Value: 2})},
			},
			wantErr: "too many arguments",
		},
		{
			name: "kind mismatch",
			args: []CallArgument{
				{Expr: lit(&value.Boolean{Value: true})},
			},
			keyword: "value",
			wantErr: "type mismatch for `value`: parameter accepts bytes, got boolean",
		},
	}
	for _, tt := range tests {
		_, err := Bind(state, repeat{}, tt.args)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		cerr, ok := err.(*CompileError)
		if !ok {
			t.Errorf("%s: got %T, want *CompileError", tt.name, err)
			continue
		}
		if cerr.Function != "repeat" {
			t.Errorf("%s: error names function %q", tt.name, cerr.Function)
		}
		if cerr.Keyword != tt.keyword {
			t.Errorf("%s: error keyword %q, want %q", tt.name, cerr.Keyword, tt.keyword)
		}
		if !strings.Contains(cerr.Error(), tt.wantErr) {
			t.Errorf("%s: error %q does not contain %q", tt.name, cerr, tt.wantErr)
		}
	}
}

func TestBindDeclaredExternalKinds(t *testing.T) {
	state := expression.NewState()
	state.ExternalKinds["host"] = typesystem.KindBytes

	query := &expression.Query{Path: []string{"host"}}
	if _, err := Bind(state, repeat{}, []CallArgument{{Expr: query}}); err != nil {
		t.Errorf("declared bytes field rejected: %v", err)
	}

	undeclared := &expression.Query{Path: []string{"port"}}
	_, err := Bind(state, repeat{}, []CallArgument{{Expr: undeclared}})
	if err == nil {
		t.Error("undeclared field should not satisfy a bytes parameter")
	}
}

func TestForParameters(t *testing.T) {
	state := expression.NewState()
	bound, err := Bind(state, repeat{}, []CallArgument{
		{Expr: lit(value.NewBytes("x"))},
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	slots := bound.ForParameters()
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if slots[0] == nil {
		t.Error("required slot is nil")
	}
	if slots[1] != nil {
		t.Error("absent optional slot should be nil")
	}
	if bound.Optional("count") != nil {
		t.Error("Optional should be nil for absent parameter")
	}
}

func TestVMArgumentList(t *testing.T) {
	args := NewVMArgumentList(repeatParams, []value.Value{value.NewBytes("x")}, nil)

	if got := args.Required("value"); !value.Equal(got, value.NewBytes("x")) {
		t.Errorf("Required = %s", got.Inspect())
	}
	if _, ok := args.Optional("count"); ok {
		t.Error("absent optional reported as provided")
	}
	if args.Context() == nil {
		t.Error("Context must never be nil")
	}

	withNull := NewVMArgumentList(repeatParams, []value.Value{
		value.NewBytes("x"), &value.Null{},
	}, nil)
	if v, ok := withNull.Optional("count"); !ok {
		t.Error("provided null should report present")
	} else if _, isNull := v.(*value.Null); !isNull {
		t.Errorf("got %s, want null", v.Inspect())
	}
}

func TestRegistryValidation(t *testing.T) {
	if _, err := NewRegistry(repeat{}, repeat{}); err == nil {
		t.Error("duplicate identifiers must be rejected")
	}
	reg, err := NewRegistry(repeat{})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if _, ok := reg.Lookup("repeat"); !ok {
		t.Error("registered function not found")
	}
	if _, ok := reg.Lookup("nope"); ok {
		t.Error("unknown identifier should not resolve")
	}
}
