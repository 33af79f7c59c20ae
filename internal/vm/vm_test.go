package vm

import (
	"strings"
	"testing"

	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// first returns its first provided argument, or the fallback. It gives
// the tests a function with an optional parameter.
type first struct{}

var firstParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindAny, Required: true},
	{Keyword: "fallback", Kinds: typesystem.KindAny, Required: false},
}

func (first) Identifier() string               { return "first" }
func (first) Parameters() []function.Parameter { return firstParams }

func (first) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return args.Required("value"), nil
}

func (first) Examples() []function.Example { return nil }

func (first) Call(args function.VMArgumentList) (value.Value, error) {
	v := args.Required("value")
	if _, isNull := v.(*value.Null); !isNull {
		return v, nil
	}
	if fb, ok := args.Optional("fallback"); ok {
		return fb, nil
	}
	return v, nil
}

func testDispatch() *Dispatch {
	return NewDispatch([]function.Function{first{}})
}

func run(t *testing.T, chunk *Chunk, ctx *expression.Context) value.Value {
	t.Helper()
	if ctx == nil {
		ctx = expression.NewContext(nil)
	}
	got, err := New(testDispatch()).Run(chunk, ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return got
}

func TestLowerLiteral(t *testing.T) {
	chunk, err := Lower(&expression.Literal{Value: &value.Integer{Value: 7}})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	want := []byte{byte(OP_CONST), 0, 0, byte(OP_RETURN)}
	if len(chunk.Code) != len(want) {
		t.Fatalf("code = %v, want %v", chunk.Code, want)
	}
	for i := range want {
		if chunk.Code[i] != want[i] {
			t.Fatalf("code = %v, want %v", chunk.Code, want)
		}
	}
	got := run(t, chunk, nil)
	if !value.Equal(got, &value.Integer{Value: 7}) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestLowerContainers(t *testing.T) {
	arr := &expression.Array{Elements: []expression.Expression{
		&expression.Literal{Value: &value.Integer{Value: 1}},
		&expression.Literal{Value: value.NewBytes("two")},
	}}
	obj := &expression.Object{
		Keys:   []string{"list", "flag"},
		Values: []expression.Expression{arr, &expression.Literal{Value: &value.Boolean{Value: true}}},
	}
	chunk, err := Lower(obj)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	got := run(t, chunk, nil)

	want := value.NewObject()
	want.Pairs["list"] = &value.Array{Elements: []value.Value{
		&value.Integer{Value: 1}, value.NewBytes("two"),
	}}
	want.Pairs["flag"] = &value.Boolean{Value: true}
	if !value.Equal(got, want) {
		t.Errorf("got %s, want %s", got.Inspect(), want.Inspect())
	}
}

func TestQueryOpcode(t *testing.T) {
	event := value.NewObject()
	inner := value.NewObject()
	inner.Pairs["name"] = value.NewBytes("core")
	event.Pairs["service"] = inner

	ctx := expression.NewContext(event)

	tests := []struct {
		path []string
		want value.Value
	}{
		{[]string{"service", "name"}, value.NewBytes("core")},
		{[]string{"service", "missing"}, &value.Null{}},
		{[]string{"absent", "deep"}, &value.Null{}},
	}
	for _, tt := range tests {
		chunk, err := Lower(&expression.Query{Path: tt.path})
		if err != nil {
			t.Fatalf("lower %v: %v", tt.path, err)
		}
		got := run(t, chunk, ctx)
		if !value.Equal(got, tt.want) {
			t.Errorf("%v: got %s, want %s", tt.path, got.Inspect(), tt.want.Inspect())
		}
	}
}

func TestCallWithMissingSlot(t *testing.T) {
	state := expression.NewState()
	fn := first{}
	bound, err := function.Bind(state, fn, []function.CallArgument{
		{Expr: &expression.Literal{Value: &value.Null{}}},
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	compiled, err := fn.Compile(state, nil, bound)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	chunk, err := Lower(function.NewCall(fn, bound, compiled))
	if err != nil {
		t.Fatalf("lower: %v", err)
	}

	// The absent optional slot lowers to OP_MISSING, and Call sees it
	// as not provided rather than as a null value.
	got := run(t, chunk, nil)
	if _, isNull := got.(*value.Null); !isNull {
		t.Errorf("got %s, want null", got.Inspect())
	}
}

func TestCallUnknownIdent(t *testing.T) {
	chunk := NewChunk()
	chunk.WriteOp(OP_CALL)
	chunk.WriteU16(chunk.AddConstant(value.NewBytes("ghost")))
	chunk.WriteU8(0)
	chunk.WriteOp(OP_RETURN)

	_, err := New(testDispatch()).Run(chunk, expression.NewContext(nil))
	if err == nil || !strings.Contains(err.Error(), `no native dispatch entry for "ghost"`) {
		t.Errorf("err = %v", err)
	}
}

func TestDispatchGeneratedFromFunctions(t *testing.T) {
	d := testDispatch()
	entry, ok := d.Lookup("first")
	if !ok {
		t.Fatal("entry not found")
	}
	if entry.Ident != "first" || len(entry.Params) != 2 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestChunkEncoding(t *testing.T) {
	chunk := NewChunk()
	chunk.WriteOp(OP_CONST)
	chunk.WriteU16(0x1234)
	if chunk.Code[1] != 0x12 || chunk.Code[2] != 0x34 {
		t.Errorf("u16 not big-endian: %v", chunk.Code)
	}

	a := chunk.AddConstant(&value.Integer{Value: 1})
	b := chunk.AddConstant(&value.Integer{Value: 2})
	if a == b {
		t.Error("distinct constants share an index")
	}
}
