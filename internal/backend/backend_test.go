package backend

import (
	"testing"

	"github.com/remaplang/remap/internal/compiler"
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
	"github.com/remaplang/remap/internal/vm"
)

// wrap packs its argument into a single-element array.
type wrap struct{}

var wrapParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindAny, Required: true},
}

func (wrap) Identifier() string               { return "wrap" }
func (wrap) Parameters() []function.Parameter { return wrapParams }

func (wrap) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &wrapFn{value: args.Required("value")}, nil
}

func (wrap) Examples() []function.Example { return nil }

func (wrap) Call(args function.VMArgumentList) (value.Value, error) {
	return wrapValue(args.Required("value"))
}

func wrapValue(v value.Value) (value.Value, error) {
	return &value.Array{Elements: []value.Value{v}}, nil
}

type wrapFn struct {
	value expression.Expression
}

func (f *wrapFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return wrapValue(v)
}

func (f *wrapFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Infallible(typesystem.KindArray)
}

func testBackends() []Backend {
	dispatch := vm.NewDispatch([]function.Function{wrap{}})
	return []Backend{NewTreeWalk(), NewVM(dispatch)}
}

func TestBackendsAgree(t *testing.T) {
	c := compiler.New(function.MustRegistry(wrap{}), nil, nil)
	prog, err := c.CompileSource(`wrap(.level)`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	event := value.NewObject()
	event.Pairs["level"] = value.NewBytes("warn")
	want := &value.Array{Elements: []value.Value{value.NewBytes("warn")}}

	for _, b := range testBackends() {
		got, err := b.Run(prog, expression.NewContext(event))
		if err != nil {
			t.Fatalf("%s: %v", b.Name(), err)
		}
		if !value.Equal(got, want) {
			t.Errorf("%s: got %s, want %s", b.Name(), got.Inspect(), want.Inspect())
		}
	}
}

func TestBackendNames(t *testing.T) {
	names := make(map[string]bool)
	for _, b := range testBackends() {
		names[b.Name()] = true
	}
	if !names["tree-walk"] || !names["vm"] {
		t.Errorf("backend names = %v", names)
	}
}

func TestNilProgramRejected(t *testing.T) {
	for _, b := range testBackends() {
		if _, err := b.Run(nil, expression.NewContext(nil)); err == nil {
			t.Errorf("%s: nil program must fail", b.Name())
		}
	}
}
