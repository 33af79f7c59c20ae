package compiler

import (
	"strings"
	"testing"

	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// echo returns its sole argument unchanged.
type echo struct{}

var echoParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindBytes, Required: true},
}

func (echo) Identifier() string               { return "echo" }
func (echo) Parameters() []function.Parameter { return echoParams }

func (echo) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return args.Required("value"), nil
}

func (echo) Examples() []function.Example { return nil }

func (echo) Call(args function.VMArgumentList) (value.Value, error) {
	return args.Required("value"), nil
}

func testCompiler(state *expression.State) *Compiler {
	return New(function.MustRegistry(echo{}), state, nil)
}

func TestCompileLiterals(t *testing.T) {
	tests := []struct {
		source string
		want   value.Value
		kinds  typesystem.Kind
	}{
		{`"hello"`, value.NewBytes("hello"), typesystem.KindBytes},
		{`42`, &value.Integer{Value: 42}, typesystem.KindInteger},
		{`-42`, &value.Integer{Value: -42}, typesystem.KindInteger},
		{`1.5`, &value.Float{Value: 1.5}, typesystem.KindFloat},
		{`true`, &value.Boolean{Value: true}, typesystem.KindBoolean},
		{`null`, &value.Null{}, typesystem.KindNull},
	}
	for _, tt := range tests {
		prog, err := testCompiler(nil).CompileSource(tt.source)
		if err != nil {
			t.Errorf("%s: %v", tt.source, err)
			continue
		}
		got, err := prog.Root.Resolve(expression.NewContext(nil))
		if err != nil {
			t.Errorf("%s: resolve: %v", tt.source, err)
			continue
		}
		if !value.Equal(got, tt.want) {
			t.Errorf("%s: got %s, want %s", tt.source, got.Inspect(), tt.want.Inspect())
		}
		td := prog.TypeDef()
		if td.Kinds != tt.kinds || td.Fallible {
			t.Errorf("%s: typedef = %s", tt.source, td)
		}
	}
}

func TestCompileRegexLiteral(t *testing.T) {
	prog, err := testCompiler(nil).CompileSource(`r'\d+'`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := prog.Root.Resolve(expression.NewContext(nil))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	re, rerr := value.TryRegexp(got)
	if rerr != nil {
		t.Fatalf("%v", rerr)
	}
	if !re.MatchString("123") {
		t.Error("compiled pattern does not match digits")
	}

	_, err = testCompiler(nil).CompileSource(`r'['`)
	if err == nil || !strings.Contains(err.Error(), "invalid regular expression") {
		t.Errorf("bad pattern: err = %v", err)
	}
}

func TestCompileContainersTypeDef(t *testing.T) {
	prog, err := testCompiler(nil).CompileSource(`{"xs": [1, 2], "name": "a"}`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	td := prog.TypeDef()
	if td.Kinds != typesystem.KindObject || td.Fallible {
		t.Errorf("typedef = %s, want object", td)
	}
}

func TestCompileQueryUsesDeclaredKind(t *testing.T) {
	state := expression.NewState()
	state.ExternalKinds["host"] = typesystem.KindBytes

	prog, err := testCompiler(state).CompileSource(`.host`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if prog.TypeDef().Kinds != typesystem.KindBytes {
		t.Errorf("declared field typedef = %s, want bytes", prog.TypeDef())
	}

	prog, err = testCompiler(state).CompileSource(`.other`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if prog.TypeDef().Kinds != typesystem.KindAny {
		t.Errorf("undeclared field typedef = %s, want any", prog.TypeDef())
	}
}

func TestCompileCall(t *testing.T) {
	prog, err := testCompiler(nil).CompileSource(`echo("hi")`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	call, ok := prog.Root.(*function.Call)
	if !ok {
		t.Fatalf("root is %T, want *function.Call", prog.Root)
	}
	if call.Ident != "echo" {
		t.Errorf("ident = %q", call.Ident)
	}
	got, err := call.Resolve(expression.NewContext(nil))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !value.Equal(got, value.NewBytes("hi")) {
		t.Errorf("got %s", got.Inspect())
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		source  string
		wantErr string
	}{
		{`ghost("x")`, "undefined function"},
		{`echo()`, "missing required argument `value`"},
		{`echo(1)`, "type mismatch for `value`"},
		{`echo("a", "b")`, "too many arguments"},
	}
	for _, tt := range tests {
		_, err := testCompiler(nil).CompileSource(tt.source)
		if err == nil {
			t.Errorf("%s: expected error", tt.source)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: error %q does not contain %q", tt.source, err, tt.wantErr)
		}
	}
}

func TestProgramIsReusable(t *testing.T) {
	prog, err := testCompiler(nil).CompileSource(`echo("same")`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := prog.Root.Resolve(expression.NewContext(nil))
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if !value.Equal(got, value.NewBytes("same")) {
			t.Errorf("run %d: got %s", i, got.Inspect())
		}
	}
}
