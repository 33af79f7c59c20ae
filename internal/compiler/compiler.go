// Package compiler turns an unresolved syntax tree into a compiled
// program: call sites are resolved against the function registry,
// arguments are bound and type-checked, and every node carries a
// static TypeDef. Compilation never evaluates anything.
package compiler

import (
	"fmt"
	"regexp"

	"github.com/remaplang/remap/internal/ast"
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/parser"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// Program is one compiled top-level expression plus the compiler state
// it was checked against. It is immutable and safe to evaluate from
// many goroutines at once.
type Program struct {
	Root  expression.Expression
	State *expression.State
}

// TypeDef is the static descriptor of the program's result.
func (p *Program) TypeDef() typesystem.TypeDef {
	return p.Root.TypeDef(p.State)
}

type Compiler struct {
	registry *function.Registry
	state    *expression.State
	ctx      *function.CompileContext
}

func New(registry *function.Registry, state *expression.State, ctx *function.CompileContext) *Compiler {
	if state == nil {
		state = expression.NewState()
	}
	if ctx == nil {
		ctx = &function.CompileContext{}
	}
	return &Compiler{registry: registry, state: state, ctx: ctx}
}

// CompileSource parses and compiles one expression.
func (c *Compiler) CompileSource(source string) (*Program, error) {
	node, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return c.Compile(node)
}

// Compile compiles an already-parsed tree.
func (c *Compiler) Compile(node ast.Node) (*Program, error) {
	root, err := c.compileNode(node)
	if err != nil {
		return nil, err
	}
	return &Program{Root: root, State: c.state}, nil
}

func (c *Compiler) compileNode(node ast.Node) (expression.Expression, error) {
	switch n := node.(type) {
	case *ast.StringLit:
		return &expression.Literal{Value: value.NewBytes(n.Value)}, nil
	case *ast.IntLit:
		return &expression.Literal{Value: &value.Integer{Value: n.Value}}, nil
	case *ast.FloatLit:
		return &expression.Literal{Value: &value.Float{Value: n.Value}}, nil
	case *ast.BoolLit:
		return &expression.Literal{Value: &value.Boolean{Value: n.Value}}, nil
	case *ast.NullLit:
		return &expression.Literal{Value: &value.Null{}}, nil
	case *ast.TimestampLit:
		return &expression.Literal{Value: &value.Timestamp{Value: n.Value}}, nil
	case *ast.RegexLit:
		re, err := regexp.Compile(n.Pattern)
		if err != nil {
			line, col := n.Pos()
			return nil, fmt.Errorf("invalid regular expression at %d:%d: %v", line, col, err)
		}
		return &expression.Literal{Value: &value.Regexp{Value: re}}, nil
	case *ast.ArrayLit:
		elements := make([]expression.Expression, len(n.Elements))
		for i, el := range n.Elements {
			compiled, err := c.compileNode(el)
			if err != nil {
				return nil, err
			}
			elements[i] = compiled
		}
		return &expression.Array{Elements: elements}, nil
	case *ast.ObjectLit:
		values := make([]expression.Expression, len(n.Values))
		for i, v := range n.Values {
			compiled, err := c.compileNode(v)
			if err != nil {
				return nil, err
			}
			values[i] = compiled
		}
		return &expression.Object{Keys: n.Keys, Values: values}, nil
	case *ast.Query:
		return &expression.Query{Path: n.Path}, nil
	case *ast.Call:
		return c.compileCall(n)
	default:
		return nil, fmt.Errorf("cannot compile %T", node)
	}
}

func (c *Compiler) compileCall(call *ast.Call) (expression.Expression, error) {
	fn, ok := c.registry.Lookup(call.Name)
	if !ok {
		line, col := call.Pos()
		return nil, &function.CompileError{
			Function: call.Name,
			Message:  fmt.Sprintf("undefined function (at %d:%d)", line, col),
		}
	}

	args := make([]function.CallArgument, len(call.Args))
	for i, a := range call.Args {
		compiled, err := c.compileNode(a.Value)
		if err != nil {
			return nil, err
		}
		args[i] = function.CallArgument{Keyword: a.Keyword, Expr: compiled}
	}

	bound, err := function.Bind(c.state, fn, args)
	if err != nil {
		return nil, err
	}
	compiled, err := fn.Compile(c.state, c.ctx, bound)
	if err != nil {
		return nil, err
	}
	return function.NewCall(fn, bound, compiled), nil
}
