package function

import (
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// Call is the generic compiled call-site node. The interpreter path
// delegates to the function-specific expression produced by Compile;
// the VM lowering pass reads Ident and the bound argument expressions
// to emit direct dispatch instructions. Keeping both views on one node
// is what lets the two backends share a single compilation.
type Call struct {
	Ident     string
	Fn        Function
	Arguments ArgumentList

	expr expression.Expression
}

// NewCall wraps the function-specific compiled expression.
func NewCall(fn Function, args ArgumentList, compiled expression.Expression) *Call {
	return &Call{
		Ident:     fn.Identifier(),
		Fn:        fn,
		Arguments: args,
		expr:      compiled,
	}
}

func (c *Call) Resolve(ctx *expression.Context) (value.Value, error) {
	return c.expr.Resolve(ctx)
}

func (c *Call) TypeDef(state *expression.State) typesystem.TypeDef {
	td := c.expr.TypeDef(state)
	// A call inherits fallibility from its arguments: the function body
	// may be total, but it still runs only after every argument resolved.
	if !td.Fallible && c.Arguments.Fallible(state) {
		td.Fallible = true
	}
	return td
}
