package function

import (
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/value"
)

// CallArgument is one argument as it appears at a call site, already
// compiled to an expression but not yet assigned to a parameter.
// Keyword is empty for positional arguments.
type CallArgument struct {
	Keyword string
	Expr    expression.Expression
}

// ArgumentList is the binder's output: bound argument expressions
// addressable by parameter keyword. Optional parameters absent at the
// call site are simply not present, see Optional.
type ArgumentList struct {
	params []Parameter
	bound  map[string]expression.Expression
}

// Bind resolves a call site's arguments against fn's declared
// parameters. Positional arguments fill parameters in declaration
// order; keyword arguments match by name. Unknown keywords, duplicate
// assignments, missing required parameters and static kind mismatches
// are compile errors.
func Bind(state *expression.State, fn Function, args []CallArgument) (ArgumentList, error) {
	params := fn.Parameters()
	ident := fn.Identifier()
	bound := make(map[string]expression.Expression, len(params))

	byKeyword := func(keyword string) *Parameter {
		for i := range params {
			if params[i].Keyword == keyword {
				return &params[i]
			}
		}
		return nil
	}

	positional := 0
	for _, arg := range args {
		var param *Parameter
		if arg.Keyword != "" {
			param = byKeyword(arg.Keyword)
			if param == nil {
				return ArgumentList{}, newUnknownKeyword(ident, arg.Keyword)
			}
		} else {
			if positional >= len(params) {
				return ArgumentList{}, newTooManyArguments(ident, len(params), len(args))
			}
			param = &params[positional]
			positional++
		}
		if _, dup := bound[param.Keyword]; dup {
			return ArgumentList{}, newDuplicateArgument(ident, param.Keyword)
		}

		// Purely static check: the argument expression's declared
		// kinds must all be acceptable, its runtime value is never
		// consulted.
		offered := arg.Expr.TypeDef(state).Kinds
		if !param.Kinds.Accepts(offered) {
			return ArgumentList{}, newKindMismatch(ident, param.Keyword, param.Kinds, offered)
		}
		bound[param.Keyword] = arg.Expr
	}

	for _, param := range params {
		if param.Required {
			if _, ok := bound[param.Keyword]; !ok {
				return ArgumentList{}, newMissingArgument(ident, param.Keyword)
			}
		}
	}

	return ArgumentList{params: params, bound: bound}, nil
}

// Required returns the bound expression for a required parameter. The
// binder has already guaranteed presence; absence here is a framework
// bug, not user error.
func (a ArgumentList) Required(keyword string) expression.Expression {
	expr, ok := a.bound[keyword]
	if !ok {
		panic("argument `" + keyword + "` required but not bound")
	}
	return expr
}

// Optional returns the bound expression for an optional parameter, or
// nil when the call site did not provide it.
func (a ArgumentList) Optional(keyword string) expression.Expression {
	return a.bound[keyword]
}

// Fallible reports whether any bound argument expression may fail at
// runtime.
func (a ArgumentList) Fallible(state *expression.State) bool {
	for _, expr := range a.bound {
		if expr.TypeDef(state).Fallible {
			return true
		}
	}
	return false
}

// ForParameters returns the bound expressions aligned with the
// declared parameter order; absent optional slots are nil. The VM
// lowering pass uses this to materialize argument slots.
func (a ArgumentList) ForParameters() []expression.Expression {
	out := make([]expression.Expression, len(a.params))
	for i, p := range a.params {
		out[i] = a.bound[p.Keyword]
	}
	return out
}

// RequiredLiteralString narrows a required argument to a constant
// string, for functions that need a compile-time literal (table names,
// descriptor paths, format strings that must be validated early).
func (a ArgumentList) RequiredLiteralString(fn, keyword string) (string, error) {
	expr := a.Required(keyword)
	lit, ok := expr.(*expression.Literal)
	if !ok {
		return "", NewCompileError(fn, "argument `%s` must be a literal", keyword)
	}
	s, err := value.TryBytesUTF8Lossy(lit.Value)
	if err != nil {
		return "", NewCompileError(fn, "argument `%s` must be a string literal", keyword)
	}
	return s, nil
}
