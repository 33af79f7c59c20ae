package function

import (
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/value"
)

// VMArgumentList carries already-resolved argument values for the
// native dispatch path, addressed by parameter keyword, along with the
// evaluation context. Slots holding value.Missing mark optional
// parameters the call site did not provide.
type VMArgumentList struct {
	params []Parameter
	values []value.Value
	ctx    *expression.Context
}

// NewVMArgumentList pairs resolved values with their declared
// parameters. values is aligned with params; shorter slices leave the
// remaining slots not provided.
func NewVMArgumentList(params []Parameter, values []value.Value, ctx *expression.Context) VMArgumentList {
	aligned := make([]value.Value, len(params))
	for i := range aligned {
		if i < len(values) && values[i] != nil {
			aligned[i] = values[i]
		} else {
			aligned[i] = value.Missing
		}
	}
	return VMArgumentList{params: params, values: aligned, ctx: ctx}
}

// Context returns the evaluation context the arguments were resolved
// in, never nil.
func (a VMArgumentList) Context() *expression.Context {
	if a.ctx == nil {
		return expression.NewContext(nil)
	}
	return a.ctx
}

// Required returns the resolved value for a required parameter. The
// lowering pass guarantees the slot is filled.
func (a VMArgumentList) Required(keyword string) value.Value {
	for i, p := range a.params {
		if p.Keyword == keyword {
			v := a.values[i]
			if v == value.Missing {
				break
			}
			return v
		}
	}
	panic("argument `" + keyword + "` required but not provided")
}

// Optional returns the resolved value for an optional parameter and
// whether the call site provided it. A provided Null reports true.
func (a VMArgumentList) Optional(keyword string) (value.Value, bool) {
	for i, p := range a.params {
		if p.Keyword == keyword {
			v := a.values[i]
			if v == value.Missing {
				return nil, false
			}
			return v, true
		}
	}
	return nil, false
}
