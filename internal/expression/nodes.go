package expression

import (
	"strings"

	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// Literal wraps a constant value. Values are immutable, so the same
// instance is returned on every evaluation.
type Literal struct {
	Value value.Value
}

func (l *Literal) Resolve(_ *Context) (value.Value, error) {
	return l.Value, nil
}

func (l *Literal) TypeDef(_ *State) typesystem.TypeDef {
	return typesystem.Infallible(l.Value.Kind())
}

// Array evaluates its element expressions in order.
type Array struct {
	Elements []Expression
}

func (a *Array) Resolve(ctx *Context) (value.Value, error) {
	elements := make([]value.Value, len(a.Elements))
	for i, el := range a.Elements {
		v, err := el.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		elements[i] = v
	}
	return &value.Array{Elements: elements}, nil
}

func (a *Array) TypeDef(state *State) typesystem.TypeDef {
	td := typesystem.Infallible(typesystem.KindArray)
	for _, el := range a.Elements {
		if el.TypeDef(state).Fallible {
			td.Fallible = true
			break
		}
	}
	return td
}

// Object evaluates its value expressions; keys are fixed at compile
// time.
type Object struct {
	Keys   []string
	Values []Expression
}

func (o *Object) Resolve(ctx *Context) (value.Value, error) {
	obj := value.NewObject()
	for i, k := range o.Keys {
		v, err := o.Values[i].Resolve(ctx)
		if err != nil {
			return nil, err
		}
		obj.Pairs[k] = v
	}
	return obj, nil
}

func (o *Object) TypeDef(state *State) typesystem.TypeDef {
	td := typesystem.Infallible(typesystem.KindObject)
	for _, v := range o.Values {
		if v.TypeDef(state).Fallible {
			td.Fallible = true
			break
		}
	}
	return td
}

// Query reads a field path from the current event. An absent path (or
// a non-object along the way) resolves to Null rather than failing, so
// queries are statically infallible.
type Query struct {
	Path []string
}

func (q *Query) Resolve(ctx *Context) (value.Value, error) {
	var current value.Value = ctx.Event
	for _, segment := range q.Path {
		obj, ok := current.(*value.Object)
		if !ok {
			return &value.Null{}, nil
		}
		next, ok := obj.Pairs[segment]
		if !ok {
			return &value.Null{}, nil
		}
		current = next
	}
	return current, nil
}

func (q *Query) TypeDef(state *State) typesystem.TypeDef {
	return typesystem.Infallible(state.QueryKind(strings.Join(q.Path, ".")))
}
