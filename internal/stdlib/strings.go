package stdlib

import (
	"strings"

	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// Downcase lowercases a byte string. Invalid UTF-8 is coerced lossily
// before conversion.
type Downcase struct{}

var downcaseParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindBytes, Required: true},
}

func (Downcase) Identifier() string               { return "downcase" }
func (Downcase) Parameters() []function.Parameter { return downcaseParams }

func (Downcase) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &downcaseFn{value: args.Required("value")}, nil
}

func (Downcase) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "downcase",
			Source: `downcase("FOO 2 BAR")`,
			Want:   value.NewBytes("foo 2 bar"),
		},
	}
}

func (Downcase) Call(args function.VMArgumentList) (value.Value, error) {
	return downcase(args.Required("value"))
}

func downcase(v value.Value) (value.Value, error) {
	s, err := value.TryBytesUTF8Lossy(v)
	if err != nil {
		return nil, err
	}
	return value.NewBytes(strings.ToLower(s)), nil
}

type downcaseFn struct {
	value expression.Expression
}

func (f *downcaseFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return downcase(v)
}

func (f *downcaseFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Infallible(typesystem.KindBytes)
}

// Upcase uppercases a byte string.
type Upcase struct{}

var upcaseParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindBytes, Required: true},
}

func (Upcase) Identifier() string               { return "upcase" }
func (Upcase) Parameters() []function.Parameter { return upcaseParams }

func (Upcase) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &upcaseFn{value: args.Required("value")}, nil
}

func (Upcase) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "upcase",
			Source: `upcase("foo 2 bar")`,
			Want:   value.NewBytes("FOO 2 BAR"),
		},
	}
}

func (Upcase) Call(args function.VMArgumentList) (value.Value, error) {
	return upcase(args.Required("value"))
}

func upcase(v value.Value) (value.Value, error) {
	s, err := value.TryBytesUTF8Lossy(v)
	if err != nil {
		return nil, err
	}
	return value.NewBytes(strings.ToUpper(s)), nil
}

type upcaseFn struct {
	value expression.Expression
}

func (f *upcaseFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return upcase(v)
}

func (f *upcaseFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Infallible(typesystem.KindBytes)
}

// Length counts bytes of a byte string, elements of an array or
// entries of an object.
type Length struct{}

var lengthParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindBytes | typesystem.KindArray | typesystem.KindObject, Required: true},
}

func (Length) Identifier() string               { return "length" }
func (Length) Parameters() []function.Parameter { return lengthParams }

func (Length) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &lengthFn{value: args.Required("value")}, nil
}

func (Length) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "array length",
			Source: `length([1, 2, 3])`,
			Want:   &value.Integer{Value: 3},
		},
		{
			Title:  "byte length",
			Source: `length("foo")`,
			Want:   &value.Integer{Value: 3},
		},
		{
			Title:  "object length",
			Source: `length({"a": 1, "b": 2})`,
			Want:   &value.Integer{Value: 2},
		},
	}
}

func (Length) Call(args function.VMArgumentList) (value.Value, error) {
	return length(args.Required("value"))
}

func length(v value.Value) (value.Value, error) {
	switch val := v.(type) {
	case *value.Bytes:
		return &value.Integer{Value: int64(len(val.Value))}, nil
	case *value.Array:
		return &value.Integer{Value: int64(len(val.Elements))}, nil
	case *value.Object:
		return &value.Integer{Value: int64(len(val.Pairs))}, nil
	default:
		return nil, value.NewTypeMismatch(lengthParams[0].Kinds, v)
	}
}

type lengthFn struct {
	value expression.Expression
}

func (f *lengthFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return length(v)
}

func (f *lengthFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Infallible(typesystem.KindInteger)
}

// Match tests a byte string against a regular expression.
type Match struct{}

var matchParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindBytes, Required: true},
	{Keyword: "pattern", Kinds: typesystem.KindRegexp, Required: true},
}

func (Match) Identifier() string               { return "match" }
func (Match) Parameters() []function.Parameter { return matchParams }

func (Match) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &matchFn{
		value:   args.Required("value"),
		pattern: args.Required("pattern"),
	}, nil
}

func (Match) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "match",
			Source: `match("hello 123", r'\d+')`,
			Want:   &value.Boolean{Value: true},
		},
		{
			Title:  "no match",
			Source: `match("hello", r'\d+')`,
			Want:   &value.Boolean{Value: false},
		},
	}
}

func (Match) Call(args function.VMArgumentList) (value.Value, error) {
	return match(args.Required("value"), args.Required("pattern"))
}

func match(v, pattern value.Value) (value.Value, error) {
	b, err := value.TryBytes(v)
	if err != nil {
		return nil, err
	}
	re, err := value.TryRegexp(pattern)
	if err != nil {
		return nil, err
	}
	return &value.Boolean{Value: re.Match(b)}, nil
}

type matchFn struct {
	value   expression.Expression
	pattern expression.Expression
}

func (f *matchFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	pattern, err := f.pattern.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return match(v, pattern)
}

func (f *matchFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Infallible(typesystem.KindBoolean)
}
