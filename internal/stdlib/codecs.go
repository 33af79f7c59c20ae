package stdlib

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// jsonKinds is everything a decoded JSON document can be.
const jsonKinds = typesystem.KindNull | typesystem.KindBoolean | typesystem.KindBytes |
	typesystem.KindInteger | typesystem.KindFloat | typesystem.KindArray | typesystem.KindObject

// ParseJSON decodes a JSON document. Malformed input is a runtime
// error, so the function is fallible.
type ParseJSON struct{}

var parseJSONParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindBytes, Required: true},
}

func (ParseJSON) Identifier() string               { return "parse_json" }
func (ParseJSON) Parameters() []function.Parameter { return parseJSONParams }

func (ParseJSON) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &parseJSONFn{value: args.Required("value")}, nil
}

func (ParseJSON) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "object",
			Source: `parse_json("{\"field\": \"value\"}")`,
			Want:   objectOf("field", value.NewBytes("value")),
		},
		{
			Title:   "invalid input",
			Source:  `parse_json("{")`,
			WantErr: "unable to parse json",
		},
	}
}

func (ParseJSON) Call(args function.VMArgumentList) (value.Value, error) {
	return parseJSON(args.Required("value"))
}

func parseJSON(v value.Value) (value.Value, error) {
	b, err := value.TryBytes(v)
	if err != nil {
		return nil, err
	}
	var data interface{}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, value.Errorf("unable to parse json: %v", err)
	}
	return value.FromInterface(data)
}

type parseJSONFn struct {
	value expression.Expression
}

func (f *parseJSONFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return parseJSON(v)
}

func (f *parseJSONFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Fallible(jsonKinds)
}

// EncodeJSON renders any value as a compact JSON document. Keys
// serialize in sorted order, so output is deterministic.
type EncodeJSON struct{}

var encodeJSONParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindAny, Required: true},
}

func (EncodeJSON) Identifier() string               { return "encode_json" }
func (EncodeJSON) Parameters() []function.Parameter { return encodeJSONParams }

func (EncodeJSON) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &encodeJSONFn{value: args.Required("value")}, nil
}

func (EncodeJSON) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "object",
			Source: `encode_json({"b": 2, "a": 1})`,
			Want:   value.NewBytes(`{"a":1,"b":2}`),
		},
		{
			Title:  "array",
			Source: `encode_json([1, true, null])`,
			Want:   value.NewBytes(`[1,true,null]`),
		},
	}
}

func (EncodeJSON) Call(args function.VMArgumentList) (value.Value, error) {
	return encodeJSON(args.Required("value"))
}

func encodeJSON(v value.Value) (value.Value, error) {
	// ToInterface yields only plain Go types, which cannot fail to
	// marshal; the function stays statically infallible.
	b, err := json.Marshal(value.ToInterface(v))
	if err != nil {
		return nil, value.Errorf("unable to encode json: %v", err)
	}
	return &value.Bytes{Value: b}, nil
}

type encodeJSONFn struct {
	value expression.Expression
}

func (f *encodeJSONFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return encodeJSON(v)
}

func (f *encodeJSONFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Infallible(typesystem.KindBytes)
}

// ParseYAML decodes a YAML document.
type ParseYAML struct{}

var parseYAMLParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindBytes, Required: true},
}

func (ParseYAML) Identifier() string               { return "parse_yaml" }
func (ParseYAML) Parameters() []function.Parameter { return parseYAMLParams }

func (ParseYAML) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &parseYAMLFn{value: args.Required("value")}, nil
}

func (ParseYAML) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "mapping",
			Source: `parse_yaml("count: 2\nenabled: true")`,
			Want: objectOf(
				"count", &value.Integer{Value: 2},
				"enabled", &value.Boolean{Value: true},
			),
		},
		{
			Title:   "invalid input",
			Source:  `parse_yaml("{,}")`,
			WantErr: "unable to parse yaml",
		},
	}
}

func (ParseYAML) Call(args function.VMArgumentList) (value.Value, error) {
	return parseYAML(args.Required("value"))
}

func parseYAML(v value.Value) (value.Value, error) {
	b, err := value.TryBytes(v)
	if err != nil {
		return nil, err
	}
	var data interface{}
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, value.Errorf("unable to parse yaml: %v", err)
	}
	return value.FromInterface(data)
}

type parseYAMLFn struct {
	value expression.Expression
}

func (f *parseYAMLFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return parseYAML(v)
}

func (f *parseYAMLFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Fallible(jsonKinds)
}

// EncodeYAML renders a value as a YAML document.
type EncodeYAML struct{}

var encodeYAMLParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindAny, Required: true},
}

func (EncodeYAML) Identifier() string               { return "encode_yaml" }
func (EncodeYAML) Parameters() []function.Parameter { return encodeYAMLParams }

func (EncodeYAML) Compile(_ *expression.State, _ *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	return &encodeYAMLFn{value: args.Required("value")}, nil
}

func (EncodeYAML) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "mapping",
			Source: `encode_yaml({"count": 2})`,
			Want:   value.NewBytes("count: 2\n"),
		},
	}
}

func (EncodeYAML) Call(args function.VMArgumentList) (value.Value, error) {
	return encodeYAML(args.Required("value"))
}

func encodeYAML(v value.Value) (value.Value, error) {
	b, err := yaml.Marshal(value.ToInterface(v))
	if err != nil {
		return nil, value.Errorf("unable to encode yaml: %v", err)
	}
	return &value.Bytes{Value: b}, nil
}

type encodeYAMLFn struct {
	value expression.Expression
}

func (f *encodeYAMLFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return encodeYAML(v)
}

func (f *encodeYAMLFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	// yaml.Marshal rejects some inputs (e.g. cyclic data); values here
	// are trees, but the declaration stays honest about the library.
	return typesystem.Fallible(typesystem.KindBytes)
}

// objectOf builds an object from alternating key/value arguments, for
// examples.
func objectOf(pairs ...interface{}) *value.Object {
	obj := value.NewObject()
	for i := 0; i < len(pairs); i += 2 {
		obj.Pairs[pairs[i].(string)] = pairs[i+1].(value.Value)
	}
	return obj
}
