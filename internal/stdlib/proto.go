package stdlib

import (
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/remaplang/remap/internal/config"
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// Global registry for loaded proto descriptors. Populated at compile
// time and read by both execution paths.
var (
	protoRegistry      = make(map[string]*desc.FileDescriptor)
	protoRegistryMutex sync.RWMutex
)

// loadMessageDescriptor parses desc_file (caching the file descriptor)
// and resolves the named message type.
func loadMessageDescriptor(descFile, message string, importPaths []string) (*desc.MessageDescriptor, error) {
	protoRegistryMutex.RLock()
	fd, ok := protoRegistry[descFile]
	protoRegistryMutex.RUnlock()

	if !ok {
		parser := protoparse.Parser{}
		if len(importPaths) == 0 {
			importPaths = []string{config.DefaultProtoImportPath}
		}
		parser.ImportPaths = importPaths

		fds, err := parser.ParseFiles(descFile)
		if err != nil {
			return nil, fmt.Errorf("unable to parse proto file %q: %v", descFile, err)
		}
		protoRegistryMutex.Lock()
		for _, parsed := range fds {
			protoRegistry[parsed.GetName()] = parsed
			if parsed.GetName() == descFile {
				fd = parsed
			}
		}
		if fd == nil {
			fd = fds[0]
			protoRegistry[descFile] = fd
		}
		protoRegistryMutex.Unlock()
	}

	md := fd.FindMessage(message)
	if md == nil {
		return nil, fmt.Errorf("message type %q not found in %q", message, descFile)
	}
	return md, nil
}

// ParseProto decodes a protobuf-encoded message into an object.
type ParseProto struct{}

var parseProtoParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindBytes, Required: true},
	{Keyword: "desc_file", Kinds: typesystem.KindBytes, Required: true},
	{Keyword: "message", Kinds: typesystem.KindBytes, Required: true},
}

func (ParseProto) Identifier() string               { return "parse_proto" }
func (ParseProto) Parameters() []function.Parameter { return parseProtoParams }

func (ParseProto) Compile(_ *expression.State, ctx *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	descFile, err := args.RequiredLiteralString("parse_proto", "desc_file")
	if err != nil {
		return nil, err
	}
	message, err := args.RequiredLiteralString("parse_proto", "message")
	if err != nil {
		return nil, err
	}
	md, err := loadMessageDescriptor(descFile, message, ctx.ProtoImportPaths)
	if err != nil {
		return nil, function.NewCompileError("parse_proto", "%v", err)
	}
	return &parseProtoFn{value: args.Required("value"), md: md}, nil
}

func (ParseProto) Examples() []function.Example {
	return []function.Example{
		{
			Title: "round trip",
			Source: `parse_proto(` +
				`encode_proto({"id": 42, "name": "Allen"}, "testdata/message.proto", "test.Person"), ` +
				`"testdata/message.proto", "test.Person")`,
			Want: objectOf(
				"id", &value.Integer{Value: 42},
				"name", value.NewBytes("Allen"),
			),
		},
	}
}

func (ParseProto) Call(args function.VMArgumentList) (value.Value, error) {
	md, err := callMessageDescriptor(args)
	if err != nil {
		return nil, err
	}
	return parseProto(args.Required("value"), md)
}

func parseProto(v value.Value, md *desc.MessageDescriptor) (value.Value, error) {
	b, err := value.TryBytes(v)
	if err != nil {
		return nil, err
	}
	msg := dynamic.NewMessage(md)
	if err := msg.Unmarshal(b); err != nil {
		return nil, value.Errorf("unable to parse proto: %v", err)
	}
	return protoMessageToValue(msg)
}

type parseProtoFn struct {
	value expression.Expression
	md    *desc.MessageDescriptor
}

func (f *parseProtoFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return parseProto(v, f.md)
}

func (f *parseProtoFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Fallible(typesystem.KindObject)
}

// EncodeProto encodes an object as a protobuf message.
type EncodeProto struct{}

var encodeProtoParams = []function.Parameter{
	{Keyword: "value", Kinds: typesystem.KindObject, Required: true},
	{Keyword: "desc_file", Kinds: typesystem.KindBytes, Required: true},
	{Keyword: "message", Kinds: typesystem.KindBytes, Required: true},
}

func (EncodeProto) Identifier() string               { return "encode_proto" }
func (EncodeProto) Parameters() []function.Parameter { return encodeProtoParams }

func (EncodeProto) Compile(_ *expression.State, ctx *function.CompileContext, args function.ArgumentList) (expression.Expression, error) {
	descFile, err := args.RequiredLiteralString("encode_proto", "desc_file")
	if err != nil {
		return nil, err
	}
	message, err := args.RequiredLiteralString("encode_proto", "message")
	if err != nil {
		return nil, err
	}
	md, err := loadMessageDescriptor(descFile, message, ctx.ProtoImportPaths)
	if err != nil {
		return nil, function.NewCompileError("encode_proto", "%v", err)
	}
	return &encodeProtoFn{value: args.Required("value"), md: md}, nil
}

func (EncodeProto) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "person",
			Source: `encode_proto({"id": 42, "name": "Allen"}, "testdata/message.proto", "test.Person")`,
			Want:   &value.Bytes{Value: []byte{0x0a, 0x05, 'A', 'l', 'l', 'e', 'n', 0x10, 0x2a}},
		},
	}
}

func (EncodeProto) Call(args function.VMArgumentList) (value.Value, error) {
	md, err := callMessageDescriptor(args)
	if err != nil {
		return nil, err
	}
	return encodeProto(args.Required("value"), md)
}

func encodeProto(v value.Value, md *desc.MessageDescriptor) (value.Value, error) {
	obj, err := value.TryObject(v)
	if err != nil {
		return nil, err
	}
	msg := dynamic.NewMessage(md)
	if err := valueToProtoMessage(obj, msg); err != nil {
		return nil, err
	}
	b, err := msg.Marshal()
	if err != nil {
		return nil, value.Errorf("unable to encode proto: %v", err)
	}
	return &value.Bytes{Value: b}, nil
}

type encodeProtoFn struct {
	value expression.Expression
	md    *desc.MessageDescriptor
}

func (f *encodeProtoFn) Resolve(ctx *expression.Context) (value.Value, error) {
	v, err := f.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return encodeProto(v, f.md)
}

func (f *encodeProtoFn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Fallible(typesystem.KindBytes)
}

// callMessageDescriptor resolves the message descriptor on the native
// path, where desc_file and message arrive as resolved values. The
// compile step has usually warmed the descriptor cache already.
func callMessageDescriptor(args function.VMArgumentList) (*desc.MessageDescriptor, error) {
	descFile, err := value.TryBytesUTF8Lossy(args.Required("desc_file"))
	if err != nil {
		return nil, err
	}
	message, err := value.TryBytesUTF8Lossy(args.Required("message"))
	if err != nil {
		return nil, err
	}
	md, err := loadMessageDescriptor(descFile, message, nil)
	if err != nil {
		return nil, value.Errorf("%v", err)
	}
	return md, nil
}

// valueToProtoMessage fills msg from an object, field by field.
func valueToProtoMessage(obj *value.Object, msg *dynamic.Message) error {
	md := msg.GetMessageDescriptor()
	for _, key := range obj.Keys() {
		fd := md.FindFieldByName(key)
		if fd == nil {
			return value.Errorf("unknown field %q in message %s", key, md.GetFullyQualifiedName())
		}
		val := obj.Pairs[key]
		if _, isNull := val.(*value.Null); isNull {
			continue
		}
		converted, err := valueToProtoField(val, fd)
		if err != nil {
			return value.Errorf("field %q: %v", key, err)
		}
		if converted != nil {
			msg.SetField(fd, converted)
		}
	}
	return nil
}

func valueToProtoField(val value.Value, fd *desc.FieldDescriptor) (interface{}, error) {
	if fd.IsRepeated() {
		elements, err := value.TryArray(val)
		if err != nil {
			return nil, err
		}
		var slice []interface{}
		for _, el := range elements {
			converted, err := valueToProtoScalar(el, fd)
			if err != nil {
				return nil, err
			}
			slice = append(slice, converted)
		}
		return slice, nil
	}
	return valueToProtoScalar(val, fd)
}

func valueToProtoScalar(val value.Value, fd *desc.FieldDescriptor) (interface{}, error) {
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_INT32, descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		i, err := value.TryInteger(val)
		if err != nil {
			return nil, err
		}
		return int32(i), nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64, descriptorpb.FieldDescriptorProto_TYPE_SINT64, descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return value.TryInteger(val)
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32, descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		i, err := value.TryInteger(val)
		if err != nil {
			return nil, err
		}
		return uint32(i), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64, descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		i, err := value.TryInteger(val)
		if err != nil {
			return nil, err
		}
		return uint64(i), nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		f, err := floatArg(val)
		if err != nil {
			return nil, err
		}
		return float32(f), nil
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return floatArg(val)
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return value.TryBoolean(val)
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return value.TryBytesUTF8Lossy(val)
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return value.TryBytes(val)
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		obj, err := value.TryObject(val)
		if err != nil {
			return nil, err
		}
		nested := dynamic.NewMessage(fd.GetMessageType())
		if err := valueToProtoMessage(obj, nested); err != nil {
			return nil, err
		}
		return nested, nil
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		if i, err := value.TryInteger(val); err == nil {
			return int32(i), nil
		}
		name, err := value.TryBytesUTF8Lossy(val)
		if err != nil {
			return nil, err
		}
		ev := fd.GetEnumType().FindValueByName(name)
		if ev == nil {
			return nil, value.Errorf("unknown enum value %q", name)
		}
		return ev.GetNumber(), nil
	}
	return nil, value.Errorf("unsupported proto field type %v", fd.GetType())
}

// floatArg widens integers into floating-point proto fields.
func floatArg(val value.Value) (float64, error) {
	if i, err := value.TryInteger(val); err == nil {
		return float64(i), nil
	}
	return value.TryFloat(val)
}

// protoMessageToValue converts a decoded message to an object,
// skipping unset scalar fields so the result mirrors the wire content.
func protoMessageToValue(msg *dynamic.Message) (*value.Object, error) {
	obj := value.NewObject()
	for _, fd := range msg.GetMessageDescriptor().GetFields() {
		if !msg.HasField(fd) && !fd.IsRepeated() {
			continue
		}
		converted, err := protoFieldToValue(msg.GetField(fd), fd)
		if err != nil {
			return nil, err
		}
		obj.Pairs[fd.GetName()] = converted
	}
	return obj, nil
}

func protoFieldToValue(val interface{}, fd *desc.FieldDescriptor) (value.Value, error) {
	if fd.IsRepeated() {
		slice, ok := val.([]interface{})
		if !ok {
			return &value.Array{}, nil
		}
		elements := make([]value.Value, len(slice))
		for i, el := range slice {
			converted, err := protoScalarToValue(el)
			if err != nil {
				return nil, err
			}
			elements[i] = converted
		}
		return &value.Array{Elements: elements}, nil
	}
	return protoScalarToValue(val)
}

func protoScalarToValue(val interface{}) (value.Value, error) {
	if msg, ok := val.(*dynamic.Message); ok {
		return protoMessageToValue(msg)
	}
	return value.FromInterface(val)
}
