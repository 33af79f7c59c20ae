package value

import (
	"fmt"
	"math"
	"time"
)

// FromInterface converts a plain Go value (as produced by the json,
// yaml and proto codecs) into a Value. Integral float64s become
// Integers, matching how the yaml decoder distinguishes 2 from 2.0.
func FromInterface(data interface{}) (Value, error) {
	switch v := data.(type) {
	case nil:
		return &Null{}, nil
	case bool:
		return &Boolean{Value: v}, nil
	case int:
		return &Integer{Value: int64(v)}, nil
	case int32:
		return &Integer{Value: int64(v)}, nil
	case int64:
		return &Integer{Value: v}, nil
	case uint32:
		return &Integer{Value: int64(v)}, nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows the signed 64-bit range", v)
		}
		return &Integer{Value: int64(v)}, nil
	case uint:
		return FromInterface(uint64(v))
	case float32:
		return FromInterface(float64(v))
	case float64:
		if v == float64(int64(v)) {
			return &Integer{Value: int64(v)}, nil
		}
		return &Float{Value: v}, nil
	case string:
		return NewBytes(v), nil
	case []byte:
		return &Bytes{Value: v}, nil
	case time.Time:
		return &Timestamp{Value: v}, nil
	case []interface{}:
		elements := make([]Value, len(v))
		for i, item := range v {
			el, err := FromInterface(item)
			if err != nil {
				return nil, err
			}
			elements[i] = el
		}
		return &Array{Elements: elements}, nil
	case map[string]interface{}:
		obj := NewObject()
		for k, item := range v {
			el, err := FromInterface(item)
			if err != nil {
				return nil, err
			}
			obj.Pairs[k] = el
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("cannot represent %T as a value", data)
	}
}

// ToInterface converts a Value to a plain Go value for the codecs.
// Bytes coerce lossily to strings, timestamps to RFC 3339.
func ToInterface(v Value) interface{} {
	switch val := v.(type) {
	case *Null:
		return nil
	case *Boolean:
		return val.Value
	case *Integer:
		return val.Value
	case *Float:
		return val.Value
	case *Bytes:
		return string(val.Value)
	case *Timestamp:
		return val.Value.Format(time.RFC3339Nano)
	case *Regexp:
		return val.Value.String()
	case *Array:
		out := make([]interface{}, len(val.Elements))
		for i, el := range val.Elements {
			out[i] = ToInterface(el)
		}
		return out
	case *Object:
		out := make(map[string]interface{}, len(val.Pairs))
		for k, el := range val.Pairs {
			out[k] = ToInterface(el)
		}
		return out
	default:
		return nil
	}
}

// Equal reports deep equality of two values. Timestamps compare by
// instant, regexps by source text, floats bit-for-bit.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case *Null:
		return true
	case *missing:
		return true
	case *Boolean:
		return av.Value == b.(*Boolean).Value
	case *Integer:
		return av.Value == b.(*Integer).Value
	case *Float:
		return av.Value == b.(*Float).Value
	case *Bytes:
		return string(av.Value) == string(b.(*Bytes).Value)
	case *Timestamp:
		return av.Value.Equal(b.(*Timestamp).Value)
	case *Regexp:
		return av.Value.String() == b.(*Regexp).Value.String()
	case *Array:
		bv := b.(*Array)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if len(av.Pairs) != len(bv.Pairs) {
			return false
		}
		for k, el := range av.Pairs {
			other, ok := bv.Pairs[k]
			if !ok || !Equal(el, other) {
				return false
			}
		}
		return true
	}
	return false
}
