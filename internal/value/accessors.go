package value

import (
	"regexp"
	"strings"
	"time"

	"github.com/remaplang/remap/internal/typesystem"
)

// Checked accessors: narrow a dynamic Value to one variant, or fail
// with a type-mismatch RuntimeError. Never an unchecked cast.

func TryBytes(v Value) ([]byte, error) {
	b, ok := v.(*Bytes)
	if !ok {
		return nil, NewTypeMismatch(typesystem.KindBytes, v)
	}
	return b.Value, nil
}

// TryBytesUTF8Lossy narrows to Bytes and coerces to a string, replacing
// invalid UTF-8 sequences with U+FFFD.
func TryBytesUTF8Lossy(v Value) (string, error) {
	b, err := TryBytes(v)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), "�"), nil
}

func TryBoolean(v Value) (bool, error) {
	b, ok := v.(*Boolean)
	if !ok {
		return false, NewTypeMismatch(typesystem.KindBoolean, v)
	}
	return b.Value, nil
}

func TryInteger(v Value) (int64, error) {
	i, ok := v.(*Integer)
	if !ok {
		return 0, NewTypeMismatch(typesystem.KindInteger, v)
	}
	return i.Value, nil
}

func TryFloat(v Value) (float64, error) {
	f, ok := v.(*Float)
	if !ok {
		return 0, NewTypeMismatch(typesystem.KindFloat, v)
	}
	return f.Value, nil
}

func TryTimestamp(v Value) (time.Time, error) {
	t, ok := v.(*Timestamp)
	if !ok {
		return time.Time{}, NewTypeMismatch(typesystem.KindTimestamp, v)
	}
	return t.Value, nil
}

func TryArray(v Value) ([]Value, error) {
	a, ok := v.(*Array)
	if !ok {
		return nil, NewTypeMismatch(typesystem.KindArray, v)
	}
	return a.Elements, nil
}

func TryObject(v Value) (*Object, error) {
	o, ok := v.(*Object)
	if !ok {
		return nil, NewTypeMismatch(typesystem.KindObject, v)
	}
	return o, nil
}

func TryRegexp(v Value) (*regexp.Regexp, error) {
	r, ok := v.(*Regexp)
	if !ok {
		return nil, NewTypeMismatch(typesystem.KindRegexp, v)
	}
	return r.Value, nil
}
