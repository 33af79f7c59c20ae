// Package value implements the dynamic runtime value model shared by
// both execution backends. A Value is immutable once constructed for a
// given evaluation step; each evaluation owns its own value graph.
package value

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/remaplang/remap/internal/typesystem"
)

type ValueType string

const (
	NULL_VAL      = "NULL"
	BOOLEAN_VAL   = "BOOLEAN"
	BYTES_VAL     = "BYTES"
	INTEGER_VAL   = "INTEGER"
	FLOAT_VAL     = "FLOAT"
	TIMESTAMP_VAL = "TIMESTAMP"
	ARRAY_VAL     = "ARRAY"
	OBJECT_VAL    = "OBJECT"
	REGEXP_VAL    = "REGEXP"
	MISSING_VAL   = "MISSING"
)

type Value interface {
	Type() ValueType
	Kind() typesystem.Kind
	Inspect() string
}

// Null
type Null struct{}

func (n *Null) Type() ValueType       { return NULL_VAL }
func (n *Null) Kind() typesystem.Kind { return typesystem.KindNull }
func (n *Null) Inspect() string       { return "null" }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ValueType       { return BOOLEAN_VAL }
func (b *Boolean) Kind() typesystem.Kind { return typesystem.KindBoolean }
func (b *Boolean) Inspect() string       { return fmt.Sprintf("%t", b.Value) }

// Bytes is an arbitrary byte sequence. It is not guaranteed to be valid
// UTF-8; textual operations must coerce explicitly and lossily.
type Bytes struct {
	Value []byte
}

func (b *Bytes) Type() ValueType       { return BYTES_VAL }
func (b *Bytes) Kind() typesystem.Kind { return typesystem.KindBytes }
func (b *Bytes) Inspect() string {
	return fmt.Sprintf("%q", strings.ToValidUTF8(string(b.Value), "�"))
}

// NewBytes builds a Bytes value from a string.
func NewBytes(s string) *Bytes { return &Bytes{Value: []byte(s)} }

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ValueType       { return INTEGER_VAL }
func (i *Integer) Kind() typesystem.Kind { return typesystem.KindInteger }
func (i *Integer) Inspect() string       { return fmt.Sprintf("%d", i.Value) }

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ValueType       { return FLOAT_VAL }
func (f *Float) Kind() typesystem.Kind { return typesystem.KindFloat }
func (f *Float) Inspect() string       { return fmt.Sprintf("%g", f.Value) }

// Timestamp
type Timestamp struct {
	Value time.Time
}

func (t *Timestamp) Type() ValueType       { return TIMESTAMP_VAL }
func (t *Timestamp) Kind() typesystem.Kind { return typesystem.KindTimestamp }
func (t *Timestamp) Inspect() string {
	return "t'" + t.Value.Format(time.RFC3339Nano) + "'"
}

// Array
type Array struct {
	Elements []Value
}

func (a *Array) Type() ValueType       { return ARRAY_VAL }
func (a *Array) Kind() typesystem.Kind { return typesystem.KindArray }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Object is a string-keyed mapping. Keys iterate in sorted order so
// output is deterministic across backends.
type Object struct {
	Pairs map[string]Value
}

func NewObject() *Object { return &Object{Pairs: make(map[string]Value)} }

func (o *Object) Type() ValueType       { return OBJECT_VAL }
func (o *Object) Kind() typesystem.Kind { return typesystem.KindObject }

// Keys returns the object's keys in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.Pairs))
	for k := range o.Pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o *Object) Inspect() string {
	parts := make([]string, 0, len(o.Pairs))
	for _, k := range o.Keys() {
		parts = append(parts, fmt.Sprintf("%q: %s", k, o.Pairs[k].Inspect()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Regexp
type Regexp struct {
	Value *regexp.Regexp
}

func (r *Regexp) Type() ValueType       { return REGEXP_VAL }
func (r *Regexp) Kind() typesystem.Kind { return typesystem.KindRegexp }
func (r *Regexp) Inspect() string       { return "r'" + r.Value.String() + "'" }

// missing marks an optional argument that was not provided at the call
// site. It is distinguishable from a present Null and carries no Kind;
// it never appears inside an event or a program result.
type missing struct{}

func (m *missing) Type() ValueType       { return MISSING_VAL }
func (m *missing) Kind() typesystem.Kind { return 0 }
func (m *missing) Inspect() string       { return "missing" }

// Missing is the not-provided marker singleton.
var Missing Value = &missing{}
