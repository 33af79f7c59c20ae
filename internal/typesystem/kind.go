// Package typesystem describes the static shape of runtime values:
// which variants an expression may produce, and whether evaluating it
// may fail. Nothing in this package executes user data.
package typesystem

import "strings"

// Kind is a bitset over the runtime value variants. A Kind describes
// either what an expression may produce or what a parameter accepts.
type Kind uint16

const (
	KindNull Kind = 1 << iota
	KindBoolean
	KindBytes
	KindInteger
	KindFloat
	KindTimestamp
	KindArray
	KindObject
	KindRegexp
)

// KindAny is the union of every variant bit.
const KindAny = KindNull | KindBoolean | KindBytes | KindInteger |
	KindFloat | KindTimestamp | KindArray | KindObject | KindRegexp

var kindNames = []struct {
	bit  Kind
	name string
}{
	{KindNull, "null"},
	{KindBoolean, "boolean"},
	{KindBytes, "bytes"},
	{KindInteger, "integer"},
	{KindFloat, "float"},
	{KindTimestamp, "timestamp"},
	{KindArray, "array"},
	{KindObject, "object"},
	{KindRegexp, "regexp"},
}

// Accepts reports whether every variant in offered is a member of k.
// This is a subset test: a declared KindAny accepts anything, and an
// empty offered set is accepted nowhere.
func (k Kind) Accepts(offered Kind) bool {
	if offered == 0 {
		return false
	}
	return offered&^k == 0
}

// Contains reports whether k includes all bits of other.
func (k Kind) Contains(other Kind) bool {
	return k&other == other
}

// Intersects reports whether k and other share at least one variant.
func (k Kind) Intersects(other Kind) bool {
	return k&other != 0
}

func (k Kind) String() string {
	if k == KindAny {
		return "any"
	}
	if k == 0 {
		return "none"
	}
	var parts []string
	for _, kn := range kindNames {
		if k&kn.bit != 0 {
			parts = append(parts, kn.name)
		}
	}
	return strings.Join(parts, "|")
}
