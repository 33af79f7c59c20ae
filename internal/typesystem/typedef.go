package typesystem

import "fmt"

// TypeDef is the static descriptor attached to every compiled
// expression: the set of Kinds it may produce and whether evaluating it
// may return a runtime error. TypeDefs are plain values; deriving a new
// descriptor always constructs a new one.
//
// If Fallible is false the expression must never return an error for
// input that type-checked. Breaking that is a bug in the expression,
// not a recoverable condition.
type TypeDef struct {
	Kinds    Kind
	Fallible bool
}

// Infallible builds a descriptor for an expression that cannot fail.
func Infallible(kinds Kind) TypeDef {
	return TypeDef{Kinds: kinds}
}

// Fallible builds a descriptor for an expression that may fail at
// runtime.
func Fallible(kinds Kind) TypeDef {
	return TypeDef{Kinds: kinds, Fallible: true}
}

// Union merges two descriptors: kinds are united, and the result is
// fallible when either side is.
func (td TypeDef) Union(other TypeDef) TypeDef {
	return TypeDef{
		Kinds:    td.Kinds | other.Kinds,
		Fallible: td.Fallible || other.Fallible,
	}
}

func (td TypeDef) String() string {
	if td.Fallible {
		return fmt.Sprintf("%s (fallible)", td.Kinds)
	}
	return td.Kinds.String()
}
