// Package stdlib is the builtin function catalog. Every function
// satisfies the function.Function contract: declared parameters, a
// compile step producing an expression node, canonical examples, and a
// direct-call entry point for the native dispatch path. The expression
// node and Call always share one core implementation, so the two
// backends cannot disagree.
package stdlib

import "github.com/remaplang/remap/internal/function"

// All returns the builtin catalog in stable order.
func All() []function.Function {
	return []function.Function{
		Downcase{},
		Upcase{},
		Length{},
		Match{},
		ParseJSON{},
		EncodeJSON{},
		ParseYAML{},
		EncodeYAML{},
		UUIDV4{},
		Now{},
		FormatTimestamp{},
		ParseTimestamp{},
		ParseProto{},
		EncodeProto{},
		GetEnrichmentTableRecord{},
	}
}

// NewRegistry builds the default registry over the full catalog.
func NewRegistry() *function.Registry {
	return function.MustRegistry(All()...)
}
