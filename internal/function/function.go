package function

import (
	"github.com/remaplang/remap/internal/enrichment"
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/value"
)

// CompileContext carries the read-only external collaborators a
// function's compile step may consult: enrichment tables and the
// import paths for protobuf descriptors.
type CompileContext struct {
	Tables           *enrichment.Registry
	ProtoImportPaths []string
}

// Function is a stateless registry entry implementing one named
// operation. Instances are created once at registry construction and
// never mutated, so they are safe to share across concurrent
// compilations.
//
// Compile and Call are the two execution entry points. For every input
// on which both are defined, Call must produce a value identical to
// resolving the compiled expression with the same argument values
// bound. That equivalence is the central correctness contract of the
// dual-backend design.
type Function interface {
	// Identifier is the name used to invoke the function from source.
	// It must be unique within a registry.
	Identifier() string

	// Parameters is the fixed, ordered parameter list.
	Parameters() []Parameter

	// Compile performs function-specific static validation beyond the
	// generic parameter checks and returns the compiled node closing
	// over the bound argument expressions. It must be deterministic
	// and must not mutate program state.
	Compile(state *expression.State, ctx *CompileContext, args ArgumentList) (expression.Expression, error)

	// Examples are canonical conformance cases: documentation that is
	// also executed as regression tests against both backends.
	Examples() []Example

	// Call evaluates the function's semantics directly from
	// already-resolved argument values. It is used exclusively by the
	// native dispatch path.
	Call(args VMArgumentList) (value.Value, error)
}

// Example is one canonical conformance case. Want and WantErr are
// mutually exclusive: WantErr is a substring the compile or runtime
// error must contain.
type Example struct {
	Title   string
	Source  string
	Want    value.Value
	WantErr string
}
