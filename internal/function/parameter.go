// Package function defines the contract every builtin function
// satisfies (identifier, parameters, compile step, canonical examples
// and a direct-call entry point), plus the compile-time argument
// binder, the runtime argument accessor and the registry.
package function

import "github.com/remaplang/remap/internal/typesystem"

// Parameter declares one named, typed input slot. Parameters are
// constructed once at registration time and shared by every call site.
type Parameter struct {
	Keyword  string
	Kinds    typesystem.Kind
	Required bool
}
