// Package backend provides an interface for different execution
// backends. This allows switching between the tree-walk interpreter
// and the VM while guaranteeing both see the same compiled program.
package backend

import (
	"github.com/remaplang/remap/internal/compiler"
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/value"
)

// Backend is the interface for execution backends.
type Backend interface {
	// Run evaluates the compiled program for one event context.
	Run(prog *compiler.Program, ctx *expression.Context) (value.Value, error)

	// Name returns the backend name for display.
	Name() string
}
