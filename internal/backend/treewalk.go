package backend

import (
	"fmt"

	"github.com/remaplang/remap/internal/compiler"
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/value"
)

// TreeWalkBackend evaluates the compiled expression tree directly
// through each node's Resolve.
type TreeWalkBackend struct{}

// NewTreeWalk creates a new tree-walk backend.
func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{}
}

// Run executes the program using tree-walk interpretation.
func (b *TreeWalkBackend) Run(prog *compiler.Program, ctx *expression.Context) (value.Value, error) {
	if prog == nil || prog.Root == nil {
		return nil, fmt.Errorf("no program to execute")
	}
	return prog.Root.Resolve(ctx)
}

// Name returns the backend name.
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}
