package backend

import (
	"fmt"

	"github.com/remaplang/remap/internal/compiler"
	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/value"
	"github.com/remaplang/remap/internal/vm"
)

// VMBackend lowers the compiled program to an instruction sequence and
// executes it against the native dispatch table.
type VMBackend struct {
	dispatch *vm.Dispatch
}

// NewVM creates a VM backend over a dispatch table.
func NewVM(dispatch *vm.Dispatch) *VMBackend {
	return &VMBackend{dispatch: dispatch}
}

// Run lowers and executes the program.
func (b *VMBackend) Run(prog *compiler.Program, ctx *expression.Context) (value.Value, error) {
	if prog == nil || prog.Root == nil {
		return nil, fmt.Errorf("no program to execute")
	}
	chunk, err := vm.Lower(prog.Root)
	if err != nil {
		return nil, err
	}
	return vm.New(b.dispatch).Run(chunk, ctx)
}

// Name returns the backend name.
func (b *VMBackend) Name() string {
	return "vm"
}
