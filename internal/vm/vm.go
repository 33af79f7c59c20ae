package vm

import (
	"fmt"

	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/value"
)

// VM executes lowered chunks against a dispatch table. One VM may be
// reused across events, but not concurrently; evaluations from many
// goroutines each get their own VM, sharing the read-only dispatch
// table.
type VM struct {
	dispatch *Dispatch
	stack    []value.Value
}

func New(dispatch *Dispatch) *VM {
	return &VM{dispatch: dispatch, stack: make([]value.Value, 0, 16)}
}

// Run executes a chunk for one event context.
func (vm *VM) Run(chunk *Chunk, ctx *expression.Context) (value.Value, error) {
	vm.stack = vm.stack[:0]
	ip := 0

	readU16 := func() uint16 {
		v := uint16(chunk.Code[ip])<<8 | uint16(chunk.Code[ip+1])
		ip += 2
		return v
	}

	for ip < len(chunk.Code) {
		op := Opcode(chunk.Code[ip])
		ip++

		switch op {
		case OP_CONST:
			vm.push(chunk.Constants[readU16()])

		case OP_MISSING:
			vm.push(value.Missing)

		case OP_QUERY:
			path := chunk.Constants[readU16()].(*value.Array)
			vm.push(resolveQuery(ctx, path))

		case OP_MAKE_ARRAY:
			n := int(readU16())
			elements := make([]value.Value, n)
			copy(elements, vm.stack[len(vm.stack)-n:])
			vm.popN(n)
			vm.push(&value.Array{Elements: elements})

		case OP_MAKE_OBJECT:
			n := int(readU16())
			obj := value.NewObject()
			base := len(vm.stack) - n*2
			for i := 0; i < n; i++ {
				key := vm.stack[base+i*2].(*value.Bytes)
				obj.Pairs[string(key.Value)] = vm.stack[base+i*2+1]
			}
			vm.popN(n * 2)
			vm.push(obj)

		case OP_CALL:
			identConst := chunk.Constants[readU16()].(*value.Bytes)
			argc := int(chunk.Code[ip])
			ip++

			ident := string(identConst.Value)
			entry, ok := vm.dispatch.Lookup(ident)
			if !ok {
				return nil, fmt.Errorf("no native dispatch entry for %q", ident)
			}

			args := make([]value.Value, argc)
			copy(args, vm.stack[len(vm.stack)-argc:])
			vm.popN(argc)

			result, err := entry.Fn(function.NewVMArgumentList(entry.Params, args, ctx))
			if err != nil {
				return nil, err
			}
			vm.push(result)

		case OP_RETURN:
			if len(vm.stack) == 0 {
				return &value.Null{}, nil
			}
			return vm.pop(), nil

		default:
			return nil, fmt.Errorf("unknown opcode %d", op)
		}
	}

	return nil, fmt.Errorf("chunk ended without OP_RETURN")
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) popN(n int) { vm.stack = vm.stack[:len(vm.stack)-n] }

// resolveQuery mirrors the interpreter's event-field semantics: absent
// paths and non-object intermediates resolve to Null.
func resolveQuery(ctx *expression.Context, path *value.Array) value.Value {
	var current value.Value = ctx.Event
	for _, segment := range path.Elements {
		obj, ok := current.(*value.Object)
		if !ok {
			return &value.Null{}
		}
		next, ok := obj.Pairs[string(segment.(*value.Bytes).Value)]
		if !ok {
			return &value.Null{}
		}
		current = next
	}
	return current
}
