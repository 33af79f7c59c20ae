package vm

import (
	"fmt"

	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/value"
)

// Lower flattens a compiled expression tree into a chunk. Function
// calls become OP_CALL instructions that reference dispatch entries by
// identifier; everything else the tree expresses is reduced to the
// small construct opcode set.
func Lower(root expression.Expression) (*Chunk, error) {
	chunk := NewChunk()
	if err := lowerNode(chunk, root); err != nil {
		return nil, err
	}
	chunk.WriteOp(OP_RETURN)
	return chunk, nil
}

func lowerNode(chunk *Chunk, node expression.Expression) error {
	switch n := node.(type) {
	case *expression.Literal:
		chunk.WriteOp(OP_CONST)
		chunk.WriteU16(chunk.AddConstant(n.Value))
		return nil

	case *expression.Array:
		for _, el := range n.Elements {
			if err := lowerNode(chunk, el); err != nil {
				return err
			}
		}
		chunk.WriteOp(OP_MAKE_ARRAY)
		chunk.WriteU16(uint16(len(n.Elements)))
		return nil

	case *expression.Object:
		for i, k := range n.Keys {
			chunk.WriteOp(OP_CONST)
			chunk.WriteU16(chunk.AddConstant(value.NewBytes(k)))
			if err := lowerNode(chunk, n.Values[i]); err != nil {
				return err
			}
		}
		chunk.WriteOp(OP_MAKE_OBJECT)
		chunk.WriteU16(uint16(len(n.Keys)))
		return nil

	case *expression.Query:
		segments := make([]value.Value, len(n.Path))
		for i, s := range n.Path {
			segments[i] = value.NewBytes(s)
		}
		chunk.WriteOp(OP_QUERY)
		chunk.WriteU16(chunk.AddConstant(&value.Array{Elements: segments}))
		return nil

	case *function.Call:
		slots := n.Arguments.ForParameters()
		for _, slot := range slots {
			if slot == nil {
				chunk.WriteOp(OP_MISSING)
				continue
			}
			if err := lowerNode(chunk, slot); err != nil {
				return err
			}
		}
		chunk.WriteOp(OP_CALL)
		chunk.WriteU16(chunk.AddConstant(value.NewBytes(n.Ident)))
		chunk.WriteU8(byte(len(slots)))
		return nil

	default:
		// Function-specific expression nodes never reach the lowering
		// pass; their call wrapper does.
		return fmt.Errorf("cannot lower %T", node)
	}
}
