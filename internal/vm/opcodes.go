// Package vm implements the second execution backend: a compiled
// expression tree is lowered to a flat instruction sequence whose call
// instructions invoke native dispatch entries directly, skipping the
// per-node dynamic dispatch of the interpreter.
package vm

// Opcode represents a single VM instruction.
type Opcode byte

const (
	// OP_CONST pushes a constant from the pool (u16 operand).
	OP_CONST Opcode = iota

	// OP_MISSING pushes the not-provided marker for an optional
	// argument slot the call site left empty.
	OP_MISSING

	// OP_QUERY reads an event field path (u16 constant operand holding
	// the path segments) and pushes the result.
	OP_QUERY

	// OP_MAKE_ARRAY pops n values (u16 operand) and pushes an array.
	OP_MAKE_ARRAY

	// OP_MAKE_OBJECT pops n key/value pairs (u16 operand) and pushes
	// an object.
	OP_MAKE_OBJECT

	// OP_CALL invokes a native dispatch entry: u16 constant operand
	// holding the function identifier, u8 operand with the argument
	// slot count. Slots were pushed in parameter order.
	OP_CALL

	// OP_RETURN ends execution; the result is the top of stack.
	OP_RETURN
)

func (op Opcode) String() string {
	switch op {
	case OP_CONST:
		return "OP_CONST"
	case OP_MISSING:
		return "OP_MISSING"
	case OP_QUERY:
		return "OP_QUERY"
	case OP_MAKE_ARRAY:
		return "OP_MAKE_ARRAY"
	case OP_MAKE_OBJECT:
		return "OP_MAKE_OBJECT"
	case OP_CALL:
		return "OP_CALL"
	case OP_RETURN:
		return "OP_RETURN"
	}
	return "OP_UNKNOWN"
}
