package vm

import "github.com/remaplang/remap/internal/value"

// Chunk represents a lowered instruction sequence.
type Chunk struct {
	// Code is the instruction stream.
	Code []byte

	// Constants pool - literals, field paths, function identifiers.
	Constants []value.Value
}

// NewChunk creates a new empty chunk.
func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]byte, 0, 64),
		Constants: make([]value.Value, 0, 16),
	}
}

// WriteOp appends an opcode.
func (c *Chunk) WriteOp(op Opcode) {
	c.Code = append(c.Code, byte(op))
}

// WriteU16 appends a 16-bit operand, big endian.
func (c *Chunk) WriteU16(v uint16) {
	c.Code = append(c.Code, byte(v>>8), byte(v))
}

// WriteU8 appends an 8-bit operand.
func (c *Chunk) WriteU8(b byte) {
	c.Code = append(c.Code, b)
}

// AddConstant adds a constant to the pool and returns its index.
func (c *Chunk) AddConstant(v value.Value) uint16 {
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}
