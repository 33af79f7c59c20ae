package value

import (
	"fmt"

	"github.com/remaplang/remap/internal/typesystem"
)

// RuntimeError is the error class raised while evaluating an
// expression: a value's actual variant diverged from what static typing
// expected, or a function's semantics define a runtime failure (e.g.
// malformed input to a parser). It propagates up the expression tree
// and aborts evaluation of the current event.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// Errorf builds a RuntimeError from a format string.
func Errorf(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// NewTypeMismatch builds the RuntimeError for a checked accessor whose
// underlying variant differs from the expected Kind.
func NewTypeMismatch(expected typesystem.Kind, actual Value) *RuntimeError {
	return Errorf("expected %s value, got %s", expected, actual.Kind())
}
