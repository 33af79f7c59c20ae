package function

import (
	"fmt"

	"github.com/remaplang/remap/internal/typesystem"
)

// CompileError is raised during argument binding or a function's
// compile step. It is always fatal to compiling the program and names
// the offending function and, where applicable, keyword.
type CompileError struct {
	Function string
	Keyword  string
	Message  string
}

func (e *CompileError) Error() string {
	if e.Function == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Function, e.Message)
}

func newMissingArgument(fn, keyword string) *CompileError {
	return &CompileError{
		Function: fn,
		Keyword:  keyword,
		Message:  fmt.Sprintf("missing required argument `%s`", keyword),
	}
}

func newUnknownKeyword(fn, keyword string) *CompileError {
	return &CompileError{
		Function: fn,
		Keyword:  keyword,
		Message:  fmt.Sprintf("unknown argument keyword `%s`", keyword),
	}
}

func newDuplicateArgument(fn, keyword string) *CompileError {
	return &CompileError{
		Function: fn,
		Keyword:  keyword,
		Message:  fmt.Sprintf("duplicate argument `%s`", keyword),
	}
}

func newTooManyArguments(fn string, max, got int) *CompileError {
	return &CompileError{
		Function: fn,
		Message:  fmt.Sprintf("too many arguments: function takes %d, got %d", max, got),
	}
}

func newKindMismatch(fn, keyword string, accepted, offered typesystem.Kind) *CompileError {
	return &CompileError{
		Function: fn,
		Keyword:  keyword,
		Message: fmt.Sprintf("type mismatch for `%s`: parameter accepts %s, got %s",
			keyword, accepted, offered),
	}
}

// NewCompileError builds a function-specific compile failure, for use
// by Compile implementations.
func NewCompileError(fn, format string, args ...interface{}) *CompileError {
	return &CompileError{Function: fn, Message: fmt.Sprintf(format, args...)}
}
