package stdlib

import (
	"github.com/google/uuid"

	"github.com/remaplang/remap/internal/expression"
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// UUIDV4 generates a random version-4 UUID.
type UUIDV4 struct{}

func (UUIDV4) Identifier() string               { return "uuid_v4" }
func (UUIDV4) Parameters() []function.Parameter { return nil }

func (UUIDV4) Compile(_ *expression.State, _ *function.CompileContext, _ function.ArgumentList) (expression.Expression, error) {
	return &uuidV4Fn{}, nil
}

func (UUIDV4) Examples() []function.Example {
	// The value itself is random; its canonical textual length is not.
	return []function.Example{
		{
			Title:  "uuid_v4",
			Source: `length(uuid_v4())`,
			Want:   &value.Integer{Value: 36},
		},
	}
}

func (UUIDV4) Call(_ function.VMArgumentList) (value.Value, error) {
	return uuidV4()
}

func uuidV4() (value.Value, error) {
	return value.NewBytes(uuid.NewString()), nil
}

type uuidV4Fn struct{}

func (f *uuidV4Fn) Resolve(_ *expression.Context) (value.Value, error) {
	return uuidV4()
}

func (f *uuidV4Fn) TypeDef(_ *expression.State) typesystem.TypeDef {
	return typesystem.Infallible(typesystem.KindBytes)
}
