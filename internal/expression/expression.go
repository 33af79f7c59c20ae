// Package expression defines the compiled, executable form of the
// language: every node exposes a runtime evaluation operation and a
// static type operation. The static side never evaluates anything.
package expression

import (
	"github.com/remaplang/remap/internal/typesystem"
	"github.com/remaplang/remap/internal/value"
)

// Expression is one compiled node. Nodes form a tree owned by the
// compiled program; evaluation must not touch shared mutable state, so
// a program can run on many events concurrently.
//
// TypeDef must be a sound over-approximation: the Kind of any value
// Resolve actually produces is a member of the declared Kind set, and
// if the descriptor is not fallible, Resolve never returns an error for
// input that type-checked.
type Expression interface {
	Resolve(ctx *Context) (value.Value, error)
	TypeDef(state *State) typesystem.TypeDef
}

// State is the read-only compiler state consulted while computing
// TypeDefs: the declared Kinds of external event fields, keyed by
// dotted path. Fields without a declaration are KindAny.
type State struct {
	ExternalKinds map[string]typesystem.Kind
}

func NewState() *State {
	return &State{ExternalKinds: make(map[string]typesystem.Kind)}
}

// QueryKind returns the declared Kind for an event-field path.
func (s *State) QueryKind(path string) typesystem.Kind {
	if s != nil {
		if k, ok := s.ExternalKinds[path]; ok {
			return k
		}
	}
	return typesystem.KindAny
}
