package vm

import (
	"github.com/remaplang/remap/internal/function"
	"github.com/remaplang/remap/internal/value"
)

// NativeFn is the fixed calling convention of the dispatch table: take
// runtime-resolved argument slots, produce a value or a runtime error.
type NativeFn func(args function.VMArgumentList) (value.Value, error)

// Entry is one native dispatch entry.
type Entry struct {
	Ident  string
	Params []function.Parameter
	Fn     NativeFn
}

// Dispatch is the read-only identifier → native entry mapping. It is
// generated from the same Function list that feeds the interpreter, so
// the two backends cannot silently drift apart. It is built once at
// startup, so concurrent reads need no synchronization.
type Dispatch struct {
	entries map[string]Entry
}

// NewDispatch builds the table from a function list, typically
// registry.Functions().
func NewDispatch(fns []function.Function) *Dispatch {
	d := &Dispatch{entries: make(map[string]Entry, len(fns))}
	for _, fn := range fns {
		d.entries[fn.Identifier()] = Entry{
			Ident:  fn.Identifier(),
			Params: fn.Parameters(),
			Fn:     fn.Call,
		}
	}
	return d
}

// Lookup returns the entry registered for ident.
func (d *Dispatch) Lookup(ident string) (Entry, bool) {
	e, ok := d.entries[ident]
	return e, ok
}
