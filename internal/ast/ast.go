// Package ast defines the unresolved syntax tree handed to the
// compiler: literals, collections, event-field queries and function
// call sites whose arguments are not yet bound to parameters.
package ast

import (
	"fmt"
	"strings"
	"time"
)

// Position locates a node in the source text for diagnostics.
type Position struct {
	Line   int
	Column int
}

func (p Position) Pos() (line, column int) { return p.Line, p.Column }

type Node interface {
	String() string
	Pos() (line, column int)
}

// StringLit is a double-quoted literal; its value is a byte sequence.
type StringLit struct {
	Position
	Value string
}

func (s *StringLit) String() string { return fmt.Sprintf("%q", s.Value) }

type IntLit struct {
	Position
	Value int64
}

func (i *IntLit) String() string { return fmt.Sprintf("%d", i.Value) }

type FloatLit struct {
	Position
	Value float64
}

func (f *FloatLit) String() string { return fmt.Sprintf("%g", f.Value) }

type BoolLit struct {
	Position
	Value bool
}

func (b *BoolLit) String() string { return fmt.Sprintf("%t", b.Value) }

type NullLit struct {
	Position
}

func (n *NullLit) String() string { return "null" }

// RegexLit holds the unparsed pattern of an r'...' literal.
type RegexLit struct {
	Position
	Pattern string
}

func (r *RegexLit) String() string { return "r'" + r.Pattern + "'" }

// TimestampLit holds a t'...' literal, parsed as RFC 3339.
type TimestampLit struct {
	Position
	Value time.Time
}

func (t *TimestampLit) String() string { return "t'" + t.Value.Format(time.RFC3339Nano) + "'" }

type ArrayLit struct {
	Position
	Elements []Node
}

func (a *ArrayLit) String() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type ObjectLit struct {
	Position
	Keys   []string
	Values []Node
}

func (o *ObjectLit) String() string {
	parts := make([]string, len(o.Keys))
	for i, k := range o.Keys {
		parts[i] = fmt.Sprintf("%q: %s", k, o.Values[i].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Query reads a field path out of the current event (".message",
// ".http.status").
type Query struct {
	Position
	Path []string
}

func (q *Query) String() string { return "." + strings.Join(q.Path, ".") }

// Arg is one call-site argument. Keyword is empty for positional
// arguments; the binder assigns those to parameters in declaration
// order.
type Arg struct {
	Keyword string
	Value   Node
}

// Call is an unresolved function call site.
type Call struct {
	Position
	Name string
	Args []Arg
}

func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		if a.Keyword != "" {
			parts[i] = a.Keyword + ": " + a.Value.String()
		} else {
			parts[i] = a.Value.String()
		}
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}
