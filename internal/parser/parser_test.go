package parser

import (
	"testing"

	"github.com/remaplang/remap/internal/ast"
)

func TestParseRoundTrip(t *testing.T) {
	// String forms are canonical, so parsing and printing is a cheap
	// structural check.
	tests := []struct {
		input string
		want  string
	}{
		{`downcase("FOO 2 BAR")`, `downcase("FOO 2 BAR")`},
		{`downcase(value: "FOO")`, `downcase(value: "FOO")`},
		{`length([1, 2, 3])`, `length([1, 2, 3])`},
		{`match("a1", r'\d')`, `match("a1", r'\d')`},
		{`{ "a": 1, "b": [true, null] }`, `{"a": 1, "b": [true, null]}`},
		{`.http.status`, `.http.status`},
		{`-42`, `-42`},
		{`-2.5`, `-2.5`},
		{`format_timestamp(t'2021-02-10T23:32:00Z', "%F")`, `format_timestamp(t'2021-02-10T23:32:00Z', "%F")`},
	}

	for _, tt := range tests {
		node, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.input, err)
			continue
		}
		if got := node.String(); got != tt.want {
			t.Errorf("Parse(%q).String() = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseCallArguments(t *testing.T) {
	node, err := Parse(`f("x", key: 2, other: true)`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	call, ok := node.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", node)
	}
	if call.Name != "f" {
		t.Errorf("Name = %q", call.Name)
	}
	if len(call.Args) != 3 {
		t.Fatalf("got %d args, want 3", len(call.Args))
	}
	if call.Args[0].Keyword != "" {
		t.Errorf("first argument must be positional, got keyword %q", call.Args[0].Keyword)
	}
	if call.Args[1].Keyword != "key" || call.Args[2].Keyword != "other" {
		t.Errorf("keywords = %q, %q", call.Args[1].Keyword, call.Args[2].Keyword)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		`downcase("x"`,       // unclosed call
		`[1, 2`,              // unclosed array
		`{"a" 1}`,            // missing colon
		`.`,                  // dangling dot
		`downcase("x") junk`, // trailing input
		`-true`,              // minus on non-number
	}
	for _, input := range tests {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}
