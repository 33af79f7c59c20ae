// Package token defines the lexical tokens of the expression language.
package token

type TokenType string

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	IDENT     = "IDENT"
	INT       = "INT"
	FLOAT     = "FLOAT"
	STRING    = "STRING"
	REGEX     = "REGEX"     // r'...'
	TIMESTAMP = "TIMESTAMP" // t'...'

	TRUE  = "TRUE"
	FALSE = "FALSE"
	NULL  = "NULL"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACKET = "["
	RBRACKET = "]"
	LBRACE   = "{"
	RBRACE   = "}"
	COMMA    = ","
	COLON    = ":"
	DOT      = "."
	MINUS    = "-"
)

var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
}

// LookupIdent returns the keyword token type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
