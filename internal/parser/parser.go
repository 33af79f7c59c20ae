// Package parser turns expression source text into an unresolved
// syntax tree. It is deliberately small: literals, collections,
// event-field queries and call sites are the whole surface.
package parser

import (
	"fmt"
	"strconv"
	"time"

	"github.com/remaplang/remap/internal/ast"
	"github.com/remaplang/remap/internal/lexer"
	"github.com/remaplang/remap/internal/token"
)

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []string
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Fill curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a single expression and requires the input to end there.
func Parse(input string) (ast.Node, error) {
	p := New(lexer.New(input))
	node := p.parseExpression()
	if node != nil && p.curToken.Type != token.EOF {
		p.addError("unexpected trailing input %q", p.curToken.Literal)
	}
	if len(p.errors) > 0 {
		return nil, fmt.Errorf("parse error: %s", p.errors[0])
	}
	return node, nil
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.curToken.Line, Column: p.curToken.Column}
}

func (p *Parser) addError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%s at %d:%d", msg, p.curToken.Line, p.curToken.Column))
}

func (p *Parser) expect(t token.TokenType) bool {
	if p.curToken.Type != t {
		p.addError("expected %q, got %q", string(t), p.curToken.Literal)
		return false
	}
	p.nextToken()
	return true
}

// parseExpression parses one expression and leaves curToken on the
// first token after it.
func (p *Parser) parseExpression() ast.Node {
	switch p.curToken.Type {
	case token.STRING:
		lit := &ast.StringLit{Position: p.pos(), Value: p.curToken.Literal}
		p.nextToken()
		return lit
	case token.INT:
		return p.parseInteger(false)
	case token.FLOAT:
		return p.parseFloat(false)
	case token.MINUS:
		p.nextToken()
		switch p.curToken.Type {
		case token.INT:
			return p.parseInteger(true)
		case token.FLOAT:
			return p.parseFloat(true)
		default:
			p.addError("expected number after '-', got %q", p.curToken.Literal)
			return nil
		}
	case token.TRUE, token.FALSE:
		lit := &ast.BoolLit{Position: p.pos(), Value: p.curToken.Type == token.TRUE}
		p.nextToken()
		return lit
	case token.NULL:
		lit := &ast.NullLit{Position: p.pos()}
		p.nextToken()
		return lit
	case token.REGEX:
		lit := &ast.RegexLit{Position: p.pos(), Pattern: p.curToken.Literal}
		p.nextToken()
		return lit
	case token.TIMESTAMP:
		return p.parseTimestamp()
	case token.LBRACKET:
		return p.parseArray()
	case token.LBRACE:
		return p.parseObject()
	case token.DOT:
		return p.parseQuery()
	case token.IDENT:
		return p.parseCall()
	default:
		p.addError("unexpected token %q", p.curToken.Literal)
		return nil
	}
}

func (p *Parser) parseInteger(negative bool) ast.Node {
	pos := p.pos()
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError("invalid integer literal %q", p.curToken.Literal)
		return nil
	}
	if negative {
		v = -v
	}
	p.nextToken()
	return &ast.IntLit{Position: pos, Value: v}
}

func (p *Parser) parseFloat(negative bool) ast.Node {
	pos := p.pos()
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError("invalid float literal %q", p.curToken.Literal)
		return nil
	}
	if negative {
		v = -v
	}
	p.nextToken()
	return &ast.FloatLit{Position: pos, Value: v}
}

func (p *Parser) parseTimestamp() ast.Node {
	pos := p.pos()
	ts, err := time.Parse(time.RFC3339Nano, p.curToken.Literal)
	if err != nil {
		p.addError("invalid timestamp literal %q", p.curToken.Literal)
		return nil
	}
	p.nextToken()
	return &ast.TimestampLit{Position: pos, Value: ts}
}

func (p *Parser) parseArray() ast.Node {
	pos := p.pos()
	p.nextToken() // consume '['

	arr := &ast.ArrayLit{Position: pos}
	for p.curToken.Type != token.RBRACKET && p.curToken.Type != token.EOF {
		el := p.parseExpression()
		if el == nil {
			return nil
		}
		arr.Elements = append(arr.Elements, el)
		if p.curToken.Type == token.COMMA {
			p.nextToken()
		}
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return arr
}

func (p *Parser) parseObject() ast.Node {
	pos := p.pos()
	p.nextToken() // consume '{'

	obj := &ast.ObjectLit{Position: pos}
	for p.curToken.Type != token.RBRACE && p.curToken.Type != token.EOF {
		if p.curToken.Type != token.STRING && p.curToken.Type != token.IDENT {
			p.addError("expected object key, got %q", p.curToken.Literal)
			return nil
		}
		key := p.curToken.Literal
		p.nextToken()
		if !p.expect(token.COLON) {
			return nil
		}
		val := p.parseExpression()
		if val == nil {
			return nil
		}
		obj.Keys = append(obj.Keys, key)
		obj.Values = append(obj.Values, val)
		if p.curToken.Type == token.COMMA {
			p.nextToken()
		}
	}
	if !p.expect(token.RBRACE) {
		return nil
	}
	return obj
}

func (p *Parser) parseQuery() ast.Node {
	pos := p.pos()

	q := &ast.Query{Position: pos}
	for p.curToken.Type == token.DOT {
		p.nextToken()
		if p.curToken.Type != token.IDENT {
			p.addError("expected field name after '.', got %q", p.curToken.Literal)
			return nil
		}
		q.Path = append(q.Path, p.curToken.Literal)
		p.nextToken()
	}
	return q
}

// parseCall parses `ident(arg, keyword: arg, ...)`.
func (p *Parser) parseCall() ast.Node {
	pos := p.pos()
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(token.LPAREN) {
		return nil
	}

	call := &ast.Call{Position: pos, Name: name}
	for p.curToken.Type != token.RPAREN && p.curToken.Type != token.EOF {
		arg := ast.Arg{}
		if p.curToken.Type == token.IDENT && p.peekToken.Type == token.COLON {
			arg.Keyword = p.curToken.Literal
			p.nextToken()
			p.nextToken()
		}
		val := p.parseExpression()
		if val == nil {
			return nil
		}
		arg.Value = val
		call.Args = append(call.Args, arg)
		if p.curToken.Type == token.COMMA {
			p.nextToken()
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return call
}
