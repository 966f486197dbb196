package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leengari/tabcalc/internal/formula/ast"
	"github.com/leengari/tabcalc/internal/formula/lexer"
)

// Error is a syntax error at a byte offset of the formula
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

type Parser struct {
	tokens  []lexer.Token
	curPos  int
	curTok  lexer.Token
	peekTok lexer.Token
}

func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens, curPos: 0}
	// Read two tokens to set curTok and peekTok
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.curPos < len(p.tokens) {
		p.peekTok = p.tokens[p.curPos]
		p.curPos++
	} else {
		p.peekTok = lexer.Token{Type: lexer.EOF, Pos: p.endPos()}
	}
}

func (p *Parser) endPos() int {
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		return last.Pos + len(last.Literal)
	}
	return 0
}

// Parse parses a full formula. A leading "=" (spreadsheet style) is allowed.
func (p *Parser) Parse() (ast.Expression, error) {
	if p.curTok.Type == lexer.EQUALS && p.curTok.Literal == "=" {
		p.nextToken()
	}
	if p.curTok.Type == lexer.EOF {
		return nil, p.errorf("empty expression")
	}

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.curTok.Type != lexer.EOF {
		return nil, p.errorf("unexpected %s", describe(p.curTok))
	}
	return expr, nil
}

// Parse is shorthand for tokenizing and parsing a formula string
func Parse(input string) (ast.Expression, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			return nil, &Error{Pos: lexErr.Pos, Msg: fmt.Sprintf("illegal token %q", lexErr.Literal)}
		}
		return nil, err
	}
	return New(tokens).Parse()
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curTok.Type == lexer.OR {
		p.nextToken()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Left: left, Operator: "||", Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.curTok.Type == lexer.AND {
		p.nextToken()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Left: left, Operator: "&&", Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for isComparisonOperator(p.curTok.Type) {
		op := normalizeOperator(p.curTok)
		p.nextToken()
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseConcat() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.curTok.Type == lexer.AMPERSAND {
		p.nextToken()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Operator: "&", Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.curTok.Type == lexer.PLUS || p.curTok.Type == lexer.MINUS {
		op := p.curTok.Literal
		p.nextToken()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.curTok.Type == lexer.ASTERISK || p.curTok.Type == lexer.SLASH {
		op := p.curTok.Literal
		p.nextToken()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

// parsePower is left-associative and binds looser than unary minus,
// so -2^2 is 4 and 2^3^2 is 64, as in spreadsheet formulas.
func (p *Parser) parsePower() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curTok.Type == lexer.CARET {
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Operator: "^", Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.curTok.Type {
	case lexer.MINUS, lexer.PLUS, lexer.BANG:
		op := p.curTok.Literal
		p.nextToken()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Operator: op, Operand: operand}, nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (ast.Expression, error) {
	switch p.curTok.Type {
	case lexer.IDENTIFIER:
		tok := p.curTok
		p.nextToken()
		if p.curTok.Type == lexer.PAREN_OPEN {
			return p.parseCall(tok)
		}
		return &ast.Identifier{TokenLiteralValue: tok.Literal, Value: tok.Literal}, nil
	case lexer.FIELD:
		tok := p.curTok
		p.nextToken()
		if tok.Literal == "" {
			return nil, &Error{Pos: tok.Pos, Msg: "empty field reference"}
		}
		return &ast.Identifier{TokenLiteralValue: "[" + tok.Literal + "]", Value: tok.Literal}, nil
	case lexer.STRING:
		val := p.curTok.Literal
		p.nextToken()
		return &ast.Literal{TokenLiteralValue: val, Value: val, Kind: ast.LiteralString}, nil
	case lexer.NUMBER:
		tok := p.curTok
		p.nextToken()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("invalid number %q", tok.Literal)}
		}
		return &ast.Literal{TokenLiteralValue: tok.Literal, Value: f, Kind: ast.LiteralNumber}, nil
	case lexer.TRUE:
		p.nextToken()
		return &ast.Literal{TokenLiteralValue: "TRUE", Value: true, Kind: ast.LiteralBool}, nil
	case lexer.FALSE:
		p.nextToken()
		return &ast.Literal{TokenLiteralValue: "FALSE", Value: false, Kind: ast.LiteralBool}, nil
	case lexer.PAREN_OPEN:
		p.nextToken()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.curTok.Type != lexer.PAREN_CLOSE {
			return nil, p.errorf("expected ), got %s", describe(p.curTok))
		}
		p.nextToken()
		return expr, nil
	default:
		return nil, p.errorf("unexpected %s in expression", describe(p.curTok))
	}
}

// parseCall parses NAME( [arg {, arg}] ); curTok is the opening paren
func (p *Parser) parseCall(name lexer.Token) (ast.Expression, error) {
	call := &ast.CallExpression{Function: strings.ToUpper(name.Literal), Pos: name.Pos}
	p.nextToken()

	if p.curTok.Type == lexer.PAREN_CLOSE {
		p.nextToken()
		return call, nil
	}

	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		call.Arguments = append(call.Arguments, arg)

		switch p.curTok.Type {
		case lexer.COMMA:
			p.nextToken()
		case lexer.PAREN_CLOSE:
			p.nextToken()
			return call, nil
		default:
			return nil, p.errorf("expected , or ) in call to %s, got %s", call.Function, describe(p.curTok))
		}
	}
}

func (p *Parser) errorf(format string, args ...interface{}) *Error {
	return &Error{Pos: p.curTok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of expression"
	}
	return fmt.Sprintf("%q", tok.Literal)
}
