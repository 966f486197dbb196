package lexer

import (
	"fmt"
	"strings"
)

type TokenType int

const (
	// Special
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENTIFIER // amount, region, SUMIF
	FIELD      // [Unit Price]
	STRING     // "value" or 'value'
	NUMBER     // 123, 1.23, 1e3

	// Keywords
	TRUE
	FALSE

	// Operators & Punctuation
	PLUS          // +
	MINUS         // -
	ASTERISK      // *
	SLASH         // /
	CARET         // ^
	AMPERSAND     // &
	BANG          // !
	COMMA         // ,
	PAREN_OPEN    // (
	PAREN_CLOSE   // )
	EQUALS        // = or ==
	NOT_EQUAL     // != or <>
	LESS_THAN     // <
	GREATER_THAN  // >
	LESS_EQUAL    // <=
	GREATER_EQUAL // >=
	AND           // &&
	OR            // ||
)

var tokenNames = map[TokenType]string{
	ILLEGAL:       "ILLEGAL",
	EOF:           "EOF",
	IDENTIFIER:    "IDENTIFIER",
	FIELD:         "FIELD",
	STRING:        "STRING",
	NUMBER:        "NUMBER",
	TRUE:          "TRUE",
	FALSE:         "FALSE",
	PLUS:          "+",
	MINUS:         "-",
	ASTERISK:      "*",
	SLASH:         "/",
	CARET:         "^",
	AMPERSAND:     "&",
	BANG:          "!",
	COMMA:         ",",
	PAREN_OPEN:    "(",
	PAREN_CLOSE:   ")",
	EQUALS:        "=",
	NOT_EQUAL:     "!=",
	LESS_THAN:     "<",
	GREATER_THAN:  ">",
	LESS_EQUAL:    "<=",
	GREATER_EQUAL: ">=",
	AND:           "&&",
	OR:            "||",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"TRUE":  TRUE,
	"FALSE": FALSE,
}

type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset of the token start
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q)", t.Type, t.Literal)
}

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()
	start := l.position

	switch l.ch {
	case '+':
		tok = newToken(PLUS, "+", start)
	case '-':
		tok = newToken(MINUS, "-", start)
	case '*':
		tok = newToken(ASTERISK, "*", start)
	case '/':
		tok = newToken(SLASH, "/", start)
	case '^':
		tok = newToken(CARET, "^", start)
	case ',':
		tok = newToken(COMMA, ",", start)
	case '(':
		tok = newToken(PAREN_OPEN, "(", start)
	case ')':
		tok = newToken(PAREN_CLOSE, ")", start)
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = newToken(AND, "&&", start)
		} else {
			tok = newToken(AMPERSAND, "&", start)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = newToken(OR, "||", start)
		} else {
			tok = newToken(ILLEGAL, "|", start)
		}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(EQUALS, "==", start)
		} else {
			tok = newToken(EQUALS, "=", start)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(NOT_EQUAL, "!=", start)
		} else {
			tok = newToken(BANG, "!", start)
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = newToken(LESS_EQUAL, "<=", start)
		case '>':
			l.readChar()
			tok = newToken(NOT_EQUAL, "<>", start)
		default:
			tok = newToken(LESS_THAN, "<", start)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(GREATER_EQUAL, ">=", start)
		} else {
			tok = newToken(GREATER_THAN, ">", start)
		}
	case '"', '\'':
		lit, ok := l.readString(l.ch)
		if !ok {
			return newToken(ILLEGAL, l.input[start:l.position], start)
		}
		return newToken(STRING, lit, start)
	case '[':
		lit, ok := l.readBracketField()
		if !ok {
			return newToken(ILLEGAL, l.input[start:l.position], start)
		}
		return newToken(FIELD, lit, start)
	case 0:
		return newToken(EOF, "", start)
	default:
		if isLetter(l.ch) {
			lit := l.readIdentifier()
			return newToken(LookupIdent(lit), lit, start)
		} else if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
			return newToken(NUMBER, l.readNumber(), start)
		}
		tok = newToken(ILLEGAL, string(l.ch), start)
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	// Exponent: 1e3, 2.5E-2
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && l.readPosition+1 < len(l.input) && isDigit(l.input[l.readPosition+1])) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[position:l.position]
}

// readString reads a quoted literal. A doubled quote inside is an escaped quote.
func (l *Lexer) readString(quote byte) (string, bool) {
	var sb strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case 0:
			return sb.String(), false
		case quote:
			if l.peekChar() == quote {
				sb.WriteByte(quote)
				l.readChar()
				continue
			}
			// Consume the closing quote
			l.readChar()
			return sb.String(), true
		default:
			sb.WriteByte(l.ch)
		}
	}
}

func (l *Lexer) readBracketField() (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == ']' {
			lit := l.input[position:l.position]
			l.readChar()
			return strings.TrimSpace(lit), true
		}
		if l.ch == 0 {
			return "", false
		}
	}
}

func newToken(tokenType TokenType, lit string, pos int) Token {
	return Token{Type: tokenType, Literal: lit, Pos: pos}
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENTIFIER
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= 0x80
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// Tokenize lexes an entire formula at once. The EOF token is included.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			return nil, &Error{Pos: tok.Pos, Literal: tok.Literal}
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	return tokens, nil
}

// Error reports an illegal character or unterminated literal
type Error struct {
	Pos     int
	Literal string
}

func (e *Error) Error() string {
	return fmt.Sprintf("illegal token %q at position %d", e.Literal, e.Pos)
}
