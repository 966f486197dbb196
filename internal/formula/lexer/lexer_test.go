package lexer

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `IF(amount >= 1.5e2, "big ""one""", 'small') & [Unit Price] <> -3 && !ok || x == .5`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENTIFIER, "IF"},
		{PAREN_OPEN, "("},
		{IDENTIFIER, "amount"},
		{GREATER_EQUAL, ">="},
		{NUMBER, "1.5e2"},
		{COMMA, ","},
		{STRING, `big "one"`},
		{COMMA, ","},
		{STRING, "small"},
		{PAREN_CLOSE, ")"},
		{AMPERSAND, "&"},
		{FIELD, "Unit Price"},
		{NOT_EQUAL, "<>"},
		{MINUS, "-"},
		{NUMBER, "3"},
		{AND, "&&"},
		{BANG, "!"},
		{IDENTIFIER, "ok"},
		{OR, "||"},
		{IDENTIFIER, "x"},
		{EQUALS, "=="},
		{NUMBER, ".5"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	for _, in := range []string{"true", "TRUE", "True"} {
		if got := LookupIdent(in); got != TRUE {
			t.Errorf("LookupIdent(%q) = %s, want TRUE", in, got)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantPos int
	}{
		{name: "unterminated string", input: `LEN("abc`, wantPos: 4},
		{name: "unterminated field", input: `[Unit Price`, wantPos: 0},
		{name: "illegal char", input: `a # b`, wantPos: 2},
		{name: "single pipe", input: `a | b`, wantPos: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			lexErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if lexErr.Pos != tt.wantPos {
				t.Errorf("expected position %d, got %d", tt.wantPos, lexErr.Pos)
			}
		})
	}
}

func TestTokenizeIncludesEOF(t *testing.T) {
	tokens, err := Tokenize("1 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 4 || tokens[3].Type != EOF {
		t.Fatalf("expected 3 tokens plus EOF, got %v", tokens)
	}
}
