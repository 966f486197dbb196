package parser

import (
	"github.com/leengari/tabcalc/internal/formula/lexer"
)

// isComparisonOperator checks if a token type is a comparison operator
func isComparisonOperator(t lexer.TokenType) bool {
	return t == lexer.EQUALS ||
		t == lexer.LESS_THAN ||
		t == lexer.GREATER_THAN ||
		t == lexer.LESS_EQUAL ||
		t == lexer.GREATER_EQUAL ||
		t == lexer.NOT_EQUAL
}

// normalizeOperator maps operator spellings onto one form: == → =, <> → !=
func normalizeOperator(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EQUALS:
		return "="
	case lexer.NOT_EQUAL:
		return "!="
	}
	return tok.Literal
}
