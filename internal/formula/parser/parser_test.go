package parser

import (
	"testing"

	"github.com/leengari/tabcalc/internal/formula/ast"
)

// TestParsePrecedence checks operator precedence through the canonical String() form
func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "mul over add", input: "1 + 2 * 3", expected: "(1 + (2 * 3))"},
		{name: "parens", input: "(1 + 2) * 3", expected: "((1 + 2) * 3)"},
		{name: "left assoc minus", input: "10 - 4 - 3", expected: "((10 - 4) - 3)"},
		{name: "unary binds before power", input: "-2^2", expected: "((-2) ^ 2)"},
		{name: "power left assoc", input: "2^3^2", expected: "((2 ^ 3) ^ 2)"},
		{name: "concat below add", input: `a & b + 1`, expected: "(a & (b + 1))"},
		{name: "comparison below concat", input: `a & "x" = "yx"`, expected: `((a & "x") = "yx")`},
		{name: "and over or", input: "a || b && c", expected: "(a || (b && c))"},
		{name: "double equals normalized", input: "a == 1", expected: "(a = 1)"},
		{name: "diamond normalized", input: "a <> 1", expected: "(a != 1)"},
		{name: "not", input: "!a", expected: "(!a)"},
		{name: "leading equals", input: "=amount*2", expected: "(amount * 2)"},
		{name: "bracket field", input: "[Unit Price] * qty", expected: "([Unit Price] * qty)"},
		{name: "string escaping", input: `"say ""hi"""`, expected: `"say ""hi"""`},
		{name: "bool literal", input: "true", expected: "TRUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if got := expr.String(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestParseCall(t *testing.T) {
	expr, err := Parse(`sumif("amount", ">=100", amount)`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("Expected CallExpression, got %T", expr)
	}
	if call.Function != "SUMIF" {
		t.Errorf("Expected function name upper-cased to SUMIF, got %s", call.Function)
	}
	if len(call.Arguments) != 3 {
		t.Fatalf("Expected 3 arguments, got %d", len(call.Arguments))
	}
	if _, ok := call.Arguments[2].(*ast.Identifier); !ok {
		t.Errorf("Expected identifier argument, got %T", call.Arguments[2])
	}
}

func TestParseNoArgCall(t *testing.T) {
	expr, err := Parse("TODAY()")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("Expected CallExpression, got %T", expr)
	}
	if len(call.Arguments) != 0 {
		t.Errorf("Expected no arguments, got %d", len(call.Arguments))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantPos int
	}{
		{name: "empty", input: "", wantPos: 0},
		{name: "dangling operator", input: "1 +", wantPos: 3},
		{name: "unclosed paren", input: "(1 + 2", wantPos: 6},
		{name: "missing comma", input: "IF(a b)", wantPos: 5},
		{name: "trailing token", input: "a b", wantPos: 2},
		{name: "illegal token", input: "a $ b", wantPos: 2},
		{name: "empty field", input: "[ ]", wantPos: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			perr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if perr.Pos != tt.wantPos {
				t.Errorf("expected position %d, got %d (%v)", tt.wantPos, perr.Pos, perr)
			}
		})
	}
}
