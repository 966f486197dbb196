package ast

import (
	"bytes"
	"strconv"
	"strings"
)

// Node is the base interface for all AST nodes
type Node interface {
	TokenLiteral() string
	String() string
}

// Expression represents a value or operation
type Expression interface {
	Node
	expressionNode()
}

// Identifier references a field of the current row
type Identifier struct {
	TokenLiteralValue string // The token literal (e.g. "amount" or "[Unit Price]")
	Value             string // The field name (e.g. "amount")
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.TokenLiteralValue }
func (i *Identifier) String() string {
	if isPlainName(i.Value) {
		return i.Value
	}
	return "[" + i.Value + "]"
}

// LiteralKind is the kind of a literal value
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBool
)

// Literal represents a fixed value (string, number, bool)
type Literal struct {
	TokenLiteralValue string
	Value             interface{} // string, float64, bool
	Kind              LiteralKind
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.TokenLiteralValue }
func (l *Literal) String() string {
	switch l.Kind {
	case LiteralString:
		s, _ := l.Value.(string)
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	case LiteralBool:
		if b, _ := l.Value.(bool); b {
			return "TRUE"
		}
		return "FALSE"
	default:
		return l.TokenLiteralValue
	}
}

// UnaryExpression: Operator Operand (e.g. -x, !done)
type UnaryExpression struct {
	Operator string
	Operand  Expression
}

func (e *UnaryExpression) expressionNode()      {}
func (e *UnaryExpression) TokenLiteral() string { return e.Operator }
func (e *UnaryExpression) String() string {
	return "(" + e.Operator + e.Operand.String() + ")"
}

// BinaryExpression: Left Operator Right (e.g. amount * 2, region = "East")
type BinaryExpression struct {
	Left     Expression
	Operator string
	Right    Expression
}

func (e *BinaryExpression) expressionNode()      {}
func (e *BinaryExpression) TokenLiteral() string { return e.Operator }
func (e *BinaryExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// LogicalExpression: Left AND/OR Right, evaluated with short-circuit
type LogicalExpression struct {
	Left     Expression
	Operator string // "&&" or "||"
	Right    Expression
}

func (e *LogicalExpression) expressionNode()      {}
func (e *LogicalExpression) TokenLiteral() string { return e.Operator }
func (e *LogicalExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// CallExpression: NAME(arg1, arg2, ...)
type CallExpression struct {
	Function  string // upper-cased function name
	Arguments []Expression
	Pos       int // byte offset of the function name
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Function }
func (c *CallExpression) String() string {
	var out bytes.Buffer
	out.WriteString(c.Function)
	out.WriteString("(")
	for i, a := range c.Arguments {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(a.String())
	}
	out.WriteString(")")
	return out.String()
}

// NumberLiteral builds a numeric literal node
func NumberLiteral(f float64) *Literal {
	return &Literal{
		TokenLiteralValue: strconv.FormatFloat(f, 'f', -1, 64),
		Value:             f,
		Kind:              LiteralNumber,
	}
}

func isPlainName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r >= 0x80 || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z'):
		case i > 0 && (('0' <= r && r <= '9') || r == '.'):
		default:
			return false
		}
	}
	return true
}
