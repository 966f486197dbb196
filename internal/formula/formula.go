// Package formula compiles spreadsheet-style formulas and evaluates them
// against one row of a dataset. Cross-row functions (SUMIF, COUNTIF,
// AVERAGEIF, LOOKUP) read the dataset passed to Eval.
package formula

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
	"github.com/leengari/tabcalc/internal/formula/ast"
	"github.com/leengari/tabcalc/internal/formula/parser"
)

// Program is a compiled formula. It is immutable and safe to reuse.
type Program struct {
	source string
	root   node
	fields []string
	clock  func() time.Time
}

// Option configures compilation
type Option func(*Program)

// WithClock pins the time source used by TODAY() and NOW()
func WithClock(clock func() time.Time) Option {
	return func(p *Program) {
		p.clock = clock
	}
}

// Compile parses a formula once into a reusable program.
// Malformed formulas fail with a *ParseError.
func Compile(expr string, opts ...Option) (*Program, error) {
	tree, err := parser.Parse(expr)
	if err != nil {
		var perr *parser.Error
		if errors.As(err, &perr) {
			return nil, &ParseError{Expr: expr, Pos: perr.Pos, Msg: perr.Msg}
		}
		return nil, &ParseError{Expr: expr, Pos: -1, Msg: err.Error()}
	}

	p := &Program{source: expr, clock: time.Now}
	for _, opt := range opts {
		opt(p)
	}

	c := &compiler{seen: make(map[string]bool)}
	root, err := c.compile(tree)
	if err != nil {
		if perr, ok := err.(*ParseError); ok {
			perr.Expr = expr
			return nil, perr
		}
		return nil, &ParseError{Expr: expr, Pos: -1, Msg: err.Error()}
	}
	p.root = root
	p.fields = c.fields
	return p, nil
}

// MustCompile is like Compile but panics on error. Intended for fixed formulas.
func MustCompile(expr string, opts ...Option) *Program {
	p, err := Compile(expr, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the formula text the program was compiled from
func (p *Program) Source() string {
	return p.source
}

// Fields returns the row fields the formula references, in first-use order
func (p *Program) Fields() []string {
	out := make([]string, len(p.fields))
	copy(out, p.fields)
	return out
}

// Eval evaluates the program against a row. ds is the dataset that
// cross-row functions fold over; it is read, never modified.
// Runtime failures are returned as *EvalError.
func (p *Program) Eval(row data.Row, ds data.Dataset) (data.Value, error) {
	e := &env{row: row, ds: ds, now: p.clock}
	v, err := p.root.eval(e)
	if err != nil {
		var evalErr *EvalError
		if errors.As(err, &evalErr) {
			evalErr.Expr = p.source
			return nil, evalErr
		}
		return nil, &EvalError{Expr: p.source, Err: err}
	}
	return v, nil
}

// EvalBool evaluates the program and reads the result as a boolean
func (p *Program) EvalBool(row data.Row, ds data.Dataset) (bool, error) {
	v, err := p.Eval(row, ds)
	if err != nil {
		return false, err
	}
	return coerce.Truthy(v), nil
}

// env is the per-evaluation context
type env struct {
	row data.Row
	ds  data.Dataset
	now func() time.Time
}

// node is a compiled expression
type node interface {
	eval(e *env) (data.Value, error)
}

type compiler struct {
	fields []string
	seen   map[string]bool
}

func (c *compiler) compile(expr ast.Expression) (node, error) {
	switch x := expr.(type) {
	case *ast.Literal:
		return literalNode{value: x.Value}, nil

	case *ast.Identifier:
		if !c.seen[x.Value] {
			c.seen[x.Value] = true
			c.fields = append(c.fields, x.Value)
		}
		return fieldNode{name: x.Value}, nil

	case *ast.UnaryExpression:
		operand, err := c.compile(x.Operand)
		if err != nil {
			return nil, err
		}
		return unaryNode{op: x.Operator, operand: operand}, nil

	case *ast.BinaryExpression:
		left, err := c.compile(x.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.compile(x.Right)
		if err != nil {
			return nil, err
		}
		return binaryNode{op: x.Operator, left: left, right: right}, nil

	case *ast.LogicalExpression:
		left, err := c.compile(x.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.compile(x.Right)
		if err != nil {
			return nil, err
		}
		return logicalNode{and: x.Operator == "&&", left: left, right: right}, nil

	case *ast.CallExpression:
		return c.compileCall(x)

	default:
		return nil, &ParseError{Pos: -1, Msg: fmt.Sprintf("unsupported expression %T", expr)}
	}
}

func (c *compiler) compileCall(call *ast.CallExpression) (node, error) {
	id, ok := lookupFunc(call.Function)
	if !ok {
		return nil, &ParseError{Pos: call.Pos, Msg: fmt.Sprintf("unknown function %s", call.Function)}
	}

	fn := &builtins[id]
	n := len(call.Arguments)
	if n < fn.minArgs || (fn.maxArgs >= 0 && n > fn.maxArgs) {
		return nil, &ParseError{Pos: call.Pos, Msg: fmt.Sprintf("%s expects %s, got %d", call.Function, fn.arity(), n)}
	}

	args := make([]node, n)
	for i, a := range call.Arguments {
		compiled, err := c.compile(a)
		if err != nil {
			return nil, err
		}
		args[i] = compiled
	}
	return callNode{fn: id, name: call.Function, args: args}, nil
}

type literalNode struct {
	value data.Value
}

func (n literalNode) eval(*env) (data.Value, error) {
	return n.value, nil
}

type fieldNode struct {
	name string
}

func (n fieldNode) eval(e *env) (data.Value, error) {
	v, ok := e.row.Get(n.name)
	if !ok {
		return nil, newUnknownField(n.name)
	}
	return v, nil
}

type unaryNode struct {
	op      string
	operand node
}

func (n unaryNode) eval(e *env) (data.Value, error) {
	v, err := n.operand.eval(e)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "-":
		return -coerce.ToNumber(v), nil
	case "+":
		return coerce.ToNumber(v), nil
	case "!":
		return !coerce.Truthy(v), nil
	}
	return nil, newArgError("unsupported unary operator %s", n.op)
}

type binaryNode struct {
	op          string
	left, right node
}

func (n binaryNode) eval(e *env) (data.Value, error) {
	l, err := n.left.eval(e)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(e)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "+":
		return coerce.ToNumber(l) + coerce.ToNumber(r), nil
	case "-":
		return coerce.ToNumber(l) - coerce.ToNumber(r), nil
	case "*":
		return coerce.ToNumber(l) * coerce.ToNumber(r), nil
	case "/":
		d := coerce.ToNumber(r)
		if d == 0 {
			return nil, newArgError("division by zero")
		}
		return coerce.ToNumber(l) / d, nil
	case "^":
		return math.Pow(coerce.ToNumber(l), coerce.ToNumber(r)), nil
	case "&":
		return coerce.ToText(l) + coerce.ToText(r), nil
	case "=":
		return coerce.Equal(l, r), nil
	case "!=":
		return !coerce.Equal(l, r), nil
	}

	c, ordered := coerce.Compare(l, r)
	if !ordered {
		return false, nil
	}
	switch n.op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	}
	return nil, newArgError("unsupported operator %s", n.op)
}

type logicalNode struct {
	and         bool
	left, right node
}

func (n logicalNode) eval(e *env) (data.Value, error) {
	l, err := n.left.eval(e)
	if err != nil {
		return nil, err
	}
	lt := coerce.Truthy(l)
	if n.and && !lt {
		return false, nil
	}
	if !n.and && lt {
		return true, nil
	}
	r, err := n.right.eval(e)
	if err != nil {
		return nil, err
	}
	return coerce.Truthy(r), nil
}

type callNode struct {
	fn   funcID
	name string
	args []node
}

func (n callNode) eval(e *env) (data.Value, error) {
	args := &argList{env: e, nodes: n.args}
	v, err := builtins[n.fn].call(e, args)
	if err != nil {
		var evalErr *EvalError
		if errors.As(err, &evalErr) {
			if evalErr.Function == "" && evalErr.Field == "" {
				evalErr.Function = n.name
			}
			return nil, evalErr
		}
		return nil, &EvalError{Function: n.name, Err: err}
	}
	return data.Normalize(v), nil
}
