package formula

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed formula: a syntax error, an unknown
// function or a call with the wrong number of arguments.
type ParseError struct {
	Expr string // the formula source
	Pos  int    // byte offset of the problem (-1 if unknown)
	Msg  string // human-readable explanation
}

func (e *ParseError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("parse error in %q", e.Expr))
	if e.Pos >= 0 {
		parts = append(parts, fmt.Sprintf("at position %d", e.Pos))
	}
	if e.Msg != "" {
		parts = append(parts, e.Msg)
	}
	return strings.Join(parts, " - ")
}

// EvalError reports a compiled formula failing against a specific row
type EvalError struct {
	Expr     string // the formula source
	Function string // function being evaluated (empty if none)
	Field    string // offending field (empty if not field related)
	Msg      string // human-readable explanation
	Err      error  // underlying cause (may be nil)
}

func (e *EvalError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("evaluation error in %q", e.Expr))
	if e.Function != "" {
		parts = append(parts, fmt.Sprintf("in %s", e.Function))
	}
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Msg != "" {
		parts = append(parts, e.Msg)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, " - ")
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func newUnknownField(name string) *EvalError {
	return &EvalError{Field: name, Msg: "unknown field"}
}

func newArgError(format string, args ...interface{}) *EvalError {
	return &EvalError{Msg: fmt.Sprintf(format, args...)}
}
