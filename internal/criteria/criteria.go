// Package criteria compiles the small comparison grammar used by SUMIF,
// COUNTIF and AVERAGEIF into predicates over a single cell value.
package criteria

import (
	"strings"

	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
)

// Predicate tests whether a cell value matches a criteria string
type Predicate func(data.Value) bool

// operators in match priority order
var operators = []string{">=", "<=", ">", "<", "=", "!="}

// substring markers stripped before the fallback substring test
var substringMarkers = []string{"*=", "=", "contains:"}

// Compile converts a criteria string into a predicate.
// Supports:
//   - Numeric comparisons: >=100, <=5, >0, <10 (both sides read as numbers)
//   - Text equality: =Active, !=Closed, ="quoted" (exact, case-sensitive)
//   - Substring: east, contains:east, *=east (case-insensitive)
//
// Compile never fails; anything unrecognised is a substring test on its own text.
func Compile(criteria string) Predicate {
	s := strings.TrimSpace(criteria)

	for _, op := range operators {
		if !strings.HasPrefix(s, op) {
			continue
		}
		rhs := strings.TrimSpace(s[len(op):])
		switch op {
		case "=", "!=":
			return buildEquality(op, unquote(rhs))
		default:
			return buildNumeric(op, coerce.ToNumber(rhs))
		}
	}

	return buildSubstring(s)
}

// buildNumeric builds a predicate for >=, <=, >, <
func buildNumeric(op string, target float64) Predicate {
	return func(v data.Value) bool {
		n := coerce.ToNumber(v)
		switch op {
		case ">=":
			return n >= target
		case "<=":
			return n <= target
		case ">":
			return n > target
		case "<":
			return n < target
		}
		return false
	}
}

// buildEquality compares the cell's exact text form, no numeric coercion
func buildEquality(op string, target string) Predicate {
	if op == "!=" {
		return func(v data.Value) bool {
			return coerce.ToText(v) != target
		}
	}
	return func(v data.Value) bool {
		return coerce.ToText(v) == target
	}
}

func buildSubstring(s string) Predicate {
	for _, marker := range substringMarkers {
		if strings.HasPrefix(s, marker) {
			s = s[len(marker):]
			break
		}
	}
	needle := strings.ToLower(s)
	return func(v data.Value) bool {
		return strings.Contains(strings.ToLower(coerce.ToText(v)), needle)
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
