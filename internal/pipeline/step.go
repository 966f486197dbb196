package pipeline

import (
	"fmt"
	"strings"
)

// StepKind names a step variant
type StepKind string

const (
	KindFilter   StepKind = "filter"
	KindSelect   StepKind = "select"
	KindSort     StepKind = "sort"
	KindDedupe   StepKind = "dedupe"
	KindFill     StepKind = "fill"
	KindReplace  StepKind = "replace"
	KindToNumber StepKind = "toNumber"
	KindToDate   StepKind = "toDate"
	KindTrim     StepKind = "trim"
	KindSplit    StepKind = "split"
	KindMerge    StepKind = "merge"
	KindMutate   StepKind = "mutate"
)

// Step is one transform in a pipeline. The set of implementations is closed:
// every variant lives in this package and carries only its own fields.
type Step interface {
	Kind() StepKind
	String() string
	apply(r *stepRun) error
}

// SortDirection orders a Sort step
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// FillDirection is the direction values are carried in a Fill step
type FillDirection string

const (
	Down FillDirection = "down"
	Up   FillDirection = "up"
)

// ReplaceMode selects how a Replace step matches
type ReplaceMode string

const (
	ReplaceExact    ReplaceMode = "exact"
	ReplaceContains ReplaceMode = "contains"
	ReplaceRegex    ReplaceMode = "regex"
)

// Filter keeps rows where Expr evaluates truthy
type Filter struct {
	Expr string
}

// Select projects every row onto Fields, in that order
type Select struct {
	Fields []string
}

// Sort stably orders rows by one field
type Sort struct {
	By  string
	Dir SortDirection
}

// Dedupe keeps the first row for each distinct composite key
type Dedupe struct {
	Keys []string
}

// Fill propagates the last non-empty value of each column across gaps
type Fill struct {
	Cols      []string
	Direction FillDirection
}

// Replace rewrites values of one column
type Replace struct {
	Col           string
	Find          string
	With          string
	Mode          ReplaceMode
	CaseSensitive bool
}

// ToNumber coerces columns to numbers
type ToNumber struct {
	Cols []string
}

// ToDate coerces columns to dates
type ToDate struct {
	Cols []string
}

// Trim trims and collapses whitespace in text columns
type Trim struct {
	Cols []string
}

// Split breaks a column on Delim into IntoPrefix1..IntoPrefixN
type Split struct {
	Col          string
	Delim        string
	IntoPrefix   string
	Count        int
	DropOriginal bool
}

// Merge joins the textual forms of Cols with Delim into a new field
type Merge struct {
	Cols  []string
	Into  string
	Delim string
}

// Mutate writes the result of Expr into Field (a calculated field)
type Mutate struct {
	Field string
	Expr  string
}

func (Filter) Kind() StepKind   { return KindFilter }
func (Select) Kind() StepKind   { return KindSelect }
func (Sort) Kind() StepKind     { return KindSort }
func (Dedupe) Kind() StepKind   { return KindDedupe }
func (Fill) Kind() StepKind     { return KindFill }
func (Replace) Kind() StepKind  { return KindReplace }
func (ToNumber) Kind() StepKind { return KindToNumber }
func (ToDate) Kind() StepKind   { return KindToDate }
func (Trim) Kind() StepKind     { return KindTrim }
func (Split) Kind() StepKind    { return KindSplit }
func (Merge) Kind() StepKind    { return KindMerge }
func (Mutate) Kind() StepKind   { return KindMutate }

func (s Filter) String() string { return fmt.Sprintf("filter(%s)", s.Expr) }
func (s Select) String() string { return fmt.Sprintf("select(%s)", strings.Join(s.Fields, ", ")) }
func (s Sort) String() string   { return fmt.Sprintf("sort(%s %s)", s.By, s.direction()) }
func (s Dedupe) String() string { return fmt.Sprintf("dedupe(%s)", strings.Join(s.Keys, ", ")) }
func (s Fill) String() string {
	return fmt.Sprintf("fill(%s %s)", strings.Join(s.Cols, ", "), s.direction())
}
func (s Replace) String() string {
	return fmt.Sprintf("replace(%s %s %q -> %q)", s.Col, s.mode(), s.Find, s.With)
}
func (s ToNumber) String() string { return fmt.Sprintf("toNumber(%s)", strings.Join(s.Cols, ", ")) }
func (s ToDate) String() string   { return fmt.Sprintf("toDate(%s)", strings.Join(s.Cols, ", ")) }
func (s Trim) String() string     { return fmt.Sprintf("trim(%s)", strings.Join(s.Cols, ", ")) }
func (s Split) String() string {
	return fmt.Sprintf("split(%s on %q into %s1..%d)", s.Col, s.Delim, s.IntoPrefix, s.Count)
}
func (s Merge) String() string {
	return fmt.Sprintf("merge(%s into %s)", strings.Join(s.Cols, ", "), s.Into)
}
func (s Mutate) String() string { return fmt.Sprintf("mutate(%s = %s)", s.Field, s.Expr) }

func (s Sort) direction() SortDirection {
	if strings.EqualFold(string(s.Dir), string(Desc)) {
		return Desc
	}
	return Asc
}

func (s Fill) direction() FillDirection {
	if strings.EqualFold(string(s.Direction), string(Up)) {
		return Up
	}
	return Down
}

func (s Replace) mode() ReplaceMode {
	switch ReplaceMode(strings.ToLower(string(s.Mode))) {
	case ReplaceContains:
		return ReplaceContains
	case ReplaceRegex:
		return ReplaceRegex
	default:
		return ReplaceExact
	}
}
