package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
	"github.com/leengari/tabcalc/internal/formula"
)

// keySeparator joins the textual parts of a composite dedupe key
const keySeparator = "\x1f"

// stepRun carries one step's input and output. in is never modified.
type stepRun struct {
	in   data.Dataset
	out  data.Dataset
	opts []formula.Option

	skipRows bool
	skipped  int
	rowErr   error
}

func (r *stepRun) compile(expr string) (*formula.Program, error) {
	return formula.Compile(expr, r.opts...)
}

// rowFailed decides what a failing row does to the step: under the skip-row
// policy the row is counted and the step carries on, otherwise the step fails.
func (r *stepRun) rowFailed(i int, err error) error {
	if !r.skipRows {
		return fmt.Errorf("row %d: %w", i, err)
	}
	if r.rowErr == nil {
		r.rowErr = fmt.Errorf("row %d: %w", i, err)
	}
	r.skipped++
	return nil
}

// mapRows copies each row and lets fn edit the copy
func (r *stepRun) mapRows(fn func(row *data.Row) error) error {
	out := make(data.Dataset, len(r.in))
	for i, row := range r.in {
		cp := row.Copy()
		if err := fn(&cp); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = cp
	}
	r.out = out
	return nil
}

func (s Filter) apply(r *stepRun) error {
	prog, err := r.compile(s.Expr)
	if err != nil {
		return err
	}

	out := make(data.Dataset, 0, len(r.in))
	for i, row := range r.in {
		keep, err := prog.EvalBool(row, r.in)
		if err != nil {
			if err := r.rowFailed(i, err); err != nil {
				return err
			}
			continue
		}
		if keep {
			out = append(out, row)
		}
	}
	r.out = out
	return nil
}

func (s Mutate) apply(r *stepRun) error {
	if s.Field == "" {
		return errors.New("mutate needs a target field")
	}
	prog, err := r.compile(s.Expr)
	if err != nil {
		return err
	}

	out := make(data.Dataset, len(r.in))
	for i, row := range r.in {
		v, err := prog.Eval(row, r.in)
		if err != nil {
			if err := r.rowFailed(i, err); err != nil {
				return err
			}
			out[i] = row
			continue
		}
		cp := row.Copy()
		cp.Set(s.Field, v)
		out[i] = cp
	}
	r.out = out
	return nil
}

func (s Select) apply(r *stepRun) error {
	out := make(data.Dataset, len(r.in))
	for i, row := range r.in {
		out[i] = row.Project(s.Fields)
	}
	r.out = out
	return nil
}

func (s Sort) apply(r *stepRun) error {
	out := make(data.Dataset, len(r.in))
	copy(out, r.in)

	desc := s.direction() == Desc
	sort.SliceStable(out, func(i, j int) bool {
		c := coerce.Collate(out[i].Value(s.By), out[j].Value(s.By))
		if desc {
			return c > 0
		}
		return c < 0
	})
	r.out = out
	return nil
}

func (s Dedupe) apply(r *stepRun) error {
	seen := make(map[string]bool, len(r.in))
	out := make(data.Dataset, 0, len(r.in))
	for _, row := range r.in {
		keys := s.Keys
		if len(keys) == 0 {
			keys = row.Fields()
		}
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = coerce.ToText(row.Value(k))
		}
		key := strings.Join(parts, keySeparator)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	r.out = out
	return nil
}

func (s Fill) apply(r *stepRun) error {
	out := r.in.Clone()
	up := s.direction() == Up

	for _, col := range s.Cols {
		var last data.Value
		for n := 0; n < len(out); n++ {
			i := n
			if up {
				i = len(out) - 1 - n
			}
			v := out[i].Value(col)
			if !coerce.IsEmpty(v) {
				last = v
				continue
			}
			if last != nil {
				out[i].Set(col, last)
			}
		}
	}
	r.out = out
	return nil
}

func (s Replace) apply(r *stepRun) error {
	replace, err := s.replacer()
	if err != nil {
		return err
	}
	return r.mapRows(func(row *data.Row) error {
		v, ok := row.Get(s.Col)
		if !ok {
			return nil
		}
		text := coerce.ToText(v)
		if next, changed := replace(text); changed {
			row.Set(s.Col, next)
		}
		return nil
	})
}

// replacer builds the text rewrite for the step's mode. Only the matching
// honours CaseSensitive; the replacement is always written as given.
func (s Replace) replacer() (func(string) (string, bool), error) {
	switch s.mode() {
	case ReplaceContains:
		if s.Find == "" {
			return func(text string) (string, bool) { return text, false }, nil
		}
		if s.CaseSensitive {
			return func(text string) (string, bool) {
				if !strings.Contains(text, s.Find) {
					return text, false
				}
				return strings.ReplaceAll(text, s.Find, s.With), true
			}, nil
		}
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(s.Find))
		return func(text string) (string, bool) {
			if !re.MatchString(text) {
				return text, false
			}
			return re.ReplaceAllLiteralString(text, s.With), true
		}, nil

	case ReplaceRegex:
		pattern := s.Find
		if !s.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", s.Find, err)
		}
		return func(text string) (string, bool) {
			if !re.MatchString(text) {
				return text, false
			}
			return re.ReplaceAllString(text, s.With), true
		}, nil

	default:
		return func(text string) (string, bool) {
			match := text == s.Find
			if !s.CaseSensitive {
				match = strings.EqualFold(text, s.Find)
			}
			if !match {
				return text, false
			}
			return s.With, true
		}, nil
	}
}

func (s ToNumber) apply(r *stepRun) error {
	return r.mapRows(func(row *data.Row) error {
		for _, col := range s.Cols {
			if v, ok := row.Get(col); ok {
				row.Set(col, coerce.ToNumber(v))
			}
		}
		return nil
	})
}

func (s ToDate) apply(r *stepRun) error {
	return r.mapRows(func(row *data.Row) error {
		for _, col := range s.Cols {
			if v, ok := row.Get(col); ok {
				row.Set(col, coerce.ToDate(v))
			}
		}
		return nil
	})
}

func (s Trim) apply(r *stepRun) error {
	return r.mapRows(func(row *data.Row) error {
		for _, col := range s.Cols {
			if text, ok := row.Value(col).(string); ok {
				row.Set(col, formula.CollapseSpace(text))
			}
		}
		return nil
	})
}

func (s Split) apply(r *stepRun) error {
	if s.Count < 1 {
		return fmt.Errorf("split count must be positive, got %d", s.Count)
	}
	prefix := s.IntoPrefix
	if prefix == "" {
		prefix = s.Col + "_"
	}

	return r.mapRows(func(row *data.Row) error {
		parts := strings.Split(coerce.ToText(row.Value(s.Col)), s.Delim)
		for i := 0; i < s.Count; i++ {
			part := ""
			if i < len(parts) {
				part = parts[i]
			}
			row.Set(prefix+strconv.Itoa(i+1), part)
		}
		if s.DropOriginal {
			row.Delete(s.Col)
		}
		return nil
	})
}

func (s Merge) apply(r *stepRun) error {
	if s.Into == "" {
		return errors.New("merge needs a target field")
	}
	return r.mapRows(func(row *data.Row) error {
		parts := make([]string, len(s.Cols))
		for i, col := range s.Cols {
			parts[i] = coerce.ToText(row.Value(col))
		}
		row.Set(s.Into, strings.Join(parts, s.Delim))
		return nil
	})
}
