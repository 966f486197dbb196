package formula

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
)

func fnLen(_ *env, args *argList) (data.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return nil, err
	}
	return float64(len([]rune(s))), nil
}

// LEFT(text, count=1)
func fnLeft(_ *env, args *argList) (data.Value, error) {
	runes, n, err := textAndCount(args)
	if err != nil {
		return nil, err
	}
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[:n]), nil
}

// RIGHT(text, count=1)
func fnRight(_ *env, args *argList) (data.Value, error) {
	runes, n, err := textAndCount(args)
	if err != nil {
		return nil, err
	}
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[len(runes)-n:]), nil
}

func textAndCount(args *argList) ([]rune, int, error) {
	s, err := args.Text(0)
	if err != nil {
		return nil, 0, err
	}
	n, err := args.NumberOr(1, 1)
	if err != nil {
		return nil, 0, err
	}
	if n < 0 || math.IsNaN(n) {
		return nil, 0, newArgError("count must be non-negative, got %s", coerce.FormatNumber(n))
	}
	return []rune(s), clampInt(n), nil
}

// MID(text, start, length) with a 1-based start
func fnMid(_ *env, args *argList) (data.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return nil, err
	}
	start, err := args.Number(1)
	if err != nil {
		return nil, err
	}
	length, err := args.Number(2)
	if err != nil {
		return nil, err
	}
	if start < 1 || math.IsNaN(start) {
		return nil, newArgError("start must be at least 1, got %s", coerce.FormatNumber(start))
	}
	if length < 0 || math.IsNaN(length) {
		return nil, newArgError("length must be non-negative, got %s", coerce.FormatNumber(length))
	}

	runes := []rune(s)
	from := clampInt(start) - 1
	if from >= len(runes) {
		return "", nil
	}
	to := from + clampInt(length)
	if to > len(runes) || to < from {
		to = len(runes)
	}
	return string(runes[from:to]), nil
}

func fnUpper(_ *env, args *argList) (data.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(s), nil
}

func fnLower(_ *env, args *argList) (data.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return nil, err
	}
	return strings.ToLower(s), nil
}

// PROPER capitalizes every letter that follows a non-letter and lowercases
// the rest, so o'neil becomes O'Neil and 2nd becomes 2Nd
func fnProper(_ *env, args *argList) (data.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return nil, err
	}

	caser := cases.Title(language.Und)
	var b strings.Builder
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(s[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}
	return b.String(), nil
}

func fnTrim(_ *env, args *argList) (data.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return nil, err
	}
	return CollapseSpace(s), nil
}

// CollapseSpace trims the ends and collapses internal whitespace runs to one space
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fnConcat(_ *env, args *argList) (data.Value, error) {
	vals, err := args.All()
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, v := range vals {
		sb.WriteString(coerce.ToText(v))
	}
	return sb.String(), nil
}

// TEXTJOIN(delimiter, ignoreEmpty, text1, ...)
func fnTextJoin(_ *env, args *argList) (data.Value, error) {
	delim, err := args.Text(0)
	if err != nil {
		return nil, err
	}
	ignoreEmpty, err := args.Bool(1)
	if err != nil {
		return nil, err
	}
	parts := make([]string, 0, args.Len()-2)
	for i := 2; i < args.Len(); i++ {
		s, err := args.Text(i)
		if err != nil {
			return nil, err
		}
		if ignoreEmpty && s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, delim), nil
}

// SUBSTITUTE(text, old, new) replaces every literal occurrence of old
func fnSubstitute(_ *env, args *argList) (data.Value, error) {
	s, err := args.Text(0)
	if err != nil {
		return nil, err
	}
	old, err := args.Text(1)
	if err != nil {
		return nil, err
	}
	repl, err := args.Text(2)
	if err != nil {
		return nil, err
	}
	if old == "" {
		return s, nil
	}
	return strings.ReplaceAll(s, old, repl), nil
}

func clampInt(f float64) int {
	const limit = 1 << 30
	if f > limit || math.IsInf(f, 1) {
		return limit
	}
	return int(f)
}
