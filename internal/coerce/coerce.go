// Package coerce holds the only rules for reading a cell value as a number,
// text, date or boolean. Coercion never fails: unreadable input degrades to
// 0, "" or data.InvalidDate.
package coerce

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/leengari/tabcalc/internal/domain/data"
)

// ToNumber reads a value as a number.
// Empty → 0, true/false → 1/0, text has "," grouping removed and is parsed,
// unparsable text → 0. Dates read as Unix milliseconds.
func ToNumber(v data.Value) float64 {
	switch val := data.Normalize(v).(type) {
	case nil:
		return 0
	case float64:
		return val
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		f, ok := ParseNumber(val)
		if !ok {
			return 0
		}
		return f
	case time.Time:
		return float64(val.UnixMilli())
	case data.InvalidDate:
		return math.NaN()
	default:
		return 0
	}
}

// ParseNumber strictly parses text as a number after trimming and removing
// grouping separators. Empty text is not a number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ToText returns the literal textual form of a value. Empty → "".
func ToText(v data.Value) string {
	switch val := data.Normalize(v).(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return FormatNumber(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(time.RFC3339)
	case data.InvalidDate:
		return val.String()
	case interface{ String() string }:
		return val.String()
	default:
		return ""
	}
}

// FormatNumber prints a number in its shortest round-trip form.
// Integral values carry no decimal point.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToDate reads a value as a date.
// Existing dates pass through, numbers are Unix milliseconds and text goes
// through a generic date parser in UTC. Failure yields data.InvalidDate.
func ToDate(v data.Value) data.Value {
	switch val := data.Normalize(v).(type) {
	case time.Time:
		return val
	case data.InvalidDate:
		return val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return data.InvalidDate{}
		}
		return time.UnixMilli(int64(val)).UTC()
	case string:
		t, ok := ParseDate(val)
		if !ok {
			return data.InvalidDate{}
		}
		return t
	default:
		return data.InvalidDate{}
	}
}

// ParseDate parses text in any common date layout
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Truthy converts a value to a boolean: empty, "", 0, NaN, false and the
// invalid date are false; everything else is true.
func Truthy(v data.Value) bool {
	switch val := data.Normalize(v).(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case string:
		return val != ""
	case data.InvalidDate:
		return false
	default:
		return true
	}
}

// IsEmpty reports whether a value is absent or empty text
func IsEmpty(v data.Value) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
