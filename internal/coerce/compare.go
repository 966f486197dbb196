package coerce

import (
	"math"
	"strings"
	"time"

	"github.com/leengari/tabcalc/internal/domain/data"
)

// Compare orders two values the way a spreadsheet host does.
// Numbers and booleans compare numerically, text lexicographically and dates
// chronologically. Text mixed with a number compares numerically when the
// text is strictly numeric. The second result is false when the pair has no
// natural order (absent values, invalid dates, NaN, non-numeric text vs number).
func Compare(a, b data.Value) (int, bool) {
	a, b = data.Normalize(a), data.Normalize(b)
	if a == nil || b == nil {
		return 0, false
	}

	switch av := a.(type) {
	case string:
		switch bv := b.(type) {
		case string:
			return strings.Compare(av, bv), true
		case time.Time:
			t, ok := ParseDate(av)
			if !ok {
				return 0, false
			}
			return compareTimes(t, bv), true
		default:
			if _, isNum := numeric(b); !isNum {
				return 0, false
			}
			an, ok := ParseNumber(av)
			if !ok {
				return 0, false
			}
			bn, _ := numeric(b)
			return compareFloats(an, bn)
		}
	case time.Time:
		switch bv := b.(type) {
		case time.Time:
			return compareTimes(av, bv), true
		case string:
			c, ok := Compare(bv, av)
			return -c, ok
		}
		if bn, ok := numeric(b); ok {
			return compareFloats(float64(av.UnixMilli()), bn)
		}
		return 0, false
	case data.InvalidDate:
		return 0, false
	}

	an, ok := numeric(a)
	if !ok {
		return 0, false
	}
	switch bv := b.(type) {
	case string:
		bn, ok := ParseNumber(bv)
		if !ok {
			return 0, false
		}
		return compareFloats(an, bn)
	case time.Time:
		return compareFloats(an, float64(bv.UnixMilli()))
	}
	bn, ok := numeric(b)
	if !ok {
		return 0, false
	}
	return compareFloats(an, bn)
}

// Less reports whether a sorts strictly before b. Unordered pairs are never less.
func Less(a, b data.Value) bool {
	c, ok := Compare(a, b)
	return ok && c < 0
}

// Equal reports value equality. Absent and empty text are equal to each other.
func Equal(a, b data.Value) bool {
	if IsEmpty(a) && IsEmpty(b) {
		return true
	}
	c, ok := Compare(a, b)
	return ok && c == 0
}

// collation ranks, lowest sorts first
const (
	rankNumber = iota
	rankDate
	rankText
	rankInvalid
	rankBlank
)

// Collate is the total order used for sorting rows.
// Numbers, booleans and numeric text sort numerically first, then dates
// chronologically, then other text lexicographically, then NaN and invalid
// dates, then blanks. Unlike Compare every pair is ordered.
func Collate(a, b data.Value) int {
	ra, na, ta, sa := collationKey(a)
	rb, nb, tb, sb := collationKey(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case rankNumber:
		c, _ := compareFloats(na, nb)
		return c
	case rankDate:
		return compareTimes(ta, tb)
	case rankText:
		return strings.Compare(sa, sb)
	}
	return 0
}

func collationKey(v data.Value) (rank int, n float64, t time.Time, s string) {
	v = data.Normalize(v)
	if IsEmpty(v) {
		return rankBlank, 0, t, ""
	}
	switch val := v.(type) {
	case time.Time:
		return rankDate, 0, val, ""
	case data.InvalidDate:
		return rankInvalid, 0, t, ""
	case string:
		if f, ok := ParseNumber(val); ok {
			if math.IsNaN(f) {
				return rankInvalid, 0, t, ""
			}
			return rankNumber, f, t, ""
		}
		return rankText, 0, t, val
	}
	if f, ok := numeric(v); ok {
		if math.IsNaN(f) {
			return rankInvalid, 0, t, ""
		}
		return rankNumber, f, t, ""
	}
	return rankText, 0, t, ToText(v)
}

func numeric(v data.Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func compareFloats(a, b float64) (int, bool) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, false
	}
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	}
	return 0, true
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
