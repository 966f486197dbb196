package formula

import (
	"math"
	"strings"
	"time"

	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
)

const millisPerDay = 24 * 60 * 60 * 1000

func fnToday(e *env, _ *argList) (data.Value, error) {
	now := e.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

func fnNow(e *env, _ *argList) (data.Value, error) {
	return e.now().UTC(), nil
}

// DATE(year, month, day); out-of-range months and days roll over
func fnDate(_ *env, args *argList) (data.Value, error) {
	var parts [3]float64
	for i := range parts {
		n, err := args.Number(i)
		if err != nil {
			return nil, err
		}
		if !isFinite(n) {
			return data.InvalidDate{}, nil
		}
		parts[i] = math.Trunc(n)
	}
	return time.Date(int(parts[0]), time.Month(int(parts[1])), int(parts[2]), 0, 0, 0, 0, time.UTC), nil
}

func fnYear(_ *env, args *argList) (data.Value, error) {
	return datePart(args, func(t time.Time) int { return t.Year() })
}

func fnMonth(_ *env, args *argList) (data.Value, error) {
	return datePart(args, func(t time.Time) int { return int(t.Month()) })
}

func fnDay(_ *env, args *argList) (data.Value, error) {
	return datePart(args, func(t time.Time) int { return t.Day() })
}

// datePart returns NaN for values that are not dates
func datePart(args *argList, part func(time.Time) int) (data.Value, error) {
	v, err := args.Value(0)
	if err != nil {
		return nil, err
	}
	t, ok := coerce.ToDate(v).(time.Time)
	if !ok {
		return math.NaN(), nil
	}
	return float64(part(t)), nil
}

// DATEDIF(start, end, unit="d")
//
//	"d": whole days between (floored)
//	"m": calendar months, ignoring day of month
//	"y": calendar years
//
// Any other unit counts days.
func fnDateDif(_ *env, args *argList) (data.Value, error) {
	a, err := args.Value(0)
	if err != nil {
		return nil, err
	}
	b, err := args.Value(1)
	if err != nil {
		return nil, err
	}
	unit, err := args.TextOr(2, "d")
	if err != nil {
		return nil, err
	}
	return DateDiff(coerce.ToDate(a), coerce.ToDate(b), unit), nil
}

// DateDiff implements DATEDIF over two coerced dates
func DateDiff(a, b data.Value, unit string) float64 {
	start, ok1 := a.(time.Time)
	end, ok2 := b.(time.Time)
	if !ok1 || !ok2 {
		return math.NaN()
	}

	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "m":
		return float64((end.Year()*12 + int(end.Month())) - (start.Year()*12 + int(start.Month())))
	case "y":
		return float64(end.Year() - start.Year())
	default:
		return math.Floor(float64(end.UnixMilli()-start.UnixMilli()) / millisPerDay)
	}
}
