package formula

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
)

func fnAbs(_ *env, args *argList) (data.Value, error) {
	x, err := args.Number(0)
	if err != nil {
		return nil, err
	}
	return math.Abs(x), nil
}

// ROUND(x, digits=0) rounds half away from zero at 10^-digits.
// Rounding is done in decimal so 2.345 → 2.35 despite its binary form.
func fnRound(_ *env, args *argList) (data.Value, error) {
	x, err := args.Number(0)
	if err != nil {
		return nil, err
	}
	digits, err := args.NumberOr(1, 0)
	if err != nil {
		return nil, err
	}
	return Round(x, int32(math.Trunc(digits))), nil
}

// Round rounds half away from zero to the given number of decimal places.
// Negative places round to tens, hundreds, ...
func Round(x float64, places int32) float64 {
	if !isFinite(x) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}

// FLOOR(x, significance=1) rounds down to a multiple of significance
func fnFloor(_ *env, args *argList) (data.Value, error) {
	return toMultiple(args, func(d decimal.Decimal) decimal.Decimal { return d.Floor() })
}

// CEILING(x, significance=1) rounds up to a multiple of significance
func fnCeiling(_ *env, args *argList) (data.Value, error) {
	return toMultiple(args, func(d decimal.Decimal) decimal.Decimal { return d.Ceil() })
}

func toMultiple(args *argList, round func(decimal.Decimal) decimal.Decimal) (data.Value, error) {
	x, err := args.Number(0)
	if err != nil {
		return nil, err
	}
	sig, err := args.NumberOr(1, 1)
	if err != nil {
		return nil, err
	}
	if !isFinite(x) || !isFinite(sig) {
		return math.NaN(), nil
	}
	if sig == 0 {
		return 0.0, nil
	}
	s := decimal.NewFromFloat(sig)
	f, _ := round(decimal.NewFromFloat(x).Div(s)).Mul(s).Float64()
	return f, nil
}

func fnMin(_ *env, args *argList) (data.Value, error) {
	return extreme(args, func(a, b float64) bool { return a < b })
}

func fnMax(_ *env, args *argList) (data.Value, error) {
	return extreme(args, func(a, b float64) bool { return a > b })
}

// extreme returns 0 for no arguments; the first argument seeds the result
func extreme(args *argList, better func(a, b float64) bool) (data.Value, error) {
	vals, err := args.All()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return 0.0, nil
	}
	best := coerce.ToNumber(vals[0])
	for _, v := range vals[1:] {
		if n := coerce.ToNumber(v); better(n, best) {
			best = n
		}
	}
	return best, nil
}

func fnSqrt(_ *env, args *argList) (data.Value, error) {
	x, err := args.Number(0)
	if err != nil {
		return nil, err
	}
	return math.Sqrt(x), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
