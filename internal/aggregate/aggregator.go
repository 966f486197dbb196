// Package aggregate groups datasets into pivot matrices and chart series.
//
// Group keys keep first-seen order on every axis; nothing is sorted.
package aggregate

import (
	"fmt"
	"strings"
)

// Aggregator reduces the values of one cell to a number
type Aggregator string

const (
	Sum   Aggregator = "sum"
	Avg   Aggregator = "avg"
	Count Aggregator = "count"
	Min   Aggregator = "min"
	Max   Aggregator = "max"
)

// ParseAggregator reads an aggregator name, case-insensitively.
// "average" is accepted for avg.
func ParseAggregator(s string) (Aggregator, error) {
	switch a := Aggregator(strings.ToLower(strings.TrimSpace(s))); a {
	case Sum, Avg, Count, Min, Max:
		return a, nil
	case "average":
		return Avg, nil
	default:
		return "", fmt.Errorf("unknown aggregator %q (want sum, avg, count, min or max)", s)
	}
}

func (a Aggregator) valid() bool {
	switch a {
	case Sum, Avg, Count, Min, Max:
		return true
	}
	return false
}

// accumulator folds one cell. has records whether any value has been seen,
// so min and max are seeded from the first observation.
type accumulator struct {
	agg   Aggregator
	sum   float64
	count int
	best  float64
	has   bool
}

func (a *accumulator) add(v float64) {
	a.count++
	a.sum += v
	switch a.agg {
	case Min:
		if !a.has || v < a.best {
			a.best = v
		}
	case Max:
		if !a.has || v > a.best {
			a.best = v
		}
	}
	a.has = true
}

// result is 0 for a cell with no rows
func (a *accumulator) result() float64 {
	if !a.has {
		return 0
	}
	switch a.agg {
	case Count:
		return float64(a.count)
	case Avg:
		return a.sum / float64(a.count)
	case Min, Max:
		return a.best
	default:
		return a.sum
	}
}
