package aggregate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
)

// KeySeparator joins the parts of a composite group key
const KeySeparator = " / "

// TotalKey labels the single group used when an axis has no key fields
const TotalKey = "Total"

// PivotSpec describes a two-axis cross-tabulation
type PivotSpec struct {
	RowKeys    []string
	ColKeys    []string
	ValueField string
	Aggregator Aggregator
}

// PivotTable is a dense matrix: Values[i][j] is the cell for RowKeys[i] and
// ColKeys[j]. Totals aggregate the underlying rows with the same aggregator.
type PivotTable struct {
	Aggregator Aggregator
	RowKeys    []string
	ColKeys    []string
	Values     [][]float64
	RowTotals  []float64
	ColTotals  []float64
	GrandTotal float64
}

// Pivot groups ds by spec.RowKeys and spec.ColKeys and aggregates
// spec.ValueField into every cell. Count ignores the value field.
func Pivot(ds data.Dataset, spec PivotSpec) (*PivotTable, error) {
	if !spec.Aggregator.valid() {
		return nil, fmt.Errorf("unknown aggregator %q", spec.Aggregator)
	}
	if spec.ValueField == "" && spec.Aggregator != Count {
		return nil, errors.New("pivot needs a value field unless counting")
	}

	rows := newAxis()
	cols := newAxis()
	type cellKey struct{ r, c int }
	cells := make(map[cellKey]*accumulator)
	rowTotals := make(map[int]*accumulator)
	colTotals := make(map[int]*accumulator)
	grand := &accumulator{agg: spec.Aggregator}

	acc := func(m map[int]*accumulator, i int) *accumulator {
		a, ok := m[i]
		if !ok {
			a = &accumulator{agg: spec.Aggregator}
			m[i] = a
		}
		return a
	}

	for _, row := range ds {
		r := rows.index(groupKey(row, spec.RowKeys))
		c := cols.index(groupKey(row, spec.ColKeys))

		v := 0.0
		if spec.Aggregator != Count {
			v = coerce.ToNumber(row.Value(spec.ValueField))
		}

		cell, ok := cells[cellKey{r, c}]
		if !ok {
			cell = &accumulator{agg: spec.Aggregator}
			cells[cellKey{r, c}] = cell
		}
		cell.add(v)
		acc(rowTotals, r).add(v)
		acc(colTotals, c).add(v)
		grand.add(v)
	}

	pt := &PivotTable{
		Aggregator: spec.Aggregator,
		RowKeys:    rows.keys,
		ColKeys:    cols.keys,
		Values:     make([][]float64, len(rows.keys)),
		RowTotals:  make([]float64, len(rows.keys)),
		ColTotals:  make([]float64, len(cols.keys)),
		GrandTotal: grand.result(),
	}
	for i := range rows.keys {
		pt.Values[i] = make([]float64, len(cols.keys))
		for j := range cols.keys {
			if cell, ok := cells[cellKey{i, j}]; ok {
				pt.Values[i][j] = cell.result()
			}
		}
		pt.RowTotals[i] = rowTotals[i].result()
	}
	for j := range cols.keys {
		pt.ColTotals[j] = colTotals[j].result()
	}
	return pt, nil
}

// Cell returns the value for a row key and column key
func (pt *PivotTable) Cell(rowKey, colKey string) (float64, bool) {
	i := indexOf(pt.RowKeys, rowKey)
	j := indexOf(pt.ColKeys, colKey)
	if i < 0 || j < 0 {
		return 0, false
	}
	return pt.Values[i][j], true
}

// groupKey builds the textual key of a row for the given fields
func groupKey(row data.Row, fields []string) string {
	if len(fields) == 0 {
		return TotalKey
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = coerce.ToText(row.Value(f))
	}
	return strings.Join(parts, KeySeparator)
}

// axis assigns dense indexes to keys in first-seen order
type axis struct {
	keys []string
	pos  map[string]int
}

func newAxis() *axis {
	return &axis{pos: make(map[string]int)}
}

func (a *axis) index(key string) int {
	if i, ok := a.pos[key]; ok {
		return i
	}
	a.pos[key] = len(a.keys)
	a.keys = append(a.keys, key)
	return len(a.keys) - 1
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
