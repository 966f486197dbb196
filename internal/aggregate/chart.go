package aggregate

import (
	"errors"

	"github.com/leengari/tabcalc/internal/domain/data"
)

// ChartSpec describes chart data: one record per distinct XField value,
// optionally split into one series per distinct SeriesField value
type ChartSpec struct {
	XField      string
	YField      string
	SeriesField string
	Aggregator  Aggregator
}

// ChartRecord is one x-axis point. Values is aligned with ChartData.Series.
type ChartRecord struct {
	X      string
	Values []float64
}

// ChartData holds chart-ready series
type ChartData struct {
	XKeys   []string
	Series  []string
	Records []ChartRecord
}

// Chart groups ds on the x field and, when set, the series field.
// Without a series field the single series is named after the y field.
// Missing combinations are 0.
func Chart(ds data.Dataset, spec ChartSpec) (*ChartData, error) {
	if spec.XField == "" {
		return nil, errors.New("chart needs an x field")
	}

	pivot := PivotSpec{
		RowKeys:    []string{spec.XField},
		ValueField: spec.YField,
		Aggregator: spec.Aggregator,
	}
	if spec.SeriesField != "" {
		pivot.ColKeys = []string{spec.SeriesField}
	}

	pt, err := Pivot(ds, pivot)
	if err != nil {
		return nil, err
	}

	cd := &ChartData{
		XKeys:   pt.RowKeys,
		Series:  pt.ColKeys,
		Records: make([]ChartRecord, len(pt.RowKeys)),
	}
	if spec.SeriesField == "" {
		name := spec.YField
		if name == "" {
			name = string(spec.Aggregator)
		}
		cd.Series = []string{name}
	}

	for i, x := range pt.RowKeys {
		values := make([]float64, len(cd.Series))
		copy(values, pt.Values[i])
		cd.Records[i] = ChartRecord{X: x, Values: values}
	}
	return cd, nil
}

// Value returns the value of the named series for this record
func (c *ChartData) Value(record int, series string) (float64, bool) {
	if record < 0 || record >= len(c.Records) {
		return 0, false
	}
	j := indexOf(c.Series, series)
	if j < 0 {
		return 0, false
	}
	return c.Records[record].Values[j], true
}
