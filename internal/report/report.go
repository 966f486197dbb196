// Package report renders datasets, pivots and charts as aligned text tables.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/leengari/tabcalc/internal/aggregate"
	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
	"github.com/leengari/tabcalc/internal/domain/schema"
	"github.com/leengari/tabcalc/internal/pipeline"
)

// missing marks a field a row does not carry
const missing = "NULL"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeRow writes one tab-separated line
func writeRow(tw io.Writer, cells []string) {
	fmt.Fprintln(tw, strings.Join(cells, "\t"))
}

func separator(n int) []string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = "---"
	}
	return cells
}

// PrintDataset prints every row under a header of field names and their
// inferred types
func PrintDataset(w io.Writer, ds data.Dataset) {
	columns := ds.FieldNames()
	if len(columns) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}
	sch := schema.Infer(ds)

	tw := newTable(w)
	header := make([]string, len(columns))
	for i, col := range columns {
		// Show column with type
		if c, ok := sch.Lookup(col); ok {
			header[i] = fmt.Sprintf("%s (%s)", col, c.Type)
		} else {
			header[i] = col
		}
	}
	writeRow(tw, header)
	writeRow(tw, separator(len(columns)))

	for _, row := range ds {
		cells := make([]string, len(columns))
		for i, col := range columns {
			v, ok := row.Get(col)
			if !ok {
				cells[i] = missing
				continue
			}
			cells[i] = coerce.ToText(v)
		}
		writeRow(tw, cells)
	}
	tw.Flush()
	fmt.Fprintf(w, "(%d rows)\n", len(ds))
}

// PrintPivot prints the matrix with a totals column and a totals row
func PrintPivot(w io.Writer, pt *aggregate.PivotTable) {
	tw := newTable(w)

	header := append([]string{string(pt.Aggregator)}, pt.ColKeys...)
	header = append(header, aggregate.TotalKey)
	writeRow(tw, header)
	writeRow(tw, separator(len(header)))

	for i, key := range pt.RowKeys {
		cells := []string{key}
		for _, v := range pt.Values[i] {
			cells = append(cells, coerce.FormatNumber(v))
		}
		cells = append(cells, coerce.FormatNumber(pt.RowTotals[i]))
		writeRow(tw, cells)
	}

	totals := []string{aggregate.TotalKey}
	for _, v := range pt.ColTotals {
		totals = append(totals, coerce.FormatNumber(v))
	}
	totals = append(totals, coerce.FormatNumber(pt.GrandTotal))
	writeRow(tw, totals)
	tw.Flush()
}

// PrintChart prints one line per x key with a column per series
func PrintChart(w io.Writer, cd *aggregate.ChartData) {
	tw := newTable(w)
	header := append([]string{"x"}, cd.Series...)
	writeRow(tw, header)
	writeRow(tw, separator(len(header)))
	for _, rec := range cd.Records {
		cells := []string{rec.X}
		for _, v := range rec.Values {
			cells = append(cells, coerce.FormatNumber(v))
		}
		writeRow(tw, cells)
	}
	tw.Flush()
}

// PrintWarnings prints step warnings, one per line. Nothing is printed for a
// clean run.
func PrintWarnings(w io.Writer, warnings []pipeline.Warning) {
	for _, warn := range warnings {
		fmt.Fprintf(w, "Warning: %s\n", warn)
	}
}
