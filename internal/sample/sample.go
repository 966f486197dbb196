// Package sample provides the built-in demo dataset.
package sample

import (
	"github.com/leengari/tabcalc/internal/domain/data"
)

var fields = []string{"order", "date", "region", "rep", "product", "units", "price"}

var records = [][]data.Value{
	{"SO-1001", "2024-01-05", "East", "Ann Lee", "Widget", "12", "2.50"},
	{"SO-1002", "2024-01-09", "", "Bob  Stone ", "Gadget", "3", "19.99"},
	{"SO-1003", "2024-01-17", "West", "cy park", "Widget", "40", "2.50"},
	{"SO-1004", "2024-02-02", "West", "Cy Park", "Gizmo", "7", "7.25"},
	{"SO-1004", "2024-02-02", "West", "Cy Park", "Gizmo", "7", "7.25"},
	{"SO-1005", "2024-02-14", "North", "Dee Wong", "Gadget", "1,200", "18.00"},
	{"SO-1006", "2024-03-01", "", "Ann Lee", "Gizmo", "5", "7.25"},
	{"SO-1007", "2024-03-11", "East", "Bob Stone", "Widget", "n/a", "2.50"},
	{"SO-1008", "2024-03-29", "North", "Dee Wong", "Widget", "25", "2.40"},
}

// Sales returns a fresh copy of the demo sales dataset. Values are raw text,
// as they would arrive from a file, with a few deliberate defects: blank
// regions, a duplicated order, untidy names and unparsable units.
func Sales() data.Dataset {
	ds := make(data.Dataset, 0, len(records))
	for _, rec := range records {
		row := data.NewRow()
		for i, f := range fields {
			row.Set(f, rec[i])
		}
		ds = append(ds, row)
	}
	return ds
}

// Fields returns the demo dataset's field names in order
func Fields() []string {
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}
