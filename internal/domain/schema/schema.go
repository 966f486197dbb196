package schema

import (
	"strings"

	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
)

// ColumnType is the inferred type of a dataset field
type ColumnType string

const (
	ColumnTypeNumber  ColumnType = "number"
	ColumnTypeDate    ColumnType = "date"
	ColumnTypeBoolean ColumnType = "boolean"
	ColumnTypeString  ColumnType = "string"
)

// Column describes one field of a dataset
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Schema is advisory metadata for a dataset; the engine never enforces it
type Schema struct {
	Columns []Column `json:"columns"`
}

// Infer derives a schema from the first row of a dataset.
// An empty dataset has an empty schema.
func Infer(ds data.Dataset) Schema {
	if len(ds) == 0 {
		return Schema{Columns: []Column{}}
	}
	first := ds[0]
	cols := make([]Column, 0, first.Len())
	for _, name := range first.Fields() {
		cols = append(cols, Column{Name: name, Type: InferType(first.Value(name))})
	}
	return Schema{Columns: cols}
}

// InferType classifies a single value.
// Order: empty → string, numeric → number, date → date, "true"/"false" → boolean, else string.
func InferType(v data.Value) ColumnType {
	if coerce.IsEmpty(v) {
		return ColumnTypeString
	}
	switch data.KindOf(v) {
	case data.KindNumber:
		return ColumnTypeNumber
	case data.KindDate, data.KindInvalidDate:
		return ColumnTypeDate
	}

	text := coerce.ToText(v)
	if _, ok := coerce.ParseNumber(text); ok {
		return ColumnTypeNumber
	}
	if _, ok := coerce.ParseDate(text); ok {
		return ColumnTypeDate
	}
	if lower := strings.ToLower(strings.TrimSpace(text)); lower == "true" || lower == "false" {
		return ColumnTypeBoolean
	}
	return ColumnTypeString
}

// Names returns the column names in order
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Lookup finds a column by name
func (s Schema) Lookup(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
