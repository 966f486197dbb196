package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leengari/tabcalc/internal/domain/data"
)

func TestInferType(t *testing.T) {
	tests := []struct {
		name  string
		input data.Value
		want  ColumnType
	}{
		{name: "absent", input: nil, want: ColumnTypeString},
		{name: "empty text", input: "", want: ColumnTypeString},
		{name: "number", input: 12.5, want: ColumnTypeNumber},
		{name: "numeric text", input: "1,200", want: ColumnTypeNumber},
		{name: "date text", input: "2024-02-01", want: ColumnTypeDate},
		{name: "date value", input: time.Now(), want: ColumnTypeDate},
		{name: "bool text", input: "TRUE", want: ColumnTypeBoolean},
		{name: "bool value", input: false, want: ColumnTypeBoolean},
		{name: "plain text", input: "East", want: ColumnTypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferType(tt.input))
		})
	}
}

func TestInferUsesFirstRowOnly(t *testing.T) {
	ds := data.Dataset{
		data.NewRow(data.F("region", "East"), data.F("amount", "150"), data.F("when", "2024-01-01")),
		data.NewRow(data.F("region", 7), data.F("amount", "n/a"), data.F("extra", true)),
	}

	s := Infer(ds)

	assert.Equal(t, []string{"region", "amount", "when"}, s.Names())
	col, ok := s.Lookup("amount")
	assert.True(t, ok)
	assert.Equal(t, ColumnTypeNumber, col.Type)
	col, _ = s.Lookup("when")
	assert.Equal(t, ColumnTypeDate, col.Type)
	_, ok = s.Lookup("extra")
	assert.False(t, ok)
}

func TestInferEmptyDataset(t *testing.T) {
	assert.Empty(t, Infer(nil).Columns)
}
