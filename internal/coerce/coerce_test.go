package coerce

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leengari/tabcalc/internal/domain/data"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name  string
		input data.Value
		want  float64
	}{
		{name: "float passes", input: 2.5, want: 2.5},
		{name: "int normalized", input: 7, want: 7},
		{name: "true", input: true, want: 1},
		{name: "false", input: false, want: 0},
		{name: "absent", input: nil, want: 0},
		{name: "empty text", input: "", want: 0},
		{name: "plain text number", input: "42", want: 42},
		{name: "grouping separators", input: "1,234,567.5", want: 1234567.5},
		{name: "surrounding spaces", input: "  12 ", want: 12},
		{name: "unparsable text", input: "abc", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToNumber(tt.input))
		})
	}
}

func TestToNumberInvalidDateIsNaN(t *testing.T) {
	assert.True(t, math.IsNaN(ToNumber(data.InvalidDate{})))
}

func TestToText(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		input data.Value
		want  string
	}{
		{name: "absent", input: nil, want: ""},
		{name: "text", input: "East", want: "East"},
		{name: "integral number", input: 3.0, want: "3"},
		{name: "fraction", input: 2.5, want: "2.5"},
		{name: "int", input: 150, want: "150"},
		{name: "bool", input: true, want: "true"},
		{name: "date", input: day, want: "2024-03-05T00:00:00Z"},
		{name: "invalid date", input: data.InvalidDate{}, want: "Invalid Date"},
		{name: "nan", input: math.NaN(), want: "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToText(tt.input))
		})
	}
}

func TestToDate(t *testing.T) {
	want := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)

	for _, in := range []data.Value{"2024-01-13", want, float64(want.UnixMilli())} {
		got, ok := ToDate(in).(time.Time)
		if assert.True(t, ok, "input %v", in) {
			assert.True(t, want.Equal(got), "input %v: got %v", in, got)
		}
	}
	assert.Equal(t, data.InvalidDate{}, ToDate("not a date"))
	assert.Equal(t, data.InvalidDate{}, ToDate(nil))
	assert.Equal(t, data.InvalidDate{}, ToDate(data.InvalidDate{}))
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(0.0))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy(math.NaN()))
	assert.True(t, Truthy("0"))
	assert.True(t, Truthy(-1))
	assert.True(t, Truthy(true))
	assert.True(t, Truthy(time.Now()))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		a, b    data.Value
		want    int
		ordered bool
	}{
		{name: "numbers", a: 1.0, b: 2.0, want: -1, ordered: true},
		{name: "text", a: "b", b: "a", want: 1, ordered: true},
		{name: "numeric text vs number", a: "10", b: 9.0, want: 1, ordered: true},
		{name: "bool vs number", a: true, b: 1.0, want: 0, ordered: true},
		{name: "text vs number", a: "x", b: 1.0, ordered: false},
		{name: "absent", a: nil, b: 1.0, ordered: false},
		{name: "nan", a: math.NaN(), b: 1.0, ordered: false},
		{
			name:    "dates",
			a:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			b:       time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			want:    1,
			ordered: true,
		},
		{name: "invalid date", a: data.InvalidDate{}, b: time.Now(), ordered: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			assert.Equal(t, tt.ordered, ok)
			if tt.ordered {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCollate(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b data.Value
		want int
	}{
		{name: "numbers", a: 1.0, b: 2.0, want: -1},
		{name: "numeric text is numeric", a: "10", b: "9", want: 1},
		{name: "number before text", a: 100.0, b: "n/a", want: -1},
		{name: "number before date", a: 5.0, b: jan, want: -1},
		{name: "date before text", a: jan, b: "abc", want: -1},
		{name: "text before invalid", a: "zzz", b: data.InvalidDate{}, want: -1},
		{name: "nan before blank", a: math.NaN(), b: nil, want: -1},
		{name: "blank last", a: nil, b: "a", want: 1},
		{name: "empty text is blank", a: "", b: nil, want: 0},
		{name: "nan ties", a: math.NaN(), b: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Collate(tt.a, tt.b))
			assert.Equal(t, -tt.want, Collate(tt.b, tt.a))
		})
	}
}

func TestCollateIsTransitiveAcrossKinds(t *testing.T) {
	// "10" < "9" as text but 9.5 sits between them numerically
	vals := []data.Value{"10", "9", 9.5, nil, "x", 2.0}
	for _, a := range vals {
		for _, b := range vals {
			for _, c := range vals {
				if Collate(a, b) < 0 && Collate(b, c) < 0 {
					assert.Negative(t, Collate(a, c), "%v < %v < %v", a, b, c)
				}
			}
		}
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, ""))
	assert.True(t, Equal("5", 5.0))
	assert.True(t, Equal("East", "East"))
	assert.False(t, Equal("East", "east"))
	assert.False(t, Equal("x", 0.0))
	assert.False(t, Equal("1.0", "1"))
}
