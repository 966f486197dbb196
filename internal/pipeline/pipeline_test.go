package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/tabcalc/internal/formula"
	"github.com/leengari/tabcalc/internal/testutil"
)

func kinds(p *Pipeline) []StepKind {
	var out []StepKind
	for _, s := range p.Steps() {
		out = append(out, s.Kind())
	}
	return out
}

func TestPipelineEditing(t *testing.T) {
	p := New(Filter{Expr: "TRUE"}, Select{Fields: []string{"a"}}, nil)
	require.Equal(t, 2, p.Len())

	require.NoError(t, p.Append(Sort{By: "a"}))
	assert.Equal(t, []StepKind{KindFilter, KindSelect, KindSort}, kinds(p))

	require.NoError(t, p.Move(2, 0))
	assert.Equal(t, []StepKind{KindSort, KindFilter, KindSelect}, kinds(p))

	require.NoError(t, p.Move(0, 2))
	assert.Equal(t, []StepKind{KindFilter, KindSelect, KindSort}, kinds(p))

	require.NoError(t, p.Patch(2, Sort{By: "a", Dir: Desc}))
	assert.Equal(t, Sort{By: "a", Dir: Desc}, p.Steps()[2])

	require.NoError(t, p.Remove(1))
	assert.Equal(t, []StepKind{KindFilter, KindSort}, kinds(p))
}

func TestPipelineEditingErrors(t *testing.T) {
	p := New(Filter{Expr: "TRUE"})

	var idxErr *IndexError
	assert.True(t, errors.As(p.Remove(3), &idxErr))
	assert.True(t, errors.As(p.Move(0, -1), &idxErr))
	assert.True(t, errors.As(p.Patch(1, Filter{}), &idxErr))

	assert.Error(t, p.Patch(0, Select{}), "patch cannot change kind")
	assert.Error(t, p.Append(nil))
	assert.Equal(t, 1, p.Len())
}

func TestStepsReturnsCopy(t *testing.T) {
	p := New(Filter{Expr: "TRUE"})
	steps := p.Steps()
	steps[0] = Select{}
	assert.Equal(t, KindFilter, p.Steps()[0].Kind())
}

func TestAddCalculatedField(t *testing.T) {
	p := New()
	require.NoError(t, p.AddCalculatedField("double", "[amount] * 2"))

	err := p.AddCalculatedField("broken", "[amount] *")
	var perr *formula.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Error(t, p.AddCalculatedField("", "1"))
	assert.Equal(t, 1, p.Len())

	res := p.Run(context.Background(), NewExecutor(), testutil.SalesRows())
	require.Empty(t, res.Warnings)
	testutil.AssertColumnText(t, res.Dataset, "double", []string{"100", "300", "400", "400", "150"}, "calculated field")
}

func TestDecodeStepsYAML(t *testing.T) {
	doc := `
steps:
  - kind: filter
    expr: "[amount] > 60"
  - kind: fill
    cols: [region]
    direction: down
  - kind: replace
    col: rep
    find: ann
    with: Ann
    mode: exact
    caseSensitive: true
  - kind: split
    col: order
    delim: "-"
    intoPrefix: order_
    count: 2
  - kind: mutate
    field: big
    expr: IF([amount] >= 150, "yes", "no")
  - kind: sort
    by: amount
    dir: desc
`
	steps, err := DecodeSteps(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, steps, 6)
	assert.Equal(t, Filter{Expr: "[amount] > 60"}, steps[0])
	assert.Equal(t, Split{Col: "order", Delim: "-", IntoPrefix: "order_", Count: 2}, steps[3])

	res := NewExecutor().Run(context.Background(), testutil.SalesRows(), steps)
	require.Empty(t, res.Warnings)
	testutil.AssertColumnText(t, res.Dataset, "order_2", []string{"3", "3", "2", "4"}, "decoded pipeline")
	testutil.AssertColumnText(t, res.Dataset, "rep", []string{"Ann", "Ann", "bob", "cy"}, "decoded pipeline")
}

func TestDecodeStepsJSONList(t *testing.T) {
	doc := `[{"kind": "select", "fields": ["a", "b"]}, {"kind": "dedupe", "keys": ["a"]}]`
	steps, err := DecodeSteps(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []Step{Select{Fields: []string{"a", "b"}}, Dedupe{Keys: []string{"a"}}}, steps)
}

func TestDecodeStepsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown kind", doc: "- kind: pivot"},
		{name: "missing kind", doc: "- expr: TRUE"},
		{name: "unknown field", doc: "- kind: filter\n  expression: TRUE"},
		{name: "malformed", doc: "- kind: [filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSteps(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	steps, err := DecodeSteps(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestEncodeDecodeSteps(t *testing.T) {
	steps := []Step{
		Filter{Expr: `[region] = "East"`},
		Merge{Cols: []string{"a", "b"}, Into: "m", Delim: "/"},
		Replace{Col: "s", Find: "x+", With: "y", Mode: ReplaceRegex},
		ToNumber{Cols: []string{"n"}},
		ToDate{Cols: []string{"d"}},
		Trim{Cols: []string{"t"}},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeSteps(&buf, steps))

	decoded, err := DecodeSteps(&buf)
	require.NoError(t, err)
	assert.Equal(t, steps, decoded)
}
