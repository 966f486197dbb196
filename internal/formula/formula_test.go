package formula

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/tabcalc/internal/domain/data"
)

func salesData() data.Dataset {
	return data.Dataset{
		data.NewRow(data.F("Region", "East"), data.F("Sales", 100.0), data.F("Rep", "ann")),
		data.NewRow(data.F("Region", "West"), data.F("Sales", 200.0), data.F("Rep", "bob")),
		data.NewRow(data.F("Region", "East"), data.F("Sales", 250.0), data.F("Rep", "cy")),
	}
}

func eval(t *testing.T, expr string, row data.Row, ds data.Dataset) data.Value {
	t.Helper()
	p, err := Compile(expr)
	require.NoError(t, err, "compile %q", expr)
	v, err := p.Eval(row, ds)
	require.NoError(t, err, "eval %q", expr)
	return v
}

func TestEvalScalar(t *testing.T) {
	row := data.NewRow(
		data.F("Price", 10.0),
		data.F("Qty", "3"),
		data.F("Name", "  hello   wide  world "),
		data.F("First Name", "ada"),
	)

	tests := []struct {
		expr string
		want data.Value
	}{
		{"1 + 2 * 3", 7.0},
		{"(1 + 2) * 3", 9.0},
		{"=[Price] * [Qty]", 30.0},
		{"2 ^ 3 ^ 2", 64.0},
		{"-2 ^ 2", 4.0},
		{"10 / 4", 2.5},
		{`"a" & 1 & TRUE`, "a1true"},
		{`[First Name] & "!"`, "ada!"},
		{`"it""s"`, `it"s`},
		{"1 = 1", true},
		{"1 == 1", true},
		{"\"1\" = 1", true},
		{"1 = \"1.0\"", true},
		{"\"1\" = \"1.0\"", false},
		{"\"x\" = 0", false},
		{"1 <> 2", true},
		{"1 != 1", false},
		{`"10" > 9`, true},
		{`"apple" < "banana"`, true},
		{"[Price] > 5 && [Qty] < 2", false},
		{"[Price] > 5 || [Qty] < 2", true},
		{"!TRUE", false},

		{"IF([Price] > 5, \"big\", \"small\")", "big"},
		{"IF(FALSE, 1)", false},
		{"AND(TRUE, 1, \"x\")", true},
		{"OR(FALSE, 0)", false},
		{"NOT(0)", true},
		{"ISBLANK(\"\")", true},
		{"ISNUMBER([Price])", true},
		{"ISTEXT([Qty])", true},
		{"N(\"12\")", 12.0},

		{"ABS(-4)", 4.0},
		{"ROUND(2.345, 2)", 2.35},
		{"ROUND(-2.5)", -3.0},
		{"ROUND(1234, -2)", 1200.0},
		{"FLOOR(7.8)", 7.0},
		{"FLOOR(17, 5)", 15.0},
		{"CEILING(7.2)", 8.0},
		{"CEILING(0.21, 0.1)", 0.3},
		{"CEILING(5, 0)", 0.0},
		{"MIN(3, 1, 2)", 1.0},
		{"MAX(3, 1, 2)", 3.0},
		{"MAX()", 0.0},
		{"SQRT(16)", 4.0},

		{"LEN(\"héllo\")", 5.0},
		{"LEFT(\"hello\")", "h"},
		{"LEFT(\"hello\", 3)", "hel"},
		{"RIGHT(\"hello\", 2)", "lo"},
		{"RIGHT(\"hi\", 10)", "hi"},
		{"MID(\"hello\", 2, 3)", "ell"},
		{"MID(\"hello\", 9, 3)", ""},
		{"UPPER(\"abc\")", "ABC"},
		{"lower(\"ABC\")", "abc"},
		{"PROPER(\"hELLO wORLD\")", "Hello World"},
		{"PROPER(\"o'neil mary-jane\")", "O'Neil Mary-Jane"},
		{"PROPER(\"2nd  ÉCOLE\")", "2Nd  École"},
		{"TRIM([Name])", "hello wide world"},
		{"CONCAT(\"a\", 1, \"b\")", "a1b"},
		{"CONCATENATE(\"x\", \"y\")", "xy"},
		{"TEXTJOIN(\"-\", TRUE, \"a\", \"\", \"b\")", "a-b"},
		{"TEXTJOIN(\"-\", FALSE, \"a\", \"\", \"b\")", "a--b"},
		{"SUBSTITUTE(\"a-b-c\", \"-\", \"+\")", "a+b+c"},
		{"SUBSTITUTE(\"abc\", \"\", \"+\")", "abc"},

		{"YEAR(DATE(2024, 2, 29))", 2024.0},
		{"MONTH(DATE(2024, 13, 1))", 1.0},
		{"DAY(\"2024-03-15\")", 15.0},
		{"DATEDIF(DATE(2024,1,1), DATE(2024,1,31))", 30.0},
		{"DATEDIF(DATE(2024,1,31), DATE(2024,3,1), \"m\")", 2.0},
		{"DATEDIF(DATE(2020,6,1), DATE(2024,1,1), \"y\")", 4.0},
		{"DATEDIF(DATE(2024,1,1), DATE(2024,1,3), \"w\")", 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := eval(t, tt.expr, row, nil)
			if f, ok := tt.want.(float64); ok {
				require.IsType(t, 0.0, got)
				assert.InDelta(t, f, got.(float64), 1e-9)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateReturnsTime(t *testing.T) {
	got := eval(t, "DATE(2024, 1, 31)", data.Row{}, nil)
	assert.True(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC).Equal(got.(time.Time)))
}

func TestDatePartsOfInvalidDateAreNaN(t *testing.T) {
	got := eval(t, "YEAR(\"not a date\")", data.Row{}, nil)
	assert.True(t, math.IsNaN(got.(float64)))

	got = eval(t, "DATEDIF(\"nope\", DATE(2024,1,1))", data.Row{}, nil)
	assert.True(t, math.IsNaN(got.(float64)))
}

func TestClock(t *testing.T) {
	fixed := time.Date(2024, 5, 17, 15, 30, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }

	p, err := Compile("TODAY()", WithClock(clock))
	require.NoError(t, err)
	got, err := p.Eval(data.Row{}, nil)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC).Equal(got.(time.Time)))

	p, err = Compile("NOW()", WithClock(clock))
	require.NoError(t, err)
	got, err = p.Eval(data.Row{}, nil)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(got.(time.Time)))

	p, err = Compile("DATEDIF(DATE(2024,5,1), TODAY())", WithClock(clock))
	require.NoError(t, err)
	got, err = p.Eval(data.Row{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 16.0, got)
}

func TestCrossRowFunctions(t *testing.T) {
	ds := salesData()
	row := ds[0]

	tests := []struct {
		expr string
		want data.Value
	}{
		{`SUMIF("Region", "East", "Sales")`, 350.0},
		{`SUMIF("Sales", ">150")`, 450.0},
		{`COUNTIF("Region", "East")`, 2.0},
		{`COUNTIF("Region", "=West")`, 1.0},
		{`COUNTIF("Region", "!=West")`, 2.0},
		{`COUNTIF("Region", "contains:as")`, 2.0},
		{`AVERAGEIF("Region", "East", "Sales")`, 175.0},
		{`AVERAGEIF("Region", "North", "Sales")`, 0.0},
		{`LOOKUP("bob", "Rep", "Sales")`, 200.0},
		{`[Sales] / SUMIF("Region", [Region], "Sales")`, 100.0 / 350.0},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := eval(t, tt.expr, row, ds)
			assert.InDelta(t, tt.want.(float64), got.(float64), 1e-9)
		})
	}
}

func TestLookupMissingKeyIsEmpty(t *testing.T) {
	ds := salesData()
	assert.Nil(t, eval(t, `LOOKUP("zed", "Rep", "Sales")`, ds[0], ds))
}

func TestCrossRowUnknownColumn(t *testing.T) {
	ds := salesData()
	p, err := Compile(`SUMIF("Area", "East", "Sales")`)
	require.NoError(t, err)

	_, err = p.Eval(ds[0], ds)
	var evalErr *EvalError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "Area", evalErr.Field)
}

func TestCrossRowEmptyDataset(t *testing.T) {
	assert.Equal(t, 0.0, eval(t, `COUNTIF("Region", "East")`, data.Row{}, nil))
}

func TestLazyEvaluation(t *testing.T) {
	row := data.NewRow(data.F("x", 0.0))

	assert.Equal(t, 1.0, eval(t, "IF(TRUE, 1, [missing])", row, nil))
	assert.Equal(t, false, eval(t, "AND(FALSE, 1 / [x])", row, nil))
	assert.Equal(t, true, eval(t, "OR(TRUE, [missing])", row, nil))
	assert.Equal(t, false, eval(t, "FALSE && [missing]", row, nil))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"empty", ""},
		{"dangling operator", "1 +"},
		{"unbalanced paren", "(1 + 2"},
		{"unknown function", "FOO(1)"},
		{"too few arguments", "MID(\"abc\", 1)"},
		{"too many arguments", "NOT(1, 2)"},
		{"unterminated string", `"abc`},
		{"trailing tokens", "1 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, tt.expr, perr.Expr)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	row := data.NewRow(data.F("a", 1.0), data.F("zero", 0.0))

	tests := []struct {
		name     string
		expr     string
		field    string
		function string
	}{
		{name: "unknown field", expr: "[b] + 1", field: "b"},
		{name: "division by zero", expr: "[a] / [zero]"},
		{name: "negative LEFT count", expr: `LEFT("abc", -1)`, function: "LEFT"},
		{name: "MID start below one", expr: `MID("abc", 0, 1)`, function: "MID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.expr)
			require.NoError(t, err)

			_, err = p.Eval(row, nil)
			var evalErr *EvalError
			require.True(t, errors.As(err, &evalErr), "got %v", err)
			assert.Equal(t, tt.expr, evalErr.Expr)
			assert.Equal(t, tt.field, evalErr.Field)
			assert.Equal(t, tt.function, evalErr.Function)
		})
	}
}

func TestProgramFields(t *testing.T) {
	p, err := Compile("[a] + [b] * [a] + SUMIF(\"c\", \">1\")")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Fields())
	assert.Equal(t, "[a] + [b] * [a] + SUMIF(\"c\", \">1\")", p.Source())
}

func TestProgramIsReusable(t *testing.T) {
	p := MustCompile("[n] * 2")
	for i, want := range []float64{0, 2, 4} {
		got, err := p.Eval(data.NewRow(data.F("n", float64(i))), nil)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEvalBool(t *testing.T) {
	p := MustCompile("[n] > 1")
	ok, err := p.EvalBool(data.NewRow(data.F("n", 2.0)), nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFunctionNames(t *testing.T) {
	names := FunctionNames()
	assert.Len(t, names, int(numFuncs))
	assert.Contains(t, names, "SUMIF")
	assert.Contains(t, names, "CONCATENATE")
}
