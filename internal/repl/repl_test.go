package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/tabcalc/internal/pipeline"
	"github.com/leengari/tabcalc/internal/testutil"
)

func newSession(out *bytes.Buffer) *Session {
	return NewSession(testutil.SalesRows(), pipeline.NewExecutor(), out)
}

func TestCalc(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	require.NoError(t, s.Execute("calc [amount] * 2"))
	assert.Regexp(t, `(?m)^0\s+100$`, out.String())
	assert.Regexp(t, `(?m)^4\s+150$`, out.String())
}

func TestCalcParseError(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)
	assert.Error(t, s.Execute("calc [amount] *"))
}

func TestWhereAddAndUndo(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	require.NoError(t, s.Execute("where [amount] >= 150"))
	testutil.AssertRowCount(t, s.Current(), 3, "after where")

	require.NoError(t, s.Execute("add share = ROUND([amount] / SUMIF(\"amount\", \">0\"), 2)"))
	testutil.AssertColumnText(t, s.Current(), "share", []string{"0.27", "0.36", "0.36"}, "share of filtered total")

	require.NoError(t, s.Execute("undo"))
	require.NoError(t, s.Execute("undo"))
	testutil.AssertRowCount(t, s.Current(), 5, "after undo")
	assert.Error(t, s.Execute("undo"))
}

func TestAddRejectsMalformedField(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	assert.Error(t, s.Execute("add broken = [amount] +"))
	assert.Error(t, s.Execute("add nothing"))
	assert.Empty(t, s.Steps())
}

func TestSortStepsAndReset(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	require.NoError(t, s.Execute("sort amount desc"))
	testutil.AssertColumnText(t, s.Current(), "order", []string{"A-3", "A-3", "A-2", "A-4", "A-1"}, "sorted")

	out.Reset()
	require.NoError(t, s.Execute("steps"))
	assert.Equal(t, "0. sort(amount desc)\n", out.String())

	require.NoError(t, s.Execute("reset"))
	assert.Empty(t, s.Steps())
	testutil.AssertColumnText(t, s.Current(), "order", []string{"A-1", "A-2", "A-3", "A-3", "A-4"}, "reset")
}

func TestPivotAndChart(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	require.NoError(t, s.Execute("pivot rows=rep;value=amount;agg=sum"))
	assert.Regexp(t, `(?m)^ann\s+450\s+450$`, out.String())

	out.Reset()
	require.NoError(t, s.Execute("chart x=rep;agg=count"))
	assert.Regexp(t, `(?m)^x\s+count$`, out.String())
	assert.Regexp(t, `(?m)^ann\s+3$`, out.String())

	assert.Error(t, s.Execute("pivot rows=rep;agg=median"))
}

func TestSchemaAndUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	require.NoError(t, s.Execute("schema"))
	assert.Regexp(t, `(?m)^amount\s+number$`, out.String())
	assert.Error(t, s.Execute("drop table"))
}

func TestStartLoop(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out)

	Start(s, strings.NewReader("where [rep] = \"ann\"\n\nbogus\nexit\nshow\n"))

	text := out.String()
	assert.Contains(t, text, "Welcome to tabcalc")
	assert.Contains(t, text, "3 rows")
	assert.Contains(t, text, "Error: unknown command \"bogus\"")
	assert.NotContains(t, text, "(3 rows)", "show after exit must not run")
}
