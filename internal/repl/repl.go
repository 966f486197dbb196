// Package repl is an interactive console for trying formulas, filters and
// pivots against a dataset.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/leengari/tabcalc/internal/aggregate"
	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
	"github.com/leengari/tabcalc/internal/domain/schema"
	"github.com/leengari/tabcalc/internal/formula"
	"github.com/leengari/tabcalc/internal/pipeline"
	"github.com/leengari/tabcalc/internal/report"
)

const help = `Commands:
  calc <expr>          evaluate a formula against every row
  add <name> = <expr>  add a calculated field
  where <expr>         keep rows where the formula is true
  sort <field> [desc]  sort rows
  pivot <spec>         rows=a,b;cols=c;value=v;agg=sum
  chart <spec>         x=a;y=v;series=s;agg=sum
  show                 print the working rows
  schema               print inferred field types
  steps                list pipeline steps
  undo                 remove the last step
  reset                drop every step
  exit | \q            quit`

// Session holds the console state: the base dataset and the step list that
// is re-applied to it after every edit
type Session struct {
	base    data.Dataset
	steps   *pipeline.Pipeline
	exec    *pipeline.Executor
	current data.Dataset
	out     io.Writer
}

// NewSession creates a session over ds
func NewSession(ds data.Dataset, exec *pipeline.Executor, out io.Writer) *Session {
	s := &Session{
		base:  ds,
		steps: pipeline.New(),
		exec:  exec,
		out:   out,
	}
	s.recompute()
	return s
}

// Start reads commands from in until EOF or exit
func Start(s *Session, in io.Reader) {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(s.out, "Welcome to tabcalc")
	fmt.Fprintln(s.out, "Type 'help' for commands, 'exit' or '\\q' to quit.")

	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "\\q" {
			break
		}
		if err := s.Execute(line); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

// Execute runs one command line
func (s *Session) Execute(line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "help":
		fmt.Fprintln(s.out, help)
	case "calc":
		return s.calc(arg)
	case "add":
		name, expr, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("usage: add <name> = <expr>")
		}
		if err := s.steps.AddCalculatedField(strings.TrimSpace(name), strings.TrimSpace(expr)); err != nil {
			return err
		}
		return s.edited()
	case "where":
		if _, err := formula.Compile(arg); err != nil {
			return err
		}
		if err := s.steps.Append(pipeline.Filter{Expr: arg}); err != nil {
			return err
		}
		return s.edited()
	case "sort":
		fields := strings.Fields(arg)
		if len(fields) == 0 {
			return fmt.Errorf("usage: sort <field> [asc|desc]")
		}
		step := pipeline.Sort{By: fields[0], Dir: pipeline.Asc}
		if len(fields) > 1 {
			step.Dir = pipeline.SortDirection(fields[1])
		}
		if err := s.steps.Append(step); err != nil {
			return err
		}
		return s.edited()
	case "pivot":
		spec, err := aggregate.ParsePivotSpec(arg)
		if err != nil {
			return err
		}
		pt, err := aggregate.Pivot(s.current, spec)
		if err != nil {
			return err
		}
		report.PrintPivot(s.out, pt)
	case "chart":
		spec, err := aggregate.ParseChartSpec(arg)
		if err != nil {
			return err
		}
		cd, err := aggregate.Chart(s.current, spec)
		if err != nil {
			return err
		}
		report.PrintChart(s.out, cd)
	case "show":
		report.PrintDataset(s.out, s.current)
	case "schema":
		s.printSchema()
	case "steps":
		for i, step := range s.steps.Steps() {
			fmt.Fprintf(s.out, "%d. %s\n", i, step)
		}
	case "undo":
		if s.steps.Len() == 0 {
			return fmt.Errorf("no steps to undo")
		}
		if err := s.steps.Remove(s.steps.Len() - 1); err != nil {
			return err
		}
		return s.edited()
	case "reset":
		s.steps = pipeline.New()
		return s.edited()
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
	return nil
}

// Current returns the working dataset
func (s *Session) Current() data.Dataset {
	return s.current
}

// Steps returns the session's step list
func (s *Session) Steps() []pipeline.Step {
	return s.steps.Steps()
}

func (s *Session) calc(expr string) error {
	prog, err := formula.Compile(expr)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tresult")
	fmt.Fprintln(tw, "---\t---")
	for i, row := range s.current {
		v, err := prog.Eval(row, s.current)
		if err != nil {
			fmt.Fprintf(tw, "%d\tError: %v\n", i, err)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\n", i, coerce.ToText(v))
	}
	return tw.Flush()
}

func (s *Session) printSchema() {
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "field\ttype")
	fmt.Fprintln(tw, "---\t---")
	for _, col := range schema.Infer(s.current).Columns {
		fmt.Fprintf(tw, "%s\t%s\n", col.Name, col.Type)
	}
	tw.Flush()
}

// edited re-runs the whole step list over the base dataset
func (s *Session) edited() error {
	res := s.recompute()
	report.PrintWarnings(s.out, res.Warnings)
	fmt.Fprintf(s.out, "%d rows\n", len(s.current))
	return nil
}

func (s *Session) recompute() *pipeline.Result {
	res := s.steps.Run(context.Background(), s.exec, s.base)
	s.current = res.Dataset
	return res
}
