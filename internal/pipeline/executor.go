// Package pipeline applies an ordered list of transform steps to a dataset.
//
// Each step runs in isolation. A step that fails is rolled back as a whole:
// the next step sees the dataset from before the failing step and the failure
// is reported as a warning, never as a hard error.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/leengari/tabcalc/internal/domain/data"
	"github.com/leengari/tabcalc/internal/formula"
)

// FailurePolicy controls how expression failures inside a step are contained
type FailurePolicy string

const (
	// Rollback discards the whole step when any row fails
	Rollback FailurePolicy = "rollback"
	// SkipRow drops the failing row from a filter and leaves it unchanged in a
	// mutate. Failures that are not per-row still roll the step back.
	SkipRow FailurePolicy = "skip-row"
)

// ParseFailurePolicy reads a policy name. The empty string means Rollback.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Rollback:
		return Rollback, nil
	case SkipRow:
		return SkipRow, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q (want %s or %s)", s, Rollback, SkipRow)
	}
}

// StepError wraps a failure of one step
type StepError struct {
	Index int
	Kind  StepKind
	Step  string // description of the step
	Rows  int    // rows skipped under SkipRow, 0 when the step rolled back
	Err   error
}

func (e *StepError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("step %d (%s)", e.Index, e.Step))
	if e.Rows > 0 {
		parts = append(parts, fmt.Sprintf("%d row(s) skipped", e.Rows))
	} else {
		parts = append(parts, "rolled back")
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, " - ")
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Warning is a non-fatal step failure recorded during a run
type Warning struct {
	Index int
	Kind  StepKind
	Err   error
}

func (w Warning) String() string {
	return w.Err.Error()
}

// Result is the outcome of a run
type Result struct {
	RunID    string
	Dataset  data.Dataset
	Warnings []Warning
}

// Err combines every warning into one error, or nil when the run was clean
func (r *Result) Err() error {
	var err error
	for _, w := range r.Warnings {
		err = multierr.Append(err, w.Err)
	}
	return err
}

// Executor runs step lists. It holds no state between runs besides its
// configuration and observers.
type Executor struct {
	policy      FailurePolicy
	formulaOpts []formula.Option
	observers   []Observer
}

// ExecutorOption configures an Executor
type ExecutorOption func(*Executor)

// WithFailurePolicy sets the failure policy (Rollback by default)
func WithFailurePolicy(p FailurePolicy) ExecutorOption {
	return func(e *Executor) {
		e.policy = p
	}
}

// WithFormulaOptions passes options to every formula the executor compiles
func WithFormulaOptions(opts ...formula.Option) ExecutorOption {
	return func(e *Executor) {
		e.formulaOpts = append(e.formulaOpts, opts...)
	}
}

// WithObserver registers an observer at construction
func WithObserver(o Observer) ExecutorOption {
	return func(e *Executor) {
		e.AddObserver(o)
	}
}

// NewExecutor creates an executor
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{policy: Rollback}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured failure policy
func (e *Executor) Policy() FailurePolicy {
	return e.policy
}

// AddObserver registers an observer to receive lifecycle events
func (e *Executor) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Executor) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Executor) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}

// Run applies steps to ds in order and returns the final dataset.
// ds itself is never modified. ctx is checked between steps; once it is done
// the remaining steps are not applied and a warning records why.
func (e *Executor) Run(ctx context.Context, ds data.Dataset, steps []Step) *Result {
	res := &Result{RunID: uuid.New().String()}
	e.notify(Event{Type: EventRunStart, RunID: res.RunID, Index: -1, RowsIn: len(ds)})

	current := ds
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			res.Warnings = append(res.Warnings, Warning{
				Index: i,
				Kind:  step.Kind(),
				Err:   &StepError{Index: i, Kind: step.Kind(), Step: step.String(), Err: err},
			})
			break
		}

		e.notify(Event{Type: EventStepStart, RunID: res.RunID, Index: i, Kind: step.Kind(), RowsIn: len(current)})

		r := &stepRun{in: current, opts: e.formulaOpts, skipRows: e.policy == SkipRow}
		if err := runStep(step, r); err != nil {
			stepErr := &StepError{Index: i, Kind: step.Kind(), Step: step.String(), Err: err}
			res.Warnings = append(res.Warnings, Warning{Index: i, Kind: step.Kind(), Err: stepErr})
			e.notify(Event{Type: EventStepSkipped, RunID: res.RunID, Index: i, Kind: step.Kind(),
				RowsIn: len(current), RowsOut: len(current), Err: stepErr})
			continue
		}

		var rowsErr error
		if r.skipped > 0 {
			rowsErr = &StepError{Index: i, Kind: step.Kind(), Step: step.String(), Rows: r.skipped, Err: r.rowErr}
			res.Warnings = append(res.Warnings, Warning{Index: i, Kind: step.Kind(), Err: rowsErr})
		}
		e.notify(Event{Type: EventStepEnd, RunID: res.RunID, Index: i, Kind: step.Kind(),
			RowsIn: len(current), RowsOut: len(r.out), Err: rowsErr})
		current = r.out
	}

	res.Dataset = current
	e.notify(Event{Type: EventRunEnd, RunID: res.RunID, Index: -1, RowsIn: len(ds), RowsOut: len(current)})
	return res
}

// runStep applies one step, turning a panic inside it into an error
func runStep(step Step, r *stepRun) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("step panicked: %v", p)
		}
	}()
	return step.apply(r)
}
