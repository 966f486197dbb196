package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/leengari/tabcalc/internal/domain/data"
	"github.com/leengari/tabcalc/internal/formula"
)

// IndexError reports a step position outside the pipeline
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("step index %d out of range [0, %d)", e.Index, e.Len)
}

// Pipeline is an editable, ordered list of steps
type Pipeline struct {
	steps []Step
}

// New creates a pipeline holding the given steps
func New(steps ...Step) *Pipeline {
	p := &Pipeline{}
	for _, s := range steps {
		if s != nil {
			p.steps = append(p.steps, s)
		}
	}
	return p
}

// Steps returns a copy of the step list
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Len returns the number of steps
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Append adds a step at the end
func (p *Pipeline) Append(step Step) error {
	if step == nil {
		return errors.New("nil step")
	}
	p.steps = append(p.steps, step)
	return nil
}

// Remove deletes the step at index
func (p *Pipeline) Remove(index int) error {
	if err := p.check(index); err != nil {
		return err
	}
	p.steps = append(p.steps[:index:index], p.steps[index+1:]...)
	return nil
}

// Move relocates the step at from so it ends up at position to
func (p *Pipeline) Move(from, to int) error {
	if err := p.check(from); err != nil {
		return err
	}
	if err := p.check(to); err != nil {
		return err
	}
	step := p.steps[from]
	rest := append(p.steps[:from:from], p.steps[from+1:]...)

	steps := make([]Step, 0, len(p.steps))
	steps = append(steps, rest[:to]...)
	steps = append(steps, step)
	steps = append(steps, rest[to:]...)
	p.steps = steps
	return nil
}

// Patch replaces the step at index in place. The replacement must be of the
// same kind; changing kind is a Remove followed by an Append.
func (p *Pipeline) Patch(index int, step Step) error {
	if err := p.check(index); err != nil {
		return err
	}
	if step == nil {
		return errors.New("nil step")
	}
	if old := p.steps[index]; old.Kind() != step.Kind() {
		return fmt.Errorf("cannot patch %s step with a %s step", old.Kind(), step.Kind())
	}
	p.steps[index] = step
	return nil
}

// AddCalculatedField compiles expr and, if it is well formed, appends a
// Mutate step writing its result into name. A malformed expression is
// rejected with a *formula.ParseError and the pipeline is left unchanged.
func (p *Pipeline) AddCalculatedField(name, expr string) error {
	if name == "" {
		return errors.New("calculated field needs a name")
	}
	if _, err := formula.Compile(expr); err != nil {
		return err
	}
	p.steps = append(p.steps, Mutate{Field: name, Expr: expr})
	return nil
}

// Run executes the pipeline with exec
func (p *Pipeline) Run(ctx context.Context, exec *Executor, ds data.Dataset) *Result {
	return exec.Run(ctx, ds, p.Steps())
}

func (p *Pipeline) check(index int) error {
	if index < 0 || index >= len(p.steps) {
		return &IndexError{Index: index, Len: len(p.steps)}
	}
	return nil
}
