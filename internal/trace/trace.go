// Package trace 反例轨迹
package trace

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Cursor addresses a step of a trace by position.
type Cursor int

// NoStep is the absent cursor. As the lower bound of Copy it means the first
// step, as the upper bound the last one.
const NoStep Cursor = -1

func (c Cursor) Valid() bool { return c >= 0 }

// State maps every symbol that has a value at one step to that value.
type State map[string]string

func (s State) Clone() State {
	clone := make(State, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Trace is an ordered sequence of steps over a fixed list of symbols.
type Trace struct {
	ID          int
	Description string
	symbols     []string
	steps       []State
	loop        Cursor
}

func New(description string, symbols []string) *Trace {
	return &Trace{
		Description: description,
		symbols:     slices.Clone(symbols),
		steps:       make([]State, 0),
		loop:        NoStep,
	}
}

// AddStep appends a step. Symbols of the trace missing from state stay
// undefined at that step; unknown symbols are ignored.
func (t *Trace) AddStep(state State) Cursor {
	step := make(State, len(state))
	for _, symbol := range t.symbols {
		if value, ok := state[symbol]; ok {
			step[symbol] = value
		}
	}
	t.steps = append(t.steps, step)
	return Cursor(len(t.steps) - 1)
}

// MarkLoop records that the lasso of the trace loops back to c.
func (t *Trace) MarkLoop(c Cursor) {
	t.loop = c
}

func (t *Trace) Loop() Cursor {
	return t.loop
}

func (t *Trace) Symbols() []string {
	return slices.Clone(t.symbols)
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) IsEmpty() bool {
	return len(t.steps) == 0
}

func (t *Trace) First() Cursor {
	if t.IsEmpty() {
		return NoStep
	}
	return 0
}

func (t *Trace) Last() Cursor {
	return Cursor(len(t.steps) - 1)
}

// Next returns the step after c, or NoStep at the end of the trace.
func (t *Trace) Next(c Cursor) Cursor {
	if !c.Valid() || int(c)+1 >= len(t.steps) {
		return NoStep
	}
	return c + 1
}

// Prev returns the step before c, or NoStep at the beginning of the trace.
func (t *Trace) Prev(c Cursor) Cursor {
	if c <= 0 || int(c) > len(t.steps) {
		return NoStep
	}
	return c - 1
}

func (t *Trace) contains(c Cursor) bool {
	return c.Valid() && int(c) < len(t.steps)
}

// ValueOf returns the value of symbol at step c.
func (t *Trace) ValueOf(c Cursor, symbol string) (string, bool) {
	if !t.contains(c) {
		return "", false
	}
	value, ok := t.steps[c][symbol]
	return value, ok
}

// State returns a copy of the assignment at step c.
func (t *Trace) State(c Cursor) State {
	if !t.contains(c) {
		return State{}
	}
	return t.steps[c].Clone()
}

// Copy returns an independent trace holding the steps from through to
// through, both included. NoStep for from means the first step, for
// through the last one.
func (t *Trace) Copy(from, through Cursor) (*Trace, error) {
	if t.IsEmpty() {
		return nil, errors.New("copy of an empty trace")
	}
	if !from.Valid() {
		from = t.First()
	}
	if !through.Valid() {
		through = t.Last()
	}
	if !t.contains(from) || !t.contains(through) || from > through {
		return nil, errors.Errorf("invalid range [%d, %d] of a %d step trace", from, through, t.Len())
	}
	result := New(t.Description, t.symbols)
	for c := from; c <= through; c++ {
		result.steps = append(result.steps, t.steps[c].Clone())
	}
	if t.loop >= from && t.loop <= through {
		result.loop = t.loop - from
	}
	return result, nil
}

// Clone copies the whole trace, identifier included.
func (t *Trace) Clone() *Trace {
	result := New(t.Description, t.symbols)
	result.ID = t.ID
	result.loop = t.loop
	for _, step := range t.steps {
		result.steps = append(result.steps, step.Clone())
	}
	return result
}
