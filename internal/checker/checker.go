// Package checker 外部模型检查器适配
package checker

import (
	"context"

	"nextce/internal/ltl"
	"nextce/internal/prop"
	"nextce/internal/trace"
)

// Verifier runs a full verification of p and records the verdict in
// p.Status, and the counterexample in p.Trace when the verdict is false.
type Verifier interface {
	Verify(ctx context.Context, p *prop.Property) error
}

// StateEvaluator decides f, read as an LTL specification, in the model
// with a single state fixed to state whose only transition loops on it.
type StateEvaluator interface {
	EvaluateInFixedState(ctx context.Context, state trace.State, f *ltl.Formula) (bool, error)
}

// Explicit evaluates fixed-state formulas directly on the assignment.
// literals are the enumeration values the model declares.
type Explicit struct {
	literals []string
}

func NewExplicit(literals ...string) *Explicit {
	return &Explicit{
		literals: literals,
	}
}

func (e *Explicit) EvaluateInFixedState(_ context.Context, state trace.State, f *ltl.Formula) (bool, error) {
	return ltl.EvalFixed(f, state, e.literals...)
}
