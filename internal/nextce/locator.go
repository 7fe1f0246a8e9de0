package nextce

import (
	"context"

	"nextce/internal/checker"
	"nextce/internal/ltl"
	"nextce/internal/prop"
	"nextce/internal/trace"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// InitSource exposes the initial-state constraints declared by the model.
type InitSource interface {
	InitValue(symbol string) (*ltl.Formula, bool)
}

// Definitions resolves the DEFINE macros of the model.
type Definitions interface {
	Definition(symbol string) (*ltl.Formula, bool)
}

// Locator finds the window of a counterexample that characterises it: the
// first state violating the invariant and the last initial state before it.
type Locator struct {
	eval  checker.StateEvaluator
	inits InitSource
	defs  Definitions
}

func NewLocator(eval checker.StateEvaluator, inits InitSource) *Locator {
	return &Locator{
		eval:  eval,
		inits: inits,
	}
}

// WithDefinitions expands the defines of defs before evaluating. Defines
// it cannot resolve must have their value recorded in the traces.
func (l *Locator) WithDefinitions(defs Definitions) *Locator {
	l.defs = defs
	return l
}

func (l *Locator) expand(f *ltl.Formula) *ltl.Formula {
	if l.defs == nil {
		return f
	}
	return ltl.Substitute(f, l.defs.Definition)
}

// FindTruncationStep returns the first step of t at which the invariant of p
// is false, or NoStep if it holds everywhere.
func (l *Locator) FindTruncationStep(ctx context.Context, p *prop.Property, t *trace.Trace) (trace.Cursor, error) {
	if t == nil || t.IsEmpty() {
		return trace.NoStep, ErrEmptyTrace
	}
	inv, err := Invariant(p.Formula())
	if err != nil {
		return trace.NoStep, err
	}
	inv = l.expand(inv)
	for c := t.First(); c.Valid(); c = t.Next(c) {
		ok, err := l.eval.EvaluateInFixedState(ctx, t.State(c), inv)
		if err != nil {
			return trace.NoStep, errors.Wrapf(err, "evaluate invariant at step %d", c+1)
		}
		if !ok {
			log.Debugf("invariant %s fails at step %d", inv, c+1)
			return c, nil
		}
	}
	log.Debugf("invariant %s holds along the whole trace", inv)
	return trace.NoStep, nil
}

// initPredicate conjoins "symbol in init(symbol)" over every symbol of t
// with a declared initial value. Nil means no constraint.
func (l *Locator) initPredicate(t *trace.Trace) *ltl.Formula {
	if l.inits == nil {
		return nil
	}
	var pred *ltl.Formula
	for _, symbol := range t.Symbols() {
		init, ok := l.inits.InitValue(symbol)
		if !ok {
			continue
		}
		pred = conjunct(pred, ltl.In(ltl.Symbol(symbol), init))
	}
	return pred
}

// FindInitStep returns the last step before limit that satisfies the initial
// state constraints of the model, or NoStep. With limit NoStep the whole
// trace is scanned.
func (l *Locator) FindInitStep(ctx context.Context, p *prop.Property, t *trace.Trace, limit trace.Cursor) (trace.Cursor, error) {
	if t == nil || t.IsEmpty() {
		return trace.NoStep, nil
	}
	pred := l.initPredicate(t)
	if pred == nil {
		pred = ltl.True()
	}
	pred = l.expand(pred)
	found := trace.NoStep
	for c := t.First(); c.Valid() && c != limit; c = t.Next(c) {
		ok, err := l.eval.EvaluateInFixedState(ctx, t.State(c), pred)
		if err != nil {
			return trace.NoStep, errors.Wrapf(err, "evaluate init predicate at step %d", c+1)
		}
		if ok {
			found = c
		}
	}
	if found.Valid() {
		log.Debugf("property [%d]: last initial state before the violation is step %d", p.Index(), found+1)
	}
	return found, nil
}
