package smt

import (
	"context"
	"strconv"

	"nextce/internal/ltl"
	"nextce/internal/trace"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// enumeration literals are numbered from here, away from the integers a
// model is likely to use
const literalBase = int64(1) << 40

// Evaluator decides formulas in a fixed state with yices. Every symbol is a
// bit-vector variable; the state pins each one to the encoding of its
// value, and the formula holds iff its negation is unsatisfiable under
// that assignment.
type Evaluator struct {
	solver    *Solver
	variables map[string]*BitVec
	declared  map[string]bool
	literals  map[string]int64
}

// NewEvaluator must be called between yices2.Init and yices2.Exit. literals
// are the enumeration values the model declares.
func NewEvaluator(literals ...string) *Evaluator {
	e := &Evaluator{
		solver:    NewSolver(),
		variables: make(map[string]*BitVec),
		declared:  make(map[string]bool, len(literals)),
		literals:  make(map[string]int64),
	}
	for _, literal := range literals {
		e.declared[literal] = true
	}
	return e
}

func (e *Evaluator) EvaluateInFixedState(_ context.Context, state trace.State, f *ltl.Formula) (bool, error) {
	symbols := maps.Keys(state)
	slices.Sort(symbols)
	terms := make([]yices2.TermT, 0, len(symbols)+1)
	for _, symbol := range symbols {
		terms = append(terms, e.variable(symbol).Eq(e.constant(state[symbol])).GetRaw())
	}
	formula, err := e.translate(ltl.Unroll(f), state)
	if err != nil {
		return false, err
	}
	terms = append(terms, formula.Not().GetRaw())
	status, err := e.solver.Check(terms...)
	if err != nil {
		return false, errors.Wrap(err, "solver.Check")
	}
	return status == yices2.StatusUnsat, nil
}

func (e *Evaluator) variable(symbol string) *BitVec {
	if bv, ok := e.variables[symbol]; ok {
		return bv
	}
	bv := NewBitVec(symbol)
	e.variables[symbol] = bv
	return bv
}

func (e *Evaluator) encode(text string) int64 {
	switch text {
	case "TRUE":
		return 1
	case "FALSE":
		return 0
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	if id, ok := e.literals[text]; ok {
		return id
	}
	id := literalBase + int64(len(e.literals))
	e.literals[text] = id
	return id
}

func (e *Evaluator) constant(text string) *BitVec {
	return NewBitVecValInt64(e.encode(text))
}

func (e *Evaluator) translate(f *ltl.Formula, state trace.State) (*Bool, error) {
	switch f.Op() {
	case ltl.OpTrue:
		return NewBoolVal(true), nil
	case ltl.OpFalse:
		return NewBoolVal(false), nil
	case ltl.OpSymbol:
		value, ok := state[f.Name()]
		if !ok || (value != "TRUE" && value != "FALSE") {
			return nil, errors.Wrapf(ltl.ErrEval, "%s is not a boolean variable", f.Name())
		}
		return e.variable(f.Name()).Eq(e.constant("TRUE")), nil
	case ltl.OpNot:
		operand, err := e.translate(f.Left(), state)
		if err != nil {
			return nil, err
		}
		return operand.Not(), nil
	case ltl.OpAnd, ltl.OpOr, ltl.OpImplies, ltl.OpIff:
		l, err := e.translate(f.Left(), state)
		if err != nil {
			return nil, err
		}
		r, err := e.translate(f.Right(), state)
		if err != nil {
			return nil, err
		}
		switch f.Op() {
		case ltl.OpAnd:
			return l.And(r), nil
		case ltl.OpOr:
			return l.Or(r), nil
		case ltl.OpImplies:
			return l.Implies(r), nil
		}
		return l.Iff(r), nil
	case ltl.OpIn:
		l, err := e.value(f.Left(), state, false)
		if err != nil {
			return nil, err
		}
		values := []*ltl.Formula{f.Right()}
		if f.Right().Op() == ltl.OpSet {
			values = f.Right().Items()
		}
		result := NewBoolVal(false)
		for _, item := range values {
			v, err := e.value(item, state, false)
			if err != nil {
				return nil, err
			}
			result = result.Or(l.Eq(v))
		}
		return result, nil
	case ltl.OpEqual, ltl.OpNotEqual, ltl.OpLess, ltl.OpLessEq, ltl.OpGreater, ltl.OpGreaterEq:
		ordered := f.Op() != ltl.OpEqual && f.Op() != ltl.OpNotEqual
		l, err := e.value(f.Left(), state, ordered)
		if err != nil {
			return nil, err
		}
		r, err := e.value(f.Right(), state, ordered)
		if err != nil {
			return nil, err
		}
		switch f.Op() {
		case ltl.OpEqual:
			return l.Eq(r), nil
		case ltl.OpNotEqual:
			return l.Ne(r), nil
		case ltl.OpLess:
			return l.Lt(r), nil
		case ltl.OpLessEq:
			return l.Le(r), nil
		case ltl.OpGreater:
			return l.Gt(r), nil
		}
		return l.Ge(r), nil
	}
	return nil, errors.Wrapf(ltl.ErrEval, "cannot translate %s", f.Op())
}

// value translates an operand of a comparison to a bit-vector. Ordered
// comparisons accept integers only.
func (e *Evaluator) value(f *ltl.Formula, state trace.State, ordered bool) (*BitVec, error) {
	var text string
	switch f.Op() {
	case ltl.OpConst:
		text = f.Name()
	case ltl.OpTrue, ltl.OpFalse:
		text = f.Op().String()
	case ltl.OpSymbol:
		value, ok := state[f.Name()]
		if !ok {
			if !e.declared[f.Name()] {
				return nil, errors.Wrapf(ltl.ErrEval, "unbound identifier %s", f.Name())
			}
			text = f.Name()
			break
		}
		if ordered {
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				return nil, errors.Wrapf(ltl.ErrEval, "%s is not an integer", value)
			}
		}
		return e.variable(f.Name()), nil
	case ltl.OpSet:
		return nil, errors.Wrap(ltl.ErrEval, "set used as a scalar")
	default:
		cond, err := e.translate(f, state)
		if err != nil {
			return nil, err
		}
		return cond.Ite(e.constant("TRUE"), e.constant("FALSE")), nil
	}
	if ordered {
		if _, err := strconv.ParseInt(text, 10, 64); err != nil {
			return nil, errors.Wrapf(ltl.ErrEval, "%s is not an integer", text)
		}
	}
	return e.constant(text), nil
}
