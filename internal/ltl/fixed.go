package ltl

import (
	"strconv"

	"github.com/pkg/errors"
)

var ErrEval = errors.New("ltl evaluation error")

// Unroll rewrites f into a propositional formula that holds exactly when f
// holds at the initial position of a model with a single state looping on
// itself. On such a path every position sees the same state, so only the
// distance to the beginning matters for Y; past the deepest Y nesting every
// position is alike.
func Unroll(f *Formula) *Formula {
	return unroll(f, 0)
}

func unroll(f *Formula, pos int) *Formula {
	switch f.op {
	case OpTrue, OpFalse, OpSymbol, OpConst, OpSet:
		return f
	case OpContext:
		return unroll(f.left, pos)
	case OpNext:
		return unroll(f.left, pos+1)
	case OpPrev:
		if pos == 0 {
			return False()
		}
		return unroll(f.left, pos-1)
	case OpGlobally, OpFinally:
		horizon := maxInt(pos, prevDepth(f.left))
		result := unroll(f.left, pos)
		for j := pos + 1; j <= horizon; j++ {
			if f.op == OpGlobally {
				result = And(result, unroll(f.left, j))
			} else {
				result = Or(result, unroll(f.left, j))
			}
		}
		return result
	case OpUntil:
		horizon := maxInt(pos, maxInt(prevDepth(f.left), prevDepth(f.right)))
		var (
			result *Formula
			prefix *Formula
		)
		for k := pos; k <= horizon; k++ {
			term := unroll(f.right, k)
			if prefix != nil {
				term = And(prefix, term)
			}
			if result == nil {
				result = term
			} else {
				result = Or(result, term)
			}
			held := unroll(f.left, k)
			if prefix == nil {
				prefix = held
			} else {
				prefix = And(prefix, held)
			}
		}
		return result
	case OpNot:
		return Not(unroll(f.left, pos))
	default:
		return binary(f.op, unroll(f.left, pos), unroll(f.right, pos))
	}
}

// prevDepth is the deepest nesting of Y operators in f.
func prevDepth(f *Formula) int {
	if f == nil {
		return 0
	}
	depth := maxInt(prevDepth(f.left), prevDepth(f.right))
	if f.op == OpPrev {
		depth++
	}
	return depth
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// EvalFixed decides f in the single-state model fixed to state. An
// identifier bound in neither state nor literals is an error.
func EvalFixed(f *Formula, state map[string]string, literals ...string) (bool, error) {
	env := fixedEnv{state: state, literals: make(map[string]bool, len(literals))}
	for _, literal := range literals {
		env.literals[literal] = true
	}
	return env.evalBool(Unroll(f))
}

type fixedEnv struct {
	state    map[string]string
	literals map[string]bool
}

func (e fixedEnv) evalBool(f *Formula) (bool, error) {
	switch f.op {
	case OpTrue:
		return true, nil
	case OpFalse:
		return false, nil
	case OpSymbol:
		value, ok := e.state[f.name]
		if !ok {
			return false, errors.Wrapf(ErrEval, "unknown boolean symbol %s", f.name)
		}
		switch value {
		case "TRUE":
			return true, nil
		case "FALSE":
			return false, nil
		}
		return false, errors.Wrapf(ErrEval, "symbol %s has non boolean value %s", f.name, value)
	case OpNot:
		v, err := e.evalBool(f.left)
		return !v, err
	case OpAnd, OpOr, OpImplies, OpIff:
		l, err := e.evalBool(f.left)
		if err != nil {
			return false, err
		}
		r, err := e.evalBool(f.right)
		if err != nil {
			return false, err
		}
		switch f.op {
		case OpAnd:
			return l && r, nil
		case OpOr:
			return l || r, nil
		case OpImplies:
			return !l || r, nil
		}
		return l == r, nil
	case OpEqual, OpNotEqual:
		l, err := e.evalValue(f.left)
		if err != nil {
			return false, err
		}
		r, err := e.evalValue(f.right)
		if err != nil {
			return false, err
		}
		return sameValue(l, r) == (f.op == OpEqual), nil
	case OpLess, OpLessEq, OpGreater, OpGreaterEq:
		return e.evalOrder(f)
	case OpIn:
		l, err := e.evalValue(f.left)
		if err != nil {
			return false, err
		}
		values := []*Formula{f.right}
		if f.right.op == OpSet {
			values = f.right.items
		}
		for _, item := range values {
			v, err := e.evalValue(item)
			if err != nil {
				return false, err
			}
			if sameValue(l, v) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, errors.Wrapf(ErrEval, "cannot evaluate %s as a boolean", f.op)
}

// evalValue resolves an operand of a comparison. A symbol not bound in the
// state must be a declared enumeration literal, which evaluates to its own
// name.
func (e fixedEnv) evalValue(f *Formula) (string, error) {
	switch f.op {
	case OpConst:
		return f.name, nil
	case OpSymbol:
		if value, ok := e.state[f.name]; ok {
			return value, nil
		}
		if e.literals[f.name] {
			return f.name, nil
		}
		return "", errors.Wrapf(ErrEval, "unbound identifier %s", f.name)
	case OpSet:
		return "", errors.Wrap(ErrEval, "set used as a scalar")
	}
	v, err := e.evalBool(f)
	if err != nil {
		return "", err
	}
	if v {
		return "TRUE", nil
	}
	return "FALSE", nil
}

func (e fixedEnv) evalOrder(f *Formula) (bool, error) {
	var operands [2]int64
	for i, side := range []*Formula{f.left, f.right} {
		text, err := e.evalValue(side)
		if err != nil {
			return false, err
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return false, errors.Wrapf(ErrEval, "%s is not an integer", text)
		}
		operands[i] = n
	}
	l, r := operands[0], operands[1]
	switch f.op {
	case OpLess:
		return l < r, nil
	case OpLessEq:
		return l <= r, nil
	case OpGreater:
		return l > r, nil
	}
	return l >= r, nil
}

func sameValue(a, b string) bool {
	if a == b {
		return true
	}
	if isNumber(a) && isNumber(b) {
		x, errx := strconv.ParseInt(a, 10, 64)
		y, erry := strconv.ParseInt(b, 10, 64)
		return errx == nil && erry == nil && x == y
	}
	return false
}
