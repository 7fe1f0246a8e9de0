package nextce

import (
	"nextce/internal/ltl"
	"nextce/internal/prop"
	"nextce/internal/trace"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Synthesizer builds the exclusion formula of one equivalence class from
// the invariant of a property and the FIPATH of its latest counterexample.
type Synthesizer interface {
	Class() EquivalenceClass
	Synthesize(inv *ltl.Formula, fipath *trace.Trace) *ltl.Formula
}

var synthesizers = map[EquivalenceClass]Synthesizer{
	ClassPath:      pathSynth{},
	ClassLastTwo:   lastTwoSynth{},
	ClassFirstLast: firstLastSynth{},
	ClassLast:      lastSynth{},
}

// Synthesize builds the exclusion formula of class for the witness fipath of p.
func Synthesize(class EquivalenceClass, p *prop.Property, fipath *trace.Trace) (*ltl.Formula, error) {
	s, ok := synthesizers[class]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidClass, "%d", int(class))
	}
	if fipath == nil || fipath.IsEmpty() {
		return nil, ErrEmptyTrace
	}
	inv, err := Invariant(p.Formula())
	if err != nil {
		return nil, err
	}
	f := s.Synthesize(inv, fipath)
	log.Debugf("class %d exclusion for property [%d]: %s", class, p.Index(), f)
	return f, nil
}

// StateEq conjoins symbol = value over every symbol defined at step c of t.
// Nil when no symbol has a value there.
func StateEq(t *trace.Trace, c trace.Cursor) *ltl.Formula {
	var result *ltl.Formula
	for _, symbol := range t.Symbols() {
		value, ok := t.ValueOf(c, symbol)
		if !ok {
			continue
		}
		result = conjunct(result, ltl.Equal(ltl.Symbol(symbol), ltl.Value(value)))
	}
	return result
}

// conjunct is And with nil standing for an absent operand.
func conjunct(l, r *ltl.Formula) *ltl.Formula {
	switch {
	case l == nil:
		return r
	case r == nil:
		return l
	}
	return ltl.And(l, r)
}

// failing pins the violating last state of the fipath.
func failing(inv *ltl.Formula, fipath *trace.Trace) *ltl.Formula {
	return conjunct(ltl.Not(inv), StateEq(fipath, fipath.Last()))
}

type pathSynth struct{}

func (pathSynth) Class() EquivalenceClass { return ClassPath }

func (pathSynth) Synthesize(inv *ltl.Formula, fipath *trace.Trace) *ltl.Formula {
	result := failing(inv, fipath)
	for c := fipath.Prev(fipath.Last()); c.Valid(); c = fipath.Prev(c) {
		result = conjunct(StateEq(fipath, c), ltl.Until(inv, result))
	}
	return result
}

type lastTwoSynth struct{}

func (lastTwoSynth) Class() EquivalenceClass { return ClassLastTwo }

func (lastTwoSynth) Synthesize(inv *ltl.Formula, fipath *trace.Trace) *ltl.Formula {
	last := fipath.Last()
	prev := fipath.Prev(last)
	if !prev.Valid() {
		log.Warnf("single state witness, class %d exclusion degrades to class %d", ClassLastTwo, ClassLast)
		return lastSynth{}.Synthesize(inv, fipath)
	}
	var before *ltl.Formula
	if eq := StateEq(fipath, prev); eq != nil {
		before = ltl.Prev(eq)
	}
	result := conjunct(ltl.Not(inv), conjunct(before, StateEq(fipath, last)))
	return ltl.Until(inv, result)
}

type lastSynth struct{}

func (lastSynth) Class() EquivalenceClass { return ClassLast }

func (lastSynth) Synthesize(inv *ltl.Formula, fipath *trace.Trace) *ltl.Formula {
	return ltl.Until(inv, failing(inv, fipath))
}

type firstLastSynth struct{}

func (firstLastSynth) Class() EquivalenceClass { return ClassFirstLast }

func (firstLastSynth) Synthesize(inv *ltl.Formula, fipath *trace.Trace) *ltl.Formula {
	tail := lastSynth{}.Synthesize(inv, fipath)
	head := StateEq(fipath, fipath.First())
	if head == nil {
		log.Warnf("first state of the witness has no assignment, class %d exclusion degrades to class %d", ClassFirstLast, ClassLast)
		return tail
	}
	return conjunct(head, tail)
}
