package smt

import (
	"fmt"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
)

type Solver struct {
	ctx yices2.ContextT
}

func NewSolver() *Solver {
	s := &Solver{
		ctx: yices2.ContextT{},
	}
	yices2.InitContext(yices2.ConfigT{}, &s.ctx)
	return s
}

// Check decides the conjunction of terms in a pushed scope, so the context
// is unchanged afterwards.
func (s *Solver) Check(terms ...yices2.TermT) (yices2.SmtStatusT, error) {
	yices2.Push(s.ctx)
	defer yices2.Pop(s.ctx)

	errorcode := yices2.AssertFormulas(s.ctx, terms)
	if errorcode < 0 {
		return yices2.StatusError, fmt.Errorf("%s", yices2.ErrorString())
	}
	status := yices2.CheckContext(s.ctx, yices2.ParamT{})
	switch status {
	case yices2.StatusSat, yices2.StatusUnsat:
		return status, nil
	case yices2.StatusIdle:
		fallthrough
	case yices2.StatusSearching:
		fallthrough
	case yices2.StatusInterrupted:
		fallthrough
	case yices2.StatusError:
		return status, fmt.Errorf("solver stopped with status %v: %s", status, yices2.ErrorString())
	}
	return yices2.StatusError, fmt.Errorf("unexpected solver status %v", status)
}

func (s *Solver) GetContext() yices2.ContextT {
	return s.ctx
}
