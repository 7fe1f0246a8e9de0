package nextce

import (
	"context"

	"nextce/internal/checker"
	"nextce/internal/ltl"
	"nextce/internal/prop"
	"nextce/internal/trace"

	"github.com/pkg/errors"
)

type initMap map[string]*ltl.Formula

func (m initMap) InitValue(symbol string) (*ltl.Formula, bool) {
	f, ok := m[symbol]
	return f, ok
}

// verdict is one scripted answer of fakeVerifier.
type verdict struct {
	status prop.Status
	trace  *trace.Trace
	err    error
}

type fakeVerifier struct {
	verdicts []verdict
	verified []*ltl.Formula
}

func (v *fakeVerifier) Verify(_ context.Context, p *prop.Property) error {
	v.verified = append(v.verified, p.Formula())
	if len(v.verdicts) == 0 {
		return errors.New("no scripted verdict")
	}
	next := v.verdicts[0]
	v.verdicts = v.verdicts[1:]
	if next.err != nil {
		return next.err
	}
	p.Status = next.status
	p.Trace = next.trace
	return nil
}

var _ checker.Verifier = (*fakeVerifier)(nil)

// counterTrace builds a trace over x and mode, one step per x value.
func counterTrace(xs ...string) *trace.Trace {
	t := trace.New("LTL Counterexample", []string{"x", "mode"})
	for i, x := range xs {
		mode := "idle"
		if i%2 == 1 {
			mode = "busy"
		}
		t.AddStep(trace.State{"x": x, "mode": mode})
	}
	return t
}

// invariantProp is G x < 3 in the main module.
func invariantProp() *prop.Property {
	return prop.New(ltl.Context("", ltl.Globally(ltl.MustParse("x < 3"))), prop.KindLTL, "bounded")
}

func newLocator() *Locator {
	return NewLocator(checker.NewExplicit("idle", "busy"), initMap{"x": ltl.Const("0")})
}
