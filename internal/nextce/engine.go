// Package nextce 反例枚举: 每找到一个反例就把它的排除公式析取进性质, 迫使下一轮验证给出不同的反例
package nextce

import (
	"context"
	"io"

	"nextce/internal/checker"
	"nextce/internal/ltl"
	"nextce/internal/prop"
	"nextce/internal/report"
	"nextce/internal/strategy"
	"nextce/internal/trace"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Engine drives counterexample enumeration over the properties of a database.
// It is not safe for concurrent use.
type Engine struct {
	config   *Config
	db       *prop.Database
	verifier checker.Verifier
	locator  *Locator
	traces   *trace.Manager
	reporter *report.Reporter
}

func NewEngine(config *Config, db *prop.Database, verifier checker.Verifier, locator *Locator, traces *trace.Manager, reporter *report.Reporter) *Engine {
	if config == nil {
		config = NewConfig()
	}
	if traces == nil {
		traces = trace.NewManager()
	}
	if reporter == nil {
		reporter = report.New(io.Discard, false).Plain()
	}
	return &Engine{
		config:   config,
		db:       db,
		verifier: verifier,
		locator:  locator,
		traces:   traces,
		reporter: reporter,
	}
}

func (e *Engine) Config() *Config {
	return e.config
}

func (e *Engine) Traces() *trace.Manager {
	return e.traces
}

// ComputeNextFormula returns the formula the next round has to verify for p,
// or nil when p has no counterexample left.
func (e *Engine) ComputeNextFormula(ctx context.Context, p *prop.Property) (*ltl.Formula, error) {
	rec := RecordOf(p)
	if rec != nil && rec.status == StatusReset {
		log.Debugf("property [%d] was reset, verifying the original formula", p.Index())
		return p.Formula(), nil
	}
	if !p.Status.Checked() {
		log.Debugf("property [%d] was never checked, verifying the original formula", p.Index())
		return p.Formula(), nil
	}
	if rec != nil && rec.status == StatusExhausted {
		return nil, nil
	}
	if p.Status == prop.StatusTrue {
		return nil, nil
	}
	if p.Trace == nil {
		return nil, errors.Wrapf(ErrNoTrace, "property [%d]", p.Index())
	}

	fipath, err := e.locator.Extract(ctx, p, p.Trace)
	if err != nil {
		return nil, errors.Wrapf(err, "property [%d]", p.Index())
	}
	log.Debugf("property [%d]: fipath of trace %d has %d of %d steps", p.Index(), p.Trace.ID, fipath.Len(), p.Trace.Len())
	exclusion, err := Synthesize(e.config.Class(), p, fipath)
	if err != nil {
		return nil, errors.Wrapf(err, "property [%d]", p.Index())
	}
	rec = ensureRecord(p)
	rec.add(exclusion)
	return augment(p.Formula(), rec.exclusions), nil
}

// augment builds original | e1 | ... | en, in that order.
func augment(original *ltl.Formula, exclusions []*ltl.Formula) *ltl.Formula {
	result := original
	for _, ex := range exclusions {
		result = ltl.Or(result, ex)
	}
	return result
}

// Advance runs one enumeration round on p and reports whether a new
// counterexample was found. A failed round leaves p as it was.
func (e *Engine) Advance(ctx context.Context, p *prop.Property) (bool, error) {
	before := RecordOf(p)
	n := 0
	if before != nil {
		n = before.Len()
	}
	rollback := func() {
		if before == nil {
			p.SetAttachment(nil)
			return
		}
		before.truncate(n)
	}

	f, err := e.ComputeNextFormula(ctx, p)
	if err != nil {
		rollback()
		return false, err
	}
	if f == nil {
		return false, e.reporter.NoMore(p)
	}

	tmp := p.Derive(f)
	if err := e.verifier.Verify(ctx, tmp); err != nil {
		rollback()
		return false, errors.Wrapf(err, "verify property [%d]", p.Index())
	}
	if !tmp.Status.Checked() {
		rollback()
		return false, errors.Wrapf(ErrInconclusive, "property [%d]: %s", p.Index(), tmp.Status)
	}
	if tmp.Status == prop.StatusFalse && tmp.Trace == nil {
		rollback()
		return false, errors.Wrapf(ErrNoTrace, "verify property [%d]", p.Index())
	}

	// state is committed before anything is printed
	baseline := f == p.Formula()
	if baseline {
		p.Status = tmp.Status
	}
	rec := ensureRecord(p)
	if tmp.Status == prop.StatusTrue {
		rec.status = StatusExhausted
		log.Debugf("property [%d] exhausted after %d exclusions", p.Index(), rec.Len())
		if baseline {
			if err := e.reporter.Verdict(p); err != nil {
				return false, err
			}
		}
		return false, e.reporter.NoMore(p)
	}

	rec.status = StatusHasMore
	e.traces.Register(tmp.Trace)
	p.Trace = tmp.Trace
	if baseline {
		if err := e.reporter.Verdict(p); err != nil {
			return true, err
		}
	}
	return true, e.reporter.Counterexample(p, rec.Len()+1, p.Trace)
}

// Reset discards the exclusions of p; its next round verifies the original
// formula again.
func (e *Engine) Reset(p *prop.Property) {
	rec := ensureRecord(p)
	rec.clear()
	log.Debugf("property [%d] reset", p.Index())
}

func (e *Engine) ResetAll() {
	for _, p := range e.db.All() {
		e.Reset(p)
	}
}

// SetClass changes the equivalence class, resetting every property first.
func (e *Engine) SetClass(class EquivalenceClass) error {
	return e.config.SetClass(class, e.ResetAll)
}

// RunToExhaustion advances p until no counterexample is left and returns the
// number of counterexamples found.
func (e *Engine) RunToExhaustion(ctx context.Context, p *prop.Property) (int, error) {
	found := 0
	for {
		more, err := e.Advance(ctx, p)
		if err != nil {
			return found, err
		}
		if !more {
			return found, nil
		}
		found++
	}
}

// Check verifies the selected properties that have no verdict yet and
// prints every verdict.
func (e *Engine) Check(ctx context.Context, sel prop.Selector) error {
	props, err := e.db.Select(sel)
	if err != nil {
		return err
	}
	for _, p := range props {
		if !p.Status.Checked() {
			if err := e.verifier.Verify(ctx, p); err != nil {
				return errors.Wrapf(err, "verify property [%d]", p.Index())
			}
			if p.Status == prop.StatusFalse && p.Trace != nil {
				e.traces.Register(p.Trace)
			}
		}
		if err := e.reporter.Verdict(p); err != nil {
			return err
		}
	}
	return nil
}

// NextCE runs one round on every selected property. A property that fails
// does not stop the others; the first error is returned.
func (e *Engine) NextCE(ctx context.Context, sel prop.Selector) error {
	props, err := e.db.Select(sel)
	if err != nil {
		return err
	}
	var first error
	for _, p := range props {
		if _, err := e.Advance(ctx, p); err != nil {
			log.Errorf("next counterexample of property [%d]: %v", p.Index(), err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (e *Engine) ResetCE(sel prop.Selector) error {
	props, err := e.db.Select(sel)
	if err != nil {
		return err
	}
	for _, p := range props {
		e.Reset(p)
	}
	return nil
}

// ComputeAll prints every remaining counterexample of the selected
// properties, scheduling rounds with s.
func (e *Engine) ComputeAll(ctx context.Context, sel prop.Selector, s strategy.Strategy) error {
	props, err := e.db.Select(sel)
	if err != nil {
		return err
	}
	if err := s.Push(props...); err != nil {
		return err
	}
	var first error
	for s.HasNext() {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := s.Pop()
		if err != nil {
			return err
		}
		more, err := e.Advance(ctx, p)
		if err != nil {
			log.Errorf("compute all counterexamples of property [%d]: %v", p.Index(), err)
			if first == nil {
				first = err
			}
			continue
		}
		if more {
			if err := s.Push(p); err != nil {
				return err
			}
		}
	}
	return first
}
