package nextce

import (
	"fmt"
	"strings"

	"nextce/internal/ltl"
	"nextce/internal/prop"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Status of the enumeration of one property.
type Status int

const (
	// StatusFresh: never enumerated
	StatusFresh Status = iota
	// StatusExhausted: the augmented property holds, no witness is left
	StatusExhausted
	// StatusHasMore: the last round found a new witness
	StatusHasMore
	// StatusReset: cleared by the user, the next round starts from the
	// original formula
	StatusReset
)

var statusNames = map[Status]string{
	StatusFresh:     "Fresh",
	StatusExhausted: "Exhausted",
	StatusHasMore:   "HasMore",
	StatusReset:     "Reset",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status<%d>", int(s))
}

func ParseStatus(text string) (Status, error) {
	for status, name := range statusNames {
		if strings.EqualFold(name, text) {
			return status, nil
		}
	}
	return StatusFresh, errors.Errorf("unknown enumeration status %q", text)
}

// Record is the enumeration state attached to a property: the exclusion
// formulas of every witness found so far, in the order they were found.
type Record struct {
	status     Status
	exclusions []*ltl.Formula
}

func newRecord() *Record {
	return &Record{
		status:     StatusFresh,
		exclusions: make([]*ltl.Formula, 0),
	}
}

// RestoreRecord rebuilds a record saved by an earlier session.
func RestoreRecord(status Status, exclusions []*ltl.Formula) *Record {
	return &Record{
		status:     status,
		exclusions: slices.Clone(exclusions),
	}
}

func (r *Record) Status() Status {
	return r.status
}

func (r *Record) Exclusions() []*ltl.Formula {
	return slices.Clone(r.exclusions)
}

func (r *Record) Len() int {
	return len(r.exclusions)
}

func (r *Record) add(f *ltl.Formula) {
	r.exclusions = append(r.exclusions, f)
}

func (r *Record) clear() {
	r.exclusions = r.exclusions[:0]
	r.status = StatusReset
}

// truncate undoes the additions of a round that did not complete.
func (r *Record) truncate(n int) {
	if n < len(r.exclusions) {
		r.exclusions = r.exclusions[:n]
	}
}

// RecordOf returns the record attached to p, nil if p was never enumerated.
func RecordOf(p *prop.Property) *Record {
	rec, _ := p.Attachment().(*Record)
	return rec
}

func ensureRecord(p *prop.Property) *Record {
	if rec := RecordOf(p); rec != nil {
		return rec
	}
	rec := newRecord()
	p.SetAttachment(rec)
	return rec
}

// Attach sets the record of p, replacing any previous one.
func Attach(p *prop.Property, rec *Record) {
	p.SetAttachment(rec)
}
