// Package prop 待验证的时序性质
package prop

import (
	"fmt"
	"strings"

	"nextce/internal/ltl"
	"nextce/internal/trace"

	"github.com/pkg/errors"
)

type Status int

const (
	StatusNoStatus Status = iota
	StatusUnchecked
	StatusTrue
	StatusFalse
)

var statusNames = map[Status]string{
	StatusNoStatus:  "NoStatus",
	StatusUnchecked: "Unchecked",
	StatusTrue:      "True",
	StatusFalse:     "False",
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
	return StatusNoStatus, errors.Errorf("unknown property status %q", text)
}

// Checked reports whether a verification verdict has been recorded.
func (s Status) Checked() bool {
	return s == StatusTrue || s == StatusFalse
}

type Kind int

const (
	KindLTL Kind = iota
	KindCTL
	KindInvar
)

func (k Kind) String() string {
	switch k {
	case KindLTL:
		return "LTL"
	case KindCTL:
		return "CTL"
	case KindInvar:
		return "Invar"
	}
	return fmt.Sprintf("Kind<%d>", int(k))
}

// Property is a specification together with its latest verdict. The
// formula is never modified; enumeration verifies derived properties.
type Property struct {
	index      int
	Name       string
	formula    *ltl.Formula
	Kind       Kind
	Status     Status
	Trace      *trace.Trace
	attachment interface{}
}

func New(formula *ltl.Formula, kind Kind, name string) *Property {
	return &Property{
		index:   -1,
		Name:    name,
		formula: formula,
		Kind:    kind,
		Status:  StatusUnchecked,
	}
}

// Index is the position of the property in its database, -1 if detached.
func (p *Property) Index() int {
	return p.index
}

func (p *Property) Formula() *ltl.Formula {
	return p.formula
}

// Derive returns a fresh, unchecked property of the same kind for formula.
func (p *Property) Derive(formula *ltl.Formula) *Property {
	return New(formula, p.Kind, p.Name)
}

// Attachment is an opaque slot owned by whoever enumerates the property.
func (p *Property) Attachment() interface{} {
	return p.attachment
}

func (p *Property) SetAttachment(v interface{}) {
	p.attachment = v
}

func (p *Property) String() string {
	name := p.Name
	if name == "" {
		name = "<noname>"
	}
	return fmt.Sprintf("[%d] %s %s: %s (%s)", p.index, p.Kind, name, p.formula, p.Status)
}
