package nextce

import (
	"nextce/internal/ltl"

	"github.com/pkg/errors"
)

// Invariant extracts inv from a property of the form G inv, possibly
// wrapped in its module context. Any other shape is ErrShape.
func Invariant(f *ltl.Formula) (*ltl.Formula, error) {
	if f == nil {
		return nil, errors.Wrap(ErrShape, "no formula")
	}
	switch f.Op() {
	case ltl.OpContext:
		if body := f.Left(); body != nil && body.Op() == ltl.OpGlobally {
			return body.Left(), nil
		}
	case ltl.OpGlobally:
		return f.Left(), nil
	}
	return nil, errors.Wrapf(ErrShape, "%s", f)
}
