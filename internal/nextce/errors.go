package nextce

import (
	"github.com/pkg/errors"
)

var (
	ErrShape        = errors.New("property is not a global invariant")
	ErrEmptyTrace   = errors.New("trace has no steps")
	ErrNoTrace      = errors.New("property has no counterexample trace")
	ErrInvalidClass = errors.New("equivalence class must be between 1 and 4")
	ErrInconclusive = errors.New("verification was inconclusive")
)
