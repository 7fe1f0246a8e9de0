package nextce

import (
	"context"

	"nextce/internal/prop"
	"nextce/internal/trace"

	"github.com/pkg/errors"
)

const fipathDescription = "FIPATH"

// Extract copies the part of t running from the last initial state up to and
// including the first violation of the invariant of p. t is left untouched.
func (l *Locator) Extract(ctx context.Context, p *prop.Property, t *trace.Trace) (*trace.Trace, error) {
	until, err := l.FindTruncationStep(ctx, p, t)
	if err != nil {
		return nil, err
	}
	from, err := l.FindInitStep(ctx, p, t, until)
	if err != nil {
		return nil, err
	}
	fipath, err := t.Copy(from, until)
	if err != nil {
		return nil, errors.Wrap(err, "fipath")
	}
	fipath.Description = fipathDescription
	return fipath, nil
}
