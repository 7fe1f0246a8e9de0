// Package report 控制台输出
package report

import (
	"fmt"
	"io"

	"nextce/internal/prop"
	"nextce/internal/trace"

	"github.com/pkg/errors"
)

const (
	red    = 31
	green  = 32
	yellow = 33
	cyan   = 36
)

// Reporter prints verdicts and counterexamples the way the model checker
// does, with coloured headers.
type Reporter struct {
	w       io.Writer
	verbose bool
	colour  bool
}

func New(w io.Writer, verbose bool) *Reporter {
	return &Reporter{
		w:       w,
		verbose: verbose,
		colour:  true,
	}
}

// Plain disables colour escapes.
func (r *Reporter) Plain() *Reporter {
	r.colour = false
	return r
}

func (r *Reporter) paint(code int, s string) string {
	if !r.colour {
		return s
	}
	return Colour(code, s)
}

// Counterexample prints round n of the enumeration of p with trace t.
func (r *Reporter) Counterexample(p *prop.Property, round int, t *trace.Trace) error {
	header := fmt.Sprintf("-- counterexample #%d of property [%d] %s\n", round, p.Index(), p.Formula())
	if _, err := fmt.Fprint(r.w, r.paint(red, header)); err != nil {
		return errors.Wrap(err, "Fprint")
	}
	return trace.Print(r.w, t, r.verbose)
}

func (r *Reporter) Verdict(p *prop.Property) error {
	code := yellow
	if p.Status == prop.StatusTrue {
		code = green
	}
	return r.Printf("%s", r.paint(code, fmt.Sprintf("-- specification %s is %s\n", p.Formula(), p.Status)))
}

func (r *Reporter) NoMore(p *prop.Property) error {
	return r.Printf("%s\n", r.paint(cyan, fmt.Sprintf("No more counterexamples for property [%d]", p.Index())))
}

func (r *Reporter) Printf(format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		return errors.Wrap(err, "Fprintf")
	}
	return nil
}

func Colour(color int, str string) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, str)
}
