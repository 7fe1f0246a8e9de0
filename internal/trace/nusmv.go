package trace

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

const loopMarker = "-- Loop starts here"

// ParseNuSMV reads a counterexample printed by NuSMV's basic trace plugin.
// NuSMV prints only the values that changed since the previous step, so
// values are carried forward. When symbols is empty every assigned name
// becomes a symbol of the trace, in order of first appearance; otherwise
// assignments to other names (defines, for instance) are dropped.
func ParseNuSMV(r io.Reader, description string, symbols []string) (*Trace, error) {
	var (
		scanner     = bufio.NewScanner(r)
		collect     = len(symbols) == 0
		known       = slices.Clone(symbols)
		current     = State{}
		steps       []State
		inStep      bool
		loopPending bool
		loop        = NoStep
	)
	flush := func() {
		steps = append(steps, current.Clone())
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "-> State:"):
			if inStep {
				flush()
			}
			inStep = true
			if loopPending {
				loop = Cursor(len(steps))
				loopPending = false
			}
		case strings.HasPrefix(line, "-> Input:"):
			if inStep {
				flush()
			}
			inStep = false
		case line == loopMarker:
			loopPending = true
		case strings.HasPrefix(line, "--"), line == "":
		default:
			name, value, ok := splitAssignment(line)
			if !ok {
				continue
			}
			if !slices.Contains(known, name) {
				if !collect {
					continue
				}
				known = append(known, name)
			}
			current[name] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read trace")
	}
	if inStep {
		flush()
	}
	if len(steps) == 0 {
		return nil, errors.New("no states in trace")
	}
	t := New(description, known)
	for _, step := range steps {
		t.AddStep(step)
	}
	t.MarkLoop(loop)
	return t, nil
}

func splitAssignment(line string) (string, string, bool) {
	idx := strings.Index(line, " = ")
	if idx <= 0 {
		return "", "", false
	}
	name := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+3:])
	if name == "" || value == "" || strings.ContainsAny(name, " :") {
		return "", "", false
	}
	return name, value, true
}

// Print writes t in the layout NuSMV uses. Unless verbose, a step lists only
// the symbols whose value changed.
func Print(w io.Writer, t *Trace, verbose bool) error {
	if _, err := fmt.Fprintf(w, "Trace Description: %s\nTrace Type: Counterexample\n", t.Description); err != nil {
		return errors.Wrap(err, "Fprintf")
	}
	var previous State
	for c := t.First(); c.Valid(); c = t.Next(c) {
		if c == t.loop {
			if _, err := fmt.Fprintf(w, "  %s\n", loopMarker); err != nil {
				return errors.Wrap(err, "Fprintf")
			}
		}
		if _, err := fmt.Fprintf(w, "  -> State: %d.%d <-\n", t.ID, int(c)+1); err != nil {
			return errors.Wrap(err, "Fprintf")
		}
		for _, symbol := range t.symbols {
			value, ok := t.ValueOf(c, symbol)
			if !ok {
				continue
			}
			if !verbose && previous != nil {
				if old, seen := previous[symbol]; seen && old == value {
					continue
				}
			}
			if _, err := fmt.Fprintf(w, "    %s = %s\n", symbol, value); err != nil {
				return errors.Wrap(err, "Fprintf")
			}
		}
		previous = t.steps[c]
	}
	return nil
}
