package trace

import (
	"github.com/pkg/errors"
)

// Manager keeps every trace produced in a session and numbers them from 1,
// the way counterexamples are numbered on the console.
type Manager struct {
	traces []*Trace
}

func NewManager() *Manager {
	return &Manager{
		traces: make([]*Trace, 0),
	}
}

// Register assigns the next identifier to t and stores it.
func (m *Manager) Register(t *Trace) int {
	m.traces = append(m.traces, t)
	t.ID = len(m.traces)
	return t.ID
}

// Restore stores t under the identifier it already carries.
func (m *Manager) Restore(t *Trace) error {
	if t.ID <= 0 {
		return errors.Errorf("trace without identifier")
	}
	for len(m.traces) < t.ID {
		m.traces = append(m.traces, nil)
	}
	m.traces[t.ID-1] = t
	return nil
}

func (m *Manager) At(id int) (*Trace, error) {
	if id <= 0 || id > len(m.traces) || m.traces[id-1] == nil {
		return nil, errors.Errorf("no trace %d", id)
	}
	return m.traces[id-1], nil
}

func (m *Manager) Len() int {
	return len(m.traces)
}
