package store

import (
	"nextce/internal/ltl"
	"nextce/internal/nextce"
	"nextce/internal/prop"
	"nextce/internal/trace"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrStale marks a session saved for a different model.
var ErrStale = errors.New("session does not match the model")

// Session is the persisted state of every property of one model.
type Session struct {
	Fingerprint      string          `json:"fingerprint"`
	EquivalenceClass int             `json:"equivalence_class"`
	Properties       []PropertyState `json:"properties"`
}

type PropertyState struct {
	Index   int            `json:"index"`
	Name    string         `json:"name"`
	Formula string         `json:"formula"`
	Status  string         `json:"status"`
	Trace   *TraceSnapshot `json:"trace,omitempty"`
	Record  *RecordState   `json:"record,omitempty"`
}

type TraceSnapshot struct {
	ID          int                 `json:"id"`
	Description string              `json:"description"`
	Symbols     []string            `json:"symbols"`
	Steps       []map[string]string `json:"steps"`
	Loop        int                 `json:"loop"`
}

type RecordState struct {
	Status     string   `json:"status"`
	Exclusions []string `json:"exclusions"`
}

// Capture snapshots the class and every property of db.
func Capture(fingerprint string, cfg *nextce.Config, db *prop.Database) *Session {
	session := &Session{
		Fingerprint:      fingerprint,
		EquivalenceClass: int(cfg.Class()),
		Properties:       make([]PropertyState, 0, db.Len()),
	}
	for _, p := range db.All() {
		state := PropertyState{
			Index:   p.Index(),
			Name:    p.Name,
			Formula: p.Formula().String(),
			Status:  p.Status.String(),
		}
		if p.Trace != nil {
			state.Trace = snapshot(p.Trace)
		}
		if rec := nextce.RecordOf(p); rec != nil {
			state.Record = &RecordState{
				Status:     rec.Status().String(),
				Exclusions: make([]string, 0, rec.Len()),
			}
			for _, ex := range rec.Exclusions() {
				state.Record.Exclusions = append(state.Record.Exclusions, ex.String())
			}
		}
		session.Properties = append(session.Properties, state)
	}
	return session
}

func snapshot(t *trace.Trace) *TraceSnapshot {
	s := &TraceSnapshot{
		ID:          t.ID,
		Description: t.Description,
		Symbols:     t.Symbols(),
		Steps:       make([]map[string]string, 0, t.Len()),
		Loop:        int(t.Loop()),
	}
	for c := t.First(); c.Valid(); c = t.Next(c) {
		s.Steps = append(s.Steps, t.State(c))
	}
	return s
}

func (s *TraceSnapshot) restore() *trace.Trace {
	t := trace.New(s.Description, s.Symbols)
	t.ID = s.ID
	for _, step := range s.Steps {
		t.AddStep(step)
	}
	t.MarkLoop(trace.Cursor(s.Loop))
	return t
}

// Apply restores the session onto a freshly loaded model. Nothing is
// changed when the session was saved for another model.
func (s *Session) Apply(fingerprint string, cfg *nextce.Config, db *prop.Database, traces *trace.Manager) error {
	if s.Fingerprint != fingerprint {
		return errors.Wrap(ErrStale, "fingerprint changed")
	}
	if len(s.Properties) != db.Len() {
		return errors.Wrapf(ErrStale, "%d properties saved, %d in the model", len(s.Properties), db.Len())
	}
	type restored struct {
		status prop.Status
		trace  *trace.Trace
		record *nextce.Record
	}
	pending := make(map[int]restored, len(s.Properties))
	for _, state := range s.Properties {
		p, err := db.At(state.Index)
		if err != nil {
			return errors.Wrap(ErrStale, err.Error())
		}
		if p.Name != state.Name || p.Formula().String() != state.Formula {
			return errors.Wrapf(ErrStale, "property [%d] changed", state.Index)
		}
		var r restored
		if r.status, err = prop.ParseStatus(state.Status); err != nil {
			return err
		}
		if state.Trace != nil {
			r.trace = state.Trace.restore()
		}
		if state.Record != nil {
			if r.record, err = state.Record.restore(); err != nil {
				return errors.Wrapf(err, "property [%d]", state.Index)
			}
		}
		pending[state.Index] = r
	}
	if err := cfg.Restore(nextce.EquivalenceClass(s.EquivalenceClass)); err != nil {
		return err
	}

	indexes := maps.Keys(pending)
	slices.Sort(indexes)
	for _, index := range indexes {
		r := pending[index]
		p, _ := db.At(index)
		p.Status = r.status
		p.Trace = r.trace
		if r.record != nil {
			nextce.Attach(p, r.record)
		}
		if r.trace != nil && r.trace.ID > 0 {
			if err := traces.Restore(r.trace); err != nil {
				return err
			}
		}
	}
	log.Debugf("restored session of %d properties, equivalence class %d", len(indexes), s.EquivalenceClass)
	return nil
}

func (r *RecordState) restore() (*nextce.Record, error) {
	status, err := nextce.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	exclusions := make([]*ltl.Formula, 0, len(r.Exclusions))
	for _, text := range r.Exclusions {
		f, err := ltl.Parse(text)
		if err != nil {
			return nil, errors.Wrap(err, "exclusion")
		}
		exclusions = append(exclusions, f)
	}
	return nextce.RestoreRecord(status, exclusions), nil
}
