package store

import (
	"testing"

	"nextce/internal/ltl"
	"nextce/internal/nextce"
	"nextce/internal/prop"
	"nextce/internal/trace"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDatabase() *prop.Database {
	db := prop.NewDatabase()
	db.Add(prop.New(ltl.Context("", ltl.Globally(ltl.MustParse("x < 3"))), prop.KindLTL, "bounded"))
	db.Add(prop.New(ltl.Context("", ltl.Globally(ltl.MustParse("mode != err"))), prop.KindLTL, ""))
	return db
}

func sampleTrace() *trace.Trace {
	t := trace.New("LTL Counterexample", []string{"x", "mode"})
	t.AddStep(trace.State{"x": "0", "mode": "idle"})
	t.AddStep(trace.State{"x": "3", "mode": "busy"})
	t.MarkLoop(1)
	t.ID = 4
	return t
}

func Test_SaveLoad(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Load("missing")
	assert.True(t, errors.Is(err, ErrNoSession))

	db := newDatabase()
	p, _ := db.At(0)
	p.Status = prop.StatusFalse
	p.Trace = sampleTrace()
	exclusion := ltl.MustParse("((x < 3) U (!(x < 3) & ((x = 3) & (mode = busy))))")
	nextce.Attach(p, nextce.RestoreRecord(nextce.StatusHasMore, []*ltl.Formula{exclusion}))

	cfg := nextce.NewConfig()
	require.NoError(t, cfg.Restore(nextce.ClassLast))

	require.NoError(t, s.Save("session:model.smv", Capture("abc", cfg, db)))
	loaded, err := s.Load("session:model.smv")
	require.NoError(t, err)
	assert.Equal(t, "abc", loaded.Fingerprint)
	assert.Equal(t, 4, loaded.EquivalenceClass)
	require.Len(t, loaded.Properties, 2)

	fresh := newDatabase()
	freshCfg := nextce.NewConfig()
	traces := trace.NewManager()
	require.NoError(t, loaded.Apply("abc", freshCfg, fresh, traces))

	assert.Equal(t, nextce.ClassLast, freshCfg.Class())
	q, _ := fresh.At(0)
	assert.Equal(t, prop.StatusFalse, q.Status)
	require.NotNil(t, q.Trace)
	assert.Equal(t, 2, q.Trace.Len())
	assert.Equal(t, trace.Cursor(1), q.Trace.Loop())
	assert.Equal(t, trace.State{"x": "3", "mode": "busy"}, q.Trace.State(1))
	restoredTrace, err := traces.At(4)
	require.NoError(t, err)
	assert.Same(t, q.Trace, restoredTrace)

	rec := nextce.RecordOf(q)
	require.NotNil(t, rec)
	assert.Equal(t, nextce.StatusHasMore, rec.Status())
	require.Equal(t, 1, rec.Len())
	assert.True(t, ltl.Equivalent(exclusion, rec.Exclusions()[0]))

	other, _ := fresh.At(1)
	assert.Equal(t, prop.StatusUnchecked, other.Status)
	assert.Nil(t, nextce.RecordOf(other))

	require.NoError(t, s.Delete("session:model.smv"))
	_, err = s.Load("session:model.smv")
	assert.True(t, errors.Is(err, ErrNoSession))
}

func Test_ApplyStale(t *testing.T) {
	db := newDatabase()
	session := Capture("abc", nextce.NewConfig(), db)

	testCases := []struct {
		name        string
		fingerprint string
		db          *prop.Database
	}{
		{"fingerprint", "def", newDatabase()},
		{"fewer properties", "abc", func() *prop.Database {
			d := prop.NewDatabase()
			d.Add(prop.New(ltl.Context("", ltl.Globally(ltl.MustParse("x < 3"))), prop.KindLTL, "bounded"))
			return d
		}()},
		{"renamed", "abc", func() *prop.Database {
			d := newDatabase()
			p, _ := d.At(0)
			p.Name = "other"
			return d
		}()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := nextce.NewConfig()
			err := session.Apply(tc.fingerprint, cfg, tc.db, trace.NewManager())
			assert.True(t, errors.Is(err, ErrStale))
			for _, p := range tc.db.All() {
				assert.Equal(t, prop.StatusUnchecked, p.Status)
			}
		})
	}
}
