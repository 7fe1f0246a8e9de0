package nextce

import (
	"bytes"
	"context"
	"io"
	"testing"

	"nextce/internal/ltl"
	"nextce/internal/prop"
	"nextce/internal/report"
	"nextce/internal/strategy"
	"nextce/internal/trace"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(v *fakeVerifier, props ...*prop.Property) (*Engine, *prop.Database, *bytes.Buffer) {
	db := prop.NewDatabase()
	for _, p := range props {
		db.Add(p)
	}
	out := &bytes.Buffer{}
	e := NewEngine(NewConfig(), db, v, newLocator(), trace.NewManager(), report.New(out, false).Plain())
	return e, db, out
}

// falsified returns the invariant property already checked false with a
// counterexample over xs.
func falsified(xs ...string) *prop.Property {
	p := invariantProp()
	p.Status = prop.StatusFalse
	p.Trace = counterTrace(xs...)
	return p
}

func Test_ComputeNextFormula_Unchecked(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(&fakeVerifier{}, invariantProp())
	p, _ := e.db.At(0)

	f, err := e.ComputeNextFormula(ctx, p)
	require.NoError(t, err)
	assert.Same(t, p.Formula(), f)
	assert.Nil(t, RecordOf(p))
}

func Test_ComputeNextFormula_Augments(t *testing.T) {
	ctx := context.Background()
	p := falsified("0", "1", "3")
	e, _, _ := newTestEngine(&fakeVerifier{}, p)

	f, err := e.ComputeNextFormula(ctx, p)
	require.NoError(t, err)
	rec := RecordOf(p)
	require.NotNil(t, rec)
	require.Equal(t, 1, rec.Len())
	assert.Equal(t, ltl.OpOr, f.Op())
	assert.Same(t, p.Formula(), f.Left())
	assert.Same(t, rec.Exclusions()[0], f.Right())

	p.Trace = counterTrace("0", "4")
	f, err = e.ComputeNextFormula(ctx, p)
	require.NoError(t, err)
	require.Equal(t, 2, rec.Len())
	assert.Same(t, p.Formula(), f.Left().Left())
	assert.Same(t, rec.Exclusions()[0], f.Left().Right())
	assert.Same(t, rec.Exclusions()[1], f.Right())
}

func Test_ComputeNextFormula_Terminal(t *testing.T) {
	ctx := context.Background()

	holds := invariantProp()
	holds.Status = prop.StatusTrue
	noTrace := invariantProp()
	noTrace.Status = prop.StatusFalse
	e, _, _ := newTestEngine(&fakeVerifier{}, holds, noTrace)

	f, err := e.ComputeNextFormula(ctx, holds)
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = e.ComputeNextFormula(ctx, noTrace)
	assert.True(t, errors.Is(err, ErrNoTrace))
	assert.Nil(t, RecordOf(noTrace))

	shape := falsified("0", "5")
	shape = shape.Derive(ltl.MustParse("F (x < 3)"))
	shape.Status = prop.StatusFalse
	shape.Trace = counterTrace("0", "5")
	_, err = e.ComputeNextFormula(ctx, shape)
	assert.True(t, errors.Is(err, ErrShape))
	assert.Nil(t, RecordOf(shape))
}

func Test_Advance_HasMoreThenExhausted(t *testing.T) {
	ctx := context.Background()
	p := falsified("0", "1", "3")
	second := counterTrace("0", "2", "7")
	v := &fakeVerifier{verdicts: []verdict{
		{status: prop.StatusFalse, trace: second},
		{status: prop.StatusTrue},
	}}
	e, _, out := newTestEngine(v, p)
	original := p.Formula()

	more, err := e.Advance(ctx, p)
	require.NoError(t, err)
	assert.True(t, more)
	rec := RecordOf(p)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Len())
	assert.Equal(t, StatusHasMore, rec.Status())
	assert.Same(t, second, p.Trace)
	assert.Equal(t, 1, second.ID)
	assert.Equal(t, prop.StatusFalse, p.Status)
	assert.Same(t, original, p.Formula())
	assert.Contains(t, out.String(), "-- counterexample #2 of property [0]")

	more, err = e.Advance(ctx, p)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, StatusExhausted, rec.Status())
	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, prop.StatusFalse, p.Status)
	assert.Contains(t, out.String(), "No more counterexamples for property [0]")
	assert.Len(t, v.verified, 2)

	// exhausted is terminal until reset
	for i := 0; i < 3; i++ {
		more, err = e.Advance(ctx, p)
		require.NoError(t, err)
		assert.False(t, more)
	}
	assert.Len(t, v.verified, 2)
	assert.Equal(t, 2, rec.Len())
}

func Test_Advance_Baseline(t *testing.T) {
	ctx := context.Background()
	p := invariantProp()
	cex := counterTrace("0", "9")
	v := &fakeVerifier{verdicts: []verdict{
		{status: prop.StatusFalse, trace: cex},
		{status: prop.StatusTrue},
	}}
	e, _, out := newTestEngine(v, p)

	more, err := e.Advance(ctx, p)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Same(t, p.Formula(), v.verified[0])
	assert.Equal(t, prop.StatusFalse, p.Status)
	assert.Same(t, cex, p.Trace)
	rec := RecordOf(p)
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.Len())
	assert.Equal(t, StatusHasMore, rec.Status())
	assert.Contains(t, out.String(), "is False")
	assert.Contains(t, out.String(), "-- counterexample #1 of property [0]")

	n, err := e.RunToExhaustion(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, StatusExhausted, rec.Status())
	assert.Equal(t, 1, rec.Len())
}

type closedWriter struct{}

func (closedWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func Test_Advance_OutputError(t *testing.T) {
	ctx := context.Background()
	p := invariantProp()
	cex := counterTrace("0", "9")
	v := &fakeVerifier{verdicts: []verdict{{status: prop.StatusFalse, trace: cex}}}
	db := prop.NewDatabase()
	db.Add(p)
	e := NewEngine(NewConfig(), db, v, newLocator(), trace.NewManager(), report.New(closedWriter{}, false))

	more, err := e.Advance(ctx, p)
	assert.True(t, more)
	assert.True(t, errors.Is(err, io.ErrClosedPipe))
	// the round itself is kept
	assert.Equal(t, prop.StatusFalse, p.Status)
	assert.Same(t, cex, p.Trace)
	rec := RecordOf(p)
	require.NotNil(t, rec)
	assert.Equal(t, StatusHasMore, rec.Status())
	assert.Equal(t, 1, e.Traces().Len())
}

func Test_Advance_Rollback(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name string
		v    verdict
		err  error
	}{
		{"checker failure", verdict{err: errors.New("out of memory")}, nil},
		{"inconclusive", verdict{status: prop.StatusNoStatus}, ErrInconclusive},
		{"false without trace", verdict{status: prop.StatusFalse}, ErrNoTrace},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := falsified("0", "1", "3")
			cex := p.Trace
			v := &fakeVerifier{verdicts: []verdict{tc.v}}
			e, _, _ := newTestEngine(v, p)

			more, err := e.Advance(ctx, p)
			require.Error(t, err)
			if tc.err != nil {
				assert.True(t, errors.Is(err, tc.err))
			}
			assert.False(t, more)
			assert.Nil(t, RecordOf(p))
			assert.Same(t, cex, p.Trace)
			assert.Equal(t, prop.StatusFalse, p.Status)
		})
	}

	p := falsified("0", "1", "3")
	v := &fakeVerifier{verdicts: []verdict{
		{status: prop.StatusFalse, trace: counterTrace("0", "5")},
		{err: errors.New("killed")},
	}}
	e, _, _ := newTestEngine(v, p)
	_, err := e.Advance(ctx, p)
	require.NoError(t, err)
	_, err = e.Advance(ctx, p)
	require.Error(t, err)
	rec := RecordOf(p)
	assert.Equal(t, 1, rec.Len())
	assert.Equal(t, StatusHasMore, rec.Status())
}

func Test_Reset(t *testing.T) {
	ctx := context.Background()
	p := falsified("0", "1", "3")
	original := p.Formula()
	originalText := original.String()
	v := &fakeVerifier{verdicts: []verdict{
		{status: prop.StatusFalse, trace: counterTrace("0", "4")},
		{status: prop.StatusFalse, trace: counterTrace("0", "0", "5")},
	}}
	e, _, _ := newTestEngine(v, p)

	for i := 0; i < 2; i++ {
		more, err := e.Advance(ctx, p)
		require.NoError(t, err)
		require.True(t, more)
	}
	rec := RecordOf(p)
	require.Equal(t, 2, rec.Len())

	e.Reset(p)
	assert.Equal(t, StatusReset, rec.Status())
	assert.Equal(t, 0, rec.Len())

	for i := 0; i < 2; i++ {
		f, err := e.ComputeNextFormula(ctx, p)
		require.NoError(t, err)
		assert.Same(t, original, f)
		assert.Equal(t, originalText, f.String())
		assert.Equal(t, 0, rec.Len())
	}

	fresh := invariantProp()
	e.Reset(fresh)
	require.NotNil(t, RecordOf(fresh))
	assert.Equal(t, StatusReset, RecordOf(fresh).Status())
}

func Test_Reset_VerifiesOriginal(t *testing.T) {
	ctx := context.Background()
	p := falsified("0", "1", "3")
	v := &fakeVerifier{verdicts: []verdict{
		{status: prop.StatusTrue},
		{status: prop.StatusFalse, trace: counterTrace("0", "6")},
	}}
	e, _, _ := newTestEngine(v, p)

	more, err := e.Advance(ctx, p)
	require.NoError(t, err)
	require.False(t, more)
	require.Equal(t, StatusExhausted, RecordOf(p).Status())

	e.Reset(p)
	more, err = e.Advance(ctx, p)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Same(t, p.Formula(), v.verified[1])
	assert.Equal(t, StatusHasMore, RecordOf(p).Status())
	assert.Equal(t, 0, RecordOf(p).Len())
}

func Test_SetClass_ResetsEveryProperty(t *testing.T) {
	ctx := context.Background()
	a := falsified("0", "1", "3")
	b := falsified("0", "5")
	c := invariantProp()
	v := &fakeVerifier{verdicts: []verdict{
		{status: prop.StatusFalse, trace: counterTrace("0", "4")},
		{status: prop.StatusFalse, trace: counterTrace("0", "8")},
	}}
	e, _, _ := newTestEngine(v, a, b, c)

	for _, p := range []*prop.Property{a, b} {
		more, err := e.Advance(ctx, p)
		require.NoError(t, err)
		require.True(t, more)
		require.Equal(t, 1, RecordOf(p).Len())
	}

	require.NoError(t, e.SetClass(ClassLast))
	assert.Equal(t, ClassLast, e.Config().Class())
	for _, p := range []*prop.Property{a, b, c} {
		rec := RecordOf(p)
		require.NotNil(t, rec)
		assert.Equal(t, StatusReset, rec.Status())
		assert.Equal(t, 0, rec.Len())
	}

	err := e.SetClass(EquivalenceClass(0))
	assert.True(t, errors.Is(err, ErrInvalidClass))
	assert.Equal(t, ClassLast, e.Config().Class())
}

func Test_Advance_MonotonicExclusions(t *testing.T) {
	ctx := context.Background()
	p := falsified("0", "3")
	verdicts := make([]verdict, 0)
	for _, x := range []string{"4", "5", "6", "7"} {
		verdicts = append(verdicts, verdict{status: prop.StatusFalse, trace: counterTrace("0", "1", x)})
	}
	verdicts = append(verdicts, verdict{status: prop.StatusTrue})
	e, _, _ := newTestEngine(&fakeVerifier{verdicts: verdicts}, p)

	last := 0
	for {
		more, err := e.Advance(ctx, p)
		require.NoError(t, err)
		n := RecordOf(p).Len()
		assert.GreaterOrEqual(t, n, last)
		last = n
		if !more {
			break
		}
	}
	assert.Equal(t, 5, last)
}

func Test_NextCE_Selectors(t *testing.T) {
	ctx := context.Background()
	a := falsified("0", "1", "3")
	a.Name = "a"
	b := falsified("0", "5")
	b.Name = "b"
	v := &fakeVerifier{verdicts: []verdict{
		{status: prop.StatusFalse, trace: counterTrace("0", "4")},
		{status: prop.StatusTrue},
		{status: prop.StatusTrue},
	}}
	e, _, _ := newTestEngine(v, a, b)

	require.NoError(t, e.NextCE(ctx, prop.Selector{Name: "a"}))
	assert.Equal(t, StatusHasMore, RecordOf(a).Status())
	assert.Nil(t, RecordOf(b))

	require.NoError(t, e.NextCE(ctx, prop.Selector{}))
	assert.Equal(t, StatusExhausted, RecordOf(a).Status())
	assert.Equal(t, StatusExhausted, RecordOf(b).Status())

	err := e.NextCE(ctx, prop.Selector{Name: "missing"})
	assert.True(t, errors.Is(err, prop.ErrNoSuchProperty))

	index := 0
	err = e.NextCE(ctx, prop.Selector{Index: &index, Name: "a"})
	assert.Error(t, err)

	require.NoError(t, e.ResetCE(prop.Selector{Index: &index}))
	assert.Equal(t, StatusReset, RecordOf(a).Status())
	assert.Equal(t, StatusExhausted, RecordOf(b).Status())
	assert.Len(t, v.verified, 3)
}

func Test_ComputeAll(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name  string
		strat strategy.Strategy
		order []string
	}{
		{"dfs", strategy.NewDFS(), []string{"a", "a", "a", "b", "b"}},
		{"bfs", strategy.NewBFS(), []string{"a", "b", "a", "b", "a"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := falsified("0", "1", "3")
			a.Name = "a"
			b := falsified("0", "5")
			b.Name = "b"
			v := &namedVerifier{rounds: map[string]int{"a": 2, "b": 1}}
			e, _, _ := newTestEngine(nil, a, b)
			e.verifier = v

			require.NoError(t, e.ComputeAll(ctx, prop.Selector{}, tc.strat))
			assert.Equal(t, tc.order, v.order)
			assert.Equal(t, StatusExhausted, RecordOf(a).Status())
			assert.Equal(t, StatusExhausted, RecordOf(b).Status())
			assert.Equal(t, 3, RecordOf(a).Len())
			assert.Equal(t, 2, RecordOf(b).Len())
		})
	}
}

// namedVerifier finds rounds[name] more counterexamples of each property
// before reporting it true.
type namedVerifier struct {
	rounds map[string]int
	order  []string
}

func (v *namedVerifier) Verify(_ context.Context, p *prop.Property) error {
	v.order = append(v.order, p.Name)
	if v.rounds[p.Name] == 0 {
		p.Status = prop.StatusTrue
		return nil
	}
	v.rounds[p.Name]--
	p.Status = prop.StatusFalse
	p.Trace = counterTrace("0", "1", "7")
	return nil
}

func Test_Check(t *testing.T) {
	ctx := context.Background()
	p := invariantProp()
	done := invariantProp()
	done.Status = prop.StatusTrue
	v := &fakeVerifier{verdicts: []verdict{{status: prop.StatusFalse, trace: counterTrace("3")}}}
	e, _, out := newTestEngine(v, p, done)

	require.NoError(t, e.Check(ctx, prop.Selector{}))
	assert.Equal(t, prop.StatusFalse, p.Status)
	assert.Equal(t, 1, p.Trace.ID)
	assert.Len(t, v.verified, 1)
	assert.Nil(t, RecordOf(p))
	assert.Contains(t, out.String(), "is False")
	assert.Contains(t, out.String(), "is True")
}
