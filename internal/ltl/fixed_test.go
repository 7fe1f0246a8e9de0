package ltl

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EvalFixed(t *testing.T) {
	state := map[string]string{"x": "2", "mode": "busy", "ok": "TRUE", "bad": "FALSE"}

	testCases := []struct {
		formula string
		want    bool
	}{
		{"x < 3", true},
		{"x >= 3", false},
		{"x = 2 & mode = busy", true},
		{"mode = idle", false},
		{"mode in {idle, busy}", true},
		{"x in {0, 1}", false},
		{"x = 02", true},
		{"ok", true},
		{"ok & bad", false},
		{"bad -> x = 7", true},
		{"ok <-> !bad", true},
		{"ok = TRUE", true},
		{"G x < 3", true},
		{"F bad", false},
		{"X ok", true},
		{"Y ok", false},
		{"X Y ok", true},
		{"bad U ok", true},
		{"bad U bad", false},
		{"G (Y ok -> ok)", true},
		{"F Y ok", true},
	}
	for _, tc := range testCases {
		got, err := EvalFixed(MustParse(tc.formula), state, "idle", "busy")
		require.NoError(t, err, tc.formula)
		assert.Equal(t, tc.want, got, tc.formula)
	}

	inContext, err := EvalFixed(Context("", Globally(MustParse("x < 3"))), state)
	require.NoError(t, err)
	assert.True(t, inContext)
}

func Test_EvalFixedErrors(t *testing.T) {
	state := map[string]string{"x": "2", "mode": "busy"}
	for _, input := range []string{
		"missing",
		"x",
		"mode < 3",
		"x = {1, 2}",
		"mode = target",
		"mode != target",
		"mode in {idle, target}",
	} {
		_, err := EvalFixed(MustParse(input), state, "idle", "busy")
		assert.True(t, errors.Is(err, ErrEval), input)
	}
}

func Test_Unroll(t *testing.T) {
	testCases := []struct {
		formula string
		want    string
	}{
		{"G p", "p"},
		{"X p", "p"},
		{"Y p", "FALSE"},
		{"X Y p", "p"},
		{"G Y p", "(FALSE & p)"},
		{"p U q", "q"},
		{"p U Y q", "(FALSE | (p & q))"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Unroll(MustParse(tc.formula)).String(), tc.formula)
	}
}

func Test_Substitute(t *testing.T) {
	defs := map[string]*Formula{
		"target": MustParse("bad"),
		"danger": MustParse("mode = target"),
		"loop":   MustParse("loop & ok"),
	}
	lookup := func(name string) (*Formula, bool) {
		f, ok := defs[name]
		return f, ok
	}

	testCases := []struct {
		formula string
		want    string
	}{
		{"mode != target", "(mode != bad)"},
		{"G !danger", "G !(mode = bad)"},
		{"mode in {idle, target}", "(mode in {idle, bad})"},
		{"x < 3", "(x < 3)"},
		{"loop", "(loop & ok)"},
	}
	for _, tc := range testCases {
		got := Substitute(MustParse(tc.formula), lookup)
		assert.True(t, Equivalent(MustParse(tc.want), got), "%s: %s", tc.formula, got)
	}

	ok, err := EvalFixed(Substitute(MustParse("G (mode != target)"), lookup), map[string]string{"mode": "bad"}, "idle", "bad")
	require.NoError(t, err)
	assert.False(t, ok)
}
