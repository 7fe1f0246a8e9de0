package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"nextce/internal/checker"
	"nextce/internal/model"
	"nextce/internal/nextce"
	"nextce/internal/prop"
	"nextce/internal/report"
	"nextce/internal/smt"
	"nextce/internal/store"
	"nextce/internal/trace"
	"nextce/internal/util"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NuSMV process runner and command output, swapped in tests.
var (
	nusmvRunner checker.Runner = checker.ExecRunner
	output      io.Writer      = os.Stdout
)

// session is the state of one command invocation: the model, its
// properties restored from the store and the engine working on them.
type session struct {
	model       *model.Model
	store       *store.Store
	key         string
	fingerprint string
	db          *prop.Database
	engine      *nextce.Engine
	reporter    *report.Reporter
	cleanup     []func()
}

func openSession() (*session, error) {
	if ModelFile == "" {
		return nil, errors.New("no model, use --model")
	}
	m, err := model.Load(ModelFile)
	if err != nil {
		return nil, err
	}
	path, err := filepath.Abs(ModelFile)
	if err != nil {
		return nil, errors.Wrap(err, "Abs")
	}
	st, err := store.Open(SessionDir)
	if err != nil {
		return nil, err
	}
	s := &session{
		model:       m,
		store:       st,
		key:         util.SessionKey(path),
		fingerprint: util.Fingerprint(m.Source),
		db:          m.Properties(),
		reporter:    report.New(output, Verbose),
	}
	s.cleanup = append(s.cleanup, func() { _ = st.Close() })

	cfg := nextce.NewConfig()
	traces := trace.NewManager()
	if err := s.restore(cfg, traces); err != nil {
		s.close()
		return nil, err
	}

	var eval checker.StateEvaluator
	switch Evaluator {
	case "explicit":
		eval = checker.NewExplicit(m.Literals()...)
	case "yices":
		yices2.Init()
		s.cleanup = append(s.cleanup, yices2.Exit)
		eval = smt.NewEvaluator(m.Literals()...)
	default:
		s.close()
		return nil, errors.Errorf("unknown evaluator '%s'", Evaluator)
	}
	verifier := checker.NewNuSMV(NuSMVBinary, path, m.TraceSymbols()).WithRunner(nusmvRunner)
	locator := nextce.NewLocator(eval, m).WithDefinitions(m)
	s.engine = nextce.NewEngine(cfg, s.db, verifier, locator, traces, s.reporter)
	return s, nil
}

func (s *session) restore(cfg *nextce.Config, traces *trace.Manager) error {
	saved, err := s.store.Load(s.key)
	if errors.Is(err, store.ErrNoSession) {
		log.Debugf("no saved session for %s", s.key)
		return nil
	}
	if err != nil {
		return err
	}
	err = saved.Apply(s.fingerprint, cfg, s.db, traces)
	if errors.Is(err, store.ErrStale) {
		log.Warnf("discarding saved session: %v", err)
		return nil
	}
	return err
}

func (s *session) save() error {
	return s.store.Save(s.key, store.Capture(s.fingerprint, s.engine.Config(), s.db))
}

func (s *session) close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
}

// withSession runs fn on a fresh session and saves the result. The session
// is saved even when fn fails, since failed rounds leave no partial state.
func withSession(ctx context.Context, fn func(ctx context.Context, s *session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	runErr := fn(ctx, s)
	if err := s.save(); err != nil {
		log.Errorf("save session: %v", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

var (
	propIndex string
	propName  string
)

func addSelectorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&propIndex, "index", "n", "", "property index")
	cmd.Flags().StringVarP(&propName, "property", "P", "", "property name")
}

// selector resolves -n and -P against db. Neither means every property.
func selector(db *prop.Database) (prop.Selector, error) {
	sel := prop.Selector{Name: propName}
	if propIndex != "" {
		if propName != "" {
			return sel, errors.New("-n and -P are mutually exclusive")
		}
		index, err := db.IndexFromString(propIndex)
		if err != nil {
			return sel, err
		}
		sel.Index = &index
	}
	return sel, nil
}
