package checker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"nextce/internal/ltl"
	"nextce/internal/prop"
	"nextce/internal/trace"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrNoVerdict = errors.New("model checker produced no verdict")

// Runner executes binary with args, feeding stdin, and returns the combined
// output.
type Runner func(ctx context.Context, binary string, args []string, stdin []byte) ([]byte, error)

func ExecRunner(ctx context.Context, binary string, args []string, stdin []byte) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// NuSMV verifies LTL properties by running the NuSMV binary in interactive
// mode on the model file.
type NuSMV struct {
	binary  string
	model   string
	symbols []string
	run     Runner
}

func NewNuSMV(binary, modelPath string, symbols []string) *NuSMV {
	return &NuSMV{
		binary:  binary,
		model:   modelPath,
		symbols: symbols,
		run:     ExecRunner,
	}
}

func (n *NuSMV) WithRunner(run Runner) *NuSMV {
	n.run = run
	return n
}

func (n *NuSMV) script(f *ltl.Formula) string {
	var sb strings.Builder
	sb.WriteString("set on_failure_script_quits 1\n")
	fmt.Fprintf(&sb, "read_model -i %s\n", n.model)
	sb.WriteString("go\n")
	fmt.Fprintf(&sb, "check_ltlspec -p \"%s\"\n", f)
	sb.WriteString("quit\n")
	return sb.String()
}

func (n *NuSMV) Verify(ctx context.Context, p *prop.Property) error {
	if p.Kind != prop.KindLTL {
		return errors.Errorf("cannot verify %s property with check_ltlspec", p.Kind)
	}
	log.Debugf("verifying %s", p.Formula())
	out, err := n.run(ctx, n.binary, []string{"-int"}, []byte(n.script(p.Formula())))
	if err != nil {
		return errors.Wrapf(err, "run %s: %s", n.binary, tail(out))
	}
	status, cex, err := parseVerdict(out, n.symbols)
	if err != nil {
		return err
	}
	p.Status = status
	if status == prop.StatusFalse {
		p.Trace = cex
	}
	return nil
}

var (
	promptRe  = regexp.MustCompile(`NuSMV > `)
	verdictRe = regexp.MustCompile(`(?m)^-- specification (.*) is (true|false)\s*$`)
)

func parseVerdict(out []byte, symbols []string) (prop.Status, *trace.Trace, error) {
	text := promptRe.ReplaceAllString(string(out), "")
	loc := verdictRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return prop.StatusNoStatus, nil, errors.Wrap(ErrNoVerdict, tail(out))
	}
	if text[loc[4]:loc[5]] == "true" {
		return prop.StatusTrue, nil, nil
	}
	cex, err := trace.ParseNuSMV(strings.NewReader(text[loc[1]:]), "LTL Counterexample", symbols)
	if err != nil {
		return prop.StatusNoStatus, nil, errors.Wrap(err, "counterexample")
	}
	return prop.StatusFalse, cex, nil
}

func tail(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
