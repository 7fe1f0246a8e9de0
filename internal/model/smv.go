// Package model 读取SMV模型中与反例枚举相关的部分
package model

import (
	"os"
	"regexp"
	"strings"

	"nextce/internal/ltl"
	"nextce/internal/prop"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

type Var struct {
	Name  string
	Type  string
	Input bool
}

// Define is a DEFINE macro. Body is nil when the expression is outside the
// formula language; its value is then read from the traces.
type Define struct {
	Name string
	Text string
	Body *ltl.Formula
}

type Spec struct {
	Name    string
	Text    string
	Formula *ltl.Formula
}

// Model is what the enumeration needs to know about an SMV program: the
// variables and defines of the main module, their declared initial values
// and the LTL specifications. Everything else is left to the model checker.
type Model struct {
	Path    string
	Source  []byte
	Vars    []Var
	Defines []Define
	Specs   []Spec
	inits   map[string]*ltl.Formula
}

func Load(path string) (*Model, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "ReadFile")
	}
	m, err := Parse(source)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	m.Path = path
	return m, nil
}

var (
	commentRe   = regexp.MustCompile(`--[^\n]*`)
	sectionRe   = regexp.MustCompile(`\b(MODULE|VAR|IVAR|FROZENVAR|DEFINE|ASSIGN|INIT|TRANS|INVAR|SPEC|CTLSPEC|LTLSPEC|INVARSPEC|PSLSPEC|COMPUTE|FAIRNESS|JUSTICE|COMPASSION|CONSTANTS)\b`)
	initRe      = regexp.MustCompile(`^init\s*\(\s*([^)\s]+)\s*\)\s*:=\s*(.+)$`)
	nameRe      = regexp.MustCompile(`^NAME\s+([^\s:]+)\s*:=\s*`)
	statementRe = regexp.MustCompile(`\bcase\b|\besac\b|;`)
	enumRe      = regexp.MustCompile(`\{([^}]*)\}`)
)

func Parse(source []byte) (*Model, error) {
	m := &Model{
		Source: source,
		Vars:    make([]Var, 0),
		Defines: make([]Define, 0),
		Specs:   make([]Spec, 0),
		inits:   make(map[string]*ltl.Formula),
	}
	text := commentRe.ReplaceAllString(string(source), "")
	bounds := sectionRe.FindAllStringSubmatchIndex(text, -1)
	module := ""
	for i, b := range bounds {
		keyword := text[b[2]:b[3]]
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		body := strings.TrimSpace(text[b[1]:end])
		if keyword == "MODULE" {
			fields := strings.Fields(body)
			if len(fields) == 0 {
				return nil, errors.New("MODULE without a name")
			}
			module = fields[0]
			if idx := strings.Index(module, "("); idx >= 0 {
				module = module[:idx]
			}
			continue
		}
		if module != "main" {
			log.Debugf("skipping %s section of module %s", keyword, module)
			continue
		}
		switch keyword {
		case "VAR", "FROZENVAR", "IVAR":
			for _, decl := range statements(body) {
				name, typ, ok := cut(decl, ":")
				if !ok {
					return nil, errors.Errorf("malformed declaration %q", decl)
				}
				m.Vars = append(m.Vars, Var{Name: name, Type: typ, Input: keyword == "IVAR"})
			}
		case "DEFINE":
			for _, stmt := range statements(body) {
				name, expr, ok := cut(stmt, ":=")
				if !ok {
					return nil, errors.Errorf("malformed define %q", stmt)
				}
				def := Define{Name: name, Text: expr}
				if f, err := ltl.Parse(expr); err == nil {
					def.Body = f
				} else {
					log.Debugf("define %s is evaluated from traces only: %v", name, err)
				}
				m.Defines = append(m.Defines, def)
			}
		case "ASSIGN":
			for _, stmt := range statements(body) {
				match := initRe.FindStringSubmatch(stmt)
				if match == nil {
					continue
				}
				value, err := ltl.Parse(match[2])
				if err != nil {
					log.Warnf("ignoring initial value of %s: %v", match[1], err)
					continue
				}
				m.inits[match[1]] = value
			}
		case "LTLSPEC":
			spec := Spec{Text: strings.TrimSuffix(body, ";")}
			if match := nameRe.FindStringSubmatch(spec.Text); match != nil {
				spec.Name = match[1]
				spec.Text = spec.Text[len(match[0]):]
			}
			spec.Text = strings.TrimSpace(spec.Text)
			f, err := ltl.Parse(spec.Text)
			if err != nil {
				log.Warnf("skipping LTLSPEC %q: %v", spec.Text, err)
				continue
			}
			spec.Formula = ltl.Context("", f)
			m.Specs = append(m.Specs, spec)
		}
	}
	if module == "" {
		return nil, errors.New("no MODULE found")
	}
	return m, nil
}

// statements splits a section body on ';' outside case ... esac blocks.
func statements(body string) []string {
	var (
		result []string
		depth  int
		start  int
	)
	for _, loc := range statementRe.FindAllStringIndex(body, -1) {
		switch body[loc[0]:loc[1]] {
		case "case":
			depth++
		case "esac":
			depth--
		case ";":
			if depth == 0 {
				if stmt := strings.TrimSpace(body[start:loc[0]]); stmt != "" {
					result = append(result, stmt)
				}
				start = loc[1]
			}
		}
	}
	if stmt := strings.TrimSpace(body[start:]); stmt != "" {
		result = append(result, stmt)
	}
	return result
}

func cut(s, sep string) (string, string, bool) {
	idx := strings.Index(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+len(sep):]), true
}

// InitValue returns the declared initial value of symbol, a constant or a
// set of constants.
func (m *Model) InitValue(symbol string) (*ltl.Formula, bool) {
	f, ok := m.inits[symbol]
	return f, ok
}

// Definition returns the body of the DEFINE named symbol.
func (m *Model) Definition(symbol string) (*ltl.Formula, bool) {
	for _, def := range m.Defines {
		if def.Name == symbol {
			return def.Body, def.Body != nil
		}
	}
	return nil, false
}

// Symbols lists the state and input variables in declaration order.
func (m *Model) Symbols() []string {
	names := make([]string, 0, len(m.Vars))
	for _, v := range m.Vars {
		names = append(names, v.Name)
	}
	return names
}

// TraceSymbols is Symbols followed by the defines. NuSMV prints the value
// of both in its traces.
func (m *Model) TraceSymbols() []string {
	names := m.Symbols()
	for _, def := range m.Defines {
		names = append(names, def.Name)
	}
	return names
}

// Literals lists the enumeration values of the variable types, without
// duplicates.
func (m *Model) Literals() []string {
	literals := make([]string, 0)
	for _, v := range m.Vars {
		for _, match := range enumRe.FindAllStringSubmatch(v.Type, -1) {
			for _, item := range strings.Split(match[1], ",") {
				item = strings.TrimSpace(item)
				if item == "" || slices.Contains(literals, item) {
					continue
				}
				literals = append(literals, item)
			}
		}
	}
	return literals
}

// Properties builds the property database of the LTL specifications.
func (m *Model) Properties() *prop.Database {
	db := prop.NewDatabase()
	for _, spec := range m.Specs {
		db.Add(prop.New(spec.Formula, prop.KindLTL, spec.Name))
	}
	return db
}
