package ltl

import (
	"unicode"

	"github.com/pkg/errors"
)

var ErrSyntax = errors.New("ltl syntax error")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// punctuation, longest first
var puncts = []string{"<->", "->", "!=", "<=", ">=", "(", ")", "{", "}", ",", "!", "&", "|", "=", "<", ">"}

func tokenize(input string) ([]token, error) {
	var (
		tokens []token
		runes  = []rune(input)
	)
	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '-' && i+1 < len(runes) && runes[i+1] == '-':
			// comment to end of line
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case unicode.IsDigit(c) || (c == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			start := i
			i++
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(runes[start:i]), pos: start})
		case unicode.IsLetter(c) || c == '_':
			start := i
			for i < len(runes) && isIdentRune(runes[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		default:
			matched := false
			for _, p := range puncts {
				if hasPrefixAt(runes, i, p) {
					tokens = append(tokens, token{kind: tokPunct, text: p, pos: i})
					i += len(p)
					matched = true
					break
				}
			}
			if !matched {
				return nil, errors.Wrapf(ErrSyntax, "unexpected character %q at %d", c, i)
			}
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(runes)}), nil
}

func isIdentRune(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '$' || c == '#' || c == '.' || c == '[' || c == ']'
}

func hasPrefixAt(runes []rune, i int, p string) bool {
	for j, c := range p {
		if i+j >= len(runes) || runes[i+j] != c {
			return false
		}
	}
	return true
}

type parser struct {
	tokens []token
	pos    int
}

// Parse reads an LTL formula in NuSMV syntax. Supported: TRUE, FALSE,
// identifiers, integer and word constants, {..} sets, ! & | -> <->,
// = != < <= > >= in, X Y G F and U.
func Parse(input string) (*Formula, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	f, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, errors.Wrapf(ErrSyntax, "unexpected %q at %d", tok.text, tok.pos)
	}
	return f, nil
}

// MustParse is Parse for formulas known to be well formed.
func MustParse(input string) *Formula {
	f, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return f
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) accept(text string) bool {
	tok := p.peek()
	if (tok.kind == tokPunct || tok.kind == tokIdent) && tok.text == text {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text string) error {
	if p.accept(text) {
		return nil
	}
	tok := p.peek()
	return errors.Wrapf(ErrSyntax, "expected %q but got %q at %d", text, tok.text, tok.pos)
}

func (p *parser) parseIff() (*Formula, error) {
	left, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	for p.accept("<->") {
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		left = Iff(left, right)
	}
	return left, nil
}

func (p *parser) parseImplies() (*Formula, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.accept("->") {
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return Implies(left, right), nil
	}
	return left, nil
}

func (p *parser) parseOr() (*Formula, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept("|") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or(left, right)
	}
	return left, nil
}

func (p *parser) parseAnd() (*Formula, error) {
	left, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	for p.accept("&") {
		right, err := p.parseUntil()
		if err != nil {
			return nil, err
		}
		left = And(left, right)
	}
	return left, nil
}

func (p *parser) parseUntil() (*Formula, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.accept("U") {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Until(left, right)
	}
	return left, nil
}

var unaryOps = map[string]func(*Formula) *Formula{
	"!": Not,
	"X": Next,
	"Y": Prev,
	"G": Globally,
	"F": Finally,
}

func (p *parser) parseUnary() (*Formula, error) {
	tok := p.peek()
	if build, ok := unaryOps[tok.text]; ok && tok.kind != tokNumber {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return build(operand), nil
	}
	return p.parseComparison()
}

var comparisonOps = map[string]func(l, r *Formula) *Formula{
	"=":  Equal,
	"!=": NotEqual,
	"<":  Less,
	"<=": LessEq,
	">":  Greater,
	">=": GreaterEq,
	"in": In,
}

func (p *parser) parseComparison() (*Formula, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if build, ok := comparisonOps[tok.text]; ok && tok.kind != tokNumber {
		p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return build(left, right), nil
	}
	return left, nil
}

func (p *parser) parsePrimary() (*Formula, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return Const(tok.text), nil
	case tokIdent:
		switch tok.text {
		case "TRUE":
			return True(), nil
		case "FALSE":
			return False(), nil
		case "X", "Y", "G", "F", "U", "in":
			return nil, errors.Wrapf(ErrSyntax, "unexpected keyword %q at %d", tok.text, tok.pos)
		}
		return Symbol(tok.text), nil
	case tokPunct:
		switch tok.text {
		case "(":
			f, err := p.parseIff()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return f, nil
		case "{":
			return p.parseSet()
		}
	}
	if tok.kind == tokEOF {
		return nil, errors.Wrap(ErrSyntax, "unexpected end of formula")
	}
	return nil, errors.Wrapf(ErrSyntax, "unexpected %q at %d", tok.text, tok.pos)
}

func (p *parser) parseSet() (*Formula, error) {
	var items []*Formula
	for {
		item, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.accept("}") {
			return Set(items...), nil
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
}
