// Package ltl 线性时序逻辑公式
package ltl

import (
	"fmt"
	"strings"
)

// Op is the operator of a formula node.
type Op int

const (
	OpTrue Op = iota
	OpFalse
	OpSymbol
	OpConst
	OpSet
	OpNot
	OpAnd
	OpOr
	OpImplies
	OpIff
	OpEqual
	OpNotEqual
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpIn
	OpNext
	OpPrev
	OpGlobally
	OpFinally
	OpUntil
	OpContext
)

var opNames = [...]string{
	OpTrue:      "TRUE",
	OpFalse:     "FALSE",
	OpSymbol:    "symbol",
	OpConst:     "const",
	OpSet:       "set",
	OpNot:       "!",
	OpAnd:       "&",
	OpOr:        "|",
	OpImplies:   "->",
	OpIff:       "<->",
	OpEqual:     "=",
	OpNotEqual:  "!=",
	OpLess:      "<",
	OpLessEq:    "<=",
	OpGreater:   ">",
	OpGreaterEq: ">=",
	OpIn:        "in",
	OpNext:      "X",
	OpPrev:      "Y",
	OpGlobally:  "G",
	OpFinally:   "F",
	OpUntil:     "U",
	OpContext:   "context",
}

func (op Op) String() string {
	if op >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op<%d>", int(op))
}

func (op Op) isUnary() bool {
	switch op {
	case OpNot, OpNext, OpPrev, OpGlobally, OpFinally:
		return true
	}
	return false
}

func (op Op) isTemporal() bool {
	switch op {
	case OpNext, OpPrev, OpGlobally, OpFinally, OpUntil:
		return true
	}
	return false
}

// Formula is an immutable expression node. Nodes are shared freely between
// formulas; nothing in this package modifies a node after construction.
type Formula struct {
	op    Op
	name  string
	left  *Formula
	right *Formula
	items []*Formula
}

func (f *Formula) Op() Op { return f.op }

// Name is the identifier of a symbol, the text of a constant or the
// module context of a context node.
func (f *Formula) Name() string { return f.name }

func (f *Formula) Left() *Formula { return f.left }

func (f *Formula) Right() *Formula { return f.right }

func (f *Formula) Items() []*Formula {
	items := make([]*Formula, len(f.items))
	copy(items, f.items)
	return items
}

var (
	trueNode  = &Formula{op: OpTrue}
	falseNode = &Formula{op: OpFalse}
)

func True() *Formula  { return trueNode }
func False() *Formula { return falseNode }

func Symbol(name string) *Formula {
	return &Formula{op: OpSymbol, name: name}
}

func Const(text string) *Formula {
	return &Formula{op: OpConst, name: text}
}

// Value builds the constant node for a value as it appears in a trace:
// TRUE and FALSE become boolean constants, numbers become constants and
// anything else is an enumeration literal.
func Value(text string) *Formula {
	switch text {
	case "TRUE":
		return trueNode
	case "FALSE":
		return falseNode
	}
	if startsNumeric(text) {
		return Const(text)
	}
	return Symbol(text)
}

func Set(items ...*Formula) *Formula {
	f := &Formula{op: OpSet, items: make([]*Formula, len(items))}
	copy(f.items, items)
	return f
}

func unary(op Op, operand *Formula) *Formula {
	return &Formula{op: op, left: operand}
}

func binary(op Op, left, right *Formula) *Formula {
	return &Formula{op: op, left: left, right: right}
}

func Not(f *Formula) *Formula      { return unary(OpNot, f) }
func Next(f *Formula) *Formula     { return unary(OpNext, f) }
func Prev(f *Formula) *Formula     { return unary(OpPrev, f) }
func Globally(f *Formula) *Formula { return unary(OpGlobally, f) }
func Finally(f *Formula) *Formula  { return unary(OpFinally, f) }

func And(l, r *Formula) *Formula       { return binary(OpAnd, l, r) }
func Or(l, r *Formula) *Formula        { return binary(OpOr, l, r) }
func Implies(l, r *Formula) *Formula   { return binary(OpImplies, l, r) }
func Iff(l, r *Formula) *Formula       { return binary(OpIff, l, r) }
func Until(l, r *Formula) *Formula     { return binary(OpUntil, l, r) }
func Equal(l, r *Formula) *Formula     { return binary(OpEqual, l, r) }
func NotEqual(l, r *Formula) *Formula  { return binary(OpNotEqual, l, r) }
func Less(l, r *Formula) *Formula      { return binary(OpLess, l, r) }
func LessEq(l, r *Formula) *Formula    { return binary(OpLessEq, l, r) }
func Greater(l, r *Formula) *Formula   { return binary(OpGreater, l, r) }
func GreaterEq(l, r *Formula) *Formula { return binary(OpGreaterEq, l, r) }

// In is set membership; values is either a Set node or a single value.
func In(l, values *Formula) *Formula { return binary(OpIn, l, values) }

// Context wraps body in the module instance it was declared in. The main
// module has an empty context.
func Context(module string, body *Formula) *Formula {
	return &Formula{op: OpContext, name: module, left: body}
}

// Size returns the number of nodes in the formula tree. Shared subtrees are
// counted once per occurrence.
func Size(f *Formula) int {
	if f == nil {
		return 0
	}
	n := 1 + Size(f.left) + Size(f.right)
	for _, item := range f.items {
		n += Size(item)
	}
	return n
}

// Count returns the number of nodes with the given operator.
func Count(f *Formula, op Op) int {
	if f == nil {
		return 0
	}
	n := Count(f.left, op) + Count(f.right, op)
	if f.op == op {
		n++
	}
	for _, item := range f.items {
		n += Count(item, op)
	}
	return n
}

// Substitute replaces every symbol that lookup resolves by its definition.
// Definitions are expanded in turn; a symbol met again inside its own
// expansion is left as it is.
func Substitute(f *Formula, lookup func(name string) (*Formula, bool)) *Formula {
	return substitute(f, lookup, make(map[string]bool))
}

func substitute(f *Formula, lookup func(name string) (*Formula, bool), active map[string]bool) *Formula {
	if f == nil {
		return nil
	}
	switch f.op {
	case OpTrue, OpFalse, OpConst:
		return f
	case OpSymbol:
		if active[f.name] {
			return f
		}
		def, ok := lookup(f.name)
		if !ok || def == nil {
			return f
		}
		active[f.name] = true
		result := substitute(def, lookup, active)
		delete(active, f.name)
		return result
	case OpSet:
		items := make([]*Formula, len(f.items))
		for i, item := range f.items {
			items[i] = substitute(item, lookup, active)
		}
		return Set(items...)
	}
	return &Formula{
		op:    f.op,
		name:  f.name,
		left:  substitute(f.left, lookup, active),
		right: substitute(f.right, lookup, active),
	}
}

// Equivalent reports whether a and b are structurally identical.
func Equivalent(a, b *Formula) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.op != b.op || a.name != b.name || len(a.items) != len(b.items) {
		return false
	}
	for i := range a.items {
		if !Equivalent(a.items[i], b.items[i]) {
			return false
		}
	}
	return Equivalent(a.left, b.left) && Equivalent(a.right, b.right)
}

// startsNumeric matches integers and word constants such as 0ud8_3.
func startsNumeric(text string) bool {
	if strings.HasPrefix(text, "-") {
		text = text[1:]
	}
	return text != "" && text[0] >= '0' && text[0] <= '9'
}

func isNumber(text string) bool {
	if text == "" {
		return false
	}
	start := 0
	if text[0] == '-' {
		start = 1
	}
	if start == len(text) {
		return false
	}
	for _, c := range text[start:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
