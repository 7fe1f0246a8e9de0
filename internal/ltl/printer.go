package ltl

import (
	"strings"
)

// String renders the formula in NuSMV syntax. Every binary node is
// parenthesised so the text parses back to the same tree.
func (f *Formula) String() string {
	var sb strings.Builder
	write(&sb, f)
	return sb.String()
}

func write(sb *strings.Builder, f *Formula) {
	if f == nil {
		sb.WriteString("<nil>")
		return
	}
	switch {
	case f.op == OpTrue || f.op == OpFalse:
		sb.WriteString(f.op.String())
	case f.op == OpSymbol || f.op == OpConst:
		sb.WriteString(f.name)
	case f.op == OpSet:
		sb.WriteString("{")
		for i, item := range f.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, item)
		}
		sb.WriteString("}")
	case f.op == OpContext:
		write(sb, f.left)
	case f.op == OpNot:
		sb.WriteString("!")
		write(sb, f.left)
	case f.op.isUnary():
		sb.WriteString(f.op.String())
		sb.WriteString(" ")
		write(sb, f.left)
	default:
		sb.WriteString("(")
		write(sb, f.left)
		sb.WriteString(" ")
		sb.WriteString(f.op.String())
		sb.WriteString(" ")
		write(sb, f.right)
		sb.WriteString(")")
	}
}
