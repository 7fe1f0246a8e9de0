package smt

import (
	"fmt"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
)

// valueWidth is the bit width of every symbol value.
const valueWidth uint32 = 64

type Bool struct {
	value yices2.TermT
}

func NewBoolVal(value bool) *Bool {
	if value {
		return &Bool{value: yices2.True()}
	}
	return &Bool{value: yices2.False()}
}

func NewBoolFromTerm(term yices2.TermT) *Bool {
	return &Bool{value: term}
}

func (b *Bool) GetRaw() yices2.TermT {
	return b.value
}

func (b *Bool) Not() *Bool {
	return &Bool{value: yices2.Not(b.value)}
}

func (b *Bool) And(other *Bool) *Bool {
	return &Bool{value: yices2.And2(b.value, other.value)}
}

func (b *Bool) Or(other *Bool) *Bool {
	return &Bool{value: yices2.Or2(b.value, other.value)}
}

func (b *Bool) Implies(other *Bool) *Bool {
	return &Bool{value: yices2.Or2(yices2.Not(b.value), other.value)}
}

func (b *Bool) Iff(other *Bool) *Bool {
	return &Bool{value: yices2.Eq(b.value, other.value)}
}

// Ite 把布尔值转换成位向量
func (b *Bool) Ite(then, otherwise *BitVec) *BitVec {
	return &BitVec{value: yices2.Ite(b.value, then.value, otherwise.value)}
}

type BitVec struct {
	name  string
	value yices2.TermT
}

func NewBitVec(name string) *BitVec {
	term := yices2.NewUninterpretedTerm(yices2.BvType(valueWidth))
	errcode := yices2.SetTermName(term, name)
	if errcode < 0 {
		fmt.Println("set term name ", errcode)
	}
	return &BitVec{
		name:  name,
		value: term,
	}
}

func NewBitVecValInt64(value int64) *BitVec {
	return &BitVec{value: yices2.BvconstInt64(valueWidth, value)}
}

func (bv *BitVec) GetRaw() yices2.TermT {
	return bv.value
}

func (bv *BitVec) GetName() string {
	return bv.name
}

// Lt
// Bvs{xxxx} 有符号
func (bv *BitVec) Lt(other *BitVec) *Bool {
	return &Bool{value: yices2.BvsltAtom(bv.value, other.value)}
}

func (bv *BitVec) Le(other *BitVec) *Bool {
	return &Bool{value: yices2.BvsleAtom(bv.value, other.value)}
}

func (bv *BitVec) Gt(other *BitVec) *Bool {
	return &Bool{value: yices2.BvsgtAtom(bv.value, other.value)}
}

func (bv *BitVec) Ge(other *BitVec) *Bool {
	return &Bool{value: yices2.BvsgeAtom(bv.value, other.value)}
}

func (bv *BitVec) Eq(other *BitVec) *Bool {
	return &Bool{value: yices2.BveqAtom(bv.value, other.value)}
}

func (bv *BitVec) Ne(other *BitVec) *Bool {
	return &Bool{value: yices2.BvneqAtom(bv.value, other.value)}
}
