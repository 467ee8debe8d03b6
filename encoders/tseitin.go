// Package encoders provides BitEncoder implementations over real SAT and BDD
// backends.
package encoders

import (
	"github.com/borzacchiello/stevia/bitblast"
	"github.com/go-air/gini/z"
)

// ClauseSink receives the variables and clauses of a CNF encoding.
type ClauseSink interface {
	NewVar() z.Lit
	AddClause(ls ...z.Lit)
}

// Tseitin encodes every gate with a fresh variable and the clauses defining
// it.
type Tseitin struct {
	sink ClauseSink
}

var _ bitblast.BitEncoder[z.Lit] = (*Tseitin)(nil)

func NewTseitin(sink ClauseSink) *Tseitin {
	return &Tseitin{sink: sink}
}

func (t *Tseitin) NewVar() z.Lit {
	return t.sink.NewVar()
}

func (t *Tseitin) NewVarPack(n int) []z.Lit {
	ls := make([]z.Lit, n)
	for i := range ls {
		ls[i] = t.sink.NewVar()
	}
	return ls
}

func (t *Tseitin) AssertLit(l z.Lit) {
	t.sink.AddClause(l)
}

func (t *Tseitin) Not(l z.Lit) z.Lit {
	return l.Not()
}

func (t *Tseitin) And(ls ...z.Lit) z.Lit {
	if len(ls) == 0 {
		panic("And of no literals")
	}
	o := t.sink.NewVar()
	long := make([]z.Lit, 0, len(ls)+1)
	long = append(long, o)
	for _, l := range ls {
		t.sink.AddClause(o.Not(), l)
		long = append(long, l.Not())
	}
	t.sink.AddClause(long...)
	return o
}

func (t *Tseitin) Or(ls ...z.Lit) z.Lit {
	if len(ls) == 0 {
		panic("Or of no literals")
	}
	o := t.sink.NewVar()
	long := make([]z.Lit, 0, len(ls)+1)
	long = append(long, o.Not())
	for _, l := range ls {
		t.sink.AddClause(o, l.Not())
		long = append(long, l)
	}
	t.sink.AddClause(long...)
	return o
}

func (t *Tseitin) Xor(a, b z.Lit) z.Lit {
	o := t.sink.NewVar()
	t.sink.AddClause(o.Not(), a, b)
	t.sink.AddClause(o.Not(), a.Not(), b.Not())
	t.sink.AddClause(o, a.Not(), b)
	t.sink.AddClause(o, a, b.Not())
	return o
}

func (t *Tseitin) Implies(a, b z.Lit) z.Lit {
	return t.Or(a.Not(), b)
}

func (t *Tseitin) Iff(a, b z.Lit) z.Lit {
	o := t.sink.NewVar()
	t.sink.AddClause(o.Not(), a.Not(), b)
	t.sink.AddClause(o.Not(), a, b.Not())
	t.sink.AddClause(o, a, b)
	t.sink.AddClause(o, a.Not(), b.Not())
	return o
}
