package encoders

import (
	"github.com/borzacchiello/stevia/bitblast"
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// AIG builds an and-inverter graph. Its literals are gini literals, so the
// graph converts to CNF without renaming.
//
// The graph is structurally hashed: a gate over inputs already combined the
// same way returns the existing literal rather than a fresh one.
type AIG struct {
	c     *logic.C
	roots []z.Lit
	g     *gini.Gini
}

var _ bitblast.BitEncoder[z.Lit] = (*AIG)(nil)

func NewAIG() *AIG {
	return &AIG{c: logic.NewC()}
}

func (a *AIG) NewVar() z.Lit { return a.c.Lit() }

func (a *AIG) NewVarPack(n int) []z.Lit {
	ls := make([]z.Lit, n)
	for i := range ls {
		ls[i] = a.c.Lit()
	}
	return ls
}

func (a *AIG) AssertLit(l z.Lit)        { a.roots = append(a.roots, l) }
func (a *AIG) Not(l z.Lit) z.Lit        { return l.Not() }
func (a *AIG) And(ls ...z.Lit) z.Lit    { return a.c.Ands(ls...) }
func (a *AIG) Or(ls ...z.Lit) z.Lit     { return a.c.Ors(ls...) }
func (a *AIG) Xor(x, y z.Lit) z.Lit     { return a.c.Xor(x, y) }
func (a *AIG) Implies(x, y z.Lit) z.Lit { return a.c.Implies(x, y) }
func (a *AIG) Iff(x, y z.Lit) z.Lit     { return a.c.Xor(x, y).Not() }
func (a *AIG) Nodes() int               { return a.c.Len() }
func (a *AIG) Roots() []z.Lit           { return append([]z.Lit(nil), a.roots...) }

// Solve converts the graph to CNF in a fresh gini solver, asserts the roots
// and solves.
func (a *AIG) Solve(assumptions ...z.Lit) int {
	a.g = gini.New()
	a.c.ToCnf(a.g)
	a.g.Add(a.c.T)
	a.g.Add(z.LitNull)
	for _, r := range a.roots {
		a.g.Add(r)
		a.g.Add(z.LitNull)
	}
	if len(assumptions) > 0 {
		a.g.Assume(assumptions...)
	}
	return a.g.Solve()
}

// Value reports the value of l in the model found by the last Solve.
func (a *AIG) Value(l z.Lit) bool {
	return a.g.Value(l)
}
