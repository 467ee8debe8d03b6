package encoders

import (
	"bytes"
	"testing"

	"github.com/borzacchiello/stevia/bitblast"
	"github.com/dalzilio/rudd"
	"github.com/go-air/gini/z"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gate[L any] struct {
	name  string
	arity int
	build func(enc bitblast.BitEncoder[L], in []L) L
	want  func(in []bool) bool
}

func gates[L any]() []gate[L] {
	return []gate[L]{
		{"and2", 2, func(e bitblast.BitEncoder[L], in []L) L { return e.And(in...) }, func(in []bool) bool { return in[0] && in[1] }},
		{"and3", 3, func(e bitblast.BitEncoder[L], in []L) L { return e.And(in...) }, func(in []bool) bool { return in[0] && in[1] && in[2] }},
		{"or2", 2, func(e bitblast.BitEncoder[L], in []L) L { return e.Or(in...) }, func(in []bool) bool { return in[0] || in[1] }},
		{"or3", 3, func(e bitblast.BitEncoder[L], in []L) L { return e.Or(in...) }, func(in []bool) bool { return in[0] || in[1] || in[2] }},
		{"xor", 2, func(e bitblast.BitEncoder[L], in []L) L { return e.Xor(in[0], in[1]) }, func(in []bool) bool { return in[0] != in[1] }},
		{"implies", 2, func(e bitblast.BitEncoder[L], in []L) L { return e.Implies(in[0], in[1]) }, func(in []bool) bool { return !in[0] || in[1] }},
		{"iff", 2, func(e bitblast.BitEncoder[L], in []L) L { return e.Iff(in[0], in[1]) }, func(in []bool) bool { return in[0] == in[1] }},
		{"not", 1, func(e bitblast.BitEncoder[L], in []L) L { return e.Not(in[0]) }, func(in []bool) bool { return !in[0] }},
		{"and1", 1, func(e bitblast.BitEncoder[L], in []L) L { return e.And(in...) }, func(in []bool) bool { return in[0] }},
	}
}

func assertValue[L any](enc bitblast.BitEncoder[L], l L, v bool) {
	if v {
		enc.AssertLit(l)
	} else {
		enc.AssertLit(enc.Not(l))
	}
}

// checkGates runs the truth table of every gate: with the inputs fixed, the
// output must be forced to the expected value.
func checkGates[L any](t *testing.T, mk func() (bitblast.BitEncoder[L], func() int)) {
	for _, g := range gates[L]() {
		t.Run(g.name, func(t *testing.T) {
			for row := 0; row < 1<<g.arity; row++ {
				in := make([]bool, g.arity)
				for i := range in {
					in[i] = row>>i&1 == 1
				}
				want := g.want(in)
				for _, out := range []bool{true, false} {
					enc, solve := mk()
					lits := enc.NewVarPack(g.arity)
					for i, l := range lits {
						assertValue(enc, l, in[i])
					}
					assertValue(enc, g.build(enc, lits), out)
					expected := UNSAT
					if out == want {
						expected = SAT
					}
					assert.Equal(t, expected, solve(), "inputs %v, output %v", in, out)
				}
			}
		})
	}
}

// checkFreeOutput makes sure gates leave their output unconstrained.
func checkFreeOutput[L any](t *testing.T, mk func() (bitblast.BitEncoder[L], func() int)) {
	for _, g := range gates[L]() {
		for _, out := range []bool{true, false} {
			enc, solve := mk()
			assertValue(enc, g.build(enc, enc.NewVarPack(g.arity)), out)
			assert.Equal(t, SAT, solve(), "%s = %v", g.name, out)
		}
	}
}

func giniTseitin() (bitblast.BitEncoder[z.Lit], func() int) {
	sink := NewGiniSink()
	return NewTseitin(sink), func() int { return sink.Solve() }
}

func listTseitin() (bitblast.BitEncoder[z.Lit], func() int) {
	list := NewClauseList()
	return NewTseitin(list), list.Solve
}

func aig() (bitblast.BitEncoder[z.Lit], func() int) {
	a := NewAIG()
	return a, func() int { return a.Solve() }
}

func bdd() (bitblast.BitEncoder[rudd.Node], func() int) {
	d, err := NewBDD(8)
	if err != nil {
		panic(err)
	}
	return d, d.Solve
}

func TestGatesTseitinGini(t *testing.T)  { checkGates(t, giniTseitin) }
func TestGatesTseitinList(t *testing.T)  { checkGates(t, listTseitin) }
func TestGatesAIG(t *testing.T)          { checkGates(t, aig) }
func TestGatesBDD(t *testing.T)          { checkGates(t, bdd) }
func TestFreeOutputTseitin(t *testing.T) { checkFreeOutput(t, giniTseitin) }
func TestFreeOutputAIG(t *testing.T)     { checkFreeOutput(t, aig) }
func TestFreeOutputBDD(t *testing.T)     { checkFreeOutput(t, bdd) }

func TestFreshVars(t *testing.T) {
	sink := NewGiniSink()
	enc := NewTseitin(sink)
	seen := map[z.Var]bool{}
	for _, l := range append(enc.NewVarPack(5), enc.NewVar(), enc.NewVar()) {
		assert.False(t, seen[l.Var()])
		seen[l.Var()] = true
	}
	assert.Equal(t, 7, sink.Vars())
	assert.Zero(t, sink.Clauses())
}

func TestWriteDimacs(t *testing.T) {
	list := NewClauseList()
	a, b := list.NewVar(), list.NewVar()
	list.AddClause(a, b.Not())
	list.AddClause(b)

	var buf bytes.Buffer
	require.NoError(t, list.WriteDimacs(&buf))
	assert.Equal(t, "p cnf 2 2\n1 -2 0\n2 0\n", buf.String())

	require.Equal(t, SAT, list.Solve())
	assert.True(t, list.Value(a))
	assert.True(t, list.Value(b))
	assert.False(t, list.Value(b.Not()))
}

func TestGiniAssumptions(t *testing.T) {
	sink := NewGiniSink()
	enc := NewTseitin(sink)
	x, y := enc.NewVar(), enc.NewVar()
	enc.AssertLit(enc.Xor(x, y))

	require.Equal(t, SAT, sink.Solve(x))
	assert.True(t, sink.Value(x))
	assert.False(t, sink.Value(y))
	assert.Equal(t, UNSAT, sink.Solve(x, y))
	// assumptions do not outlive the call
	assert.Equal(t, SAT, sink.Solve())
}

func TestBDDCount(t *testing.T) {
	d, err := NewBDD(16)
	require.NoError(t, err)
	x, y := d.NewVar(), d.NewVar()
	d.AssertLit(d.Or(x, y))
	assert.Equal(t, int64(3), d.Count().Int64())

	require.Equal(t, SAT, d.Solve())
	assert.True(t, d.Value(d.Or(x, y)))

	d.AssertLit(d.Not(x))
	d.AssertLit(d.Not(y))
	assert.True(t, d.IsFalse(d.Constraint()))
	assert.Equal(t, UNSAT, d.Solve())
	assert.NoError(t, d.Err())
}

func TestBDDCapacity(t *testing.T) {
	d, err := NewBDD(2)
	require.NoError(t, err)
	d.NewVarPack(2)
	assert.Panics(t, func() { d.NewVar() })
}
