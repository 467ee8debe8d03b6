package bitblast_test

import (
	"testing"

	"github.com/borzacchiello/stevia"
	"github.com/borzacchiello/stevia/bitblast"
	"github.com/borzacchiello/stevia/encoders"
	"github.com/borzacchiello/stevia/fixint"
	"github.com/borzacchiello/stevia/internal/gen"
	"github.com/dalzilio/rudd"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func must[T stevia.AnyExpr](e T, err error) T {
	if err != nil {
		panic(err)
	}
	return e
}

type backend[L any] struct {
	enc   bitblast.BitEncoder[L]
	solve func() int
	value func(L) bool
}

func giniBackend() backend[z.Lit] {
	sink := encoders.NewGiniSink()
	return backend[z.Lit]{encoders.NewTseitin(sink), func() int { return sink.Solve() }, sink.Value}
}

func listBackend() backend[z.Lit] {
	list := encoders.NewClauseList()
	return backend[z.Lit]{encoders.NewTseitin(list), list.Solve, list.Value}
}

func aigBackend() backend[z.Lit] {
	a := encoders.NewAIG()
	return backend[z.Lit]{a, func() int { return a.Solve() }, a.Value}
}

func bddBackend() backend[rudd.Node] {
	d, err := encoders.NewBDD(64)
	if err != nil {
		panic(err)
	}
	return backend[rudd.Node]{d, d.Solve, d.Value}
}

// bind asserts that every symbol of env equals its value.
func bind[L any](t *testing.T, l *bitblast.Lowerer[L], env map[string]stevia.Value) {
	for name, v := range env {
		var eq stevia.AnyExpr
		if v.IsBool() {
			eq = must(stevia.NewBoolEquals(stevia.NewBoolSymbol(name), v.Expr()))
		} else {
			sym := must(stevia.NewBitvecSymbol(name, stevia.BitvecTy(v.Bitvec().Bits())))
			eq = must(stevia.NewEquals(sym, v.Expr()))
		}
		require.NoError(t, l.Assert(eq))
	}
}

// agree lowers random formulas and terms with their symbols bound to random
// values, and checks the model against Eval.
func agree[L any](t *testing.T, mk func() backend[L], cfg gen.Config, seeds int64) {
	for seed := int64(0); seed < seeds; seed++ {
		g := gen.New(seed, cfg)
		f, term := g.Formula(), g.Term()
		env := g.Env()

		b := mk()
		l := bitblast.NewLowerer(b.enc)
		lit, err := l.Formula(f)
		require.NoError(t, err)
		bits, err := l.Term(term)
		require.NoError(t, err)
		bind(t, l, env)
		require.Equal(t, encoders.SAT, b.solve(), "seed %d", seed)

		want, err := stevia.Eval(f, env)
		require.NoError(t, err)
		require.Equal(t, want.Bool(), b.value(lit), "seed %d: %s", seed, f)

		wantTerm, err := stevia.Eval(term, env)
		require.NoError(t, err)
		require.Len(t, bits, int(wantTerm.Bitvec().Bits()))
		for i, bit := range bits {
			require.Equal(t, wantTerm.Bitvec().Bit(uint32(i)), b.value(bit), "seed %d: bit %d of %s", seed, i, term)
		}

		model := l.DecodeModel(b.value)
		for name, v := range env {
			require.True(t, v.Equal(model[name]), "seed %d: %s is %s, want %s", seed, name, model[name], v)
		}
	}
}

func TestLowerAgreesWithEvalGini(t *testing.T) {
	agree(t, giniBackend, gen.DefaultConfig(), 150)
}

func TestLowerAgreesWithEvalGophersat(t *testing.T) {
	agree(t, listBackend, gen.DefaultConfig(), 40)
}

func TestLowerAgreesWithEvalAIG(t *testing.T) {
	agree(t, aigBackend, gen.DefaultConfig(), 150)
}

func TestLowerAgreesWithEvalBDD(t *testing.T) {
	agree(t, bddBackend, gen.Config{Depth: 3, Width: 4, BoolVars: 3, BitvecVars: 3}, 60)
}

func TestLowerOddWidths(t *testing.T) {
	for _, w := range []stevia.BitvecTy{1, 3, 13, 64, 70} {
		agree(t, giniBackend, gen.Config{Depth: 3, Width: w, BoolVars: 2, BitvecVars: 2}, 20)
	}
}

func TestNotAndFalse(t *testing.T) {
	sink := encoders.NewGiniSink()
	l := bitblast.NewLowerer[z.Lit](encoders.NewTseitin(sink))

	x := stevia.NewBoolSymbol("x")
	and := must(stevia.NewAnd(x, stevia.NewBoolConst(false)))
	andLit, err := l.Formula(and)
	require.NoError(t, err)
	not := must(stevia.NewNot(stevia.Clone(and)))
	notLit, err := l.Formula(not)
	require.NoError(t, err)
	xLit, err := l.Formula(x)
	require.NoError(t, err)

	for _, xv := range []z.Lit{xLit, xLit.Not()} {
		assert.Equal(t, encoders.UNSAT, sink.Solve(xv, andLit))
		assert.Equal(t, encoders.UNSAT, sink.Solve(xv, notLit.Not()))
		assert.Equal(t, encoders.SAT, sink.Solve(xv, notLit))
	}
}

func TestSharedSubtrees(t *testing.T) {
	sink := encoders.NewGiniSink()
	l := bitblast.NewLowerer[z.Lit](encoders.NewTseitin(sink))
	mk := func() stevia.AnyExpr {
		a := must(stevia.NewBitvecSymbol("a", 8))
		b := must(stevia.NewBitvecSymbol("b", 8))
		return must(stevia.NewMul(8, a, b))
	}

	first, err := l.Term(mk())
	require.NoError(t, err)
	vars := sink.Vars()
	second, err := l.Term(mk())
	require.NoError(t, err)
	assert.Equal(t, vars, sink.Vars())
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b"}, l.Symbols())
}

func TestLowerErrors(t *testing.T) {
	l := bitblast.NewLowerer[z.Lit](encoders.NewTseitin(encoders.NewGiniSink()))

	_, err := l.Formula(must(stevia.NewBitvecSymbol("a", 8)))
	assert.True(t, errors.Is(err, bitblast.ErrNotFormula))

	require.NoError(t, l.Assert(stevia.NewBoolSymbol("p")))
	p8 := must(stevia.NewBitvecSymbol("p", 8))
	_, err = l.Formula(must(stevia.NewUlt(p8, must(stevia.NewBitvecConst(8, 3)))))
	assert.True(t, errors.Is(err, bitblast.ErrSymbolType))
}

// alien claims a kind nothing knows how to lower.
type alien struct {
	*stevia.BoolConst
}

func (alien) Kind() stevia.ExprKind { return stevia.ExprKind(200) }

func TestLowerUnsupportedKind(t *testing.T) {
	l := bitblast.NewLowerer[z.Lit](encoders.NewTseitin(encoders.NewGiniSink()))
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, stevia.ErrUnsupportedExpr))
	}()
	l.Formula(alien{stevia.NewBoolConst(true)})
	t.Error("Formula did not panic")
}

func TestWideModel(t *testing.T) {
	sink := encoders.NewGiniSink()
	l := bitblast.NewLowerer[z.Lit](encoders.NewTseitin(sink))

	av, err := fixint.FromBlocks(96, []fixint.Block{0xffffffffffffffff, 0x1234})
	require.NoError(t, err)
	bv := fixint.MustNew(96, 1)
	env := map[string]stevia.Value{
		"a": stevia.BitvecValue(av),
		"b": stevia.BitvecValue(bv),
		"h": stevia.BitvecValue(fixint.MustNew(16, 0xbeef)),
		"w": stevia.BitvecValue(fixint.MustNew(32, 0xdeadbeef)),
		"q": stevia.BitvecValue(fixint.MustNew(64, 1<<63)),
		"c": stevia.BitvecValue(fixint.MustNew(8, 0x7f)),
		"p": stevia.BoolValue(true),
	}
	sum := must(stevia.NewAdd(96, must(stevia.NewBitvecSymbol("a", 96)), must(stevia.NewBitvecSymbol("b", 96))))
	bits, err := l.Term(sum)
	require.NoError(t, err)
	bind(t, l, env)
	require.Equal(t, encoders.SAT, sink.Solve())

	want, err := av.Add(bv)
	require.NoError(t, err)
	for i, bit := range bits {
		assert.Equal(t, want.Bit(uint32(i)), sink.Value(bit), "bit %d", i)
	}

	model := l.DecodeModel(sink.Value)
	for name, v := range env {
		assert.True(t, v.Equal(model[name]), "%s is %s, want %s", name, model[name], v)
	}
	assert.Equal(t, fixint.Ext, model["a"].Bitvec().Storage())
}
