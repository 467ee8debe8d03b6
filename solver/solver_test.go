package solver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/borzacchiello/stevia"
	"github.com/borzacchiello/stevia/bitblast"
	"github.com/borzacchiello/stevia/internal/gen"
	"github.com/borzacchiello/stevia/simplify"
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

func bvs(name string) stevia.AnyExpr {
	return must(stevia.NewBitvecSymbol(name, 32))
}

func bvc(v uint64) stevia.AnyExpr {
	return must(stevia.NewBitvecConst(32, v))
}

func newSolver(t *testing.T, backend string) *Solver {
	cfg := DefaultConfig()
	cfg.Backend = backend
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestSolverSat1(t *testing.T) {
	for _, backend := range Backends() {
		s := newSolver(t, backend)
		require.NoError(t, s.Add(must(stevia.NewUle(bvs("a"), bvc(42)))))

		sat, err := s.CheckSat(must(stevia.NewUle(bvc(21), bvs("a"))))
		require.NoError(t, err)
		if sat != RESULT_SAT {
			t.Error(backend, "should be sat")
			return
		}

		m := s.Model()
		a, ok := m["a"]
		if !ok {
			t.Error(backend, "unable to find the assignment")
			return
		}
		v := a.Bitvec().Uint64()
		assert.True(t, v >= 21 && v <= 42, "%s: a = %d", backend, v)
	}
}

func TestSolverUnsat(t *testing.T) {
	for _, backend := range Backends() {
		s := newSolver(t, backend)
		require.NoError(t, s.Add(must(stevia.NewUlt(bvs("a"), bvc(10)))))
		require.NoError(t, s.Add(must(stevia.NewUlt(bvc(20), bvs("a")))))
		res, err := s.Check()
		require.NoError(t, err)
		assert.Equal(t, RESULT_UNSAT, res, backend)
	}
}

func TestSolverEval1(t *testing.T) {
	s := newSolver(t, "gini")
	require.NoError(t, s.Add(must(stevia.NewUle(bvs("a"), bvc(42)))))
	require.NoError(t, s.Add(must(stevia.NewUle(bvc(21), bvs("a")))))

	v, err := s.Eval(bvs("a"))
	require.NoError(t, err)
	aVal := v.Bitvec().Uint64()
	if aVal > 42 || aVal < 21 {
		t.Error("invalid eval value")
		return
	}
}

func TestSolverEval2(t *testing.T) {
	s := newSolver(t, "gini")
	require.NoError(t, s.Add(must(stevia.NewUle(bvs("a"), bvc(42)))))
	require.NoError(t, s.Add(must(stevia.NewUle(bvc(21), bvs("a")))))

	vals, err := s.EvalUpto(bvs("a"), 128)
	require.NoError(t, err)
	if len(vals) != 42-21+1 {
		t.Error("unable to find all values")
		return
	}
	seen := map[uint64]bool{}
	for _, v := range vals {
		seen[v.Bitvec().Uint64()] = true
	}
	assert.Len(t, seen, 42-21+1)
}

func TestSolverEvalUnsat(t *testing.T) {
	s := newSolver(t, "gini")
	require.NoError(t, s.Add(must(stevia.NewEquals(bvs("a"), bvc(1)))))
	require.NoError(t, s.Add(must(stevia.NewEquals(bvs("a"), bvc(2)))))
	_, err := s.Eval(bvs("a"))
	assert.True(t, errors.Is(err, ErrUnsatisfiable))
}

func TestConstantConstraints(t *testing.T) {
	s := newSolver(t, "gini")
	x := stevia.NewBoolSymbol("x")
	require.NoError(t, s.Add(must(stevia.NewImplies(stevia.NewBoolConst(false), x))))
	require.NoError(t, s.Add(stevia.NewBoolConst(true)))
	assert.Empty(t, s.Constraints())

	res, err := s.Check()
	require.NoError(t, err)
	assert.Equal(t, RESULT_SAT, res)

	require.NoError(t, s.Add(must(stevia.NewAnd(stevia.NewBoolSymbol("y"), stevia.NewBoolConst(false)))))
	res, err = s.Check()
	require.NoError(t, err)
	assert.Equal(t, RESULT_UNSAT, res)

	var buf bytes.Buffer
	require.NoError(t, s.WriteDimacs(&buf))
	assert.True(t, strings.HasSuffix(buf.String(), "\n0\n"))
}

func TestDuplicateConstraints(t *testing.T) {
	s := newSolver(t, "gini")
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Add(must(stevia.NewUle(bvs("a"), bvc(42)))))
	}
	assert.Len(t, s.Constraints(), 1)
}

func TestAddErrors(t *testing.T) {
	s := newSolver(t, "gini")
	err := s.Add(bvs("a"))
	assert.True(t, errors.Is(err, bitblast.ErrNotFormula))

	require.NoError(t, s.Add(stevia.NewBoolSymbol("p")))
	err = s.Add(must(stevia.NewEquals(must(stevia.NewBitvecSymbol("p", 8)), must(stevia.NewBitvecConst(8, 0)))))
	assert.True(t, errors.Is(err, bitblast.ErrSymbolType))
	assert.Len(t, s.Constraints(), 1)

	_, err = New(Config{Backend: "minisat", Pipeline: simplify.DefaultPipelineConfig()})
	assert.True(t, errors.Is(err, ErrUnknownBackend))
	_, err = New(Config{Backend: "gini", Pipeline: simplify.PipelineConfig{Passes: []string{"nope"}}})
	assert.True(t, errors.Is(err, simplify.ErrUnknownPass))
}

func TestDependentConstraints(t *testing.T) {
	s := newSolver(t, "gini")
	require.NoError(t, s.Add(must(stevia.NewEquals(bvs("a"), bvs("b")))))
	require.NoError(t, s.Add(must(stevia.NewEquals(bvs("b"), bvc(7)))))
	require.NoError(t, s.Add(must(stevia.NewEquals(bvs("c"), bvc(1)))))

	deps := s.dependentConstraints(bvs("a"))
	assert.Len(t, deps, 2)

	res, err := s.CheckSat(must(stevia.NewEquals(bvs("a"), bvc(8))))
	require.NoError(t, err)
	assert.Equal(t, RESULT_UNSAT, res)

	res, err = s.CheckSat(must(stevia.NewEquals(bvs("a"), bvc(7))))
	require.NoError(t, err)
	require.Equal(t, RESULT_SAT, res)
	_, ok := s.Model()["c"]
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	s := newSolver(t, "gini")
	require.NoError(t, s.Add(must(stevia.NewEquals(bvs("a"), bvc(7)))))
	c := s.Clone()
	require.NoError(t, c.Add(must(stevia.NewEquals(bvs("a"), bvc(8)))))

	res, err := s.Check()
	require.NoError(t, err)
	assert.Equal(t, RESULT_SAT, res)
	res, err = c.Check()
	require.NoError(t, err)
	assert.Equal(t, RESULT_UNSAT, res)
}

// Every backend must reach the same verdict, and every model must satisfy
// the original formula.
func TestBackendsAgree(t *testing.T) {
	for seed := int64(0); seed < 60; seed++ {
		g := gen.New(seed, gen.Config{Depth: 4, Width: 6, BoolVars: 3, BitvecVars: 3})
		f := g.Formula()

		var verdicts []int
		for _, backend := range Backends() {
			s := newSolver(t, backend)
			require.NoError(t, s.Add(f))
			res, err := s.Check()
			require.NoError(t, err)
			verdicts = append(verdicts, res)
			if res != RESULT_SAT {
				continue
			}

			env := g.Env()
			for name, v := range s.Model() {
				env[name] = v
			}
			v, err := stevia.Eval(f, env)
			require.NoError(t, err)
			assert.True(t, v.Bool(), "seed %d, %s: model does not satisfy %s", seed, backend, f)
		}
		for _, v := range verdicts[1:] {
			assert.Equal(t, verdicts[0], v, "seed %d: %s", seed, f)
		}
	}
}
