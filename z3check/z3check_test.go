//go:build z3

package z3check

import (
	"testing"

	"github.com/borzacchiello/stevia"
	"github.com/borzacchiello/stevia/internal/gen"
	"github.com/borzacchiello/stevia/simplify"
	"github.com/borzacchiello/stevia/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	a, err := stevia.NewBitvecSymbol("a", 32)
	require.NoError(t, err)
	c, err := stevia.NewBitvecConst(32, 42)
	require.NoError(t, err)
	ult, err := stevia.NewUlt(a, c)
	require.NoError(t, err)

	sat, err := Check(ult)
	require.NoError(t, err)
	assert.True(t, sat)

	zero, err := stevia.NewBitvecConst(32, 0)
	require.NoError(t, err)
	never, err := stevia.NewUlt(stevia.Clone(a), zero)
	require.NoError(t, err)
	sat, err = Check(never)
	require.NoError(t, err)
	assert.False(t, sat)
}

func TestSimplifierPreservesEquivalence(t *testing.T) {
	pipeline, err := simplify.Pipeline(simplify.DefaultPipelineConfig())
	require.NoError(t, err)
	for seed := int64(0); seed < 100; seed++ {
		f := gen.New(seed, gen.DefaultConfig()).Formula()
		simplified := stevia.Clone(f)
		_, _, err := pipeline.Fixpoint(&simplified, 0)
		require.NoError(t, err)

		eq, err := Equivalent(f, simplified)
		require.NoError(t, err)
		assert.True(t, eq, "seed %d: %s vs %s", seed, f, simplified)
	}
}

func TestSolverAgreesWithZ3(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		f := gen.New(seed, gen.DefaultConfig()).Formula()
		want, err := Check(f)
		require.NoError(t, err)

		s, err := solver.New(solver.DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, s.Add(f))
		res, err := s.Check()
		require.NoError(t, err)
		assert.Equal(t, want, res == solver.RESULT_SAT, "seed %d: %s", seed, f)
	}
}
