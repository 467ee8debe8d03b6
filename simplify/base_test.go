package simplify

import (
	"testing"

	"github.com/borzacchiello/stevia"
	"github.com/borzacchiello/stevia/internal/gen"
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

func TestTransformResultMonoid(t *testing.T) {
	all := []TransformResult{Identity, Transformed}
	for _, a := range all {
		assert.Equal(t, a, a.Or(Identity))
		assert.Equal(t, a, Identity.Or(a))
		assert.Equal(t, Transformed, a.Or(Transformed))
		for _, b := range all {
			assert.Equal(t, a.Or(b), b.Or(a))
			for _, c := range all {
				assert.Equal(t, a.Or(b).Or(c), a.Or(b.Or(c)))
			}
		}
	}

	r := Identity
	r.Merge(Identity)
	assert.Equal(t, Identity, r)
	r.Merge(Transformed)
	r.Merge(Identity)
	assert.Equal(t, Transformed, r)
	assert.Equal(t, "Transformed", r.String())
}

func notAndFalse() stevia.AnyExpr {
	and := must(stevia.NewAnd(stevia.NewBoolSymbol("x"), stevia.NewBoolConst(false)))
	return must(stevia.NewNot(and))
}

func TestNotAndFalse(t *testing.T) {
	e := notAndFalse()

	res := NewBaseTransformer(AndOrAbsorber{}).TransformAnyExpr(&e)
	assert.Equal(t, Transformed, res)
	assert.Equal(t, "!F", e.String())

	both := NewBaseTransformer(AndOrAbsorber{}, NotEliminator{})
	res = both.TransformAnyExpr(&e)
	assert.Equal(t, Transformed, res)
	assert.Equal(t, "T", e.String())

	res = both.TransformAnyExpr(&e)
	assert.Equal(t, Identity, res)
	assert.Equal(t, "T", e.String())
}

func TestSinglePassRewritesParentAfterChildren(t *testing.T) {
	out := NewBaseTransformer(AndOrAbsorber{}, NotEliminator{}).IntoTransformAnyExpr(notAndFalse())
	assert.Equal(t, Transformed, out.Result)
	c, ok := out.Expr.(*stevia.BoolConst)
	require.True(t, ok)
	assert.True(t, c.Value())
}

func TestNoopTransformer(t *testing.T) {
	e := notAndFalse()
	res := NewBaseTransformer(NoopTransformer{}).TransformAnyExpr(&e)
	assert.Equal(t, Identity, res)
	assert.Equal(t, "!(x && F)", e.String())
}

// spy records what the slot holds while the node is being transformed.
type spy struct {
	NoopTransformer
	slot *stevia.AnyExpr
	seen stevia.AnyExpr
}

func (s *spy) TransformSymbol(e *stevia.Symbol) Outcome {
	s.seen = *s.slot
	return Rewritten(stevia.NewBoolSymbol(e.Name() + "'"))
}

func TestPlaceholderWhileTransforming(t *testing.T) {
	var e stevia.AnyExpr = stevia.NewBoolSymbol("x")
	s := &spy{slot: &e}

	res := AsAny(s).TransformAnyExpr(&e)
	assert.Equal(t, Transformed, res)
	assert.Equal(t, "x'", e.String())

	placeholder, ok := s.seen.(*stevia.BoolConst)
	require.True(t, ok)
	assert.False(t, placeholder.Value())
}

// flipper always rewrites constants, so it never reaches a fixpoint.
type flipper struct {
	NoopTransformer
}

func (flipper) TransformBoolConst(e *stevia.BoolConst) Outcome {
	return Rewritten(stevia.NewBoolConst(!e.Value()))
}

func TestFixpointBound(t *testing.T) {
	var e stevia.AnyExpr = stevia.NewBoolConst(true)
	passes, res, err := NewBaseTransformer(flipper{}).Fixpoint(&e, 3)
	assert.True(t, errors.Is(err, ErrNoFixpoint))
	assert.Equal(t, 3, passes)
	assert.Equal(t, Transformed, res)
	assert.Equal(t, "F", e.String())
}

func TestFixpoint(t *testing.T) {
	e := notAndFalse()
	pipeline, err := Pipeline(DefaultPipelineConfig())
	require.NoError(t, err)

	passes, res, err := pipeline.Fixpoint(&e, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, passes)
	assert.Equal(t, Transformed, res)
	assert.Equal(t, "T", e.String())
}

// alien claims a kind no transformer knows about.
type alien struct {
	*stevia.BoolConst
}

func (alien) Kind() stevia.ExprKind { return stevia.ExprKind(200) }

func TestUnsupportedKindPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, stevia.ErrUnsupportedExpr))
	}()
	Forward(NoopTransformer{}, alien{stevia.NewBoolConst(true)})
	t.Error("Forward did not panic")
}

func TestIdempotentAtFixpoint(t *testing.T) {
	pipeline, err := Pipeline(DefaultPipelineConfig())
	require.NoError(t, err)

	for seed := int64(0); seed < 200; seed++ {
		g := gen.New(seed, gen.DefaultConfig())
		e := g.Formula()
		orig := stevia.Clone(e)

		_, _, err := pipeline.Fixpoint(&e, 0)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, Identity, pipeline.TransformAnyExpr(&e), "seed %d", seed)

		for i := 0; i < 4; i++ {
			env := g.Env()
			want, err := stevia.Eval(orig, env)
			require.NoError(t, err)
			got, err := stevia.Eval(e, env)
			require.NoError(t, err)
			require.True(t, want.Equal(got), "seed %d: %s simplified to %s", seed, orig, e)
		}
	}
}
