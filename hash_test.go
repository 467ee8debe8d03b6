package stevia

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type opaque struct {
	leaf
	formula
}

func (opaque) Kind() ExprKind { return ExprKind(200) }
func (opaque) String() string { return "opaque" }

func sample() AnyExpr {
	a, b := bvs("a", 8), bvs("b", 8)
	sum := must(NewAdd(8, a, b, bvc(8, 3)))
	cmp := must(NewUlt(sum, must(NewExtract(bvs("c", 16), 11, 4))))
	return must(NewAnd(cmp, NewBoolSymbol("x"), must(NewNot(NewBoolConst(false)))))
}

func TestHashEqual(t *testing.T) {
	e1, e2 := sample(), sample()

	assert.True(t, Equal(e1, e2))
	assert.Equal(t, Hash(e1), Hash(e2))

	e3 := must(NewAnd(NewBoolSymbol("x"), NewBoolSymbol("y")))
	e4 := must(NewAnd(NewBoolSymbol("x"), NewBoolSymbol("z")))
	assert.False(t, Equal(e3, e4))
	assert.NotEqual(t, Hash(e3), Hash(e4))

	// same name, different type
	assert.False(t, Equal(NewBoolSymbol("a"), bvs("a", 8)))
	assert.False(t, Equal(bvc(8, 1), bvc(16, 1)))
	assert.False(t, Equal(must(NewExtract(bvs("a", 8), 3, 0)), must(NewExtract(bvs("a", 8), 4, 1))))
}

func TestCloneIsDeep(t *testing.T) {
	e := sample()
	cpy := Clone(e)
	require.True(t, Equal(e, cpy))

	it := cpy.ChildrenMut()
	slot, _ := it.Next()
	*slot = NewBoolConst(true)

	assert.False(t, Equal(e, cpy))
	orig := e.Children()
	assert.Equal(t, TY_ULT, orig.Collect()[0].Kind())
}

func TestRebuild(t *testing.T) {
	e := must(NewSub(8, bvs("a", 8), bvs("b", 8)))

	r, err := Rebuild(e, []AnyExpr{bvs("c", 8), bvs("d", 8)})
	require.NoError(t, err)
	assert.Equal(t, "c - d", r.String())

	_, err = Rebuild(e, []AnyExpr{bvs("c", 8)})
	assert.True(t, errors.Is(err, ErrArity))

	_, err = Rebuild(e, []AnyExpr{bvs("c", 8), bvs("d", 4)})
	assert.True(t, errors.Is(err, ErrType))

	// n-ary kinds change their arity freely
	add := must(NewAdd(8, bvs("a", 8), bvs("b", 8)))
	r, err = Rebuild(add, []AnyExpr{bvs("a", 8), bvs("b", 8), bvs("c", 8)})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Arity())
}

func TestUnsupportedKindPanics(t *testing.T) {
	err := recoverErr(func() { Rebuild(&opaque{}, nil) })
	assert.True(t, errors.Is(err, ErrUnsupportedExpr))

	err = recoverErr(func() { Eval(&opaque{}, nil) })
	assert.True(t, errors.Is(err, ErrUnsupportedExpr))
}
