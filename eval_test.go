package stevia

import (
	"testing"

	"github.com/borzacchiello/stevia/fixint"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bv(bits uint32, v uint64) Value {
	return BitvecValue(fixint.MustNew(bits, v))
}

func TestEval1(t *testing.T) {
	a, b := bvs("a", 32), bvs("b", 32)
	e := must(NewAdd(32, a, b))

	env := map[string]Value{"a": bv(32, 42), "b": bv(32, 0xffffffff)}
	v, err := Eval(e, env)
	if err != nil {
		t.Error(err)
		return
	}
	if !v.Equal(bv(32, 41)) {
		t.Error("invalid eval", v)
	}
}

func TestEvalBitvec(t *testing.T) {
	env := map[string]Value{"a": bv(8, 0x81), "b": bv(8, 3)}
	a := func() AnyExpr { return bvs("a", 8) }
	b := func() AnyExpr { return bvs("b", 8) }

	tests := []struct {
		name string
		expr AnyExpr
		want Value
	}{
		{"sub", must(NewSub(8, b(), a())), bv(8, 0x82)},
		{"mul", must(NewMul(8, a(), b())), bv(8, 0x83)},
		{"neg", must(NewNeg(8, b())), bv(8, 0xfd)},
		{"bitnot", must(NewBitNot(8, a())), bv(8, 0x7e)},
		{"bitand", must(NewBitAnd(8, a(), b())), bv(8, 0x01)},
		{"bitor", must(NewBitOr(8, a(), b())), bv(8, 0x83)},
		{"bitxor", must(NewBitXor(8, a(), b(), bvc(8, 0xff))), bv(8, 0x7d)},
		{"shl", must(NewShl(8, a(), b())), bv(8, 0x08)},
		{"lshr", must(NewLogicalShiftRight(8, a(), b())), bv(8, 0x10)},
		{"ashr", must(NewArithmeticShiftRight(8, a(), b())), bv(8, 0xf0)},
		{"shl overshift", must(NewShl(8, a(), bvc(8, 9))), bv(8, 0)},
		{"lshr overshift", must(NewLogicalShiftRight(8, a(), bvc(8, 200))), bv(8, 0)},
		{"ashr overshift", must(NewArithmeticShiftRight(8, a(), bvc(8, 8))), bv(8, 0xff)},
		{"concat", must(NewConcat(a(), b())), bv(16, 0x8103)},
		{"extract", must(NewExtract(a(), 7, 4)), bv(4, 0x8)},
		{"zext", must(NewZeroExtend(a(), 16)), bv(16, 0x81)},
		{"sext", must(NewSignExtend(a(), 16)), bv(16, 0xff81)},
		{"ite", must(NewIfThenElse(NewBoolConst(false), a(), b())), bv(8, 3)},
		{"ult", must(NewUlt(b(), a())), BoolValue(true)},
		{"slt", must(NewSlt(b(), a())), BoolValue(false)},
		{"sle", must(NewSle(a(), a())), BoolValue(true)},
		{"ule", must(NewUle(a(), b())), BoolValue(false)},
		{"equals", must(NewEquals(a(), bvc(8, 0x81))), BoolValue(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Eval(tt.expr, env)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(v), "got %s, want %s", v, tt.want)
		})
	}
}

func TestEvalWide(t *testing.T) {
	a := bvs("a", 128)
	one := must(NewBitvecConstFrom(fixint.MustNew(128, 1)))
	e := must(NewAdd(128, a, one))

	all, err := fixint.FromInt64(128, -1)
	require.NoError(t, err)
	v, err := Eval(e, map[string]Value{"a": BitvecValue(all)})
	require.NoError(t, err)
	assert.True(t, v.Bitvec().IsZero())
}

func TestEvalBool(t *testing.T) {
	env := map[string]Value{"x": BoolValue(true), "y": BoolValue(false)}
	x := func() AnyExpr { return NewBoolSymbol("x") }
	y := func() AnyExpr { return NewBoolSymbol("y") }

	cases := map[AnyExpr]bool{
		must(NewAnd(x(), y())):        false,
		must(NewOr(x(), y())):         true,
		must(NewXor(x(), y())):        true,
		must(NewImplies(y(), x())):    true,
		must(NewImplies(x(), y())):    false,
		must(NewBoolEquals(x(), y())): false,
		must(NewNot(y())):             true,
	}
	for e, want := range cases {
		v, err := Eval(e, env)
		require.NoError(t, err)
		assert.Equal(t, want, v.Bool(), e.String())
	}
}

func TestEvalErrors(t *testing.T) {
	_, err := Eval(must(NewNot(NewBoolSymbol("x"))), nil)
	assert.True(t, errors.Is(err, ErrUnbound))

	_, err = Eval(bvs("a", 8), map[string]Value{"a": bv(16, 1)})
	assert.True(t, errors.Is(err, ErrType))
}

func TestFold(t *testing.T) {
	e := must(NewAdd(8, bvc(8, 200), bvc(8, 100)))
	res, ok, err := Fold(e)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0x2c", res.String())

	_, ok, err = Fold(must(NewAdd(8, bvc(8, 1), bvs("a", 8))))
	require.NoError(t, err)
	assert.False(t, ok)
}
