package stevia

import (
	"github.com/borzacchiello/stevia/fixint"
	"github.com/pkg/errors"
)

var ErrUnbound = errors.New("unbound symbol")

// Eval computes the value of e under env, which maps symbol names to values
// of the declared type. Shifting by the width or more yields zero, or the
// sign fill for arithmetic shifts.
func Eval(e AnyExpr, env map[string]Value) (Value, error) {
	if s, ok := e.(*Symbol); ok {
		v, ok := env[s.name]
		if !ok {
			return Value{}, errors.Wrapf(ErrUnbound, "Eval(): %s", s.name)
		}
		if v.Type() != s.ty {
			return Value{}, errors.Wrapf(ErrType, "Eval(): %s is %s, bound to %s", s.name, s.ty, v.Type())
		}
		return v, nil
	}

	args := make([]Value, 0, e.Arity())
	it := e.Children()
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		v, err := Eval(c, env)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	return apply(e, args)
}

type bvBinOp func(a, b *fixint.FixInt) (*fixint.FixInt, error)
type bvCmpOp func(a, b *fixint.FixInt) (bool, error)

func foldBitvec(args []Value, op bvBinOp) (Value, error) {
	res := args[0].bv
	for _, a := range args[1:] {
		var err error
		if res, err = op(res, a.bv); err != nil {
			return Value{}, err
		}
	}
	return BitvecValue(res), nil
}

func compare(args []Value, op bvCmpOp) (Value, error) {
	r, err := op(args[0].bv, args[1].bv)
	if err != nil {
		return Value{}, err
	}
	return BoolValue(r), nil
}

func bitvec(v *fixint.FixInt, err error) (Value, error) {
	if err != nil {
		return Value{}, err
	}
	return BitvecValue(v), nil
}

// apply evaluates a single node given the values of its children.
func apply(e AnyExpr, args []Value) (Value, error) {
	switch e := e.(type) {
	case *BoolConst:
		return BoolValue(e.value), nil
	case *BitvecConst:
		return BitvecValue(e.value.Clone()), nil

	case *Not:
		return BoolValue(!args[0].b), nil
	case *And:
		res := true
		for _, a := range args {
			res = res && a.b
		}
		return BoolValue(res), nil
	case *Or:
		res := false
		for _, a := range args {
			res = res || a.b
		}
		return BoolValue(res), nil
	case *Xor:
		return BoolValue(args[0].b != args[1].b), nil
	case *Implies:
		return BoolValue(!args[0].b || args[1].b), nil
	case *BoolEquals:
		return BoolValue(args[0].b == args[1].b), nil
	case *IfThenElse:
		if args[0].b {
			return args[1], nil
		}
		return args[2], nil

	case *Equals:
		return compare(args, (*fixint.FixInt).Eq)
	case *Ult:
		return compare(args, (*fixint.FixInt).Ult)
	case *Ule:
		return compare(args, (*fixint.FixInt).Ule)
	case *Slt:
		return compare(args, (*fixint.FixInt).Slt)
	case *Sle:
		return compare(args, (*fixint.FixInt).Sle)

	case *BitNot:
		return BitvecValue(args[0].bv.Not()), nil
	case *Neg:
		return BitvecValue(args[0].bv.Neg()), nil
	case *BitAnd:
		return foldBitvec(args, (*fixint.FixInt).And)
	case *BitOr:
		return foldBitvec(args, (*fixint.FixInt).Or)
	case *BitXor:
		return foldBitvec(args, (*fixint.FixInt).Xor)
	case *Add:
		return foldBitvec(args, (*fixint.FixInt).Add)
	case *Mul:
		return foldBitvec(args, (*fixint.FixInt).Mul)
	case *Sub:
		return foldBitvec(args, (*fixint.FixInt).Sub)
	case *Shl:
		return foldBitvec(args, (*fixint.FixInt).Shl)
	case *LogicalShiftRight:
		return foldBitvec(args, (*fixint.FixInt).Lshr)
	case *ArithmeticShiftRight:
		return foldBitvec(args, (*fixint.FixInt).Ashr)
	case *Concat:
		return BitvecValue(args[0].bv.Concat(args[1].bv)), nil
	case *Extract:
		return bitvec(args[0].bv.Extract(e.hi, e.lo))
	case *ZeroExtend:
		return bitvec(args[0].bv.ZeroExtend(uint32(e.ty)))
	case *SignExtend:
		return bitvec(args[0].bv.SignExtend(uint32(e.ty)))
	}
	panic(unsupported("Eval", e))
}

// Fold evaluates a node whose children are all constants and returns the
// resulting constant. ok is false when some child is not a constant.
func Fold(e AnyExpr) (res AnyExpr, ok bool, err error) {
	if e.Kind() == TY_SYMBOL {
		return nil, false, nil
	}
	args := make([]Value, 0, e.Arity())
	it := e.Children()
	for c, more := it.Next(); more; c, more = it.Next() {
		switch c := c.(type) {
		case *BoolConst:
			args = append(args, BoolValue(c.value))
		case *BitvecConst:
			args = append(args, BitvecValue(c.value))
		default:
			return nil, false, nil
		}
	}
	v, err := apply(e, args)
	if err != nil {
		return nil, false, err
	}
	return v.Expr(), true, nil
}
