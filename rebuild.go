package stevia

import "github.com/pkg/errors"

// Lift turns the result of a typed constructor into an AnyExpr result, so
// that a failing constructor never yields a non-nil interface.
func Lift[T AnyExpr](e T, err error) (AnyExpr, error) {
	if err != nil {
		return nil, err
	}
	return e, nil
}

// MustLift is like Lift but panics on a construction error.
func MustLift[T AnyExpr](e T, err error) AnyExpr {
	if err != nil {
		panic(err)
	}
	return e
}

func wantChildren(e AnyExpr, children []AnyExpr, n int) error {
	if len(children) != n {
		return errors.Wrapf(ErrArity, "Rebuild(): %s takes %d children, got %d", e.Kind(), n, len(children))
	}
	return nil
}

// Rebuild returns a node of the same kind and parameters as e over the given
// children. The children go through the regular constructor checks, n-ary
// kinds accept any number of at least two children. e itself is left
// untouched.
func Rebuild(e AnyExpr, children []AnyExpr) (AnyExpr, error) {
	var n int
	switch e.(type) {
	case *And, *Or, *BitAnd, *BitOr, *BitXor, *Add, *Mul:
		n = -1
	default:
		n = e.Arity()
	}
	if n >= 0 {
		if err := wantChildren(e, children, n); err != nil {
			return nil, err
		}
	}

	switch e := e.(type) {
	case *BoolConst:
		return NewBoolConst(e.value), nil
	case *Symbol:
		return &Symbol{name: e.name, ty: e.ty}, nil
	case *BitvecConst:
		return Lift(NewBitvecConstFrom(e.value.Clone()))

	case *Not:
		return Lift(NewNot(children[0]))
	case *And:
		return Lift(NewAnd(children...))
	case *Or:
		return Lift(NewOr(children...))
	case *Xor:
		return Lift(NewXor(children[0], children[1]))
	case *Implies:
		return Lift(NewImplies(children[0], children[1]))
	case *BoolEquals:
		return Lift(NewBoolEquals(children[0], children[1]))
	case *IfThenElse:
		return Lift(NewIfThenElse(children[0], children[1], children[2]))
	case *Equals:
		return Lift(NewEquals(children[0], children[1]))
	case *Ult:
		return Lift(NewUlt(children[0], children[1]))
	case *Ule:
		return Lift(NewUle(children[0], children[1]))
	case *Slt:
		return Lift(NewSlt(children[0], children[1]))
	case *Sle:
		return Lift(NewSle(children[0], children[1]))

	case *BitNot:
		return Lift(NewBitNot(e.ty, children[0]))
	case *Neg:
		return Lift(NewNeg(e.ty, children[0]))
	case *BitAnd:
		return Lift(NewBitAnd(e.ty, children...))
	case *BitOr:
		return Lift(NewBitOr(e.ty, children...))
	case *BitXor:
		return Lift(NewBitXor(e.ty, children...))
	case *Add:
		return Lift(NewAdd(e.ty, children...))
	case *Mul:
		return Lift(NewMul(e.ty, children...))
	case *Sub:
		return Lift(NewSub(e.ty, children[0], children[1]))
	case *Shl:
		return Lift(NewShl(e.ty, children[0], children[1]))
	case *LogicalShiftRight:
		return Lift(NewLogicalShiftRight(e.ty, children[0], children[1]))
	case *ArithmeticShiftRight:
		return Lift(NewArithmeticShiftRight(e.ty, children[0], children[1]))
	case *Concat:
		return Lift(NewConcat(children[0], children[1]))
	case *Extract:
		return Lift(NewExtract(children[0], e.hi, e.lo))
	case *ZeroExtend:
		return Lift(NewZeroExtend(children[0], e.ty))
	case *SignExtend:
		return Lift(NewSignExtend(children[0], e.ty))
	}
	panic(unsupported("Rebuild", e))
}

// Clone returns a deep copy of e sharing nothing with it.
func Clone(e AnyExpr) AnyExpr {
	it := e.Children()
	children := make([]AnyExpr, 0, e.Arity())
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		children = append(children, Clone(c))
	}
	res, err := Rebuild(e, children)
	if err != nil {
		// the children are copies of well-typed ones
		panic(err)
	}
	return res
}
