package simplify

import (
	"github.com/borzacchiello/stevia"
	"github.com/borzacchiello/stevia/fixint"
)

// BitvecConstFolder replaces terms and predicates whose children are all
// constants with their value.
type BitvecConstFolder struct {
	NoopTransformer
}

func fold(e stevia.AnyExpr) Outcome {
	res, ok, err := stevia.Fold(e)
	if err != nil || !ok {
		return Unchanged(e)
	}
	return Rewritten(res)
}

func (BitvecConstFolder) TransformEquals(e *stevia.Equals) Outcome   { return fold(e) }
func (BitvecConstFolder) TransformUlt(e *stevia.Ult) Outcome         { return fold(e) }
func (BitvecConstFolder) TransformUle(e *stevia.Ule) Outcome         { return fold(e) }
func (BitvecConstFolder) TransformSlt(e *stevia.Slt) Outcome         { return fold(e) }
func (BitvecConstFolder) TransformSle(e *stevia.Sle) Outcome         { return fold(e) }
func (BitvecConstFolder) TransformBitNot(e *stevia.BitNot) Outcome   { return fold(e) }
func (BitvecConstFolder) TransformNeg(e *stevia.Neg) Outcome         { return fold(e) }
func (BitvecConstFolder) TransformBitAnd(e *stevia.BitAnd) Outcome   { return fold(e) }
func (BitvecConstFolder) TransformBitOr(e *stevia.BitOr) Outcome     { return fold(e) }
func (BitvecConstFolder) TransformBitXor(e *stevia.BitXor) Outcome   { return fold(e) }
func (BitvecConstFolder) TransformAdd(e *stevia.Add) Outcome         { return fold(e) }
func (BitvecConstFolder) TransformMul(e *stevia.Mul) Outcome         { return fold(e) }
func (BitvecConstFolder) TransformSub(e *stevia.Sub) Outcome         { return fold(e) }
func (BitvecConstFolder) TransformShl(e *stevia.Shl) Outcome         { return fold(e) }
func (BitvecConstFolder) TransformConcat(e *stevia.Concat) Outcome   { return fold(e) }
func (BitvecConstFolder) TransformExtract(e *stevia.Extract) Outcome { return fold(e) }

func (BitvecConstFolder) TransformLogicalShiftRight(e *stevia.LogicalShiftRight) Outcome {
	return fold(e)
}

func (BitvecConstFolder) TransformArithmeticShiftRight(e *stevia.ArithmeticShiftRight) Outcome {
	return fold(e)
}

func (BitvecConstFolder) TransformZeroExtend(e *stevia.ZeroExtend) Outcome { return fold(e) }
func (BitvecConstFolder) TransformSignExtend(e *stevia.SignExtend) Outcome { return fold(e) }

// NeutralElementRemover drops the neutral operands of arithmetic and bitwise
// terms and collapses the terms absorbed by a constant.
type NeutralElementRemover struct {
	NoopTransformer
}

func bitvecConst(e stevia.AnyExpr) (*fixint.FixInt, bool) {
	if c, ok := e.(*stevia.BitvecConst); ok {
		return c.Value(), true
	}
	return nil, false
}

func constant(ty stevia.BitvecTy, all bool) stevia.AnyExpr {
	if all {
		v, _ := fixint.FromInt64(uint32(ty), -1)
		return stevia.MustLift(stevia.NewBitvecConstFrom(v))
	}
	return stevia.MustLift(stevia.NewBitvecConst(ty, 0))
}

type pruning struct {
	neutral   func(*fixint.FixInt) bool
	absorbing func(*fixint.FixInt) bool
	// identity builds the value of a node left without operands
	identity func() stevia.AnyExpr
}

func (p pruning) apply(orig stevia.AnyExpr, ops []stevia.AnyExpr, rebuild func(...stevia.AnyExpr) (stevia.AnyExpr, error)) Outcome {
	kept := make([]stevia.AnyExpr, 0, len(ops))
	for _, op := range ops {
		v, ok := bitvecConst(op)
		if !ok {
			kept = append(kept, op)
			continue
		}
		if p.absorbing != nil && p.absorbing(v) {
			return Rewritten(op)
		}
		if !p.neutral(v) {
			kept = append(kept, op)
		}
	}
	switch len(kept) {
	case len(ops):
		return Unchanged(orig)
	case 0:
		return Rewritten(p.identity())
	case 1:
		return Rewritten(kept[0])
	}
	res, err := rebuild(kept...)
	return replace(orig, res, err)
}

func (NeutralElementRemover) TransformAdd(e *stevia.Add) Outcome {
	p := pruning{
		neutral:  (*fixint.FixInt).IsZero,
		identity: func() stevia.AnyExpr { return constant(e.Width(), false) },
	}
	return p.apply(e, e.Operands(), func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewAdd(e.Width(), ops...))
	})
}

func (NeutralElementRemover) TransformMul(e *stevia.Mul) Outcome {
	p := pruning{
		neutral:   (*fixint.FixInt).IsOne,
		absorbing: (*fixint.FixInt).IsZero,
		identity: func() stevia.AnyExpr {
			return stevia.MustLift(stevia.NewBitvecConst(e.Width(), 1))
		},
	}
	return p.apply(e, e.Operands(), func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewMul(e.Width(), ops...))
	})
}

func (NeutralElementRemover) TransformBitAnd(e *stevia.BitAnd) Outcome {
	p := pruning{
		neutral:   (*fixint.FixInt).HasAllBitsSet,
		absorbing: (*fixint.FixInt).IsZero,
		identity:  func() stevia.AnyExpr { return constant(e.Width(), true) },
	}
	return p.apply(e, e.Operands(), func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewBitAnd(e.Width(), ops...))
	})
}

func (NeutralElementRemover) TransformBitOr(e *stevia.BitOr) Outcome {
	p := pruning{
		neutral:   (*fixint.FixInt).IsZero,
		absorbing: (*fixint.FixInt).HasAllBitsSet,
		identity:  func() stevia.AnyExpr { return constant(e.Width(), false) },
	}
	return p.apply(e, e.Operands(), func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewBitOr(e.Width(), ops...))
	})
}

func (NeutralElementRemover) TransformBitXor(e *stevia.BitXor) Outcome {
	p := pruning{
		neutral:  (*fixint.FixInt).IsZero,
		identity: func() stevia.AnyExpr { return constant(e.Width(), false) },
	}
	return p.apply(e, e.Operands(), func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewBitXor(e.Width(), ops...))
	})
}

// zeroRhs rewrites x op 0 into x.
func zeroRhs(e stevia.AnyExpr, lhs, rhs stevia.AnyExpr) Outcome {
	if v, ok := bitvecConst(rhs); ok && v.IsZero() {
		return Rewritten(lhs)
	}
	return Unchanged(e)
}

func (NeutralElementRemover) TransformSub(e *stevia.Sub) Outcome {
	return zeroRhs(e, e.Lhs(), e.Rhs())
}

func (NeutralElementRemover) TransformShl(e *stevia.Shl) Outcome {
	return zeroRhs(e, e.Lhs(), e.Rhs())
}

func (NeutralElementRemover) TransformLogicalShiftRight(e *stevia.LogicalShiftRight) Outcome {
	return zeroRhs(e, e.Lhs(), e.Rhs())
}

func (NeutralElementRemover) TransformArithmeticShiftRight(e *stevia.ArithmeticShiftRight) Outcome {
	return zeroRhs(e, e.Lhs(), e.Rhs())
}
