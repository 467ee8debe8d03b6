package simplify

import "github.com/borzacchiello/stevia"

func boolConst(e stevia.AnyExpr) (value, ok bool) {
	if c, isConst := e.(*stevia.BoolConst); isConst {
		return c.Value(), true
	}
	return false, false
}

// replace applies a rewrite unless building the replacement failed, in which
// case the original node is kept.
func replace(orig, res stevia.AnyExpr, err error) Outcome {
	if err != nil {
		return Unchanged(orig)
	}
	return Rewritten(res)
}

func negate(orig, x stevia.AnyExpr) Outcome {
	if v, ok := boolConst(x); ok {
		return Rewritten(stevia.NewBoolConst(!v))
	}
	res, err := stevia.Lift(stevia.NewNot(x))
	return replace(orig, res, err)
}

// AndOrAbsorber removes constants from conjunctions and disjunctions: a
// dominating constant absorbs the whole node, a neutral one is dropped.
type AndOrAbsorber struct {
	NoopTransformer
}

func absorb(orig stevia.AnyExpr, ops []stevia.AnyExpr, dominant bool, rebuild func(...stevia.AnyExpr) (stevia.AnyExpr, error)) Outcome {
	kept := make([]stevia.AnyExpr, 0, len(ops))
	for _, op := range ops {
		v, ok := boolConst(op)
		if !ok {
			kept = append(kept, op)
			continue
		}
		if v == dominant {
			return Rewritten(stevia.NewBoolConst(dominant))
		}
	}
	switch len(kept) {
	case len(ops):
		return Unchanged(orig)
	case 0:
		return Rewritten(stevia.NewBoolConst(!dominant))
	case 1:
		return Rewritten(kept[0])
	}
	res, err := rebuild(kept...)
	return replace(orig, res, err)
}

func (AndOrAbsorber) TransformAnd(e *stevia.And) Outcome {
	return absorb(e, e.Operands(), false, func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewAnd(ops...))
	})
}

func (AndOrAbsorber) TransformOr(e *stevia.Or) Outcome {
	return absorb(e, e.Operands(), true, func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewOr(ops...))
	})
}

// NotEliminator folds negated constants and double negations.
type NotEliminator struct {
	NoopTransformer
}

func (NotEliminator) TransformNot(e *stevia.Not) Outcome {
	switch inner := e.Inner().(type) {
	case *stevia.BoolConst:
		return Rewritten(stevia.NewBoolConst(!inner.Value()))
	case *stevia.Not:
		return Rewritten(inner.Inner())
	}
	return Unchanged(e)
}

// ConnectiveFolder evaluates the binary connectives and if-then-else nodes
// having constant operands.
type ConnectiveFolder struct {
	NoopTransformer
}

func (ConnectiveFolder) TransformXor(e *stevia.Xor) Outcome {
	lhs, rhs := e.Lhs(), e.Rhs()
	if v, ok := boolConst(lhs); ok {
		if v {
			return negate(e, rhs)
		}
		return Rewritten(rhs)
	}
	if v, ok := boolConst(rhs); ok {
		if v {
			return negate(e, lhs)
		}
		return Rewritten(lhs)
	}
	if stevia.Equal(lhs, rhs) {
		return Rewritten(stevia.NewBoolConst(false))
	}
	return Unchanged(e)
}

func (ConnectiveFolder) TransformImplies(e *stevia.Implies) Outcome {
	lhs, rhs := e.Lhs(), e.Rhs()
	if v, ok := boolConst(lhs); ok {
		if v {
			return Rewritten(rhs)
		}
		return Rewritten(stevia.NewBoolConst(true))
	}
	if v, ok := boolConst(rhs); ok {
		if v {
			return Rewritten(stevia.NewBoolConst(true))
		}
		return negate(e, lhs)
	}
	if stevia.Equal(lhs, rhs) {
		return Rewritten(stevia.NewBoolConst(true))
	}
	return Unchanged(e)
}

func (ConnectiveFolder) TransformBoolEquals(e *stevia.BoolEquals) Outcome {
	lhs, rhs := e.Lhs(), e.Rhs()
	if v, ok := boolConst(lhs); ok {
		if v {
			return Rewritten(rhs)
		}
		return negate(e, rhs)
	}
	if v, ok := boolConst(rhs); ok {
		if v {
			return Rewritten(lhs)
		}
		return negate(e, lhs)
	}
	if stevia.Equal(lhs, rhs) {
		return Rewritten(stevia.NewBoolConst(true))
	}
	return Unchanged(e)
}

func (ConnectiveFolder) TransformIfThenElse(e *stevia.IfThenElse) Outcome {
	if v, ok := boolConst(e.Cond()); ok {
		if v {
			return Rewritten(e.Then())
		}
		return Rewritten(e.Else())
	}
	if stevia.Equal(e.Then(), e.Else()) {
		return Rewritten(e.Then())
	}
	t, tok := boolConst(e.Then())
	_, fok := boolConst(e.Else())
	if tok && fok {
		// the branches differ, so the node is either cond or its negation
		if t {
			return Rewritten(e.Cond())
		}
		return negate(e, e.Cond())
	}
	return Unchanged(e)
}

// Flattener merges nested associative nodes of the same kind into their
// parent.
type Flattener struct {
	NoopTransformer
}

type operands interface {
	stevia.AnyExpr
	Operands() []stevia.AnyExpr
}

// flatten splices the operands of the children of the same kind as e.
func flatten(e operands, rebuild func(...stevia.AnyExpr) (stevia.AnyExpr, error)) Outcome {
	ops := e.Operands()
	nested := false
	for _, op := range ops {
		if op.Kind() == e.Kind() {
			nested = true
			break
		}
	}
	if !nested {
		return Unchanged(e)
	}
	flat := make([]stevia.AnyExpr, 0, 2*len(ops))
	for _, op := range ops {
		if op.Kind() == e.Kind() {
			flat = append(flat, op.(operands).Operands()...)
		} else {
			flat = append(flat, op)
		}
	}
	res, err := rebuild(flat...)
	return replace(e, res, err)
}

func (Flattener) TransformAnd(e *stevia.And) Outcome {
	return flatten(e, func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewAnd(ops...))
	})
}

func (Flattener) TransformOr(e *stevia.Or) Outcome {
	return flatten(e, func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewOr(ops...))
	})
}

func (Flattener) TransformBitAnd(e *stevia.BitAnd) Outcome {
	return flatten(e, func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewBitAnd(e.Width(), ops...))
	})
}

func (Flattener) TransformBitOr(e *stevia.BitOr) Outcome {
	return flatten(e, func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewBitOr(e.Width(), ops...))
	})
}

func (Flattener) TransformBitXor(e *stevia.BitXor) Outcome {
	return flatten(e, func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewBitXor(e.Width(), ops...))
	})
}

func (Flattener) TransformAdd(e *stevia.Add) Outcome {
	return flatten(e, func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewAdd(e.Width(), ops...))
	})
}

func (Flattener) TransformMul(e *stevia.Mul) Outcome {
	return flatten(e, func(ops ...stevia.AnyExpr) (stevia.AnyExpr, error) {
		return stevia.Lift(stevia.NewMul(e.Width(), ops...))
	})
}
