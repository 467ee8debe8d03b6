// Package simplify rewrites expression trees with composable transformers.
//
// A Transformer has one method per node kind. Concrete transformers embed
// NoopTransformer and override only the kinds they rewrite. BaseTransformer
// walks a tree in post-order, rewriting the children in place before running
// its transformers on the node itself, and reports whether anything changed.
package simplify

import (
	"github.com/borzacchiello/stevia"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// TransformResult tells whether a rewrite changed anything. Results combine
// with a logical or, Identity being the neutral element.
type TransformResult uint8

const (
	Identity TransformResult = iota
	Transformed
)

func (r TransformResult) Or(o TransformResult) TransformResult {
	if o == Transformed {
		return Transformed
	}
	return r
}

// Merge folds o into r in place.
func (r *TransformResult) Merge(o TransformResult) {
	*r = r.Or(o)
}

func (r TransformResult) String() string {
	if r == Transformed {
		return "Transformed"
	}
	return "Identity"
}

// Outcome pairs a rewritten expression with the result of the rewrite.
type Outcome struct {
	Result TransformResult
	Expr   stevia.AnyExpr
}

func Unchanged(e stevia.AnyExpr) Outcome {
	return Outcome{Result: Identity, Expr: e}
}

func Rewritten(e stevia.AnyExpr) Outcome {
	return Outcome{Result: Transformed, Expr: e}
}

// Transformer rewrites a single node, without descending into its children.
// Each method takes ownership of the node and returns either it or its
// replacement.
type Transformer interface {
	TransformBoolConst(*stevia.BoolConst) Outcome
	TransformSymbol(*stevia.Symbol) Outcome
	TransformNot(*stevia.Not) Outcome
	TransformAnd(*stevia.And) Outcome
	TransformOr(*stevia.Or) Outcome
	TransformXor(*stevia.Xor) Outcome
	TransformImplies(*stevia.Implies) Outcome
	TransformBoolEquals(*stevia.BoolEquals) Outcome
	TransformIfThenElse(*stevia.IfThenElse) Outcome
	TransformEquals(*stevia.Equals) Outcome
	TransformUlt(*stevia.Ult) Outcome
	TransformUle(*stevia.Ule) Outcome
	TransformSlt(*stevia.Slt) Outcome
	TransformSle(*stevia.Sle) Outcome

	TransformBitvecConst(*stevia.BitvecConst) Outcome
	TransformBitNot(*stevia.BitNot) Outcome
	TransformNeg(*stevia.Neg) Outcome
	TransformBitAnd(*stevia.BitAnd) Outcome
	TransformBitOr(*stevia.BitOr) Outcome
	TransformBitXor(*stevia.BitXor) Outcome
	TransformAdd(*stevia.Add) Outcome
	TransformMul(*stevia.Mul) Outcome
	TransformSub(*stevia.Sub) Outcome
	TransformShl(*stevia.Shl) Outcome
	TransformLogicalShiftRight(*stevia.LogicalShiftRight) Outcome
	TransformArithmeticShiftRight(*stevia.ArithmeticShiftRight) Outcome
	TransformConcat(*stevia.Concat) Outcome
	TransformExtract(*stevia.Extract) Outcome
	TransformZeroExtend(*stevia.ZeroExtend) Outcome
	TransformSignExtend(*stevia.SignExtend) Outcome
}

// NoopTransformer leaves every node as is.
type NoopTransformer struct{}

func (NoopTransformer) TransformBoolConst(e *stevia.BoolConst) Outcome     { return Unchanged(e) }
func (NoopTransformer) TransformSymbol(e *stevia.Symbol) Outcome           { return Unchanged(e) }
func (NoopTransformer) TransformNot(e *stevia.Not) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformAnd(e *stevia.And) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformOr(e *stevia.Or) Outcome                   { return Unchanged(e) }
func (NoopTransformer) TransformXor(e *stevia.Xor) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformImplies(e *stevia.Implies) Outcome         { return Unchanged(e) }
func (NoopTransformer) TransformBoolEquals(e *stevia.BoolEquals) Outcome   { return Unchanged(e) }
func (NoopTransformer) TransformIfThenElse(e *stevia.IfThenElse) Outcome   { return Unchanged(e) }
func (NoopTransformer) TransformEquals(e *stevia.Equals) Outcome           { return Unchanged(e) }
func (NoopTransformer) TransformUlt(e *stevia.Ult) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformUle(e *stevia.Ule) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformSlt(e *stevia.Slt) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformSle(e *stevia.Sle) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformBitvecConst(e *stevia.BitvecConst) Outcome { return Unchanged(e) }
func (NoopTransformer) TransformBitNot(e *stevia.BitNot) Outcome           { return Unchanged(e) }
func (NoopTransformer) TransformNeg(e *stevia.Neg) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformBitAnd(e *stevia.BitAnd) Outcome           { return Unchanged(e) }
func (NoopTransformer) TransformBitOr(e *stevia.BitOr) Outcome             { return Unchanged(e) }
func (NoopTransformer) TransformBitXor(e *stevia.BitXor) Outcome           { return Unchanged(e) }
func (NoopTransformer) TransformAdd(e *stevia.Add) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformMul(e *stevia.Mul) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformSub(e *stevia.Sub) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformShl(e *stevia.Shl) Outcome                 { return Unchanged(e) }
func (NoopTransformer) TransformLogicalShiftRight(e *stevia.LogicalShiftRight) Outcome {
	return Unchanged(e)
}
func (NoopTransformer) TransformArithmeticShiftRight(e *stevia.ArithmeticShiftRight) Outcome {
	return Unchanged(e)
}
func (NoopTransformer) TransformConcat(e *stevia.Concat) Outcome         { return Unchanged(e) }
func (NoopTransformer) TransformExtract(e *stevia.Extract) Outcome       { return Unchanged(e) }
func (NoopTransformer) TransformZeroExtend(e *stevia.ZeroExtend) Outcome { return Unchanged(e) }
func (NoopTransformer) TransformSignExtend(e *stevia.SignExtend) Outcome { return Unchanged(e) }

// Forward dispatches e to the method of t matching its kind. A kind t has no
// method for is a framework gap and panics with stevia.ErrUnsupportedExpr.
func Forward(t Transformer, e stevia.AnyExpr) Outcome {
	switch e := e.(type) {
	case *stevia.BoolConst:
		return t.TransformBoolConst(e)
	case *stevia.Symbol:
		return t.TransformSymbol(e)
	case *stevia.Not:
		return t.TransformNot(e)
	case *stevia.And:
		return t.TransformAnd(e)
	case *stevia.Or:
		return t.TransformOr(e)
	case *stevia.Xor:
		return t.TransformXor(e)
	case *stevia.Implies:
		return t.TransformImplies(e)
	case *stevia.BoolEquals:
		return t.TransformBoolEquals(e)
	case *stevia.IfThenElse:
		return t.TransformIfThenElse(e)
	case *stevia.Equals:
		return t.TransformEquals(e)
	case *stevia.Ult:
		return t.TransformUlt(e)
	case *stevia.Ule:
		return t.TransformUle(e)
	case *stevia.Slt:
		return t.TransformSlt(e)
	case *stevia.Sle:
		return t.TransformSle(e)
	case *stevia.BitvecConst:
		return t.TransformBitvecConst(e)
	case *stevia.BitNot:
		return t.TransformBitNot(e)
	case *stevia.Neg:
		return t.TransformNeg(e)
	case *stevia.BitAnd:
		return t.TransformBitAnd(e)
	case *stevia.BitOr:
		return t.TransformBitOr(e)
	case *stevia.BitXor:
		return t.TransformBitXor(e)
	case *stevia.Add:
		return t.TransformAdd(e)
	case *stevia.Mul:
		return t.TransformMul(e)
	case *stevia.Sub:
		return t.TransformSub(e)
	case *stevia.Shl:
		return t.TransformShl(e)
	case *stevia.LogicalShiftRight:
		return t.TransformLogicalShiftRight(e)
	case *stevia.ArithmeticShiftRight:
		return t.TransformArithmeticShiftRight(e)
	case *stevia.Concat:
		return t.TransformConcat(e)
	case *stevia.Extract:
		return t.TransformExtract(e)
	case *stevia.ZeroExtend:
		return t.TransformZeroExtend(e)
	case *stevia.SignExtend:
		return t.TransformSignExtend(e)
	}
	panic(errors.Wrapf(stevia.ErrUnsupportedExpr, "simplify.Forward: %s", e.Kind()))
}

// AnyTransformer rewrites an expression of any kind, either in place or by
// consuming it.
type AnyTransformer interface {
	TransformAnyExpr(slot *stevia.AnyExpr) TransformResult
	IntoTransformAnyExpr(e stevia.AnyExpr) Outcome
}

type anyAdapter struct {
	t Transformer
}

// AsAny adapts a single-node Transformer into an AnyTransformer.
func AsAny(t Transformer) AnyTransformer {
	return anyAdapter{t}
}

// TransformAnyExpr moves the expression out of slot, leaving a false constant
// behind while the transformer owns it, and stores the outcome back.
func (a anyAdapter) TransformAnyExpr(slot *stevia.AnyExpr) TransformResult {
	input := *slot
	*slot = stevia.NewBoolConst(false)
	out := a.IntoTransformAnyExpr(input)
	*slot = out.Expr
	return out.Result
}

func (a anyAdapter) IntoTransformAnyExpr(e stevia.AnyExpr) Outcome {
	return Forward(a.t, e)
}

/*
 *  Traversal
 */

const DefaultMaxPasses = 32

var ErrNoFixpoint = errors.New("no fixpoint reached")

// BaseTransformer runs an ordered list of transformers over a whole tree.
type BaseTransformer struct {
	transformers []AnyTransformer
}

func NewBaseTransformer(ts ...Transformer) *BaseTransformer {
	b := &BaseTransformer{}
	for _, t := range ts {
		b.transformers = append(b.transformers, AsAny(t))
	}
	return b
}

// TransformAnyExpr runs a single post-order pass over the tree in slot.
func (b *BaseTransformer) TransformAnyExpr(slot *stevia.AnyExpr) TransformResult {
	result := Identity
	it := (*slot).ChildrenMut()
	for child, ok := it.Next(); ok; child, ok = it.Next() {
		result.Merge(b.TransformAnyExpr(child))
	}
	for _, t := range b.transformers {
		result.Merge(t.TransformAnyExpr(slot))
	}
	return result
}

func (b *BaseTransformer) IntoTransformAnyExpr(e stevia.AnyExpr) Outcome {
	result := b.TransformAnyExpr(&e)
	return Outcome{Result: result, Expr: e}
}

// Fixpoint repeats passes over the tree in slot until one of them changes
// nothing, running at most maxPasses of them (DefaultMaxPasses when
// maxPasses is not positive). It returns the number of passes run and
// whether any of them rewrote the tree. Hitting the bound returns
// ErrNoFixpoint, the tree is left as rewritten so far.
func (b *BaseTransformer) Fixpoint(slot *stevia.AnyExpr, maxPasses int) (int, TransformResult, error) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	total := Identity
	for pass := 1; pass <= maxPasses; pass++ {
		result := b.TransformAnyExpr(slot)
		log.WithFields(log.Fields{
			"pass":   pass,
			"result": result,
		}).Debug("simplify")
		if result == Identity {
			return pass, total, nil
		}
		total.Merge(result)
	}
	return maxPasses, total, errors.Wrapf(ErrNoFixpoint, "after %d passes", maxPasses)
}
