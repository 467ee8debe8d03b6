package stevia

import (
	"fmt"

	"github.com/pkg/errors"
)

/*
 * TY_BITNOT, TY_NEG
 */

type BitNot struct {
	unaryChild
	term
}

type Neg struct {
	unaryChild
	term
}

func NewBitNot(ty BitvecTy, x AnyExpr) (*BitNot, error) {
	if err := checkBitvecs("NewBitNot", ty, x); err != nil {
		return nil, err
	}
	return &BitNot{unaryChild{x}, term{ty}}, nil
}

func NewNeg(ty BitvecTy, x AnyExpr) (*Neg, error) {
	if err := checkBitvecs("NewNeg", ty, x); err != nil {
		return nil, err
	}
	return &Neg{unaryChild{x}, term{ty}}, nil
}

func (e *BitNot) Kind() ExprKind { return TY_BITNOT }
func (e *BitNot) String() string { return prefixString("~", e.child) }
func (e *Neg) Kind() ExprKind    { return TY_NEG }
func (e *Neg) String() string    { return prefixString("-", e.child) }

/*
 * TY_BITAND, TY_BITOR, TY_BITXOR, TY_ADD, TY_MUL
 */

type BitAnd struct {
	naryChildren
	term
}

type BitOr struct {
	naryChildren
	term
}

type BitXor struct {
	naryChildren
	term
}

type Add struct {
	naryChildren
	term
}

type Mul struct {
	naryChildren
	term
}

func newNaryTerm(ctor string, ty BitvecTy, ops []AnyExpr) (naryChildren, error) {
	if err := checkArity(ctor, ops, 2); err != nil {
		return naryChildren{}, err
	}
	if err := checkBitvecs(ctor, ty, ops...); err != nil {
		return naryChildren{}, err
	}
	if err := checkDistinct(ctor, ops...); err != nil {
		return naryChildren{}, err
	}
	return naryChildren{append([]AnyExpr(nil), ops...)}, nil
}

func NewBitAnd(ty BitvecTy, ops ...AnyExpr) (*BitAnd, error) {
	c, err := newNaryTerm("NewBitAnd", ty, ops)
	if err != nil {
		return nil, err
	}
	return &BitAnd{c, term{ty}}, nil
}

func NewBitOr(ty BitvecTy, ops ...AnyExpr) (*BitOr, error) {
	c, err := newNaryTerm("NewBitOr", ty, ops)
	if err != nil {
		return nil, err
	}
	return &BitOr{c, term{ty}}, nil
}

func NewBitXor(ty BitvecTy, ops ...AnyExpr) (*BitXor, error) {
	c, err := newNaryTerm("NewBitXor", ty, ops)
	if err != nil {
		return nil, err
	}
	return &BitXor{c, term{ty}}, nil
}

func NewAdd(ty BitvecTy, ops ...AnyExpr) (*Add, error) {
	c, err := newNaryTerm("NewAdd", ty, ops)
	if err != nil {
		return nil, err
	}
	return &Add{c, term{ty}}, nil
}

func NewMul(ty BitvecTy, ops ...AnyExpr) (*Mul, error) {
	c, err := newNaryTerm("NewMul", ty, ops)
	if err != nil {
		return nil, err
	}
	return &Mul{c, term{ty}}, nil
}

func (e *BitAnd) Kind() ExprKind { return TY_BITAND }
func (e *BitAnd) String() string { return infixString("&", e.children...) }
func (e *BitOr) Kind() ExprKind  { return TY_BITOR }
func (e *BitOr) String() string  { return infixString("|", e.children...) }
func (e *BitXor) Kind() ExprKind { return TY_BITXOR }
func (e *BitXor) String() string { return infixString("^", e.children...) }
func (e *Add) Kind() ExprKind    { return TY_ADD }
func (e *Add) String() string    { return infixString("+", e.children...) }
func (e *Mul) Kind() ExprKind    { return TY_MUL }
func (e *Mul) String() string    { return infixString("*", e.children...) }

/*
 * TY_SUB, TY_SHL, TY_LSHR, TY_ASHR
 */

type Sub struct {
	binChildren
	term
}

// Shl, LogicalShiftRight and ArithmeticShiftRight shift Lhs by the amount
// held in Rhs, which has the same width.
type Shl struct {
	binChildren
	term
}

type LogicalShiftRight struct {
	binChildren
	term
}

type ArithmeticShiftRight struct {
	binChildren
	term
}

func newBinaryTerm(ctor string, ty BitvecTy, lhs, rhs AnyExpr) (binChildren, error) {
	if err := checkBitvecs(ctor, ty, lhs, rhs); err != nil {
		return binChildren{}, err
	}
	if err := checkDistinct(ctor, lhs, rhs); err != nil {
		return binChildren{}, err
	}
	return binChildren{lhs, rhs}, nil
}

func NewSub(ty BitvecTy, lhs, rhs AnyExpr) (*Sub, error) {
	c, err := newBinaryTerm("NewSub", ty, lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &Sub{c, term{ty}}, nil
}

func NewShl(ty BitvecTy, lhs, rhs AnyExpr) (*Shl, error) {
	c, err := newBinaryTerm("NewShl", ty, lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &Shl{c, term{ty}}, nil
}

func NewLogicalShiftRight(ty BitvecTy, lhs, rhs AnyExpr) (*LogicalShiftRight, error) {
	c, err := newBinaryTerm("NewLogicalShiftRight", ty, lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &LogicalShiftRight{c, term{ty}}, nil
}

func NewArithmeticShiftRight(ty BitvecTy, lhs, rhs AnyExpr) (*ArithmeticShiftRight, error) {
	c, err := newBinaryTerm("NewArithmeticShiftRight", ty, lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &ArithmeticShiftRight{c, term{ty}}, nil
}

func (e *Sub) Kind() ExprKind                  { return TY_SUB }
func (e *Sub) String() string                  { return infixString("-", e.lhs, e.rhs) }
func (e *Shl) Kind() ExprKind                  { return TY_SHL }
func (e *Shl) String() string                  { return infixString("<<", e.lhs, e.rhs) }
func (e *LogicalShiftRight) Kind() ExprKind    { return TY_LSHR }
func (e *LogicalShiftRight) String() string    { return infixString("l>>", e.lhs, e.rhs) }
func (e *ArithmeticShiftRight) Kind() ExprKind { return TY_ASHR }
func (e *ArithmeticShiftRight) String() string { return infixString("a>>", e.lhs, e.rhs) }

/*
 * TY_CONCAT
 */

// Concat places Hi above Lo, its width is the sum of both.
type Concat struct {
	binChildren
	term
}

func NewConcat(hi, lo AnyExpr) (*Concat, error) {
	var tys [2]BitvecTy
	err := checkAll([]AnyExpr{hi, lo}, func(i int, op AnyExpr) (err error) {
		tys[i], err = anyBitvec("NewConcat", i, op)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := checkDistinct("NewConcat", hi, lo); err != nil {
		return nil, err
	}
	return &Concat{binChildren{hi, lo}, term{tys[0] + tys[1]}}, nil
}

func (e *Concat) Kind() ExprKind { return TY_CONCAT }
func (e *Concat) Hi() AnyExpr    { return e.lhs }
func (e *Concat) Lo() AnyExpr    { return e.rhs }
func (e *Concat) String() string { return infixString("..", e.lhs, e.rhs) }

/*
 * TY_EXTRACT
 */

// Extract selects the bits hi down to lo of its operand, both inclusive.
type Extract struct {
	unaryChild
	term
	hi, lo uint32
}

func NewExtract(x AnyExpr, hi, lo uint32) (*Extract, error) {
	ty, err := anyBitvec("NewExtract", 0, x)
	if err != nil {
		return nil, err
	}
	if hi < lo || hi >= uint32(ty) {
		return nil, errors.Wrapf(ErrWidth, "NewExtract(): [%d:%d] out of a %d-bit operand", hi, lo, ty)
	}
	return &Extract{unaryChild{x}, term{BitvecTy(hi - lo + 1)}, hi, lo}, nil
}

func (e *Extract) Kind() ExprKind { return TY_EXTRACT }
func (e *Extract) Hi() uint32     { return e.hi }
func (e *Extract) Lo() uint32     { return e.lo }

func (e *Extract) String() string {
	return fmt.Sprintf("%s[%d:%d]", operandString(e.child), e.hi, e.lo)
}

/*
 * TY_ZEXT, TY_SEXT
 */

type ZeroExtend struct {
	unaryChild
	term
}

type SignExtend struct {
	unaryChild
	term
}

func newExtend(ctor string, x AnyExpr, ty BitvecTy) (unaryChild, error) {
	src, err := anyBitvec(ctor, 0, x)
	if err != nil {
		return unaryChild{}, err
	}
	if ty < src {
		return unaryChild{}, errors.Wrapf(ErrWidth, "%s(): cannot extend %d bits to %d", ctor, src, ty)
	}
	return unaryChild{x}, nil
}

func NewZeroExtend(x AnyExpr, ty BitvecTy) (*ZeroExtend, error) {
	c, err := newExtend("NewZeroExtend", x, ty)
	if err != nil {
		return nil, err
	}
	return &ZeroExtend{c, term{ty}}, nil
}

func NewSignExtend(x AnyExpr, ty BitvecTy) (*SignExtend, error) {
	c, err := newExtend("NewSignExtend", x, ty)
	if err != nil {
		return nil, err
	}
	return &SignExtend{c, term{ty}}, nil
}

func (e *ZeroExtend) Kind() ExprKind { return TY_ZEXT }
func (e *SignExtend) Kind() ExprKind { return TY_SEXT }

func (e *ZeroExtend) String() string {
	return fmt.Sprintf("ZExt(%s, %d)", operandString(e.child), e.ty)
}

func (e *SignExtend) String() string {
	return fmt.Sprintf("SExt(%s, %d)", operandString(e.child), e.ty)
}
