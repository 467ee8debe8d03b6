package stevia

import (
	"fmt"

	"github.com/pkg/errors"
)

/*
 * TY_NOT
 */

type Not struct {
	unaryChild
	formula
}

func NewNot(x AnyExpr) (*Not, error) {
	if err := checkBools("NewNot", x); err != nil {
		return nil, err
	}
	return &Not{unaryChild: unaryChild{x}}, nil
}

func (e *Not) Kind() ExprKind { return TY_NOT }
func (e *Not) String() string { return prefixString("!", e.child) }

/*
 * TY_AND, TY_OR
 */

type And struct {
	naryChildren
	formula
}

type Or struct {
	naryChildren
	formula
}

func newConnective(ctor string, ops []AnyExpr) (naryChildren, error) {
	if err := checkArity(ctor, ops, 2); err != nil {
		return naryChildren{}, err
	}
	if err := checkBools(ctor, ops...); err != nil {
		return naryChildren{}, err
	}
	if err := checkDistinct(ctor, ops...); err != nil {
		return naryChildren{}, err
	}
	return naryChildren{append([]AnyExpr(nil), ops...)}, nil
}

func NewAnd(ops ...AnyExpr) (*And, error) {
	c, err := newConnective("NewAnd", ops)
	if err != nil {
		return nil, err
	}
	return &And{naryChildren: c}, nil
}

func NewOr(ops ...AnyExpr) (*Or, error) {
	c, err := newConnective("NewOr", ops)
	if err != nil {
		return nil, err
	}
	return &Or{naryChildren: c}, nil
}

func (e *And) Kind() ExprKind { return TY_AND }
func (e *And) String() string { return infixString("&&", e.children...) }
func (e *Or) Kind() ExprKind  { return TY_OR }
func (e *Or) String() string  { return infixString("||", e.children...) }

/*
 * TY_XOR, TY_IMPLIES, TY_BOOL_EQUALS
 */

type Xor struct {
	binChildren
	formula
}

type Implies struct {
	binChildren
	formula
}

type BoolEquals struct {
	binChildren
	formula
}

func newBoolBinary(ctor string, lhs, rhs AnyExpr) (binChildren, error) {
	if err := checkBools(ctor, lhs, rhs); err != nil {
		return binChildren{}, err
	}
	if err := checkDistinct(ctor, lhs, rhs); err != nil {
		return binChildren{}, err
	}
	return binChildren{lhs, rhs}, nil
}

func NewXor(lhs, rhs AnyExpr) (*Xor, error) {
	c, err := newBoolBinary("NewXor", lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &Xor{binChildren: c}, nil
}

func NewImplies(lhs, rhs AnyExpr) (*Implies, error) {
	c, err := newBoolBinary("NewImplies", lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &Implies{binChildren: c}, nil
}

func NewBoolEquals(lhs, rhs AnyExpr) (*BoolEquals, error) {
	c, err := newBoolBinary("NewBoolEquals", lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &BoolEquals{binChildren: c}, nil
}

func (e *Xor) Kind() ExprKind        { return TY_XOR }
func (e *Xor) String() string        { return infixString("^^", e.lhs, e.rhs) }
func (e *Implies) Kind() ExprKind    { return TY_IMPLIES }
func (e *Implies) String() string    { return infixString("=>", e.lhs, e.rhs) }
func (e *BoolEquals) Kind() ExprKind { return TY_BOOL_EQUALS }
func (e *BoolEquals) String() string { return infixString("<=>", e.lhs, e.rhs) }

/*
 * TY_ITE
 */

// IfThenElse selects one of two expressions of the same type. It is a
// formula when the branches are boolean and a term otherwise.
type IfThenElse struct {
	ternChildren
	ty Type
}

func NewIfThenElse(cond, then, els AnyExpr) (*IfThenElse, error) {
	err := checkAll([]AnyExpr{cond, then, els}, func(i int, op AnyExpr) error {
		if i == 0 {
			return checkBool("NewIfThenElse", i, op)
		}
		if op == nil {
			return errors.Wrapf(ErrNilOperand, "NewIfThenElse(): operand %d", i)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if then.Type() != els.Type() {
		return nil, errors.Wrapf(ErrType, "NewIfThenElse(): branches have types %s and %s", then.Type(), els.Type())
	}
	if err := checkDistinct("NewIfThenElse", cond, then, els); err != nil {
		return nil, err
	}
	return &IfThenElse{ternChildren: ternChildren{[3]AnyExpr{cond, then, els}}, ty: then.Type()}, nil
}

func (e *IfThenElse) Kind() ExprKind { return TY_ITE }
func (e *IfThenElse) Type() Type     { return e.ty }
func (e *IfThenElse) Cond() AnyExpr  { return e.slots[0] }
func (e *IfThenElse) Then() AnyExpr  { return e.slots[1] }
func (e *IfThenElse) Else() AnyExpr  { return e.slots[2] }
func (e *IfThenElse) anyExpr()       {}

func (e *IfThenElse) String() string {
	return fmt.Sprintf("ITE(%s, %s, %s)", e.slots[0], e.slots[1], e.slots[2])
}

/*
 * TY_EQUALS, TY_ULT, TY_ULE, TY_SLT, TY_SLE
 */

// comparison is embedded by the bitvector predicates. The operand width is
// the one of the left operand.
type comparison struct {
	binChildren
	formula
}

func (c *comparison) OperandWidth() BitvecTy {
	ty, _ := c.lhs.Type().Bitvec()
	return ty
}

type Equals struct{ comparison }
type Ult struct{ comparison }
type Ule struct{ comparison }
type Slt struct{ comparison }
type Sle struct{ comparison }

func newComparison(ctor string, lhs, rhs AnyExpr) (comparison, error) {
	ty, err := anyBitvec(ctor, 0, lhs)
	if err != nil {
		return comparison{}, err
	}
	if err := checkBitvec(ctor, 1, rhs, ty); err != nil {
		return comparison{}, err
	}
	if err := checkDistinct(ctor, lhs, rhs); err != nil {
		return comparison{}, err
	}
	return comparison{binChildren: binChildren{lhs, rhs}}, nil
}

func NewEquals(lhs, rhs AnyExpr) (*Equals, error) {
	c, err := newComparison("NewEquals", lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &Equals{c}, nil
}

func NewUlt(lhs, rhs AnyExpr) (*Ult, error) {
	c, err := newComparison("NewUlt", lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &Ult{c}, nil
}

func NewUle(lhs, rhs AnyExpr) (*Ule, error) {
	c, err := newComparison("NewUle", lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &Ule{c}, nil
}

func NewSlt(lhs, rhs AnyExpr) (*Slt, error) {
	c, err := newComparison("NewSlt", lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &Slt{c}, nil
}

func NewSle(lhs, rhs AnyExpr) (*Sle, error) {
	c, err := newComparison("NewSle", lhs, rhs)
	if err != nil {
		return nil, err
	}
	return &Sle{c}, nil
}

func (e *Equals) Kind() ExprKind { return TY_EQUALS }
func (e *Equals) String() string { return infixString("==", e.lhs, e.rhs) }
func (e *Ult) Kind() ExprKind    { return TY_ULT }
func (e *Ult) String() string    { return infixString("u<", e.lhs, e.rhs) }
func (e *Ule) Kind() ExprKind    { return TY_ULE }
func (e *Ule) String() string    { return infixString("u<=", e.lhs, e.rhs) }
func (e *Slt) Kind() ExprKind    { return TY_SLT }
func (e *Slt) String() string    { return infixString("s<", e.lhs, e.rhs) }
func (e *Sle) Kind() ExprKind    { return TY_SLE }
func (e *Sle) String() string    { return infixString("s<=", e.lhs, e.rhs) }
