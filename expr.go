// Package stevia implements the expression trees of a bitvector and boolean
// SMT front-end.
//
// Expressions are trees, never DAGs: every constructor takes ownership of its
// operands. Nodes with up to three children keep them inline, n-ary nodes own
// a slice. All the constructors type check their operands and return an error
// wrapping one of ErrArity, ErrType, ErrWidth or ErrNilOperand on failure.
package stevia

import (
	"fmt"
	"strings"

	"github.com/borzacchiello/stevia/fixint"
	"github.com/pkg/errors"
)

/*
 *   Public Interface
 */

// AnyExpr is the closed set of expression nodes defined by this package.
//
// Expressions are trees: a node owns its children, and a node may be the
// operand of at most one parent. Use Clone to reuse a subtree. Constructors
// copy the operand slices they receive.
type AnyExpr interface {
	Kind() ExprKind
	Type() Type
	Arity() int
	Children() ChildrenIter
	ChildrenMut() ChildrenIterMut
	// IntoChildren consumes the node and hands out its children. The node
	// must not be used afterwards.
	IntoChildren() []AnyExpr
	String() string

	anyExpr()
}

type formula struct{}

func (formula) Type() Type { return BoolType() }
func (formula) anyExpr()   {}

type term struct {
	ty BitvecTy
}

func (t term) Type() Type      { return BitvecType(t.ty) }
func (t term) Width() BitvecTy { return t.ty }
func (term) anyExpr()          {}

func operandString(e AnyExpr) string {
	if e.Arity() == 0 {
		return e.String()
	}
	return fmt.Sprintf("(%s)", e.String())
}

func infixString(symbol string, ops ...AnyExpr) string {
	b := strings.Builder{}
	b.WriteString(operandString(ops[0]))
	for i := 1; i < len(ops); i++ {
		b.WriteString(fmt.Sprintf(" %s %s", symbol, operandString(ops[i])))
	}
	return b.String()
}

func prefixString(symbol string, e AnyExpr) string {
	return symbol + operandString(e)
}

/*
 *  TY_BOOL_CONST
 */

type BoolConst struct {
	leaf
	formula
	value bool
}

func NewBoolConst(value bool) *BoolConst {
	return &BoolConst{value: value}
}

func (b *BoolConst) Kind() ExprKind {
	return TY_BOOL_CONST
}

func (b *BoolConst) Value() bool {
	return b.value
}

func (b *BoolConst) String() string {
	if b.value {
		return "T"
	}
	return "F"
}

/*
 *  TY_SYMBOL
 */

// Symbol is a named free variable, either boolean or bitvector typed.
type Symbol struct {
	leaf
	name string
	ty   Type
}

func NewBoolSymbol(name string) *Symbol {
	return &Symbol{name: name, ty: BoolType()}
}

func NewBitvecSymbol(name string, ty BitvecTy) (*Symbol, error) {
	if err := checkWidth("NewBitvecSymbol", ty); err != nil {
		return nil, err
	}
	return &Symbol{name: name, ty: BitvecType(ty)}, nil
}

func (s *Symbol) Kind() ExprKind { return TY_SYMBOL }
func (s *Symbol) Type() Type     { return s.ty }
func (s *Symbol) Name() string   { return s.name }
func (s *Symbol) String() string { return s.name }
func (s *Symbol) anyExpr()       {}

/*
 *  TY_BITVEC_CONST
 */

type BitvecConst struct {
	leaf
	term
	value *fixint.FixInt
}

// NewBitvecConst returns a constant of the given width holding value
// truncated to it.
func NewBitvecConst(ty BitvecTy, value uint64) (*BitvecConst, error) {
	if err := checkWidth("NewBitvecConst", ty); err != nil {
		return nil, err
	}
	return &BitvecConst{term: term{ty}, value: fixint.MustNew(uint32(ty), value)}, nil
}

// NewBitvecConstFrom takes ownership of value.
func NewBitvecConstFrom(value *fixint.FixInt) (*BitvecConst, error) {
	if value == nil {
		return nil, errors.Wrap(ErrNilOperand, "NewBitvecConstFrom()")
	}
	return &BitvecConst{term: term{BitvecTy(value.Bits())}, value: value}, nil
}

func (c *BitvecConst) Kind() ExprKind {
	return TY_BITVEC_CONST
}

// Value returns the borrowed constant value.
func (c *BitvecConst) Value() *fixint.FixInt {
	return c.value
}

func (c *BitvecConst) String() string {
	return c.value.Hex()
}
