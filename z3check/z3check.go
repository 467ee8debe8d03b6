//go:build z3

// Package z3check cross-checks stevia expressions against Z3.
package z3check

import (
	"github.com/aclements/go-z3/z3"
	"github.com/borzacchiello/stevia"
	"github.com/pkg/errors"
)

type converter struct {
	ctx *z3.Context
}

// Check reports whether the conjunction of the constraints is satisfiable.
func Check(constraints ...stevia.AnyExpr) (bool, error) {
	ctx := z3.NewContext(z3.NewContextConfig())
	c := converter{ctx: ctx}
	solver := z3.NewSolver(ctx)
	for _, e := range constraints {
		if !e.Type().IsBool() {
			return false, errors.Errorf("Check(): %s is not a formula", e)
		}
		solver.Assert(c.convert(e).(z3.Bool))
	}
	sat, err := solver.Check()
	if err != nil {
		return false, errors.Wrap(err, "Check()")
	}
	return sat, nil
}

// Equivalent reports whether two formulas agree on every assignment.
func Equivalent(a, b stevia.AnyExpr) (bool, error) {
	differ, err := stevia.NewXor(a, b)
	if err != nil {
		return false, err
	}
	sat, err := Check(differ)
	return !sat, err
}

func (c converter) bv(e stevia.AnyExpr) z3.BV        { return c.convert(e).(z3.BV) }
func (c converter) formula(e stevia.AnyExpr) z3.Bool { return c.convert(e).(z3.Bool) }

func (c converter) bvs(ops []stevia.AnyExpr, op func(l, r z3.BV) z3.BV) z3.BV {
	res := c.bv(ops[0])
	for _, o := range ops[1:] {
		res = op(res, c.bv(o))
	}
	return res
}

func (c converter) bools(ops []stevia.AnyExpr) []z3.Bool {
	res := make([]z3.Bool, len(ops))
	for i, o := range ops {
		res[i] = c.formula(o)
	}
	return res
}

func (c converter) convert(e stevia.AnyExpr) z3.Value {
	switch e := e.(type) {
	case *stevia.BoolConst:
		return c.ctx.FromBool(e.Value())
	case *stevia.BitvecConst:
		return c.ctx.FromBigInt(e.Value().Big(), c.ctx.BVSort(e.Width().Width()))
	case *stevia.Symbol:
		if ty, ok := e.Type().Bitvec(); ok {
			return c.ctx.BVConst(e.Name(), ty.Width())
		}
		return c.ctx.BoolConst(e.Name())

	case *stevia.Not:
		return c.formula(e.Inner()).Not()
	case *stevia.And:
		ops := c.bools(e.Operands())
		return ops[0].And(ops[1:]...)
	case *stevia.Or:
		ops := c.bools(e.Operands())
		return ops[0].Or(ops[1:]...)
	case *stevia.Xor:
		return c.formula(e.Lhs()).Xor(c.formula(e.Rhs()))
	case *stevia.Implies:
		return c.formula(e.Lhs()).Implies(c.formula(e.Rhs()))
	case *stevia.BoolEquals:
		return c.formula(e.Lhs()).Iff(c.formula(e.Rhs()))
	case *stevia.IfThenElse:
		return c.formula(e.Cond()).IfThenElse(c.convert(e.Then()), c.convert(e.Else()))

	case *stevia.Equals:
		return c.bv(e.Lhs()).Eq(c.bv(e.Rhs()))
	case *stevia.Ult:
		return c.bv(e.Lhs()).ULT(c.bv(e.Rhs()))
	case *stevia.Ule:
		return c.bv(e.Lhs()).ULE(c.bv(e.Rhs()))
	case *stevia.Slt:
		return c.bv(e.Lhs()).SLT(c.bv(e.Rhs()))
	case *stevia.Sle:
		return c.bv(e.Lhs()).SLE(c.bv(e.Rhs()))

	case *stevia.BitNot:
		return c.bv(e.Inner()).Not()
	case *stevia.Neg:
		return c.bv(e.Inner()).Neg()
	case *stevia.BitAnd:
		return c.bvs(e.Operands(), z3.BV.And)
	case *stevia.BitOr:
		return c.bvs(e.Operands(), z3.BV.Or)
	case *stevia.BitXor:
		return c.bvs(e.Operands(), z3.BV.Xor)
	case *stevia.Add:
		return c.bvs(e.Operands(), z3.BV.Add)
	case *stevia.Mul:
		return c.bvs(e.Operands(), z3.BV.Mul)
	case *stevia.Sub:
		return c.bv(e.Lhs()).Sub(c.bv(e.Rhs()))
	case *stevia.Shl:
		return c.bv(e.Lhs()).Lsh(c.bv(e.Rhs()))
	case *stevia.LogicalShiftRight:
		return c.bv(e.Lhs()).URsh(c.bv(e.Rhs()))
	case *stevia.ArithmeticShiftRight:
		return c.bv(e.Lhs()).SRsh(c.bv(e.Rhs()))

	case *stevia.Concat:
		return c.bv(e.Hi()).Concat(c.bv(e.Lo()))
	case *stevia.Extract:
		return c.bv(e.Inner()).Extract(int(e.Hi()), int(e.Lo()))
	case *stevia.ZeroExtend:
		child := e.Inner()
		return c.bv(child).ZeroExtend(e.Width().Width() - width(child))
	case *stevia.SignExtend:
		child := e.Inner()
		return c.bv(child).SignExtend(e.Width().Width() - width(child))
	}
	panic(errors.Wrapf(stevia.ErrUnsupportedExpr, "z3check: %s", e.Kind()))
}

func width(e stevia.AnyExpr) int {
	ty, _ := e.Type().Bitvec()
	return ty.Width()
}
