package stevia

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var (
	ErrArity      = errors.New("invalid number of operands")
	ErrType       = errors.New("operand type mismatch")
	ErrWidth      = errors.New("invalid bitvector width")
	ErrNilOperand = errors.New("nil operand")

	// ErrSharedOperand reports the same node passed twice as an operand.
	ErrSharedOperand = errors.New("operand used twice")
)

func checkWidth(ctor string, ty BitvecTy) error {
	if ty == 0 {
		return errors.Wrapf(ErrWidth, "%s(): zero width", ctor)
	}
	return nil
}

func checkArity(ctor string, ops []AnyExpr, least int) error {
	if len(ops) < least {
		return errors.Wrapf(ErrArity, "%s(): %d operands, need at least %d", ctor, len(ops), least)
	}
	return nil
}

func checkBool(ctor string, i int, op AnyExpr) error {
	if op == nil {
		return errors.Wrapf(ErrNilOperand, "%s(): operand %d", ctor, i)
	}
	if !op.Type().IsBool() {
		return errors.Wrapf(ErrType, "%s(): operand %d has type %s, expected Bool", ctor, i, op.Type())
	}
	return nil
}

func checkBitvec(ctor string, i int, op AnyExpr, ty BitvecTy) error {
	if op == nil {
		return errors.Wrapf(ErrNilOperand, "%s(): operand %d", ctor, i)
	}
	if op.Type() != BitvecType(ty) {
		return errors.Wrapf(ErrType, "%s(): operand %d has type %s, expected %s", ctor, i, op.Type(), ty)
	}
	return nil
}

// anyBitvec accepts a bitvector operand of any width and returns it.
func anyBitvec(ctor string, i int, op AnyExpr) (BitvecTy, error) {
	if op == nil {
		return 0, errors.Wrapf(ErrNilOperand, "%s(): operand %d", ctor, i)
	}
	ty, ok := op.Type().Bitvec()
	if !ok {
		return 0, errors.Wrapf(ErrType, "%s(): operand %d has type Bool, expected a bitvector", ctor, i)
	}
	return ty, nil
}

// checkAll runs check on every operand and collects all the failures. A
// single failure is returned as is.
func checkAll(ops []AnyExpr, check func(i int, op AnyExpr) error) error {
	var merr *multierror.Error
	for i, op := range ops {
		if err := check(i, op); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if merr == nil {
		return nil
	}
	if len(merr.Errors) == 1 {
		return merr.Errors[0]
	}
	return merr
}

// checkDistinct rejects operands appearing more than once, nodes own their
// children exclusively.
func checkDistinct(ctor string, ops ...AnyExpr) error {
	for i := 1; i < len(ops); i++ {
		for j := 0; j < i; j++ {
			if ops[i] == ops[j] {
				return errors.Wrapf(ErrSharedOperand, "%s(): operands %d and %d", ctor, j, i)
			}
		}
	}
	return nil
}

func checkBools(ctor string, ops ...AnyExpr) error {
	return checkAll(ops, func(i int, op AnyExpr) error {
		return checkBool(ctor, i, op)
	})
}

func checkBitvecs(ctor string, ty BitvecTy, ops ...AnyExpr) error {
	if err := checkWidth(ctor, ty); err != nil {
		return err
	}
	return checkAll(ops, func(i int, op AnyExpr) error {
		return checkBitvec(ctor, i, op, ty)
	})
}
