package stevia

import "github.com/borzacchiello/stevia/fixint"

// Value is the ground value of an expression: a boolean, or a bitvector held
// in a FixInt.
type Value struct {
	b  bool
	bv *fixint.FixInt
}

func BoolValue(b bool) Value {
	return Value{b: b}
}

func BitvecValue(v *fixint.FixInt) Value {
	return Value{bv: v}
}

func (v Value) IsBool() bool {
	return v.bv == nil
}

func (v Value) Bool() bool {
	return v.b
}

// Bitvec returns the borrowed bitvector value, nil for booleans.
func (v Value) Bitvec() *fixint.FixInt {
	return v.bv
}

func (v Value) Type() Type {
	if v.bv == nil {
		return BoolType()
	}
	return BitvecType(BitvecTy(v.bv.Bits()))
}

func (v Value) Equal(o Value) bool {
	if v.IsBool() || o.IsBool() {
		return v.IsBool() == o.IsBool() && v.b == o.b
	}
	return v.bv.Equal(o.bv)
}

func (v Value) String() string {
	if v.bv != nil {
		return v.bv.String()
	}
	if v.b {
		return "T"
	}
	return "F"
}

// Expr returns the constant expression holding a copy of v.
func (v Value) Expr() AnyExpr {
	if v.bv == nil {
		return NewBoolConst(v.b)
	}
	return &BitvecConst{term: term{BitvecTy(v.bv.Bits())}, value: v.bv.Clone()}
}
