package stevia

import "fmt"

// BitvecTy is the declared bit width of a bitvector expression.
type BitvecTy uint32

// Width returns the number of bits as an int, handy for loops and slices.
func (ty BitvecTy) Width() int {
	return int(ty)
}

func (ty BitvecTy) String() string {
	return fmt.Sprintf("BitVec(%d)", uint32(ty))
}

// Type is the type of an expression: either Bool or a bitvector of some width.
type Type struct {
	bitvec bool
	width  BitvecTy
}

func BoolType() Type {
	return Type{}
}

func BitvecType(ty BitvecTy) Type {
	return Type{bitvec: true, width: ty}
}

func (t Type) IsBool() bool {
	return !t.bitvec
}

func (t Type) IsBitvec() bool {
	return t.bitvec
}

// Bitvec returns the bit width of a bitvector type, ok is false for Bool.
func (t Type) Bitvec() (ty BitvecTy, ok bool) {
	return t.width, t.bitvec
}

func (t Type) String() string {
	if t.bitvec {
		return t.width.String()
	}
	return "Bool"
}
