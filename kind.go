package stevia

import "fmt"

// ExprKind is the runtime tag of an expression node.
type ExprKind uint8

const (
	TY_BOOL_CONST ExprKind = iota + 1
	TY_SYMBOL
	TY_NOT
	TY_AND
	TY_OR
	TY_XOR
	TY_IMPLIES
	TY_BOOL_EQUALS
	TY_ITE

	TY_EQUALS
	TY_ULT
	TY_ULE
	TY_SLT
	TY_SLE

	TY_BITVEC_CONST
	TY_BITNOT
	TY_NEG
	TY_BITAND
	TY_BITOR
	TY_BITXOR
	TY_ADD
	TY_MUL
	TY_SUB
	TY_SHL
	TY_LSHR
	TY_ASHR
	TY_CONCAT
	TY_EXTRACT
	TY_ZEXT
	TY_SEXT
)

var kindNames = [...]string{
	TY_BOOL_CONST:   "BoolConst",
	TY_SYMBOL:       "Symbol",
	TY_NOT:          "Not",
	TY_AND:          "And",
	TY_OR:           "Or",
	TY_XOR:          "Xor",
	TY_IMPLIES:      "Implies",
	TY_BOOL_EQUALS:  "BoolEquals",
	TY_ITE:          "IfThenElse",
	TY_EQUALS:       "Equals",
	TY_ULT:          "Ult",
	TY_ULE:          "Ule",
	TY_SLT:          "Slt",
	TY_SLE:          "Sle",
	TY_BITVEC_CONST: "BitvecConst",
	TY_BITNOT:       "BitNot",
	TY_NEG:          "Neg",
	TY_BITAND:       "BitAnd",
	TY_BITOR:        "BitOr",
	TY_BITXOR:       "BitXor",
	TY_ADD:          "Add",
	TY_MUL:          "Mul",
	TY_SUB:          "Sub",
	TY_SHL:          "ShiftLeft",
	TY_LSHR:         "LogicalShiftRight",
	TY_ASHR:         "ArithmeticShiftRight",
	TY_CONCAT:       "Concat",
	TY_EXTRACT:      "Extract",
	TY_ZEXT:         "ZeroExtend",
	TY_SEXT:         "SignExtend",
}

func (k ExprKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("ExprKind<%d>", uint8(k))
}

// IsFormula reports whether expressions of this kind are always boolean.
// IfThenElse and Symbol take the type of their branches / declaration instead.
func (k ExprKind) IsFormula() bool {
	return k >= TY_BOOL_CONST && k <= TY_SLE && k != TY_ITE && k != TY_SYMBOL
}
