// Package bitblast lowers stevia expressions into boolean gates over the
// literals of a SAT backend.
package bitblast

// BitEncoder is the boundary to a SAT backend. L is the backend literal.
//
// Gates return a literal constrained to equal the gate output. They never
// assert it: asserting is always an explicit AssertLit.
type BitEncoder[L any] interface {
	// NewVar returns a fresh variable, distinct from every other returned one.
	NewVar() L
	// NewVarPack returns n fresh variables at once.
	NewVarPack(n int) []L
	AssertLit(l L)

	Not(l L) L
	// And and Or take at least one literal.
	And(ls ...L) L
	Or(ls ...L) L
	Xor(a, b L) L
	Implies(a, b L) L
	Iff(a, b L) L
}
