package bitblast

import (
	"github.com/borzacchiello/stevia"
	"github.com/borzacchiello/stevia/fixint"
	"github.com/pkg/errors"
)

var (
	ErrSymbolType = errors.New("symbol used with two different types")
	ErrNotFormula = errors.New("expression is not a formula")
)

type symbol[L any] struct {
	ty   stevia.Type
	lits []L
}

type memoEntry[L any] struct {
	e    stevia.AnyExpr
	lits []L
}

// Lowerer translates expressions into gates of a BitEncoder. Formulas lower
// to one literal, terms of width W to W literals, least significant first.
//
// Symbols are shared by name across every call. Structurally equal subtrees
// lower once. Lowered trees must not be mutated while the Lowerer is in use.
type Lowerer[L any] struct {
	enc BitEncoder[L]

	hasTrue bool
	tru     L

	symbols map[string]*symbol[L]
	order   []string
	memo    map[uint64][]memoEntry[L]
}

func NewLowerer[L any](enc BitEncoder[L]) *Lowerer[L] {
	return &Lowerer[L]{
		enc:     enc,
		symbols: make(map[string]*symbol[L]),
		memo:    make(map[uint64][]memoEntry[L]),
	}
}

func (l *Lowerer[L]) Encoder() BitEncoder[L] {
	return l.enc
}

// True returns a literal that holds in every model. It is a fresh variable
// asserted the first time it is needed.
func (l *Lowerer[L]) True() L {
	if !l.hasTrue {
		l.tru = l.enc.NewVar()
		l.enc.AssertLit(l.tru)
		l.hasTrue = true
	}
	return l.tru
}

func (l *Lowerer[L]) False() L {
	return l.enc.Not(l.True())
}

func (l *Lowerer[L]) constLit(v bool) L {
	if v {
		return l.True()
	}
	return l.False()
}

// Symbols returns the names of the symbols met so far, in order of first use.
func (l *Lowerer[L]) Symbols() []string {
	return append([]string(nil), l.order...)
}

// Formula returns the literal equal to the boolean expression e.
func (l *Lowerer[L]) Formula(e stevia.AnyExpr) (L, error) {
	var null L
	if !e.Type().IsBool() {
		return null, errors.Wrapf(ErrNotFormula, "%s has type %s", e, e.Type())
	}
	lits, err := l.lower(e)
	if err != nil {
		return null, err
	}
	return lits[0], nil
}

// Assert lowers e and asserts its literal.
func (l *Lowerer[L]) Assert(e stevia.AnyExpr) error {
	lit, err := l.Formula(e)
	if err != nil {
		return err
	}
	l.enc.AssertLit(lit)
	return nil
}

// Term returns the literals of the bits of e, least significant first. A
// formula lowers to a single literal.
func (l *Lowerer[L]) Term(e stevia.AnyExpr) ([]L, error) {
	lits, err := l.lower(e)
	if err != nil {
		return nil, err
	}
	return append([]L(nil), lits...), nil
}

func (l *Lowerer[L]) lower(e stevia.AnyExpr) ([]L, error) {
	switch e := e.(type) {
	case *stevia.BoolConst:
		return []L{l.constLit(e.Value())}, nil
	case *stevia.BitvecConst:
		return l.constant(e.Value()), nil
	case *stevia.Symbol:
		return l.symbol(e)
	}

	key := stevia.Hash(e)
	for _, m := range l.memo[key] {
		if stevia.Equal(m.e, e) {
			return m.lits, nil
		}
	}

	args := make([][]L, 0, e.Arity())
	it := e.Children()
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		lits, err := l.lower(c)
		if err != nil {
			return nil, err
		}
		args = append(args, lits)
	}

	lits := l.gate(e, args)
	l.memo[key] = append(l.memo[key], memoEntry[L]{e: e, lits: lits})
	return lits, nil
}

func (l *Lowerer[L]) symbol(e *stevia.Symbol) ([]L, error) {
	if s, ok := l.symbols[e.Name()]; ok {
		if s.ty != e.Type() {
			return nil, errors.Wrapf(ErrSymbolType, "%q is %s, not %s", e.Name(), s.ty, e.Type())
		}
		return s.lits, nil
	}

	var lits []L
	if ty, ok := e.Type().Bitvec(); ok {
		lits = l.enc.NewVarPack(ty.Width())
	} else {
		lits = []L{l.enc.NewVar()}
	}
	l.symbols[e.Name()] = &symbol[L]{ty: e.Type(), lits: lits}
	l.order = append(l.order, e.Name())
	return lits, nil
}

func constWords(v *fixint.FixInt) []uint64 {
	switch m := v.Model().(type) {
	case fixint.C8:
		return []uint64{uint64(m)}
	case fixint.C16:
		return []uint64{uint64(m)}
	case fixint.C32:
		return []uint64{uint64(m)}
	case fixint.C64:
		return []uint64{uint64(m)}
	case fixint.Var:
		return m.Chain.Uint64s()
	}
	panic("unreachable")
}

func (l *Lowerer[L]) constant(v *fixint.FixInt) []L {
	words := constWords(v)
	lits := make([]L, v.Bits())
	for i := range lits {
		lits[i] = l.constLit(words[i/64]>>(uint(i)%64)&1 == 1)
	}
	return lits
}

func (l *Lowerer[L]) gate(e stevia.AnyExpr, args [][]L) []L {
	enc := l.enc
	switch e := e.(type) {
	case *stevia.Not:
		return []L{enc.Not(args[0][0])}
	case *stevia.And:
		return []L{enc.And(column(args, 0)...)}
	case *stevia.Or:
		return []L{enc.Or(column(args, 0)...)}
	case *stevia.Xor:
		return []L{enc.Xor(args[0][0], args[1][0])}
	case *stevia.Implies:
		return []L{enc.Implies(args[0][0], args[1][0])}
	case *stevia.BoolEquals:
		return []L{enc.Iff(args[0][0], args[1][0])}
	case *stevia.IfThenElse:
		return l.ite(args[0][0], args[1], args[2])

	case *stevia.Equals:
		return []L{l.eq(args[0], args[1])}
	case *stevia.Ult:
		return []L{l.ult(args[0], args[1])}
	case *stevia.Ule:
		return []L{enc.Not(l.ult(args[1], args[0]))}
	case *stevia.Slt:
		return []L{l.slt(args[0], args[1])}
	case *stevia.Sle:
		return []L{enc.Not(l.slt(args[1], args[0]))}

	case *stevia.BitNot:
		return l.not(args[0])
	case *stevia.Neg:
		return l.add(l.not(args[0]), l.zeros(len(args[0])), l.True())
	case *stevia.BitAnd:
		return l.bitwise(args, enc.And)
	case *stevia.BitOr:
		return l.bitwise(args, enc.Or)
	case *stevia.BitXor:
		return l.reduce(args, func(a, b []L) []L {
			out := make([]L, len(a))
			for i := range a {
				out[i] = enc.Xor(a[i], b[i])
			}
			return out
		})
	case *stevia.Add:
		return l.reduce(args, func(a, b []L) []L { return l.add(a, b, l.False()) })
	case *stevia.Mul:
		return l.reduce(args, l.mul)
	case *stevia.Sub:
		return l.add(args[0], l.not(args[1]), l.True())
	case *stevia.Shl:
		return l.shift(args[0], args[1], shiftLeft, l.False())
	case *stevia.LogicalShiftRight:
		return l.shift(args[0], args[1], shiftRight, l.False())
	case *stevia.ArithmeticShiftRight:
		x := args[0]
		return l.shift(x, args[1], shiftRight, x[len(x)-1])

	case *stevia.Concat:
		return append(append([]L(nil), args[1]...), args[0]...)
	case *stevia.Extract:
		return append([]L(nil), args[0][e.Lo():e.Hi()+1]...)
	case *stevia.ZeroExtend:
		return l.extend(args[0], e.Width().Width(), l.False())
	case *stevia.SignExtend:
		x := args[0]
		return l.extend(x, e.Width().Width(), x[len(x)-1])
	}
	panic(errors.Wrapf(stevia.ErrUnsupportedExpr, "lower: %s", e.Kind()))
}

// column returns bit i of every operand.
func column[L any](args [][]L, i int) []L {
	col := make([]L, len(args))
	for j, a := range args {
		col[j] = a[i]
	}
	return col
}

func (l *Lowerer[L]) reduce(args [][]L, op func(a, b []L) []L) []L {
	acc := args[0]
	for _, a := range args[1:] {
		acc = op(acc, a)
	}
	return acc
}

func (l *Lowerer[L]) bitwise(args [][]L, op func(...L) L) []L {
	out := make([]L, len(args[0]))
	for i := range out {
		out[i] = op(column(args, i)...)
	}
	return out
}

func (l *Lowerer[L]) not(x []L) []L {
	out := make([]L, len(x))
	for i := range x {
		out[i] = l.enc.Not(x[i])
	}
	return out
}

func (l *Lowerer[L]) zeros(n int) []L {
	out := make([]L, n)
	for i := range out {
		out[i] = l.False()
	}
	return out
}

func (l *Lowerer[L]) mux(c, t, e L) L {
	return l.enc.Or(l.enc.And(c, t), l.enc.And(l.enc.Not(c), e))
}

func (l *Lowerer[L]) ite(c L, t, e []L) []L {
	out := make([]L, len(t))
	for i := range t {
		out[i] = l.mux(c, t[i], e[i])
	}
	return out
}

// add is a ripple carry adder with carry in c.
func (l *Lowerer[L]) add(a, b []L, c L) []L {
	enc := l.enc
	out := make([]L, len(a))
	for i := range a {
		t := enc.Xor(a[i], b[i])
		out[i] = enc.Xor(t, c)
		if i+1 < len(a) {
			c = enc.Or(enc.And(a[i], b[i]), enc.And(c, t))
		}
	}
	return out
}

// mul sums the partial products a*b[i]<<i.
func (l *Lowerer[L]) mul(a, b []L) []L {
	w := len(a)
	acc := l.zeros(w)
	for i := 0; i < w; i++ {
		partial := make([]L, w)
		for j := range partial {
			if j < i {
				partial[j] = l.False()
			} else {
				partial[j] = l.enc.And(a[j-i], b[i])
			}
		}
		acc = l.add(acc, partial, l.False())
	}
	return acc
}

type direction int

const (
	shiftLeft direction = iota
	shiftRight
)

// shift is a barrel shifter. Amounts of at least the width fill every bit
// with fill.
func (l *Lowerer[L]) shift(x, amount []L, dir direction, fill L) []L {
	w := len(x)
	cur := x
	var overflow []L
	for k := range amount {
		if k >= 63 || 1<<k >= w {
			overflow = append(overflow, amount[k])
			continue
		}
		n := 1 << k
		shifted := make([]L, w)
		for i := range shifted {
			src := i - n
			if dir == shiftRight {
				src = i + n
			}
			if src < 0 || src >= w {
				shifted[i] = fill
			} else {
				shifted[i] = cur[src]
			}
		}
		cur = l.ite(amount[k], shifted, cur)
	}
	if len(overflow) == 0 {
		return cur
	}
	over := l.enc.Or(overflow...)
	out := make([]L, w)
	for i := range out {
		out[i] = l.mux(over, fill, cur[i])
	}
	return out
}

func (l *Lowerer[L]) eq(a, b []L) L {
	bits := make([]L, len(a))
	for i := range a {
		bits[i] = l.enc.Iff(a[i], b[i])
	}
	return l.enc.And(bits...)
}

// ult ripples from the least significant bit: a < b on bits 0..i when
// a[i] < b[i], or a[i] == b[i] and a < b on bits 0..i-1.
func (l *Lowerer[L]) ult(a, b []L) L {
	enc := l.enc
	lt := l.False()
	for i := range a {
		lt = enc.Or(enc.And(enc.Not(a[i]), b[i]), enc.And(enc.Iff(a[i], b[i]), lt))
	}
	return lt
}

func (l *Lowerer[L]) slt(a, b []L) L {
	msb := len(a) - 1
	fa := append([]L(nil), a...)
	fb := append([]L(nil), b...)
	fa[msb] = l.enc.Not(a[msb])
	fb[msb] = l.enc.Not(b[msb])
	return l.ult(fa, fb)
}

func (l *Lowerer[L]) extend(x []L, w int, fill L) []L {
	out := append(make([]L, 0, w), x...)
	for len(out) < w {
		out = append(out, fill)
	}
	return out
}

// DecodeModel reads the value of every symbol from a satisfying assignment.
func (l *Lowerer[L]) DecodeModel(value func(L) bool) map[string]stevia.Value {
	model := make(map[string]stevia.Value, len(l.symbols))
	for name, s := range l.symbols {
		model[name] = Decode(s.ty, s.lits, value)
	}
	return model
}

// Decode rebuilds a value of type ty from the literals lowering it.
func Decode[L any](ty stevia.Type, lits []L, value func(L) bool) stevia.Value {
	w, ok := ty.Bitvec()
	if !ok {
		return stevia.BoolValue(value(lits[0]))
	}
	bits := make([]bool, len(lits))
	for i, lit := range lits {
		bits[i] = value(lit)
	}
	v, err := fixint.Zero(uint32(w))
	if err != nil {
		panic(err)
	}
	writeBits(v, bits)
	return stevia.BitvecValue(v)
}

func packBits(bits []bool) uint64 {
	var w uint64
	for i, b := range bits {
		if b {
			w |= 1 << uint(i)
		}
	}
	return w
}

func writeBits(v *fixint.FixInt, bits []bool) {
	switch m := v.ModelMut().(type) {
	case fixint.C8Mut:
		m.Set(uint8(packBits(bits)))
	case fixint.C16Mut:
		m.Set(uint16(packBits(bits)))
	case fixint.C32Mut:
		m.Set(uint32(packBits(bits)))
	case fixint.C64Mut:
		m.Set(packBits(bits))
	case fixint.VarMut:
		for i, b := range bits {
			m.Chain.SetBit(uint32(i), b)
		}
	}
}
