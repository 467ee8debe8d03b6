package fixint

import (
	"math/big"

	"github.com/pkg/errors"
)

// All operations return fresh values and leave their receivers untouched.
// Binary operations require both operands to have the same width.

func (f *FixInt) checkSize(o *FixInt) error {
	if f.bits != o.bits {
		return errors.Wrapf(ErrWidthMismatch, "different sizes %d and %d", f.bits, o.bits)
	}
	return nil
}

func mask64(bits uint32) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<bits - 1
}

func (f *FixInt) inline() bool {
	return f.Storage() == Inl
}

func fromUint(bits uint32, v uint64) *FixInt {
	res := alloc(bits)
	res.inl[0] = Block(v & mask64(bits))
	return res
}

func mustFromBig(bits uint32, v *big.Int) *FixInt {
	res, err := FromBig(bits, v)
	if err != nil {
		panic(err)
	}
	return res
}

func (f *FixInt) bitwise(o *FixInt, op func(a, b Block) Block) (*FixInt, error) {
	if err := f.checkSize(o); err != nil {
		return nil, err
	}
	res := alloc(f.bits)
	a, b, r := f.words(), o.words(), res.words()
	for i := range r {
		r[i] = op(a[i], b[i])
	}
	res.normalize()
	return res, nil
}

func (f *FixInt) Not() *FixInt {
	res := alloc(f.bits)
	a, r := f.words(), res.words()
	for i := range r {
		r[i] = ^a[i]
	}
	res.normalize()
	return res
}

func (f *FixInt) And(o *FixInt) (*FixInt, error) {
	return f.bitwise(o, func(a, b Block) Block { return a & b })
}

func (f *FixInt) Or(o *FixInt) (*FixInt, error) {
	return f.bitwise(o, func(a, b Block) Block { return a | b })
}

func (f *FixInt) Xor(o *FixInt) (*FixInt, error) {
	return f.bitwise(o, func(a, b Block) Block { return a ^ b })
}

func (f *FixInt) Add(o *FixInt) (*FixInt, error) {
	if err := f.checkSize(o); err != nil {
		return nil, err
	}
	if f.inline() {
		return fromUint(f.bits, f.Uint64()+o.Uint64()), nil
	}
	return mustFromBig(f.bits, new(big.Int).Add(f.Big(), o.Big())), nil
}

func (f *FixInt) Sub(o *FixInt) (*FixInt, error) {
	if err := f.checkSize(o); err != nil {
		return nil, err
	}
	if f.inline() {
		return fromUint(f.bits, f.Uint64()-o.Uint64()), nil
	}
	return mustFromBig(f.bits, new(big.Int).Sub(f.Big(), o.Big())), nil
}

func (f *FixInt) Mul(o *FixInt) (*FixInt, error) {
	if err := f.checkSize(o); err != nil {
		return nil, err
	}
	if f.inline() {
		return fromUint(f.bits, f.Uint64()*o.Uint64()), nil
	}
	return mustFromBig(f.bits, new(big.Int).Mul(f.Big(), o.Big())), nil
}

func (f *FixInt) Neg() *FixInt {
	if f.inline() {
		return fromUint(f.bits, -f.Uint64())
	}
	return mustFromBig(f.bits, new(big.Int).Neg(f.Big()))
}

// shiftAmount clamps the shift distance held by o to the width of f.
func (f *FixInt) shiftAmount(o *FixInt) uint {
	if !o.FitsUint64() || o.Uint64() >= uint64(f.bits) {
		return uint(f.bits)
	}
	return uint(o.Uint64())
}

// Shl shifts left by the value of o, shifting by the width or more yields
// zero.
func (f *FixInt) Shl(o *FixInt) (*FixInt, error) {
	if err := f.checkSize(o); err != nil {
		return nil, err
	}
	n := f.shiftAmount(o)
	if f.inline() {
		if n >= 64 {
			return fromUint(f.bits, 0), nil
		}
		return fromUint(f.bits, f.Uint64()<<n), nil
	}
	return mustFromBig(f.bits, new(big.Int).Lsh(f.Big(), n)), nil
}

func (f *FixInt) Lshr(o *FixInt) (*FixInt, error) {
	if err := f.checkSize(o); err != nil {
		return nil, err
	}
	n := f.shiftAmount(o)
	if f.inline() {
		if n >= 64 {
			return fromUint(f.bits, 0), nil
		}
		return fromUint(f.bits, f.Uint64()>>n), nil
	}
	return mustFromBig(f.bits, new(big.Int).Rsh(f.Big(), n)), nil
}

// Ashr shifts right replicating the sign bit.
func (f *FixInt) Ashr(o *FixInt) (*FixInt, error) {
	if err := f.checkSize(o); err != nil {
		return nil, err
	}
	return mustFromBig(f.bits, new(big.Int).Rsh(f.SignedBig(), f.shiftAmount(o))), nil
}

// Concat returns f as the high part and lo as the low part of a value of
// width f.Bits()+lo.Bits().
func (f *FixInt) Concat(lo *FixInt) *FixInt {
	v := new(big.Int).Lsh(f.Big(), uint(lo.bits))
	return mustFromBig(f.bits+lo.bits, v.Or(v, lo.Big()))
}

// Extract returns bits hi down to lo, both inclusive.
func (f *FixInt) Extract(hi, lo uint32) (*FixInt, error) {
	if hi < lo || hi >= f.bits {
		return nil, errors.Wrapf(ErrRange, "extract [%d:%d] of a %d-bit value", hi, lo, f.bits)
	}
	return mustFromBig(hi-lo+1, new(big.Int).Rsh(f.Big(), uint(lo))), nil
}

func (f *FixInt) ZeroExtend(bits uint32) (*FixInt, error) {
	if bits < f.bits {
		return nil, errors.Wrapf(ErrWidth, "cannot extend %d bits to %d", f.bits, bits)
	}
	return mustFromBig(bits, f.Big()), nil
}

func (f *FixInt) SignExtend(bits uint32) (*FixInt, error) {
	if bits < f.bits {
		return nil, errors.Wrapf(ErrWidth, "cannot extend %d bits to %d", f.bits, bits)
	}
	return mustFromBig(bits, f.SignedBig()), nil
}

func (f *FixInt) Eq(o *FixInt) (bool, error) {
	if err := f.checkSize(o); err != nil {
		return false, err
	}
	return f.Equal(o), nil
}

// cmpUnsigned compares block chains from the most significant block down.
func cmpUnsigned(a, b []Block) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

func (f *FixInt) Ult(o *FixInt) (bool, error) {
	if err := f.checkSize(o); err != nil {
		return false, err
	}
	return cmpUnsigned(f.words(), o.words()) < 0, nil
}

func (f *FixInt) Ule(o *FixInt) (bool, error) {
	if err := f.checkSize(o); err != nil {
		return false, err
	}
	return cmpUnsigned(f.words(), o.words()) <= 0, nil
}

func (f *FixInt) Slt(o *FixInt) (bool, error) {
	if err := f.checkSize(o); err != nil {
		return false, err
	}
	return f.SignedBig().Cmp(o.SignedBig()) < 0, nil
}

func (f *FixInt) Sle(o *FixInt) (bool, error) {
	if err := f.checkSize(o); err != nil {
		return false, err
	}
	return f.SignedBig().Cmp(o.SignedBig()) <= 0, nil
}
