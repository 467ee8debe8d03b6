// Package fixint implements fixed-width integers used for the constant and
// model values of bitvector expressions.
//
// A FixInt of at most 64 bits stores its bits inline, wider values own an
// eagerly allocated chain of 64-bit blocks. The layout is decided by the width
// at construction time and never changes afterwards.
package fixint

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// Block is a single machine word of a FixInt.
type Block uint64

const (
	BitsPerBlock = 64
	InlinedBits  = 64
)

// Storage tells where the bits of a FixInt live.
type Storage uint8

const (
	// Inl indicates bits stored in place, without heap indirection.
	Inl Storage = iota
	// Ext indicates bits stored in an owned, external block chain.
	Ext
)

func (s Storage) String() string {
	if s == Ext {
		return "Ext"
	}
	return "Inl"
}

var (
	ErrWidth         = errors.New("invalid bit width")
	ErrWidthMismatch = errors.New("bit width mismatch")
	ErrRange         = errors.New("bit index out of range")
)

type FixInt struct {
	bits uint32
	inl  [1]Block
	ext  []Block
}

func storageFor(bits uint32) Storage {
	if bits <= InlinedBits {
		return Inl
	}
	return Ext
}

func blocksFor(bits uint32) int {
	return int((bits + BitsPerBlock - 1) / BitsPerBlock)
}

func alloc(bits uint32) *FixInt {
	f := &FixInt{bits: bits}
	if storageFor(bits) == Ext {
		f.ext = make([]Block, blocksFor(bits))
	}
	return f
}

// New returns a FixInt of the given width holding value truncated to it.
func New(bits uint32, value uint64) (*FixInt, error) {
	if bits == 0 {
		return nil, errors.Wrap(ErrWidth, "fixint.New: zero width")
	}
	f := alloc(bits)
	f.words()[0] = Block(value)
	f.normalize()
	return f, nil
}

// MustNew is like New but panics on a zero width.
func MustNew(bits uint32, value uint64) *FixInt {
	f, err := New(bits, value)
	if err != nil {
		panic(err)
	}
	return f
}

func Zero(bits uint32) (*FixInt, error) {
	return New(bits, 0)
}

// FromInt64 returns the two's complement representation of value.
func FromInt64(bits uint32, value int64) (*FixInt, error) {
	f, err := New(bits, uint64(value))
	if err != nil {
		return nil, err
	}
	if value < 0 {
		w := f.words()
		for i := 1; i < len(w); i++ {
			w[i] = ^Block(0)
		}
		f.normalize()
	}
	return f, nil
}

// FromBlocks copies the given blocks, least significant first. Missing high
// blocks are zero, bits beyond the width are dropped.
func FromBlocks(bits uint32, blocks []Block) (*FixInt, error) {
	if bits == 0 {
		return nil, errors.Wrap(ErrWidth, "fixint.FromBlocks: zero width")
	}
	if len(blocks) > blocksFor(bits) {
		return nil, errors.Wrapf(ErrWidth, "fixint.FromBlocks: %d blocks for %d bits", len(blocks), bits)
	}
	f := alloc(bits)
	copy(f.words(), blocks)
	f.normalize()
	return f, nil
}

// FromBig converts v modulo 2^bits; negative values are taken in two's
// complement.
func FromBig(bits uint32, v *big.Int) (*FixInt, error) {
	if bits == 0 {
		return nil, errors.Wrap(ErrWidth, "fixint.FromBig: zero width")
	}
	f := alloc(bits)
	tmp := new(big.Int).And(v, makeMask(bits))
	word := makeMask(BitsPerBlock)
	w := f.words()
	for i := range w {
		chunk := new(big.Int).Rsh(tmp, uint(i*BitsPerBlock))
		w[i] = Block(chunk.And(chunk, word).Uint64())
	}
	return f, nil
}

func makeMask(bits uint32) *big.Int {
	v := big.NewInt(1)
	v.Lsh(v, uint(bits))
	return v.Sub(v, big.NewInt(1))
}

func (f *FixInt) words() []Block {
	if f.ext != nil {
		return f.ext
	}
	return f.inl[:]
}

// normalize clears the bits above the width in the last block.
func (f *FixInt) normalize() {
	w := f.words()
	if rem := f.bits % BitsPerBlock; rem != 0 {
		w[len(w)-1] &= Block(1)<<rem - 1
	}
}

func (f *FixInt) Bits() uint32 {
	return f.bits
}

func (f *FixInt) Storage() Storage {
	return storageFor(f.bits)
}

// Len returns the number of blocks of the value.
func (f *FixInt) Len() int {
	return len(f.words())
}

func (f *FixInt) Bit(i uint32) bool {
	if i >= f.bits {
		panic(errors.Wrapf(ErrRange, "bit %d of a %d-bit value", i, f.bits))
	}
	return f.words()[i/BitsPerBlock]>>(i%BitsPerBlock)&1 == 1
}

// Uint64 returns the least significant block.
func (f *FixInt) Uint64() uint64 {
	return uint64(f.words()[0])
}

// FitsUint64 reports whether all the bits above the first block are zero.
func (f *FixInt) FitsUint64() bool {
	w := f.words()
	for i := 1; i < len(w); i++ {
		if w[i] != 0 {
			return false
		}
	}
	return true
}

func (f *FixInt) Clone() *FixInt {
	res := alloc(f.bits)
	copy(res.words(), f.words())
	return res
}

func (f *FixInt) Equal(o *FixInt) bool {
	if f.bits != o.bits {
		return false
	}
	a, b := f.words(), o.words()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (f *FixInt) IsZero() bool {
	for _, w := range f.words() {
		if w != 0 {
			return false
		}
	}
	return true
}

func (f *FixInt) IsOne() bool {
	return f.words()[0] == 1 && f.FitsUint64()
}

func (f *FixInt) HasAllBitsSet() bool {
	return f.Not().IsZero()
}

func (f *FixInt) IsNegative() bool {
	return f.Bit(f.bits - 1)
}

// Big returns the unsigned value.
func (f *FixInt) Big() *big.Int {
	res := new(big.Int)
	w := f.words()
	for i := len(w) - 1; i >= 0; i-- {
		res.Lsh(res, BitsPerBlock)
		res.Or(res, new(big.Int).SetUint64(uint64(w[i])))
	}
	return res
}

// SignedBig returns the value interpreted in two's complement.
func (f *FixInt) SignedBig() *big.Int {
	res := f.Big()
	if f.IsNegative() {
		res.Sub(res, new(big.Int).Lsh(big.NewInt(1), uint(f.bits)))
	}
	return res
}

func (f *FixInt) String() string {
	return fmt.Sprintf("<BV%d 0x%x>", f.bits, f.Big())
}

// Hex returns the value as a 0x-prefixed hexadecimal literal.
func (f *FixInt) Hex() string {
	return fmt.Sprintf("0x%x", f.Big())
}
