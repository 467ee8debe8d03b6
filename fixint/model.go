package fixint

import "github.com/pkg/errors"

// BlockChain is a borrowed, read-only view over the blocks of a FixInt,
// least significant block first.
type BlockChain struct {
	blocks []Block
}

func (c BlockChain) Len() int {
	return len(c.blocks)
}

func (c BlockChain) Block(i int) Block {
	return c.blocks[i]
}

// Uint64s copies the blocks out of the view.
func (c BlockChain) Uint64s() []uint64 {
	res := make([]uint64, len(c.blocks))
	for i, b := range c.blocks {
		res[i] = uint64(b)
	}
	return res
}

// BlockChainMut is a borrowed, mutable view over the blocks of a FixInt.
// Writes keep the bits above the width cleared.
type BlockChainMut struct {
	blocks []Block
	bits   uint32
}

func (c BlockChainMut) Len() int {
	return len(c.blocks)
}

func (c BlockChainMut) Block(i int) Block {
	return c.blocks[i]
}

func (c BlockChainMut) SetBlock(i int, b Block) {
	c.blocks[i] = b
	if i == len(c.blocks)-1 {
		if rem := c.bits % BitsPerBlock; rem != 0 {
			c.blocks[i] &= Block(1)<<rem - 1
		}
	}
}

func (c BlockChainMut) SetBit(i uint32, v bool) {
	if i >= c.bits {
		panic(errors.Wrapf(ErrRange, "bit %d of a %d-bit value", i, c.bits))
	}
	c.blocks[i/BitsPerBlock] = setBit(c.blocks[i/BitsPerBlock], i%BitsPerBlock, v)
}

func setBit(b Block, i uint32, v bool) Block {
	if v {
		return b | Block(1)<<i
	}
	return b &^ (Block(1) << i)
}

// Model is a read view of a FixInt decoded by its declared width: one of C8,
// C16, C32, C64 or Var.
type Model interface {
	isModel()
}

type (
	C8  uint8
	C16 uint16
	C32 uint32
	C64 uint64
	Var struct {
		Chain BlockChain
	}
)

func (C8) isModel()  {}
func (C16) isModel() {}
func (C32) isModel() {}
func (C64) isModel() {}
func (Var) isModel() {}

// Model returns a native sized view when the width is one of 8, 16, 32 or 64
// bits, and a block chain view otherwise. Both read the value's own blocks.
func (f *FixInt) Model() Model {
	if f.Storage() == Inl {
		switch f.bits {
		case 8:
			return C8(f.words()[0])
		case 16:
			return C16(f.words()[0])
		case 32:
			return C32(f.words()[0])
		case 64:
			return C64(f.words()[0])
		}
	}
	return Var{Chain: f.Blocks()}
}

// Blocks returns the generic block chain view, regardless of the layout.
func (f *FixInt) Blocks() BlockChain {
	return BlockChain{blocks: f.words()}
}

// ModelMut is the mutable counterpart of Model: one of C8Mut, C16Mut,
// C32Mut, C64Mut or VarMut.
type ModelMut interface {
	isModelMut()
}

type C8Mut struct{ slot *Block }
type C16Mut struct{ slot *Block }
type C32Mut struct{ slot *Block }
type C64Mut struct{ slot *Block }

type VarMut struct {
	Chain BlockChainMut
}

func (C8Mut) isModelMut()  {}
func (C16Mut) isModelMut() {}
func (C32Mut) isModelMut() {}
func (C64Mut) isModelMut() {}
func (VarMut) isModelMut() {}

func (m C8Mut) Get() uint8    { return uint8(*m.slot) }
func (m C8Mut) Set(v uint8)   { *m.slot = Block(v) }
func (m C16Mut) Get() uint16  { return uint16(*m.slot) }
func (m C16Mut) Set(v uint16) { *m.slot = Block(v) }
func (m C32Mut) Get() uint32  { return uint32(*m.slot) }
func (m C32Mut) Set(v uint32) { *m.slot = Block(v) }
func (m C64Mut) Get() uint64  { return uint64(*m.slot) }
func (m C64Mut) Set(v uint64) { *m.slot = Block(v) }

// ModelMut returns a mutable view dispatched on the width the same way as
// Model.
func (f *FixInt) ModelMut() ModelMut {
	if f.Storage() == Inl {
		switch f.bits {
		case 8:
			return C8Mut{&f.words()[0]}
		case 16:
			return C16Mut{&f.words()[0]}
		case 32:
			return C32Mut{&f.words()[0]}
		case 64:
			return C64Mut{&f.words()[0]}
		}
	}
	return VarMut{Chain: f.BlocksMut()}
}

func (f *FixInt) BlocksMut() BlockChainMut {
	return BlockChainMut{blocks: f.words(), bits: f.bits}
}

// SetBit updates bit i in place through the mutable view.
func (f *FixInt) SetBit(i uint32, v bool) {
	if i >= f.bits {
		panic(errors.Wrapf(ErrRange, "bit %d of a %d-bit value", i, f.bits))
	}
	switch m := f.ModelMut().(type) {
	case C8Mut:
		m.Set(uint8(setBit(Block(m.Get()), i, v)))
	case C16Mut:
		m.Set(uint16(setBit(Block(m.Get()), i, v)))
	case C32Mut:
		m.Set(uint32(setBit(Block(m.Get()), i, v)))
	case C64Mut:
		m.Set(uint64(setBit(Block(m.Get()), i, v)))
	case VarMut:
		m.Chain.SetBit(i, v)
	}
}
