package stevia

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// ErrUnsupportedExpr is the panic value raised when a generic operation meets
// a node kind it has no case for.
var ErrUnsupportedExpr = errors.New("unsupported expression kind")

func unsupported(op string, e AnyExpr) error {
	return errors.Wrapf(ErrUnsupportedExpr, "%s: %s", op, e.Kind())
}

func typeCode(t Type) uint64 {
	if ty, ok := t.Bitvec(); ok {
		return uint64(ty) + 1
	}
	return 0
}

// Hash returns a structural hash of the tree: structurally equal trees hash
// to the same value.
func Hash(e AnyExpr) uint64 {
	h := xxhash.New()
	raw := make([]byte, 8)
	put := func(v uint64) {
		binary.BigEndian.PutUint64(raw, v)
		h.Write(raw)
	}

	put(uint64(e.Kind()))
	put(typeCode(e.Type()))
	switch e := e.(type) {
	case *BoolConst:
		if e.value {
			put(1)
		} else {
			put(0)
		}
	case *Symbol:
		h.WriteString(e.name)
	case *BitvecConst:
		for _, b := range e.value.Blocks().Uint64s() {
			put(b)
		}
	case *Extract:
		put(uint64(e.hi)<<32 | uint64(e.lo))
	}

	it := e.Children()
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		put(Hash(c))
	}
	return h.Sum64()
}

// sameHead compares everything but the children.
func sameHead(a, b AnyExpr) bool {
	if a.Kind() != b.Kind() || a.Type() != b.Type() || a.Arity() != b.Arity() {
		return false
	}
	switch a := a.(type) {
	case *BoolConst:
		return a.value == b.(*BoolConst).value
	case *Symbol:
		return a.name == b.(*Symbol).name
	case *BitvecConst:
		return a.value.Equal(b.(*BitvecConst).value)
	case *Extract:
		o := b.(*Extract)
		return a.hi == o.hi && a.lo == o.lo
	}
	return true
}

// Equal reports whether two trees are structurally equal.
func Equal(a, b AnyExpr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !sameHead(a, b) {
		return false
	}
	ia, ib := a.Children(), b.Children()
	for {
		ca, oka := ia.Next()
		cb, okb := ib.Next()
		if oka != okb {
			return false
		}
		if !oka {
			return true
		}
		if !Equal(ca, cb) {
			return false
		}
	}
}
