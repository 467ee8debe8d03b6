package stevia

// Storage tells whether children (or words) live inline in the owner or in a
// separately owned sequence.
type Storage uint8

const (
	// Inl marks up to three children stored directly in the node.
	Inl Storage = iota
	// Ext marks an arbitrary number of children stored in an owned slice.
	Ext
)

func (s Storage) String() string {
	if s == Ext {
		return "Ext"
	}
	return "Inl"
}

const maxInlineChildren = 3

// ChildrenIter iterates over immutable child expressions, independently of
// how the node stores them. It is lazy, finite and cannot be restarted: ask
// the node for a fresh one instead.
type ChildrenIter struct {
	storage Storage
	inl     [maxInlineChildren]AnyExpr
	cur     int
	ext     []AnyExpr
}

func NoChildren() ChildrenIter {
	return ChildrenIter{storage: Inl}
}

func UnaryChildren(fst AnyExpr) ChildrenIter {
	return ChildrenIter{storage: Inl, inl: [maxInlineChildren]AnyExpr{fst, nil, nil}}
}

func BinaryChildren(fst, snd AnyExpr) ChildrenIter {
	return ChildrenIter{storage: Inl, inl: [maxInlineChildren]AnyExpr{fst, snd, nil}}
}

func TernaryChildren(fst, snd, trd AnyExpr) ChildrenIter {
	return ChildrenIter{storage: Inl, inl: [maxInlineChildren]AnyExpr{fst, snd, trd}}
}

func NaryChildren(children []AnyExpr) ChildrenIter {
	return ChildrenIter{storage: Ext, ext: children}
}

// Storage returns the representation the iterator walks over.
func (it *ChildrenIter) Storage() Storage {
	return it.storage
}

// Next returns the next child, ok is false once the sequence is exhausted.
func (it *ChildrenIter) Next() (AnyExpr, bool) {
	if it.storage == Ext {
		if len(it.ext) == 0 {
			return nil, false
		}
		elem := it.ext[0]
		it.ext = it.ext[1:]
		return elem, true
	}
	// the cursor never moves past the last slot, consumed slots are cleared
	// so that reading past the end keeps yielding nothing
	elem := it.inl[it.cur]
	it.inl[it.cur] = nil
	it.cur = min(it.cur+1, maxInlineChildren-1)
	return elem, elem != nil
}

// Collect drains the iterator into a slice.
func (it *ChildrenIter) Collect() []AnyExpr {
	res := make([]AnyExpr, 0, maxInlineChildren)
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		res = append(res, c)
	}
	return res
}

// ChildrenIterMut iterates over the child slots of a node, so that callers can
// replace children in place.
type ChildrenIterMut struct {
	storage Storage
	inl     [maxInlineChildren]*AnyExpr
	cur     int
	ext     []AnyExpr
}

func NoChildrenMut() ChildrenIterMut {
	return ChildrenIterMut{storage: Inl}
}

func UnaryChildrenMut(fst *AnyExpr) ChildrenIterMut {
	return ChildrenIterMut{storage: Inl, inl: [maxInlineChildren]*AnyExpr{fst, nil, nil}}
}

func BinaryChildrenMut(fst, snd *AnyExpr) ChildrenIterMut {
	return ChildrenIterMut{storage: Inl, inl: [maxInlineChildren]*AnyExpr{fst, snd, nil}}
}

func TernaryChildrenMut(fst, snd, trd *AnyExpr) ChildrenIterMut {
	return ChildrenIterMut{storage: Inl, inl: [maxInlineChildren]*AnyExpr{fst, snd, trd}}
}

func NaryChildrenMut(children []AnyExpr) ChildrenIterMut {
	return ChildrenIterMut{storage: Ext, ext: children}
}

func (it *ChildrenIterMut) Storage() Storage {
	return it.storage
}

// Next returns a pointer to the next child slot.
func (it *ChildrenIterMut) Next() (*AnyExpr, bool) {
	if it.storage == Ext {
		if len(it.ext) == 0 {
			return nil, false
		}
		elem := &it.ext[0]
		it.ext = it.ext[1:]
		return elem, true
	}
	elem := it.inl[it.cur]
	it.inl[it.cur] = nil
	it.cur = min(it.cur+1, maxInlineChildren-1)
	return elem, elem != nil
}

/*
 *  Child storage embedded by the node kinds
 */

type leaf struct{}

func (leaf) Arity() int                   { return 0 }
func (leaf) Children() ChildrenIter       { return NoChildren() }
func (leaf) ChildrenMut() ChildrenIterMut { return NoChildrenMut() }
func (leaf) IntoChildren() []AnyExpr      { return nil }

type unaryChild struct {
	child AnyExpr
}

func (c *unaryChild) Arity() int                   { return 1 }
func (c *unaryChild) Children() ChildrenIter       { return UnaryChildren(c.child) }
func (c *unaryChild) ChildrenMut() ChildrenIterMut { return UnaryChildrenMut(&c.child) }

func (c *unaryChild) IntoChildren() []AnyExpr {
	res := []AnyExpr{c.child}
	c.child = nil
	return res
}

// Inner returns the single child.
func (c *unaryChild) Inner() AnyExpr {
	return c.child
}

type binChildren struct {
	lhs, rhs AnyExpr
}

func (c *binChildren) Arity() int                   { return 2 }
func (c *binChildren) Children() ChildrenIter       { return BinaryChildren(c.lhs, c.rhs) }
func (c *binChildren) ChildrenMut() ChildrenIterMut { return BinaryChildrenMut(&c.lhs, &c.rhs) }

func (c *binChildren) IntoChildren() []AnyExpr {
	res := []AnyExpr{c.lhs, c.rhs}
	c.lhs, c.rhs = nil, nil
	return res
}

func (c *binChildren) Lhs() AnyExpr {
	return c.lhs
}

func (c *binChildren) Rhs() AnyExpr {
	return c.rhs
}

type ternChildren struct {
	slots [3]AnyExpr
}

func (c *ternChildren) Arity() int { return 3 }

func (c *ternChildren) Children() ChildrenIter {
	return TernaryChildren(c.slots[0], c.slots[1], c.slots[2])
}

func (c *ternChildren) ChildrenMut() ChildrenIterMut {
	return TernaryChildrenMut(&c.slots[0], &c.slots[1], &c.slots[2])
}

func (c *ternChildren) IntoChildren() []AnyExpr {
	res := []AnyExpr{c.slots[0], c.slots[1], c.slots[2]}
	c.slots = [3]AnyExpr{}
	return res
}

type naryChildren struct {
	children []AnyExpr
}

func (c *naryChildren) Arity() int                   { return len(c.children) }
func (c *naryChildren) Children() ChildrenIter       { return NaryChildren(c.children) }
func (c *naryChildren) ChildrenMut() ChildrenIterMut { return NaryChildrenMut(c.children) }

func (c *naryChildren) IntoChildren() []AnyExpr {
	res := c.children
	c.children = nil
	return res
}

// Operands returns the borrowed operand slice. Callers must not keep it
// across a rewrite of the node.
func (c *naryChildren) Operands() []AnyExpr {
	return c.children
}
