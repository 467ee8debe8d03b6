package encoders

import (
	"math/big"

	"github.com/borzacchiello/stevia/bitblast"
	"github.com/dalzilio/rudd"
	"github.com/pkg/errors"
)

var ErrCapacity = errors.New("BDD variable capacity exhausted")

// bddKernel is the part of a rudd BDD used by the encoder.
type bddKernel interface {
	Error() string
	True() rudd.Node
	False() rudd.Node
	Ithvar(i int) rudd.Node
	NIthvar(i int) rudd.Node
	Not(n rudd.Node) rudd.Node
	Apply(left, right rudd.Node, op rudd.Operator) rudd.Node
	And(n ...rudd.Node) rudd.Node
	Or(n ...rudd.Node) rudd.Node
	Satcount(n rudd.Node) *big.Int
}

// BDD represents every gate exactly as a reduced ordered BDD. The number of
// variables is fixed when the BDD is created.
type BDD struct {
	b     bddKernel
	next  int
	cap   int
	root  rudd.Node
	model []bool
}

var _ bitblast.BitEncoder[rudd.Node] = (*BDD)(nil)

func NewBDD(capacity int) (*BDD, error) {
	b, err := rudd.New(capacity, rudd.Nodesize(10000), rudd.Cachesize(3000))
	if err != nil {
		return nil, errors.Wrap(err, "NewBDD")
	}
	return &BDD{b: b, cap: capacity, root: b.True()}, nil
}

// NewVar panics with ErrCapacity once every variable is in use.
func (d *BDD) NewVar() rudd.Node {
	if d.next >= d.cap {
		panic(errors.Wrapf(ErrCapacity, "%d variables", d.cap))
	}
	n := d.b.Ithvar(d.next)
	d.next++
	return n
}

func (d *BDD) NewVarPack(n int) []rudd.Node {
	ls := make([]rudd.Node, n)
	for i := range ls {
		ls[i] = d.NewVar()
	}
	return ls
}

func (d *BDD) AssertLit(l rudd.Node)            { d.root = d.b.And(d.root, l) }
func (d *BDD) Not(l rudd.Node) rudd.Node        { return d.b.Not(l) }
func (d *BDD) And(ls ...rudd.Node) rudd.Node    { return d.b.And(ls...) }
func (d *BDD) Or(ls ...rudd.Node) rudd.Node     { return d.b.Or(ls...) }
func (d *BDD) Xor(x, y rudd.Node) rudd.Node     { return d.b.Apply(x, y, rudd.OPxor) }
func (d *BDD) Implies(x, y rudd.Node) rudd.Node { return d.b.Apply(x, y, rudd.OPimp) }
func (d *BDD) Iff(x, y rudd.Node) rudd.Node     { return d.b.Apply(x, y, rudd.OPbiimp) }
func (d *BDD) Vars() int                        { return d.next }
func (d *BDD) Constraint() rudd.Node            { return d.root }
func (d *BDD) same(x, y rudd.Node) bool         { return *x == *y }
func (d *BDD) IsFalse(l rudd.Node) bool         { return d.same(l, d.b.False()) }
func (d *BDD) IsTrue(l rudd.Node) bool          { return d.same(l, d.b.True()) }
func (d *BDD) Err() error                       { return bddError(d.b.Error()) }

func bddError(msg string) error {
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}

// Count returns the number of assignments of the allocated variables
// satisfying the asserted literals.
func (d *BDD) Count() *big.Int {
	total := d.b.Satcount(d.root)
	// Satcount ranges over the whole capacity
	return total.Rsh(total, uint(d.cap-d.next))
}

// Solve picks one satisfying assignment of the asserted literals, if any.
// Variables are fixed in allocation order, false first.
func (d *BDD) Solve() int {
	d.model = nil
	if d.IsFalse(d.root) {
		return UNSAT
	}
	cur := d.root
	d.model = make([]bool, d.next)
	for i := range d.model {
		if next := d.b.And(cur, d.b.NIthvar(i)); !d.IsFalse(next) {
			cur = next
			continue
		}
		cur = d.b.And(cur, d.b.Ithvar(i))
		d.model[i] = true
	}
	if err := d.Err(); err != nil {
		d.model = nil
		return UNKNOWN
	}
	return SAT
}

// Value evaluates l under the assignment found by the last Solve.
func (d *BDD) Value(l rudd.Node) bool {
	cube := make([]rudd.Node, 0, len(d.model)+1)
	cube = append(cube, l)
	for i, v := range d.model {
		if v {
			cube = append(cube, d.b.Ithvar(i))
		} else {
			cube = append(cube, d.b.NIthvar(i))
		}
	}
	return !d.IsFalse(d.b.And(cube...))
}
