package encoders

import (
	"bufio"
	"fmt"
	"io"

	"github.com/crillab/gophersat/solver"
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// Results of Solve, following the gini convention.
const (
	SAT     = 1
	UNSAT   = -1
	UNKNOWN = 0
)

// GiniSink feeds clauses straight into a gini solver.
type GiniSink struct {
	g       *gini.Gini
	vars    z.Var
	clauses int
}

func NewGiniSink() *GiniSink {
	return &GiniSink{g: gini.New()}
}

func (s *GiniSink) NewVar() z.Lit {
	s.vars++
	return s.vars.Pos()
}

func (s *GiniSink) AddClause(ls ...z.Lit) {
	for _, l := range ls {
		s.g.Add(l)
	}
	s.g.Add(z.LitNull)
	s.clauses++
}

func (s *GiniSink) Vars() int    { return int(s.vars) }
func (s *GiniSink) Clauses() int { return s.clauses }

// Solve runs gini under the given assumptions, which only hold for this call.
func (s *GiniSink) Solve(assumptions ...z.Lit) int {
	if len(assumptions) > 0 {
		s.g.Assume(assumptions...)
	}
	return s.g.Solve()
}

// Value reports the value of l in the model found by the last Solve.
func (s *GiniSink) Value(l z.Lit) bool {
	return s.g.Value(l)
}

// ClauseList keeps the clauses in memory, to write them out as DIMACS or
// solve them with gophersat.
type ClauseList struct {
	vars    int
	clauses [][]int
	model   []bool
}

func NewClauseList() *ClauseList {
	return &ClauseList{}
}

func (c *ClauseList) NewVar() z.Lit {
	c.vars++
	return z.Var(c.vars).Pos()
}

func (c *ClauseList) AddClause(ls ...z.Lit) {
	clause := make([]int, len(ls))
	for i, l := range ls {
		clause[i] = l.Dimacs()
	}
	c.clauses = append(c.clauses, clause)
}

func (c *ClauseList) Vars() int    { return c.vars }
func (c *ClauseList) Clauses() int { return len(c.clauses) }

// WriteDimacs writes the problem in DIMACS CNF format.
func (c *ClauseList) WriteDimacs(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p cnf %d %d\n", c.vars, len(c.clauses))
	for _, clause := range c.clauses {
		for _, l := range clause {
			fmt.Fprintf(bw, "%d ", l)
		}
		fmt.Fprintln(bw, "0")
	}
	return errors.Wrap(bw.Flush(), "WriteDimacs")
}

// Solve hands a copy of the clauses to gophersat.
func (c *ClauseList) Solve() int {
	c.model = nil
	if len(c.clauses) == 0 {
		c.model = make([]bool, c.vars)
		return SAT
	}
	cnf := make([][]int, len(c.clauses))
	for i, clause := range c.clauses {
		cnf[i] = append([]int(nil), clause...)
	}
	s := solver.New(solver.ParseSliceNb(cnf, c.vars))
	switch s.Solve() {
	case solver.Sat:
		c.model = s.Model()
		return SAT
	case solver.Unsat:
		return UNSAT
	}
	return UNKNOWN
}

// Value reports the value of l in the model found by the last Solve.
func (c *ClauseList) Value(l z.Lit) bool {
	v := int(l.Var()) - 1
	if v < 0 || v >= len(c.model) {
		return !l.IsPos()
	}
	return c.model[v] == l.IsPos()
}
