// Package solver decides conjunctions of stevia formulas by simplifying them
// and bit-blasting them into a SAT backend.
package solver

import (
	"io"
	"sort"

	"github.com/borzacchiello/stevia"
	"github.com/borzacchiello/stevia/bitblast"
	"github.com/borzacchiello/stevia/encoders"
	"github.com/borzacchiello/stevia/simplify"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	RESULT_ERROR   = 0
	RESULT_SAT     = 1
	RESULT_UNSAT   = 2
	RESULT_UNKNOWN = 3
)

var ErrUnsatisfiable = errors.New("constraints are unsatisfiable")

type Config struct {
	Backend  string
	Pipeline simplify.PipelineConfig
}

func DefaultConfig() Config {
	return Config{
		Backend:  "gini",
		Pipeline: simplify.DefaultPipelineConfig(),
	}
}

type Solver struct {
	cfg      Config
	pipeline *simplify.BaseTransformer
	backend  solverBackend

	constraints []stevia.AnyExpr
	hashes      map[uint64][]int
	// a constraint simplified to false
	trivialUnsat bool

	symTypes         map[string]stevia.Type
	symToConstraints map[string]map[int]bool
	symDependencies  map[string]map[string]bool
}

func New(cfg Config) (*Solver, error) {
	pipeline, err := simplify.Pipeline(cfg.Pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "New")
	}
	backend, err := newBackend(cfg.Backend)
	if err != nil {
		return nil, errors.Wrap(err, "New")
	}
	return &Solver{
		cfg:              cfg,
		pipeline:         pipeline,
		backend:          backend,
		hashes:           make(map[uint64][]int),
		symTypes:         make(map[string]stevia.Type),
		symToConstraints: make(map[string]map[int]bool),
		symDependencies:  make(map[string]map[string]bool),
	}, nil
}

func (s *Solver) Clone() *Solver {
	backend, _ := newBackend(s.cfg.Backend)
	clone := &Solver{
		cfg:              s.cfg,
		pipeline:         s.pipeline,
		backend:          backend,
		constraints:      append([]stevia.AnyExpr(nil), s.constraints...),
		hashes:           make(map[uint64][]int),
		trivialUnsat:     s.trivialUnsat,
		symTypes:         make(map[string]stevia.Type),
		symToConstraints: make(map[string]map[int]bool),
		symDependencies:  make(map[string]map[string]bool),
	}
	for k, v := range s.hashes {
		clone.hashes[k] = append([]int(nil), v...)
	}
	for k, v := range s.symTypes {
		clone.symTypes[k] = v
	}
	for k1, val1 := range s.symToConstraints {
		set := make(map[int]bool)
		for k2 := range val1 {
			set[k2] = true
		}
		clone.symToConstraints[k1] = set
	}
	for k1, val1 := range s.symDependencies {
		set := make(map[string]bool)
		for k2 := range val1 {
			set[k2] = true
		}
		clone.symDependencies[k1] = set
	}
	return clone
}

// involvedInputs returns the symbols of e with their type.
func involvedInputs(e stevia.AnyExpr) map[string]stevia.Type {
	syms := make(map[string]stevia.Type)
	var visit func(e stevia.AnyExpr)
	visit = func(e stevia.AnyExpr) {
		if sym, ok := e.(*stevia.Symbol); ok {
			syms[sym.Name()] = sym.Type()
			return
		}
		it := e.Children()
		for c, ok := it.Next(); ok; c, ok = it.Next() {
			visit(c)
		}
	}
	visit(e)
	return syms
}

func sortedNames(syms map[string]stevia.Type) []string {
	names := make([]string, 0, len(syms))
	for name := range syms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Solver) checkSymbols(e stevia.AnyExpr) error {
	syms := involvedInputs(e)
	for _, name := range sortedNames(syms) {
		if ty, ok := s.symTypes[name]; ok && ty != syms[name] {
			return errors.Wrapf(bitblast.ErrSymbolType, "%q is %s, not %s", name, ty, syms[name])
		}
	}
	for name, ty := range syms {
		s.symTypes[name] = ty
	}
	return nil
}

func (s *Solver) simplify(e stevia.AnyExpr) stevia.AnyExpr {
	e = stevia.Clone(e)
	passes, res, err := s.pipeline.Fixpoint(&e, s.cfg.Pipeline.MaxPasses)
	log.WithFields(log.Fields{"passes": passes, "result": res}).Debug("simplified")
	if err != nil {
		// still equivalent, only not fully simplified
		log.WithError(err).Debug("simplification stopped")
	}
	return e
}

func (s *Solver) registerConstraint(idx int, e stevia.AnyExpr) {
	syms := sortedNames(involvedInputs(e))
	for i, sym := range syms {
		if _, ok := s.symToConstraints[sym]; !ok {
			s.symToConstraints[sym] = make(map[int]bool)
		}
		s.symToConstraints[sym][idx] = true
		if _, ok := s.symDependencies[sym]; !ok {
			s.symDependencies[sym] = make(map[string]bool)
		}
		for _, other := range syms[i+1:] {
			if _, ok := s.symDependencies[other]; !ok {
				s.symDependencies[other] = make(map[string]bool)
			}
			s.symDependencies[sym][other] = true
			s.symDependencies[other][sym] = true
		}
	}
}

// Add records a constraint. The solver keeps its own simplified copy.
func (s *Solver) Add(constraint stevia.AnyExpr) error {
	if !constraint.Type().IsBool() {
		return errors.Wrapf(bitblast.ErrNotFormula, "Add: %s has type %s", constraint, constraint.Type())
	}
	if err := s.checkSymbols(constraint); err != nil {
		return errors.Wrap(err, "Add")
	}

	e := s.simplify(constraint)
	if c, ok := e.(*stevia.BoolConst); ok {
		if !c.Value() {
			s.trivialUnsat = true
		}
		return nil
	}

	key := stevia.Hash(e)
	for _, idx := range s.hashes[key] {
		if stevia.Equal(s.constraints[idx], e) {
			return nil
		}
	}
	idx := len(s.constraints)
	s.constraints = append(s.constraints, e)
	s.hashes[key] = append(s.hashes[key], idx)
	s.registerConstraint(idx, e)
	return nil
}

// Constraints returns the simplified constraints added so far.
func (s *Solver) Constraints() []stevia.AnyExpr {
	return append([]stevia.AnyExpr(nil), s.constraints...)
}

// dependentConstraints returns the constraints sharing symbols with e, even
// through other constraints.
func (s *Solver) dependentConstraints(e stevia.AnyExpr) []stevia.AnyExpr {
	seen := make(map[string]bool)
	todo := sortedNames(involvedInputs(e))
	for len(todo) > 0 {
		sym := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if seen[sym] {
			continue
		}
		seen[sym] = true
		for other := range s.symDependencies[sym] {
			if !seen[other] {
				todo = append(todo, other)
			}
		}
	}

	idxs := make(map[int]bool)
	for sym := range seen {
		for idx := range s.symToConstraints[sym] {
			idxs[idx] = true
		}
	}
	res := make([]stevia.AnyExpr, 0, len(idxs))
	for idx := range s.constraints {
		if idxs[idx] {
			res = append(res, s.constraints[idx])
		}
	}
	return res
}

// Check decides the conjunction of every constraint.
func (s *Solver) Check() (int, error) {
	if s.trivialUnsat {
		return RESULT_UNSAT, nil
	}
	return s.backend.check(s.constraints)
}

// CheckSat decides query together with the constraints it depends on.
func (s *Solver) CheckSat(query stevia.AnyExpr) (int, error) {
	if !query.Type().IsBool() {
		return RESULT_ERROR, errors.Wrapf(bitblast.ErrNotFormula, "CheckSat: %s has type %s", query, query.Type())
	}
	if s.trivialUnsat {
		return RESULT_UNSAT, nil
	}
	q := s.simplify(query)
	if c, ok := q.(*stevia.BoolConst); ok && !c.Value() {
		return RESULT_UNSAT, nil
	}
	return s.backend.check(append(s.dependentConstraints(q), q))
}

// Model returns the assignment found by the last satisfiable check, limited
// to the symbols that check involved.
func (s *Solver) Model() map[string]stevia.Value {
	return s.backend.model()
}

// EvalUpto returns up to n distinct values e takes in the models of the
// constraints it depends on.
func (s *Solver) EvalUpto(e stevia.AnyExpr, n int) ([]stevia.Value, error) {
	if s.trivialUnsat {
		return nil, nil
	}
	return s.backend.evalUpto(e, s.dependentConstraints(e), n)
}

func (s *Solver) Eval(e stevia.AnyExpr) (stevia.Value, error) {
	vals, err := s.EvalUpto(e, 1)
	if err != nil {
		return stevia.Value{}, err
	}
	if len(vals) == 0 {
		return stevia.Value{}, errors.Wrapf(ErrUnsatisfiable, "Eval %s", e)
	}
	return vals[0], nil
}

// WriteDimacs writes the CNF encoding of the constraints.
func (s *Solver) WriteDimacs(w io.Writer) error {
	list := encoders.NewClauseList()
	l := bitblast.NewLowerer[z.Lit](encoders.NewTseitin(list))
	for _, c := range s.constraints {
		if err := l.Assert(c); err != nil {
			return errors.Wrap(err, "WriteDimacs")
		}
	}
	if s.trivialUnsat {
		list.AddClause()
	}
	return list.WriteDimacs(w)
}
