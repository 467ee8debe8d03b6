package solver

import (
	"github.com/borzacchiello/stevia"
	"github.com/borzacchiello/stevia/bitblast"
	"github.com/borzacchiello/stevia/encoders"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrUnknownBackend = errors.New("unknown solver backend")

type solverBackend interface {
	name() string
	check(constraints []stevia.AnyExpr) (int, error)
	evalUpto(e stevia.AnyExpr, constraints []stevia.AnyExpr, n int) ([]stevia.Value, error)
	model() map[string]stevia.Value
}

// run is one encoding session: a fresh encoder with the means to solve it
// and read the model back.
type run[L any] struct {
	enc   bitblast.BitEncoder[L]
	solve func() int
	value func(L) bool
	stats func() log.Fields
}

// satBackend lowers the whole query into a new run at every check.
type satBackend[L any] struct {
	id     string
	newRun func() run[L]
	last   map[string]stevia.Value
}

func newBackend(name string) (solverBackend, error) {
	switch name {
	case "gini":
		return &satBackend[z.Lit]{id: name, newRun: giniRun}, nil
	case "aig":
		return &satBackend[z.Lit]{id: name, newRun: aigRun}, nil
	case "gophersat":
		return &satBackend[z.Lit]{id: name, newRun: gophersatRun}, nil
	}
	return nil, errors.Wrapf(ErrUnknownBackend, "%q", name)
}

// Backends lists the names accepted in Config.Backend.
func Backends() []string {
	return []string{"gini", "aig", "gophersat"}
}

func giniRun() run[z.Lit] {
	sink := encoders.NewGiniSink()
	return run[z.Lit]{
		enc:   encoders.NewTseitin(sink),
		solve: func() int { return sink.Solve() },
		value: sink.Value,
		stats: func() log.Fields {
			return log.Fields{"vars": sink.Vars(), "clauses": sink.Clauses()}
		},
	}
}

func aigRun() run[z.Lit] {
	a := encoders.NewAIG()
	return run[z.Lit]{
		enc:   a,
		solve: func() int { return a.Solve() },
		value: a.Value,
		stats: func() log.Fields {
			return log.Fields{"nodes": a.Nodes(), "roots": len(a.Roots())}
		},
	}
}

func gophersatRun() run[z.Lit] {
	list := encoders.NewClauseList()
	return run[z.Lit]{
		enc:   encoders.NewTseitin(list),
		solve: list.Solve,
		value: list.Value,
		stats: func() log.Fields {
			return log.Fields{"vars": list.Vars(), "clauses": list.Clauses()}
		},
	}
}

func toResult(status int) int {
	switch status {
	case encoders.SAT:
		return RESULT_SAT
	case encoders.UNSAT:
		return RESULT_UNSAT
	}
	return RESULT_UNKNOWN
}

func (b *satBackend[L]) name() string {
	return b.id
}

func (b *satBackend[L]) model() map[string]stevia.Value {
	return b.last
}

func (b *satBackend[L]) lower(constraints []stevia.AnyExpr) (run[L], *bitblast.Lowerer[L], error) {
	r := b.newRun()
	l := bitblast.NewLowerer(r.enc)
	for _, c := range constraints {
		if err := l.Assert(c); err != nil {
			return r, nil, err
		}
	}
	return r, l, nil
}

func (b *satBackend[L]) solve(r run[L]) int {
	fields := r.stats()
	fields["backend"] = b.id
	log.WithFields(fields).Debug("solving")
	return toResult(r.solve())
}

func (b *satBackend[L]) check(constraints []stevia.AnyExpr) (int, error) {
	b.last = nil
	r, l, err := b.lower(constraints)
	if err != nil {
		return RESULT_ERROR, err
	}
	res := b.solve(r)
	if res == RESULT_SAT {
		b.last = l.DecodeModel(r.value)
	}
	return res, nil
}

// evalUpto finds up to n distinct values of e, blocking each value found
// before solving again.
func (b *satBackend[L]) evalUpto(e stevia.AnyExpr, constraints []stevia.AnyExpr, n int) ([]stevia.Value, error) {
	var res []stevia.Value
	query := append([]stevia.AnyExpr(nil), constraints...)
	for len(res) < n {
		r, l, err := b.lower(query)
		if err != nil {
			return nil, err
		}
		lits, err := l.Term(e)
		if err != nil {
			return nil, err
		}
		if b.solve(r) != RESULT_SAT {
			break
		}
		v := bitblast.Decode(e.Type(), lits, r.value)
		res = append(res, v)

		block, err := differs(stevia.Clone(e), v)
		if err != nil {
			return nil, err
		}
		query = append(query, block)
	}
	return res, nil
}

func differs(e stevia.AnyExpr, v stevia.Value) (stevia.AnyExpr, error) {
	if v.IsBool() {
		return stevia.Lift(stevia.NewXor(e, v.Expr()))
	}
	eq, err := stevia.NewEquals(e, v.Expr())
	if err != nil {
		return nil, err
	}
	return stevia.Lift(stevia.NewNot(eq))
}
