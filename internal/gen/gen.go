// Package gen builds deterministic pseudo random well-typed expression trees.
package gen

import (
	"fmt"
	"math/rand"

	"github.com/borzacchiello/stevia"
	"github.com/borzacchiello/stevia/fixint"
)

type Config struct {
	Depth      int
	Width      stevia.BitvecTy
	BoolVars   int
	BitvecVars int
}

func DefaultConfig() Config {
	return Config{Depth: 4, Width: 8, BoolVars: 3, BitvecVars: 3}
}

type Generator struct {
	cfg Config
	rnd *rand.Rand
}

func New(seed int64, cfg Config) *Generator {
	if cfg.Width == 0 {
		cfg.Width = 8
	}
	if cfg.BoolVars <= 0 {
		cfg.BoolVars = 1
	}
	if cfg.BitvecVars <= 0 {
		cfg.BitvecVars = 1
	}
	return &Generator{cfg: cfg, rnd: rand.New(rand.NewSource(seed))}
}

func BoolVar(i int) string   { return fmt.Sprintf("p%d", i) }
func BitvecVar(i int) string { return fmt.Sprintf("a%d", i) }

// Env returns a random assignment of every variable the generator may use.
func (g *Generator) Env() map[string]stevia.Value {
	env := make(map[string]stevia.Value, g.cfg.BoolVars+g.cfg.BitvecVars)
	for i := 0; i < g.cfg.BoolVars; i++ {
		env[BoolVar(i)] = stevia.BoolValue(g.rnd.Intn(2) == 1)
	}
	for i := 0; i < g.cfg.BitvecVars; i++ {
		env[BitvecVar(i)] = stevia.BitvecValue(g.value(g.cfg.Width))
	}
	return env
}

func (g *Generator) value(ty stevia.BitvecTy) *fixint.FixInt {
	blocks := make([]fixint.Block, (ty+63)/64)
	for i := range blocks {
		blocks[i] = fixint.Block(g.rnd.Uint64())
	}
	// small values make neutral and absorbing constants show up
	if g.rnd.Intn(3) == 0 {
		blocks = []fixint.Block{fixint.Block(g.rnd.Intn(3))}
	}
	v, err := fixint.FromBlocks(uint32(ty), blocks)
	if err != nil {
		panic(err)
	}
	return v
}

func (g *Generator) Formula() stevia.AnyExpr {
	return g.formula(g.cfg.Depth)
}

func (g *Generator) Term() stevia.AnyExpr {
	return g.term(g.cfg.Width, g.cfg.Depth)
}

func (g *Generator) formula(depth int) stevia.AnyExpr {
	if depth <= 0 || g.rnd.Intn(5) == 0 {
		if g.rnd.Intn(4) == 0 {
			return stevia.NewBoolConst(g.rnd.Intn(2) == 1)
		}
		return stevia.NewBoolSymbol(BoolVar(g.rnd.Intn(g.cfg.BoolVars)))
	}
	d := depth - 1
	w := g.cfg.Width
	switch g.rnd.Intn(13) {
	case 0:
		return stevia.MustLift(stevia.NewNot(g.formula(d)))
	case 1:
		return stevia.MustLift(stevia.NewAnd(g.formulas(d)...))
	case 2:
		return stevia.MustLift(stevia.NewOr(g.formulas(d)...))
	case 3:
		return stevia.MustLift(stevia.NewXor(g.formula(d), g.formula(d)))
	case 4:
		return stevia.MustLift(stevia.NewImplies(g.formula(d), g.formula(d)))
	case 5:
		return stevia.MustLift(stevia.NewBoolEquals(g.formula(d), g.formula(d)))
	case 6:
		return stevia.MustLift(stevia.NewIfThenElse(g.formula(d), g.formula(d), g.formula(d)))
	case 7:
		return stevia.MustLift(stevia.NewEquals(g.term(w, d), g.term(w, d)))
	case 8:
		return stevia.MustLift(stevia.NewUlt(g.term(w, d), g.term(w, d)))
	case 9:
		return stevia.MustLift(stevia.NewUle(g.term(w, d), g.term(w, d)))
	case 10:
		return stevia.MustLift(stevia.NewSlt(g.term(w, d), g.term(w, d)))
	case 11:
		return stevia.MustLift(stevia.NewSle(g.term(w, d), g.term(w, d)))
	}
	return stevia.NewBoolConst(g.rnd.Intn(2) == 1)
}

func (g *Generator) formulas(depth int) []stevia.AnyExpr {
	ops := make([]stevia.AnyExpr, 2+g.rnd.Intn(2))
	for i := range ops {
		ops[i] = g.formula(depth)
	}
	return ops
}

func (g *Generator) terms(ty stevia.BitvecTy, depth int) []stevia.AnyExpr {
	ops := make([]stevia.AnyExpr, 2+g.rnd.Intn(2))
	for i := range ops {
		ops[i] = g.term(ty, depth)
	}
	return ops
}

// term returns a term of width ty. Symbols always have the configured
// width, other widths are reached through extraction and extension.
func (g *Generator) term(ty stevia.BitvecTy, depth int) stevia.AnyExpr {
	w := g.cfg.Width
	if ty < w && g.rnd.Intn(2) == 0 {
		lo := uint32(g.rnd.Intn(int(w - ty + 1)))
		return stevia.MustLift(stevia.NewExtract(g.term(w, depth-1), lo+uint32(ty)-1, lo))
	}
	if ty > w && g.rnd.Intn(2) == 0 {
		if g.rnd.Intn(2) == 0 {
			return stevia.MustLift(stevia.NewZeroExtend(g.term(w, depth-1), ty))
		}
		return stevia.MustLift(stevia.NewSignExtend(g.term(w, depth-1), ty))
	}
	if depth <= 0 || g.rnd.Intn(5) == 0 {
		if ty == w && g.rnd.Intn(3) != 0 {
			return stevia.MustLift(stevia.NewBitvecSymbol(BitvecVar(g.rnd.Intn(g.cfg.BitvecVars)), w))
		}
		return stevia.MustLift(stevia.NewBitvecConstFrom(g.value(ty)))
	}
	d := depth - 1
	switch g.rnd.Intn(14) {
	case 0:
		return stevia.MustLift(stevia.NewBitNot(ty, g.term(ty, d)))
	case 1:
		return stevia.MustLift(stevia.NewNeg(ty, g.term(ty, d)))
	case 2:
		return stevia.MustLift(stevia.NewBitAnd(ty, g.terms(ty, d)...))
	case 3:
		return stevia.MustLift(stevia.NewBitOr(ty, g.terms(ty, d)...))
	case 4:
		return stevia.MustLift(stevia.NewBitXor(ty, g.terms(ty, d)...))
	case 5:
		return stevia.MustLift(stevia.NewAdd(ty, g.terms(ty, d)...))
	case 6:
		return stevia.MustLift(stevia.NewMul(ty, g.term(ty, d), g.term(ty, d)))
	case 7:
		return stevia.MustLift(stevia.NewSub(ty, g.term(ty, d), g.term(ty, d)))
	case 8:
		return stevia.MustLift(stevia.NewShl(ty, g.term(ty, d), g.term(ty, d)))
	case 9:
		return stevia.MustLift(stevia.NewLogicalShiftRight(ty, g.term(ty, d), g.term(ty, d)))
	case 10:
		return stevia.MustLift(stevia.NewArithmeticShiftRight(ty, g.term(ty, d), g.term(ty, d)))
	case 11:
		return stevia.MustLift(stevia.NewIfThenElse(g.formula(d), g.term(ty, d), g.term(ty, d)))
	case 12:
		if ty >= 2 {
			hi := stevia.BitvecTy(1 + g.rnd.Intn(int(ty-1)))
			return stevia.MustLift(stevia.NewConcat(g.term(hi, d), g.term(ty-hi, d)))
		}
	}
	return stevia.MustLift(stevia.NewBitvecConstFrom(g.value(ty)))
}
