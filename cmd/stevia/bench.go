package main

import (
	"fmt"
	"time"

	"github.com/borzacchiello/stevia"
	"github.com/borzacchiello/stevia/internal/gen"
	"github.com/borzacchiello/stevia/solver"
	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var ErrWrongModel = errors.New("model does not satisfy the formula")

var benchCommand = &cobra.Command{
	Use:   "bench",
	Short: "solve random formulas and check the models",
	Long:  ``,
	RunE: func(*cobra.Command, []string) error {
		return bench()
	},
}

var (
	benchCount int
	genSeed    int64
	genDepth   int
	genWidth   uint32
	dump       bool
)

func addGenFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&genSeed, "seed", 0, "seed of the first formula")
	cmd.Flags().IntVar(&genDepth, "depth", 4, "depth of the formulas")
	cmd.Flags().Uint32Var(&genWidth, "width", 8, "width of the bitvector symbols")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump every formula")
}

func init() {
	benchCommand.Flags().IntVar(&benchCount, "count", 100, "number of formulas")
	addGenFlags(benchCommand)
}

func genConfig() gen.Config {
	cfg := gen.DefaultConfig()
	cfg.Depth = genDepth
	cfg.Width = stevia.BitvecTy(genWidth)
	return cfg
}

var verdictColors = map[int]color.Attribute{
	solver.RESULT_SAT:     color.FgGreen,
	solver.RESULT_UNSAT:   color.FgYellow,
	solver.RESULT_UNKNOWN: color.FgMagenta,
	solver.RESULT_ERROR:   color.FgRed,
}

var verdictNames = map[int]string{
	solver.RESULT_SAT:     "sat",
	solver.RESULT_UNSAT:   "unsat",
	solver.RESULT_UNKNOWN: "unknown",
	solver.RESULT_ERROR:   "error",
}

func verdict(res int) string {
	return color.New(verdictColors[res]).Sprint(verdictNames[res])
}

// checkModel evaluates f under the model, completing it with random values
// for the symbols simplification dropped.
func checkModel(f stevia.AnyExpr, g *gen.Generator, model map[string]stevia.Value) error {
	env := g.Env()
	for name, v := range model {
		env[name] = v
	}
	v, err := stevia.Eval(f, env)
	if err != nil {
		return err
	}
	if !v.Bool() {
		return errors.Wrapf(ErrWrongModel, "%s", f)
	}
	return nil
}

func bench() error {
	counts := make(map[int]int)
	var elapsed time.Duration
	for i := 0; i < benchCount; i++ {
		seed := genSeed + int64(i)
		g := gen.New(seed, genConfig())
		f := g.Formula()
		if dump {
			spew.Dump(f)
		}

		s, err := solver.New(solverConfig())
		if err != nil {
			return err
		}
		start := time.Now()
		if err := s.Add(f); err != nil {
			return errors.Wrapf(err, "seed %d", seed)
		}
		res, err := s.Check()
		took := time.Since(start)
		elapsed += took
		if err != nil {
			return errors.Wrapf(err, "seed %d", seed)
		}
		counts[res]++

		if res == solver.RESULT_SAT {
			if err := checkModel(f, g, s.Model()); err != nil {
				return errors.Wrapf(err, "seed %d", seed)
			}
		}
		log.WithFields(log.Fields{"seed": seed, "time": took}).Debug(f)
		fmt.Printf("%6d %s\n", seed, verdict(res))
	}

	fmt.Printf("%s: %d, %s: %d, %s: %d in %s\n",
		verdict(solver.RESULT_SAT), counts[solver.RESULT_SAT],
		verdict(solver.RESULT_UNSAT), counts[solver.RESULT_UNSAT],
		verdict(solver.RESULT_UNKNOWN), counts[solver.RESULT_UNKNOWN],
		elapsed)
	return nil
}
