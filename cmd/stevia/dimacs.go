package main

import (
	"io"
	"os"

	"github.com/borzacchiello/stevia/internal/gen"
	"github.com/borzacchiello/stevia/solver"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var dimacsCommand = &cobra.Command{
	Use:   "dimacs",
	Short: "write the CNF of random formulas in DIMACS format",
	Long:  ``,
	RunE: func(*cobra.Command, []string) error {
		return writeDimacs()
	},
}

var (
	dimacsOut   string
	dimacsCount int
)

func init() {
	dimacsCommand.Flags().StringVar(&dimacsOut, "out", "", "output file (default stdout)")
	dimacsCommand.Flags().IntVar(&dimacsCount, "count", 1, "number of formulas in the conjunction")
	addGenFlags(dimacsCommand)
}

func writeDimacs() error {
	s, err := solver.New(solverConfig())
	if err != nil {
		return err
	}
	for i := 0; i < dimacsCount; i++ {
		f := gen.New(genSeed+int64(i), genConfig()).Formula()
		if dump {
			spew.Fdump(os.Stderr, f)
		}
		if err := s.Add(f); err != nil {
			return err
		}
	}

	var w io.Writer = os.Stdout
	if dimacsOut != "" {
		fp, err := os.Create(dimacsOut)
		if err != nil {
			return errors.Wrap(err, "dimacs")
		}
		defer fp.Close()
		w = fp
	}
	return s.WriteDimacs(w)
}
