package simplify

import (
	"sort"

	"github.com/pkg/errors"
)

var ErrUnknownPass = errors.New("unknown simplification pass")

var passes = map[string]func() Transformer{
	"flatten":         func() Transformer { return Flattener{} },
	"and-or-absorb":   func() Transformer { return AndOrAbsorber{} },
	"not-elim":        func() Transformer { return NotEliminator{} },
	"connective-fold": func() Transformer { return ConnectiveFolder{} },
	"bitvec-fold":     func() Transformer { return BitvecConstFolder{} },
	"neutral-elem":    func() Transformer { return NeutralElementRemover{} },
}

// DefaultPasses lists every pass, in the order Pipeline runs them by default.
var DefaultPasses = []string{
	"flatten",
	"and-or-absorb",
	"not-elim",
	"connective-fold",
	"bitvec-fold",
	"neutral-elem",
}

// PassNames returns the names accepted by Pipeline, sorted.
func PassNames() []string {
	names := make([]string, 0, len(passes))
	for name := range passes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type PipelineConfig struct {
	Passes    []string
	MaxPasses int
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Passes:    append([]string(nil), DefaultPasses...),
		MaxPasses: DefaultMaxPasses,
	}
}

// Pipeline builds the BaseTransformer running the configured passes in
// order. An empty list of passes yields a transformer that changes nothing.
func Pipeline(cfg PipelineConfig) (*BaseTransformer, error) {
	ts := make([]Transformer, 0, len(cfg.Passes))
	for _, name := range cfg.Passes {
		mk, ok := passes[name]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownPass, "%q", name)
		}
		ts = append(ts, mk())
	}
	return NewBaseTransformer(ts...), nil
}
