package archipelago

import (
	"fmt"
	"math/rand"

	"pelagos/internal/algorithm"
	"pelagos/internal/migration"
	"pelagos/internal/model"
	"pelagos/internal/population"
	"pelagos/internal/problem"
)

// Island owns one population and evolves it with its own algorithm clone.
// An island is bound to at most one archipelago at a time; the archipelago
// sets the back-reference on PushBack and the zero value means unbound.
type Island struct {
	prob problem.Problem
	algo algorithm.Algorithm
	pop  *population.Population
	sel  migration.SelectionPolicy
	rep  migration.ReplacementPolicy

	bound *Archipelago
	index int

	// trace collects the champion's first objective after each epoch. It is
	// written only by the island's own worker and read after Join.
	trace []float64
}

// IslandConfig assembles an island. Selection and Replacement default to one
// best individual out and fair assimilation in.
type IslandConfig struct {
	Problem     problem.Problem
	Algorithm   algorithm.Algorithm
	Size        int
	Rand        *rand.Rand
	Selection   migration.SelectionPolicy
	Replacement migration.ReplacementPolicy
}

func NewIsland(cfg IslandConfig) (*Island, error) {
	if cfg.Problem == nil {
		return nil, fmt.Errorf("problem is required")
	}
	if cfg.Algorithm == nil {
		return nil, fmt.Errorf("algorithm is required")
	}
	if cfg.Rand == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if cfg.Selection == nil {
		cfg.Selection = migration.NewBestKAbsolute(1)
	}
	if cfg.Replacement == nil {
		cfg.Replacement = migration.FairReplacement{}
	}
	prob := cfg.Problem.Clone()
	pop, err := population.NewRandom(prob, cfg.Size, cfg.Rand)
	if err != nil {
		return nil, err
	}
	return &Island{
		prob: prob,
		algo: cfg.Algorithm.Clone(),
		pop:  pop,
		sel:  cfg.Selection,
		rep:  cfg.Replacement,
	}, nil
}

func (isl *Island) Problem() problem.Problem {
	return isl.prob
}

func (isl *Island) AlgorithmName() string {
	return isl.algo.Name()
}

// Population returns the island's population. Callers must only touch it
// while the owning archipelago is idle.
func (isl *Island) Population() *population.Population {
	return isl.pop
}

// FitnessTrace returns the per-epoch champion fitness recorded during the
// last evolution run.
func (isl *Island) FitnessTrace() []float64 {
	return append([]float64(nil), isl.trace...)
}

func (isl *Island) recordEpoch() {
	if best, ok := isl.pop.Champion(); ok && len(best.F) > 0 {
		isl.trace = append(isl.trace, best.F[0])
	}
}

// Clone deep-copies the island. The copy is unbound.
func (isl *Island) Clone() *Island {
	return &Island{
		prob:  isl.prob.Clone(),
		algo:  isl.algo.Clone(),
		pop:   isl.pop.Clone(),
		sel:   isl.sel,
		rep:   isl.rep,
		trace: append([]float64(nil), isl.trace...),
	}
}

func (isl *Island) champion() (model.Individual, bool) {
	return isl.pop.Champion()
}
