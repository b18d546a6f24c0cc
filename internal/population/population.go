// Package population holds an island's local set of individuals and tracks
// the best solution found so far.
package population

import (
	"fmt"
	"math/rand"
	"sort"

	"pelagos/internal/model"
	"pelagos/internal/problem"
)

// Population is an ordered sequence of evaluated individuals owned by exactly
// one island. The champion is the best individual ever observed, which may no
// longer be a member after replacement.
type Population struct {
	prob        problem.Problem
	individuals []model.Individual
	champion    model.Individual
	hasChampion bool
	evaluations int64
}

// NewRandom builds a population of size individuals sampled uniformly from
// the problem bounds and evaluated.
func NewRandom(p problem.Problem, size int, rng *rand.Rand) (*Population, error) {
	if p == nil {
		return nil, fmt.Errorf("problem is required")
	}
	if size <= 0 {
		return nil, fmt.Errorf("population size must be > 0, got %d", size)
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	pop := &Population{prob: p}
	lb, ub := p.Bounds()
	for i := 0; i < size; i++ {
		x := make([]float64, p.Dimension())
		for j := range x {
			x[j] = lb[j] + rng.Float64()*(ub[j]-lb[j])
		}
		ind, err := pop.Evaluate(x)
		if err != nil {
			return nil, err
		}
		pop.Push(ind)
	}
	return pop, nil
}

// Evaluate runs the objective function on a decision vector and returns the
// resulting individual without adding it to the population.
func (p *Population) Evaluate(x []float64) (model.Individual, error) {
	f := make([]float64, p.prob.ObjectiveDimension())
	if err := p.prob.Objfun(f, x); err != nil {
		return model.Individual{}, err
	}
	p.evaluations++
	return model.Individual{X: append([]float64(nil), x...), F: f}, nil
}

func (p *Population) Len() int {
	return len(p.individuals)
}

func (p *Population) Problem() problem.Problem {
	return p.prob
}

// Evaluations counts objective function calls made through this population.
func (p *Population) Evaluations() int64 {
	return p.evaluations
}

func (p *Population) Individual(i int) (model.Individual, error) {
	if i < 0 || i >= len(p.individuals) {
		return model.Individual{}, fmt.Errorf("individual index out of range: %d", i)
	}
	return p.individuals[i].Clone(), nil
}

// Individuals returns deep copies of all members in order.
func (p *Population) Individuals() []model.Individual {
	return model.CloneIndividuals(p.individuals)
}

func (p *Population) Push(ind model.Individual) {
	p.individuals = append(p.individuals, ind.Clone())
	p.observe(ind)
}

// Set replaces the member at index i, keeping champion tracking current.
func (p *Population) Set(i int, ind model.Individual) error {
	if i < 0 || i >= len(p.individuals) {
		return fmt.Errorf("individual index out of range: %d", i)
	}
	p.individuals[i] = ind.Clone()
	p.observe(ind)
	return nil
}

func (p *Population) observe(ind model.Individual) {
	if !p.hasChampion || model.Better(ind.F, p.champion.F) {
		p.champion = ind.Clone()
		p.hasChampion = true
	}
}

// Champion returns the best individual seen so far.
func (p *Population) Champion() (model.Individual, bool) {
	if !p.hasChampion {
		return model.Individual{}, false
	}
	return p.champion.Clone(), true
}

// WorstIndex returns the index of the member every other member beats under
// the fitness ordering.
func (p *Population) WorstIndex() int {
	if len(p.individuals) == 0 {
		return -1
	}
	worst := 0
	for i := 1; i < len(p.individuals); i++ {
		if model.Better(p.individuals[worst].F, p.individuals[i].F) {
			worst = i
		}
	}
	return worst
}

// RankedIndices returns member indices ordered best first.
func (p *Population) RankedIndices() []int {
	idx := make([]int, len(p.individuals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return model.Better(p.individuals[idx[a]].F, p.individuals[idx[b]].F)
	})
	return idx
}

// Clone deep-copies the population, including champion state and the problem.
func (p *Population) Clone() *Population {
	out := &Population{
		prob:        p.prob.Clone(),
		individuals: model.CloneIndividuals(p.individuals),
		hasChampion: p.hasChampion,
		evaluations: p.evaluations,
	}
	if p.hasChampion {
		out.champion = p.champion.Clone()
	}
	return out
}
