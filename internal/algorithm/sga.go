package algorithm

import (
	"fmt"
	"math/rand"

	"pelagos/internal/model"
	"pelagos/internal/population"
)

// SGA is a simple generational genetic algorithm: tournament selection, blend
// crossover, gaussian mutation, with the top Elites carried over unchanged.
type SGA struct {
	rng            *rand.Rand
	CrossoverRate  float64
	MutationRate   float64
	MutationStd    float64
	TournamentSize int
	Elites         int
}

func NewSGA(seed int64) *SGA {
	return &SGA{
		rng:            rand.New(rand.NewSource(seed)),
		CrossoverRate:  0.9,
		MutationRate:   0.1,
		MutationStd:    0.3,
		TournamentSize: 2,
		Elites:         1,
	}
}

func (a *SGA) Name() string {
	return "sga"
}

func (a *SGA) Clone() Algorithm {
	out := *a
	out.rng = rand.New(rand.NewSource(a.rng.Int63()))
	return &out
}

func (a *SGA) Evolve(pop *population.Population) error {
	n := pop.Len()
	if n == 0 {
		return fmt.Errorf("sga: empty population")
	}
	members := pop.Individuals()
	ranked := pop.RankedIndices()
	lb, ub := pop.Problem().Bounds()

	elites := a.Elites
	if elites > n {
		elites = n
	}

	next := make([]model.Individual, 0, n)
	for i := 0; i < elites; i++ {
		next = append(next, members[ranked[i]])
	}

	for len(next) < n {
		p1 := a.tournament(members)
		p2 := a.tournament(members)
		child := make([]float64, len(p1.X))
		if a.rng.Float64() < a.CrossoverRate {
			for j := range child {
				w := a.rng.Float64()
				child[j] = w*p1.X[j] + (1.0-w)*p2.X[j]
			}
		} else {
			copy(child, p1.X)
		}
		for j := range child {
			if a.rng.Float64() < a.MutationRate {
				span := ub[j] - lb[j]
				child[j] += a.rng.NormFloat64() * a.MutationStd * span
			}
			child[j] = clamp(child[j], lb[j], ub[j])
		}
		ind, err := pop.Evaluate(child)
		if err != nil {
			return err
		}
		next = append(next, ind)
	}

	for i, ind := range next {
		if err := pop.Set(i, ind); err != nil {
			return err
		}
	}
	return nil
}

func (a *SGA) tournament(members []model.Individual) model.Individual {
	size := a.TournamentSize
	if size < 2 {
		size = 2
	}
	best := members[a.rng.Intn(len(members))]
	for i := 1; i < size; i++ {
		challenger := members[a.rng.Intn(len(members))]
		if model.Better(challenger.F, best.F) {
			best = challenger
		}
	}
	return best
}
