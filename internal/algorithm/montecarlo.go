package algorithm

import (
	"fmt"
	"math/rand"

	"pelagos/internal/model"
	"pelagos/internal/population"
)

// MonteCarlo resamples each member uniformly from the bounds, keeping the
// replacement only when it improves. Mostly useful as a baseline.
type MonteCarlo struct {
	rng *rand.Rand
}

func NewMonteCarlo(seed int64) *MonteCarlo {
	return &MonteCarlo{rng: rand.New(rand.NewSource(seed))}
}

func (a *MonteCarlo) Name() string {
	return "montecarlo"
}

func (a *MonteCarlo) Clone() Algorithm {
	return &MonteCarlo{rng: rand.New(rand.NewSource(a.rng.Int63()))}
}

func (a *MonteCarlo) Evolve(pop *population.Population) error {
	n := pop.Len()
	if n == 0 {
		return fmt.Errorf("montecarlo: empty population")
	}
	lb, ub := pop.Problem().Bounds()
	members := pop.Individuals()
	for i := 0; i < n; i++ {
		x := make([]float64, len(lb))
		for j := range x {
			x[j] = lb[j] + a.rng.Float64()*(ub[j]-lb[j])
		}
		candidate, err := pop.Evaluate(x)
		if err != nil {
			return err
		}
		if model.Better(candidate.F, members[i].F) {
			if err := pop.Set(i, candidate); err != nil {
				return err
			}
		}
	}
	return nil
}
