package algorithm

import (
	"fmt"
	"math/rand"

	"pelagos/internal/model"
	"pelagos/internal/population"
)

// DE implements rand/1/bin differential evolution. Each member is challenged
// by a trial vector built from three distinct peers; the better of the two
// survives.
type DE struct {
	rng *rand.Rand
	F   float64
	CR  float64
}

func NewDE(seed int64) *DE {
	return &DE{
		rng: rand.New(rand.NewSource(seed)),
		F:   0.8,
		CR:  0.9,
	}
}

func (a *DE) Name() string {
	return "de"
}

func (a *DE) Clone() Algorithm {
	out := *a
	out.rng = rand.New(rand.NewSource(a.rng.Int63()))
	return &out
}

func (a *DE) Evolve(pop *population.Population) error {
	n := pop.Len()
	if n < 4 {
		return fmt.Errorf("de: population size must be >= 4, got %d", n)
	}
	members := pop.Individuals()
	lb, ub := pop.Problem().Bounds()
	dim := len(members[0].X)

	for i := 0; i < n; i++ {
		r1, r2, r3 := a.distinctPeers(n, i)
		trial := make([]float64, dim)
		jrand := a.rng.Intn(dim)
		for j := 0; j < dim; j++ {
			if a.rng.Float64() < a.CR || j == jrand {
				trial[j] = members[r1].X[j] + a.F*(members[r2].X[j]-members[r3].X[j])
			} else {
				trial[j] = members[i].X[j]
			}
			trial[j] = clamp(trial[j], lb[j], ub[j])
		}
		candidate, err := pop.Evaluate(trial)
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

func (a *DE) distinctPeers(n, exclude int) (int, int, int) {
	picked := [3]int{}
	for k := 0; k < 3; {
		c := a.rng.Intn(n)
		if c == exclude {
			continue
		}
		dup := false
		for j := 0; j < k; j++ {
			if picked[j] == c {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		picked[k] = c
		k++
	}
	return picked[0], picked[1], picked[2]
}
