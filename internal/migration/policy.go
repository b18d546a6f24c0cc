// Package migration implements the machinery that moves individuals between
// islands: emigrant selection, immigrant assimilation, the thread-safe
// staging store, and the migration history log.
package migration

import (
	"fmt"

	"pelagos/internal/model"
	"pelagos/internal/population"
)

// SelectionPolicy chooses emigrants from a population. MigrationCount derives
// the emigrant count from either an absolute rate (used when >= 0) or a
// fractional rate in [0, 1] of the population size.
type SelectionPolicy interface {
	Name() string
	MigrationCount(pop *population.Population) (int, error)
	Select(pop *population.Population) ([]model.Individual, error)
}

// ReplacementPolicy integrates immigrants into a population and reports how
// many were actually accepted.
type ReplacementPolicy interface {
	Name() string
	Assimilate(pop *population.Population, immigrants []model.Individual) (int, error)
}

// BestKSelection picks the top individuals by fitness. With RateAbs >= 0 the
// count is fixed; otherwise RateFrac scales with population size.
type BestKSelection struct {
	RateAbs  int
	RateFrac float64
}

// NewBestKAbsolute selects a fixed number of emigrants per epoch.
func NewBestKAbsolute(n int) BestKSelection {
	return BestKSelection{RateAbs: n}
}

// NewBestKFraction selects a population-size fraction of emigrants per epoch.
func NewBestKFraction(f float64) BestKSelection {
	return BestKSelection{RateAbs: -1, RateFrac: f}
}

func (s BestKSelection) Name() string {
	return "best_k"
}

func (s BestKSelection) MigrationCount(pop *population.Population) (int, error) {
	size := pop.Len()
	if s.RateAbs < 0 {
		if s.RateFrac < 0 || s.RateFrac > 1.0 {
			return 0, fmt.Errorf("fractional migration rate out of range: %g", s.RateFrac)
		}
		return int(s.RateFrac * float64(size)), nil
	}
	if s.RateAbs > size {
		return 0, fmt.Errorf("absolute migration rate %d exceeds population size %d", s.RateAbs, size)
	}
	return s.RateAbs, nil
}

func (s BestKSelection) Select(pop *population.Population) ([]model.Individual, error) {
	count, err := s.MigrationCount(pop)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	ranked := pop.RankedIndices()
	out := make([]model.Individual, 0, count)
	for _, idx := range ranked[:count] {
		ind, err := pop.Individual(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, ind)
	}
	return out, nil
}

// FairReplacement accepts an immigrant only when it beats the current worst
// local, which it then replaces.
type FairReplacement struct{}

func (FairReplacement) Name() string {
	return "fair"
}

func (FairReplacement) Assimilate(pop *population.Population, immigrants []model.Individual) (int, error) {
	accepted := 0
	for _, imm := range immigrants {
		worst := pop.WorstIndex()
		if worst < 0 {
			break
		}
		current, err := pop.Individual(worst)
		if err != nil {
			return accepted, err
		}
		if !model.Better(imm.F, current.F) {
			continue
		}
		if err := pop.Set(worst, imm); err != nil {
			return accepted, err
		}
		accepted++
	}
	return accepted, nil
}
