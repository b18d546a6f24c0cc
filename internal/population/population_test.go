package population

import (
	"math/rand"
	"testing"

	"pelagos/internal/model"
	"pelagos/internal/problem"
)

func TestNewRandomWithinBounds(t *testing.T) {
	p, err := problem.NewSphere(4)
	if err != nil {
		t.Fatalf("new sphere: %v", err)
	}
	rng := rand.New(rand.NewSource(7))
	pop, err := NewRandom(p, 20, rng)
	if err != nil {
		t.Fatalf("new random: %v", err)
	}
	if pop.Len() != 20 {
		t.Fatalf("len: got %d, want 20", pop.Len())
	}
	lb, ub := p.Bounds()
	for _, ind := range pop.Individuals() {
		for j, v := range ind.X {
			if v < lb[j] || v > ub[j] {
				t.Fatalf("gene %d out of bounds: %g", j, v)
			}
		}
		if len(ind.F) != 1 {
			t.Fatalf("fitness length: got %d, want 1", len(ind.F))
		}
	}
	if _, ok := pop.Champion(); !ok {
		t.Fatal("expected a champion after initialization")
	}
}

func TestChampionTracksBest(t *testing.T) {
	p, _ := problem.NewSphere(2)
	pop := &Population{prob: p}
	pop.Push(model.Individual{X: []float64{1, 1}, F: []float64{2}})
	pop.Push(model.Individual{X: []float64{0.5, 0}, F: []float64{0.25}})

	best, ok := pop.Champion()
	if !ok || best.F[0] != 0.25 {
		t.Fatalf("champion: got %+v, want F[0]=0.25", best)
	}

	// Replacing the best member keeps the champion snapshot.
	if err := pop.Set(1, model.Individual{X: []float64{2, 2}, F: []float64{8}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	best, _ = pop.Champion()
	if best.F[0] != 0.25 {
		t.Fatalf("champion after replacement: got %g, want 0.25", best.F[0])
	}
}

func TestWorstAndRanked(t *testing.T) {
	p, _ := problem.NewSphere(1)
	pop := &Population{prob: p}
	pop.Push(model.Individual{X: []float64{3}, F: []float64{9}})
	pop.Push(model.Individual{X: []float64{1}, F: []float64{1}})
	pop.Push(model.Individual{X: []float64{2}, F: []float64{4}})

	if w := pop.WorstIndex(); w != 0 {
		t.Fatalf("worst index: got %d, want 0", w)
	}
	ranked := pop.RankedIndices()
	want := []int{1, 2, 0}
	for i := range want {
		if ranked[i] != want[i] {
			t.Fatalf("ranked: got %v, want %v", ranked, want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	p, _ := problem.NewSphere(2)
	rng := rand.New(rand.NewSource(1))
	pop, err := NewRandom(p, 5, rng)
	if err != nil {
		t.Fatalf("new random: %v", err)
	}
	cp := pop.Clone()
	orig, _ := pop.Individual(0)
	if err := pop.Set(0, model.Individual{X: []float64{0, 0}, F: []float64{0}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ := cp.Individual(0)
	for j := range orig.X {
		if got.X[j] != orig.X[j] {
			t.Fatal("clone shares storage with the original")
		}
	}
}
