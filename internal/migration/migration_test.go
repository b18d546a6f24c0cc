package migration

import (
	"math/rand"
	"strings"
	"testing"

	"pelagos/internal/model"
	"pelagos/internal/population"
	"pelagos/internal/problem"
)

func newTestPopulation(t *testing.T, size int) *population.Population {
	t.Helper()
	p, err := problem.NewSphere(3)
	if err != nil {
		t.Fatalf("new sphere: %v", err)
	}
	pop, err := population.NewRandom(p, size, rand.New(rand.NewSource(21)))
	if err != nil {
		t.Fatalf("new random: %v", err)
	}
	return pop
}

func TestMigrationCountAbsolute(t *testing.T) {
	pop := newTestPopulation(t, 10)
	sel := NewBestKAbsolute(3)
	count, err := sel.MigrationCount(pop)
	if err != nil {
		t.Fatalf("migration count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count: got %d, want 3", count)
	}

	over := NewBestKAbsolute(11)
	if _, err := over.MigrationCount(pop); err == nil {
		t.Fatal("expected error when absolute rate exceeds population size")
	}
}

func TestMigrationCountFractional(t *testing.T) {
	pop := newTestPopulation(t, 10)
	sel := NewBestKFraction(0.25)
	count, err := sel.MigrationCount(pop)
	if err != nil {
		t.Fatalf("migration count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count: got %d, want 2", count)
	}

	bad := NewBestKFraction(1.5)
	if _, err := bad.MigrationCount(pop); err == nil {
		t.Fatal("expected error when fractional rate exceeds 1")
	}
}

func TestSelectReturnsBestCopies(t *testing.T) {
	pop := newTestPopulation(t, 8)
	sel := NewBestKAbsolute(2)
	emigrants, err := sel.Select(pop)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(emigrants) != 2 {
		t.Fatalf("emigrants: got %d, want 2", len(emigrants))
	}
	if !model.Better(emigrants[0].F, emigrants[1].F) && emigrants[0].F[0] != emigrants[1].F[0] {
		t.Fatal("emigrants not ordered best first")
	}
	// Selection is non-destructive: every emigrant is still a member.
	members := pop.Individuals()
	for _, e := range emigrants {
		found := false
		for _, m := range members {
			if m.F[0] == e.F[0] {
				found = true
				break
			}
		}
		if !found {
			t.Fatal("emigrant missing from source population")
		}
	}
}

func TestFairReplacement(t *testing.T) {
	p, _ := problem.NewSphere(1)
	pop, err := population.NewRandom(p, 4, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("new random: %v", err)
	}
	rep := FairReplacement{}

	strong := model.Individual{X: []float64{0}, F: []float64{0}}
	weak := model.Individual{X: []float64{100}, F: []float64{10000}}

	accepted, err := rep.Assimilate(pop, []model.Individual{strong, weak})
	if err != nil {
		t.Fatalf("assimilate: %v", err)
	}
	if accepted != 1 {
		t.Fatalf("accepted: got %d, want 1", accepted)
	}
	found := false
	for _, m := range pop.Individuals() {
		if m.F[0] == 0 {
			found = true
		}
		if m.F[0] == 10000 {
			t.Fatal("weak immigrant entered the population")
		}
	}
	if !found {
		t.Fatal("strong immigrant missing from population")
	}
}

func TestStorePublishConsumePeek(t *testing.T) {
	s := NewStore()
	batch := []model.Individual{{X: []float64{1}, F: []float64{1}}}

	s.Publish(2, 0, batch)
	s.Publish(2, 1, batch)

	if got := s.Peek(2, 0); len(got) != 1 {
		t.Fatalf("peek: got %d individuals, want 1", len(got))
	}
	if got := s.Peek(2, 5); got != nil {
		t.Fatalf("peek missing origin: got %v, want nil", got)
	}

	out := s.Consume(2)
	if len(out) != 2 {
		t.Fatalf("consume: got %d origins, want 2", len(out))
	}
	if again := s.Consume(2); again != nil {
		t.Fatal("consume must leave the slot empty")
	}
}

func TestStoreLastWriterWins(t *testing.T) {
	s := NewStore()
	first := []model.Individual{{X: []float64{1}, F: []float64{1}}, {X: []float64{2}, F: []float64{4}}}
	second := []model.Individual{{X: []float64{3}, F: []float64{9}}}

	s.Publish(0, 1, first)
	s.Publish(0, 1, second)

	got := s.Peek(0, 1)
	if len(got) != 1 || got[0].F[0] != 9 {
		t.Fatalf("re-publication must replace: got %v", got)
	}
}

func TestStoreCopiesOnWrite(t *testing.T) {
	s := NewStore()
	batch := []model.Individual{{X: []float64{1}, F: []float64{1}}}
	s.Publish(0, 0, batch)
	batch[0].F[0] = 99

	got := s.Peek(0, 0)
	if got[0].F[0] != 1 {
		t.Fatal("store shares memory with the publisher")
	}
	got[0].F[0] = 50
	if s.Peek(0, 0)[0].F[0] != 1 {
		t.Fatal("peek leaks store-owned memory")
	}
}

func TestHistoryDumpAndClear(t *testing.T) {
	h := NewHistory()
	h.Append(2, 0, 1)
	h.Append(1, 1, 2)

	dump := h.Dump()
	lines := strings.Split(strings.TrimSpace(dump), "\n")
	if len(lines) != 2 {
		t.Fatalf("dump lines: got %d, want 2", len(lines))
	}
	if lines[0] != "2 0 -> 1" {
		t.Fatalf("dump line: got %q, want %q", lines[0], "2 0 -> 1")
	}

	h.Clear()
	if h.Len() != 0 || h.Dump() != "" {
		t.Fatal("clear must empty the history")
	}
}
