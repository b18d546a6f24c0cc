package migration

import (
	"sort"
	"sync"

	"pelagos/internal/model"
)

// Store stages migrating individuals as a two-level map: owner island index
// to origin island index to the staged batch. Individuals are copied on the
// way in and out, so no caller ever holds store-owned memory.
type Store struct {
	mu sync.Mutex
	m  map[int]map[int][]model.Individual
}

func NewStore() *Store {
	return &Store{m: make(map[int]map[int][]model.Individual)}
}

// Publish inserts or replaces the batch staged for owner under origin from.
// Re-publication is last-writer-wins; the displaced batch is discarded.
func (s *Store) Publish(owner, from int, individuals []model.Individual) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inner := s.m[owner]
	if inner == nil {
		inner = make(map[int][]model.Individual)
		s.m[owner] = inner
	}
	inner[from] = model.CloneIndividuals(individuals)
}

// Consume atomically extracts everything staged for owner, leaving its slot
// empty.
func (s *Store) Consume(owner int) map[int][]model.Individual {
	s.mu.Lock()
	defer s.mu.Unlock()

	inner := s.m[owner]
	if len(inner) == 0 {
		delete(s.m, owner)
		return nil
	}
	delete(s.m, owner)
	return inner
}

// Peek returns a copy of the batch staged for owner under origin from, or nil.
func (s *Store) Peek(owner, from int) []model.Individual {
	s.mu.Lock()
	defer s.mu.Unlock()

	inner := s.m[owner]
	if inner == nil {
		return nil
	}
	return model.CloneIndividuals(inner[from])
}

// Owners lists island indices with staged entries, ascending.
func (s *Store) Owners() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int, 0, len(s.m))
	for owner := range s.m {
		out = append(out, owner)
	}
	sort.Ints(out)
	return out
}

// Reset drops all staged entries.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[int]map[int][]model.Individual)
}

// Clone deep-copies the store, used when copying an archipelago.
func (s *Store) Clone() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := NewStore()
	for owner, inner := range s.m {
		cp := make(map[int][]model.Individual, len(inner))
		for from, batch := range inner {
			cp[from] = model.CloneIndividuals(batch)
		}
		out.m[owner] = cp
	}
	return out
}
