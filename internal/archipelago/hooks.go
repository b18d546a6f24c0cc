package archipelago

import (
	"sort"

	"pelagos/internal/model"
)

// preEvolution pulls immigrants for the island before its epoch. Both hooks
// serialize on the migration mutex; this is the only lock a worker holds.
func (a *Archipelago) preEvolution(isl *Island) error {
	a.migrMu.Lock()
	defer a.migrMu.Unlock()

	switch a.dir {
	case Destination:
		return a.pullFromNeighbors(isl)
	case Source:
		return a.drainInbox(isl)
	}
	return nil
}

// pullFromNeighbors implements the destination-initiated pre-evolution step:
// each neighbor's published offer is sampled up to the island's own migration
// budget and handed to the replacement policy. Offers stay in the store; they
// are non-destructive snapshots refreshed by their owners.
func (a *Archipelago) pullFromNeighbors(isl *Island) error {
	for _, u := range a.topo.Neighbors(isl.index) {
		offer := a.store.Peek(u, u)
		if len(offer) == 0 {
			continue
		}
		budget, err := isl.sel.MigrationCount(isl.pop)
		if err != nil {
			return err
		}
		picked := a.randomSubset(offer, budget)
		if len(picked) == 0 {
			continue
		}
		accepted, err := isl.rep.Assimilate(isl.pop, picked)
		if err != nil {
			return err
		}
		if accepted > 0 {
			a.hist.Append(accepted, u, isl.index)
		}
	}
	return nil
}

// drainInbox implements the source-initiated pre-evolution step: everything
// other islands pushed toward this one is consumed and assimilated, batch by
// origin. History for these transfers was already recorded when the batches
// were published.
func (a *Archipelago) drainInbox(isl *Island) error {
	inbox := a.store.Consume(isl.index)
	if len(inbox) == 0 {
		return nil
	}
	origins := make([]int, 0, len(inbox))
	for from := range inbox {
		origins = append(origins, from)
	}
	sort.Ints(origins)
	for _, from := range origins {
		if _, err := isl.rep.Assimilate(isl.pop, inbox[from]); err != nil {
			return err
		}
	}
	return nil
}

// postEvolution emits the island's emigrants after its epoch.
func (a *Archipelago) postEvolution(isl *Island) error {
	a.migrMu.Lock()
	defer a.migrMu.Unlock()

	switch a.dir {
	case Destination:
		// Publish the island's current best under its own key. Neighbors
		// sample the offer before they evolve; history is recorded on the
		// consuming side.
		offer, err := isl.sel.Select(isl.pop)
		if err != nil {
			return err
		}
		if len(offer) == 0 {
			return nil
		}
		a.store.Publish(isl.index, isl.index, offer)
		return nil
	case Source:
		return a.pushToNeighbors(isl)
	}
	return nil
}

// pushToNeighbors implements the source-initiated post-evolution step:
// emigrants go to one random neighbor (point-to-point) or all neighbors
// (broadcast). Placement is publication, so history is recorded here.
func (a *Archipelago) pushToNeighbors(isl *Island) error {
	neighbors := a.topo.Neighbors(isl.index)
	if len(neighbors) == 0 {
		return nil
	}
	emigrants, err := isl.sel.Select(isl.pop)
	if err != nil {
		return err
	}
	if len(emigrants) == 0 {
		return nil
	}
	switch a.dist {
	case PointToPoint:
		dest := neighbors[int(a.drng.Float64()*float64(len(neighbors)))]
		a.store.Publish(dest, isl.index, emigrants)
		a.hist.Append(len(emigrants), isl.index, dest)
	case Broadcast:
		for _, dest := range neighbors {
			a.store.Publish(dest, isl.index, model.CloneIndividuals(emigrants))
			a.hist.Append(len(emigrants), isl.index, dest)
		}
	}
	return nil
}

// randomSubset picks up to k individuals uniformly without replacement.
func (a *Archipelago) randomSubset(pool []model.Individual, k int) []model.Individual {
	if k <= 0 || len(pool) == 0 {
		return nil
	}
	if k >= len(pool) {
		return model.CloneIndividuals(pool)
	}
	idx := a.urng.Perm(len(pool))[:k]
	out := make([]model.Individual, 0, k)
	for _, i := range idx {
		out = append(out, pool[i].Clone())
	}
	return out
}
