// Package archipelago coordinates concurrent evolution of islands coupled by
// a migration topology. One worker goroutine per island runs the island's
// algorithm; migration hooks before and after each epoch move individuals
// through a shared staging store according to the configured distribution and
// direction.
package archipelago

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pelagos/internal/algorithm"
	"pelagos/internal/migration"
	"pelagos/internal/model"
	"pelagos/internal/problem"
	"pelagos/internal/topology"
)

// DistributionType selects how emigrants spread over neighbors.
type DistributionType int

const (
	PointToPoint DistributionType = iota
	Broadcast
)

func (d DistributionType) String() string {
	switch d {
	case PointToPoint:
		return "point_to_point"
	case Broadcast:
		return "broadcast"
	default:
		return fmt.Sprintf("distribution(%d)", int(d))
	}
}

// MigrationDirection selects which side initiates a migration.
type MigrationDirection int

const (
	Destination MigrationDirection = iota
	Source
)

func (m MigrationDirection) String() string {
	switch m {
	case Destination:
		return "destination"
	case Source:
		return "source"
	default:
		return fmt.Sprintf("direction(%d)", int(m))
	}
}

var (
	ErrBusy           = errors.New("archipelago is evolving")
	ErrBound          = errors.New("island already belongs to an archipelago")
	ErrIncompatible   = errors.New("island problem incompatible with archipelago")
	ErrVertexMismatch = errors.New("topology vertex count does not match island count")
)

// Archipelago is the coordinator: it owns the islands, the topology, the
// migration store and history, and the shared random streams used by the
// migration protocol.
type Archipelago struct {
	mu       sync.Mutex
	islands  []*Island
	topo     topology.Topology
	dist     DistributionType
	dir      MigrationDirection
	barrier  *barrier
	evolving bool
	cancel   context.CancelFunc

	migrMu sync.Mutex
	store  *migration.Store
	hist   *migration.History
	drng   *rand.Rand
	urng   *rand.Rand

	active atomic.Int32
	wg     sync.WaitGroup

	errMu      sync.Mutex
	workerErrs []error

	logger *slog.Logger
}

// Option configures an archipelago at construction time.
type Option func(*Archipelago)

func WithDistribution(d DistributionType) Option {
	return func(a *Archipelago) { a.dist = d }
}

func WithDirection(m MigrationDirection) Option {
	return func(a *Archipelago) { a.dir = m }
}

func WithSeed(seed int64) Option {
	return func(a *Archipelago) {
		a.drng = rand.New(rand.NewSource(seed))
		a.urng = rand.New(rand.NewSource(seed + 1))
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Archipelago) {
		if l != nil {
			a.logger = l
		}
	}
}

// New builds an empty archipelago with an unconnected topology.
func New(opts ...Option) *Archipelago {
	a := &Archipelago{
		topo:   topology.NewUnconnected(),
		store:  migration.NewStore(),
		hist:   migration.NewHistory(),
		drng:   rand.New(rand.NewSource(1)),
		urng:   rand.New(rand.NewSource(2)),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.barrier = newBarrier(0)
	return a
}

// NewWithTopology builds an empty archipelago bound to a topology. The
// topology must be empty; it grows with the archipelago via PushBack.
func NewWithTopology(t topology.Topology, opts ...Option) (*Archipelago, error) {
	if t == nil {
		return nil, fmt.Errorf("topology is required")
	}
	if t.NumVertices() != 0 {
		return nil, fmt.Errorf("%w: empty archipelago, topology has %d vertices", ErrVertexMismatch, t.NumVertices())
	}
	a := New(opts...)
	a.topo = t.Clone()
	return a, nil
}

// NewPopulated builds an archipelago of n islands, each with a fresh
// population of m random individuals on the given problem, each island
// cloning the algorithm.
func NewPopulated(p problem.Problem, alg algorithm.Algorithm, n, m int, t topology.Topology, opts ...Option) (*Archipelago, error) {
	if n <= 0 {
		return nil, fmt.Errorf("island count must be > 0, got %d", n)
	}
	var a *Archipelago
	var err error
	if t == nil {
		a = New(opts...)
	} else {
		a, err = NewWithTopology(t, opts...)
		if err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		isl, err := NewIsland(IslandConfig{
			Problem:   p,
			Algorithm: alg,
			Size:      m,
			Rand:      rand.New(rand.NewSource(a.urng.Int63())),
		})
		if err != nil {
			return nil, err
		}
		if err := a.PushBack(isl); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// PushBack appends an island at index Size, grows the topology by one vertex
// and rebuilds the start barrier.
func (a *Archipelago) PushBack(isl *Island) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.evolving {
		return ErrBusy
	}
	if isl == nil {
		return fmt.Errorf("island is required")
	}
	if isl.bound != nil && isl.bound != a {
		return ErrBound
	}
	if isl.bound == a {
		return fmt.Errorf("%w: already a member here", ErrBound)
	}
	if len(a.islands) > 0 && !problem.Compatible(a.islands[0].prob, isl.prob) {
		return fmt.Errorf("%w: %s vs %s", ErrIncompatible, isl.prob.Name(), a.islands[0].prob.Name())
	}

	isl.bound = a
	isl.index = len(a.islands)
	a.islands = append(a.islands, isl)
	a.topo.PushBack()
	a.barrier = newBarrier(len(a.islands))
	return nil
}

func (a *Archipelago) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.islands)
}

// IslandAt returns the island at index i.
func (a *Archipelago) IslandAt(i int) (*Island, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.islands) {
		return nil, fmt.Errorf("island index out of range: %d with %d islands", i, len(a.islands))
	}
	return a.islands[i], nil
}

// Topology returns a copy of the current topology.
func (a *Archipelago) Topology() topology.Topology {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.topo.Clone()
}

// SetTopology replaces the topology. The vertex count must match the island
// count exactly.
func (a *Archipelago) SetTopology(t topology.Topology) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.evolving {
		return ErrBusy
	}
	if t == nil {
		return fmt.Errorf("topology is required")
	}
	if t.NumVertices() != len(a.islands) {
		return fmt.Errorf("%w: %d vertices, %d islands", ErrVertexMismatch, t.NumVertices(), len(a.islands))
	}
	a.topo = t.Clone()
	return nil
}

func (a *Archipelago) Distribution() DistributionType {
	return a.dist
}

func (a *Archipelago) Direction() MigrationDirection {
	return a.dir
}

// Evolve spawns one worker per island, each running n epochs, and returns
// immediately. Call Join to wait and collect errors.
func (a *Archipelago) Evolve(n int) error {
	if n < 0 {
		return fmt.Errorf("epoch count must be >= 0, got %d", n)
	}
	return a.startRun(n, 0)
}

// EvolveFor spawns one worker per island, each evolving for at least d, and
// returns immediately.
func (a *Archipelago) EvolveFor(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("duration must be >= 0, got %s", d)
	}
	return a.startRun(0, d)
}

func (a *Archipelago) startRun(epochs int, d time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.evolving {
		return ErrBusy
	}
	a.evolving = true
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.errMu.Lock()
	a.workerErrs = nil
	a.errMu.Unlock()

	for _, isl := range a.islands {
		isl.trace = nil
	}

	a.logger.Info("evolution started",
		"islands", len(a.islands),
		"epochs", epochs,
		"duration", d,
		"distribution", a.dist.String(),
		"direction", a.dir.String(),
	)

	for _, isl := range a.islands {
		isl := isl
		a.wg.Add(1)
		a.active.Add(1)
		go a.runIsland(ctx, isl, epochs, d)
	}
	return nil
}

func (a *Archipelago) runIsland(ctx context.Context, isl *Island, epochs int, d time.Duration) {
	defer a.wg.Done()
	defer a.active.Add(-1)

	a.barrier.Wait()
	start := time.Now()

	for epoch := 0; ; epoch++ {
		if d > 0 {
			if time.Since(start) >= d {
				return
			}
		} else if epoch >= epochs {
			return
		}
		if ctx.Err() != nil {
			return
		}
		if err := a.preEvolution(isl); err != nil {
			a.recordWorkerError(isl.index, err)
			return
		}
		if err := isl.algo.Evolve(isl.pop); err != nil {
			a.recordWorkerError(isl.index, err)
			return
		}
		isl.recordEpoch()
		if err := a.postEvolution(isl); err != nil {
			a.recordWorkerError(isl.index, err)
			return
		}
	}
}

func (a *Archipelago) recordWorkerError(index int, err error) {
	a.logger.Error("island worker failed", "island", index, "error", err)
	a.errMu.Lock()
	defer a.errMu.Unlock()
	a.workerErrs = append(a.workerErrs, fmt.Errorf("island %d: %w", index, err))
}

// Join blocks until all island workers have completed and returns their
// aggregated errors, if any.
func (a *Archipelago) Join() error {
	a.wg.Wait()

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.evolving = false
	a.mu.Unlock()

	a.errMu.Lock()
	errs := a.workerErrs
	a.workerErrs = nil
	a.errMu.Unlock()

	return errors.Join(errs...)
}

// Busy reports whether any island worker is still running.
func (a *Archipelago) Busy() bool {
	return a.active.Load() > 0
}

// Interrupt signals all islands to stop at their next epoch boundary.
// In-flight epochs finish; Join must still be called.
func (a *Archipelago) Interrupt() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.logger.Info("evolution interrupted")
		a.cancel()
	}
}

// Copy deep-copies the archipelago. A live archipelago joins its in-flight
// evolution first; the copy starts idle.
func (a *Archipelago) Copy() (*Archipelago, error) {
	if err := a.Join(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.migrMu.Lock()
	store := a.store.Clone()
	hist := a.hist.Clone()
	seed := a.urng.Int63()
	a.migrMu.Unlock()

	out := &Archipelago{
		topo:    a.topo.Clone(),
		dist:    a.dist,
		dir:     a.dir,
		store:   store,
		hist:    hist,
		drng:    rand.New(rand.NewSource(seed)),
		urng:    rand.New(rand.NewSource(seed + 1)),
		logger:  a.logger,
		barrier: newBarrier(len(a.islands)),
	}
	for _, isl := range a.islands {
		cp := isl.Clone()
		cp.bound = out
		cp.index = isl.index
		out.islands = append(out.islands, cp)
	}
	return out, nil
}

// DumpMigrationHistory renders the history, one line per item.
func (a *Archipelago) DumpMigrationHistory() string {
	a.migrMu.Lock()
	defer a.migrMu.Unlock()
	return a.hist.Dump()
}

// MigrationRecords returns a copy of the migration history items.
func (a *Archipelago) MigrationRecords() []model.MigrationRecord {
	a.migrMu.Lock()
	defer a.migrMu.Unlock()
	return a.hist.Records()
}

func (a *Archipelago) ClearMigrationHistory() {
	a.migrMu.Lock()
	defer a.migrMu.Unlock()
	a.hist.Clear()
}

// HumanReadable produces a multi-line report of the archipelago state.
func (a *Archipelago) HumanReadable() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "archipelago: %d islands\n", len(a.islands))
	fmt.Fprintf(&b, "topology: %s\n", a.topo.HumanReadable())
	fmt.Fprintf(&b, "distribution: %s\n", a.dist)
	fmt.Fprintf(&b, "direction: %s\n", a.dir)
	for i, isl := range a.islands {
		fmt.Fprintf(&b, "island %d: %s on %s, %d individuals", i, isl.algo.Name(), isl.prob.Name(), isl.pop.Len())
		if best, ok := isl.champion(); ok && len(best.F) > 0 {
			fmt.Fprintf(&b, ", best %g", best.F[0])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
