// Package pelagos is the public client for running island-model optimizations
// and inspecting persisted runs.
package pelagos

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"pelagos/internal/algorithm"
	"pelagos/internal/archipelago"
	"pelagos/internal/migration"
	"pelagos/internal/model"
	"pelagos/internal/problem"
	"pelagos/internal/stats"
	"pelagos/internal/storage"
	"pelagos/internal/topology"
)

const defaultRunsDir = "runs"

type Options struct {
	StoreKind string
	DBPath    string
	RunsDir   string
	Logger    *slog.Logger
}

type Client struct {
	store   storage.Store
	runsDir string
	logger  *slog.Logger
}

func Open(ctx context.Context, opts Options) (*Client, error) {
	store, err := storage.NewStore(opts.StoreKind, opts.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	runsDir := opts.RunsDir
	if runsDir == "" {
		runsDir = defaultRunsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{store: store, runsDir: runsDir, logger: logger}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// RunRequest names the pieces of one optimization run by registry name.
type RunRequest struct {
	RunID             string
	Problem           string
	Dimension         int
	Objectives        int
	Algorithm         string
	Topology          string
	Islands           int
	PopulationSize    int
	Epochs            int
	Duration          time.Duration
	Distribution      string
	Direction         string
	MigrationRate     int
	MigrationFraction float64
	Seed              int64
}

type RunSummary struct {
	RunID        string
	BestFitness  float64
	Migrations   int
	Elapsed      time.Duration
	ArtifactsDir string
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Islands <= 0 {
		return RunSummary{}, fmt.Errorf("island count must be > 0, got %d", req.Islands)
	}
	if req.PopulationSize <= 0 {
		return RunSummary{}, fmt.Errorf("population size must be > 0, got %d", req.PopulationSize)
	}
	if req.Epochs <= 0 && req.Duration <= 0 {
		return RunSummary{}, fmt.Errorf("either epochs or duration is required")
	}
	if req.Objectives == 0 {
		req.Objectives = 2
	}

	prob, err := problem.ByName(req.Problem, req.Dimension, req.Objectives)
	if err != nil {
		return RunSummary{}, err
	}
	alg, err := algorithm.ByName(req.Algorithm, req.Seed)
	if err != nil {
		return RunSummary{}, err
	}
	topo, err := topology.ByName(req.Topology)
	if err != nil {
		return RunSummary{}, err
	}
	dist, err := parseDistribution(req.Distribution)
	if err != nil {
		return RunSummary{}, err
	}
	dir, err := parseDirection(req.Direction)
	if err != nil {
		return RunSummary{}, err
	}

	selection := migration.NewBestKAbsolute(1)
	if req.MigrationRate < 0 {
		selection = migration.NewBestKFraction(req.MigrationFraction)
	} else if req.MigrationRate > 0 {
		selection = migration.NewBestKAbsolute(req.MigrationRate)
	}

	arch, err := archipelago.NewWithTopology(topo,
		archipelago.WithSeed(req.Seed),
		archipelago.WithDistribution(dist),
		archipelago.WithDirection(dir),
		archipelago.WithLogger(c.logger),
	)
	if err != nil {
		return RunSummary{}, err
	}
	for i := 0; i < req.Islands; i++ {
		isl, err := archipelago.NewIsland(archipelago.IslandConfig{
			Problem:     prob,
			Algorithm:   alg,
			Size:        req.PopulationSize,
			Rand:        rand.New(rand.NewSource(req.Seed + int64(i)*7919)),
			Selection:   selection,
			Replacement: migration.FairReplacement{},
		})
		if err != nil {
			return RunSummary{}, err
		}
		if err := arch.PushBack(isl); err != nil {
			return RunSummary{}, err
		}
	}

	started := time.Now()
	if req.Duration > 0 {
		err = arch.EvolveFor(req.Duration)
	} else {
		err = arch.Evolve(req.Epochs)
	}
	if err != nil {
		return RunSummary{}, err
	}

	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			arch.Interrupt()
		case <-watchDone:
		}
	}()
	joinErr := arch.Join()
	close(watchDone)
	if joinErr != nil {
		return RunSummary{}, joinErr
	}
	elapsed := time.Since(started)

	runID := req.RunID
	if runID == "" {
		runID = "run-" + started.UTC().Format("20060102-150405")
	}

	traces := make([][]float64, arch.Size())
	for i := 0; i < arch.Size(); i++ {
		isl, err := arch.IslandAt(i)
		if err != nil {
			return RunSummary{}, err
		}
		traces[i] = isl.FitnessTrace()
	}
	best, _ := stats.BestOf(traces)
	history := arch.MigrationRecords()

	rec := storage.Stamp(model.RunRecord{
		ID:             runID,
		CreatedAtUTC:   started.UTC().Format(time.RFC3339),
		Problem:        prob.Name(),
		Algorithm:      alg.Name(),
		Topology:       topo.HumanReadable(),
		Islands:        req.Islands,
		PopulationSize: req.PopulationSize,
		Epochs:         req.Epochs,
		DurationMS:     req.Duration.Milliseconds(),
		Distribution:   dist.String(),
		Direction:      dir.String(),
		Seed:           req.Seed,
		BestFitness:    best,
		Migrations:     len(history),
		ElapsedMS:      elapsed.Milliseconds(),
	})

	if err := c.store.SaveRun(ctx, rec); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveMigrationHistory(ctx, runID, history); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveFitnessTraces(ctx, runID, traces); err != nil {
		return RunSummary{}, err
	}

	artifactsDir, err := stats.WriteRunArtifacts(c.runsDir, stats.RunArtifacts{
		Record:     rec,
		Summaries:  stats.Summarize(traces),
		Migrations: history,
	}, traces)
	if err != nil {
		return RunSummary{}, err
	}
	arch.ClearMigrationHistory()

	c.logger.Info("run complete", "run_id", runID, "best", best, "migrations", len(history), "elapsed", elapsed)
	return RunSummary{
		RunID:        runID,
		BestFitness:  best,
		Migrations:   len(history),
		Elapsed:      elapsed,
		ArtifactsDir: artifactsDir,
	}, nil
}

// Runs lists persisted run records, newest first.
func (c *Client) Runs(ctx context.Context, limit int) ([]model.RunRecord, error) {
	return c.store.ListRuns(ctx, limit)
}

// History returns the migration history for a run.
func (c *Client) History(ctx context.Context, runID string) ([]model.MigrationRecord, error) {
	records, ok, err := c.store.GetMigrationHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("unknown run: %s", runID)
	}
	return records, nil
}

// FitnessTraces returns the per-island champion traces for a run.
func (c *Client) FitnessTraces(ctx context.Context, runID string) ([][]float64, error) {
	traces, ok, err := c.store.GetFitnessTraces(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("unknown run: %s", runID)
	}
	return traces, nil
}

func parseDistribution(s string) (archipelago.DistributionType, error) {
	switch strings.ToLower(s) {
	case "", "point_to_point", "point-to-point":
		return archipelago.PointToPoint, nil
	case "broadcast":
		return archipelago.Broadcast, nil
	default:
		return 0, fmt.Errorf("unknown distribution: %s", s)
	}
}

func parseDirection(s string) (archipelago.MigrationDirection, error) {
	switch strings.ToLower(s) {
	case "", "destination":
		return archipelago.Destination, nil
	case "source":
		return archipelago.Source, nil
	default:
		return 0, fmt.Errorf("unknown direction: %s", s)
	}
}
