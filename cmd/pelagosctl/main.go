package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"pelagos/pkg/pelagos"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}
	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	default:
		return usageError("unknown command: " + args[0])
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: pelagosctl <run|runs|history|fitness> [flags]", msg)
}

func storeFlags(fs *flag.FlagSet) (*string, *string, *string) {
	storeKind := fs.String("store", "memory", "store backend: memory or sqlite")
	dbPath := fs.String("db", "pelagos.db", "sqlite database path")
	runsDir := fs.String("runs-dir", "runs", "artifacts directory")
	return storeKind, dbPath, runsDir
}

func openClient(ctx context.Context, storeKind, dbPath, runsDir string, verbose bool) (*pelagos.Client, error) {
	logger := slog.New(slog.DiscardHandler)
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return pelagos.Open(ctx, pelagos.Options{
		StoreKind: storeKind,
		DBPath:    dbPath,
		RunsDir:   runsDir,
		Logger:    logger,
	})
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML run configuration")
	runID := fs.String("run-id", "", "run identifier override")
	epochs := fs.Int("epochs", 0, "epoch count override")
	duration := fs.Duration("duration", 0, "evolve for a wall-clock duration instead of epochs")
	seed := fs.Int64("seed", 0, "seed override")
	verbose := fs.Bool("v", false, "log progress to stderr")
	storeKind, dbPath, runsDir := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaultRunConfig()
	if *configPath != "" {
		loaded, err := loadRunConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *runID != "" {
		cfg.RunID = *runID
	}
	if *epochs > 0 {
		cfg.Evolution.Epochs = *epochs
		cfg.Evolution.DurationMS = 0
	}
	if *duration > 0 {
		cfg.Evolution.DurationMS = duration.Milliseconds()
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	client, err := openClient(ctx, *storeKind, *dbPath, *runsDir, *verbose)
	if err != nil {
		return err
	}
	defer client.Close()

	summary, err := client.Run(ctx, cfg.request())
	if err != nil {
		return err
	}
	fmt.Printf("run %s finished in %s\n", summary.RunID, summary.Elapsed.Round(time.Millisecond))
	fmt.Printf("best fitness: %g\n", summary.BestFitness)
	fmt.Printf("migrations: %s\n", humanize.Comma(int64(summary.Migrations)))
	fmt.Printf("artifacts: %s\n", summary.ArtifactsDir)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum runs to list")
	storeKind, dbPath, runsDir := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := openClient(ctx, *storeKind, *dbPath, *runsDir, false)
	if err != nil {
		return err
	}
	defer client.Close()

	runs, err := client.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, rec := range runs {
		fmt.Printf("%s  %s/%s  islands=%d  pop=%d  best=%g  migrations=%s  elapsed=%s\n",
			rec.ID, rec.Problem, rec.Algorithm, rec.Islands, rec.PopulationSize,
			rec.BestFitness, humanize.Comma(int64(rec.Migrations)),
			(time.Duration(rec.ElapsedMS) * time.Millisecond).String())
	}
	return nil
}

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	storeKind, dbPath, runsDir := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("history requires -run-id")
	}

	client, err := openClient(ctx, *storeKind, *dbPath, *runsDir, false)
	if err != nil {
		return err
	}
	defer client.Close()

	records, err := client.History(ctx, *runID)
	if err != nil {
		return err
	}
	for _, rec := range records {
		fmt.Printf("%d %d -> %d\n", rec.Count, rec.Origin, rec.Destination)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	storeKind, dbPath, runsDir := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("fitness requires -run-id")
	}

	client, err := openClient(ctx, *storeKind, *dbPath, *runsDir, false)
	if err != nil {
		return err
	}
	defer client.Close()

	traces, err := client.FitnessTraces(ctx, *runID)
	if err != nil {
		return err
	}
	for island, trace := range traces {
		if len(trace) == 0 {
			continue
		}
		fmt.Printf("island %d: %d epochs, final best %g\n", island, len(trace), trace[len(trace)-1])
	}
	return nil
}
