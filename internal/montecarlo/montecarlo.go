// Package montecarlo measures run-to-run variance of the house edge by
// repeating the full batch simulation many times. Runs are embarrassingly
// parallel: each worker gets its own configuration clone, registry clone
// and RNG, and results are reduced only after every run completes.
package montecarlo

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"tubedraw/internal/sim"
	"tubedraw/internal/strategy"
)

// Defaults for the driver.
const (
	DefaultRuns         = 100
	DefaultRoundsPerRun = 20000

	// StableStdDev is the stability cutoff: below one percentage point of
	// edge across runs the configuration is declared stable.
	StableStdDev = 0.01

	// zScore95 is the fixed z for the 95% confidence interval.
	zScore95 = 1.96
)

// Config controls one Monte Carlo estimation.
type Config struct {
	Runs         int
	RoundsPerRun int
	Seed         int64
	Workers      int
	Logger       *log.Logger
}

// Summary is the read-only statistical report over all runs.
type Summary struct {
	Runs         int
	RoundsPerRun int
	MeanEdge     float64
	Variance     float64 // population variance
	StdDev       float64
	MinEdge      float64
	MaxEdge      float64
	CI95Low      float64
	CI95High     float64
	Stable       bool
	Edges        []float64
}

// Run executes the batch simulation Runs times and summarizes the measured
// house edge distribution. It never mutates the caller's configuration or
// registry; workers operate on clones.
func Run(game sim.Config, registry *strategy.Registry, cfg Config) (*Summary, error) {
	if cfg.Runs <= 0 {
		cfg.Runs = DefaultRuns
	}
	if cfg.RoundsPerRun <= 0 {
		cfg.RoundsPerRun = DefaultRoundsPerRun
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// Derive an independent seed per run up front so the schedule does not
	// depend on worker interleaving.
	masterRng := rand.New(rand.NewSource(cfg.Seed))
	seeds := make([]int64, cfg.Runs)
	for i := range seeds {
		seeds[i] = masterRng.Int63()
	}

	edges := make([]float64, cfg.Runs)

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Runs; i++ {
		i := i
		g.Go(func() error {
			runRegistry := registry.Clone()
			simulator := sim.NewSimulator(game.Clone(), sim.RunConfig{
				Rounds: cfg.RoundsPerRun,
				Seed:   seeds[i],
			}, runRegistry)

			metrics, err := simulator.Run()
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			edges[i] = metrics.HouseEdge
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := summarize(edges, cfg.RoundsPerRun)
	logger.Info("monte carlo complete",
		"runs", summary.Runs,
		"mean_edge", summary.MeanEdge,
		"stddev", summary.StdDev,
		"stable", summary.Stable)
	return summary, nil
}

func summarize(edges []float64, roundsPerRun int) *Summary {
	n := len(edges)

	var sum float64
	minEdge, maxEdge := edges[0], edges[0]
	for _, e := range edges {
		sum += e
		if e < minEdge {
			minEdge = e
		}
		if e > maxEdge {
			maxEdge = e
		}
	}
	mean := sum / float64(n)

	var acc float64
	for _, e := range edges {
		d := e - mean
		acc += d * d
	}
	variance := acc / float64(n)
	stdDev := math.Sqrt(variance)

	margin := zScore95 * stdDev / math.Sqrt(float64(n))

	return &Summary{
		Runs:         n,
		RoundsPerRun: roundsPerRun,
		MeanEdge:     mean,
		Variance:     variance,
		StdDev:       stdDev,
		MinEdge:      minEdge,
		MaxEdge:      maxEdge,
		CI95Low:      mean - margin,
		CI95High:     mean + margin,
		Stable:       stdDev < StableStdDev,
		Edges:        edges,
	}
}
