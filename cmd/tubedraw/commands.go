package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"tubedraw/internal/balance"
	"tubedraw/internal/config"
	"tubedraw/internal/montecarlo"
	"tubedraw/internal/sim"
	"tubedraw/internal/strategy"
)

// batchRounds resolves the round count: an explicit flag wins, otherwise
// the profile's value (which itself defaults to 20000).
func batchRounds(flag int, profile *config.FileConfig) int {
	if flag > 0 {
		return flag
	}
	return profile.Rounds()
}

// SimulateCmd runs a single batch with a fixed configuration.
type SimulateCmd struct {
	Rounds int    `default:"0" help:"Number of rounds to simulate (0 for profile value)"`
	Seed   int64  `default:"0" help:"RNG seed (0 for random)"`
	Config string `default:"tubedraw.hcl" help:"Path to HCL profile"`
}

func (c *SimulateCmd) Run(logger *log.Logger) error {
	profile, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	gameCfg, err := profile.SimConfig()
	if err != nil {
		return err
	}

	rounds := batchRounds(c.Rounds, profile)
	seed := resolveSeed(c.Seed)
	if c.Seed == 0 && profile.Seed() != 0 {
		seed = profile.Seed()
	}

	logger.Info("starting simulation", "rounds", rounds, "seed", seed)

	registry := strategy.DefaultRegistry()
	simulator := sim.NewSimulator(gameCfg, sim.RunConfig{
		Rounds: rounds,
		Seed:   seed,
		Logger: logger,
	}, registry)

	metrics, err := simulator.Run()
	if err != nil {
		return err
	}

	fmt.Print(renderMetrics(metrics))
	return nil
}

// BalanceCmd runs the balancing loop against the configured objective.
type BalanceCmd struct {
	Rounds int    `default:"0" help:"Rounds per balancing batch (0 for profile value)"`
	Seed   int64  `default:"0" help:"RNG seed (0 for random)"`
	Config string `default:"tubedraw.hcl" help:"Path to HCL profile"`
}

func (c *BalanceCmd) Run(logger *log.Logger) error {
	profile, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	gameCfg, err := profile.SimConfig()
	if err != nil {
		return err
	}

	seed := resolveSeed(c.Seed)
	objective := profile.BalanceObjective()
	registry := strategy.DefaultRegistry()

	logger.Info("starting balancing loop",
		"target_edge", objective.TargetEdge,
		"tolerance", objective.EdgeTolerance,
		"max_iterations", objective.MaxIterations)

	engine := balance.NewEngine(objective, balance.BatchSimulator(batchRounds(c.Rounds, profile)), logger)
	result, err := engine.Optimize(gameCfg, registry, seed)
	if err != nil {
		return err
	}

	fmt.Print(renderBalanceResult(result))
	return nil
}

// MontecarloCmd estimates edge variance over repeated independent runs.
type MontecarloCmd struct {
	Runs    int    `default:"100" help:"Number of independent simulation runs"`
	Rounds  int    `default:"0" help:"Rounds per run (0 for profile value)"`
	Seed    int64  `default:"0" help:"RNG seed (0 for random)"`
	Workers int    `default:"0" help:"Worker goroutines (0 for NumCPU)"`
	Config  string `default:"tubedraw.hcl" help:"Path to HCL profile"`
}

func (c *MontecarloCmd) Run(logger *log.Logger) error {
	profile, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	gameCfg, err := profile.SimConfig()
	if err != nil {
		return err
	}

	registry := strategy.DefaultRegistry()
	summary, err := montecarlo.Run(gameCfg, registry, montecarlo.Config{
		Runs:         c.Runs,
		RoundsPerRun: batchRounds(c.Rounds, profile),
		Seed:         resolveSeed(c.Seed),
		Workers:      c.Workers,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	fmt.Print(renderMonteCarlo(summary))
	return nil
}
