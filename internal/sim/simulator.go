package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"tubedraw/internal/strategy"
	"tubedraw/internal/tube"
)

// RunConfig holds the batch parameters for a simulation run.
type RunConfig struct {
	Rounds int
	Seed   int64
	Logger *log.Logger
	Clock  quartz.Clock
	Sink   Sink
}

// Simulator runs batches of rounds against a fixed configuration and a
// rule registry, then aggregates the batch into Metrics.
type Simulator struct {
	game     Config
	run      RunConfig
	registry *strategy.Registry
}

// NewSimulator creates a simulator. The registry is used as-is: the caller
// owns it, and the balancing engine may toggle rules on it between runs.
func NewSimulator(game Config, run RunConfig, registry *strategy.Registry) *Simulator {
	return &Simulator{game: game, run: run, registry: registry}
}

// Run executes the batch and returns its metrics. Every run gets a fresh
// engine, so tube balances, ledger and rule stats always start clean.
func (s *Simulator) Run() (*Metrics, error) {
	if s.run.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.run.Rounds)
	}

	rng := rand.New(rand.NewSource(s.run.Seed))
	engine, err := NewEngine(s.game, rng, s.registry, Options{
		Logger: s.run.Logger,
		Clock:  s.run.Clock,
		Sink:   s.run.Sink,
	})
	if err != nil {
		return nil, err
	}

	var (
		roundEdges    = make([]float64, 0, s.run.Rounds)
		playerNet     int
		tubBalanceSum [5]int
		tubBalanceMax [5]int
	)

	for round := 0; round < s.run.Rounds; round++ {
		led := engine.Ledger()
		beforeIn := led.TotalAnte() + led.TotalBustPenalties()
		beforeOut := led.TotalPayouts()

		outcomes, err := engine.PlayRound()
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round+1, err)
		}

		in := led.TotalAnte() + led.TotalBustPenalties() - beforeIn
		out := led.TotalPayouts() - beforeOut
		if in > 0 {
			roundEdges = append(roundEdges, float64(in-out)/float64(in))
		}

		for _, outcome := range outcomes {
			playerNet += outcome.Net()
		}
		for _, t := range tube.Types() {
			bal := engine.Tubes().Get(t).Current
			tubBalanceSum[t] += bal
			if bal > tubBalanceMax[t] {
				tubBalanceMax[t] = bal
			}
		}
	}

	metrics := s.collect(engine, roundEdges, playerNet, tubBalanceSum, tubBalanceMax)
	if err := metrics.Validate(); err != nil {
		return nil, fmt.Errorf("metrics validation failed: %w", err)
	}
	return metrics, nil
}

func (s *Simulator) collect(engine *Engine, roundEdges []float64, playerNet int, balanceSum, balanceMax [5]int) *Metrics {
	led := engine.Ledger()
	analysis := led.Analyze()

	m := &Metrics{
		Rounds:             led.Rounds(),
		TotalAnte:          led.TotalAnte(),
		TotalPayouts:       led.TotalPayouts(),
		TotalTubePayouts:   led.TotalTubePayouts(),
		TotalBustPenalties: led.TotalBustPenalties(),
		HouseNetProfit:     led.NetProfit(),
		HouseEdge:          analysis.HouseEdge,
		Health:             analysis.Health,
		PlayerNet:          playerNet,
		Volatility:         populationStdDev(roundEdges),
		Rules:              make(map[string]RuleMetrics),
		Tubes:              make(map[tube.Type]TubeMetrics),
	}

	book := engine.Book()
	for _, id := range book.RuleIDs() {
		rs := book.Stats(id)
		rm := RuleMetrics{Usage: rs.Usage, EV: rs.EV()}
		if rule, ok := engine.Registry().Rule(id); ok {
			rm.Enabled = rule.Enabled
		}
		if rs.Usage > 0 {
			rm.WinPct = float64(rs.Wins) / float64(rs.Usage)
			rm.LossPct = float64(rs.Losses) / float64(rs.Usage)
			rm.BustPct = float64(rs.Busts) / float64(rs.Usage)
		}
		m.Rules[id] = rm
	}

	var drainSum float64
	tubes := engine.Tubes()
	for _, t := range tube.Types() {
		tm := TubeMetrics{
			MaxBalance:  balanceMax[t],
			TotalFunded: tubes.TotalFunded(t),
			TotalPaid:   tubes.TotalPaid(t),
			Depletions:  tubes.Depletions(t),
			EmptyHits:   tubes.EmptyHits(t),
			DrainRate:   tubes.DrainRate(t),
		}
		if m.Rounds > 0 {
			tm.AvgBalance = float64(balanceSum[t]) / float64(m.Rounds)
		}
		m.Tubes[t] = tm
		drainSum += tm.DrainRate
	}
	m.AvgTubeDrain = drainSum / float64(len(tube.Types()))

	return m
}

// populationStdDev is the population standard deviation.
func populationStdDev(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(n)

	var acc float64
	for _, x := range xs {
		d := x - mean
		acc += d * d
	}
	return math.Sqrt(acc / float64(n))
}
