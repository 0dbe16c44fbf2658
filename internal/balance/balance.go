// Package balance implements the closed-loop controller that keeps the
// simulated house edge inside its target band. Each iteration simulates a
// batch, scores it against the objective, and applies one proportional
// adjustment step per parameter. Deliberately not a trained optimizer: a
// single inspectable update rule, re-evaluated against a fresh batch.
package balance

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"tubedraw/internal/sim"
	"tubedraw/internal/strategy"
	"tubedraw/internal/tube"
)

// Objective is the operator-supplied target state.
type Objective struct {
	TargetEdge      float64
	EdgeTolerance   float64
	MaxVolatility   float64
	MaxExploitEV    float64
	ExploitMinUsage int

	WeightEdge       float64
	WeightVolatility float64
	WeightDrain      float64
	WeightExploit    float64

	LearningRate  float64
	MaxIterations int
}

// DefaultObjective targets the middle of the 3-7% edge band.
func DefaultObjective() Objective {
	return Objective{
		TargetEdge:       0.05,
		EdgeTolerance:    0.02,
		MaxVolatility:    0.25,
		MaxExploitEV:     0.02,
		ExploitMinUsage:  100,
		WeightEdge:       1.0,
		WeightVolatility: 0.5,
		WeightDrain:      0.3,
		WeightExploit:    2.0,
		LearningRate:     0.1,
		MaxIterations:    100,
	}
}

// Drain thresholds the adjustment step and issue reporting key off.
const (
	drainPenaltyFloor  = 0.3
	drainWarnThreshold = 0.4
	drainCritThreshold = 0.6
)

// Issue is a human-readable diagnostic about configuration quality. Issues
// are advisories; they never halt the loop.
type Issue struct {
	Severity string // "warning" or "critical"
	Code     string
	Message  string
}

// Result bundles the outcome of one optimization run.
type Result struct {
	BestConfig    sim.Config
	BestScore     float64
	BestMetrics   *sim.Metrics
	Iterations    int
	Converged     bool
	DisabledRules []string
	Issues        []Issue
}

// SimulateFunc runs one batch against a configuration and registry. The
// engine derives a distinct seed per iteration so batches are independent.
type SimulateFunc func(cfg sim.Config, registry *strategy.Registry, seed int64) (*sim.Metrics, error)

// BatchSimulator returns a SimulateFunc backed by the real simulator.
func BatchSimulator(rounds int) SimulateFunc {
	return func(cfg sim.Config, registry *strategy.Registry, seed int64) (*sim.Metrics, error) {
		return sim.NewSimulator(cfg, sim.RunConfig{Rounds: rounds, Seed: seed}, registry).Run()
	}
}

// Engine drives the balancing loop.
type Engine struct {
	objective Objective
	simulate  SimulateFunc
	logger    *log.Logger
}

// NewEngine creates a balancing engine. A nil logger discards output.
func NewEngine(objective Objective, simulate SimulateFunc, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{objective: objective, simulate: simulate, logger: logger}
}

// Score is the weighted objective distance; lower is better.
func (e *Engine) Score(m *sim.Metrics) float64 {
	o := e.objective

	score := o.WeightEdge * math.Abs(m.HouseEdge-o.TargetEdge)
	score += o.WeightVolatility * math.Max(0, m.Volatility-o.MaxVolatility)
	score += o.WeightDrain * math.Max(0, m.AvgTubeDrain-drainPenaltyFloor)

	for _, ex := range m.ExploitableRules(o.ExploitMinUsage, o.MaxExploitEV) {
		score += o.WeightExploit * (ex.EV - o.MaxExploitEV)
	}
	return score
}

// IsOptimal is the loop's termination predicate.
func (e *Engine) IsOptimal(m *sim.Metrics) bool {
	o := e.objective
	if math.Abs(m.HouseEdge-o.TargetEdge) > o.EdgeTolerance {
		return false
	}
	if m.Volatility > o.MaxVolatility {
		return false
	}
	return len(m.ExploitableRules(o.ExploitMinUsage, o.MaxExploitEV)) == 0
}

// Optimize runs the feedback loop: simulate, score, disable runaway rules,
// adjust, repeat. Terminates when the batch is optimal or the iteration
// cap is reached. The registry is mutated in place (rule disabling), which
// is exactly the destructive side effect the caller signs up for.
func (e *Engine) Optimize(cfg sim.Config, registry *strategy.Registry, seed int64) (*Result, error) {
	current := cfg.Clone()
	result := &Result{BestScore: math.Inf(1)}

	var lastMetrics *sim.Metrics
	for iter := 0; iter < e.objective.MaxIterations; iter++ {
		metrics, err := e.simulate(current, registry, seed+int64(iter))
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter+1, err)
		}
		lastMetrics = metrics
		result.Iterations = iter + 1

		score := e.Score(metrics)
		e.logger.Debug("balance iteration",
			"iter", iter+1,
			"edge", metrics.HouseEdge,
			"volatility", metrics.Volatility,
			"score", score)

		if score < result.BestScore {
			result.BestScore = score
			result.BestConfig = current.Clone()
			result.BestMetrics = metrics
		}

		// A rule this far over the ceiling is disabled outright. This is
		// irreversible within the run and changes every later batch.
		for _, ex := range metrics.ExploitableRules(e.objective.ExploitMinUsage, 2*e.objective.MaxExploitEV) {
			if registry.SetEnabled(ex.RuleID, false) {
				e.logger.Warn("disabled exploitable rule",
					"rule", ex.RuleID,
					"ev", ex.EV,
					"usage", ex.Usage)
				result.DisabledRules = append(result.DisabledRules, ex.RuleID)
			}
		}

		if e.IsOptimal(metrics) {
			result.Converged = true
			break
		}

		current = e.adjust(current, metrics)
	}

	result.Issues = e.IdentifyIssues(lastMetrics)
	return result, nil
}

// adjust applies one proportional update step per parameter.
func (e *Engine) adjust(cfg sim.Config, m *sim.Metrics) sim.Config {
	o := e.objective
	next := cfg.Clone()

	mult := next.BustPenaltyMultiplier * (1 + o.LearningRate*10*(o.TargetEdge-m.HouseEdge))
	next.BustPenaltyMultiplier = clamp(mult, 0.5, 2.0)

	for _, t := range tube.Types() {
		tm := m.Tubes[t]
		if tm.DrainRate <= drainPenaltyFloor {
			continue
		}
		p := next.Tubes[t]
		p.Initial = int(math.Floor(float64(p.Initial) * (1 + 0.5*tm.DrainRate)))
		if p.Max < p.Initial {
			p.Max = p.Initial
		}
		next.Tubes[t] = p
	}

	if m.AvgTubeDrain > drainWarnThreshold && next.RefillAmount < 5 {
		next.RefillAmount++
	}

	return next
}

// IdentifyIssues produces diagnostics for a batch. Read-only; independent
// of the score.
func (e *Engine) IdentifyIssues(m *sim.Metrics) []Issue {
	if m == nil {
		return nil
	}
	o := e.objective
	var issues []Issue

	low := o.TargetEdge - o.EdgeTolerance
	high := o.TargetEdge + o.EdgeTolerance
	switch {
	case m.HouseEdge < low:
		severity := "warning"
		if m.HouseEdge < 0 {
			severity = "critical"
		}
		issues = append(issues, Issue{
			Severity: severity,
			Code:     "low_edge",
			Message:  fmt.Sprintf("house edge %.2f%% below target band [%.2f%%, %.2f%%]", m.HouseEdge*100, low*100, high*100),
		})
	case m.HouseEdge > high:
		severity := "warning"
		if m.HouseEdge > 2*high {
			severity = "critical"
		}
		issues = append(issues, Issue{
			Severity: severity,
			Code:     "high_edge",
			Message:  fmt.Sprintf("house edge %.2f%% above target band [%.2f%%, %.2f%%]", m.HouseEdge*100, low*100, high*100),
		})
	}

	if m.Volatility > o.MaxVolatility {
		issues = append(issues, Issue{
			Severity: "warning",
			Code:     "high_volatility",
			Message:  fmt.Sprintf("edge volatility %.4f exceeds ceiling %.4f", m.Volatility, o.MaxVolatility),
		})
	}

	for _, ex := range m.ExploitableRules(o.ExploitMinUsage, o.MaxExploitEV) {
		severity := "warning"
		if ex.EV > 2*o.MaxExploitEV {
			severity = "critical"
		}
		issues = append(issues, Issue{
			Severity: severity,
			Code:     "exploitable_rule",
			Message:  fmt.Sprintf("rule %s EV %.4f exceeds ceiling %.4f over %d uses", ex.RuleID, ex.EV, o.MaxExploitEV, ex.Usage),
		})
	}

	for _, t := range tube.Types() {
		tm := m.Tubes[t]
		if tm.DrainRate <= drainWarnThreshold {
			continue
		}
		severity := "warning"
		if tm.DrainRate > drainCritThreshold {
			severity = "critical"
		}
		issues = append(issues, Issue{
			Severity: severity,
			Code:     "tube_drain",
			Message:  fmt.Sprintf("tube %s drain rate %.2f (paid %d of %d funded)", t, tm.DrainRate, tm.TotalPaid, tm.TotalFunded),
		})
	}

	return issues
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
