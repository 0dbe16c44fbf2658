package sim

import (
	"fmt"
	"sort"

	"tubedraw/internal/strategy"
	"tubedraw/internal/tube"
)

// RuleMetrics summarizes one rule's batch performance.
type RuleMetrics struct {
	Usage   int
	WinPct  float64
	LossPct float64
	BustPct float64
	EV      float64
	Enabled bool
}

// TubeMetrics summarizes one tube's batch economics.
type TubeMetrics struct {
	AvgBalance  float64
	MaxBalance  int
	TotalFunded int
	TotalPaid   int
	Depletions  int
	EmptyHits   int
	DrainRate   float64
}

// Metrics is the aggregate snapshot of one simulated batch. It is a value
// object recreated per batch; the balancing engine consumes it read-only.
type Metrics struct {
	Rounds             int
	TotalAnte          int
	TotalPayouts       int
	TotalTubePayouts   int
	TotalBustPenalties int
	HouseNetProfit     int
	HouseEdge          float64
	Health             string
	PlayerNet          int
	Volatility         float64
	AvgTubeDrain       float64
	Rules              map[string]RuleMetrics
	Tubes              map[tube.Type]TubeMetrics
}

// ExploitableRules returns every rule whose sample size strictly exceeds
// minUsage and whose empirical EV exceeds maxEV.
func (m *Metrics) ExploitableRules(minUsage int, maxEV float64) []strategy.Exploit {
	var out []strategy.Exploit
	for _, id := range sortedRuleIDs(m.Rules) {
		rm := m.Rules[id]
		if rm.Usage > minUsage && rm.EV > maxEV {
			out = append(out, strategy.Exploit{RuleID: id, EV: rm.EV, Usage: rm.Usage})
		}
	}
	return out
}

// Validate checks the conservation invariant: net profit must equal antes
// plus bust penalties minus payouts, exactly.
func (m *Metrics) Validate() error {
	want := m.TotalAnte + m.TotalBustPenalties - m.TotalPayouts
	if m.HouseNetProfit != want {
		return fmt.Errorf("ledger mismatch: netProfit=%d, antes+busts-payouts=%d", m.HouseNetProfit, want)
	}
	if m.Rounds <= 0 {
		return fmt.Errorf("invalid round count: %d", m.Rounds)
	}
	return nil
}

func sortedRuleIDs(rules map[string]RuleMetrics) []string {
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
