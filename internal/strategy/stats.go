package strategy

import (
	"sort"

	"tubedraw/internal/tube"
)

// Outcome is a participant's result kind for one round.
type Outcome uint8

const (
	OutcomeWin Outcome = iota
	OutcomeLose
	OutcomeTie
	OutcomeBust
)

// String returns the outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	case OutcomeTie:
		return "tie"
	case OutcomeBust:
		return "bust"
	default:
		return "unknown"
	}
}

// RuleStats are the running counters for one rule. A tie refunds the ante
// as a payout in the ledger but counts as a win here; the two layers
// deliberately disagree on that point.
type RuleStats struct {
	Usage         int
	Wins          int
	Losses        int
	Ties          int
	Busts         int
	TotalWagered  float64
	TotalReturned float64
	TubeHits      [5]int
}

// EV is the empirical expected value per unit wagered: returned/wagered - 1.
func (s RuleStats) EV() float64 {
	if s.TotalWagered == 0 {
		return 0
	}
	return s.TotalReturned/s.TotalWagered - 1
}

// Book accumulates per-rule statistics for one simulation run. It is owned
// by the run that created it; RecordOutcome is the only mutation path and
// is called exactly once per resolved participant per round.
type Book struct {
	byRule map[string]*RuleStats
}

// NewBook creates an empty statistics book.
func NewBook() *Book {
	return &Book{byRule: make(map[string]*RuleStats)}
}

// RecordOutcome folds one participant outcome into the rule's counters.
// tubeHit is tube.None when the win did not draw from a tube.
func (b *Book) RecordOutcome(ruleID string, outcome Outcome, wagered, returned float64, tubeHit tube.Type) {
	s := b.byRule[ruleID]
	if s == nil {
		s = &RuleStats{}
		b.byRule[ruleID] = s
	}

	s.Usage++
	s.TotalWagered += wagered
	s.TotalReturned += returned

	switch outcome {
	case OutcomeWin:
		s.Wins++
	case OutcomeTie:
		// Ledger records the refund as a payout; the stats layer treats the
		// tie as a win.
		s.Wins++
		s.Ties++
	case OutcomeLose:
		s.Losses++
	case OutcomeBust:
		s.Busts++
	}

	if tubeHit != tube.None {
		s.TubeHits[tubeHit]++
	}
}

// Stats returns a snapshot of one rule's counters.
func (b *Book) Stats(ruleID string) RuleStats {
	if s := b.byRule[ruleID]; s != nil {
		return *s
	}
	return RuleStats{}
}

// RuleIDs returns the IDs of every rule with recorded usage, sorted for
// stable reporting.
func (b *Book) RuleIDs() []string {
	ids := make([]string, 0, len(b.byRule))
	for id := range b.byRule {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Exploit flags a rule whose measured EV exceeds the configured ceiling.
type Exploit struct {
	RuleID string
	EV     float64
	Usage  int
}

// Exploitable returns every rule whose sample size strictly exceeds
// minUsage and whose empirical EV exceeds maxEV. Read-only; flagging never
// mutates counters.
func (b *Book) Exploitable(minUsage int, maxEV float64) []Exploit {
	var out []Exploit
	for _, id := range b.RuleIDs() {
		s := b.byRule[id]
		if s.Usage <= minUsage {
			continue
		}
		if ev := s.EV(); ev > maxEV {
			out = append(out, Exploit{RuleID: id, EV: ev, Usage: s.Usage})
		}
	}
	return out
}

// Reset clears every counter. The only way stats ever decrease.
func (b *Book) Reset() {
	b.byRule = make(map[string]*RuleStats)
}
