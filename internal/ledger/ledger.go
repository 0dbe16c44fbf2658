// Package ledger is the running accumulator of every credit flow in a
// simulation run: antes in, payouts and tube payouts out, bust penalties
// in. Net profit is recomputed after every mutation so it can never drift
// from the underlying totals.
package ledger

// Entry is one participant's credit flows for one round, already fully
// resolved. The ledger consumes entries; it knows nothing about hands.
type Entry struct {
	Ante        int
	Payout      int
	TubePayout  int
	BustPenalty int
}

// Ledger tracks cumulative house totals plus append-only per-round
// histories.
type Ledger struct {
	totalAnte          int
	totalPayouts       int
	totalTubePayouts   int
	totalBustPenalties int
	netProfit          int
	rounds             int

	anteHistory   []int
	payoutHistory []int
	bustHistory   []int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// RecordAnte credits an ante to the house.
func (l *Ledger) RecordAnte(amount int) {
	l.totalAnte += amount
	l.anteHistory = append(l.anteHistory, amount)
	l.recompute()
}

// RecordPayout debits a non-tube win payout from the house.
func (l *Ledger) RecordPayout(amount int) {
	l.totalPayouts += amount
	l.payoutHistory = append(l.payoutHistory, amount)
	l.recompute()
}

// RecordTubePayout debits a tube payout. Tube payouts count as payouts for
// edge purposes but are tracked separately for tube analytics.
func (l *Ledger) RecordTubePayout(amount int) {
	l.totalTubePayouts += amount
	l.totalPayouts += amount
	l.payoutHistory = append(l.payoutHistory, amount)
	l.recompute()
}

// RecordBustPenalty credits a bust penalty to the house.
func (l *Ledger) RecordBustPenalty(amount int) {
	l.totalBustPenalties += amount
	l.bustHistory = append(l.bustHistory, amount)
	l.recompute()
}

func (l *Ledger) recompute() {
	l.netProfit = l.totalAnte + l.totalBustPenalties - l.totalPayouts
}

// ProcessRound applies a fully resolved round: all antes, then all tube
// payouts, then all bust penalties, then all non-tube payouts, then the
// round counter. The ordering only shapes the history arrays; the totals
// are associative sums.
func (l *Ledger) ProcessRound(entries []Entry) {
	for _, e := range entries {
		if e.Ante > 0 {
			l.RecordAnte(e.Ante)
		}
	}
	for _, e := range entries {
		if e.TubePayout > 0 {
			l.RecordTubePayout(e.TubePayout)
		}
	}
	for _, e := range entries {
		if e.BustPenalty > 0 {
			l.RecordBustPenalty(e.BustPenalty)
		}
	}
	for _, e := range entries {
		if e.Payout > 0 {
			l.RecordPayout(e.Payout)
		}
	}
	l.rounds++
}

// Accessors for the cumulative totals.
func (l *Ledger) TotalAnte() int          { return l.totalAnte }
func (l *Ledger) TotalPayouts() int       { return l.totalPayouts }
func (l *Ledger) TotalTubePayouts() int   { return l.totalTubePayouts }
func (l *Ledger) TotalBustPenalties() int { return l.totalBustPenalties }
func (l *Ledger) NetProfit() int          { return l.netProfit }
func (l *Ledger) Rounds() int             { return l.rounds }

// Health bands for the measured house edge. The 3-7% band is the
// operator-facing target referenced throughout the balancing engine.
const (
	HealthLowEdge  = "low_edge"
	HealthHighEdge = "high_edge"
	HealthOptimal  = "optimal"

	LowEdgeThreshold  = 0.03
	HighEdgeThreshold = 0.07
)

// Analysis summarizes a ledger's profitability.
type Analysis struct {
	HouseEdge float64
	NetProfit int
	Rounds    int
	Health    string
}

// Analyze computes the house edge and its health band. Edge is defined as
// 0 when no money has come in yet, guarding the division.
func (l *Ledger) Analyze() Analysis {
	in := l.totalAnte + l.totalBustPenalties
	edge := 0.0
	if in > 0 {
		edge = float64(in-l.totalPayouts) / float64(in)
	}

	health := HealthOptimal
	switch {
	case edge < LowEdgeThreshold:
		health = HealthLowEdge
	case edge > HighEdgeThreshold:
		health = HealthHighEdge
	}

	return Analysis{
		HouseEdge: edge,
		NetProfit: l.netProfit,
		Rounds:    l.rounds,
		Health:    health,
	}
}
