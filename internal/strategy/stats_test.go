package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tubedraw/internal/tube"
)

func TestBook_RecordOutcome(t *testing.T) {
	b := NewBook()

	b.RecordOutcome("H5.FL", OutcomeWin, 5, 20, tube.FL)
	b.RecordOutcome("H5.FL", OutcomeLose, 5, 0, tube.None)
	b.RecordOutcome("H5.FL", OutcomeBust, 5, 0, tube.None)

	s := b.Stats("H5.FL")
	assert.Equal(t, 3, s.Usage)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Busts)
	assert.Equal(t, 1, s.TubeHits[tube.FL])
	assert.InDelta(t, 20.0/15.0-1, s.EV(), 1e-9)
}

// A tie is a win in the stats layer even though the ledger books the ante
// refund as a payout.
func TestBook_TieCountsAsWin(t *testing.T) {
	b := NewBook()
	b.RecordOutcome("H2.OP", OutcomeTie, 5, 5, tube.None)

	s := b.Stats("H2.OP")
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Ties)
	assert.InDelta(t, 0.0, s.EV(), 1e-9, "a refund is EV-neutral")
}

func TestRuleStats_EVZeroWagered(t *testing.T) {
	assert.Equal(t, 0.0, RuleStats{}.EV())
}

func TestBook_Exploitable(t *testing.T) {
	b := NewBook()
	// 150 uses at EV +0.05: wager 5, return 5.25 each time.
	for i := 0; i < 150; i++ {
		b.RecordOutcome("H1.HC", OutcomeWin, 5, 5.25, tube.None)
	}
	// High EV but too few samples to flag.
	for i := 0; i < 10; i++ {
		b.RecordOutcome("H2.TP", OutcomeWin, 5, 10, tube.None)
	}
	// Plenty of samples but negative EV.
	for i := 0; i < 200; i++ {
		b.RecordOutcome("H0.DA", OutcomeLose, 5, 0, tube.None)
	}

	exploits := b.Exploitable(100, 0.02)
	assert.Len(t, exploits, 1)
	assert.Equal(t, "H1.HC", exploits[0].RuleID)
	assert.Equal(t, 150, exploits[0].Usage)
	assert.InDelta(t, 0.05, exploits[0].EV, 1e-9)
}

// The usage threshold is strict: exactly minUsage samples is not yet
// enough, one more is.
func TestBook_ExploitableUsageBoundary(t *testing.T) {
	b := NewBook()
	for i := 0; i < 100; i++ {
		b.RecordOutcome("H1.HC", OutcomeWin, 5, 5.25, tube.None)
	}
	assert.Empty(t, b.Exploitable(100, 0.02))

	b.RecordOutcome("H1.HC", OutcomeWin, 5, 5.25, tube.None)
	assert.Len(t, b.Exploitable(100, 0.02), 1)
}

func TestBook_Reset(t *testing.T) {
	b := NewBook()
	b.RecordOutcome("H5.RF", OutcomeWin, 5, 40, tube.RF)
	b.Reset()
	assert.Empty(t, b.RuleIDs())
	assert.Equal(t, RuleStats{}, b.Stats("H5.RF"))
}
