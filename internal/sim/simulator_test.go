package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubedraw/internal/strategy"
	"tubedraw/internal/tube"
)

func TestSimulator_Run(t *testing.T) {
	s := NewSimulator(DefaultConfig(), RunConfig{Rounds: 500, Seed: 42}, strategy.DefaultRegistry())
	m, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, 500, m.Rounds)
	require.NoError(t, m.Validate())
	assert.Equal(t, 500*5*5, m.TotalAnte, "five participants ante 5 per round")
	assert.NotEmpty(t, m.Rules)
	assert.Len(t, m.Tubes, 5)

	// The fallback rule fires often enough over 500 rounds to show up.
	assert.Greater(t, m.Rules["H0.DA"].Usage, 0)

	// Edge is a ratio of money kept to money taken in.
	assert.Greater(t, m.HouseEdge, -1.0)
	assert.Less(t, m.HouseEdge, 1.0)
	assert.GreaterOrEqual(t, m.Volatility, 0.0)
	assert.GreaterOrEqual(t, m.AvgTubeDrain, 0.0)
}

func TestSimulator_SameSeedSameMetrics(t *testing.T) {
	run := func() *Metrics {
		s := NewSimulator(DefaultConfig(), RunConfig{Rounds: 300, Seed: 7}, strategy.DefaultRegistry())
		m, err := s.Run()
		require.NoError(t, err)
		return m
	}
	assert.Equal(t, run(), run())
}

func TestSimulator_DifferentSeedsDiverge(t *testing.T) {
	run := func(seed int64) *Metrics {
		s := NewSimulator(DefaultConfig(), RunConfig{Rounds: 300, Seed: seed}, strategy.DefaultRegistry())
		m, err := s.Run()
		require.NoError(t, err)
		return m
	}
	assert.NotEqual(t, run(1).HouseNetProfit, run(2).HouseNetProfit)
}

func TestSimulator_RejectsZeroRounds(t *testing.T) {
	s := NewSimulator(DefaultConfig(), RunConfig{Rounds: 0, Seed: 1}, strategy.DefaultRegistry())
	_, err := s.Run()
	assert.Error(t, err)
}

func TestMetrics_ValidateCatchesDrift(t *testing.T) {
	m := &Metrics{Rounds: 1, TotalAnte: 100, TotalPayouts: 40, HouseNetProfit: 61}
	assert.Error(t, m.Validate())
	m.HouseNetProfit = 60
	assert.NoError(t, m.Validate())
}

func TestMetrics_ExploitableRules(t *testing.T) {
	m := &Metrics{Rules: map[string]RuleMetrics{
		"H1.HC": {Usage: 150, EV: 0.05},
		"H2.TP": {Usage: 10, EV: 0.50},
		"H0.DA": {Usage: 500, EV: -0.40},
	}}
	exploits := m.ExploitableRules(100, 0.02)
	require.Len(t, exploits, 1)
	assert.Equal(t, "H1.HC", exploits[0].RuleID)

	// Exactly at the usage threshold is not enough; it must be exceeded.
	m.Rules["H1.HC"] = RuleMetrics{Usage: 100, EV: 0.05}
	assert.Empty(t, m.ExploitableRules(100, 0.02))
}

func TestParticipantOutcome_Net(t *testing.T) {
	out := ParticipantOutcome{Ante: 5, Payout: 10, TubePayout: 25}
	assert.Equal(t, 30, out.Net())

	bust := ParticipantOutcome{Ante: 5, BustPenalty: 5, TubeHit: tube.None}
	assert.Equal(t, -10, bust.Net())
}

func TestPopulationStdDev(t *testing.T) {
	assert.Equal(t, 0.0, populationStdDev(nil))
	assert.Equal(t, 0.0, populationStdDev([]float64{0.05, 0.05, 0.05}))
	assert.InDelta(t, 2.0, populationStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestConfig_CloneIsDeep(t *testing.T) {
	a := DefaultConfig()
	b := a.Clone()
	b.Tubes[tube.RF] = tube.Params{Initial: 99, Max: 99}
	assert.Equal(t, 25, a.Tubes[tube.RF].Initial)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"too many players", func(c *Config) { c.Players = 5 }},
		{"zero ante", func(c *Config) { c.Ante = 0 }},
		{"aggression out of range", func(c *Config) { c.DealerAggression = 1.5 }},
		{"negative bust multiplier", func(c *Config) { c.BustPenaltyMultiplier = -1 }},
		{"unknown strategy", func(c *Config) { c.PayoutStrategy = "bogus" }},
		{"missing tube", func(c *Config) { delete(c.Tubes, tube.SF) }},
		{"max below initial", func(c *Config) { c.Tubes[tube.ST] = tube.Params{Initial: 50, Max: 10} }},
		{"negative refill", func(c *Config) { c.RefillAmount = -1 }},
		{"bonus threshold out of range", func(c *Config) { c.BonusPayoutThreshold = 1.5 }},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
