package montecarlo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubedraw/internal/sim"
	"tubedraw/internal/strategy"
)

func TestSummarize_UniformEdges(t *testing.T) {
	s := summarize([]float64{0.05, 0.05, 0.05, 0.05}, 100)

	assert.Equal(t, 4, s.Runs)
	assert.Equal(t, 0.05, s.MeanEdge)
	assert.Equal(t, 0.0, s.Variance)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 0.05, s.MinEdge)
	assert.Equal(t, 0.05, s.MaxEdge)
	assert.Equal(t, 0.05, s.CI95Low)
	assert.Equal(t, 0.05, s.CI95High)
	assert.True(t, s.Stable, "zero spread is stable")
}

func TestSummarize_SpreadEdges(t *testing.T) {
	edges := []float64{0.02, 0.04, 0.06, 0.08}
	s := summarize(edges, 100)

	assert.InDelta(t, 0.05, s.MeanEdge, 1e-9)
	assert.InDelta(t, 0.0005, s.Variance, 1e-9)
	assert.InDelta(t, math.Sqrt(0.0005), s.StdDev, 1e-9)
	assert.Equal(t, 0.02, s.MinEdge)
	assert.Equal(t, 0.08, s.MaxEdge)

	margin := 1.96 * s.StdDev / 2 // sqrt(4) runs
	assert.InDelta(t, s.MeanEdge-margin, s.CI95Low, 1e-9)
	assert.InDelta(t, s.MeanEdge+margin, s.CI95High, 1e-9)

	assert.InDelta(t, s.Variance, s.StdDev*s.StdDev, 1e-12)
	assert.False(t, s.Stable, "2.2% spread is not stable")
}

func TestRun_SmallBatch(t *testing.T) {
	s, err := Run(sim.DefaultConfig(), strategy.DefaultRegistry(), Config{
		Runs:         6,
		RoundsPerRun: 100,
		Seed:         42,
		Workers:      3,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, s.Runs)
	assert.Equal(t, 100, s.RoundsPerRun)
	require.Len(t, s.Edges, 6)

	assert.LessOrEqual(t, s.MinEdge, s.MeanEdge)
	assert.LessOrEqual(t, s.MeanEdge, s.MaxEdge)
	assert.LessOrEqual(t, s.CI95Low, s.MeanEdge)
	assert.LessOrEqual(t, s.MeanEdge, s.CI95High)
	assert.GreaterOrEqual(t, s.StdDev, 0.0)
}

// The per-run seed schedule is fixed by the master seed, so results are
// identical regardless of worker count or interleaving.
func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	run := func(workers int) *Summary {
		s, err := Run(sim.DefaultConfig(), strategy.DefaultRegistry(), Config{
			Runs:         5,
			RoundsPerRun: 100,
			Seed:         7,
			Workers:      workers,
		})
		require.NoError(t, err)
		return s
	}

	serial, parallel := run(1), run(4)
	assert.Equal(t, serial.Edges, parallel.Edges)
	assert.Equal(t, serial.MeanEdge, parallel.MeanEdge)
}

func TestRun_DoesNotMutateCallerRegistry(t *testing.T) {
	registry := strategy.DefaultRegistry()
	before := registry.Rules()

	_, err := Run(sim.DefaultConfig(), registry, Config{
		Runs:         3,
		RoundsPerRun: 50,
		Seed:         1,
	})
	require.NoError(t, err)
	assert.Equal(t, before, registry.Rules())
}

func TestRun_AppliesDefaults(t *testing.T) {
	// Zero values fall back to the package defaults; keep the batch tiny so
	// only the default plumbing is exercised.
	s, err := Run(sim.DefaultConfig(), strategy.DefaultRegistry(), Config{
		Runs:         2,
		RoundsPerRun: 20,
		Seed:         9,
		Workers:      0, // NumCPU
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Runs)
}
