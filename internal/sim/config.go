// Package sim runs the five-card-draw economy simulation: per-round deal,
// hold decisions, draw, showdown and resolution against the tube economy
// and the house ledger, plus the batch simulator that aggregates metrics
// over many rounds.
package sim

import (
	"fmt"

	"tubedraw/internal/tube"
)

// Config is the full economic configuration for a simulation run. Every
// field is overridable; DefaultConfig supplies the baseline the balancing
// engine starts from.
type Config struct {
	// Players is the number of non-dealer participants. The 52-card deck
	// bounds it: every participant may redraw all five cards.
	Players int
	Ante    int

	// Dealer behaviour. Aggression is the probability the dealer follows
	// its own hold advice instead of standing pat, in [0,1].
	DealerDraws          bool
	DealerWinsTiesOnDraw bool
	DealerAggression     float64

	// Bust economy. When BustOnEmptyTube is off an empty tube simply pays
	// nothing and the win stands.
	BustOnEmptyTube       bool
	BustPenaltyMultiplier float64

	// Tube economy.
	Tubes                map[tube.Type]tube.Params
	PayoutStrategy       string
	RefillEnabled        bool
	RefillAmount         int
	AutoRefillThreshold  int
	BonusPayoutThreshold float64
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Players:               4,
		Ante:                  5,
		DealerDraws:           true,
		DealerWinsTiesOnDraw:  false,
		DealerAggression:      0.5,
		BustOnEmptyTube:       true,
		BustPenaltyMultiplier: 1.0,
		Tubes: map[tube.Type]tube.Params{
			tube.ST: {Initial: 25, Max: 100},
			tube.FL: {Initial: 25, Max: 100},
			tube.FH: {Initial: 25, Max: 100},
			tube.SF: {Initial: 25, Max: 100},
			tube.RF: {Initial: 25, Max: 100},
		},
		PayoutStrategy:       "fixed",
		RefillEnabled:        true,
		RefillAmount:         2,
		AutoRefillThreshold:  5,
		BonusPayoutThreshold: 0.9,
	}
}

// Clone returns a deep copy safe to hand to a worker or mutate in the
// balancing loop.
func (c Config) Clone() Config {
	out := c
	out.Tubes = make(map[tube.Type]tube.Params, len(c.Tubes))
	for t, p := range c.Tubes {
		out.Tubes[t] = p
	}
	return out
}

// Validate checks the configuration is playable.
func (c Config) Validate() error {
	if c.Players < 1 || c.Players > 4 {
		return fmt.Errorf("players must be 1-4 (a 52-card deck cannot cover more full redraws), got %d", c.Players)
	}
	if c.Ante <= 0 {
		return fmt.Errorf("ante must be positive, got %d", c.Ante)
	}
	if c.DealerAggression < 0 || c.DealerAggression > 1 {
		return fmt.Errorf("dealer aggression must be in [0,1], got %f", c.DealerAggression)
	}
	if c.BustPenaltyMultiplier < 0 {
		return fmt.Errorf("bust penalty multiplier must be non-negative, got %f", c.BustPenaltyMultiplier)
	}
	if _, err := tube.StrategyForName(c.PayoutStrategy); err != nil {
		return err
	}
	for _, t := range tube.Types() {
		p, ok := c.Tubes[t]
		if !ok {
			return fmt.Errorf("tube %s has no configuration", t)
		}
		if p.Initial < 0 || p.Max < p.Initial {
			return fmt.Errorf("tube %s: need 0 <= initial <= max, got initial=%d max=%d", t, p.Initial, p.Max)
		}
	}
	if c.RefillEnabled && c.RefillAmount < 0 {
		return fmt.Errorf("refill amount must be non-negative, got %d", c.RefillAmount)
	}
	if c.BonusPayoutThreshold < 0 || c.BonusPayoutThreshold > 1 {
		return fmt.Errorf("bonus payout threshold must be in [0,1], got %f", c.BonusPayoutThreshold)
	}
	return nil
}
