// Package config loads simulation profiles from HCL files and translates
// them into engine and balancer configuration.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"tubedraw/internal/balance"
	"tubedraw/internal/sim"
	"tubedraw/internal/tube"
)

// FileConfig is the complete profile file.
type FileConfig struct {
	Simulation *SimulationBlock `hcl:"simulation,block"`
	Economy    *EconomyBlock    `hcl:"economy,block"`
	Tubes      []TubeBlock      `hcl:"tube,block"`
	Objective  *ObjectiveBlock  `hcl:"objective,block"`
}

// SimulationBlock holds round and table settings. Boolean fields are
// pointers so an omitted flag falls back to the default rather than false.
type SimulationBlock struct {
	Rounds               int      `hcl:"rounds,optional"`
	Seed                 int64    `hcl:"seed,optional"`
	Players              int      `hcl:"players,optional"`
	Ante                 int      `hcl:"ante,optional"`
	DealerDraws          *bool    `hcl:"dealer_draws,optional"`
	DealerWinsTiesOnDraw *bool    `hcl:"dealer_wins_ties_on_draw,optional"`
	DealerAggression     *float64 `hcl:"dealer_aggression,optional"`
}

// EconomyBlock holds the payout and bust economy settings.
type EconomyBlock struct {
	PayoutStrategy        string   `hcl:"payout_strategy,optional"`
	BustOnEmptyTube       *bool    `hcl:"bust_on_empty_tube,optional"`
	BustPenaltyMultiplier *float64 `hcl:"bust_penalty_multiplier,optional"`
	RefillEnabled         *bool    `hcl:"refill_enabled,optional"`
	RefillAmount          *int     `hcl:"refill_amount,optional"`
	AutoRefillThreshold   *int     `hcl:"auto_refill_threshold,optional"`
	BonusPayoutThreshold  *float64 `hcl:"bonus_payout_threshold,optional"`
}

// TubeBlock overrides one tube's balances; the label is the tube type.
type TubeBlock struct {
	Type    string `hcl:"type,label"`
	Initial int    `hcl:"initial"`
	Max     int    `hcl:"max"`
}

// ObjectiveBlock overrides the balancing objective.
type ObjectiveBlock struct {
	TargetEdge       *float64 `hcl:"target_edge,optional"`
	EdgeTolerance    *float64 `hcl:"edge_tolerance,optional"`
	MaxVolatility    *float64 `hcl:"max_volatility,optional"`
	MaxExploitEV     *float64 `hcl:"max_exploit_ev,optional"`
	ExploitMinUsage  *int     `hcl:"exploit_min_usage,optional"`
	WeightEdge       *float64 `hcl:"weight_edge,optional"`
	WeightVolatility *float64 `hcl:"weight_volatility,optional"`
	WeightDrain      *float64 `hcl:"weight_drain,optional"`
	WeightExploit    *float64 `hcl:"weight_exploit,optional"`
	LearningRate     *float64 `hcl:"learning_rate,optional"`
	MaxIterations    *int     `hcl:"max_iterations,optional"`
}

// Load reads a profile from an HCL file. A missing file yields the
// defaults, matching the "everything overridable" contract.
func Load(filename string) (*FileConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return &FileConfig{}, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg FileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	return &cfg, nil
}

// tubeTypeForLabel maps a tube block label to its type.
func tubeTypeForLabel(label string) (tube.Type, error) {
	for _, t := range tube.Types() {
		if t.String() == label {
			return t, nil
		}
	}
	return tube.None, fmt.Errorf("unknown tube type: %s", label)
}

// SimConfig applies the profile on top of the engine defaults.
func (c *FileConfig) SimConfig() (sim.Config, error) {
	out := sim.DefaultConfig()

	if s := c.Simulation; s != nil {
		if s.Players != 0 {
			out.Players = s.Players
		}
		if s.Ante != 0 {
			out.Ante = s.Ante
		}
		if s.DealerDraws != nil {
			out.DealerDraws = *s.DealerDraws
		}
		if s.DealerWinsTiesOnDraw != nil {
			out.DealerWinsTiesOnDraw = *s.DealerWinsTiesOnDraw
		}
		if s.DealerAggression != nil {
			out.DealerAggression = *s.DealerAggression
		}
	}

	if e := c.Economy; e != nil {
		if e.PayoutStrategy != "" {
			out.PayoutStrategy = e.PayoutStrategy
		}
		if e.BustOnEmptyTube != nil {
			out.BustOnEmptyTube = *e.BustOnEmptyTube
		}
		if e.BustPenaltyMultiplier != nil {
			out.BustPenaltyMultiplier = *e.BustPenaltyMultiplier
		}
		if e.RefillEnabled != nil {
			out.RefillEnabled = *e.RefillEnabled
		}
		if e.RefillAmount != nil {
			out.RefillAmount = *e.RefillAmount
		}
		if e.AutoRefillThreshold != nil {
			out.AutoRefillThreshold = *e.AutoRefillThreshold
		}
		if e.BonusPayoutThreshold != nil {
			out.BonusPayoutThreshold = *e.BonusPayoutThreshold
		}
	}

	for _, tb := range c.Tubes {
		t, err := tubeTypeForLabel(tb.Type)
		if err != nil {
			return sim.Config{}, err
		}
		out.Tubes[t] = tube.Params{Initial: tb.Initial, Max: tb.Max}
	}

	if err := out.Validate(); err != nil {
		return sim.Config{}, err
	}
	return out, nil
}

// Rounds returns the configured batch size, defaulting to 20000.
func (c *FileConfig) Rounds() int {
	if c.Simulation != nil && c.Simulation.Rounds > 0 {
		return c.Simulation.Rounds
	}
	return 20000
}

// Seed returns the configured seed, 0 meaning "pick one".
func (c *FileConfig) Seed() int64 {
	if c.Simulation == nil {
		return 0
	}
	return c.Simulation.Seed
}

// BalanceObjective applies the profile's objective block on top of the
// defaults.
func (c *FileConfig) BalanceObjective() balance.Objective {
	out := balance.DefaultObjective()
	o := c.Objective
	if o == nil {
		return out
	}

	if o.TargetEdge != nil {
		out.TargetEdge = *o.TargetEdge
	}
	if o.EdgeTolerance != nil {
		out.EdgeTolerance = *o.EdgeTolerance
	}
	if o.MaxVolatility != nil {
		out.MaxVolatility = *o.MaxVolatility
	}
	if o.MaxExploitEV != nil {
		out.MaxExploitEV = *o.MaxExploitEV
	}
	if o.ExploitMinUsage != nil {
		out.ExploitMinUsage = *o.ExploitMinUsage
	}
	if o.WeightEdge != nil {
		out.WeightEdge = *o.WeightEdge
	}
	if o.WeightVolatility != nil {
		out.WeightVolatility = *o.WeightVolatility
	}
	if o.WeightDrain != nil {
		out.WeightDrain = *o.WeightDrain
	}
	if o.WeightExploit != nil {
		out.WeightExploit = *o.WeightExploit
	}
	if o.LearningRate != nil {
		out.LearningRate = *o.LearningRate
	}
	if o.MaxIterations != nil {
		out.MaxIterations = *o.MaxIterations
	}
	return out
}
