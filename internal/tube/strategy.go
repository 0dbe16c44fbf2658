package tube

import (
	"fmt"
	"math"
)

// Strategy is a pure payout formula over a tube's balance state. Strategies
// never mutate tube state; they only size the draw, which Payout then
// clamps to the available balance.
type Strategy interface {
	Calculate(current, initial, max int) int
	Name() string
}

// Fixed always pays the tube's initial balance. Lowest volatility.
type Fixed struct{}

func (Fixed) Calculate(current, initial, max int) int { return initial }
func (Fixed) Name() string                            { return "fixed" }

// Percentage pays a fixed fraction of the current balance. The balance
// shrinks proportionally but the formula alone never reaches exactly zero.
type Percentage struct {
	P float64
}

func (s Percentage) Calculate(current, initial, max int) int {
	return int(math.Floor(float64(current) * s.P))
}

func (s Percentage) Name() string { return "percentage" }

// Logarithmic smooths payout growth for large balances.
type Logarithmic struct {
	Base float64
}

func (s Logarithmic) Calculate(current, initial, max int) int {
	if current <= 0 {
		return 0
	}
	return int(math.Floor(s.Base + 2*math.Log(float64(current)+1)))
}

func (s Logarithmic) Name() string { return "logarithmic" }

// Progressive scales the initial payout by how full the tube is, rewarding
// near-full tubes disproportionately. Highest volatility.
type Progressive struct {
	Threshold float64
}

func (s Progressive) Calculate(current, initial, max int) int {
	if max <= 0 {
		return initial
	}
	fillRatio := float64(current) / float64(max)
	multiplier := 1.0
	if fillRatio > s.Threshold {
		multiplier = 1 + 2*(fillRatio-s.Threshold)
	}
	return int(math.Floor(float64(initial) * multiplier))
}

func (s Progressive) Name() string { return "progressive" }

// Default parameters for the selectable strategies.
const (
	DefaultPercentage           = 0.25
	DefaultLogBase              = 5.0
	DefaultProgressiveThreshold = 0.5
)

// StrategyForName builds the payout strategy selected by configuration.
func StrategyForName(name string) (Strategy, error) {
	switch name {
	case "fixed":
		return Fixed{}, nil
	case "percentage":
		return Percentage{P: DefaultPercentage}, nil
	case "logarithmic":
		return Logarithmic{Base: DefaultLogBase}, nil
	case "progressive":
		return Progressive{Threshold: DefaultProgressiveThreshold}, nil
	default:
		return nil, fmt.Errorf("unknown payout strategy: %s", name)
	}
}
