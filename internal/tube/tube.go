// Package tube implements the five shared reward pools that pay qualifying
// wins. Each tube is bound to one poker hand rank, drains through a
// configurable payout formula, and is topped back up by a fixed refill pass
// after every round. An empty tube converts the win into a bust event.
package tube

import (
	"tubedraw/poker"
)

// Type identifies one of the five reward tubes.
type Type uint8

const (
	ST Type = iota // straight
	FL             // flush
	FH             // full house
	SF             // straight flush
	RF             // royal flush

	// None marks the absence of a tube, e.g. a win that does not qualify.
	None Type = 255
)

// Types returns all tube types in payout order.
func Types() [5]Type {
	return [5]Type{ST, FL, FH, SF, RF}
}

// String returns the short tube label.
func (t Type) String() string {
	switch t {
	case ST:
		return "ST"
	case FL:
		return "FL"
	case FH:
		return "FH"
	case SF:
		return "SF"
	case RF:
		return "RF"
	default:
		return "??"
	}
}

// ForRank maps a qualifying hand rank to its tube. Four of a kind is the
// one strong rank deliberately left unbound; it pays from the house.
func ForRank(r poker.HandRank) (Type, bool) {
	switch r {
	case poker.Straight:
		return ST, true
	case poker.Flush:
		return FL, true
	case poker.FullHouse:
		return FH, true
	case poker.StraightFlush:
		return SF, true
	case poker.RoyalFlush:
		return RF, true
	default:
		return None, false
	}
}

// Tube holds the balance state of a single reward pool.
// Invariant: 0 <= Current <= Max.
type Tube struct {
	Current int
	Initial int
	Max     int
}

// Result describes the outcome of one payout request against a tube.
type Result struct {
	Payout       int
	NewBalance   int
	WasEmpty     bool
	TriggersBust bool
}

// Payout computes a single tube payout without mutating anything. An empty
// tube pays nothing and flags the win for conversion into a bust; otherwise
// the strategy's raw payout is clamped so a tube can never pay more than it
// holds.
func Payout(current, initial, max int, s Strategy) Result {
	if current <= 0 {
		return Result{Payout: 0, NewBalance: 0, WasEmpty: true, TriggersBust: true}
	}

	raw := s.Calculate(current, initial, max)
	actual := raw
	if actual > current {
		actual = current
	}
	if actual < 0 {
		actual = 0
	}

	return Result{
		Payout:     actual,
		NewBalance: current - actual,
	}
}
