package sim

import (
	"tubedraw/internal/strategy"
	"tubedraw/internal/tube"
	"tubedraw/poker"
)

// DealerSeat is the participant index reserved for the dealer. Players
// occupy seats 1..Players.
const DealerSeat = 0

// ParticipantOutcome is the immutable record of one participant's result
// for one round. Produced once per active participant, appended to round
// history, never mutated.
type ParticipantOutcome struct {
	Seat        int
	RuleID      string
	Outcome     strategy.Outcome
	HandRank    poker.HandRank
	Ante        int
	Payout      int
	TubePayout  int
	BustPenalty int
	TubeHit     tube.Type
}

// Net is the participant's credit change for the round.
func (o ParticipantOutcome) Net() int {
	return o.Payout + o.TubePayout - o.Ante - o.BustPenalty
}
