// Package strategy implements the Hold-Type decision engine: an ordered
// registry of deterministic draw rules. For any five-card hand exactly one
// enabled rule applies, chosen by strictly descending priority, and the
// decision says which card positions to hold before the draw.
package strategy

import (
	"tubedraw/poker"
)

// Category groups rules by strategic intent.
type Category string

const (
	CategoryMadeHand   Category = "made_hand"
	CategoryStrongDraw Category = "strong_draw"
	CategoryMediumDraw Category = "medium_draw"
	CategoryHighCard   Category = "high_card"
	CategoryFallback   Category = "fallback"
)

// Kind selects the matching logic for a rule. Rules are data, not
// closures: the registry stays inspectable and serializable, and the
// dispatch below is the only place matching logic lives.
type Kind uint8

const (
	KindMadeHand Kind = iota
	KindFlushDraw
	KindStraightDraw
	KindThreeOfAKind
	KindTwoPair
	KindOnePair
	KindHighCard
	KindDrawAll
)

// Rule is one named, prioritized hold strategy. Rules are registered once
// and never mutated afterwards, except for Enabled which the balancing
// engine may clear when a rule turns out to be exploitable.
type Rule struct {
	ID            string
	Priority      int
	Category      Category
	Kind          Kind
	MadeRank      poker.HandRank // consulted only for KindMadeHand
	BustRisk      bool
	TheoreticalEV float64
	Enabled       bool
}

// match evaluates the rule against a classified five-card hand. It returns
// the card positions to hold and whether the rule applies at all.
func (r Rule) match(cards []poker.Card, cls poker.Classification) ([]int, bool) {
	switch r.Kind {
	case KindMadeHand:
		if cls.Rank != r.MadeRank {
			return nil, false
		}
		return []int{0, 1, 2, 3, 4}, true

	case KindFlushDraw:
		ok, holds := poker.FourToFlush(cards)
		return holds, ok

	case KindStraightDraw:
		ok, holds := poker.FourToStraight(cards)
		return holds, ok

	case KindThreeOfAKind:
		if cls.Rank != poker.ThreeOfAKind {
			return nil, false
		}
		return positionsWithCount(cards, 3), true

	case KindTwoPair:
		if cls.Rank != poker.TwoPair {
			return nil, false
		}
		return positionsWithCount(cards, 2), true

	case KindOnePair:
		if cls.Rank != poker.Pair {
			return nil, false
		}
		return positionsWithCount(cards, 2), true

	case KindHighCard:
		if cls.Rank != poker.HighCard {
			return nil, false
		}
		return highCardHold(cards)

	case KindDrawAll:
		return []int{}, true

	default:
		return nil, false
	}
}

// positionsWithCount returns the positions of every card whose rank occurs
// exactly n times in the hand. For trips that is the triplet, for pairs the
// paired cards of one or both pairs.
func positionsWithCount(cards []poker.Card, n uint8) []int {
	var counts [13]uint8
	for _, c := range cards {
		counts[c.Rank()]++
	}
	var holds []int
	for i, c := range cards {
		if counts[c.Rank()] == n {
			holds = append(holds, i)
		}
	}
	return holds
}

// highCardHold holds the single best ace or king in an unclassified hand.
func highCardHold(cards []poker.Card) ([]int, bool) {
	best := -1
	var bestRank uint8
	for i, c := range cards {
		r := c.Rank()
		if r != poker.Ace && r != poker.King {
			continue
		}
		if best == -1 || r > bestRank {
			best = i
			bestRank = r
		}
	}
	if best == -1 {
		return nil, false
	}
	return []int{best}, true
}
