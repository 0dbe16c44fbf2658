package poker

import (
	"math/bits"
	"sort"
)

// HandRank enumerates five-card draw hand categories, weakest to strongest.
type HandRank uint8

const (
	HighCard HandRank = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable hand description.
func (hr HandRank) String() string {
	switch hr {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Classification is the result of evaluating exactly five cards. Tiebreaks
// holds the significant ranks in descending order of importance, so two
// classifications of the same rank compare lexicographically.
type Classification struct {
	Rank      HandRank
	Tiebreaks []uint8
}

// Classify evaluates exactly five cards into a rank category plus tiebreak
// ranks. Behaviour on any other card count is undefined; callers that take
// hands from outside validate the count first.
func Classify(cards []Card) Classification {
	h := NewHand(cards...)

	var counts [13]uint8
	for _, c := range cards {
		counts[c.Rank()]++
	}

	flush := false
	for suit := uint8(0); suit < 4; suit++ {
		if bits.OnesCount16(h.SuitMask(suit)) == 5 {
			flush = true
			break
		}
	}

	straight, straightHigh := straightHighRank(h.RankMask())

	switch {
	case flush && straight && straightHigh == Ace:
		return Classification{Rank: RoyalFlush, Tiebreaks: []uint8{Ace}}
	case flush && straight:
		return Classification{Rank: StraightFlush, Tiebreaks: []uint8{straightHigh}}
	}

	var quad, trip uint8 = 255, 255
	var pairs []uint8
	for rank := int(Ace); rank >= int(Two); rank-- {
		switch counts[rank] {
		case 4:
			quad = uint8(rank)
		case 3:
			trip = uint8(rank)
		case 2:
			pairs = append(pairs, uint8(rank))
		}
	}

	switch {
	case quad != 255:
		return Classification{Rank: FourOfAKind, Tiebreaks: append([]uint8{quad}, kickers(counts, quad)...)}
	case trip != 255 && len(pairs) == 1:
		return Classification{Rank: FullHouse, Tiebreaks: []uint8{trip, pairs[0]}}
	case flush:
		return Classification{Rank: Flush, Tiebreaks: kickers(counts)}
	case straight:
		return Classification{Rank: Straight, Tiebreaks: []uint8{straightHigh}}
	case trip != 255:
		return Classification{Rank: ThreeOfAKind, Tiebreaks: append([]uint8{trip}, kickers(counts, trip)...)}
	case len(pairs) == 2:
		return Classification{Rank: TwoPair, Tiebreaks: append([]uint8{pairs[0], pairs[1]}, kickers(counts, pairs[0], pairs[1])...)}
	case len(pairs) == 1:
		return Classification{Rank: Pair, Tiebreaks: append([]uint8{pairs[0]}, kickers(counts, pairs[0])...)}
	default:
		return Classification{Rank: HighCard, Tiebreaks: kickers(counts)}
	}
}

// Compare imposes a total order over two classified hands. Returns >0 when
// a beats b, <0 when b beats a, and 0 on an exact tie.
func Compare(a, b Classification) int {
	if a.Rank != b.Rank {
		return int(a.Rank) - int(b.Rank)
	}
	for i := 0; i < len(a.Tiebreaks) && i < len(b.Tiebreaks); i++ {
		if a.Tiebreaks[i] != b.Tiebreaks[i] {
			return int(a.Tiebreaks[i]) - int(b.Tiebreaks[i])
		}
	}
	return 0
}

// kickers returns the ranks present in counts, descending, excluding the
// given ranks. Grouped ranks are excluded by the caller so the remainder is
// always singletons.
func kickers(counts [13]uint8, exclude ...uint8) []uint8 {
	var out []uint8
	for rank := int(Ace); rank >= int(Two); rank-- {
		if counts[rank] == 0 {
			continue
		}
		skip := false
		for _, ex := range exclude {
			if uint8(rank) == ex {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, uint8(rank))
		}
	}
	return out
}

// straightWindows lists every five-rank run, wheel first so that an
// ace-low straight reports Five as its high card.
var straightWindows = [10][5]uint8{
	{Ace, Two, Three, Four, Five},
	{Two, Three, Four, Five, Six},
	{Three, Four, Five, Six, Seven},
	{Four, Five, Six, Seven, Eight},
	{Five, Six, Seven, Eight, Nine},
	{Six, Seven, Eight, Nine, Ten},
	{Seven, Eight, Nine, Ten, Jack},
	{Eight, Nine, Ten, Jack, Queen},
	{Nine, Ten, Jack, Queen, King},
	{Ten, Jack, Queen, King, Ace},
}

func straightHighRank(rankMask uint16) (bool, uint8) {
	for i := len(straightWindows) - 1; i >= 0; i-- {
		window := straightWindows[i]
		all := true
		for _, r := range window {
			if rankMask&(1<<r) == 0 {
				all = false
				break
			}
		}
		if all {
			return true, window[4]
		}
	}
	return false, 0
}

// FourToFlush reports whether exactly four of the five cards share a suit,
// returning the positions of those four cards.
func FourToFlush(cards []Card) (bool, []int) {
	var suitCounts [4]int
	for _, c := range cards {
		suitCounts[c.Suit()]++
	}
	for suit := uint8(0); suit < 4; suit++ {
		if suitCounts[suit] != 4 {
			continue
		}
		var holds []int
		for i, c := range cards {
			if c.Suit() == suit {
				holds = append(holds, i)
			}
		}
		return true, holds
	}
	return false, nil
}

// FourToStraight reports whether four cards of distinct rank fit inside a
// single five-rank straight window, returning the positions of those four
// cards. A made straight also satisfies the predicate; rule priority keeps
// made hands ahead of draws, so the engine never consults it for one.
func FourToStraight(cards []Card) (bool, []int) {
	for _, window := range straightWindows {
		seen := make(map[uint8]int, 5)
		for i, c := range cards {
			rank := c.Rank()
			for _, r := range window {
				if rank == r {
					if _, dup := seen[rank]; !dup {
						seen[rank] = i
					}
					break
				}
			}
		}
		if len(seen) < 4 {
			continue
		}
		var holds []int
		for _, pos := range seen {
			holds = append(holds, pos)
		}
		sort.Ints(holds)
		if len(holds) > 4 {
			holds = holds[:4]
		}
		return true, holds
	}
	return false, nil
}
