package poker

import (
	"math/rand"
	"testing"
)

func newTestRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestClassify_Categories(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		want  HandRank
	}{
		{"royal flush", "Th Jh Qh Kh Ah", RoyalFlush},
		{"straight flush", "9h Th Jh Qh Kh", StraightFlush},
		{"wheel straight flush", "Ah 2h 3h 4h 5h", StraightFlush},
		{"four of a kind", "2c 2d 2h 2s 9c", FourOfAKind},
		{"full house", "2c 2d 2h 9s 9c", FullHouse},
		{"flush", "2h 5h 9h Jh Kh", Flush},
		{"ace high straight", "Ts Jd Qh Kc As", Straight},
		{"wheel straight", "Ah 2c 3d 4h 5s", Straight},
		{"three of a kind", "2c 2d 2h 9s Jc", ThreeOfAKind},
		{"two pair", "2c 2d 9h 9s Jc", TwoPair},
		{"one pair", "2c 2d 9h 7s Jc", Pair},
		{"high card", "2c 9d 5h 7s Jc", HighCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(MustParseCards(tt.cards))
			if got.Rank != tt.want {
				t.Errorf("Classify(%s) = %s, want %s", tt.cards, got.Rank, tt.want)
			}
		})
	}
}

func TestClassify_WheelReportsFiveHigh(t *testing.T) {
	cls := Classify(MustParseCards("Ah 2c 3d 4h 5s"))
	if cls.Rank != Straight {
		t.Fatalf("expected straight, got %s", cls.Rank)
	}
	if cls.Tiebreaks[0] != Five {
		t.Errorf("wheel should be five-high, got tiebreak rank %d", cls.Tiebreaks[0])
	}
}

func TestCompare_TotalOrder(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int // sign only
	}{
		{"flush beats straight", "2h 5h 9h Jh Kh", "Ts Jd Qh Kc As", 1},
		{"higher straight wins", "Ts Jd Qh Kc As", "9s Td Jh Qc Ks", 1},
		{"higher pair wins", "9c 9d 2h 3s 4c", "8c 8d Ah Ks Qc", 1},
		{"kicker decides", "9c 9d Ah 3s 4c", "9h 9s Kh 3c 4d", 1},
		{"suit never matters", "2h 5h 9h Jh Kh", "2s 5s 9s Js Ks", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Classify(MustParseCards(tt.a))
			b := Classify(MustParseCards(tt.b))
			got := Compare(a, b)
			switch {
			case tt.want > 0 && got <= 0:
				t.Errorf("Compare(%s, %s) = %d, want > 0", tt.a, tt.b, got)
			case tt.want == 0 && got != 0:
				t.Errorf("Compare(%s, %s) = %d, want 0", tt.a, tt.b, got)
			}
			if tt.want > 0 {
				if rev := Compare(b, a); rev >= 0 {
					t.Errorf("Compare reversed = %d, want < 0", rev)
				}
			}
		})
	}
}

func TestFourToFlush(t *testing.T) {
	ok, holds := FourToFlush(MustParseCards("2h 9h Jh Kh 3c"))
	if !ok {
		t.Fatal("expected four-to-flush")
	}
	if len(holds) != 4 || holds[0] != 0 || holds[3] != 3 {
		t.Errorf("unexpected holds: %v", holds)
	}

	// A made flush is not a draw.
	if ok, _ := FourToFlush(MustParseCards("2h 9h Jh Kh 3h")); ok {
		t.Error("made flush should not report a four-card draw")
	}

	if ok, _ := FourToFlush(MustParseCards("2h 9h Jc Kd 3s")); ok {
		t.Error("three suits should not report a draw")
	}
}

func TestFourToStraight(t *testing.T) {
	ok, holds := FourToStraight(MustParseCards("4c 5d 6h 7s Jc"))
	if !ok {
		t.Fatal("expected open-ended four-to-straight")
	}
	if len(holds) != 4 {
		t.Fatalf("expected 4 holds, got %v", holds)
	}

	// Inside draw counts too: 4-5-6-8 fits the 4..8 window.
	if ok, _ := FourToStraight(MustParseCards("4c 5d 6h 8s Jc")); !ok {
		t.Error("expected inside four-to-straight")
	}

	// Ace plays low in the wheel window.
	if ok, _ := FourToStraight(MustParseCards("Ac 2d 3h 4s Jc")); !ok {
		t.Error("expected wheel four-to-straight")
	}

	if ok, _ := FourToStraight(MustParseCards("2c 5d 9h Js Kc")); ok {
		t.Error("scattered ranks should not report a draw")
	}
}

func TestDeck_Deterministic(t *testing.T) {
	d1 := NewDeck(newTestRand(42))
	d2 := NewDeck(newTestRand(42))

	for i := 0; i < 52; i++ {
		c1, c2 := d1.DealOne(), d2.DealOne()
		if c1 != c2 {
			t.Fatalf("decks diverged at card %d: %s vs %s", i, c1, c2)
		}
	}
	if d1.CardsRemaining() != 0 {
		t.Errorf("expected empty deck, %d cards remain", d1.CardsRemaining())
	}
}

func TestDeck_DealsUniqueCards(t *testing.T) {
	d := NewDeck(newTestRand(7))
	seen := make(map[Card]bool)
	for _, c := range d.Deal(52) {
		if seen[c] {
			t.Fatalf("duplicate card dealt: %s", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Errorf("expected 52 unique cards, got %d", len(seen))
	}
}
