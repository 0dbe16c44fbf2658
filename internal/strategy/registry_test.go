package strategy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubedraw/poker"
)

func TestDecide_KnownHands(t *testing.T) {
	reg := DefaultRegistry()
	require.NoError(t, reg.Validate())

	tests := []struct {
		name      string
		cards     string
		wantRule  string
		wantHolds []int
	}{
		{"royal flush held pat", "Th Jh Qh Kh Ah", "H5.RF", []int{0, 1, 2, 3, 4}},
		{"straight flush held pat", "5h 6h 7h 8h 9h", "H5.SF", []int{0, 1, 2, 3, 4}},
		{"quads held pat", "2c 2d 2h 2s 9c", "H5.4K", []int{0, 1, 2, 3, 4}},
		{"full house held pat", "2c 2d 2h 9s 9c", "H5.FH", []int{0, 1, 2, 3, 4}},
		{"flush held pat", "2h 5h 9h Jh Kh", "H5.FL", []int{0, 1, 2, 3, 4}},
		{"straight held pat", "4c 5d 6h 7s 8c", "H5.ST", []int{0, 1, 2, 3, 4}},
		{"flush draw", "2h 9h Jh Kh 3c", "H4.FL", []int{0, 1, 2, 3}},
		{"straight draw", "4c 5d 6h 7s Jc", "H4.ST", []int{0, 1, 2, 3}},
		{"trips", "2c 2d 2h 9s Jc", "H3.TK", []int{0, 1, 2}},
		{"two pair", "2c 2d 9h 9s Jc", "H2.TP", []int{0, 1, 2, 3}},
		{"one pair", "2c 2d 9h 7s Jc", "H2.OP", []int{0, 1}},
		{"ace high", "Ah 9c 7d 5s 2h", "H1.HC", []int{0}},
		{"nothing", "2c 9d 5h 7s Jc", "H0.DA", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := reg.Decide(poker.MustParseCards(tt.cards))
			require.NoError(t, err)
			assert.Equal(t, tt.wantRule, d.RuleID)
			assert.Equal(t, tt.wantHolds, d.HoldPositions)
		})
	}
}

// A made flush that also contains four cards to a straight must resolve to
// the made hand: rules match in strictly descending priority.
func TestDecide_PriorityBeatsDraw(t *testing.T) {
	reg := DefaultRegistry()
	d, err := reg.Decide(poker.MustParseCards("2h 3h 4h 5h 7h"))
	require.NoError(t, err)
	assert.Equal(t, "H5.FL", d.RuleID)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, d.HoldPositions)
}

// Every possible five-card hand must produce a decision; the priority-zero
// draw-all fallback makes the table total.
func TestDecide_Totality(t *testing.T) {
	reg := DefaultRegistry()
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 10000; i++ {
		deck := poker.NewDeck(rng)
		cards := deck.Deal(5)
		d, err := reg.Decide(cards)
		require.NoError(t, err, "hand %v", cards)
		require.NotEmpty(t, d.RuleID)
		for _, pos := range d.HoldPositions {
			require.GreaterOrEqual(t, pos, 0)
			require.Less(t, pos, 5)
		}
	}
}

func TestDecide_RejectsWrongCardCount(t *testing.T) {
	reg := DefaultRegistry()
	_, err := reg.Decide(poker.MustParseCards("Ah Kh"))
	assert.Error(t, err)
}

func TestDecide_DisabledRuleNeverMatches(t *testing.T) {
	reg := DefaultRegistry()
	require.True(t, reg.SetEnabled("H1.HC", false))

	// An ace-high hand now falls through to the draw-all fallback.
	d, err := reg.Decide(poker.MustParseCards("Ah 9c 7d 5s 2h"))
	require.NoError(t, err)
	assert.Equal(t, "H0.DA", d.RuleID)

	rule, ok := reg.Rule("H1.HC")
	require.True(t, ok)
	assert.False(t, rule.Enabled)
}

func TestValidate_DuplicatePriority(t *testing.T) {
	reg := NewRegistry([]Rule{
		{ID: "A", Priority: 10, Kind: KindHighCard, Enabled: true},
		{ID: "B", Priority: 10, Kind: KindOnePair, Enabled: true},
		{ID: "H0.DA", Priority: 0, Kind: KindDrawAll, Enabled: true},
	})
	assert.Error(t, reg.Validate())
}

func TestValidate_MissingFallback(t *testing.T) {
	reg := NewRegistry([]Rule{
		{ID: "A", Priority: 10, Kind: KindHighCard, Enabled: true},
	})
	assert.Error(t, reg.Validate())
}

func TestClone_Independent(t *testing.T) {
	reg := DefaultRegistry()
	clone := reg.Clone()
	clone.SetEnabled("H5.RF", false)

	rule, _ := reg.Rule("H5.RF")
	assert.True(t, rule.Enabled, "disabling in the clone must not leak back")
	cloned, _ := clone.Rule("H5.RF")
	assert.False(t, cloned.Enabled)
}

func TestSetEnabled_UnknownRule(t *testing.T) {
	assert.False(t, DefaultRegistry().SetEnabled("H9.XX", false))
}
