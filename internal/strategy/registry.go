package strategy

import (
	"fmt"
	"sort"

	"tubedraw/poker"
)

// Decision is the output of the decision engine for one hand.
type Decision struct {
	RuleID        string
	HoldPositions []int
	ExpectedValue float64
	BustPotential bool
}

// Registry is an ordered table of hold rules. It is a plain value owned by
// the simulation run that constructed it; Monte Carlo workers clone it so
// enable/disable never races with an in-flight batch.
type Registry struct {
	rules []Rule // descending priority
}

// NewRegistry builds a registry from the given rules, ordered by
// descending priority.
func NewRegistry(rules []Rule) *Registry {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &Registry{rules: sorted}
}

// DefaultRegistry returns the standard thirteen-rule table. Made hands
// outrank draws, draws outrank pair holds, and the unconditional draw-all
// rule at priority zero guarantees every hand matches something.
func DefaultRegistry() *Registry {
	return NewRegistry([]Rule{
		{ID: "H5.RF", Priority: 100, Category: CategoryMadeHand, Kind: KindMadeHand, MadeRank: poker.RoyalFlush, TheoreticalEV: 4.00, Enabled: true},
		{ID: "H5.SF", Priority: 95, Category: CategoryMadeHand, Kind: KindMadeHand, MadeRank: poker.StraightFlush, TheoreticalEV: 3.20, Enabled: true},
		{ID: "H5.4K", Priority: 90, Category: CategoryMadeHand, Kind: KindMadeHand, MadeRank: poker.FourOfAKind, TheoreticalEV: 2.10, Enabled: true},
		{ID: "H5.FH", Priority: 85, Category: CategoryMadeHand, Kind: KindMadeHand, MadeRank: poker.FullHouse, TheoreticalEV: 1.40, Enabled: true},
		{ID: "H5.FL", Priority: 80, Category: CategoryMadeHand, Kind: KindMadeHand, MadeRank: poker.Flush, TheoreticalEV: 1.10, Enabled: true},
		{ID: "H5.ST", Priority: 75, Category: CategoryMadeHand, Kind: KindMadeHand, MadeRank: poker.Straight, TheoreticalEV: 0.90, Enabled: true},
		{ID: "H4.FL", Priority: 60, Category: CategoryStrongDraw, Kind: KindFlushDraw, BustRisk: true, TheoreticalEV: 0.15, Enabled: true},
		{ID: "H4.ST", Priority: 55, Category: CategoryStrongDraw, Kind: KindStraightDraw, BustRisk: true, TheoreticalEV: 0.05, Enabled: true},
		{ID: "H3.TK", Priority: 40, Category: CategoryMediumDraw, Kind: KindThreeOfAKind, TheoreticalEV: 0.30, Enabled: true},
		{ID: "H2.TP", Priority: 30, Category: CategoryMediumDraw, Kind: KindTwoPair, TheoreticalEV: 0.10, Enabled: true},
		{ID: "H2.OP", Priority: 25, Category: CategoryMediumDraw, Kind: KindOnePair, TheoreticalEV: -0.10, Enabled: true},
		{ID: "H1.HC", Priority: 10, Category: CategoryHighCard, Kind: KindHighCard, BustRisk: true, TheoreticalEV: -0.35, Enabled: true},
		{ID: "H0.DA", Priority: 0, Category: CategoryFallback, Kind: KindDrawAll, BustRisk: true, TheoreticalEV: -0.50, Enabled: true},
	})
}

// Validate checks the registration-time invariants: unique priorities
// (ties would make match order depend on registration order, which is a
// configuration error) and an unconditional fallback at priority zero.
func (r *Registry) Validate() error {
	seen := make(map[int]string, len(r.rules))
	hasFallback := false
	for _, rule := range r.rules {
		if prev, dup := seen[rule.Priority]; dup {
			return fmt.Errorf("duplicate rule priority %d: %s and %s", rule.Priority, prev, rule.ID)
		}
		seen[rule.Priority] = rule.ID
		if rule.Kind == KindDrawAll && rule.Priority == 0 {
			hasFallback = true
		}
	}
	if !hasFallback {
		return fmt.Errorf("registry has no draw-all fallback at priority 0")
	}
	return nil
}

// Decide selects the hold decision for a five-card hand. A wrong card
// count is a contract violation from the caller, reported as an error. A
// registry with its fallback enabled always yields a decision.
func (r *Registry) Decide(cards []poker.Card) (Decision, error) {
	if len(cards) != 5 {
		return Decision{}, fmt.Errorf("decide requires exactly 5 cards, got %d", len(cards))
	}

	cls := poker.Classify(cards)
	for _, rule := range r.rules {
		if !rule.Enabled {
			continue
		}
		holds, ok := rule.match(cards, cls)
		if !ok {
			continue
		}
		return Decision{
			RuleID:        rule.ID,
			HoldPositions: holds,
			ExpectedValue: rule.TheoreticalEV,
			BustPotential: rule.BustRisk,
		}, nil
	}
	return Decision{}, fmt.Errorf("no enabled rule matched hand %v (fallback disabled?)", cards)
}

// SetEnabled toggles a rule's enabled flag, returning false if no rule has
// that ID. Only the balancing engine calls this, and only between batches.
func (r *Registry) SetEnabled(id string, enabled bool) bool {
	for i := range r.rules {
		if r.rules[i].ID == id {
			r.rules[i].Enabled = enabled
			return true
		}
	}
	return false
}

// Rule returns the rule with the given ID.
func (r *Registry) Rule(id string) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.ID == id {
			return rule, true
		}
	}
	return Rule{}, false
}

// Rules returns a copy of the rule table in priority order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Clone returns an independent copy of the registry. Each Monte Carlo
// worker gets its own clone so registry state is never shared across runs.
func (r *Registry) Clone() *Registry {
	return &Registry{rules: r.Rules()}
}
