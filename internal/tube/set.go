package tube

// Params configures a single tube's starting and maximum balance.
type Params struct {
	Initial int
	Max     int
}

// RefillEvent records the result of the end-of-round refill pass for one
// tube. StackTrigger is informational for the balancing engine and the
// surrounding display; it does not itself change any balance.
type RefillEvent struct {
	Type         Type
	Added        int
	Balance      int
	StackTrigger bool
}

// Set owns the live balances of all five tubes for one simulation run,
// along with funding/drain counters the metrics layer reads back out.
type Set struct {
	tubes [5]Tube

	totalFunded [5]int
	totalPaid   [5]int
	depletions  [5]int
	emptyHits   [5]int
}

// NewSet creates a tube set with every tube at its initial balance.
func NewSet(params map[Type]Params) *Set {
	s := &Set{}
	for _, t := range Types() {
		p := params[t]
		s.tubes[t] = Tube{Current: p.Initial, Initial: p.Initial, Max: p.Max}
		s.totalFunded[t] = p.Initial
	}
	return s
}

// Get returns a copy of the tube's state.
func (s *Set) Get(t Type) Tube {
	return s.tubes[t]
}

// Pay runs the payout contract against the tube and applies the resulting
// balance change. The returned Result is exactly what the pure Payout
// function computed.
func (s *Set) Pay(t Type, strat Strategy) Result {
	tb := s.tubes[t]
	res := Payout(tb.Current, tb.Initial, tb.Max, strat)
	if res.WasEmpty {
		s.emptyHits[t]++
		return res
	}
	s.tubes[t].Current = res.NewBalance
	s.totalPaid[t] += res.Payout
	if res.NewBalance == 0 {
		s.depletions[t]++
	}
	return res
}

// SetInitial rebases a tube's initial balance. Used by the balancing engine
// between batches; the live balance is clamped into the (possibly larger)
// range but otherwise untouched.
func (s *Set) SetInitial(t Type, initial int) {
	s.tubes[t].Initial = initial
	if s.tubes[t].Max < initial {
		s.tubes[t].Max = initial
	}
}

// Refill runs the end-of-round refill pass: every tube below its maximum
// gains the fixed refill amount, clamped to the maximum. The stack-trigger
// flag is set whenever the post-refill balance sits at or below the
// auto-refill threshold, whether or not anything was added.
func (s *Set) Refill(amount, autoRefillThreshold int) []RefillEvent {
	events := make([]RefillEvent, 0, 5)
	for _, t := range Types() {
		tb := &s.tubes[t]
		added := 0
		if tb.Current < tb.Max && amount > 0 {
			added = amount
			if tb.Current+added > tb.Max {
				added = tb.Max - tb.Current
			}
			tb.Current += added
			s.totalFunded[t] += added
		}
		events = append(events, RefillEvent{
			Type:         t,
			Added:        added,
			Balance:      tb.Current,
			StackTrigger: tb.Current <= autoRefillThreshold,
		})
	}
	return events
}

// TotalFunded returns the cumulative credits put into the tube: its initial
// balance plus every refill.
func (s *Set) TotalFunded(t Type) int { return s.totalFunded[t] }

// TotalPaid returns the cumulative credits drained from the tube by wins.
func (s *Set) TotalPaid(t Type) int { return s.totalPaid[t] }

// Depletions counts how often a payout drove the tube to exactly zero.
func (s *Set) Depletions(t Type) int { return s.depletions[t] }

// EmptyHits counts qualifying wins that found the tube already empty and
// were redirected into bust events.
func (s *Set) EmptyHits(t Type) int { return s.emptyHits[t] }

// DrainRate is paid/funded for the tube, 0 when nothing was funded.
func (s *Set) DrainRate(t Type) float64 {
	if s.totalFunded[t] == 0 {
		return 0
	}
	return float64(s.totalPaid[t]) / float64(s.totalFunded[t])
}
