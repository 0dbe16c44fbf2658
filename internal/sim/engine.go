package sim

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"tubedraw/internal/ledger"
	"tubedraw/internal/strategy"
	"tubedraw/internal/tube"
	"tubedraw/poker"
)

// Options carries the ambient collaborators for an engine. Zero values get
// sensible defaults: a discarding logger, the real clock, no sink.
type Options struct {
	Logger *log.Logger
	Clock  quartz.Clock
	Sink   Sink
}

// Engine plays one round at a time against a fixed configuration. It
// exclusively owns its registry stats, tube balances and ledger for the
// duration of a run; nothing here is safe for concurrent use, by design.
type Engine struct {
	cfg      Config
	rng      *rand.Rand
	registry *strategy.Registry
	book     *strategy.Book
	tubes    *tube.Set
	led      *ledger.Ledger
	payout   tube.Strategy
	logger   *log.Logger
	clock    quartz.Clock
	sink     Sink

	round   int
	history [][]ParticipantOutcome
}

// NewEngine builds an engine with fresh tube, ledger and stats state.
func NewEngine(cfg Config, rng *rand.Rand, registry *strategy.Registry, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registry: %w", err)
	}

	payout, err := tube.StrategyForName(cfg.PayoutStrategy)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	sink := opts.Sink
	if sink == nil {
		sink = NullSink{}
	}

	return &Engine{
		cfg:      cfg,
		rng:      rng,
		registry: registry,
		book:     strategy.NewBook(),
		tubes:    tube.NewSet(cfg.Tubes),
		led:      ledger.New(),
		payout:   payout,
		logger:   logger,
		clock:    clock,
		sink:     sink,
	}, nil
}

// Book exposes the run's per-rule statistics.
func (e *Engine) Book() *strategy.Book { return e.book }

// Tubes exposes the run's tube set.
func (e *Engine) Tubes() *tube.Set { return e.tubes }

// Ledger exposes the run's house ledger.
func (e *Engine) Ledger() *ledger.Ledger { return e.led }

// Registry exposes the rule registry this engine decides with.
func (e *Engine) Registry() *strategy.Registry { return e.registry }

// History returns the per-round outcome records accumulated so far.
func (e *Engine) History() [][]ParticipantOutcome { return e.history }

// Round returns the number of completed rounds.
func (e *Engine) Round() int { return e.round }

func (e *Engine) meta() meta {
	return meta{round: e.round, ts: e.clock.Now()}
}

func (e *Engine) emit(ev Event) {
	e.sink.OnEvent(ev)
}

// PlayRound plays and fully resolves one round: deal, hold decisions, draw,
// showdown, tube payouts, ledger update, refill pass. All decisions are
// computed before any shared state is touched, so a round either applies
// completely or not at all.
func (e *Engine) PlayRound() ([]ParticipantOutcome, error) {
	e.round++
	participants := e.cfg.Players + 1

	e.emit(RoundStartEvent{meta: e.meta(), Participants: participants})
	e.emit(AnteCollectedEvent{meta: e.meta(), PerParticipant: e.cfg.Ante, Total: participants * e.cfg.Ante})

	deck := poker.NewDeck(e.rng)

	// Deal a copied hand per seat; positions get replaced in the draw.
	hands := make(map[int][]poker.Card, participants)
	for seat := DealerSeat; seat <= e.cfg.Players; seat++ {
		hands[seat] = append([]poker.Card(nil), deck.Deal(5)...)
	}
	e.emit(CardsDealtEvent{meta: e.meta(), Hands: copyHands(hands)})

	// Hold decisions and draws. Players always follow the rule engine; the
	// dealer draws only when configured, gated by aggression.
	decisions := make(map[int]strategy.Decision, participants)
	for seat := 1; seat <= e.cfg.Players; seat++ {
		if err := e.applyDecision(seat, hands, decisions, deck); err != nil {
			return nil, err
		}
	}

	dealerDrew := false
	if e.cfg.DealerDraws && e.rng.Float64() < e.cfg.DealerAggression {
		before := deck.CardsRemaining()
		if err := e.applyDecision(DealerSeat, hands, decisions, deck); err != nil {
			return nil, err
		}
		dealerDrew = deck.CardsRemaining() < before
	}

	// Evaluate every final hand.
	classifications := make(map[int]poker.Classification, participants)
	ranks := make(map[int]poker.HandRank, participants)
	for seat, hand := range hands {
		cls := poker.Classify(hand)
		classifications[seat] = cls
		ranks[seat] = cls.Rank
	}
	e.emit(HandsEvaluatedEvent{meta: e.meta(), Ranks: ranks})

	dealerCls := classifications[DealerSeat]
	e.emit(ShowdownEvent{meta: e.meta(), DealerRank: dealerCls.Rank})

	// Resolve each player against the dealer. Tube drains happen here, in
	// seat order, so two qualifying wins against the same tube see it
	// sequentially drained.
	outcomes := make([]ParticipantOutcome, 0, e.cfg.Players)
	for seat := 1; seat <= e.cfg.Players; seat++ {
		out := e.resolveSeat(seat, decisions[seat], classifications[seat], dealerCls, dealerDrew)
		outcomes = append(outcomes, out)
	}

	// Fold the fully computed round into ledger and stats.
	entries := make([]ledger.Entry, 0, participants)
	entries = append(entries, ledger.Entry{Ante: e.cfg.Ante}) // dealer antes too
	for _, out := range outcomes {
		entries = append(entries, ledger.Entry{
			Ante:        out.Ante,
			Payout:      out.Payout,
			TubePayout:  out.TubePayout,
			BustPenalty: out.BustPenalty,
		})
		e.book.RecordOutcome(out.RuleID, out.Outcome, float64(out.Ante), float64(out.Payout+out.TubePayout), out.TubeHit)
	}
	e.led.ProcessRound(entries)
	e.history = append(e.history, outcomes)

	if e.cfg.RefillEnabled {
		for _, ev := range e.tubes.Refill(e.cfg.RefillAmount, e.cfg.AutoRefillThreshold) {
			if ev.Added > 0 {
				e.emit(TubeRefilledEvent{meta: e.meta(), Tube: ev.Type, Added: ev.Added, Balance: ev.Balance})
			}
			if ev.StackTrigger {
				e.emit(StackTriggerEvent{meta: e.meta(), Tube: ev.Type, Balance: ev.Balance})
			}
		}
	}

	houseNet := 0
	for _, entry := range entries {
		houseNet += entry.Ante + entry.BustPenalty - entry.Payout - entry.TubePayout
	}
	e.emit(RoundCompleteEvent{meta: e.meta(), HouseNet: houseNet})

	return outcomes, nil
}

// applyDecision asks the rule engine for a hold decision and replaces the
// unheld cards from the deck.
func (e *Engine) applyDecision(seat int, hands map[int][]poker.Card, decisions map[int]strategy.Decision, deck *poker.Deck) error {
	dec, err := e.registry.Decide(hands[seat])
	if err != nil {
		return fmt.Errorf("seat %d: %w", seat, err)
	}
	decisions[seat] = dec
	e.emit(HTDecidedEvent{meta: e.meta(), Seat: seat, RuleID: dec.RuleID, HoldPositions: dec.HoldPositions})

	held := make(map[int]bool, len(dec.HoldPositions))
	for _, pos := range dec.HoldPositions {
		held[pos] = true
	}
	drawn := 0
	for pos := 0; pos < 5; pos++ {
		if !held[pos] {
			hands[seat][pos] = deck.DealOne()
			drawn++
		}
	}
	if drawn > 0 {
		e.emit(CardsDrawnEvent{meta: e.meta(), Seat: seat, Drawn: drawn})
	}
	return nil
}

// resolveSeat turns one player's showdown comparison into a complete
// outcome record, draining tubes as a side effect of qualifying wins.
func (e *Engine) resolveSeat(seat int, dec strategy.Decision, cls, dealerCls poker.Classification, dealerDrew bool) ParticipantOutcome {
	out := ParticipantOutcome{
		Seat:     seat,
		RuleID:   dec.RuleID,
		HandRank: cls.Rank,
		Ante:     e.cfg.Ante,
		TubeHit:  tube.None,
	}

	cmp := poker.Compare(cls, dealerCls)
	switch {
	case cmp > 0:
		tt, qualifies := tube.ForRank(cls.Rank)
		if !qualifies {
			out.Outcome = strategy.OutcomeWin
			out.Payout = 2 * e.cfg.Ante
			return out
		}

		// A near-full tube pays a house bonus on top of the win. Checked
		// against the pre-drain balance.
		bonus := 0
		if tb := e.tubes.Get(tt); tb.Max > 0 &&
			float64(tb.Current)/float64(tb.Max) >= e.cfg.BonusPayoutThreshold {
			bonus = e.cfg.Ante
		}

		res := e.tubes.Pay(tt, e.payout)
		if res.TriggersBust && e.cfg.BustOnEmptyTube {
			out.Outcome = strategy.OutcomeBust
			out.BustPenalty = int(float64(e.cfg.Ante) * e.cfg.BustPenaltyMultiplier)
			e.emit(BustTriggeredEvent{meta: e.meta(), Seat: seat, Tube: tt, Penalty: out.BustPenalty})
			return out
		}

		out.Outcome = strategy.OutcomeWin
		out.Payout = 2*e.cfg.Ante + bonus
		out.TubePayout = res.Payout
		if res.Payout > 0 {
			out.TubeHit = tt
			e.emit(TubeDrainedEvent{meta: e.meta(), Seat: seat, Tube: tt, Amount: res.Payout, Balance: res.NewBalance})
		}
		return out

	case cmp == 0:
		if dealerDrew && e.cfg.DealerWinsTiesOnDraw {
			out.Outcome = strategy.OutcomeLose
			return out
		}
		// Ante refund, recorded as a payout in the ledger and as a win in
		// the rule stats. The layers disagree on purpose.
		out.Outcome = strategy.OutcomeTie
		out.Payout = e.cfg.Ante
		return out

	default:
		out.Outcome = strategy.OutcomeLose
		return out
	}
}

func copyHands(hands map[int][]poker.Card) map[int][]poker.Card {
	out := make(map[int][]poker.Card, len(hands))
	for seat, cards := range hands {
		out[seat] = append([]poker.Card(nil), cards...)
	}
	return out
}
