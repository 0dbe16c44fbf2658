package sim

import (
	"time"

	"tubedraw/internal/tube"
	"tubedraw/poker"
)

// EventType identifies a simulation event.
type EventType string

const (
	EventRoundStart     EventType = "round_start"
	EventAnteCollected  EventType = "ante_collected"
	EventCardsDealt     EventType = "cards_dealt"
	EventHTDecided      EventType = "ht_decided"
	EventCardsDrawn     EventType = "cards_drawn"
	EventHandsEvaluated EventType = "hands_evaluated"
	EventShowdown       EventType = "showdown"
	EventTubeDrained    EventType = "tube_drained"
	EventTubeRefilled   EventType = "tube_refilled"
	EventBustTriggered  EventType = "bust_triggered"
	EventStackTrigger   EventType = "stack_trigger"
	EventRoundComplete  EventType = "round_complete"
)

// String returns the string representation of the event type.
func (et EventType) String() string { return string(et) }

// Event is a pure notification emitted by the engine. Sinks observe; they
// must not mutate engine state synchronously.
type Event interface {
	EventType() EventType
	Round() int
	Timestamp() time.Time
}

// meta carries the fields every event shares.
type meta struct {
	round int
	ts    time.Time
}

func (m meta) Round() int           { return m.round }
func (m meta) Timestamp() time.Time { return m.ts }

// RoundStartEvent opens a round.
type RoundStartEvent struct {
	meta
	Participants int
}

func (RoundStartEvent) EventType() EventType { return EventRoundStart }

// AnteCollectedEvent reports the round's total ante intake.
type AnteCollectedEvent struct {
	meta
	PerParticipant int
	Total          int
}

func (AnteCollectedEvent) EventType() EventType { return EventAnteCollected }

// CardsDealtEvent reports the initial five-card deals by seat.
type CardsDealtEvent struct {
	meta
	Hands map[int][]poker.Card
}

func (CardsDealtEvent) EventType() EventType { return EventCardsDealt }

// HTDecidedEvent reports one participant's hold decision.
type HTDecidedEvent struct {
	meta
	Seat          int
	RuleID        string
	HoldPositions []int
}

func (HTDecidedEvent) EventType() EventType { return EventHTDecided }

// CardsDrawnEvent reports replacement cards taken by a seat.
type CardsDrawnEvent struct {
	meta
	Seat  int
	Drawn int
}

func (CardsDrawnEvent) EventType() EventType { return EventCardsDrawn }

// HandsEvaluatedEvent reports the final hand rank per seat.
type HandsEvaluatedEvent struct {
	meta
	Ranks map[int]poker.HandRank
}

func (HandsEvaluatedEvent) EventType() EventType { return EventHandsEvaluated }

// ShowdownEvent marks resolution against the dealer hand.
type ShowdownEvent struct {
	meta
	DealerRank poker.HandRank
}

func (ShowdownEvent) EventType() EventType { return EventShowdown }

// TubeDrainedEvent reports a tube payout.
type TubeDrainedEvent struct {
	meta
	Seat    int
	Tube    tube.Type
	Amount  int
	Balance int
}

func (TubeDrainedEvent) EventType() EventType { return EventTubeDrained }

// TubeRefilledEvent reports an end-of-round refill for one tube.
type TubeRefilledEvent struct {
	meta
	Tube    tube.Type
	Added   int
	Balance int
}

func (TubeRefilledEvent) EventType() EventType { return EventTubeRefilled }

// BustTriggeredEvent reports a win converted into a bust by an empty tube.
type BustTriggeredEvent struct {
	meta
	Seat    int
	Tube    tube.Type
	Penalty int
}

func (BustTriggeredEvent) EventType() EventType { return EventBustTriggered }

// StackTriggerEvent flags a tube at or below its auto-refill threshold.
// Informational only.
type StackTriggerEvent struct {
	meta
	Tube    tube.Type
	Balance int
}

func (StackTriggerEvent) EventType() EventType { return EventStackTrigger }

// RoundCompleteEvent closes a round with the house's net for it.
type RoundCompleteEvent struct {
	meta
	HouseNet int
}

func (RoundCompleteEvent) EventType() EventType { return EventRoundComplete }

// Sink receives events from the engine.
type Sink interface {
	OnEvent(Event)
}

// NullSink discards everything.
type NullSink struct{}

func (NullSink) OnEvent(Event) {}

// CollectorSink retains events in order, for tests and hosts that want the
// full round transcript.
type CollectorSink struct {
	Events []Event
}

func (c *CollectorSink) OnEvent(e Event) {
	c.Events = append(c.Events, e)
}

// OfType returns the collected events of one type, in emission order.
func (c *CollectorSink) OfType(t EventType) []Event {
	var out []Event
	for _, e := range c.Events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}
