package ticket

import (
	"time"
)

// EventKind classifies a flow history entry.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventSubmitted EventKind = "submitted"
	EventApproved  EventKind = "approved"
	EventRejected  EventKind = "rejected"
	EventRestarted EventKind = "restarted"
	EventFinished  EventKind = "finished"
)

// FlowEvent is an append-only history entry of a ticket. Review comments are
// kept here across resubmissions while the item value holds the latest one.
type FlowEvent struct {
	ID         uint
	TicketSID  string
	ItemSID    string
	StepSID    string
	ActorID    string
	Kind       EventKind
	Comment    string
	Value      FlowValue
	OccurredAt time.Time
}

func NewFlowEvent(
	ticketSID string,
	item *FlowItem,
	actorID string,
	kind EventKind,
	comment string,
	value FlowValue,
	occurredAt time.Time,
) FlowEvent {
	e := FlowEvent{
		TicketSID:  ticketSID,
		ActorID:    actorID,
		Kind:       kind,
		Comment:    comment,
		Value:      value,
		OccurredAt: occurredAt,
	}
	if item != nil {
		e.ItemSID = item.sid
		e.StepSID = item.stepSID
	}
	return e
}
