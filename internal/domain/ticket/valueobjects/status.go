package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusPending    TicketStatus = "pending"
	StatusInProgress TicketStatus = "in_progress"
	StatusFinished   TicketStatus = "finished"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusFinished:   true,
}

// A single step schema goes straight from pending to finished. A restart goes
// back from in_progress to pending. Finished is terminal.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusPending: {
		StatusInProgress,
		StatusFinished,
	},
	StatusInProgress: {
		StatusInProgress,
		StatusPending,
		StatusFinished,
	},
	StatusFinished: {},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	allowedTransitions, ok := ticketStatusTransitions[ts]
	if !ok {
		return false
	}

	for _, allowed := range allowedTransitions {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

func (ts TicketStatus) IsPending() bool {
	return ts == StatusPending
}

func (ts TicketStatus) IsInProgress() bool {
	return ts == StatusInProgress
}

func (ts TicketStatus) IsFinished() bool {
	return ts == StatusFinished
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
