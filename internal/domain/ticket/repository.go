package ticket

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	vo "github.com/orris-inc/ticketflow/internal/domain/ticket/valueobjects"
)

// TicketRepository persists tickets with their flow items. Lookups of unknown
// sids return (nil, nil).
type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	// Update writes t only if the stored version is t.Version()-1 and returns
	// ErrVersionConflict otherwise.
	Update(ctx context.Context, t *Ticket) error
	GetBySID(ctx context.Context, sid string) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
	// LatestAnswer returns the answer to fieldKey from the most recently
	// finished form item of the requester's tickets on schemaSID. An empty
	// stepSID matches any step.
	LatestAnswer(ctx context.Context, requesterID, schemaSID, stepSID, fieldKey string) (form.Value, bool, error)
}

type TicketFilter struct {
	SchemaSID *string
	Status    *vo.TicketStatus
	// ParticipantID matches tickets the user requested or holds an item of.
	// ParticipantRoleIDs widens it to items bound to one of these roles.
	ParticipantID      *string
	ParticipantRoleIDs []string
	Page               int
	PageSize           int
}

// EventRepository stores the append-only flow history.
type EventRepository interface {
	Append(ctx context.Context, events []FlowEvent) error
	ListByTicket(ctx context.Context, ticketSID string) ([]FlowEvent, error)
}

// SubmissionRepository records applied idempotency keys per ticket.
type SubmissionRepository interface {
	// Record stores key for ticketSID and returns ErrDuplicateSubmission when
	// it was recorded before.
	Record(ctx context.Context, ticketSID, key string) error
	Exists(ctx context.Context, ticketSID, key string) (bool, error)
}
