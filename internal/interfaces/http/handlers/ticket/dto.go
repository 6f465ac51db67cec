package ticket

import (
	"github.com/orris-inc/ticketflow/internal/application/ticket/dto"
	"github.com/orris-inc/ticketflow/internal/application/ticket/usecases"
	"github.com/orris-inc/ticketflow/internal/domain/form"
)

type CreateTicketRequest struct {
	Title string `json:"title" binding:"max=200"`
	// AssignFlowUsers picks the operator for role or user flows, keyed by flow id.
	AssignFlowUsers map[string]string `json:"assign_flow_users,omitempty"`
}

func (r *CreateTicketRequest) ToCommand(schemaSID, requesterID string) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		SchemaSID:       schemaSID,
		RequesterID:     requesterID,
		Title:           r.Title,
		AssignFlowUsers: r.AssignFlowUsers,
	}
}

// ProcessTicketRequest carries either form answers or a review decision.
type ProcessTicketRequest struct {
	Form   form.Answers   `json:"form,omitempty"`
	Review *ReviewRequest `json:"review,omitempty"`
}

type ReviewRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Comment  string `json:"comment" binding:"max=2000"`
}

func (r *ProcessTicketRequest) ToCommand(ticketSID, actorID, idempotencyKey string) usecases.ProcessTicketCommand {
	cmd := usecases.ProcessTicketCommand{
		TicketSID:      ticketSID,
		ActorID:        actorID,
		IdempotencyKey: idempotencyKey,
		Form:           r.Form,
	}
	if r.Review != nil {
		cmd.Review = &usecases.ReviewInput{
			Approved: *r.Review.Approved,
			Comment:  r.Review.Comment,
		}
	}
	return cmd
}

type ProcessTicketResponse struct {
	Ticket   *dto.TicketDTO `json:"ticket"`
	Outcome  string         `json:"outcome"`
	Replayed bool           `json:"replayed"`
}

func toProcessTicketResponse(r *usecases.ProcessTicketResult) ProcessTicketResponse {
	return ProcessTicketResponse{
		Ticket:   r.Ticket,
		Outcome:  r.Outcome,
		Replayed: r.Replayed,
	}
}
