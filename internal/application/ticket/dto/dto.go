package dto

import (
	"time"

	schemadto "github.com/orris-inc/ticketflow/internal/application/schema/dto"
	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
)

type TicketDTO struct {
	ID          string          `json:"id"`
	SchemaID    string          `json:"schema_id"`
	RequesterID string          `json:"requester_id"`
	Title       string          `json:"title"`
	Status      string          `json:"status"`
	Version     int             `json:"version"`
	Flows       []FlowItemDTO   `json:"flows"`
	CurrentFlow *CurrentFlowDTO `json:"current_flow,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
}

type FlowItemDTO struct {
	ID       string        `json:"id"`
	FlowID   string        `json:"flow_id"`
	Order    int           `json:"order"`
	UserID   string        `json:"user_id,omitempty"`
	RoleID   string        `json:"role_id,omitempty"`
	Finished bool          `json:"finished"`
	Value    *FlowValueDTO `json:"value,omitempty"`
}

type FlowValueDTO struct {
	Kind     string       `json:"kind"`
	Answers  form.Answers `json:"answers,omitempty"`
	Approved *bool        `json:"approved,omitempty"`
	Comment  string       `json:"comment,omitempty"`
}

// CurrentFlowDTO describes the step waiting for an actor. Prefill and
// VisibleFields are only set for form steps.
type CurrentFlowDTO struct {
	Flow          schemadto.FlowStepDTO `json:"flow"`
	ItemID        string                `json:"item_id"`
	Prefill       form.Answers          `json:"prefill,omitempty"`
	VisibleFields []string              `json:"visible_fields,omitempty"`
	CanOperate    bool                  `json:"can_operate"`
}

type TicketListItemDTO struct {
	ID            string    `json:"id"`
	SchemaID      string    `json:"schema_id"`
	RequesterID   string    `json:"requester_id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	CurrentFlowID string    `json:"current_flow_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type FlowEventDTO struct {
	Kind       string        `json:"kind"`
	ItemID     string        `json:"item_id,omitempty"`
	FlowID     string        `json:"flow_id,omitempty"`
	ActorID    string        `json:"actor_id"`
	Comment    string        `json:"comment,omitempty"`
	Value      *FlowValueDTO `json:"value,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}

	items := t.Items()
	flows := make([]FlowItemDTO, len(items))
	for i, item := range items {
		flows[i] = ToFlowItemDTO(item)
	}

	return &TicketDTO{
		ID:          t.SID(),
		SchemaID:    t.SchemaSID(),
		RequesterID: t.RequesterID(),
		Title:       t.Title(),
		Status:      t.Status().String(),
		Version:     t.Version(),
		Flows:       flows,
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
		FinishedAt:  t.FinishedAt(),
	}
}

func ToFlowItemDTO(item *ticket.FlowItem) FlowItemDTO {
	return FlowItemDTO{
		ID:       item.SID(),
		FlowID:   item.StepSID(),
		Order:    item.StepOrder(),
		UserID:   item.UserID(),
		RoleID:   item.RoleID(),
		Finished: item.IsFinished(),
		Value:    ToFlowValueDTO(item.Value()),
	}
}

func ToFlowValueDTO(v ticket.FlowValue) *FlowValueDTO {
	switch val := v.(type) {
	case ticket.FormValue:
		return &FlowValueDTO{Kind: string(val.Kind()), Answers: val.Answers}
	case ticket.ReviewValue:
		approved := val.Approved
		return &FlowValueDTO{Kind: string(val.Kind()), Approved: &approved, Comment: val.Comment}
	}
	return nil
}

func ToTicketListItemDTO(t *ticket.Ticket) TicketListItemDTO {
	out := TicketListItemDTO{
		ID:          t.SID(),
		SchemaID:    t.SchemaSID(),
		RequesterID: t.RequesterID(),
		Title:       t.Title(),
		Status:      t.Status().String(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
	if item := t.CurrentItem(); item != nil {
		out.CurrentFlowID = item.StepSID()
	}
	return out
}

func ToFlowEventDTO(e ticket.FlowEvent) FlowEventDTO {
	return FlowEventDTO{
		Kind:       string(e.Kind),
		ItemID:     e.ItemSID,
		FlowID:     e.StepSID,
		ActorID:    e.ActorID,
		Comment:    e.Comment,
		Value:      ToFlowValueDTO(e.Value),
		OccurredAt: e.OccurredAt,
	}
}
