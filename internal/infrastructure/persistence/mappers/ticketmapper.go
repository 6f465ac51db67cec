package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	vo "github.com/orris-inc/ticketflow/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
)

// flowValueRecord is the stored JSON shape of a flow item value.
type flowValueRecord struct {
	Kind     string       `json:"kind"`
	Answers  form.Answers `json:"answers,omitempty"`
	Approved bool         `json:"approved,omitempty"`
	Comment  string       `json:"comment,omitempty"`
}

type TicketMapper interface {
	ToDomain(model *models.TicketModel, items []models.FlowItemModel) (*ticket.Ticket, error)
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToItemModels(ticketID uint, t *ticket.Ticket) ([]*models.FlowItemModel, error)
	ToEventModels(events []ticket.FlowEvent) ([]*models.FlowEventModel, error)
	ToEvent(model *models.FlowEventModel) (ticket.FlowEvent, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel, itemModels []models.FlowItemModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}

	items := make([]*ticket.FlowItem, len(itemModels))
	for i := range itemModels {
		item, err := m.toItem(&itemModels[i])
		if err != nil {
			return nil, err
		}
		items[i] = item
	}

	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", model.SID, err)
	}

	t, err := ticket.ReconstructTicket(ticket.TicketReconstructParams{
		ID:          model.ID,
		SID:         model.SID,
		SchemaSID:   model.SchemaSID,
		RequesterID: model.RequesterID,
		Title:       model.Title,
		Status:      status,
		Version:     model.Version,
		Items:       items,
		CreatedAt:   fromMillis(model.CreatedAt),
		UpdatedAt:   fromMillis(model.UpdatedAt),
		FinishedAt:  fromMillisPtr(model.FinishedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct ticket entity: %w", err)
	}
	return t, nil
}

func (m *TicketMapperImpl) toItem(model *models.FlowItemModel) (*ticket.FlowItem, error) {
	value, err := DecodeFlowValue(model.Value)
	if err != nil {
		return nil, fmt.Errorf("flow item %s: %w", model.SID, err)
	}
	return ticket.ReconstructFlowItem(ticket.FlowItemReconstructParams{
		ID:        model.ID,
		SID:       model.SID,
		StepSID:   model.StepSID,
		StepOrder: model.StepOrder,
		UserID:    model.UserID,
		RoleID:    model.RoleID,
		Finished:  model.Finished,
		Value:     value,
		CreatedAt: fromMillis(model.CreatedAt),
		UpdatedAt: fromMillis(model.UpdatedAt),
	})
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:          t.ID(),
		SID:         t.SID(),
		SchemaSID:   t.SchemaSID(),
		RequesterID: t.RequesterID(),
		Title:       t.Title(),
		Status:      t.Status().String(),
		Finished:    t.IsFinished(),
		Version:     t.Version(),
		CreatedAt:   toMillis(t.CreatedAt()),
		UpdatedAt:   toMillis(t.UpdatedAt()),
		FinishedAt:  toMillisPtr(t.FinishedAt()),
	}
}

func (m *TicketMapperImpl) ToItemModels(ticketID uint, t *ticket.Ticket) ([]*models.FlowItemModel, error) {
	items := t.Items()
	out := make([]*models.FlowItemModel, len(items))
	for i, item := range items {
		value, err := EncodeFlowValue(item.Value())
		if err != nil {
			return nil, fmt.Errorf("flow item %s: %w", item.SID(), err)
		}
		out[i] = &models.FlowItemModel{
			ID:        item.ID(),
			SID:       item.SID(),
			TicketID:  ticketID,
			StepSID:   item.StepSID(),
			StepOrder: item.StepOrder(),
			UserID:    item.UserID(),
			RoleID:    item.RoleID(),
			Finished:  item.IsFinished(),
			Value:     value,
			CreatedAt: toMillis(item.CreatedAt()),
			UpdatedAt: toMillis(item.UpdatedAt()),
		}
	}
	return out, nil
}

func (m *TicketMapperImpl) ToEventModels(events []ticket.FlowEvent) ([]*models.FlowEventModel, error) {
	out := make([]*models.FlowEventModel, len(events))
	for i, e := range events {
		payload, err := EncodeFlowValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("flow event %s: %w", e.Kind, err)
		}
		out[i] = &models.FlowEventModel{
			TicketSID:   e.TicketSID,
			FlowItemSID: e.ItemSID,
			StepSID:     e.StepSID,
			ActorID:     e.ActorID,
			Kind:        string(e.Kind),
			Comment:     e.Comment,
			Payload:     payload,
			CreatedAt:   toMillis(e.OccurredAt),
		}
	}
	return out, nil
}

func (m *TicketMapperImpl) ToEvent(model *models.FlowEventModel) (ticket.FlowEvent, error) {
	value, err := DecodeFlowValue(model.Payload)
	if err != nil {
		return ticket.FlowEvent{}, fmt.Errorf("flow event %d: %w", model.ID, err)
	}
	return ticket.FlowEvent{
		ID:         model.ID,
		TicketSID:  model.TicketSID,
		ItemSID:    model.FlowItemSID,
		StepSID:    model.StepSID,
		ActorID:    model.ActorID,
		Kind:       ticket.EventKind(model.Kind),
		Comment:    model.Comment,
		Value:      value,
		OccurredAt: fromMillis(model.CreatedAt),
	}, nil
}

// EncodeFlowValue stores nil as SQL NULL.
func EncodeFlowValue(v ticket.FlowValue) (datatypes.JSON, error) {
	var rec flowValueRecord
	switch val := v.(type) {
	case nil:
		return nil, nil
	case ticket.FormValue:
		rec = flowValueRecord{Kind: string(ticket.ValueForm), Answers: val.Answers}
	case ticket.ReviewValue:
		rec = flowValueRecord{Kind: string(ticket.ValueReview), Approved: val.Approved, Comment: val.Comment}
	default:
		return nil, fmt.Errorf("unsupported flow value %T", v)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func DecodeFlowValue(data datatypes.JSON) (ticket.FlowValue, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var rec flowValueRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode flow value: %w", err)
	}
	switch ticket.ValueKind(rec.Kind) {
	case ticket.ValueForm:
		answers := rec.Answers
		if answers == nil {
			answers = form.Answers{}
		}
		return ticket.FormValue{Answers: answers}, nil
	case ticket.ValueReview:
		return ticket.ReviewValue{Approved: rec.Approved, Comment: rec.Comment}, nil
	}
	return nil, fmt.Errorf("unknown flow value kind %q", rec.Kind)
}
