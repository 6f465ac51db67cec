package dto

import (
	"fmt"
	"time"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/user"
)

// SchemaDraftRequest is the publish payload shared by the HTTP API and the
// CLI draft files.
type SchemaDraftRequest struct {
	TitleZh       string             `json:"title_zh" binding:"max=200"`
	TitleEn       string             `json:"title_en" binding:"max=200"`
	DescriptionZh string             `json:"description_zh"`
	DescriptionEn string             `json:"description_en"`
	Flows         []FlowDraftRequest `json:"flows" binding:"required,min=1,dive"`
}

// FlowDraftRequest is one step of a draft. Ref names the step for dynamic
// defaults of later steps in the same draft.
type FlowDraftRequest struct {
	Ref      string          `json:"ref,omitempty"`
	Order    *int            `json:"order,omitempty"`
	Operator OperatorRequest `json:"operator"`
	Form     *form.Form      `json:"form,omitempty"`
	Review   *ReviewRequest  `json:"review,omitempty"`
}

type OperatorRequest struct {
	Kind string `json:"kind" binding:"omitempty,oneof=none user role"`
	ID   string `json:"id,omitempty"`
}

type ReviewRequest struct {
	Restarted bool `json:"restarted"`
}

// ToDraft converts the request into a domain draft.
func (r SchemaDraftRequest) ToDraft() (schema.Draft, error) {
	steps := make([]schema.StepDraft, len(r.Flows))
	for i, f := range r.Flows {
		op, err := schema.NewOperator(schema.OperatorKind(f.Operator.Kind), f.Operator.ID)
		if err != nil {
			return schema.Draft{}, fmt.Errorf("flow %d: %w", i, err)
		}
		steps[i] = schema.StepDraft{
			Ref:      f.Ref,
			Order:    f.Order,
			Operator: op,
			Form:     f.Form,
		}
		if f.Review != nil {
			steps[i].Review = &schema.ReviewModule{Restarted: f.Review.Restarted}
		}
	}
	return schema.Draft{
		TitleZh:       r.TitleZh,
		TitleEn:       r.TitleEn,
		DescriptionZh: r.DescriptionZh,
		DescriptionEn: r.DescriptionEn,
		Steps:         steps,
	}, nil
}

type SchemaDTO struct {
	ID            string        `json:"id"`
	TitleZh       string        `json:"title_zh"`
	TitleEn       string        `json:"title_en"`
	DescriptionZh string        `json:"description_zh"`
	DescriptionEn string        `json:"description_en"`
	Flows         []FlowStepDTO `json:"flows"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type SchemaListItemDTO struct {
	ID        string    `json:"id"`
	TitleZh   string    `json:"title_zh"`
	TitleEn   string    `json:"title_en"`
	FlowCount int       `json:"flow_count"`
	CreatedAt time.Time `json:"created_at"`
}

type FlowStepDTO struct {
	ID       string      `json:"id"`
	Order    int         `json:"order"`
	Operator OperatorDTO `json:"operator"`
	Module   string      `json:"module"`
	Form     *form.Form  `json:"form,omitempty"`
	Review   *ReviewDTO  `json:"review,omitempty"`
}

type OperatorDTO struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`
}

type ReviewDTO struct {
	Restarted bool `json:"restarted"`
}

// AssigneeDTO is a user that may be picked for a flow.
type AssigneeDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProbableAssigneesDTO struct {
	FlowID string        `json:"flow_id"`
	RoleID string        `json:"role_id,omitempty"`
	Users  []AssigneeDTO `json:"users"`
}

func ToSchemaDTO(s *schema.TicketSchema) *SchemaDTO {
	if s == nil {
		return nil
	}

	steps := s.Steps()
	flows := make([]FlowStepDTO, len(steps))
	for i, step := range steps {
		flows[i] = ToFlowStepDTO(step)
	}

	return &SchemaDTO{
		ID:            s.SID(),
		TitleZh:       s.TitleZh(),
		TitleEn:       s.TitleEn(),
		DescriptionZh: s.DescriptionZh(),
		DescriptionEn: s.DescriptionEn(),
		Flows:         flows,
		CreatedAt:     s.CreatedAt(),
		UpdatedAt:     s.UpdatedAt(),
	}
}

func ToFlowStepDTO(step *schema.FlowStep) FlowStepDTO {
	out := FlowStepDTO{
		ID:    step.SID(),
		Order: step.Order(),
		Operator: OperatorDTO{
			Kind: string(step.Operator().Kind()),
			ID:   step.Operator().Ref(),
		},
		Module: string(step.Module().Kind()),
		Form:   step.Form(),
	}
	if review, ok := step.Review(); ok {
		out.Review = &ReviewDTO{Restarted: review.Restarted}
	}
	return out
}

func ToSchemaListItemDTO(s *schema.TicketSchema) SchemaListItemDTO {
	return SchemaListItemDTO{
		ID:        s.SID(),
		TitleZh:   s.TitleZh(),
		TitleEn:   s.TitleEn(),
		FlowCount: s.StepCount(),
		CreatedAt: s.CreatedAt(),
	}
}

func ToAssigneeDTO(u *user.User) AssigneeDTO {
	return AssigneeDTO{
		ID:    u.SID(),
		Name:  u.Name(),
		Email: u.Email().String(),
	}
}
