package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
)

// stepRecord is the stored JSON shape of one flow step.
type stepRecord struct {
	SID       string         `json:"sid"`
	Order     int            `json:"order"`
	Operator  operatorRecord `json:"operator"`
	Module    string         `json:"module"`
	Form      *form.Form     `json:"form,omitempty"`
	Restarted bool           `json:"restarted,omitempty"`
}

type operatorRecord struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref,omitempty"`
}

// SchemaMapper converts between ticket schemas and their persistence model.
type SchemaMapper interface {
	ToEntity(model *models.TicketSchemaModel) (*schema.TicketSchema, error)
	ToModel(entity *schema.TicketSchema) (*models.TicketSchemaModel, error)
}

type SchemaMapperImpl struct{}

func NewSchemaMapper() SchemaMapper {
	return &SchemaMapperImpl{}
}

func (m *SchemaMapperImpl) ToEntity(model *models.TicketSchemaModel) (*schema.TicketSchema, error) {
	if model == nil {
		return nil, nil
	}

	var records []stepRecord
	if err := json.Unmarshal(model.Steps, &records); err != nil {
		return nil, fmt.Errorf("failed to decode steps of schema %s: %w", model.SID, err)
	}

	steps := make([]*schema.FlowStep, len(records))
	for i, rec := range records {
		op, err := schema.NewOperator(schema.OperatorKind(rec.Operator.Kind), rec.Operator.Ref)
		if err != nil {
			return nil, fmt.Errorf("schema %s step %s: %w", model.SID, rec.SID, err)
		}

		var module schema.Module
		switch schema.ModuleKind(rec.Module) {
		case schema.ModuleForm:
			if rec.Form == nil {
				return nil, fmt.Errorf("schema %s step %s: form module without form", model.SID, rec.SID)
			}
			module = schema.FormModule{Form: rec.Form}
		case schema.ModuleReview:
			module = schema.ReviewModule{Restarted: rec.Restarted}
		default:
			return nil, fmt.Errorf("schema %s step %s: unknown module %q", model.SID, rec.SID, rec.Module)
		}

		step, err := schema.ReconstructFlowStep(rec.SID, rec.Order, op, module)
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct step %s: %w", rec.SID, err)
		}
		steps[i] = step
	}

	s, err := schema.ReconstructTicketSchema(schema.TicketSchemaReconstructParams{
		ID:            model.ID,
		SID:           model.SID,
		TitleZh:       model.TitleZh,
		TitleEn:       model.TitleEn,
		DescriptionZh: model.DescriptionZh,
		DescriptionEn: model.DescriptionEn,
		Steps:         steps,
		CreatedAt:     fromMillis(model.CreatedAt),
		UpdatedAt:     fromMillis(model.UpdatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct schema entity: %w", err)
	}
	return s, nil
}

func (m *SchemaMapperImpl) ToModel(entity *schema.TicketSchema) (*models.TicketSchemaModel, error) {
	if entity == nil {
		return nil, nil
	}

	steps := entity.Steps()
	records := make([]stepRecord, len(steps))
	for i, step := range steps {
		rec := stepRecord{
			SID:   step.SID(),
			Order: step.Order(),
			Operator: operatorRecord{
				Kind: string(step.Operator().Kind()),
				Ref:  step.Operator().Ref(),
			},
			Module: string(step.Module().Kind()),
			Form:   step.Form(),
		}
		if review, ok := step.Review(); ok {
			rec.Restarted = review.Restarted
		}
		records[i] = rec
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode steps of schema %s: %w", entity.SID(), err)
	}

	first := entity.FirstStep().Operator()
	return &models.TicketSchemaModel{
		ID:                entity.ID(),
		SID:               entity.SID(),
		TitleZh:           entity.TitleZh(),
		TitleEn:           entity.TitleEn(),
		DescriptionZh:     entity.DescriptionZh(),
		DescriptionEn:     entity.DescriptionEn(),
		Steps:             data,
		FirstOperatorKind: string(first.Kind()),
		FirstOperatorRef:  first.Ref(),
		CreatedAt:         toMillis(entity.CreatedAt()),
		UpdatedAt:         toMillis(entity.UpdatedAt()),
	}, nil
}
