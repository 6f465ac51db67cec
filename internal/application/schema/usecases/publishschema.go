package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/orris-inc/ticketflow/internal/application/schema/dto"
	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/user"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type PublishSchemaCommand struct {
	Draft       dto.SchemaDraftRequest
	PublisherID string
}

type PublishSchemaUseCase struct {
	schemaRepo schema.Repository
	userRepo   user.Repository
	roleRepo   permission.RoleRepository
	logger     logger.Interface
}

func NewPublishSchemaUseCase(
	schemaRepo schema.Repository,
	userRepo user.Repository,
	roleRepo permission.RoleRepository,
	logger logger.Interface,
) *PublishSchemaUseCase {
	return &PublishSchemaUseCase{
		schemaRepo: schemaRepo,
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		logger:     logger,
	}
}

func (uc *PublishSchemaUseCase) Execute(ctx context.Context, cmd PublishSchemaCommand) (*dto.SchemaDTO, error) {
	uc.logger.Infow("executing publish schema use case", "publisher_id", cmd.PublisherID, "flows", len(cmd.Draft.Flows))

	draft, err := cmd.Draft.ToDraft()
	if err != nil {
		return nil, errors.NewValidationError("invalid schema draft", err.Error())
	}

	s, err := schema.NewTicketSchema(draft)
	if err != nil {
		uc.logger.Warnw("schema draft rejected", "error", err)
		return nil, draftError(err)
	}

	if err := uc.checkOperators(ctx, s); err != nil {
		return nil, err
	}
	if err := uc.checkExternalRefs(ctx, s); err != nil {
		return nil, err
	}

	if err := uc.schemaRepo.Create(ctx, s); err != nil {
		uc.logger.Errorw("failed to save schema", "error", err)
		return nil, errors.NewInternalError("failed to save schema")
	}

	uc.logger.Infow("schema published", "schema_sid", s.SID(), "flows", s.StepCount())
	return dto.ToSchemaDTO(s), nil
}

func (uc *PublishSchemaUseCase) checkOperators(ctx context.Context, s *schema.TicketSchema) error {
	for _, step := range s.Steps() {
		op := step.Operator()

		var (
			exists bool
			err    error
		)
		switch op.Kind() {
		case schema.OperatorUser:
			exists, err = uc.userRepo.ExistsActive(ctx, op.Ref())
		case schema.OperatorRole:
			exists, err = uc.roleRepo.Exists(ctx, op.Ref())
		default:
			continue
		}
		if err != nil {
			uc.logger.Errorw("failed to check flow operator", "kind", op.Kind(), "ref", op.Ref(), "error", err)
			return errors.NewInternalError("failed to check flow operator")
		}
		if !exists {
			return errors.NewValidationError("flow operator does not exist",
				fmt.Sprintf("step %d: %s %s not found", step.Order(), op.Kind(), op.Ref()))
		}
	}
	return nil
}

func (uc *PublishSchemaUseCase) checkExternalRefs(ctx context.Context, s *schema.TicketSchema) error {
	refs := s.ExternalRefs()
	if len(refs) == 0 {
		return nil
	}

	sids := make([]string, 0, len(refs))
	for _, ref := range refs {
		sids = append(sids, ref.SchemaID)
	}
	found, err := uc.schemaRepo.GetBySIDs(ctx, sids)
	if err != nil {
		uc.logger.Errorw("failed to load referenced schemas", "error", err)
		return errors.NewInternalError("failed to load referenced schemas")
	}

	for _, ref := range refs {
		if problem := externalRefProblem(found[ref.SchemaID], ref); problem != "" {
			return errors.NewValidationError(schema.ErrInvalidDynamicRef.Error(), problem)
		}
	}
	return nil
}

func externalRefProblem(target *schema.TicketSchema, ref form.DynamicDefault) string {
	if target == nil {
		return fmt.Sprintf("schema %s does not exist", ref.SchemaID)
	}
	if ref.StepID != "" {
		step, ok := target.Step(ref.StepID)
		if !ok || !step.IsForm() {
			return fmt.Sprintf("schema %s has no form step %s", ref.SchemaID, ref.StepID)
		}
	}
	if !target.HasFormField(ref.StepID, ref.FieldKey) {
		return fmt.Sprintf("schema %s has no field %q", ref.SchemaID, ref.FieldKey)
	}
	return ""
}

// draftError turns a domain publish failure into a validation error. Form
// structure problems are listed as field violations keyed by field.
func draftError(err error) error {
	var structure *form.StructureError
	if stderrors.As(err, &structure) {
		fields := make([]errors.FieldViolation, len(structure.Problems))
		for i, p := range structure.Problems {
			fields[i] = errors.FieldViolation{Key: p.Key, Code: "invalid_structure", Message: p.Reason}
		}
		appErr := errors.NewValidationError("invalid schema draft", err.Error())
		appErr.Fields = fields
		return appErr
	}
	return errors.NewValidationError("invalid schema draft", err.Error())
}
