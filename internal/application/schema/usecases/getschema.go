package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/schema/dto"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type GetSchemaQuery struct {
	SchemaSID string
}

type GetSchemaUseCase struct {
	schemaRepo schema.Repository
	logger     logger.Interface
}

func NewGetSchemaUseCase(schemaRepo schema.Repository, logger logger.Interface) *GetSchemaUseCase {
	return &GetSchemaUseCase{
		schemaRepo: schemaRepo,
		logger:     logger,
	}
}

func (uc *GetSchemaUseCase) Execute(ctx context.Context, query GetSchemaQuery) (*dto.SchemaDTO, error) {
	s, err := loadSchema(ctx, uc.schemaRepo, uc.logger, query.SchemaSID)
	if err != nil {
		return nil, err
	}
	return dto.ToSchemaDTO(s), nil
}

func loadSchema(ctx context.Context, repo schema.Repository, log logger.Interface, sid string) (*schema.TicketSchema, error) {
	if sid == "" {
		return nil, errors.NewValidationError("schema ID is required")
	}
	s, err := repo.GetBySID(ctx, sid)
	if err != nil {
		log.Errorw("failed to get schema", "schema_sid", sid, "error", err)
		return nil, errors.NewInternalError("failed to get schema")
	}
	if s == nil {
		return nil, errors.NewNotFoundError(schema.ErrSchemaNotFound.Error(), sid)
	}
	return s, nil
}
