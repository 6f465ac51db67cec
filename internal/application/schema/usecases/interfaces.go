package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/schema/dto"
)

type PublishSchemaExecutor interface {
	Execute(ctx context.Context, cmd PublishSchemaCommand) (*dto.SchemaDTO, error)
}

type GetSchemaExecutor interface {
	Execute(ctx context.Context, query GetSchemaQuery) (*dto.SchemaDTO, error)
}

type ListSchemasExecutor interface {
	Execute(ctx context.Context, query ListSchemasQuery) (*ListSchemasResult, error)
}

type ProbableAssignUsersExecutor interface {
	Execute(ctx context.Context, query ProbableAssignUsersQuery) (*dto.ProbableAssigneesDTO, error)
}

var (
	_ PublishSchemaExecutor       = (*PublishSchemaUseCase)(nil)
	_ GetSchemaExecutor           = (*GetSchemaUseCase)(nil)
	_ ListSchemasExecutor         = (*ListSchemasUseCase)(nil)
	_ ProbableAssignUsersExecutor = (*ProbableAssignUsersUseCase)(nil)
)
