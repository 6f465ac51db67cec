package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/assignment"
	"github.com/orris-inc/ticketflow/internal/application/schema/dto"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type ProbableAssignUsersQuery struct {
	SchemaSID string
	FlowSID   string
	// RequesterID stands in for the requester of a ticket not created yet.
	RequesterID string
}

// ProbableAssignUsersUseCase previews who could be bound to a flow if a
// ticket were instantiated now.
type ProbableAssignUsersUseCase struct {
	schemaRepo schema.Repository
	resolver   *assignment.Resolver
	logger     logger.Interface
}

func NewProbableAssignUsersUseCase(
	schemaRepo schema.Repository,
	resolver *assignment.Resolver,
	logger logger.Interface,
) *ProbableAssignUsersUseCase {
	return &ProbableAssignUsersUseCase{
		schemaRepo: schemaRepo,
		resolver:   resolver,
		logger:     logger,
	}
}

func (uc *ProbableAssignUsersUseCase) Execute(ctx context.Context, query ProbableAssignUsersQuery) (*dto.ProbableAssigneesDTO, error) {
	s, err := loadSchema(ctx, uc.schemaRepo, uc.logger, query.SchemaSID)
	if err != nil {
		return nil, err
	}
	step, ok := s.Step(query.FlowSID)
	if !ok {
		return nil, errors.NewNotFoundError(schema.ErrStepNotFound.Error(), query.FlowSID)
	}

	res, err := uc.resolver.Resolve(ctx, step.Operator(), query.RequesterID)
	if err != nil {
		return nil, err
	}

	users := make([]dto.AssigneeDTO, len(res.Users))
	for i, u := range res.Users {
		users[i] = dto.ToAssigneeDTO(u)
	}
	return &dto.ProbableAssigneesDTO{
		FlowID: step.SID(),
		RoleID: res.RoleID,
		Users:  users,
	}, nil
}
