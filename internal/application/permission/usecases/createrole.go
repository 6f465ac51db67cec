package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/permission/dto"
	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type CreateRoleUseCase struct {
	roleRepo permission.RoleRepository
	logger   logger.Interface
}

func NewCreateRoleUseCase(roleRepo permission.RoleRepository, logger logger.Interface) *CreateRoleUseCase {
	return &CreateRoleUseCase{
		roleRepo: roleRepo,
		logger:   logger,
	}
}

func (uc *CreateRoleUseCase) Execute(ctx context.Context, request dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	role, err := permission.NewRole(request.Name, request.Description)
	if err != nil {
		return nil, errors.NewValidationError("invalid role", err.Error())
	}

	if err := uc.roleRepo.Create(ctx, role); err != nil {
		uc.logger.Errorw("failed to create role", "name", request.Name, "error", err)
		return nil, errors.NewInternalError("failed to create role")
	}

	uc.logger.Infow("role created", "role_sid", role.SID(), "name", role.Name())
	return dto.FromDomainRole(role), nil
}
