package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/permission/dto"
)

type CreateRoleExecutor interface {
	Execute(ctx context.Context, request dto.CreateRoleRequest) (*dto.RoleResponse, error)
}

type ListRolesExecutor interface {
	Execute(ctx context.Context, query ListRolesQuery) (*dto.ListRolesResponse, error)
}

type UpdateRoleMembershipExecutor interface {
	Execute(ctx context.Context, cmd UpdateRoleMembershipCommand) error
}

var (
	_ CreateRoleExecutor           = (*CreateRoleUseCase)(nil)
	_ ListRolesExecutor            = (*ListRolesUseCase)(nil)
	_ UpdateRoleMembershipExecutor = (*UpdateRoleMembershipUseCase)(nil)
)
