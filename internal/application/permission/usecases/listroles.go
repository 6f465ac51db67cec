package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/permission/dto"
	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
	"github.com/orris-inc/ticketflow/internal/shared/utils"
)

type ListRolesQuery struct {
	Page     int
	PageSize int
	// WithMembers adds the member user ids of every role.
	WithMembers bool
}

type ListRolesUseCase struct {
	roleRepo permission.RoleRepository
	enforcer permission.PermissionEnforcer
	logger   logger.Interface
}

func NewListRolesUseCase(
	roleRepo permission.RoleRepository,
	enforcer permission.PermissionEnforcer,
	logger logger.Interface,
) *ListRolesUseCase {
	return &ListRolesUseCase{
		roleRepo: roleRepo,
		enforcer: enforcer,
		logger:   logger,
	}
}

func (uc *ListRolesUseCase) Execute(ctx context.Context, query ListRolesQuery) (*dto.ListRolesResponse, error) {
	p := utils.NormalizePagination(query.Page, query.PageSize)

	roles, total, err := uc.roleRepo.List(ctx, permission.RoleFilter{Page: p.Page, PageSize: p.PageSize})
	if err != nil {
		uc.logger.Errorw("failed to list roles", "error", err)
		return nil, errors.NewInternalError("failed to list roles")
	}

	out := make([]*dto.RoleResponse, len(roles))
	for i, r := range roles {
		out[i] = dto.FromDomainRole(r)
		if !query.WithMembers {
			continue
		}
		members, err := uc.enforcer.GetUsersForRole(r.SID())
		if err != nil {
			uc.logger.Errorw("failed to get role members", "role_sid", r.SID(), "error", err)
			return nil, errors.NewInternalError("failed to get role members")
		}
		out[i].Members = members
	}

	return &dto.ListRolesResponse{
		Roles:    out,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
