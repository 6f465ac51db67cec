package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/domain/user"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type UpdateRoleMembershipCommand struct {
	RoleSID string
	UserSID string
	// Grant adds the membership; false revokes it.
	Grant bool
}

// UpdateRoleMembershipUseCase edits the user to role graph. Open tickets are
// not rebound: role-bound items re-check membership whenever someone acts.
type UpdateRoleMembershipUseCase struct {
	roleRepo permission.RoleRepository
	userRepo user.Repository
	enforcer permission.PermissionEnforcer
	logger   logger.Interface
}

func NewUpdateRoleMembershipUseCase(
	roleRepo permission.RoleRepository,
	userRepo user.Repository,
	enforcer permission.PermissionEnforcer,
	logger logger.Interface,
) *UpdateRoleMembershipUseCase {
	return &UpdateRoleMembershipUseCase{
		roleRepo: roleRepo,
		userRepo: userRepo,
		enforcer: enforcer,
		logger:   logger,
	}
}

func (uc *UpdateRoleMembershipUseCase) Execute(ctx context.Context, cmd UpdateRoleMembershipCommand) error {
	exists, err := uc.roleRepo.Exists(ctx, cmd.RoleSID)
	if err != nil {
		uc.logger.Errorw("failed to check role", "role_sid", cmd.RoleSID, "error", err)
		return errors.NewInternalError("failed to check role")
	}
	if !exists {
		return errors.NewNotFoundError(permission.ErrRoleNotFound.Error(), cmd.RoleSID)
	}

	u, err := uc.userRepo.GetBySID(ctx, cmd.UserSID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "user_sid", cmd.UserSID, "error", err)
		return errors.NewInternalError("failed to get user")
	}
	if u == nil {
		return errors.NewNotFoundError(user.ErrUserNotFound.Error(), cmd.UserSID)
	}

	if cmd.Grant {
		err = uc.enforcer.AddRoleForUser(cmd.UserSID, cmd.RoleSID)
	} else {
		err = uc.enforcer.DeleteRoleForUser(cmd.UserSID, cmd.RoleSID)
	}
	if err != nil {
		uc.logger.Errorw("failed to update role membership",
			"role_sid", cmd.RoleSID,
			"user_sid", cmd.UserSID,
			"grant", cmd.Grant,
			"error", err,
		)
		return errors.NewInternalError("failed to update role membership")
	}

	uc.logger.Infow("role membership updated", "role_sid", cmd.RoleSID, "user_sid", cmd.UserSID, "grant", cmd.Grant)
	return nil
}
