package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/user/dto"
	domainUser "github.com/orris-inc/ticketflow/internal/domain/user"
	vo "github.com/orris-inc/ticketflow/internal/domain/user/valueobjects"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// UpdateUserStatusUseCase activates or deactivates a user. Inactive users
// drop out of role resolution and can no longer be bound to flows.
type UpdateUserStatusUseCase struct {
	userRepo domainUser.Repository
	logger   logger.Interface
}

// NewUpdateUserStatusUseCase creates a new update user status use case
func NewUpdateUserStatusUseCase(userRepo domainUser.Repository, logger logger.Interface) *UpdateUserStatusUseCase {
	return &UpdateUserStatusUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Execute executes the update user status use case
func (uc *UpdateUserStatusUseCase) Execute(ctx context.Context, userSID string, request dto.UpdateUserStatusRequest) (*dto.UserResponse, error) {
	status, err := vo.NewStatus(request.Status)
	if err != nil {
		return nil, errors.NewValidationError("invalid status", request.Status)
	}

	u, err := uc.userRepo.GetBySID(ctx, userSID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "user_sid", userSID, "error", err)
		return nil, errors.NewInternalError("failed to get user")
	}
	if u == nil {
		return nil, errors.NewNotFoundError(domainUser.ErrUserNotFound.Error(), userSID)
	}

	if status.IsActive() {
		u.Activate()
	} else {
		u.Deactivate()
	}

	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user", "user_sid", userSID, "error", err)
		return nil, errors.NewInternalError("failed to update user")
	}

	uc.logger.Infow("user status updated", "user_sid", userSID, "status", status)
	return dto.FromDomainUser(u), nil
}
