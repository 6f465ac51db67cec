package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/user/dto"
	domainUser "github.com/orris-inc/ticketflow/internal/domain/user"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
	"github.com/orris-inc/ticketflow/internal/shared/utils"
)

// ListUsersUseCase pages through the directory
type ListUsersUseCase struct {
	userRepo domainUser.Repository
	logger   logger.Interface
}

// NewListUsersUseCase creates a new list users use case
func NewListUsersUseCase(userRepo domainUser.Repository, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Execute executes the list users use case
func (uc *ListUsersUseCase) Execute(ctx context.Context, request dto.ListUsersRequest) (*dto.ListUsersResponse, error) {
	p := utils.NormalizePagination(request.Page, request.PageSize)

	users, total, err := uc.userRepo.List(ctx, domainUser.ListFilter{
		Page:     p.Page,
		PageSize: p.PageSize,
		Status:   request.Status,
	})
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, errors.NewInternalError("failed to list users")
	}

	out := make([]*dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = dto.FromDomainUser(u)
	}
	return &dto.ListUsersResponse{
		Users:    out,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
