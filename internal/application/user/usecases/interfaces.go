package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/user/dto"
)

type CreateUserExecutor interface {
	Execute(ctx context.Context, request dto.CreateUserRequest) (*dto.UserResponse, error)
}

type ListUsersExecutor interface {
	Execute(ctx context.Context, request dto.ListUsersRequest) (*dto.ListUsersResponse, error)
}

type UpdateUserStatusExecutor interface {
	Execute(ctx context.Context, userSID string, request dto.UpdateUserStatusRequest) (*dto.UserResponse, error)
}

var (
	_ CreateUserExecutor       = (*CreateUserUseCase)(nil)
	_ ListUsersExecutor        = (*ListUsersUseCase)(nil)
	_ UpdateUserStatusExecutor = (*UpdateUserStatusUseCase)(nil)
)
