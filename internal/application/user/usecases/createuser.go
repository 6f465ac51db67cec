package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/user/dto"
	domainUser "github.com/orris-inc/ticketflow/internal/domain/user"
	vo "github.com/orris-inc/ticketflow/internal/domain/user/valueobjects"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// CreateUserUseCase adds a user to the directory
type CreateUserUseCase struct {
	userRepo domainUser.Repository
	logger   logger.Interface
}

// NewCreateUserUseCase creates a new create user use case
func NewCreateUserUseCase(userRepo domainUser.Repository, logger logger.Interface) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Execute executes the create user use case
func (uc *CreateUserUseCase) Execute(ctx context.Context, request dto.CreateUserRequest) (*dto.UserResponse, error) {
	uc.logger.Infow("executing create user use case", "email", request.Email)

	email, err := vo.NewEmail(request.Email)
	if err != nil {
		return nil, errors.NewValidationError("invalid email", err.Error())
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email.String())
	if err != nil {
		uc.logger.Errorw("database error while checking for existing user", "email", email.String(), "error", err)
		return nil, errors.NewInternalError("failed to check existing user")
	}
	if existing != nil {
		uc.logger.Warnw("user with email already exists", "email", email.String())
		return nil, errors.NewConflictError(domainUser.ErrEmailTaken.Error(), email.String())
	}

	u, err := domainUser.NewUser(request.Name, email)
	if err != nil {
		return nil, errors.NewValidationError("invalid user", err.Error())
	}

	if err := uc.userRepo.Create(ctx, u); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError(domainUser.ErrEmailTaken.Error(), email.String())
		}
		uc.logger.Errorw("failed to create user", "email", email.String(), "error", err)
		return nil, errors.NewInternalError("failed to create user")
	}

	uc.logger.Infow("user created successfully", "user_sid", u.SID())
	return dto.FromDomainUser(u), nil
}
