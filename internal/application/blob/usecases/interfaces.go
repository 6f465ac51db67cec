package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/blob/dto"
)

type RegisterBlobExecutor interface {
	Execute(ctx context.Context, cmd RegisterBlobCommand) (*dto.BlobResponse, error)
}

var _ RegisterBlobExecutor = (*RegisterBlobUseCase)(nil)
