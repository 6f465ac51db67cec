package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/blob/dto"
	"github.com/orris-inc/ticketflow/internal/domain/blob"
	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type RegisterBlobCommand struct {
	Request    dto.RegisterBlobRequest
	UploaderID string
}

type RegisterBlobUseCase struct {
	blobRepo blob.Repository
	logger   logger.Interface
}

func NewRegisterBlobUseCase(blobRepo blob.Repository, logger logger.Interface) *RegisterBlobUseCase {
	return &RegisterBlobUseCase{
		blobRepo: blobRepo,
		logger:   logger,
	}
}

func (uc *RegisterBlobUseCase) Execute(ctx context.Context, cmd RegisterBlobCommand) (*dto.BlobResponse, error) {
	b, err := blob.NewBlob(blob.Metadata{
		Kind:       form.BlobKind(cmd.Request.Kind),
		Mime:       cmd.Request.Mime,
		Size:       cmd.Request.Size,
		Width:      cmd.Request.Width,
		Height:     cmd.Request.Height,
		SHA256:     cmd.Request.SHA256,
		UploadedBy: cmd.UploaderID,
	})
	if err != nil {
		return nil, errors.NewValidationError("invalid blob metadata", err.Error())
	}

	if err := uc.blobRepo.Create(ctx, b); err != nil {
		uc.logger.Errorw("failed to save blob", "uploader_id", cmd.UploaderID, "error", err)
		return nil, errors.NewInternalError("failed to save blob")
	}

	uc.logger.Infow("blob registered", "blob_sid", b.SID(), "kind", b.Kind(), "size", b.Size())
	return dto.FromDomainBlob(b), nil
}
