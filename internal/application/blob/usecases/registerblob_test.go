package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/application/blob/dto"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/testdb"
	"github.com/orris-inc/ticketflow/internal/infrastructure/repository"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

func TestRegisterBlob(t *testing.T) {
	repo := repository.NewBlobRepository(testdb.Open(t))
	uc := NewRegisterBlobUseCase(repo, logger.NewNop())

	out, err := uc.Execute(context.Background(), RegisterBlobCommand{
		Request:    dto.RegisterBlobRequest{Kind: "image", Mime: "image/png", Size: 2048, Width: 64, Height: 64},
		UploaderID: "usr_alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "image", out.Kind)
	assert.Equal(t, "usr_alice", out.UploadedBy)

	stored, err := repo.GetBySID(context.Background(), out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(2048), stored.Size())

	_, err = uc.Execute(context.Background(), RegisterBlobCommand{
		Request:    dto.RegisterBlobRequest{Kind: "video", Mime: "video/mp4", Size: 10},
		UploaderID: "usr_alice",
	})
	assert.True(t, errors.IsValidationError(err))
}
