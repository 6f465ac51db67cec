package mappers

import (
	"github.com/orris-inc/ticketflow/internal/domain/blob"
	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
)

func BlobToModel(b *blob.Blob) *models.FormBlobModel {
	return &models.FormBlobModel{
		ID:         b.ID(),
		SID:        b.SID(),
		Kind:       string(b.Kind()),
		Mime:       b.Mime(),
		Size:       b.Size(),
		Width:      b.Width(),
		Height:     b.Height(),
		SHA256:     b.SHA256(),
		UploadedBy: b.UploadedBy(),
		CreatedAt:  toMillis(b.CreatedAt()),
	}
}

func BlobToEntity(m *models.FormBlobModel) (*blob.Blob, error) {
	return blob.ReconstructBlob(m.ID, m.SID, blob.Metadata{
		Kind:       form.BlobKind(m.Kind),
		Mime:       m.Mime,
		Size:       m.Size,
		Width:      m.Width,
		Height:     m.Height,
		SHA256:     m.SHA256,
		UploadedBy: m.UploadedBy,
	}, fromMillis(m.CreatedAt))
}
