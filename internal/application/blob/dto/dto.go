package dto

import (
	"time"

	"github.com/orris-inc/ticketflow/internal/domain/blob"
)

// RegisterBlobRequest records metadata of a file already written to storage.
type RegisterBlobRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=image file"`
	Mime   string `json:"mime" binding:"required,max=255"`
	Size   int64  `json:"size" binding:"required,gt=0"`
	Width  int    `json:"width" binding:"gte=0"`
	Height int    `json:"height" binding:"gte=0"`
	SHA256 string `json:"sha256" binding:"omitempty,len=64,hexadecimal"`
}

type BlobResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Mime       string    `json:"mime"`
	Size       int64     `json:"size"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	SHA256     string    `json:"sha256,omitempty"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromDomainBlob(b *blob.Blob) *BlobResponse {
	if b == nil {
		return nil
	}
	return &BlobResponse{
		ID:         b.SID(),
		Kind:       string(b.Kind()),
		Mime:       b.Mime(),
		Size:       b.Size(),
		Width:      b.Width(),
		Height:     b.Height(),
		SHA256:     b.SHA256(),
		UploadedBy: b.UploadedBy(),
		CreatedAt:  b.CreatedAt(),
	}
}
