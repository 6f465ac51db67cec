package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/domain/blob"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketflow/internal/shared/db"
)

type BlobRepository struct {
	db *gorm.DB
}

var _ blob.Repository = (*BlobRepository)(nil)

func NewBlobRepository(db *gorm.DB) *BlobRepository {
	return &BlobRepository{db: db}
}

func (r *BlobRepository) Create(ctx context.Context, b *blob.Blob) error {
	model := mappers.BlobToModel(b)

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create blob: %w", err)
	}
	b.SetID(model.ID)
	return nil
}

func (r *BlobRepository) GetBySID(ctx context.Context, sid string) (*blob.Blob, error) {
	var model models.FormBlobModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get blob: %w", err)
	}
	return mappers.BlobToEntity(&model)
}

func (r *BlobRepository) GetBySIDs(ctx context.Context, sids []string) (map[string]*blob.Blob, error) {
	out := make(map[string]*blob.Blob, len(sids))
	if len(sids) == 0 {
		return out, nil
	}

	var rows []models.FormBlobModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid IN ?", sids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get blobs: %w", err)
	}

	for i := range rows {
		b, err := mappers.BlobToEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		out[b.SID()] = b
	}
	return out, nil
}
