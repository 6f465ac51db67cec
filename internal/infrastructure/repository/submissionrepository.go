package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketflow/internal/shared/db"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
)

type SubmissionRepository struct {
	db *gorm.DB
}

var _ ticket.SubmissionRepository = (*SubmissionRepository)(nil)

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Record relies on the (ticket_sid, idempotency_key) unique index.
func (r *SubmissionRepository) Record(ctx context.Context, ticketSID, key string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(&models.SubmissionModel{TicketSID: ticketSID, IdempotencyKey: key}).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return ticket.ErrDuplicateSubmission
		}
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) Exists(ctx context.Context, ticketSID, key string) (bool, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.SubmissionModel{}).
		Where("ticket_sid = ? AND idempotency_key = ?", ticketSID, key).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check submission: %w", err)
	}
	return count > 0, nil
}
