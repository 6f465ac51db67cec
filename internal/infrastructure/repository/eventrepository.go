package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketflow/internal/shared/db"
)

type EventRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

var _ ticket.EventRepository = (*EventRepository)(nil)

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db, mapper: mappers.NewTicketMapper()}
}

func (r *EventRepository) Append(ctx context.Context, events []ticket.FlowEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows, err := r.mapper.ToEventModels(events)
	if err != nil {
		return err
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to append flow events: %w", err)
	}
	return nil
}

// ListByTicket returns the history oldest first.
func (r *EventRepository) ListByTicket(ctx context.Context, ticketSID string) ([]ticket.FlowEvent, error) {
	var rows []models.FlowEventModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("ticket_sid = ?", ticketSID).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list flow events: %w", err)
	}

	events := make([]ticket.FlowEvent, len(rows))
	for i := range rows {
		e, err := r.mapper.ToEvent(&rows[i])
		if err != nil {
			return nil, err
		}
		events[i] = e
	}
	return events, nil
}
