package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketflow/internal/shared/db"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// latestAnswerBatch bounds how many finished items LatestAnswer decodes per query.
const latestAnswerBatch = 50

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	logger logger.Interface
}

var _ ticket.TicketRepository = (*TicketRepository)(nil)

func NewTicketRepository(db *gorm.DB, logger logger.Interface) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

// Create inserts the ticket row and all of its flow items.
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	items, err := r.mapper.ToItemModels(model.ID, t)
	if err != nil {
		return err
	}
	if err := tx.Create(&items).Error; err != nil {
		return fmt.Errorf("failed to create flow items: %w", err)
	}

	for i, item := range t.Items() {
		item.SetID(items[i].ID)
	}
	return t.SetID(model.ID)
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	// Optimistic locking: the aggregate has already bumped its version.
	result := tx.Model(&models.TicketModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"finished":    model.Finished,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
			"finished_at": model.FinishedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ticket.ErrVersionConflict
	}

	items, err := r.mapper.ToItemModels(model.ID, t)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := tx.Model(&models.FlowItemModel{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"user_id":    item.UserID,
				"role_id":    item.RoleID,
				"finished":   item.Finished,
				"value":      item.Value,
				"updated_at": item.UpdatedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to update flow item %s: %w", item.SID, err)
		}
	}

	return nil
}

func (r *TicketRepository) GetBySID(ctx context.Context, sid string) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	var items []models.FlowItemModel
	if err := tx.Where("ticket_id = ?", model.ID).Order("step_order ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load flow items: %w", err)
	}

	return r.mapper.ToDomain(&model, items)
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.TicketModel{})

	if filter.SchemaSID != nil {
		query = query.Where("schema_sid = ?", *filter.SchemaSID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.ParticipantID != nil {
		operated := tx.Model(&models.FlowItemModel{}).
			Select("ticket_id").
			Where("user_id = ?", *filter.ParticipantID)
		if len(filter.ParticipantRoleIDs) > 0 {
			operated = operated.Or("user_id = '' AND role_id IN ?", filter.ParticipantRoleIDs)
		}
		query = query.Where("requester_id = ? OR id IN (?)", *filter.ParticipantID, operated)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	var rows []models.TicketModel
	if err := query.Scopes(db.NewestFirst(), db.Paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	if len(rows) == 0 {
		return []*ticket.Ticket{}, total, nil
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	// Load items for the whole page in one query.
	var items []models.FlowItemModel
	if err := tx.Where("ticket_id IN ?", ids).Order("step_order ASC").Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load flow items: %w", err)
	}
	byTicket := make(map[uint][]models.FlowItemModel, len(rows))
	for _, item := range items {
		byTicket[item.TicketID] = append(byTicket[item.TicketID], item)
	}

	tickets := make([]*ticket.Ticket, len(rows))
	for i := range rows {
		t, err := r.mapper.ToDomain(&rows[i], byTicket[rows[i].ID])
		if err != nil {
			return nil, 0, err
		}
		tickets[i] = t
	}
	return tickets, total, nil
}

func (r *TicketRepository) LatestAnswer(ctx context.Context, requesterID, schemaSID, stepSID, fieldKey string) (form.Value, bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	query := tx.Model(&models.FlowItemModel{}).
		Select("ticket_flow_items.*").
		Joins("JOIN tickets ON tickets.id = ticket_flow_items.ticket_id").
		Where("tickets.requester_id = ? AND tickets.schema_sid = ?", requesterID, schemaSID).
		Where("ticket_flow_items.finished = ? AND ticket_flow_items.value IS NOT NULL", true)
	if stepSID != "" {
		query = query.Where("ticket_flow_items.step_sid = ?", stepSID)
	}
	query = query.Order("ticket_flow_items.updated_at DESC").Order("ticket_flow_items.id DESC")

	for offset := 0; ; offset += latestAnswerBatch {
		var items []models.FlowItemModel
		if err := query.Session(&gorm.Session{}).Offset(offset).Limit(latestAnswerBatch).Find(&items).Error; err != nil {
			return form.Value{}, false, fmt.Errorf("failed to query latest answer: %w", err)
		}

		for _, item := range items {
			value, err := mappers.DecodeFlowValue(item.Value)
			if err != nil {
				r.logger.Warnw("skipping undecodable flow value", "flow_item_id", item.SID, "error", err)
				continue
			}
			fv, ok := value.(ticket.FormValue)
			if !ok {
				continue
			}
			if v, ok := fv.Answers[fieldKey]; ok {
				return v, true, nil
			}
		}

		if len(items) < latestAnswerBatch {
			return form.Value{}, false, nil
		}
	}
}
