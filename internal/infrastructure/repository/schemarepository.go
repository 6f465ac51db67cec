package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketflow/internal/shared/db"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type SchemaRepository struct {
	db     *gorm.DB
	mapper mappers.SchemaMapper
	logger logger.Interface
}

var _ schema.Repository = (*SchemaRepository)(nil)

func NewSchemaRepository(db *gorm.DB, logger logger.Interface) *SchemaRepository {
	return &SchemaRepository{
		db:     db,
		mapper: mappers.NewSchemaMapper(),
		logger: logger,
	}
}

func (r *SchemaRepository) Create(ctx context.Context, s *schema.TicketSchema) error {
	model, err := r.mapper.ToModel(s)
	if err != nil {
		return fmt.Errorf("failed to map schema entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create schema", "sid", model.SID, "error", err)
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return s.SetID(model.ID)
}

func (r *SchemaRepository) GetBySID(ctx context.Context, sid string) (*schema.TicketSchema, error) {
	var model models.TicketSchemaModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SchemaRepository) GetBySIDs(ctx context.Context, sids []string) (map[string]*schema.TicketSchema, error) {
	out := make(map[string]*schema.TicketSchema, len(sids))
	if len(sids) == 0 {
		return out, nil
	}

	var rows []models.TicketSchemaModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid IN ?", sids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get schemas: %w", err)
	}

	for i := range rows {
		s, err := r.mapper.ToEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		out[s.SID()] = s
	}
	return out, nil
}

func (r *SchemaRepository) List(ctx context.Context, filter schema.ListFilter) ([]*schema.TicketSchema, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	return r.find(tx.Model(&models.TicketSchemaModel{}), filter)
}

// ListStartableBy matches schemas whose first operator is open to anyone,
// names userID directly, or names one of roleIDs.
func (r *SchemaRepository) ListStartableBy(ctx context.Context, userID string, roleIDs []string, filter schema.ListFilter) ([]*schema.TicketSchema, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	open := tx.Where("first_operator_kind = ?", string(schema.OperatorNone)).
		Or("first_operator_kind = ? AND first_operator_ref = ?", string(schema.OperatorUser), userID)
	if len(roleIDs) > 0 {
		open = open.Or("first_operator_kind = ? AND first_operator_ref IN ?", string(schema.OperatorRole), roleIDs)
	}

	return r.find(tx.Model(&models.TicketSchemaModel{}).Where(open), filter)
}

func (r *SchemaRepository) find(query *gorm.DB, filter schema.ListFilter) ([]*schema.TicketSchema, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count schemas: %w", err)
	}

	var rows []models.TicketSchemaModel
	if err := query.Scopes(db.NewestFirst(), db.Paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list schemas: %w", err)
	}

	out := make([]*schema.TicketSchema, len(rows))
	for i := range rows {
		s, err := r.mapper.ToEntity(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		out[i] = s
	}
	return out, total, nil
}
