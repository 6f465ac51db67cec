package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketflow/internal/shared/db"
)

type RoleRepository struct {
	db *gorm.DB
}

var _ permission.RoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *permission.Role) error {
	model := mappers.RoleToModel(role)

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return role.SetID(model.ID)
}

func (r *RoleRepository) GetBySID(ctx context.Context, sid string) (*permission.Role, error) {
	var model models.RoleModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return mappers.RoleToEntity(&model)
}

func (r *RoleRepository) Exists(ctx context.Context, sid string) (bool, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.RoleModel{}).Where("sid = ?", sid).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check role existence: %w", err)
	}
	return count > 0, nil
}

func (r *RoleRepository) List(ctx context.Context, filter permission.RoleFilter) ([]*permission.Role, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.RoleModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	var rows []models.RoleModel
	if err := query.Order("name ASC").Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}

	roles := make([]*permission.Role, len(rows))
	for i := range rows {
		role, err := mappers.RoleToEntity(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		roles[i] = role
	}
	return roles, total, nil
}
