package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/schema/dto"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
	"github.com/orris-inc/ticketflow/internal/shared/utils"
)

type ListSchemasQuery struct {
	Page     int
	PageSize int
	// StartableBy limits the list to schemas whose first flow this user may act on.
	StartableBy string
}

type ListSchemasResult struct {
	Schemas  []dto.SchemaListItemDTO
	Total    int64
	Page     int
	PageSize int
}

// RoleLookup lists the roles a user belongs to.
type RoleLookup interface {
	GetRolesForUser(userID string) ([]string, error)
}

type ListSchemasUseCase struct {
	schemaRepo schema.Repository
	roles      RoleLookup
	logger     logger.Interface
}

func NewListSchemasUseCase(schemaRepo schema.Repository, roles RoleLookup, logger logger.Interface) *ListSchemasUseCase {
	return &ListSchemasUseCase{
		schemaRepo: schemaRepo,
		roles:      roles,
		logger:     logger,
	}
}

func (uc *ListSchemasUseCase) Execute(ctx context.Context, query ListSchemasQuery) (*ListSchemasResult, error) {
	p := utils.NormalizePagination(query.Page, query.PageSize)
	filter := schema.ListFilter{Page: p.Page, PageSize: p.PageSize}

	var (
		schemas []*schema.TicketSchema
		total   int64
		err     error
	)
	if query.StartableBy != "" {
		roleIDs, roleErr := uc.roles.GetRolesForUser(query.StartableBy)
		if roleErr != nil {
			uc.logger.Errorw("failed to get user roles", "user_id", query.StartableBy, "error", roleErr)
			return nil, errors.NewInternalError("failed to get user roles")
		}
		schemas, total, err = uc.schemaRepo.ListStartableBy(ctx, query.StartableBy, roleIDs, filter)
	} else {
		schemas, total, err = uc.schemaRepo.List(ctx, filter)
	}
	if err != nil {
		uc.logger.Errorw("failed to list schemas", "error", err)
		return nil, errors.NewInternalError("failed to list schemas")
	}

	items := make([]dto.SchemaListItemDTO, len(schemas))
	for i, s := range schemas {
		items[i] = dto.ToSchemaListItemDTO(s)
	}

	return &ListSchemasResult{
		Schemas:  items,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
