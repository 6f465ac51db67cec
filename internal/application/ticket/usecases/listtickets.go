package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/ticket/dto"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	vo "github.com/orris-inc/ticketflow/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
	"github.com/orris-inc/ticketflow/internal/shared/utils"
)

// ListTicketsQuery lists the tickets ActorID requested or is bound to,
// directly or through a role. With
// SchemaSID set it lists every ticket of that schema instead, which needs
// the ticket manage permission.
type ListTicketsQuery struct {
	ActorID   string
	SchemaSID string
	Status    string
	Page      int
	PageSize  int
}

type ListTicketsResult struct {
	Tickets  []dto.TicketListItemDTO
	Total    int64
	Page     int
	PageSize int
}

// RoleLookup lists the roles a user belongs to.
type RoleLookup interface {
	GetRolesForUser(userID string) ([]string, error)
}

type ListTicketsUseCase struct {
	schemaRepo schema.Repository
	ticketRepo ticket.TicketRepository
	authz      Authorizer
	roles      RoleLookup
	logger     logger.Interface
}

func NewListTicketsUseCase(
	schemaRepo schema.Repository,
	ticketRepo ticket.TicketRepository,
	authz Authorizer,
	roles RoleLookup,
	logger logger.Interface,
) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		schemaRepo: schemaRepo,
		ticketRepo: ticketRepo,
		authz:      authz,
		roles:      roles,
		logger:     logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	p := utils.NormalizePagination(query.Page, query.PageSize)
	filter := ticket.TicketFilter{Page: p.Page, PageSize: p.PageSize}

	if query.Status != "" {
		status, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError("invalid status filter", query.Status)
		}
		filter.Status = &status
	}

	if query.SchemaSID != "" {
		if err := uc.authorizeSchemaListing(ctx, query); err != nil {
			return nil, err
		}
		filter.SchemaSID = &query.SchemaSID
	} else {
		roleIDs, err := uc.roles.GetRolesForUser(query.ActorID)
		if err != nil {
			uc.logger.Errorw("failed to get user roles", "user_id", query.ActorID, "error", err)
			return nil, errors.NewInternalError("failed to get user roles")
		}
		filter.ParticipantID = &query.ActorID
		filter.ParticipantRoleIDs = roleIDs
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, errors.NewInternalError("failed to list tickets")
	}

	items := make([]dto.TicketListItemDTO, len(tickets))
	for i, t := range tickets {
		items[i] = dto.ToTicketListItemDTO(t)
	}
	return &ListTicketsResult{
		Tickets:  items,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

func (uc *ListTicketsUseCase) authorizeSchemaListing(ctx context.Context, query ListTicketsQuery) error {
	ok, err := uc.authz.Enforce(query.ActorID, constants.ResourceTicket, constants.ActionManage)
	if err != nil {
		uc.logger.Errorw("failed to check permission", "user_id", query.ActorID, "error", err)
		return errors.NewInternalError("failed to check permission")
	}
	if !ok {
		return errors.NewForbiddenError("listing schema tickets requires the ticket manage permission")
	}

	s, err := uc.schemaRepo.GetBySID(ctx, query.SchemaSID)
	if err != nil {
		uc.logger.Errorw("failed to get schema", "schema_sid", query.SchemaSID, "error", err)
		return errors.NewInternalError("failed to get schema")
	}
	if s == nil {
		return errors.NewNotFoundError(schema.ErrSchemaNotFound.Error(), query.SchemaSID)
	}
	return nil
}
