package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/assignment"
	"github.com/orris-inc/ticketflow/internal/application/ticket/dto"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type GetTicketQuery struct {
	TicketSID string
	ActorID   string
}

type GetTicketUseCase struct {
	view *ticketView
}

func NewGetTicketUseCase(
	schemaRepo schema.Repository,
	ticketRepo ticket.TicketRepository,
	resolver *assignment.Resolver,
	authz Authorizer,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		view: &ticketView{
			schemaRepo: schemaRepo,
			ticketRepo: ticketRepo,
			resolver:   resolver,
			authz:      authz,
			logger:     logger,
		},
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	t, s, err := uc.view.load(ctx, query.TicketSID)
	if err != nil {
		return nil, err
	}
	if err := uc.view.authorizeView(ctx, t, query.ActorID); err != nil {
		return nil, err
	}
	return uc.view.render(ctx, t, s, query.ActorID)
}

type GetTicketHistoryQuery struct {
	TicketSID string
	ActorID   string
}

type GetTicketHistoryUseCase struct {
	view      *ticketView
	eventRepo ticket.EventRepository
}

func NewGetTicketHistoryUseCase(
	schemaRepo schema.Repository,
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	resolver *assignment.Resolver,
	authz Authorizer,
	logger logger.Interface,
) *GetTicketHistoryUseCase {
	return &GetTicketHistoryUseCase{
		view: &ticketView{
			schemaRepo: schemaRepo,
			ticketRepo: ticketRepo,
			resolver:   resolver,
			authz:      authz,
			logger:     logger,
		},
		eventRepo: eventRepo,
	}
}

func (uc *GetTicketHistoryUseCase) Execute(ctx context.Context, query GetTicketHistoryQuery) ([]dto.FlowEventDTO, error) {
	t, _, err := uc.view.load(ctx, query.TicketSID)
	if err != nil {
		return nil, err
	}
	if err := uc.view.authorizeView(ctx, t, query.ActorID); err != nil {
		return nil, err
	}

	events, err := uc.eventRepo.ListByTicket(ctx, t.SID())
	if err != nil {
		uc.view.logger.Errorw("failed to list ticket history", "ticket_sid", t.SID(), "error", err)
		return nil, errors.NewInternalError("failed to list ticket history")
	}

	out := make([]dto.FlowEventDTO, len(events))
	for i, e := range events {
		out[i] = dto.ToFlowEventDTO(e)
	}
	return out, nil
}
