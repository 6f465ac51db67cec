package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/ticket/dto"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
)

// TicketEventPublisher fans committed flow events out to other processes.
type TicketEventPublisher interface {
	PublishTicketEvents(ctx context.Context, ticketSID string, events []ticket.FlowEvent) error
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type GetTicketHistoryExecutor interface {
	Execute(ctx context.Context, query GetTicketHistoryQuery) ([]dto.FlowEventDTO, error)
}

type ProcessTicketExecutor interface {
	Execute(ctx context.Context, cmd ProcessTicketCommand) (*ProcessTicketResult, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

var (
	_ CreateTicketExecutor     = (*CreateTicketUseCase)(nil)
	_ GetTicketExecutor        = (*GetTicketUseCase)(nil)
	_ GetTicketHistoryExecutor = (*GetTicketHistoryUseCase)(nil)
	_ ProcessTicketExecutor    = (*ProcessTicketUseCase)(nil)
	_ ListTicketsExecutor      = (*ListTicketsUseCase)(nil)
)
