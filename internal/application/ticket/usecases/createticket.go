package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/assignment"
	"github.com/orris-inc/ticketflow/internal/application/ticket/dto"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/domain/user"
	"github.com/orris-inc/ticketflow/internal/shared/db"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type CreateTicketCommand struct {
	SchemaSID   string
	RequesterID string
	Title       string
	// AssignFlowUsers picks the operator of role or user flows, keyed by flow sid.
	AssignFlowUsers map[string]string
}

type CreateTicketUseCase struct {
	schemaRepo schema.Repository
	ticketRepo ticket.TicketRepository
	eventRepo  ticket.EventRepository
	userRepo   user.Repository
	resolver   *assignment.Resolver
	txManager  db.Transactor
	publisher  TicketEventPublisher
	logger     logger.Interface
}

func NewCreateTicketUseCase(
	schemaRepo schema.Repository,
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	userRepo user.Repository,
	resolver *assignment.Resolver,
	txManager db.Transactor,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		schemaRepo: schemaRepo,
		ticketRepo: ticketRepo,
		eventRepo:  eventRepo,
		userRepo:   userRepo,
		resolver:   resolver,
		txManager:  txManager,
		logger:     logger,
	}
}

// SetEventPublisher sets the optional publisher for committed flow events.
func (uc *CreateTicketUseCase) SetEventPublisher(p TicketEventPublisher) {
	uc.publisher = p
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing create ticket use case", "schema_sid", cmd.SchemaSID, "requester_id", cmd.RequesterID)

	if cmd.SchemaSID == "" {
		return nil, errors.NewValidationError("schema ID is required")
	}

	active, err := uc.userRepo.ExistsActive(ctx, cmd.RequesterID)
	if err != nil {
		uc.logger.Errorw("failed to check requester", "requester_id", cmd.RequesterID, "error", err)
		return nil, errors.NewInternalError("failed to check requester")
	}
	if !active {
		return nil, errors.NewForbiddenError("requester is not an active user")
	}

	s, err := uc.schemaRepo.GetBySID(ctx, cmd.SchemaSID)
	if err != nil {
		uc.logger.Errorw("failed to get schema", "schema_sid", cmd.SchemaSID, "error", err)
		return nil, errors.NewInternalError("failed to get schema")
	}
	if s == nil {
		return nil, errors.NewNotFoundError(schema.ErrSchemaNotFound.Error(), cmd.SchemaSID)
	}

	bindings, err := uc.resolver.Bind(ctx, s, cmd.RequesterID, cmd.AssignFlowUsers)
	if err != nil {
		return nil, err
	}

	t, err := ticket.NewTicket(s, cmd.RequesterID, cmd.Title, bindings)
	if err != nil {
		if mapped := domainError(err); mapped != nil {
			return nil, mapped
		}
		uc.logger.Errorw("failed to create ticket entity", "error", err)
		return nil, errors.NewInternalError("failed to create ticket")
	}

	events := t.PullEvents()
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.Create(txCtx, t); err != nil {
			return err
		}
		return uc.eventRepo.Append(txCtx, events)
	})
	if err != nil {
		uc.logger.Errorw("failed to save ticket", "schema_sid", s.SID(), "error", err)
		return nil, errors.NewInternalError("failed to save ticket")
	}

	uc.logger.Infow("ticket created successfully", "ticket_sid", t.SID(), "schema_sid", s.SID())
	publishEvents(ctx, uc.publisher, uc.logger, t.SID(), events)
	return dto.ToTicketDTO(t), nil
}
