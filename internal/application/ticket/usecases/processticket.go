package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/orris-inc/ticketflow/internal/application/assignment"
	"github.com/orris-inc/ticketflow/internal/application/ticket/dto"
	"github.com/orris-inc/ticketflow/internal/domain/blob"
	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/infrastructure/lock"
	"github.com/orris-inc/ticketflow/internal/shared/biztime"
	"github.com/orris-inc/ticketflow/internal/shared/db"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type ReviewInput struct {
	Approved bool
	Comment  string
}

// ProcessTicketCommand submits the current flow. Exactly one of Form and
// Review is set.
type ProcessTicketCommand struct {
	TicketSID      string
	ActorID        string
	IdempotencyKey string
	Form           form.Answers
	Review         *ReviewInput
}

type ProcessTicketResult struct {
	Ticket  *dto.TicketDTO
	Outcome string
	// Replayed is true when the idempotency key was seen before and nothing changed.
	Replayed bool
}

type ProcessTicketUseCase struct {
	view           *ticketView
	eventRepo      ticket.EventRepository
	submissionRepo ticket.SubmissionRepository
	blobRepo       blob.Repository
	locker         lock.Locker
	txManager      db.Transactor
	publisher      TicketEventPublisher
	logger         logger.Interface
}

func NewProcessTicketUseCase(
	schemaRepo schema.Repository,
	ticketRepo ticket.TicketRepository,
	eventRepo ticket.EventRepository,
	submissionRepo ticket.SubmissionRepository,
	blobRepo blob.Repository,
	resolver *assignment.Resolver,
	authz Authorizer,
	locker lock.Locker,
	txManager db.Transactor,
	logger logger.Interface,
) *ProcessTicketUseCase {
	return &ProcessTicketUseCase{
		view: &ticketView{
			schemaRepo: schemaRepo,
			ticketRepo: ticketRepo,
			resolver:   resolver,
			authz:      authz,
			logger:     logger,
		},
		eventRepo:      eventRepo,
		submissionRepo: submissionRepo,
		blobRepo:       blobRepo,
		locker:         locker,
		txManager:      txManager,
		logger:         logger,
	}
}

// SetEventPublisher sets the optional publisher for committed flow events.
func (uc *ProcessTicketUseCase) SetEventPublisher(p TicketEventPublisher) {
	uc.publisher = p
}

func (uc *ProcessTicketUseCase) Execute(ctx context.Context, cmd ProcessTicketCommand) (*ProcessTicketResult, error) {
	uc.logger.Infow("executing process ticket use case", "ticket_sid", cmd.TicketSID, "actor_id", cmd.ActorID)

	if (cmd.Form == nil) == (cmd.Review == nil) {
		return nil, errors.NewValidationError("submission needs exactly one of form or review")
	}

	unlock, err := uc.locker.Lock(ctx, "ticket:"+cmd.TicketSID)
	if err != nil {
		if stderrors.Is(err, lock.ErrLockTimeout) {
			return nil, errors.NewConflictError("ticket is being processed, retry later")
		}
		uc.logger.Errorw("failed to lock ticket", "ticket_sid", cmd.TicketSID, "error", err)
		return nil, errors.NewInternalError("failed to lock ticket")
	}
	defer unlock()

	t, s, err := uc.view.load(ctx, cmd.TicketSID)
	if err != nil {
		return nil, err
	}

	// Replays are answered before the finished check, so retrying the call
	// that finished a ticket still succeeds.
	if cmd.IdempotencyKey != "" {
		seen, err := uc.submissionRepo.Exists(ctx, t.SID(), cmd.IdempotencyKey)
		if err != nil {
			uc.logger.Errorw("failed to check idempotency key", "ticket_sid", t.SID(), "error", err)
			return nil, errors.NewInternalError("failed to check idempotency key")
		}
		if seen {
			uc.logger.Infow("submission replayed", "ticket_sid", t.SID(), "idempotency_key", cmd.IdempotencyKey)
			if err := uc.view.authorizeView(ctx, t, cmd.ActorID); err != nil {
				return nil, err
			}
			out, err := uc.view.render(ctx, t, s, cmd.ActorID)
			if err != nil {
				return nil, err
			}
			return &ProcessTicketResult{Ticket: out, Replayed: true}, nil
		}
	}

	isMember, err := uc.memberCheck(ctx, t, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	item, err := t.CheckActor(cmd.ActorID, isMember)
	if err != nil {
		uc.logger.Warnw("process rejected", "ticket_sid", t.SID(), "actor_id", cmd.ActorID, "error", err)
		return nil, domainError(err)
	}
	step, ok := s.Step(item.StepSID())
	if !ok {
		uc.logger.Errorw("flow item has no schema step", "ticket_sid", t.SID(), "step_sid", item.StepSID())
		return nil, errors.NewInternalError("ticket does not match its schema")
	}

	sub, err := uc.buildSubmission(ctx, t, step, cmd)
	if err != nil {
		return nil, err
	}

	outcome, err := t.Process(step, cmd.ActorID, sub, isMember)
	if err != nil {
		if mapped := domainError(err); mapped != nil {
			return nil, mapped
		}
		uc.logger.Errorw("failed to process ticket", "ticket_sid", t.SID(), "error", err)
		return nil, errors.NewInternalError("failed to process ticket")
	}

	events := t.PullEvents()
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.view.ticketRepo.Update(txCtx, t); err != nil {
			return err
		}
		if err := uc.eventRepo.Append(txCtx, events); err != nil {
			return err
		}
		if cmd.IdempotencyKey != "" {
			return uc.submissionRepo.Record(txCtx, t.SID(), cmd.IdempotencyKey)
		}
		return nil
	})
	if err != nil {
		if mapped := domainError(err); mapped != nil {
			uc.logger.Warnw("process not applied", "ticket_sid", t.SID(), "error", err)
			return nil, mapped
		}
		uc.logger.Errorw("failed to save processed ticket", "ticket_sid", t.SID(), "error", err)
		return nil, errors.NewInternalError("failed to save ticket")
	}

	uc.logger.Infow("ticket processed",
		"ticket_sid", t.SID(),
		"step_sid", step.SID(),
		"outcome", outcome,
		"status", t.Status(),
	)
	publishEvents(ctx, uc.publisher, uc.logger, t.SID(), events)

	out, err := uc.view.render(ctx, t, s, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	return &ProcessTicketResult{Ticket: out, Outcome: string(outcome)}, nil
}

// memberCheck answers role membership for the role of the current item only.
func (uc *ProcessTicketUseCase) memberCheck(ctx context.Context, t *ticket.Ticket, actor string) (ticket.MemberCheck, error) {
	item := t.CurrentItem()
	if item == nil || !item.IsRoleBound() {
		return nil, nil
	}
	roleID := item.RoleID()
	member, err := uc.view.resolver.IsMember(ctx, actor, roleID)
	if err != nil {
		return nil, err
	}
	return func(r string) bool { return member && r == roleID }, nil
}

func (uc *ProcessTicketUseCase) buildSubmission(
	ctx context.Context,
	t *ticket.Ticket,
	step *schema.FlowStep,
	cmd ProcessTicketCommand,
) (ticket.Submission, error) {
	if cmd.Review != nil {
		if step.IsForm() {
			return nil, domainError(ticket.ErrModuleMismatch)
		}
		return ticket.ReviewSubmission{Approved: cmd.Review.Approved, Comment: cmd.Review.Comment}, nil
	}

	if !step.IsForm() {
		return nil, domainError(ticket.ErrModuleMismatch)
	}
	f := step.Form()
	if f.Expired(biztime.NowUTC()) {
		return nil, errors.NewValidationError("form is no longer accepting submissions",
			"expired at "+f.ExpiresAt.Format(time.RFC3339))
	}
	layout, err := step.Layout()
	if err != nil {
		uc.logger.Errorw("stored form does not compile", "step_sid", step.SID(), "error", err)
		return nil, errors.NewInternalError("ticket does not match its schema")
	}

	r, err := loadDefaults(ctx, uc.view.ticketRepo, uc.logger, t, f)
	if err != nil {
		return nil, err
	}

	blobs := form.Blobs{}
	if refs := layout.BlobRefs(cmd.Form, r); len(refs) > 0 {
		found, err := uc.blobRepo.GetBySIDs(ctx, refs)
		if err != nil {
			uc.logger.Errorw("failed to load blobs", "ticket_sid", t.SID(), "error", err)
			return nil, errors.NewInternalError("failed to load attachments")
		}
		for sid, b := range found {
			blobs[sid] = b.FormBlob()
		}
	}

	answers, err := layout.ValidateSubmission(cmd.Form, r, blobs)
	if err != nil {
		uc.logger.Infow("submission has invalid fields", "ticket_sid", t.SID(), "error", err)
		return nil, domainError(err)
	}
	return ticket.FormSubmission{Answers: answers}, nil
}
