package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/application/assignment"
	schemadto "github.com/orris-inc/ticketflow/internal/application/schema/dto"
	"github.com/orris-inc/ticketflow/internal/application/ticket/dto"
	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// Authorizer checks administrative permissions.
type Authorizer interface {
	Enforce(userID string, resource string, action string) (bool, error)
}

// ticketView loads tickets and renders them for one actor.
type ticketView struct {
	schemaRepo schema.Repository
	ticketRepo ticket.TicketRepository
	resolver   *assignment.Resolver
	authz      Authorizer
	logger     logger.Interface
}

func (v *ticketView) load(ctx context.Context, sid string) (*ticket.Ticket, *schema.TicketSchema, error) {
	if sid == "" {
		return nil, nil, errors.NewValidationError("ticket ID is required")
	}
	t, err := v.ticketRepo.GetBySID(ctx, sid)
	if err != nil {
		v.logger.Errorw("failed to get ticket", "ticket_sid", sid, "error", err)
		return nil, nil, errors.NewInternalError("failed to get ticket")
	}
	if t == nil {
		return nil, nil, errors.NewNotFoundError(ticket.ErrTicketNotFound.Error(), sid)
	}

	s, err := v.schemaRepo.GetBySID(ctx, t.SchemaSID())
	if err != nil || s == nil {
		v.logger.Errorw("failed to get ticket schema", "ticket_sid", sid, "schema_sid", t.SchemaSID(), "error", err)
		return nil, nil, errors.NewInternalError("failed to get ticket schema")
	}
	return t, s, nil
}

// canOperate reports whether actor may process the current item.
func (v *ticketView) canOperate(ctx context.Context, t *ticket.Ticket, actor string) (bool, error) {
	item := t.CurrentItem()
	if item == nil {
		return false, nil
	}
	if item.UserID() != "" {
		return item.UserID() == actor, nil
	}
	return v.resolver.IsMember(ctx, actor, item.RoleID())
}

// canView lets participants, members of roles still bound to the ticket and
// ticket managers read it.
func (v *ticketView) canView(ctx context.Context, t *ticket.Ticket, actor string) (bool, error) {
	if t.IsParticipant(actor) {
		return true, nil
	}

	checked := make(map[string]bool)
	for _, item := range t.Items() {
		if !item.IsRoleBound() || checked[item.RoleID()] {
			continue
		}
		checked[item.RoleID()] = true
		ok, err := v.resolver.IsMember(ctx, actor, item.RoleID())
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return v.isManager(actor)
}

func (v *ticketView) isManager(actor string) (bool, error) {
	ok, err := v.authz.Enforce(actor, constants.ResourceTicket, constants.ActionManage)
	if err != nil {
		v.logger.Errorw("failed to check permission", "user_id", actor, "error", err)
		return false, errors.NewInternalError("failed to check permission")
	}
	return ok, nil
}

func (v *ticketView) authorizeView(ctx context.Context, t *ticket.Ticket, actor string) error {
	ok, err := v.canView(ctx, t, actor)
	if err != nil {
		return err
	}
	if !ok {
		v.logger.Warnw("ticket access denied", "ticket_sid", t.SID(), "user_id", actor)
		return errors.NewForbiddenError("you cannot view this ticket")
	}
	return nil
}

// render builds the ticket DTO with the current flow as actor sees it.
func (v *ticketView) render(ctx context.Context, t *ticket.Ticket, s *schema.TicketSchema, actor string) (*dto.TicketDTO, error) {
	out := dto.ToTicketDTO(t)

	item := t.CurrentItem()
	if item == nil {
		return out, nil
	}
	step, ok := s.Step(item.StepSID())
	if !ok {
		v.logger.Errorw("flow item has no schema step", "ticket_sid", t.SID(), "step_sid", item.StepSID())
		return nil, errors.NewInternalError("ticket does not match its schema")
	}

	canOperate, err := v.canOperate(ctx, t, actor)
	if err != nil {
		return nil, err
	}
	current := &dto.CurrentFlowDTO{
		Flow:       schemadto.ToFlowStepDTO(step),
		ItemID:     item.SID(),
		CanOperate: canOperate,
	}

	if step.IsForm() {
		layout, err := step.Layout()
		if err != nil {
			v.logger.Errorw("stored form does not compile", "step_sid", step.SID(), "error", err)
			return nil, errors.NewInternalError("ticket does not match its schema")
		}
		r, err := loadDefaults(ctx, v.ticketRepo, v.logger, t, step.Form())
		if err != nil {
			return nil, err
		}
		current.Prefill = layout.Prefill(form.Answers{}, r)
		for _, f := range layout.VisibleFields(form.Answers{}, r) {
			current.VisibleFields = append(current.VisibleFields, f.Key)
		}
	}

	out.CurrentFlow = current
	return out, nil
}
