package usecases

import (
	stderrors "errors"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
)

// domainError maps ticket domain failures onto the caller-facing taxonomy.
// Unknown errors come back as nil so the caller can log and wrap them.
func domainError(err error) error {
	var fieldErrs *form.FieldErrors
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &fieldErrs):
		fields := make([]errors.FieldViolation, len(fieldErrs.Errors))
		for i, fe := range fieldErrs.Errors {
			fields[i] = errors.FieldViolation{Key: fe.Key, Code: fe.Code, Message: fe.Message}
		}
		return errors.NewFieldErrors("submission has invalid fields", fields)
	case stderrors.Is(err, ticket.ErrAlreadyFinished):
		return errors.NewAlreadyFinishedError("ticket is already finished")
	case stderrors.Is(err, ticket.ErrNotOperator):
		return errors.NewForbiddenError("you cannot operate the current flow")
	case stderrors.Is(err, ticket.ErrModuleMismatch):
		return errors.NewValidationError("submission does not match the current flow module")
	case stderrors.Is(err, ticket.ErrStepMismatch):
		return errors.NewValidationError("submission targets a flow that is not current")
	case stderrors.Is(err, ticket.ErrVersionConflict):
		return errors.NewConflictError("ticket was changed concurrently, reload and retry")
	case stderrors.Is(err, ticket.ErrDuplicateSubmission):
		return errors.NewConflictError("submission was already applied")
	case stderrors.Is(err, ticket.ErrTitleRequired), stderrors.Is(err, ticket.ErrBindingMismatch):
		return errors.NewValidationError(err.Error())
	}
	return nil
}
