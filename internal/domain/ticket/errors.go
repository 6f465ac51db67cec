package ticket

import "errors"

var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTitleRequired       = errors.New("ticket title is required")
	ErrAlreadyFinished     = errors.New("ticket is already finished")
	ErrNotOperator         = errors.New("actor is not the operator of the current step")
	ErrModuleMismatch      = errors.New("submission does not match the current step")
	ErrStepMismatch        = errors.New("step does not match the current flow item")
	ErrBindingMismatch     = errors.New("one binding per schema step is required")
	ErrVersionConflict     = errors.New("ticket was modified concurrently")
	ErrDuplicateSubmission = errors.New("submission was already applied")
)
