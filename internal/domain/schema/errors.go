package schema

import (
	"errors"
	"fmt"
)

var (
	ErrSchemaNotFound     = errors.New("ticket schema not found")
	ErrTitleRequired      = errors.New("schema title is required")
	ErrNoSteps            = errors.New("schema needs at least one step")
	ErrDuplicateStepOrder = errors.New("duplicate step order")
	ErrModuleRequired     = errors.New("step needs exactly one module")
	ErrInvalidOperator    = errors.New("invalid step operator")
	ErrInvalidForm        = errors.New("invalid step form")
	ErrInvalidDynamicRef  = errors.New("invalid dynamic default reference")
	ErrDuplicateStepRef   = errors.New("duplicate step ref")
	ErrStepNotFound       = errors.New("flow step not found")
)

// StepError ties a publish failure to the draft step that caused it.
type StepError struct {
	Position int
	Ref      string
	Err      error
}

func (e *StepError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("step %d (%s): %v", e.Position, e.Ref, e.Err)
	}
	return fmt.Sprintf("step %d: %v", e.Position, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepErr(pos int, ref string, err error) error {
	return &StepError{Position: pos, Ref: ref, Err: err}
}
