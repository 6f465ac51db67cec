package schema

import (
	"fmt"
	"sync"

	"github.com/orris-inc/ticketflow/internal/domain/form"
)

// ModuleKind is the persisted tag of a Module.
type ModuleKind string

const (
	ModuleForm   ModuleKind = "form"
	ModuleReview ModuleKind = "review"
)

// Module is what a flow step asks its operator to do: fill a FormModule or
// decide a ReviewModule.
type Module interface {
	Kind() ModuleKind
	isModule()
}

type FormModule struct {
	Form *form.Form
}

// ReviewModule rejects back to the first step when Restarted is set and
// halts on the rejected step otherwise.
type ReviewModule struct {
	Restarted bool
}

func (FormModule) Kind() ModuleKind   { return ModuleForm }
func (ReviewModule) Kind() ModuleKind { return ModuleReview }

func (FormModule) isModule()   {}
func (ReviewModule) isModule() {}

// FlowStep is one stage of a schema.
type FlowStep struct {
	sid      string
	order    int
	operator Operator
	module   Module

	layoutOnce sync.Once
	layout     *form.Layout
	layoutErr  error
}

// ReconstructFlowStep rebuilds a persisted step.
func ReconstructFlowStep(sid string, order int, operator Operator, module Module) (*FlowStep, error) {
	if sid == "" {
		return nil, fmt.Errorf("flow step sid is required")
	}
	if module == nil {
		return nil, ErrModuleRequired
	}
	if operator == nil {
		operator = NoOperator{}
	}
	return &FlowStep{sid: sid, order: order, operator: operator, module: module}, nil
}

func (s *FlowStep) SID() string {
	return s.sid
}

func (s *FlowStep) Order() int {
	return s.order
}

func (s *FlowStep) Operator() Operator {
	return s.operator
}

func (s *FlowStep) Module() Module {
	return s.module
}

func (s *FlowStep) IsForm() bool {
	_, ok := s.module.(FormModule)
	return ok
}

// Form returns the step form, or nil for review steps.
func (s *FlowStep) Form() *form.Form {
	if m, ok := s.module.(FormModule); ok {
		return m.Form
	}
	return nil
}

// Review returns the review module of a review step.
func (s *FlowStep) Review() (ReviewModule, bool) {
	m, ok := s.module.(ReviewModule)
	return m, ok
}

// Layout compiles the step form once and caches the result.
func (s *FlowStep) Layout() (*form.Layout, error) {
	s.layoutOnce.Do(func() {
		f := s.Form()
		if f == nil {
			s.layoutErr = fmt.Errorf("step %s is not a form step", s.sid)
			return
		}
		s.layout, s.layoutErr = form.Compile(f)
	})
	return s.layout, s.layoutErr
}

// HasField reports whether this is a form step with the answerable field key.
func (s *FlowStep) HasField(key string) bool {
	f := s.Form()
	if f == nil {
		return false
	}
	_, ok := f.Field(key)
	return ok
}
