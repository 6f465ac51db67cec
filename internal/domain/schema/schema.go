package schema

import (
	"fmt"
	"sort"
	"time"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/shared/biztime"
	"github.com/orris-inc/ticketflow/internal/shared/id"
	"github.com/orris-inc/ticketflow/internal/shared/textutil"
)

const maxTitleLength = 200

// StepDraft is an unpublished step. Ref is a draft-local name that dynamic
// defaults of later steps may use as their step id. Exactly one of Form and
// Review must be set.
type StepDraft struct {
	Ref      string
	Order    *int
	Operator Operator
	Form     *form.Form
	Review   *ReviewModule
}

// Draft is the input of a publish.
type Draft struct {
	TitleZh       string
	TitleEn       string
	DescriptionZh string
	DescriptionEn string
	Steps         []StepDraft
}

// TicketSchema is an immutable published template. It has no mutators.
type TicketSchema struct {
	id            uint
	sid           string
	titleZh       string
	titleEn       string
	descriptionZh string
	descriptionEn string
	steps         []*FlowStep
	createdAt     time.Time
	updatedAt     time.Time
}

// NewTicketSchema validates a draft and freezes it into a schema: steps are
// ordered by (order, draft position) and renumbered densely, every form is
// compiled and same-schema dynamic defaults are bound to generated step ids.
// Operator existence and cross-schema references are checked by the caller.
func NewTicketSchema(d Draft) (*TicketSchema, error) {
	titleZh := textutil.Truncate(textutil.Clean(d.TitleZh), maxTitleLength)
	titleEn := textutil.Truncate(textutil.Clean(d.TitleEn), maxTitleLength)
	if titleZh == "" && titleEn == "" {
		return nil, ErrTitleRequired
	}
	if len(d.Steps) == 0 {
		return nil, ErrNoSteps
	}

	positions := make([]int, len(d.Steps))
	seenOrder := make(map[int]int)
	seenRef := make(map[string]int)
	for pos, sd := range d.Steps {
		positions[pos] = pos
		if sd.Order != nil {
			if prev, dup := seenOrder[*sd.Order]; dup {
				return nil, stepErr(pos, sd.Ref, fmt.Errorf("%w: %d is also used by step %d", ErrDuplicateStepOrder, *sd.Order, prev))
			}
			seenOrder[*sd.Order] = pos
		}
		if sd.Ref != "" {
			if _, dup := seenRef[sd.Ref]; dup {
				return nil, stepErr(pos, sd.Ref, ErrDuplicateStepRef)
			}
			seenRef[sd.Ref] = pos
		}
		if (sd.Form == nil) == (sd.Review == nil) {
			return nil, stepErr(pos, sd.Ref, ErrModuleRequired)
		}
	}

	sortKey := func(pos int) int {
		if o := d.Steps[pos].Order; o != nil {
			return *o
		}
		return pos
	}
	sort.SliceStable(positions, func(i, j int) bool {
		ki, kj := sortKey(positions[i]), sortKey(positions[j])
		if ki != kj {
			return ki < kj
		}
		return positions[i] < positions[j]
	})

	refToSID := make(map[string]string, len(seenRef))
	sids := make([]string, len(positions))
	for i, pos := range positions {
		sids[i] = id.NewFlowStepID()
		if ref := d.Steps[pos].Ref; ref != "" {
			refToSID[ref] = sids[i]
		}
	}

	steps := make([]*FlowStep, 0, len(positions))
	for order, pos := range positions {
		sd := d.Steps[pos]

		operator := sd.Operator
		if operator == nil {
			operator = NoOperator{}
		}
		if _, err := NewOperator(operator.Kind(), operator.Ref()); err != nil {
			return nil, stepErr(pos, sd.Ref, err)
		}

		var module Module
		if sd.Form != nil {
			if err := bindLocalRefs(sd.Form, steps, refToSID); err != nil {
				return nil, stepErr(pos, sd.Ref, err)
			}
			module = FormModule{Form: form.NewForm(sd.Form.Fields, sd.Form.ExpiresAt)}
		} else {
			module = *sd.Review
		}

		step := &FlowStep{sid: sids[order], order: order, operator: operator, module: module}
		if step.IsForm() {
			if _, err := step.Layout(); err != nil {
				return nil, stepErr(pos, sd.Ref, fmt.Errorf("%w: %w", ErrInvalidForm, err))
			}
		}
		steps = append(steps, step)
	}

	now := biztime.NowUTC()
	return &TicketSchema{
		sid:           id.NewSchemaID(),
		titleZh:       titleZh,
		titleEn:       titleEn,
		descriptionZh: textutil.Clean(d.DescriptionZh),
		descriptionEn: textutil.Clean(d.DescriptionEn),
		steps:         steps,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// bindLocalRefs rewrites same-schema dynamic defaults of f so their step id
// is a generated sid, and checks they point at an answerable field of an
// earlier form step.
func bindLocalRefs(f *form.Form, earlier []*FlowStep, refToSID map[string]string) error {
	bind := func(d form.DynamicDefault) (form.DynamicDefault, error) {
		if d.SchemaID != "" {
			return d, nil
		}
		if d.StepID == "" {
			for _, s := range earlier {
				if s.HasField(d.FieldKey) {
					return d, nil
				}
			}
			return d, fmt.Errorf("%w: no earlier form step has field %q", ErrInvalidDynamicRef, d.FieldKey)
		}
		sid, ok := refToSID[d.StepID]
		if !ok {
			return d, fmt.Errorf("%w: unknown step %q", ErrInvalidDynamicRef, d.StepID)
		}
		for _, s := range earlier {
			if s.sid != sid {
				continue
			}
			if !s.HasField(d.FieldKey) {
				return d, fmt.Errorf("%w: step %q has no field %q", ErrInvalidDynamicRef, d.StepID, d.FieldKey)
			}
			d.StepID = sid
			return d, nil
		}
		return d, fmt.Errorf("%w: step %q is not an earlier form step", ErrInvalidDynamicRef, d.StepID)
	}

	for _, field := range f.Fields {
		if field == nil {
			continue
		}
		if d, ok := field.Default.(form.DynamicDefault); ok {
			bound, err := bind(d)
			if err != nil {
				return fmt.Errorf("field %q: %w", field.Key, err)
			}
			field.Default = bound
		}
		if cond, ok := field.Define.(*form.IfEqual); ok {
			if d, ok := cond.From.(form.DynamicDefault); ok {
				bound, err := bind(d)
				if err != nil {
					return fmt.Errorf("field %q: %w", field.Key, err)
				}
				cond.From = bound
			}
		}
	}
	return nil
}

// TicketSchemaReconstructParams carries the persisted state of a schema.
type TicketSchemaReconstructParams struct {
	ID            uint
	SID           string
	TitleZh       string
	TitleEn       string
	DescriptionZh string
	DescriptionEn string
	Steps         []*FlowStep
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func ReconstructTicketSchema(p TicketSchemaReconstructParams) (*TicketSchema, error) {
	if p.SID == "" {
		return nil, fmt.Errorf("schema sid is required")
	}
	if len(p.Steps) == 0 {
		return nil, ErrNoSteps
	}
	steps := make([]*FlowStep, len(p.Steps))
	copy(steps, p.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].order < steps[j].order })

	return &TicketSchema{
		id:            p.ID,
		sid:           p.SID,
		titleZh:       p.TitleZh,
		titleEn:       p.TitleEn,
		descriptionZh: p.DescriptionZh,
		descriptionEn: p.DescriptionEn,
		steps:         steps,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}, nil
}

func (s *TicketSchema) ID() uint {
	return s.id
}

func (s *TicketSchema) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("schema ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("schema ID cannot be zero")
	}
	s.id = id
	return nil
}

func (s *TicketSchema) SID() string {
	return s.sid
}

func (s *TicketSchema) TitleZh() string {
	return s.titleZh
}

func (s *TicketSchema) TitleEn() string {
	return s.titleEn
}

func (s *TicketSchema) DescriptionZh() string {
	return s.descriptionZh
}

func (s *TicketSchema) DescriptionEn() string {
	return s.descriptionEn
}

func (s *TicketSchema) CreatedAt() time.Time {
	return s.createdAt
}

func (s *TicketSchema) UpdatedAt() time.Time {
	return s.updatedAt
}

// Steps returns the steps in order.
func (s *TicketSchema) Steps() []*FlowStep {
	out := make([]*FlowStep, len(s.steps))
	copy(out, s.steps)
	return out
}

func (s *TicketSchema) StepCount() int {
	return len(s.steps)
}

func (s *TicketSchema) FirstStep() *FlowStep {
	return s.steps[0]
}

func (s *TicketSchema) Step(sid string) (*FlowStep, bool) {
	for _, step := range s.steps {
		if step.sid == sid {
			return step, true
		}
	}
	return nil, false
}

// HasFormField reports whether the named step, or any form step when stepSID
// is empty, has the answerable field key.
func (s *TicketSchema) HasFormField(stepSID, key string) bool {
	for _, step := range s.steps {
		if stepSID != "" && step.sid != stepSID {
			continue
		}
		if step.HasField(key) {
			return true
		}
	}
	return false
}

// ExternalRefs returns the dynamic defaults that read another schema.
func (s *TicketSchema) ExternalRefs() []form.DynamicDefault {
	var out []form.DynamicDefault
	for _, step := range s.steps {
		f := step.Form()
		if f == nil {
			continue
		}
		for _, d := range f.DynamicDefaults() {
			if d.SchemaID != "" && d.SchemaID != s.sid {
				out = append(out, d)
			}
		}
	}
	return out
}
