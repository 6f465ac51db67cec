package ticket

import (
	"fmt"
	"time"

	"github.com/orris-inc/ticketflow/internal/domain/form"
)

// ValueKind is the persisted tag of a FlowValue.
type ValueKind string

const (
	ValueForm   ValueKind = "form"
	ValueReview ValueKind = "review"
)

// FlowValue is what was submitted on a flow item: FormValue or ReviewValue.
// A nil FlowValue means the item has not been answered.
type FlowValue interface {
	Kind() ValueKind
	isFlowValue()
}

type FormValue struct {
	Answers form.Answers
}

type ReviewValue struct {
	Approved bool
	Comment  string
}

func (FormValue) Kind() ValueKind   { return ValueForm }
func (ReviewValue) Kind() ValueKind { return ValueReview }

func (FormValue) isFlowValue()   {}
func (ReviewValue) isFlowValue() {}

// FlowItem is the per-ticket record of one schema step.
type FlowItem struct {
	id        uint
	sid       string
	stepSID   string
	stepOrder int
	userID    string
	roleID    string
	finished  bool
	value     FlowValue
	createdAt time.Time
	updatedAt time.Time
}

// FlowItemReconstructParams carries the persisted state of a flow item.
type FlowItemReconstructParams struct {
	ID        uint
	SID       string
	StepSID   string
	StepOrder int
	UserID    string
	RoleID    string
	Finished  bool
	Value     FlowValue
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ReconstructFlowItem(p FlowItemReconstructParams) (*FlowItem, error) {
	if p.SID == "" {
		return nil, fmt.Errorf("flow item sid is required")
	}
	if p.StepSID == "" {
		return nil, fmt.Errorf("flow item step sid is required")
	}
	if p.UserID == "" && p.RoleID == "" {
		return nil, fmt.Errorf("flow item %s has neither a user nor a role", p.SID)
	}
	return &FlowItem{
		id:        p.ID,
		sid:       p.SID,
		stepSID:   p.StepSID,
		stepOrder: p.StepOrder,
		userID:    p.UserID,
		roleID:    p.RoleID,
		finished:  p.Finished,
		value:     p.Value,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}, nil
}

func (i *FlowItem) ID() uint {
	return i.id
}

func (i *FlowItem) SetID(id uint) {
	i.id = id
}

func (i *FlowItem) SID() string {
	return i.sid
}

func (i *FlowItem) StepSID() string {
	return i.stepSID
}

func (i *FlowItem) StepOrder() int {
	return i.stepOrder
}

// UserID is the bound operator. It is empty while a role step waits for its
// first acting member.
func (i *FlowItem) UserID() string {
	return i.userID
}

// RoleID is set for items whose operator is picked from a role on process.
func (i *FlowItem) RoleID() string {
	return i.roleID
}

func (i *FlowItem) IsFinished() bool {
	return i.finished
}

func (i *FlowItem) Value() FlowValue {
	return i.value
}

func (i *FlowItem) CreatedAt() time.Time {
	return i.createdAt
}

func (i *FlowItem) UpdatedAt() time.Time {
	return i.updatedAt
}

// IsRoleBound reports whether any current member of RoleID may act.
func (i *FlowItem) IsRoleBound() bool {
	return i.userID == "" && i.roleID != ""
}

// Answers returns the stored form answers of a finished form item.
func (i *FlowItem) Answers() (form.Answers, bool) {
	v, ok := i.value.(FormValue)
	if !ok {
		return nil, false
	}
	return v.Answers, true
}

func (i *FlowItem) reset(now time.Time) {
	i.finished = false
	i.value = nil
	if i.roleID != "" {
		i.userID = ""
	}
	i.updatedAt = now
}
