package ticket

import (
	"fmt"
	"sort"
	"time"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	vo "github.com/orris-inc/ticketflow/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/ticketflow/internal/shared/biztime"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/id"
	"github.com/orris-inc/ticketflow/internal/shared/textutil"
)

// Binding is the resolved operator of one schema step at instantiation.
// Exactly one of UserID and RoleID is set; a RoleID leaves the item open to
// every member of that role until one of them acts.
type Binding struct {
	UserID string
	RoleID string
}

// Submission is what an actor sends for the current step.
type Submission interface {
	Module() schema.ModuleKind
	isSubmission()
}

// FormSubmission carries answers that were already validated and normalized
// against the step form.
type FormSubmission struct {
	Answers form.Answers
}

type ReviewSubmission struct {
	Approved bool
	Comment  string
}

func (FormSubmission) Module() schema.ModuleKind   { return schema.ModuleForm }
func (ReviewSubmission) Module() schema.ModuleKind { return schema.ModuleReview }

func (FormSubmission) isSubmission()   {}
func (ReviewSubmission) isSubmission() {}

// MemberCheck reports whether the acting user currently belongs to roleID.
type MemberCheck func(roleID string) bool

// Outcome describes the transition a successful Process applied.
type Outcome string

const (
	OutcomeAdvanced  Outcome = "advanced"
	OutcomeFinished  Outcome = "finished"
	OutcomeRestarted Outcome = "restarted"
	OutcomeHalted    Outcome = "halted"
)

// Ticket is a live instance of a schema.
type Ticket struct {
	id          uint
	sid         string
	schemaSID   string
	requesterID string
	title       string
	status      vo.TicketStatus
	version     int
	items       []*FlowItem
	createdAt   time.Time
	updatedAt   time.Time
	finishedAt  *time.Time
	events      []FlowEvent
}

// NewTicket instantiates s with one unfinished flow item per step.
// bindings holds one entry per step in schema order.
func NewTicket(s *schema.TicketSchema, requesterID, title string, bindings []Binding) (*Ticket, error) {
	if s == nil {
		return nil, fmt.Errorf("schema is required")
	}
	if requesterID == "" {
		return nil, fmt.Errorf("requester ID is required")
	}
	title = textutil.Truncate(textutil.Clean(title), constants.MaxTicketTitleLength)
	if title == "" {
		return nil, ErrTitleRequired
	}
	steps := s.Steps()
	if len(bindings) != len(steps) {
		return nil, fmt.Errorf("%w: got %d for %d steps", ErrBindingMismatch, len(bindings), len(steps))
	}

	now := biztime.NowUTC()
	items := make([]*FlowItem, len(steps))
	for i, step := range steps {
		b := bindings[i]
		if (b.UserID == "") == (b.RoleID == "") {
			return nil, fmt.Errorf("%w: step %s needs either a user or a role", ErrBindingMismatch, step.SID())
		}
		items[i] = &FlowItem{
			sid:       id.NewFlowItemID(),
			stepSID:   step.SID(),
			stepOrder: step.Order(),
			userID:    b.UserID,
			roleID:    b.RoleID,
			createdAt: now,
			updatedAt: now,
		}
	}

	t := &Ticket{
		sid:         id.NewTicketID(),
		schemaSID:   s.SID(),
		requesterID: requesterID,
		title:       title,
		status:      vo.StatusPending,
		version:     1,
		items:       items,
		createdAt:   now,
		updatedAt:   now,
	}
	t.record(NewFlowEvent(t.sid, nil, requesterID, EventCreated, "", nil, now))
	return t, nil
}

// TicketReconstructParams carries the persisted state of a ticket.
type TicketReconstructParams struct {
	ID          uint
	SID         string
	SchemaSID   string
	RequesterID string
	Title       string
	Status      vo.TicketStatus
	Version     int
	Items       []*FlowItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FinishedAt  *time.Time
}

func ReconstructTicket(p TicketReconstructParams) (*Ticket, error) {
	if p.SID == "" {
		return nil, fmt.Errorf("ticket sid is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}
	if len(p.Items) == 0 {
		return nil, fmt.Errorf("ticket %s has no flow items", p.SID)
	}
	items := make([]*FlowItem, len(p.Items))
	copy(items, p.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].stepOrder < items[j].stepOrder })

	return &Ticket{
		id:          p.ID,
		sid:         p.SID,
		schemaSID:   p.SchemaSID,
		requesterID: p.RequesterID,
		title:       p.Title,
		status:      p.Status,
		version:     p.Version,
		items:       items,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
		finishedAt:  p.FinishedAt,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) SID() string {
	return t.sid
}

func (t *Ticket) SchemaSID() string {
	return t.schemaSID
}

func (t *Ticket) RequesterID() string {
	return t.requesterID
}

func (t *Ticket) Title() string {
	return t.title
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) IsFinished() bool {
	return t.status.IsFinished()
}

func (t *Ticket) Version() int {
	return t.version
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Ticket) FinishedAt() *time.Time {
	return t.finishedAt
}

// Items returns the flow items in step order.
func (t *Ticket) Items() []*FlowItem {
	out := make([]*FlowItem, len(t.items))
	copy(out, t.items)
	return out
}

// CurrentItem is the first unfinished item, or nil when the ticket is finished.
func (t *Ticket) CurrentItem() *FlowItem {
	for _, item := range t.items {
		if !item.finished {
			return item
		}
	}
	return nil
}

// IsParticipant reports whether userID requested the ticket or is bound to any item.
func (t *Ticket) IsParticipant(userID string) bool {
	if t.requesterID == userID {
		return true
	}
	for _, item := range t.items {
		if item.userID == userID {
			return true
		}
	}
	return false
}

// LocalAnswer finds the answer to key stored by a finished form item of this
// ticket. An empty stepSID searches every item, latest step first.
func (t *Ticket) LocalAnswer(stepSID, key string) (form.Value, bool) {
	for i := len(t.items) - 1; i >= 0; i-- {
		item := t.items[i]
		if !item.finished || (stepSID != "" && item.stepSID != stepSID) {
			continue
		}
		if answers, ok := item.Answers(); ok {
			if v, ok := answers.Get(key); ok {
				return v, true
			}
		}
	}
	return form.Value{}, false
}

// CheckActor returns the current item when actor may act on it.
func (t *Ticket) CheckActor(actor string, isMember MemberCheck) (*FlowItem, error) {
	item := t.CurrentItem()
	if item == nil || t.status.IsFinished() {
		return nil, ErrAlreadyFinished
	}
	if item.userID != "" {
		if item.userID != actor {
			return nil, ErrNotOperator
		}
		return item, nil
	}
	if item.roleID == "" || isMember == nil || !isMember(item.roleID) {
		return nil, ErrNotOperator
	}
	return item, nil
}

// Process applies sub to the current item. Every precondition is checked
// before any state changes, so a failed call leaves the ticket untouched.
func (t *Ticket) Process(step *schema.FlowStep, actor string, sub Submission, isMember MemberCheck) (Outcome, error) {
	item, err := t.CheckActor(actor, isMember)
	if err != nil {
		return "", err
	}
	if step == nil || step.SID() != item.stepSID {
		return "", ErrStepMismatch
	}
	if sub == nil || sub.Module() != step.Module().Kind() {
		return "", ErrModuleMismatch
	}

	now := biztime.NowUTC()
	var outcome Outcome

	switch s := sub.(type) {
	case FormSubmission:
		value := FormValue{Answers: s.Answers.Clone()}
		t.finishItem(item, actor, value, now)
		t.record(NewFlowEvent(t.sid, item, actor, EventSubmitted, "", value, now))
		outcome = t.advance(actor, now)

	case ReviewSubmission:
		comment := textutil.Truncate(textutil.Clean(s.Comment), constants.MaxReviewCommentLength)
		value := ReviewValue{Approved: s.Approved, Comment: comment}
		review, _ := step.Review()

		switch {
		case s.Approved:
			t.finishItem(item, actor, value, now)
			t.record(NewFlowEvent(t.sid, item, actor, EventApproved, comment, value, now))
			outcome = t.advance(actor, now)
		case review.Restarted:
			t.record(NewFlowEvent(t.sid, item, actor, EventRejected, comment, value, now))
			for _, it := range t.items {
				it.reset(now)
			}
			t.setStatus(vo.StatusPending)
			t.record(NewFlowEvent(t.sid, item, actor, EventRestarted, "", nil, now))
			outcome = OutcomeRestarted
		default:
			item.value = value
			item.updatedAt = now
			t.setStatus(vo.StatusInProgress)
			t.record(NewFlowEvent(t.sid, item, actor, EventRejected, comment, value, now))
			outcome = OutcomeHalted
		}
	}

	t.updatedAt = now
	t.version++
	return outcome, nil
}

func (t *Ticket) finishItem(item *FlowItem, actor string, value FlowValue, now time.Time) {
	item.value = value
	item.finished = true
	item.userID = actor
	item.updatedAt = now
}

func (t *Ticket) advance(actor string, now time.Time) Outcome {
	if t.CurrentItem() != nil {
		t.setStatus(vo.StatusInProgress)
		return OutcomeAdvanced
	}
	t.setStatus(vo.StatusFinished)
	t.finishedAt = &now
	t.record(NewFlowEvent(t.sid, nil, actor, EventFinished, "", nil, now))
	return OutcomeFinished
}

// setStatus moves along the status graph. Staying in_progress is allowed.
func (t *Ticket) setStatus(next vo.TicketStatus) {
	if t.status == next && !next.IsInProgress() {
		return
	}
	if !t.status.CanTransitionTo(next) {
		panic(fmt.Sprintf("ticket %s: illegal status transition %s -> %s", t.sid, t.status, next))
	}
	t.status = next
}

func (t *Ticket) record(e FlowEvent) {
	t.events = append(t.events, e)
}

// PullEvents returns the history entries recorded since the last call.
func (t *Ticket) PullEvents() []FlowEvent {
	events := t.events
	t.events = nil
	return events
}
