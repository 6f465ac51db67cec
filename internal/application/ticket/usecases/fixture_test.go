package usecases

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/application/assignment"
	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/domain/user"
	uservo "github.com/orris-inc/ticketflow/internal/domain/user/valueobjects"
	"github.com/orris-inc/ticketflow/internal/infrastructure/lock"
	permissioninfra "github.com/orris-inc/ticketflow/internal/infrastructure/permission"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/testdb"
	"github.com/orris-inc/ticketflow/internal/infrastructure/repository"
	"github.com/orris-inc/ticketflow/internal/shared/db"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// env wires the ticket use cases to real repositories on an in-memory database.
type env struct {
	db       *gorm.DB
	schemas  *repository.SchemaRepository
	tickets  *repository.TicketRepository
	events   *repository.EventRepository
	subs     *repository.SubmissionRepository
	users    *repository.UserRepository
	roles    *repository.RoleRepository
	blobs    *repository.BlobRepository
	enforcer *permissioninfra.Enforcer
	resolver *assignment.Resolver
	tx       *db.TransactionManager
	log      logger.Interface
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gdb := testdb.Open(t)
	log := logger.NewNop()

	enforcer, err := permissioninfra.NewEnforcer(gdb, log)
	require.NoError(t, err)

	e := &env{
		db:       gdb,
		schemas:  repository.NewSchemaRepository(gdb, log),
		tickets:  repository.NewTicketRepository(gdb, log),
		events:   repository.NewEventRepository(gdb),
		subs:     repository.NewSubmissionRepository(gdb),
		users:    repository.NewUserRepository(gdb, log),
		roles:    repository.NewRoleRepository(gdb),
		blobs:    repository.NewBlobRepository(gdb),
		enforcer: enforcer,
		tx:       db.NewTransactionManager(gdb),
		log:      log,
	}
	e.resolver = assignment.NewResolver(e.users, e.roles, enforcer, log)
	return e
}

func (e *env) addUser(t *testing.T, name string) string {
	t.Helper()
	email, err := uservo.NewEmail(strings.ToLower(name) + "@example.com")
	require.NoError(t, err)
	u, err := user.NewUser(name, email)
	require.NoError(t, err)
	require.NoError(t, e.users.Create(context.Background(), u))
	return u.SID()
}

func (e *env) deactivate(t *testing.T, sid string) {
	t.Helper()
	u, err := e.users.GetBySID(context.Background(), sid)
	require.NoError(t, err)
	u.Deactivate()
	require.NoError(t, e.users.Update(context.Background(), u))
}

func (e *env) addRole(t *testing.T, name string, members ...string) string {
	t.Helper()
	r, err := permission.NewRole(name, "")
	require.NoError(t, err)
	require.NoError(t, e.roles.Create(context.Background(), r))
	for _, m := range members {
		require.NoError(t, e.enforcer.AddRoleForUser(m, r.SID()))
	}
	return r.SID()
}

func (e *env) publish(t *testing.T, d schema.Draft) *schema.TicketSchema {
	t.Helper()
	s, err := schema.NewTicketSchema(d)
	require.NoError(t, err)
	require.NoError(t, e.schemas.Create(context.Background(), s))
	return s
}

// accessSchema is a requester form followed by a review of roleID.
func (e *env) accessSchema(t *testing.T, roleID string, restarted bool) *schema.TicketSchema {
	t.Helper()
	return e.publish(t, schema.Draft{
		TitleEn: "Access request",
		Steps: []schema.StepDraft{
			{Ref: "apply", Operator: schema.NoOperator{}, Form: form.NewForm([]*form.Field{
				{Key: "reason", Required: true, Editable: true, Define: &form.SingleLineText{MaxTexts: 100}},
				{Key: "team", Editable: true, Define: &form.SingleLineText{MaxTexts: 50}},
			}, nil)},
			{Ref: "approve", Operator: schema.RoleOperator{RoleID: roleID}, Review: &schema.ReviewModule{Restarted: restarted}},
		},
	})
}

func (e *env) createUC() *CreateTicketUseCase {
	return NewCreateTicketUseCase(e.schemas, e.tickets, e.events, e.users, e.resolver, e.tx, e.log)
}

func (e *env) getUC() *GetTicketUseCase {
	return NewGetTicketUseCase(e.schemas, e.tickets, e.resolver, e.enforcer, e.log)
}

func (e *env) historyUC() *GetTicketHistoryUseCase {
	return NewGetTicketHistoryUseCase(e.schemas, e.tickets, e.events, e.resolver, e.enforcer, e.log)
}

func (e *env) listUC() *ListTicketsUseCase {
	return NewListTicketsUseCase(e.schemas, e.tickets, e.enforcer, e.enforcer, e.log)
}

func (e *env) processUC() *ProcessTicketUseCase {
	return e.processUCWith(e.tickets, e.events)
}

func (e *env) processUCWith(tickets ticket.TicketRepository, events ticket.EventRepository) *ProcessTicketUseCase {
	return NewProcessTicketUseCase(
		e.schemas, tickets, events, e.subs, e.blobs,
		e.resolver, e.enforcer, lock.NewMemoryLocker(time.Second), e.tx, e.log,
	)
}

func (e *env) create(t *testing.T, s *schema.TicketSchema, requester string) string {
	t.Helper()
	out, err := e.createUC().Execute(context.Background(), CreateTicketCommand{
		SchemaSID:   s.SID(),
		RequesterID: requester,
		Title:       "Need access",
	})
	require.NoError(t, err)
	return out.ID
}

func (e *env) reload(t *testing.T, sid string) *ticket.Ticket {
	t.Helper()
	tk, err := e.tickets.GetBySID(context.Background(), sid)
	require.NoError(t, err)
	require.NotNil(t, tk)
	return tk
}

func formCmd(ticketSID, actor string, answers form.Answers) ProcessTicketCommand {
	return ProcessTicketCommand{TicketSID: ticketSID, ActorID: actor, Form: answers}
}

func reviewCmd(ticketSID, actor string, approved bool, comment string) ProcessTicketCommand {
	return ProcessTicketCommand{
		TicketSID: ticketSID,
		ActorID:   actor,
		Review:    &ReviewInput{Approved: approved, Comment: comment},
	}
}

// failingEvents rejects every append so the surrounding transaction rolls back.
type failingEvents struct {
	ticket.EventRepository
}

func (failingEvents) Append(ctx context.Context, events []ticket.FlowEvent) error {
	return context.DeadlineExceeded
}

// racingTickets lets another writer update the ticket right after it was read.
type racingTickets struct {
	*repository.TicketRepository
	race func()
}

func (r *racingTickets) GetBySID(ctx context.Context, sid string) (*ticket.Ticket, error) {
	t, err := r.TicketRepository.GetBySID(ctx, sid)
	if r.race != nil {
		race := r.race
		r.race = nil
		race()
	}
	return t, err
}

type recordingPublisher struct {
	kinds []ticket.EventKind
}

func (p *recordingPublisher) PublishTicketEvents(_ context.Context, _ string, events []ticket.FlowEvent) error {
	for _, e := range events {
		p.kinds = append(p.kinds, e.Kind)
	}
	return nil
}
