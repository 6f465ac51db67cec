package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	vo "github.com/orris-inc/ticketflow/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/testdb"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

func setupTicketRepo(t *testing.T) (*TicketRepository, *SchemaRepository) {
	t.Helper()
	gdb := testdb.Open(t)
	return NewTicketRepository(gdb, logger.NewNop()), NewSchemaRepository(gdb, logger.NewNop())
}

func TestTicketRepository_CreateAndGet(t *testing.T) {
	repo, schemas := setupTicketRepo(t)
	ctx := context.Background()

	s := accessSchema(t, schema.NoOperator{})
	createSchema(t, schemas, s)

	tk := newTicket(t, s)
	require.NoError(t, repo.Create(ctx, tk))
	assert.NotZero(t, tk.ID())
	for _, item := range tk.Items() {
		assert.NotZero(t, item.ID())
	}

	got, err := repo.GetBySID(ctx, tk.SID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tk.Title(), got.Title())
	assert.Equal(t, vo.StatusPending, got.Status())
	assert.Equal(t, 1, got.Version())
	require.Len(t, got.Items(), 2)
	assert.Equal(t, requester, got.Items()[0].UserID())
	assert.True(t, got.Items()[1].IsRoleBound())
	assert.Nil(t, got.Items()[0].Value())

	missing, err := repo.GetBySID(ctx, "tkt_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTicketRepository_UpdatePersistsProgress(t *testing.T) {
	repo, schemas := setupTicketRepo(t)
	ctx := context.Background()

	s := accessSchema(t, schema.NoOperator{})
	createSchema(t, schemas, s)
	tk := newTicket(t, s)
	require.NoError(t, repo.Create(ctx, tk))

	submit(t, tk, s, form.Answers{"reason": form.String("prod")})
	require.NoError(t, repo.Update(ctx, tk))

	got, err := repo.GetBySID(ctx, tk.SID())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version())
	assert.Equal(t, vo.StatusInProgress, got.Status())
	assert.True(t, got.Items()[0].IsFinished())

	answers, ok := got.Items()[0].Answers()
	require.True(t, ok)
	assert.Equal(t, form.String("prod"), answers["reason"])
	assert.Equal(t, tk.CurrentItem().SID(), got.CurrentItem().SID())
}

func TestTicketRepository_UpdateRejectsStaleVersion(t *testing.T) {
	repo, schemas := setupTicketRepo(t)
	ctx := context.Background()

	s := accessSchema(t, schema.NoOperator{})
	createSchema(t, schemas, s)
	tk := newTicket(t, s)
	require.NoError(t, repo.Create(ctx, tk))

	stale, err := repo.GetBySID(ctx, tk.SID())
	require.NoError(t, err)

	submit(t, tk, s, form.Answers{"reason": form.String("first")})
	require.NoError(t, repo.Update(ctx, tk))

	submit(t, stale, s, form.Answers{"reason": form.String("second")})
	assert.ErrorIs(t, repo.Update(ctx, stale), ticket.ErrVersionConflict)

	got, err := repo.GetBySID(ctx, tk.SID())
	require.NoError(t, err)
	answers, _ := got.Items()[0].Answers()
	assert.Equal(t, form.String("first"), answers["reason"])
}

func TestTicketRepository_ListFilters(t *testing.T) {
	repo, schemas := setupTicketRepo(t)
	ctx := context.Background()

	s := accessSchema(t, schema.NoOperator{})
	other := accessSchema(t, schema.NoOperator{})
	createSchema(t, schemas, s)
	createSchema(t, schemas, other)

	a := newTicket(t, s)
	b := newTicket(t, s, ticket.Binding{UserID: requester}, ticket.Binding{UserID: reviewer})
	c := newTicket(t, other)
	for _, tk := range []*ticket.Ticket{a, b, c} {
		require.NoError(t, repo.Create(ctx, tk))
	}
	submit(t, a, s, form.Answers{"reason": form.String("x")})
	require.NoError(t, repo.Update(ctx, a))

	schemaSID := s.SID()
	list, total, err := repo.List(ctx, ticket.TicketFilter{SchemaSID: &schemaSID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
	assert.Len(t, list[0].Items(), 2)

	status := vo.StatusInProgress
	list, total, err = repo.List(ctx, ticket.TicketFilter{Status: &status, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.SID(), list[0].SID())

	participant := reviewer
	list, total, err = repo.List(ctx, ticket.TicketFilter{ParticipantID: &participant, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, b.SID(), list[0].SID())

	participant = "usr_nobody"
	list, total, err = repo.List(ctx, ticket.TicketFilter{ParticipantID: &participant, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestTicketRepository_ListMatchesRoleBoundItems(t *testing.T) {
	repo, schemas := setupTicketRepo(t)
	ctx := context.Background()

	s := accessSchema(t, schema.NoOperator{})
	createSchema(t, schemas, s)

	byRole := newTicket(t, s)
	byUser := newTicket(t, s, ticket.Binding{UserID: requester}, ticket.Binding{UserID: reviewer})
	for _, tk := range []*ticket.Ticket{byRole, byUser} {
		require.NoError(t, repo.Create(ctx, tk))
	}

	member := "usr_member"
	list, total, err := repo.List(ctx, ticket.TicketFilter{
		ParticipantID:      &member,
		ParticipantRoleIDs: []string{reviewers},
		Page:               1,
		PageSize:           10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, byRole.SID(), list[0].SID())

	participant := reviewer
	_, total, err = repo.List(ctx, ticket.TicketFilter{
		ParticipantID:      &participant,
		ParticipantRoleIDs: []string{reviewers},
		Page:               1,
		PageSize:           10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.List(ctx, ticket.TicketFilter{
		ParticipantID:      &member,
		ParticipantRoleIDs: []string{"rol_other"},
		Page:               1,
		PageSize:           10,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTicketRepository_LatestAnswer(t *testing.T) {
	repo, schemas := setupTicketRepo(t)
	ctx := context.Background()

	s := accessSchema(t, schema.NoOperator{})
	createSchema(t, schemas, s)
	stepSID := s.Steps()[0].SID()

	_, ok, err := repo.LatestAnswer(ctx, requester, s.SID(), stepSID, "team")
	require.NoError(t, err)
	assert.False(t, ok)

	older := newTicket(t, s)
	require.NoError(t, repo.Create(ctx, older))
	submit(t, older, s, form.Answers{"reason": form.String("a"), "team": form.String("infra")})
	require.NoError(t, repo.Update(ctx, older))

	newer := newTicket(t, s)
	require.NoError(t, repo.Create(ctx, newer))
	submit(t, newer, s, form.Answers{"reason": form.String("b")})
	require.NoError(t, repo.Update(ctx, newer))

	// The newest item lacks "team", so the older answer is used.
	v, ok, err := repo.LatestAnswer(ctx, requester, s.SID(), stepSID, "team")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, form.String("infra"), v)

	v, ok, err = repo.LatestAnswer(ctx, requester, s.SID(), "", "reason")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, []form.Value{form.String("a"), form.String("b")}, v)

	_, ok, err = repo.LatestAnswer(ctx, "usr_other", s.SID(), stepSID, "team")
	require.NoError(t, err)
	assert.False(t, ok)
}
