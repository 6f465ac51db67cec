package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/testdb"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

func TestSchemaRepository_RoundTrip(t *testing.T) {
	repo := NewSchemaRepository(testdb.Open(t), logger.NewNop())
	ctx := context.Background()

	s := accessSchema(t, schema.NoOperator{})
	createSchema(t, repo, s)
	assert.NotZero(t, s.ID())

	got, err := repo.GetBySID(ctx, s.SID())
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, s.TitleEn(), got.TitleEn())
	require.Equal(t, 2, got.StepCount())
	assert.Equal(t, s.Steps()[0].SID(), got.Steps()[0].SID())
	assert.True(t, got.Steps()[0].IsForm())
	assert.True(t, got.Steps()[0].HasField("reason"))
	assert.Equal(t, schema.RoleOperator{RoleID: reviewers}, got.Steps()[1].Operator())

	review, ok := got.Steps()[1].Review()
	require.True(t, ok)
	assert.True(t, review.Restarted)
}

func TestSchemaRepository_MissingReturnsNil(t *testing.T) {
	repo := NewSchemaRepository(testdb.Open(t), logger.NewNop())

	got, err := repo.GetBySID(context.Background(), "tks_missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	many, err := repo.GetBySIDs(context.Background(), []string{"tks_missing"})
	require.NoError(t, err)
	assert.Empty(t, many)
}

func TestSchemaRepository_ListStartableBy(t *testing.T) {
	repo := NewSchemaRepository(testdb.Open(t), logger.NewNop())
	ctx := context.Background()

	open := accessSchema(t, schema.NoOperator{})
	mine := accessSchema(t, schema.UserOperator{UserID: "usr_alice"})
	theirs := accessSchema(t, schema.UserOperator{UserID: "usr_bob"})
	team := accessSchema(t, schema.RoleOperator{RoleID: "rol_ops"})
	for _, s := range []*schema.TicketSchema{open, mine, theirs, team} {
		createSchema(t, repo, s)
	}

	all, total, err := repo.List(ctx, schema.ListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 4)

	sids := func(list []*schema.TicketSchema) []string {
		out := make([]string, len(list))
		for i, s := range list {
			out[i] = s.SID()
		}
		return out
	}

	got, total, err := repo.ListStartableBy(ctx, "usr_alice", nil, schema.ListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []string{open.SID(), mine.SID()}, sids(got))

	got, _, err = repo.ListStartableBy(ctx, "usr_carol", []string{"rol_ops"}, schema.ListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{open.SID(), team.SID()}, sids(got))

	page, total, err := repo.ListStartableBy(ctx, "usr_carol", []string{"rol_ops"}, schema.ListFilter{Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, page, 1)
}
