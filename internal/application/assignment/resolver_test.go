package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/domain/user"
	uservo "github.com/orris-inc/ticketflow/internal/domain/user/valueobjects"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

func newUser(t *testing.T, sid string, status uservo.Status) *user.User {
	t.Helper()
	now := time.Now().UTC()
	u, err := user.ReconstructUser(1, sid, sid, uservo.Email{}, status, now, now)
	require.NoError(t, err)
	return u
}

type fixture struct {
	resolver *Resolver
	members  mockMembers
}

func setup(t *testing.T) *fixture {
	t.Helper()
	users := &mockUserRepository{users: map[string]*user.User{
		"usr_req":     newUser(t, "usr_req", uservo.StatusActive),
		"usr_alice":   newUser(t, "usr_alice", uservo.StatusActive),
		"usr_bob":     newUser(t, "usr_bob", uservo.StatusActive),
		"usr_retired": newUser(t, "usr_retired", uservo.StatusInactive),
	}}
	roles := &mockRoleRepository{roles: map[string]bool{
		"rol_solo":  true,
		"rol_team":  true,
		"rol_empty": true,
		"rol_gone":  true,
	}}
	members := mockMembers{
		"rol_solo":  {"usr_alice"},
		"rol_team":  {"usr_bob", "usr_alice"},
		"rol_empty": {},
		"rol_gone":  {"usr_retired", "usr_ghost"},
	}
	return &fixture{
		resolver: NewResolver(users, roles, members, logger.NewNop()),
		members:  members,
	}
}

func schemaWith(t *testing.T, ops ...schema.Operator) *schema.TicketSchema {
	t.Helper()
	steps := make([]schema.StepDraft, len(ops))
	for i, op := range ops {
		steps[i] = schema.StepDraft{Operator: op, Review: &schema.ReviewModule{}}
	}
	s, err := schema.NewTicketSchema(schema.Draft{TitleEn: "Access", Steps: steps})
	require.NoError(t, err)
	return s
}

func userSIDs(res *Resolution) []string {
	out := make([]string, len(res.Users))
	for i, u := range res.Users {
		out[i] = u.SID()
	}
	return out
}

func TestResolver_Resolve(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		op       schema.Operator
		wantIDs  []string
		wantRole string
		wantErr  func(error) bool
	}{
		{name: "none is the requester", op: schema.NoOperator{}, wantIDs: []string{"usr_req"}},
		{name: "user", op: schema.UserOperator{UserID: "usr_bob"}, wantIDs: []string{"usr_bob"}},
		{name: "unknown user", op: schema.UserOperator{UserID: "usr_nobody"}, wantErr: errors.IsNotFoundError},
		{name: "inactive user", op: schema.UserOperator{UserID: "usr_retired"}, wantErr: errors.IsNotFoundError},
		{name: "role sorted by id", op: schema.RoleOperator{RoleID: "rol_team"}, wantIDs: []string{"usr_alice", "usr_bob"}, wantRole: "rol_team"},
		{name: "role drops inactive and unknown", op: schema.RoleOperator{RoleID: "rol_gone"}, wantIDs: []string{}, wantRole: "rol_gone"},
		{name: "unknown role", op: schema.RoleOperator{RoleID: "rol_nope"}, wantErr: errors.IsNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.resolver.Resolve(ctx, tt.op, "usr_req")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, userSIDs(res))
			assert.Equal(t, tt.wantRole, res.RoleID)
		})
	}
}

func TestResolver_Bind(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	s := schemaWith(t,
		schema.NoOperator{},
		schema.UserOperator{UserID: "usr_bob"},
		schema.RoleOperator{RoleID: "rol_solo"},
		schema.RoleOperator{RoleID: "rol_team"},
	)

	bindings, err := f.resolver.Bind(ctx, s, "usr_req", nil)
	require.NoError(t, err)
	assert.Equal(t, []ticket.Binding{
		{UserID: "usr_req"},
		{UserID: "usr_bob"},
		{UserID: "usr_alice"},
		{RoleID: "rol_team"},
	}, bindings)

	steps := s.Steps()
	bindings, err = f.resolver.Bind(ctx, s, "usr_req", map[string]string{steps[3].SID(): "usr_bob"})
	require.NoError(t, err)
	assert.Equal(t, ticket.Binding{UserID: "usr_bob"}, bindings[3])
}

func TestResolver_BindRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	s := schemaWith(t, schema.RoleOperator{RoleID: "rol_team"})
	step := s.FirstStep()

	_, err := f.resolver.Bind(ctx, s, "usr_req", map[string]string{step.SID(): "usr_req"})
	assert.True(t, errors.IsForbiddenError(err))

	_, err = f.resolver.Bind(ctx, s, "usr_req", map[string]string{"tkf_unknown": "usr_bob"})
	assert.True(t, errors.IsValidationError(err))

	empty := schemaWith(t, schema.RoleOperator{RoleID: "rol_empty"})
	_, err = f.resolver.Bind(ctx, empty, "usr_req", nil)
	assert.True(t, errors.IsAmbiguousAssignmentError(err))

	none := schemaWith(t, schema.NoOperator{})
	_, err = f.resolver.Bind(ctx, none, "usr_req", map[string]string{none.FirstStep().SID(): "usr_bob"})
	assert.True(t, errors.IsForbiddenError(err))
}

func TestResolver_IsMember(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ok, err := f.resolver.IsMember(ctx, "usr_bob", "rol_team")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.resolver.IsMember(ctx, "usr_req", "rol_team")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.resolver.IsMember(ctx, "usr_retired", "rol_gone")
	require.NoError(t, err)
	assert.False(t, ok)

	// membership is read at call time
	f.members["rol_team"] = []string{"usr_alice"}
	ok, err = f.resolver.IsMember(ctx, "usr_bob", "rol_team")
	require.NoError(t, err)
	assert.False(t, ok)
}
