package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	vo "github.com/orris-inc/ticketflow/internal/domain/ticket/valueobjects"
	permissioninfra "github.com/orris-inc/ticketflow/internal/infrastructure/permission"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
)

func TestCreateTicket_BindsOperators(t *testing.T) {
	e := newEnv(t)
	alice := e.addUser(t, "Alice")
	bob := e.addUser(t, "Bob")
	s := e.accessSchema(t, e.addRole(t, "reviewers", bob), true)

	pub := &recordingPublisher{}
	uc := e.createUC()
	uc.SetEventPublisher(pub)

	out, err := uc.Execute(context.Background(), CreateTicketCommand{
		SchemaSID:   s.SID(),
		RequesterID: alice,
		Title:       "  Need <b>prod</b> access ",
	})
	require.NoError(t, err)

	assert.Equal(t, vo.StatusPending.String(), out.Status)
	assert.Equal(t, alice, out.RequesterID)
	require.Len(t, out.Flows, 2)
	assert.Equal(t, alice, out.Flows[0].UserID)
	assert.Equal(t, bob, out.Flows[1].UserID, "a single member role binds the member")
	assert.Len(t, pub.kinds, 1)

	stored := e.reload(t, out.ID)
	assert.Equal(t, out.Title, stored.Title())
}

func TestCreateTicket_Rejects(t *testing.T) {
	e := newEnv(t)
	alice := e.addUser(t, "Alice")
	bob := e.addUser(t, "Bob")
	carol := e.addUser(t, "Carol")
	full := e.accessSchema(t, e.addRole(t, "reviewers", bob, carol), true)
	empty := e.accessSchema(t, e.addRole(t, "nobody"), true)
	uc := e.createUC()

	tests := []struct {
		name  string
		cmd   CreateTicketCommand
		check func(error) bool
	}{
		{"missing schema id", CreateTicketCommand{RequesterID: alice, Title: "x"}, errors.IsValidationError},
		{"unknown schema", CreateTicketCommand{SchemaSID: "sch_missing", RequesterID: alice, Title: "x"}, errors.IsNotFoundError},
		{"unknown requester", CreateTicketCommand{SchemaSID: full.SID(), RequesterID: "usr_ghost", Title: "x"}, errors.IsForbiddenError},
		{"empty title", CreateTicketCommand{SchemaSID: full.SID(), RequesterID: alice, Title: "  "}, errors.IsValidationError},
		{"role without members", CreateTicketCommand{SchemaSID: empty.SID(), RequesterID: alice, Title: "x"}, errors.IsAmbiguousAssignmentError},
		{"ineligible pick", CreateTicketCommand{
			SchemaSID: full.SID(), RequesterID: alice, Title: "x",
			AssignFlowUsers: map[string]string{full.Steps()[1].SID(): alice},
		}, errors.IsForbiddenError},
		{"pick for foreign flow", CreateTicketCommand{
			SchemaSID: full.SID(), RequesterID: alice, Title: "x",
			AssignFlowUsers: map[string]string{"flw_other": bob},
		}, errors.IsValidationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestCreateTicket_PickedRoleMember(t *testing.T) {
	e := newEnv(t)
	alice := e.addUser(t, "Alice")
	bob := e.addUser(t, "Bob")
	carol := e.addUser(t, "Carol")
	role := e.addRole(t, "reviewers", bob, carol)
	s := e.accessSchema(t, role, true)

	out, err := e.createUC().Execute(context.Background(), CreateTicketCommand{
		SchemaSID: s.SID(), RequesterID: alice, Title: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, role, out.Flows[1].RoleID, "several members keep the item open to the role")

	out, err = e.createUC().Execute(context.Background(), CreateTicketCommand{
		SchemaSID: s.SID(), RequesterID: alice, Title: "x",
		AssignFlowUsers: map[string]string{s.Steps()[1].SID(): carol},
	})
	require.NoError(t, err)
	assert.Equal(t, carol, out.Flows[1].UserID)

	e.deactivate(t, carol)
	_, err = e.createUC().Execute(context.Background(), CreateTicketCommand{
		SchemaSID: s.SID(), RequesterID: alice, Title: "x",
		AssignFlowUsers: map[string]string{s.Steps()[1].SID(): carol},
	})
	assert.True(t, errors.IsForbiddenError(err), "inactive users are not eligible")
}

func TestGetTicket_PrefillsFromOtherSchema(t *testing.T) {
	e := newEnv(t)
	alice := e.addUser(t, "Alice")
	uc := e.processUC()

	profile := e.publish(t, schema.Draft{
		TitleEn: "Profile",
		Steps: []schema.StepDraft{{Operator: schema.NoOperator{}, Form: form.NewForm([]*form.Field{
			{Key: "team", Required: true, Editable: true, Define: &form.SingleLineText{MaxTexts: 50}},
		}, nil)}},
	})
	for _, team := range []string{"storage", "platform"} {
		sid := e.create(t, profile, alice)
		_, err := uc.Execute(context.Background(), formCmd(sid, alice, form.Answers{"team": form.String(team)}))
		require.NoError(t, err)
	}

	fallback := form.String("unknown")
	onboarding := e.publish(t, schema.Draft{
		TitleEn: "Onboarding",
		Steps: []schema.StepDraft{{Operator: schema.NoOperator{}, Form: form.NewForm([]*form.Field{
			{Key: "team", Editable: true, Define: &form.SingleLineText{MaxTexts: 50},
				Default: form.DynamicDefault{SchemaID: profile.SID(), FieldKey: "team", Fallback: &fallback}},
		}, nil)}},
	})

	sid := e.create(t, onboarding, alice)
	view, err := e.getUC().Execute(context.Background(), GetTicketQuery{TicketSID: sid, ActorID: alice})
	require.NoError(t, err)
	require.NotNil(t, view.CurrentFlow)
	assert.True(t, view.CurrentFlow.CanOperate)
	assert.Equal(t, []string{"team"}, view.CurrentFlow.VisibleFields)

	got, ok := view.CurrentFlow.Prefill.Get("team")
	require.True(t, ok)
	assert.True(t, got.Equal(form.String("platform")), "latest answer wins, got %s", got)

	bob := e.addUser(t, "Bob")
	sid = e.create(t, onboarding, bob)
	view, err = e.getUC().Execute(context.Background(), GetTicketQuery{TicketSID: sid, ActorID: bob})
	require.NoError(t, err)
	got, _ = view.CurrentFlow.Prefill.Get("team")
	assert.True(t, got.Equal(fallback), "requester without history gets the fallback, got %s", got)
}

func TestGetTicket_Authorization(t *testing.T) {
	e := newEnv(t)
	alice := e.addUser(t, "Alice")
	bob := e.addUser(t, "Bob")
	outsider := e.addUser(t, "Mallory")
	admin := e.addUser(t, "Root")
	require.NoError(t, permissioninfra.InitPolicies(e.enforcer, "admin", e.log))
	require.NoError(t, e.enforcer.AddRoleForUser(admin, "admin"))

	s := e.accessSchema(t, e.addRole(t, "reviewers", bob), true)
	sid := e.create(t, s, alice)

	for _, actor := range []string{alice, bob, admin} {
		_, err := e.getUC().Execute(context.Background(), GetTicketQuery{TicketSID: sid, ActorID: actor})
		assert.NoError(t, err)
	}

	_, err := e.getUC().Execute(context.Background(), GetTicketQuery{TicketSID: sid, ActorID: outsider})
	assert.True(t, errors.IsForbiddenError(err))
	_, err = e.historyUC().Execute(context.Background(), GetTicketHistoryQuery{TicketSID: sid, ActorID: outsider})
	assert.True(t, errors.IsForbiddenError(err))
}

func TestListTickets(t *testing.T) {
	e := newEnv(t)
	alice := e.addUser(t, "Alice")
	bob := e.addUser(t, "Bob")
	admin := e.addUser(t, "Root")
	require.NoError(t, permissioninfra.InitPolicies(e.enforcer, "admin", e.log))
	require.NoError(t, e.enforcer.AddRoleForUser(admin, "admin"))

	s := e.accessSchema(t, e.addRole(t, "reviewers", bob), true)
	e.create(t, s, alice)
	e.create(t, s, alice)
	e.create(t, s, bob)

	res, err := e.listUC().Execute(context.Background(), ListTicketsQuery{ActorID: alice})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)

	res, err = e.listUC().Execute(context.Background(), ListTicketsQuery{ActorID: bob})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total, "bob reviews alice's tickets")

	_, err = e.listUC().Execute(context.Background(), ListTicketsQuery{ActorID: alice, SchemaSID: s.SID()})
	assert.True(t, errors.IsForbiddenError(err))

	res, err = e.listUC().Execute(context.Background(), ListTicketsQuery{ActorID: admin, SchemaSID: s.SID(), Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)

	_, err = e.listUC().Execute(context.Background(), ListTicketsQuery{ActorID: alice, Status: "closed"})
	assert.True(t, errors.IsValidationError(err))
}

func TestListTickets_IncludesRoleBoundItems(t *testing.T) {
	e := newEnv(t)
	alice := e.addUser(t, "Alice")
	bob := e.addUser(t, "Bob")
	carol := e.addUser(t, "Carol")
	dave := e.addUser(t, "Dave")

	s := e.accessSchema(t, e.addRole(t, "reviewers", bob, carol), true)
	sid := e.create(t, s, alice)

	tk := e.reload(t, sid)
	require.Empty(t, tk.Items()[1].UserID(), "several members leave the item bound to the role")

	for _, member := range []string{bob, carol} {
		res, err := e.listUC().Execute(context.Background(), ListTicketsQuery{ActorID: member})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Total)
		require.Len(t, res.Tickets, 1)
		assert.Equal(t, sid, res.Tickets[0].ID)
	}

	res, err := e.listUC().Execute(context.Background(), ListTicketsQuery{ActorID: dave})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}
