package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/schema"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
)

// --- helpers ---

const (
	requester = "usr_requester"
	reviewer  = "usr_reviewer"
	reviewers = "rol_reviewers"
)

func accessSchema(t *testing.T, first schema.Operator) *schema.TicketSchema {
	t.Helper()
	f := form.NewForm([]*form.Field{
		{Key: "reason", Required: true, Editable: true, Define: &form.SingleLineText{MaxTexts: 100}},
		{Key: "team", Editable: true, Define: &form.SingleLineText{MaxTexts: 50}},
	}, nil)
	s, err := schema.NewTicketSchema(schema.Draft{
		TitleEn: "Access",
		Steps: []schema.StepDraft{
			{Ref: "apply", Operator: first, Form: f},
			{Ref: "approve", Operator: schema.RoleOperator{RoleID: reviewers}, Review: &schema.ReviewModule{Restarted: true}},
		},
	})
	require.NoError(t, err)
	return s
}

func newTicket(t *testing.T, s *schema.TicketSchema, bindings ...ticket.Binding) *ticket.Ticket {
	t.Helper()
	if len(bindings) == 0 {
		bindings = []ticket.Binding{{UserID: requester}, {RoleID: reviewers}}
	}
	tk, err := ticket.NewTicket(s, requester, "Need access", bindings)
	require.NoError(t, err)
	return tk
}

func submit(t *testing.T, tk *ticket.Ticket, s *schema.TicketSchema, answers form.Answers) {
	t.Helper()
	_, err := tk.Process(s.Steps()[0], requester, ticket.FormSubmission{Answers: answers}, nil)
	require.NoError(t, err)
}

func createSchema(t *testing.T, repo *SchemaRepository, s *schema.TicketSchema) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), s))
}
