package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/shared/id"
)

// --- helpers ---

func intPtr(v int) *int { return &v }

func textForm(keys ...string) *form.Form {
	fields := make([]*form.Field, 0, len(keys))
	for i, k := range keys {
		fields = append(fields, &form.Field{Order: i, Key: k, Editable: true, Define: &form.SingleLineText{MaxTexts: 50}})
	}
	return form.NewForm(fields, nil)
}

func formStep(ref string, keys ...string) StepDraft {
	return StepDraft{Ref: ref, Form: textForm(keys...)}
}

func reviewStep(ref string, restarted bool) StepDraft {
	return StepDraft{Ref: ref, Operator: RoleOperator{RoleID: "rol_reviewers"}, Review: &ReviewModule{Restarted: restarted}}
}

func TestNewTicketSchema_Valid(t *testing.T) {
	s, err := NewTicketSchema(Draft{
		TitleEn: "<b>Access</b> request",
		Steps: []StepDraft{
			formStep("apply", "reason"),
			reviewStep("approve", true),
		},
	})

	require.NoError(t, err)
	require.NoError(t, id.ValidatePrefix(s.SID(), id.PrefixSchema))
	assert.Equal(t, "Access request", s.TitleEn())
	require.Equal(t, 2, s.StepCount())

	first, second := s.Steps()[0], s.Steps()[1]
	assert.Equal(t, 0, first.Order())
	assert.Equal(t, 1, second.Order())
	assert.True(t, first.IsForm())
	assert.Equal(t, OperatorNone, first.Operator().Kind())
	review, ok := second.Review()
	require.True(t, ok)
	assert.True(t, review.Restarted)

	got, ok := s.Step(second.SID())
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.True(t, s.HasFormField("", "reason"))
	assert.False(t, s.HasFormField(second.SID(), "reason"))
}

func TestNewTicketSchema_OrdersByOrderThenPosition(t *testing.T) {
	s, err := NewTicketSchema(Draft{
		TitleZh: "排序",
		Steps: []StepDraft{
			{Ref: "c", Order: intPtr(10), Form: textForm("c")},
			{Ref: "a", Order: intPtr(-5), Form: textForm("a")},
			{Ref: "b", Form: textForm("b")},
		},
	})
	require.NoError(t, err)

	var keys []string
	for i, step := range s.Steps() {
		assert.Equal(t, i, step.Order())
		keys = append(keys, step.Form().Fields[0].Key)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestNewTicketSchema_Rejects(t *testing.T) {
	bad := &form.Form{Fields: []*form.Field{
		{Key: "x", Define: &form.IfEqual{Values: []form.Value{form.Bool(true)}}},
	}}

	tests := []struct {
		name    string
		draft   Draft
		wantErr error
	}{
		{"no title", Draft{Steps: []StepDraft{formStep("", "a")}}, ErrTitleRequired},
		{"no steps", Draft{TitleEn: "t"}, ErrNoSteps},
		{
			"duplicate order",
			Draft{TitleEn: "t", Steps: []StepDraft{
				{Order: intPtr(1), Form: textForm("a")},
				{Order: intPtr(1), Form: textForm("b")},
			}},
			ErrDuplicateStepOrder,
		},
		{
			"both modules",
			Draft{TitleEn: "t", Steps: []StepDraft{{Form: textForm("a"), Review: &ReviewModule{}}}},
			ErrModuleRequired,
		},
		{"no module", Draft{TitleEn: "t", Steps: []StepDraft{{}}}, ErrModuleRequired},
		{
			"empty role operator",
			Draft{TitleEn: "t", Steps: []StepDraft{{Operator: RoleOperator{}, Form: textForm("a")}}},
			ErrInvalidOperator,
		},
		{"broken form", Draft{TitleEn: "t", Steps: []StepDraft{{Form: bad}}}, ErrInvalidForm},
		{
			"duplicate ref",
			Draft{TitleEn: "t", Steps: []StepDraft{formStep("x", "a"), formStep("x", "b")}},
			ErrDuplicateStepRef,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTicketSchema(tt.draft)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestNewTicketSchema_StepErrorNamesTheStep(t *testing.T) {
	_, err := NewTicketSchema(Draft{TitleEn: "t", Steps: []StepDraft{
		formStep("first", "a"),
		{Ref: "second"},
	}})

	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Position)
	assert.Equal(t, "second", se.Ref)
	assert.Contains(t, err.Error(), "second")
}

func TestNewTicketSchema_BindsLocalDynamicDefaults(t *testing.T) {
	later := &form.Form{Fields: []*form.Field{{
		Key:      "echo",
		Editable: true,
		Define:   &form.SingleLineText{},
		Default:  form.DynamicDefault{StepID: "apply", FieldKey: "reason"},
	}}}

	s, err := NewTicketSchema(Draft{TitleEn: "t", Steps: []StepDraft{
		formStep("apply", "reason"),
		{Ref: "confirm", Form: later},
	}})
	require.NoError(t, err)

	def, ok := s.Steps()[1].Form().Fields[0].Default.(form.DynamicDefault)
	require.True(t, ok)
	assert.Equal(t, s.Steps()[0].SID(), def.StepID, "draft ref is replaced by the generated step id")
	assert.Empty(t, s.ExternalRefs())
}

func TestNewTicketSchema_RejectsBadLocalRefs(t *testing.T) {
	refTo := func(step, key string) *form.Form {
		return &form.Form{Fields: []*form.Field{{
			Key:      "echo",
			Editable: true,
			Define:   &form.SingleLineText{},
			Default:  form.DynamicDefault{StepID: step, FieldKey: key},
		}}}
	}

	tests := []struct {
		name  string
		steps []StepDraft
	}{
		{"unknown step", []StepDraft{formStep("apply", "reason"), {Form: refTo("nope", "reason")}}},
		{"unknown field", []StepDraft{formStep("apply", "reason"), {Form: refTo("apply", "other")}}},
		{"later step", []StepDraft{{Form: refTo("late", "reason")}, formStep("late", "reason")}},
		{"review step", []StepDraft{reviewStep("rv", false), {Form: refTo("rv", "reason")}}},
		{"any step without field", []StepDraft{formStep("apply", "reason"), {Form: refTo("", "missing")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTicketSchema(Draft{TitleEn: "t", Steps: tt.steps})
			assert.True(t, errors.Is(err, ErrInvalidDynamicRef), "got %v", err)
		})
	}
}

func TestExternalRefs(t *testing.T) {
	f := &form.Form{Fields: []*form.Field{{
		Key:      "carried",
		Editable: true,
		Define:   &form.SingleLineText{},
		Default:  form.DynamicDefault{SchemaID: "tks_other", FieldKey: "name"},
	}}}

	s, err := NewTicketSchema(Draft{TitleEn: "t", Steps: []StepDraft{{Form: f}}})
	require.NoError(t, err)

	refs := s.ExternalRefs()
	require.Len(t, refs, 1)
	assert.Equal(t, "tks_other", refs[0].SchemaID)
}

func TestReconstructTicketSchema_SortsSteps(t *testing.T) {
	a, err := ReconstructFlowStep("tkf_a", 1, nil, ReviewModule{})
	require.NoError(t, err)
	b, err := ReconstructFlowStep("tkf_b", 0, UserOperator{UserID: "usr_1"}, FormModule{Form: textForm("x")})
	require.NoError(t, err)

	s, err := ReconstructTicketSchema(TicketSchemaReconstructParams{ID: 3, SID: "tks_1", Steps: []*FlowStep{a, b}})
	require.NoError(t, err)

	assert.Equal(t, "tkf_b", s.FirstStep().SID())
	layout, err := s.FirstStep().Layout()
	require.NoError(t, err)
	assert.NotNil(t, layout)

	_, err = a.Layout()
	assert.Error(t, err, "review steps have no layout")

	_, err = ReconstructFlowStep("", 0, nil, ReviewModule{})
	assert.Error(t, err)
}

func TestNewOperator(t *testing.T) {
	op, err := NewOperator(OperatorUser, "usr_1")
	require.NoError(t, err)
	assert.Equal(t, UserOperator{UserID: "usr_1"}, op)

	op, err = NewOperator("", "")
	require.NoError(t, err)
	assert.Equal(t, NoOperator{}, op)

	_, err = NewOperator("group", "x")
	assert.ErrorIs(t, err, ErrInvalidOperator)
}
