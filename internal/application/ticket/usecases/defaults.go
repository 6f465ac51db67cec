package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

type refKey struct {
	schemaID string
	stepID   string
	fieldKey string
}

// loadDefaults resolves every dynamic default of f up front. Same-schema
// references read finished items of t; other schemas are read from the
// requester's latest finished answer.
func loadDefaults(
	ctx context.Context,
	repo ticket.TicketRepository,
	log logger.Interface,
	t *ticket.Ticket,
	f *form.Form,
) (form.DefaultResolver, error) {
	values := make(map[refKey]form.Value)
	seen := make(map[refKey]bool)

	for _, d := range f.DynamicDefaults() {
		k := refKey{schemaID: d.SchemaID, stepID: d.StepID, fieldKey: d.FieldKey}
		if seen[k] {
			continue
		}
		seen[k] = true

		if d.SchemaID == "" || d.SchemaID == t.SchemaSID() {
			if v, ok := t.LocalAnswer(d.StepID, d.FieldKey); ok {
				values[k] = v
			}
			continue
		}

		v, ok, err := repo.LatestAnswer(ctx, t.RequesterID(), d.SchemaID, d.StepID, d.FieldKey)
		if err != nil {
			log.Errorw("failed to resolve dynamic default",
				"ticket_sid", t.SID(),
				"schema_sid", d.SchemaID,
				"field_key", d.FieldKey,
				"error", err,
			)
			return nil, errors.NewInternalError("failed to resolve form defaults")
		}
		if ok {
			values[k] = v
		}
	}

	return form.ResolverFunc(func(d form.DynamicDefault) (form.Value, bool) {
		v, ok := values[refKey{schemaID: d.SchemaID, stepID: d.StepID, fieldKey: d.FieldKey}]
		return v, ok
	}), nil
}
