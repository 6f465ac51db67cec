package usecases

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/domain/ticket"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// publishEvents runs after commit, so a failure is logged and not returned.
func publishEvents(ctx context.Context, p TicketEventPublisher, log logger.Interface, ticketSID string, events []ticket.FlowEvent) {
	if p == nil || len(events) == 0 {
		return
	}
	if err := p.PublishTicketEvents(ctx, ticketSID, events); err != nil {
		log.Warnw("failed to publish ticket events", "ticket_sid", ticketSID, "count", len(events), "error", err)
	}
}
