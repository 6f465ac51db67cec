package schema

import "context"

// Repository persists published schemas. Lookups of unknown sids return (nil, nil).
type Repository interface {
	Create(ctx context.Context, s *TicketSchema) error
	GetBySID(ctx context.Context, sid string) (*TicketSchema, error)
	GetBySIDs(ctx context.Context, sids []string) (map[string]*TicketSchema, error)
	List(ctx context.Context, filter ListFilter) ([]*TicketSchema, int64, error)
	// ListStartableBy returns schemas whose first step the user may act on,
	// given the roles the user belongs to.
	ListStartableBy(ctx context.Context, userID string, roleIDs []string, filter ListFilter) ([]*TicketSchema, int64, error)
}

type ListFilter struct {
	Page     int
	PageSize int
}
