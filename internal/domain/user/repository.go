package user

import "context"

// Repository defines the interface for user data operations
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetBySID retrieves a user by external SID, (nil, nil) when missing
	GetBySID(ctx context.Context, sid string) (*User, error)

	// GetBySIDs retrieves the users that exist among sids, keyed by SID
	GetBySIDs(ctx context.Context, sids []string) (map[string]*User, error)

	// GetByEmail retrieves a user by email, (nil, nil) when missing
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// ExistsActive checks if an active user exists by external SID
	ExistsActive(ctx context.Context, sid string) (bool, error)

	// List retrieves a paginated list of users
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
}

// ListFilter represents filtering and pagination options for user list
type ListFilter struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Status   string `json:"status,omitempty"`
}
