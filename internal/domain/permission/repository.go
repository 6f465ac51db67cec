package permission

import "context"

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetBySID(ctx context.Context, sid string) (*Role, error)
	Exists(ctx context.Context, sid string) (bool, error)
	List(ctx context.Context, filter RoleFilter) ([]*Role, int64, error)
}

type RoleFilter struct {
	Page     int
	PageSize int
}
