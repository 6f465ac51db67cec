package permission

import (
	"errors"
	"fmt"
	"time"

	"github.com/orris-inc/ticketflow/internal/shared/biztime"
	"github.com/orris-inc/ticketflow/internal/shared/id"
	"github.com/orris-inc/ticketflow/internal/shared/textutil"
)

var ErrRoleNotFound = errors.New("role not found")

// Role is a named group of users that flow steps can be assigned to.
// Membership lives in the enforcer, not on the aggregate.
type Role struct {
	id          uint
	sid         string
	name        string
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewRole(name, description string) (*Role, error) {
	name = textutil.Clean(name)
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if textutil.Length(name) > 50 {
		return nil, fmt.Errorf("role name too long (max 50 characters)")
	}

	now := biztime.NowUTC()
	return &Role{
		sid:         id.NewRoleID(),
		name:        name,
		description: textutil.Clean(description),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructRole(id uint, sid, name, description string, createdAt, updatedAt time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("role SID is required")
	}

	return &Role{
		id:          id,
		sid:         sid,
		name:        name,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (r *Role) ID() uint {
	return r.id
}

func (r *Role) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Role) SID() string {
	return r.sid
}

func (r *Role) Name() string {
	return r.name
}

func (r *Role) Description() string {
	return r.description
}

func (r *Role) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Role) UpdatedAt() time.Time {
	return r.updatedAt
}
