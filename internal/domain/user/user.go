package user

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/ticketflow/internal/domain/user/valueobjects"
	"github.com/orris-inc/ticketflow/internal/shared/biztime"
	"github.com/orris-inc/ticketflow/internal/shared/id"
	"github.com/orris-inc/ticketflow/internal/shared/textutil"
)

const maxNameLength = 100

// User is a directory entry that can act on flow steps.
type User struct {
	id        uint
	sid       string
	name      string
	email     vo.Email
	status    vo.Status
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates an active user
func NewUser(name string, email vo.Email) (*User, error) {
	name = textutil.Clean(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if textutil.Length(name) > maxNameLength {
		return nil, fmt.Errorf("name exceeds maximum length of %d characters", maxNameLength)
	}
	if email.IsZero() {
		return nil, fmt.Errorf("email is required")
	}

	now := biztime.NowUTC()
	return &User{
		sid:       id.NewUserID(),
		name:      name,
		email:     email,
		status:    vo.StatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUser rebuilds a user from persistence
func ReconstructUser(id uint, sid, name string, email vo.Email, status vo.Status, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("user SID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid user status: %s", status)
	}

	return &User{
		id:        id,
		sid:       sid,
		name:      name,
		email:     email,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) SID() string {
	return u.sid
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Email() vo.Email {
	return u.email
}

func (u *User) Status() vo.Status {
	return u.status
}

func (u *User) IsActive() bool {
	return u.status.IsActive()
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

func (u *User) Activate() {
	if u.status == vo.StatusActive {
		return
	}
	u.status = vo.StatusActive
	u.updatedAt = biztime.NowUTC()
}

// Deactivate removes the user from assignment without deleting history.
func (u *User) Deactivate() {
	if u.status == vo.StatusInactive {
		return
	}
	u.status = vo.StatusInactive
	u.updatedAt = biztime.NowUTC()
}
