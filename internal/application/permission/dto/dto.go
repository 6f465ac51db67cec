package dto

import (
	"time"

	"github.com/orris-inc/ticketflow/internal/domain/permission"
)

type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=500"`
}

type RoleMembershipRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Members     []string  `json:"members,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListRolesResponse struct {
	Roles    []*RoleResponse `json:"roles"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func FromDomainRole(r *permission.Role) *RoleResponse {
	if r == nil {
		return nil
	}
	return &RoleResponse{
		ID:          r.SID(),
		Name:        r.Name(),
		Description: r.Description(),
		CreatedAt:   r.CreatedAt(),
	}
}
