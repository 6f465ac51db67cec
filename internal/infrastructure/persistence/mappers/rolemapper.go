package mappers

import (
	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
)

func RoleToModel(r *permission.Role) *models.RoleModel {
	return &models.RoleModel{
		ID:          r.ID(),
		SID:         r.SID(),
		Name:        r.Name(),
		Description: r.Description(),
		CreatedAt:   toMillis(r.CreatedAt()),
		UpdatedAt:   toMillis(r.UpdatedAt()),
	}
}

func RoleToEntity(m *models.RoleModel) (*permission.Role, error) {
	return permission.ReconstructRole(m.ID, m.SID, m.Name, m.Description, fromMillis(m.CreatedAt), fromMillis(m.UpdatedAt))
}
