package permission

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// GrantSync removes role grants that point at users or roles which no longer
// exist in the directory tables.
type GrantSync struct {
	db        *gorm.DB
	enforcer  permission.PermissionEnforcer
	adminRole string
	logger    logger.Interface
}

func NewGrantSync(db *gorm.DB, enforcer permission.PermissionEnforcer, adminRole string, logger logger.Interface) *GrantSync {
	return &GrantSync{
		db:        db,
		enforcer:  enforcer,
		adminRole: adminRole,
		logger:    logger,
	}
}

// Prune deletes dangling grants and reloads the enforcer. The admin role is
// not a directory row and is kept.
func (s *GrantSync) Prune() (int64, error) {
	var removed int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			DELETE FROM casbin_rule
			WHERE ptype = 'g'
			AND v1 <> ?
			AND NOT EXISTS (SELECT 1 FROM roles r WHERE r.sid = casbin_rule.v1)
		`, s.adminRole)
		if result.Error != nil {
			return fmt.Errorf("failed to prune grants of unknown roles: %w", result.Error)
		}
		removed += result.RowsAffected

		result = tx.Exec(`
			DELETE FROM casbin_rule
			WHERE ptype = 'g'
			AND NOT EXISTS (SELECT 1 FROM users u WHERE u.sid = casbin_rule.v0)
		`)
		if result.Error != nil {
			return fmt.Errorf("failed to prune grants of unknown users: %w", result.Error)
		}
		removed += result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Infow("pruned dangling role grants", "count", removed)
		if err := s.enforcer.LoadPolicy(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}
