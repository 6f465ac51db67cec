package permission

import (
	"fmt"

	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

// InitPolicies grants adminRole the administrative actions. Existing policies
// are left as they are, so it is safe to run on every start.
func InitPolicies(enforcer permission.PermissionEnforcer, adminRole string, log logger.Interface) error {
	if adminRole == "" {
		adminRole = constants.DefaultAdminRole
	}

	policies := [][]string{
		{adminRole, constants.ResourceSchema, constants.ActionPublish},
		{adminRole, constants.ResourceTicket, constants.ActionManage},
		{adminRole, constants.ResourceDirectory, constants.ActionManage},
	}

	for _, policy := range policies {
		if err := enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
	}

	log.Infow("permission policies initialized", "admin_role", adminRole)
	return nil
}
