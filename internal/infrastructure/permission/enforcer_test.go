package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/testdb"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

func TestEnforcer_RoleGraph(t *testing.T) {
	e, err := NewEnforcer(testdb.Open(t), logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, e.AddRoleForUser("usr_alice", "rol_ops"))
	require.NoError(t, e.AddRoleForUser("usr_bob", "rol_ops"))

	ok, err := e.HasRoleForUser("usr_alice", "rol_ops")
	require.NoError(t, err)
	assert.True(t, ok)

	users, err := e.GetUsersForRole("rol_ops")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"usr_alice", "usr_bob"}, users)

	require.NoError(t, e.DeleteRoleForUser("usr_bob", "rol_ops"))
	roles, err := e.GetRolesForUser("usr_bob")
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestInitPolicies_GrantsAdmin(t *testing.T) {
	gdb := testdb.Open(t)
	e, err := NewEnforcer(gdb, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, InitPolicies(e, "", logger.NewNop()))
	require.NoError(t, InitPolicies(e, "", logger.NewNop()))
	require.NoError(t, e.AddRoleForUser("usr_root", constants.DefaultAdminRole))

	allowed, err := e.Enforce("usr_root", constants.ResourceSchema, constants.ActionPublish)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = e.Enforce("usr_other", constants.ResourceTicket, constants.ActionManage)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Policies survive a reload from the database.
	reloaded, err := NewEnforcer(gdb, logger.NewNop())
	require.NoError(t, err)
	allowed, err = reloaded.Enforce("usr_root", constants.ResourceTicket, constants.ActionManage)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestGrantSync_Prune(t *testing.T) {
	gdb := testdb.Open(t)
	e, err := NewEnforcer(gdb, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, gdb.Create(&models.UserModel{SID: "usr_alice", Email: "a@example.com", Name: "A", Status: "active"}).Error)
	require.NoError(t, gdb.Create(&models.RoleModel{SID: "rol_ops", Name: "ops"}).Error)

	require.NoError(t, e.AddRoleForUser("usr_alice", "rol_ops"))
	require.NoError(t, e.AddRoleForUser("usr_alice", "rol_gone"))
	require.NoError(t, e.AddRoleForUser("usr_ghost", "rol_ops"))
	require.NoError(t, e.AddRoleForUser("usr_alice", constants.DefaultAdminRole))

	removed, err := NewGrantSync(gdb, e, constants.DefaultAdminRole, logger.NewNop()).Prune()
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	roles, err := e.GetRolesForUser("usr_alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"rol_ops", constants.DefaultAdminRole}, roles)

	users, err := e.GetUsersForRole("rol_ops")
	require.NoError(t, err)
	assert.Equal(t, []string{"usr_alice"}, users)
}
