package assignment

import (
	"context"

	"github.com/orris-inc/ticketflow/internal/domain/permission"
	"github.com/orris-inc/ticketflow/internal/domain/user"
)

type mockUserRepository struct {
	users map[string]*user.User
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.users[u.SID()] = u
	return nil
}

func (m *mockUserRepository) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	return m.users[sid], nil
}

func (m *mockUserRepository) GetBySIDs(ctx context.Context, sids []string) (map[string]*user.User, error) {
	out := make(map[string]*user.User)
	for _, sid := range sids {
		if u, ok := m.users[sid]; ok {
			out[sid] = u
		}
	}
	return out, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	return nil
}

func (m *mockUserRepository) ExistsActive(ctx context.Context, sid string) (bool, error) {
	u, ok := m.users[sid]
	return ok && u.IsActive(), nil
}

func (m *mockUserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	return nil, 0, nil
}

type mockRoleRepository struct {
	roles map[string]bool
}

func (m *mockRoleRepository) Create(ctx context.Context, role *permission.Role) error {
	return nil
}

func (m *mockRoleRepository) GetBySID(ctx context.Context, sid string) (*permission.Role, error) {
	return nil, nil
}

func (m *mockRoleRepository) Exists(ctx context.Context, sid string) (bool, error) {
	return m.roles[sid], nil
}

func (m *mockRoleRepository) List(ctx context.Context, filter permission.RoleFilter) ([]*permission.Role, int64, error) {
	return nil, 0, nil
}

// mockMembers maps role ids to member user ids.
type mockMembers map[string][]string

func (m mockMembers) GetUsersForRole(role string) ([]string, error) {
	return m[role], nil
}

func (m mockMembers) HasRoleForUser(userID string, role string) (bool, error) {
	for _, u := range m[role] {
		if u == userID {
			return true, nil
		}
	}
	return false, nil
}
