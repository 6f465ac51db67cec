package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blobdto "github.com/orris-inc/ticketflow/internal/application/blob/dto"
	blobusecases "github.com/orris-inc/ticketflow/internal/application/blob/usecases"
	permdto "github.com/orris-inc/ticketflow/internal/application/permission/dto"
	permusecases "github.com/orris-inc/ticketflow/internal/application/permission/usecases"
	userdto "github.com/orris-inc/ticketflow/internal/application/user/dto"
	"github.com/orris-inc/ticketflow/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
)

type mockCreateUserUC struct {
	req    userdto.CreateUserRequest
	result *userdto.UserResponse
	err    error
}

func (m *mockCreateUserUC) Execute(_ context.Context, req userdto.CreateUserRequest) (*userdto.UserResponse, error) {
	m.req = req
	return m.result, m.err
}

type mockListUsersUC struct {
	req userdto.ListUsersRequest
}

func (m *mockListUsersUC) Execute(_ context.Context, req userdto.ListUsersRequest) (*userdto.ListUsersResponse, error) {
	m.req = req
	return &userdto.ListUsersResponse{Page: req.Page, PageSize: req.PageSize}, nil
}

type mockUpdateStatusUC struct {
	sid string
	req userdto.UpdateUserStatusRequest
	err error
}

func (m *mockUpdateStatusUC) Execute(_ context.Context, sid string, req userdto.UpdateUserStatusRequest) (*userdto.UserResponse, error) {
	m.sid, m.req = sid, req
	if m.err != nil {
		return nil, m.err
	}
	return &userdto.UserResponse{ID: sid, Status: req.Status}, nil
}

func TestUserHandler_CreateUser(t *testing.T) {
	createUC := &mockCreateUserUC{result: &userdto.UserResponse{ID: "usr_alice0001", CreatedAt: time.Now().UTC()}}
	handler := NewUserHandler(createUC, nil, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/users", userdto.CreateUserRequest{Email: "alice@example.com", Name: "Alice"})
	handler.CreateUser(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice@example.com", createUC.req.Email)
}

func TestUserHandler_CreateUser_Invalid(t *testing.T) {
	handler := NewUserHandler(&mockCreateUserUC{}, nil, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/users", map[string]string{"email": "nope", "name": "A"})
	handler.CreateUser(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_CreateUser_Conflict(t *testing.T) {
	handler := NewUserHandler(&mockCreateUserUC{err: errors.NewConflictError("email already exists")}, nil, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/users", userdto.CreateUserRequest{Email: "a@example.com", Name: "A"})
	handler.CreateUser(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_ListUsers(t *testing.T) {
	listUC := &mockListUsersUC{}
	handler := NewUserHandler(nil, listUC, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/users", nil)
	testutil.SetQueryParams(c, map[string]string{"status": "inactive", "page_size": "500"})
	handler.ListUsers(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "inactive", listUC.req.Status)
	assert.Equal(t, 1, listUC.req.Page)
	assert.LessOrEqual(t, listUC.req.PageSize, 100)

	c, w = testutil.NewTestContext(http.MethodGet, "/users", nil)
	testutil.SetQueryParams(c, map[string]string{"status": "banned"})
	handler.ListUsers(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_UpdateUserStatus(t *testing.T) {
	updateUC := &mockUpdateStatusUC{}
	handler := NewUserHandler(nil, nil, updateUC, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPatch, "/users/usr_bob000001/status", userdto.UpdateUserStatusRequest{Status: "inactive"})
	testutil.SetURLParam(c, "id", "usr_bob000001")
	handler.UpdateUserStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "usr_bob000001", updateUC.sid)
	assert.Equal(t, "inactive", updateUC.req.Status)

	c, w = testutil.NewTestContext(http.MethodPatch, "/users/rol_x/status", userdto.UpdateUserStatusRequest{Status: "inactive"})
	testutil.SetURLParam(c, "id", "rol_x")
	handler.UpdateUserStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type mockCreateRoleUC struct{}

func (mockCreateRoleUC) Execute(_ context.Context, req permdto.CreateRoleRequest) (*permdto.RoleResponse, error) {
	return &permdto.RoleResponse{ID: "rol_reviewers1", Name: req.Name}, nil
}

type mockListRolesUC struct {
	query permusecases.ListRolesQuery
}

func (m *mockListRolesUC) Execute(_ context.Context, query permusecases.ListRolesQuery) (*permdto.ListRolesResponse, error) {
	m.query = query
	return &permdto.ListRolesResponse{Page: query.Page, PageSize: query.PageSize}, nil
}

type mockMembershipUC struct {
	cmd permusecases.UpdateRoleMembershipCommand
	err error
}

func (m *mockMembershipUC) Execute(_ context.Context, cmd permusecases.UpdateRoleMembershipCommand) error {
	m.cmd = cmd
	return m.err
}

func TestRoleHandler_CreateAndList(t *testing.T) {
	listUC := &mockListRolesUC{}
	handler := NewRoleHandler(mockCreateRoleUC{}, listUC, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/roles", permdto.CreateRoleRequest{Name: "Reviewers"})
	handler.CreateRole(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = testutil.NewTestContext(http.MethodPost, "/roles", map[string]string{})
	handler.CreateRole(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testutil.NewTestContext(http.MethodGet, "/roles", nil)
	testutil.SetQueryParams(c, map[string]string{"with_members": "true"})
	handler.ListRoles(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, listUC.query.WithMembers)
}

func TestRoleHandler_Membership(t *testing.T) {
	membershipUC := &mockMembershipUC{}
	handler := NewRoleHandler(nil, nil, membershipUC, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/roles/rol_reviewers1/members", permdto.RoleMembershipRequest{UserID: "usr_bob000001"})
	testutil.SetURLParam(c, "id", "rol_reviewers1")
	handler.GrantRole(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, permusecases.UpdateRoleMembershipCommand{
		RoleSID: "rol_reviewers1",
		UserSID: "usr_bob000001",
		Grant:   true,
	}, membershipUC.cmd)

	c, w = testutil.NewTestContext(http.MethodDelete, "/roles/rol_reviewers1/members/usr_bob000001", nil)
	testutil.SetURLParam(c, "id", "rol_reviewers1")
	testutil.SetURLParam(c, "user_id", "usr_bob000001")
	handler.RevokeRole(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, membershipUC.cmd.Grant)

	membershipUC.err = errors.NewNotFoundError("role not found")
	c, w = testutil.NewTestContext(http.MethodDelete, "/roles/rol_gone00001/members/usr_bob000001", nil)
	testutil.SetURLParam(c, "id", "rol_gone00001")
	testutil.SetURLParam(c, "user_id", "usr_bob000001")
	handler.RevokeRole(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

type mockRegisterBlobUC struct {
	cmd blobusecases.RegisterBlobCommand
}

func (m *mockRegisterBlobUC) Execute(_ context.Context, cmd blobusecases.RegisterBlobCommand) (*blobdto.BlobResponse, error) {
	m.cmd = cmd
	return &blobdto.BlobResponse{ID: "blb_img000001", UploadedBy: cmd.UploaderID}, nil
}

func TestBlobHandler_RegisterBlob(t *testing.T) {
	registerUC := &mockRegisterBlobUC{}
	handler := NewBlobHandler(registerUC, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/blobs", blobdto.RegisterBlobRequest{
		Kind: "image", Mime: "image/png", Size: 2048, Width: 640, Height: 480,
	})
	testutil.SetAuthContext(c, "usr_alice0001")
	handler.RegisterBlob(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "usr_alice0001", registerUC.cmd.UploaderID)
	assert.Equal(t, 640, registerUC.cmd.Request.Width)

	c, w = testutil.NewTestContext(http.MethodPost, "/blobs", blobdto.RegisterBlobRequest{Kind: "video", Mime: "video/mp4", Size: 1})
	testutil.SetAuthContext(c, "usr_alice0001")
	handler.RegisterBlob(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
