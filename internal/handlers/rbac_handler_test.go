package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"admin-service/internal/models"
	"admin-service/internal/repository"
	"admin-service/internal/services"
	"admin-service/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Repository stubs sized to the association handlers. The embedded
// interfaces panic on anything a test does not expect to reach.

type stubUserRepo struct {
	repository.IUserRepository
	users map[int]*models.User
}

func (s *stubUserRepo) GetUserByID(id int) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

type stubRBACRepo struct {
	repository.RBACRepository
	roles       map[int]*models.Role
	permissions map[int]*models.Permission
	userRoles   map[int]map[int]bool
	rolePerms   map[int]map[int]bool
}

func (s *stubRBACRepo) GetRoleByID(id int) (*models.Role, error) {
	role, ok := s.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return role, nil
}

func (s *stubRBACRepo) GetPermissionByID(id int) (*models.Permission, error) {
	permission, ok := s.permissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return permission, nil
}

func (s *stubRBACRepo) AssignRoleToUser(userID, roleID int) error {
	if s.userRoles[userID] == nil {
		s.userRoles[userID] = map[int]bool{}
	}
	s.userRoles[userID][roleID] = true
	return nil
}

func (s *stubRBACRepo) RemoveRoleFromUser(userID, roleID int) error {
	if !s.userRoles[userID][roleID] {
		return repository.ErrNotFound
	}
	delete(s.userRoles[userID], roleID)
	return nil
}

func (s *stubRBACRepo) GetUserWithRoles(userID int) (*models.UserWithRoles, error) {
	result := &models.UserWithRoles{Roles: []*models.Role{}}
	result.ID = userID
	for roleID := range s.userRoles[userID] {
		result.Roles = append(result.Roles, s.roles[roleID])
	}
	return result, nil
}

func (s *stubRBACRepo) AssignPermissionToRole(roleID, permissionID int) error {
	if s.rolePerms[roleID] == nil {
		s.rolePerms[roleID] = map[int]bool{}
	}
	s.rolePerms[roleID][permissionID] = true
	return nil
}

func (s *stubRBACRepo) RemovePermissionFromRole(roleID, permissionID int) error {
	if !s.rolePerms[roleID][permissionID] {
		return repository.ErrNotFound
	}
	delete(s.rolePerms[roleID], permissionID)
	return nil
}

func (s *stubRBACRepo) GetRoleWithPermissions(id int) (*models.RoleWithPermissions, error) {
	role, ok := s.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	result := &models.RoleWithPermissions{Role: *role, Permissions: []*models.Permission{}}
	for permissionID := range s.rolePerms[id] {
		result.Permissions = append(result.Permissions, s.permissions[permissionID])
	}
	return result, nil
}

func newRBACHandlerFixture(t *testing.T) (*RBACHandler, *stubRBACRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rbacRepo := &stubRBACRepo{
		roles:       map[int]*models.Role{1: {ID: 1, Name: "editor"}},
		permissions: map[int]*models.Permission{7: {ID: 7, Code: "users.read"}},
		userRoles:   map[int]map[int]bool{},
		rolePerms:   map[int]map[int]bool{},
	}
	userRepo := &stubUserRepo{users: map[int]*models.User{42: {ID: 42, Email: "alice@example.com"}}}
	service := services.NewRBACService(rbacRepo, userRepo, nil, nil)
	return NewRBACHandler(service), rbacRepo
}

func newHandlerContext(t *testing.T, method, target string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Params = params
	return c, recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder, data any) {
	t.Helper()
	var envelope utils.SuccessResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, data))
}

func TestAssignRoleRespondsWithUpdatedRoleSet(t *testing.T) {
	handler, _ := newRBACHandlerFixture(t)

	c, recorder := newHandlerContext(t, http.MethodPost, "/api/v1/users/42/roles/1", gin.Params{
		{Key: "id", Value: "42"},
		{Key: "role_id", Value: "1"},
	})
	handler.AssignRole(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	var user models.UserWithRoles
	decodeEnvelope(t, recorder, &user)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, "editor", user.Roles[0].Name)
}

func TestRemoveRoleRespondsWithUpdatedRoleSet(t *testing.T) {
	handler, rbacRepo := newRBACHandlerFixture(t)
	rbacRepo.userRoles[42] = map[int]bool{1: true}

	c, recorder := newHandlerContext(t, http.MethodDelete, "/api/v1/users/42/roles/1", gin.Params{
		{Key: "id", Value: "42"},
		{Key: "role_id", Value: "1"},
	})
	handler.RemoveRole(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	var user models.UserWithRoles
	decodeEnvelope(t, recorder, &user)
	assert.Empty(t, user.Roles)
}

func TestAssignPermissionRespondsWithUpdatedPermissionSet(t *testing.T) {
	handler, _ := newRBACHandlerFixture(t)

	c, recorder := newHandlerContext(t, http.MethodPost, "/api/v1/roles/1/permissions/7", gin.Params{
		{Key: "id", Value: "1"},
		{Key: "permission_id", Value: "7"},
	})
	handler.AssignPermission(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	var role models.RoleWithPermissions
	decodeEnvelope(t, recorder, &role)
	require.Len(t, role.Permissions, 1)
	assert.Equal(t, "users.read", role.Permissions[0].Code)
}

func TestRemovePermissionRespondsWithUpdatedPermissionSet(t *testing.T) {
	handler, rbacRepo := newRBACHandlerFixture(t)
	rbacRepo.rolePerms[1] = map[int]bool{7: true}

	c, recorder := newHandlerContext(t, http.MethodDelete, "/api/v1/roles/1/permissions/7", gin.Params{
		{Key: "id", Value: "1"},
		{Key: "permission_id", Value: "7"},
	})
	handler.RemovePermission(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	var role models.RoleWithPermissions
	decodeEnvelope(t, recorder, &role)
	assert.Empty(t, role.Permissions)
}

func TestGetRolePermissionsListsGrants(t *testing.T) {
	handler, rbacRepo := newRBACHandlerFixture(t)
	rbacRepo.rolePerms[1] = map[int]bool{7: true}

	c, recorder := newHandlerContext(t, http.MethodGet, "/api/v1/roles/1/permissions", gin.Params{
		{Key: "id", Value: "1"},
	})
	handler.GetRolePermissions(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	var role models.RoleWithPermissions
	decodeEnvelope(t, recorder, &role)
	assert.Equal(t, "editor", role.Name)
	require.Len(t, role.Permissions, 1)
	assert.Equal(t, "users.read", role.Permissions[0].Code)
}
