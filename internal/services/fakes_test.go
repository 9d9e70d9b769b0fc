package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*models.User{}}
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return fmt.Errorf("failed to create user: %w", repository.ErrConflict)
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetUserByID(id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetAllUsers(limit, offset int) ([]*models.User, error) {
	ids := make([]int, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	users := []*models.User{}
	for i, id := range ids {
		if i < offset || len(users) >= limit {
			continue
		}
		clone := *f.users[id]
		users = append(users, &clone)
	}
	return users, nil
}

func (f *fakeUserRepo) CountUsers() (int, error) {
	return len(f.users), nil
}

func (f *fakeUserRepo) UpdateUserPartial(id int, changes map[string]interface{}) error {
	user, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	for field, value := range changes {
		switch field {
		case "full_name":
			user.FullName = value.(string)
		case "email":
			user.Email = value.(string)
		case "password_hash":
			user.PasswordHash = value.(string)
		case "is_active":
			user.IsActive = value.(bool)
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) DeleteUser(id int) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (f *fakeUserRepo) CheckPasswordHash(password, hash string) bool {
	return hash == "hashed:"+password
}

type fakeRBACRepo struct {
	roles       map[int]*models.Role
	permissions map[int]*models.Permission
	userRoles   map[int]map[int]bool
	rolePerms   map[int]map[int]bool
	users       *fakeUserRepo
	nextRoleID  int
	nextPermID  int
}

func newFakeRBACRepo(users *fakeUserRepo) *fakeRBACRepo {
	return &fakeRBACRepo{
		roles:       map[int]*models.Role{},
		permissions: map[int]*models.Permission{},
		userRoles:   map[int]map[int]bool{},
		rolePerms:   map[int]map[int]bool{},
		users:       users,
	}
}

func (f *fakeRBACRepo) sortedRoleIDs() []int {
	ids := make([]int, 0, len(f.roles))
	for id := range f.roles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (f *fakeRBACRepo) ListRoles(limit, offset int) ([]*models.RoleWithPermissions, error) {
	result := []*models.RoleWithPermissions{}
	for i, id := range f.sortedRoleIDs() {
		if i < offset || len(result) >= limit {
			continue
		}
		role, _ := f.GetRoleWithPermissions(id)
		result = append(result, role)
	}
	return result, nil
}

func (f *fakeRBACRepo) CountRoles() (int, error) {
	return len(f.roles), nil
}

func (f *fakeRBACRepo) GetRoleByID(id int) (*models.Role, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *role
	return &clone, nil
}

func (f *fakeRBACRepo) GetRoleByName(name string) (*models.Role, error) {
	for _, role := range f.roles {
		if role.Name == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRBACRepo) GetRoleWithPermissions(id int) (*models.RoleWithPermissions, error) {
	role, err := f.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	permissions := []*models.Permission{}
	permIDs := make([]int, 0, len(f.rolePerms[id]))
	for permID := range f.rolePerms[id] {
		permIDs = append(permIDs, permID)
	}
	sort.Ints(permIDs)
	for _, permID := range permIDs {
		clone := *f.permissions[permID]
		permissions = append(permissions, &clone)
	}
	return &models.RoleWithPermissions{Role: *role, Permissions: permissions}, nil
}

func (f *fakeRBACRepo) CreateRole(role *models.Role) error {
	for _, existing := range f.roles {
		if existing.Name == role.Name {
			return fmt.Errorf("failed to create role: %w", repository.ErrConflict)
		}
	}
	f.nextRoleID++
	role.ID = f.nextRoleID
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt
	clone := *role
	f.roles[role.ID] = &clone
	return nil
}

func (f *fakeRBACRepo) UpdateRolePartial(id int, changes map[string]interface{}) error {
	role, ok := f.roles[id]
	if !ok {
		return repository.ErrNotFound
	}
	for field, value := range changes {
		switch field {
		case "name":
			role.Name = value.(string)
		case "description":
			description := value.(string)
			role.Description = &description
		}
	}
	role.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRBACRepo) DeleteRole(id int) error {
	if _, ok := f.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.roles, id)
	delete(f.rolePerms, id)
	for userID := range f.userRoles {
		delete(f.userRoles[userID], id)
	}
	return nil
}

func (f *fakeRBACRepo) ListPermissions(limit, offset int) ([]*models.PermissionWithRoles, error) {
	ids := make([]int, 0, len(f.permissions))
	for id := range f.permissions {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := []*models.PermissionWithRoles{}
	for i, id := range ids {
		if i < offset || len(result) >= limit {
			continue
		}
		clone := *f.permissions[id]
		roles := []*models.Role{}
		for _, roleID := range f.sortedRoleIDs() {
			if f.rolePerms[roleID][id] {
				roleClone := *f.roles[roleID]
				roles = append(roles, &roleClone)
			}
		}
		result = append(result, &models.PermissionWithRoles{Permission: clone, Roles: roles})
	}
	return result, nil
}

func (f *fakeRBACRepo) CountPermissions() (int, error) {
	return len(f.permissions), nil
}

func (f *fakeRBACRepo) GetPermissionByID(id int) (*models.Permission, error) {
	permission, ok := f.permissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *permission
	return &clone, nil
}

func (f *fakeRBACRepo) GetPermissionByCode(code string) (*models.Permission, error) {
	for _, permission := range f.permissions {
		if permission.Code == code {
			clone := *permission
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRBACRepo) CreatePermission(permission *models.Permission) error {
	for _, existing := range f.permissions {
		if existing.Code == permission.Code {
			return fmt.Errorf("failed to create permission: %w", repository.ErrConflict)
		}
	}
	f.nextPermID++
	permission.ID = f.nextPermID
	permission.CreatedAt = time.Now()
	clone := *permission
	f.permissions[permission.ID] = &clone
	return nil
}

func (f *fakeRBACRepo) UpdatePermissionPartial(id int, changes map[string]interface{}) error {
	permission, ok := f.permissions[id]
	if !ok {
		return repository.ErrNotFound
	}
	for field, value := range changes {
		switch field {
		case "code":
			permission.Code = value.(string)
		case "description":
			description := value.(string)
			permission.Description = &description
		}
	}
	return nil
}

func (f *fakeRBACRepo) DeletePermission(id int) error {
	if _, ok := f.permissions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.permissions, id)
	for roleID := range f.rolePerms {
		delete(f.rolePerms[roleID], id)
	}
	return nil
}

func (f *fakeRBACRepo) GetUserWithRoles(userID int) (*models.UserWithRoles, error) {
	user, err := f.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	roles := []*models.Role{}
	for _, roleID := range f.sortedRoleIDs() {
		if f.userRoles[userID][roleID] {
			clone := *f.roles[roleID]
			roles = append(roles, &clone)
		}
	}
	return &models.UserWithRoles{User: *user, Roles: roles}, nil
}

func (f *fakeRBACRepo) AssignRoleToUser(userID, roleID int) error {
	if f.userRoles[userID] == nil {
		f.userRoles[userID] = map[int]bool{}
	}
	f.userRoles[userID][roleID] = true
	return nil
}

func (f *fakeRBACRepo) RemoveRoleFromUser(userID, roleID int) error {
	if !f.userRoles[userID][roleID] {
		return repository.ErrNotFound
	}
	delete(f.userRoles[userID], roleID)
	return nil
}

func (f *fakeRBACRepo) AssignPermissionToRole(roleID, permissionID int) error {
	if f.rolePerms[roleID] == nil {
		f.rolePerms[roleID] = map[int]bool{}
	}
	f.rolePerms[roleID][permissionID] = true
	return nil
}

func (f *fakeRBACRepo) RemovePermissionFromRole(roleID, permissionID int) error {
	if !f.rolePerms[roleID][permissionID] {
		return repository.ErrNotFound
	}
	delete(f.rolePerms[roleID], permissionID)
	return nil
}

func (f *fakeRBACRepo) GetAccessProfile(userID int) (*models.AccessProfile, error) {
	roles := []string{}
	permSet := map[string]bool{}
	for roleID := range f.userRoles[userID] {
		roles = append(roles, f.roles[roleID].Name)
		for permID := range f.rolePerms[roleID] {
			permSet[f.permissions[permID].Code] = true
		}
	}
	sort.Strings(roles)

	permissions := make([]string, 0, len(permSet))
	for code := range permSet {
		permissions = append(permissions, code)
	}
	sort.Strings(permissions)

	return &models.AccessProfile{Roles: roles, Permissions: permissions}, nil
}

type fakeMenuRepo struct {
	menus  map[int]*models.Menu
	nextID int
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{menus: map[int]*models.Menu{}}
}

func (f *fakeMenuRepo) ListMenus(limit, offset int) ([]*models.Menu, error) {
	ids := make([]int, 0, len(f.menus))
	for id := range f.menus {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	menus := []*models.Menu{}
	for i, id := range ids {
		if i < offset || len(menus) >= limit {
			continue
		}
		clone := *f.menus[id]
		menus = append(menus, &clone)
	}
	return menus, nil
}

func (f *fakeMenuRepo) CountMenus() (int, error) {
	return len(f.menus), nil
}

func (f *fakeMenuRepo) GetMenuByID(id int) (*models.Menu, error) {
	menu, ok := f.menus[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *menu
	return &clone, nil
}

func (f *fakeMenuRepo) GetMenuByKey(menuKey string) (*models.Menu, error) {
	for _, menu := range f.menus {
		if menu.MenuKey == menuKey {
			clone := *menu
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMenuRepo) CreateMenu(menu *models.Menu) error {
	for _, existing := range f.menus {
		if existing.MenuKey == menu.MenuKey {
			return fmt.Errorf("failed to create menu: %w", repository.ErrConflict)
		}
	}
	f.nextID++
	menu.ID = f.nextID
	menu.CreatedAt = time.Now()
	menu.UpdatedAt = menu.CreatedAt
	clone := *menu
	f.menus[menu.ID] = &clone
	return nil
}

func (f *fakeMenuRepo) UpdateMenuPartial(id int, changes map[string]interface{}) error {
	menu, ok := f.menus[id]
	if !ok {
		return repository.ErrNotFound
	}
	for field, value := range changes {
		switch field {
		case "menu_key":
			menu.MenuKey = value.(string)
		case "section_title":
			menu.SectionTitle = value.(string)
		case "parent_id":
			parentID := value.(int)
			menu.ParentID = &parentID
		case "label":
			menu.Label = value.(string)
		case "href":
			href := value.(string)
			menu.Href = &href
		case "icon":
			icon := value.(string)
			menu.Icon = &icon
		case "list_id":
			listID := value.(string)
			menu.ListID = &listID
		case "badge_text":
			badgeText := value.(string)
			menu.BadgeText = &badgeText
		case "badge_class_name":
			badgeClassName := value.(string)
			menu.BadgeClassName = &badgeClassName
		case "is_active":
			menu.IsActive = value.(bool)
		case "is_hidden":
			menu.IsHidden = value.(bool)
		case "show_more_toggle":
			menu.ShowMoreToggle = value.(bool)
		case "initially_open":
			menu.InitiallyOpen = value.(bool)
		case "depth":
			menu.Depth = value.(int)
		case "sort_order":
			menu.SortOrder = value.(int)
		}
	}
	menu.UpdatedAt = time.Now()
	return nil
}

func (f *fakeMenuRepo) DeleteMenu(id int) error {
	if _, ok := f.menus[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.menus, id)
	for _, menu := range f.menus {
		if menu.ParentID != nil && *menu.ParentID == id {
			delete(f.menus, menu.ID)
		}
	}
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*models.UserSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*models.UserSession{}}
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, session *models.UserSession) error {
	clone := *session
	f.sessions[session.ID] = &clone
	return nil
}

func (f *fakeSessionRepo) GetSession(ctx context.Context, sessionID string) (*models.UserSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		delete(f.sessions, sessionID)
		return nil, repository.ErrNotFound
	}
	clone := *session
	return &clone, nil
}

func (f *fakeSessionRepo) DeleteSession(ctx context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeSessionRepo) DeleteUserSessions(ctx context.Context, userID int) error {
	for id, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

func (f *fakeSessionRepo) GetUserSessions(ctx context.Context, userID int) ([]*models.UserSession, error) {
	sessions := []*models.UserSession{}
	for _, session := range f.sessions {
		if session.UserID == userID {
			clone := *session
			sessions = append(sessions, &clone)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return strings.Compare(sessions[i].ID, sessions[j].ID) < 0
	})
	return sessions, nil
}

var (
	_ repository.IUserRepository   = (*fakeUserRepo)(nil)
	_ repository.RBACRepository    = (*fakeRBACRepo)(nil)
	_ repository.MenuRepository    = (*fakeMenuRepo)(nil)
	_ repository.SessionRepository = (*fakeSessionRepo)(nil)
)
