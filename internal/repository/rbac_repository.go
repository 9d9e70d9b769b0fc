package repository

import (
	"admin-service/internal/models"
	"admin-service/utils"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// RBACRepository handles role/permission persistence and the two
// many-to-many relations (user<->role, role<->permission).
type RBACRepository interface {
	// Role CRUD
	ListRoles(limit, offset int) ([]*models.RoleWithPermissions, error)
	CountRoles() (int, error)
	GetRoleByID(id int) (*models.Role, error)
	GetRoleByName(name string) (*models.Role, error)
	GetRoleWithPermissions(id int) (*models.RoleWithPermissions, error)
	CreateRole(role *models.Role) error
	UpdateRolePartial(id int, changes map[string]interface{}) error
	DeleteRole(id int) error

	// Permission CRUD
	ListPermissions(limit, offset int) ([]*models.PermissionWithRoles, error)
	CountPermissions() (int, error)
	GetPermissionByID(id int) (*models.Permission, error)
	GetPermissionByCode(code string) (*models.Permission, error)
	CreatePermission(permission *models.Permission) error
	UpdatePermissionPartial(id int, changes map[string]interface{}) error
	DeletePermission(id int) error

	// User-role relation
	GetUserWithRoles(userID int) (*models.UserWithRoles, error)
	AssignRoleToUser(userID, roleID int) error
	RemoveRoleFromUser(userID, roleID int) error

	// Role-permission relation
	AssignPermissionToRole(roleID, permissionID int) error
	RemovePermissionFromRole(roleID, permissionID int) error

	// Access profile for token claims
	GetAccessProfile(userID int) (*models.AccessProfile, error)
}

type rbacRepository struct {
	db *sqlx.DB
}

func NewRBACRepository(db *sqlx.DB) RBACRepository {
	return &rbacRepository{db: db}
}

var roleUpdatableFields = map[string]bool{
	"name":        true,
	"description": true,
}

var permissionUpdatableFields = map[string]bool{
	"code":        true,
	"description": true,
}

// ListRoles returns roles in id order with their permissions eagerly
// attached. Permissions for the whole page are loaded in one query to avoid
// an N+1 pattern.
func (r *rbacRepository) ListRoles(limit, offset int) ([]*models.RoleWithPermissions, error) {
	var roles []*models.Role
	query := `SELECT * FROM roles ORDER BY id LIMIT $1 OFFSET $2`

	if err := r.db.Select(&roles, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	result := make([]*models.RoleWithPermissions, len(roles))
	byID := make(map[int]*models.RoleWithPermissions, len(roles))
	ids := make([]int, len(roles))
	for i, role := range roles {
		result[i] = &models.RoleWithPermissions{Role: *role, Permissions: []*models.Permission{}}
		byID[role.ID] = result[i]
		ids[i] = role.ID
	}
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Queryx(`
		SELECT rp.role_id, p.id, p.code, p.description, p.created_at
		FROM permissions p
		INNER JOIN role_permissions rp ON p.id = rp.permission_id
		WHERE rp.role_id = ANY($1)
		ORDER BY p.id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var roleID int
		var p models.Permission
		if err := rows.Scan(&roleID, &p.ID, &p.Code, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role permission: %w", err)
		}
		if role, ok := byID[roleID]; ok {
			role.Permissions = append(role.Permissions, &p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read role permissions: %w", err)
	}

	return result, nil
}

func (r *rbacRepository) CountRoles() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM roles`); err != nil {
		return 0, fmt.Errorf("failed to count roles: %w", err)
	}
	return count, nil
}

func (r *rbacRepository) GetRoleByID(id int) (*models.Role, error) {
	var role models.Role
	query := `SELECT * FROM roles WHERE id = $1`

	err := r.db.Get(&role, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get role by ID: %w", err)
	}

	return &role, nil
}

func (r *rbacRepository) GetRoleByName(name string) (*models.Role, error) {
	var role models.Role
	query := `SELECT * FROM roles WHERE name = $1`

	err := r.db.Get(&role, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}

	return &role, nil
}

func (r *rbacRepository) GetRoleWithPermissions(id int) (*models.RoleWithPermissions, error) {
	role, err := r.GetRoleByID(id)
	if err != nil {
		return nil, err
	}

	permissions := []*models.Permission{}
	err = r.db.Select(&permissions, `
		SELECT p.*
		FROM permissions p
		INNER JOIN role_permissions rp ON p.id = rp.permission_id
		WHERE rp.role_id = $1
		ORDER BY p.id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}

	return &models.RoleWithPermissions{Role: *role, Permissions: permissions}, nil
}

func (r *rbacRepository) CreateRole(role *models.Role) error {
	query := `
		INSERT INTO roles (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(query, role.Name, role.Description).
		Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create role: %w", translatePQError(err))
	}

	return nil
}

func (r *rbacRepository) UpdateRolePartial(id int, changes map[string]interface{}) error {
	built, err := utils.BuildDynamicUpdateQuery("roles", changes, roleUpdatableFields, "id", id, true)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(built.Query, built.Args...)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", translatePQError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteRole hard deletes a role. user_roles and role_permissions rows go
// with it via ON DELETE CASCADE.
func (r *rbacRepository) DeleteRole(id int) error {
	result, err := r.db.Exec(`DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *rbacRepository) ListPermissions(limit, offset int) ([]*models.PermissionWithRoles, error) {
	var permissions []*models.Permission
	query := `SELECT * FROM permissions ORDER BY id LIMIT $1 OFFSET $2`

	if err := r.db.Select(&permissions, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	result := make([]*models.PermissionWithRoles, len(permissions))
	byID := make(map[int]*models.PermissionWithRoles, len(permissions))
	ids := make([]int, len(permissions))
	for i, permission := range permissions {
		result[i] = &models.PermissionWithRoles{Permission: *permission, Roles: []*models.Role{}}
		byID[permission.ID] = result[i]
		ids[i] = permission.ID
	}
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Queryx(`
		SELECT rp.permission_id, ro.id, ro.name, ro.description, ro.created_at, ro.updated_at
		FROM roles ro
		INNER JOIN role_permissions rp ON ro.id = rp.role_id
		WHERE rp.permission_id = ANY($1)
		ORDER BY ro.id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load permission roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var permissionID int
		var ro models.Role
		if err := rows.Scan(&permissionID, &ro.ID, &ro.Name, &ro.Description, &ro.CreatedAt, &ro.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan permission role: %w", err)
		}
		if permission, ok := byID[permissionID]; ok {
			permission.Roles = append(permission.Roles, &ro)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read permission roles: %w", err)
	}

	return result, nil
}

func (r *rbacRepository) CountPermissions() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM permissions`); err != nil {
		return 0, fmt.Errorf("failed to count permissions: %w", err)
	}
	return count, nil
}

func (r *rbacRepository) GetPermissionByID(id int) (*models.Permission, error) {
	var permission models.Permission
	query := `SELECT * FROM permissions WHERE id = $1`

	err := r.db.Get(&permission, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get permission by ID: %w", err)
	}

	return &permission, nil
}

func (r *rbacRepository) GetPermissionByCode(code string) (*models.Permission, error) {
	var permission models.Permission
	query := `SELECT * FROM permissions WHERE code = $1`

	err := r.db.Get(&permission, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get permission by code: %w", err)
	}

	return &permission, nil
}

func (r *rbacRepository) CreatePermission(permission *models.Permission) error {
	query := `
		INSERT INTO permissions (code, description)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(query, permission.Code, permission.Description).
		Scan(&permission.ID, &permission.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create permission: %w", translatePQError(err))
	}

	return nil
}

func (r *rbacRepository) UpdatePermissionPartial(id int, changes map[string]interface{}) error {
	built, err := utils.BuildDynamicUpdateQuery("permissions", changes, permissionUpdatableFields, "id", id, false)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(built.Query, built.Args...)
	if err != nil {
		return fmt.Errorf("failed to update permission: %w", translatePQError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *rbacRepository) DeletePermission(id int) error {
	result, err := r.db.Exec(`DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *rbacRepository) GetUserWithRoles(userID int) (*models.UserWithRoles, error) {
	var user models.User
	err := r.db.Get(&user, `SELECT * FROM users WHERE id = $1`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	roles := []*models.Role{}
	err = r.db.Select(&roles, `
		SELECT ro.*
		FROM roles ro
		INNER JOIN user_roles ur ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ro.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}

	return &models.UserWithRoles{User: user, Roles: roles}, nil
}

// AssignRoleToUser inserts the membership edge. Re-adding an existing
// membership is a no-op, not an error.
func (r *rbacRepository) AssignRoleToUser(userID, roleID int) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING`

	_, err := r.db.Exec(query, userID, roleID)
	if err != nil {
		return fmt.Errorf("failed to assign role to user: %w", translatePQError(err))
	}

	return nil
}

// RemoveRoleFromUser deletes the membership edge. Removing a membership the
// user never held is ErrNotFound, distinct from the role itself missing.
func (r *rbacRepository) RemoveRoleFromUser(userID, roleID int) error {
	result, err := r.db.Exec(`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return fmt.Errorf("failed to remove role from user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *rbacRepository) AssignPermissionToRole(roleID, permissionID int) error {
	query := `
		INSERT INTO role_permissions (role_id, permission_id)
		VALUES ($1, $2)
		ON CONFLICT (role_id, permission_id) DO NOTHING`

	_, err := r.db.Exec(query, roleID, permissionID)
	if err != nil {
		return fmt.Errorf("failed to assign permission to role: %w", translatePQError(err))
	}

	return nil
}

func (r *rbacRepository) RemovePermissionFromRole(roleID, permissionID int) error {
	result, err := r.db.Exec(`DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`, roleID, permissionID)
	if err != nil {
		return fmt.Errorf("failed to remove permission from role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetAccessProfile resolves the sorted role names and the sorted union of
// permission codes across all of the user's roles.
func (r *rbacRepository) GetAccessProfile(userID int) (*models.AccessProfile, error) {
	roles := []string{}
	err := r.db.Select(&roles, `
		SELECT ro.name
		FROM roles ro
		INNER JOIN user_roles ur ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ro.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user role names: %w", err)
	}

	permissions := []string{}
	err = r.db.Select(&permissions, `
		SELECT DISTINCT p.code
		FROM permissions p
		INNER JOIN role_permissions rp ON p.id = rp.permission_id
		INNER JOIN user_roles ur ON rp.role_id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY p.code`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user permission codes: %w", err)
	}

	return &models.AccessProfile{Roles: roles, Permissions: permissions}, nil
}
