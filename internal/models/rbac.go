package models

import "time"

type Role struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Permission struct {
	ID          int       `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// UserRole is one edge of the user<->role many-to-many relation.
type UserRole struct {
	UserID int `json:"user_id" db:"user_id"`
	RoleID int `json:"role_id" db:"role_id"`
}

// RolePermission is one edge of the role<->permission many-to-many relation.
type RolePermission struct {
	RoleID       int `json:"role_id" db:"role_id"`
	PermissionID int `json:"permission_id" db:"permission_id"`
}

// RoleWithPermissions is a role with its permission grants eagerly loaded.
type RoleWithPermissions struct {
	Role
	Permissions []*Permission `json:"permissions"`
}

// PermissionWithRoles is a permission with its granting roles eagerly loaded.
type PermissionWithRoles struct {
	Permission
	Roles []*Role `json:"roles"`
}

const (
	DefaultAdminRoleName = "admin"
	DefaultUserRoleName  = "user_default"
)
