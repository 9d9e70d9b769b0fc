package models

import (
	"time"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserWithRoles is a user with role memberships eagerly loaded.
type UserWithRoles struct {
	User
	Roles []*Role `json:"roles"`
}

// AccessProfile holds the resolved role names and permission codes that go
// into a user's token claims. Roles are sorted, permissions are the sorted
// union over all of the user's roles.
type AccessProfile struct {
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}
