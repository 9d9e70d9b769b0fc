package repository

import (
	"admin-service/internal/models"
	"admin-service/utils"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type IUserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id int) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetAllUsers(limit, offset int) ([]*models.User, error)
	CountUsers() (int, error)
	UpdateUserPartial(id int, changes map[string]interface{}) error
	DeleteUser(id int) error
	HashPassword(password string) (string, error)
	CheckPasswordHash(password, hash string) bool
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) IUserRepository {
	return &UserRepository{
		db: db,
	}
}

var userUpdatableFields = map[string]bool{
	"full_name":     true,
	"email":         true,
	"password_hash": true,
	"is_active":     true,
}

func (u *UserRepository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (full_name, email, password_hash, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := u.db.QueryRow(query, user.FullName, user.Email, user.PasswordHash, user.IsActive).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translatePQError(err))
	}

	return nil
}

func (u *UserRepository) GetUserByID(id int) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE id = $1`

	err := u.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

func (u *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE email = $1`

	err := u.db.Get(&user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (u *UserRepository) GetAllUsers(limit, offset int) ([]*models.User, error) {
	var users []*models.User
	query := `SELECT * FROM users ORDER BY id LIMIT $1 OFFSET $2`

	err := u.db.Select(&users, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return users, nil
}

func (u *UserRepository) CountUsers() (int, error) {
	var count int
	if err := u.db.Get(&count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// UpdateUserPartial applies only the supplied fields. updated_at is always
// refreshed; created_at is never touched.
func (u *UserRepository) UpdateUserPartial(id int, changes map[string]interface{}) error {
	built, err := utils.BuildDynamicUpdateQuery("users", changes, userUpdatableFields, "id", id, true)
	if err != nil {
		return err
	}

	result, err := u.db.Exec(built.Query, built.Args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", translatePQError(err))
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

// DeleteUser hard deletes a user. Role associations go with it via the
// user_roles ON DELETE CASCADE.
func (u *UserRepository) DeleteUser(id int) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := u.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

func (u *UserRepository) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (u *UserRepository) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
