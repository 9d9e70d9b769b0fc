package repository

import (
	"admin-service/internal/models"
	"admin-service/utils"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type MenuRepository interface {
	ListMenus(limit, offset int) ([]*models.Menu, error)
	CountMenus() (int, error)
	GetMenuByID(id int) (*models.Menu, error)
	GetMenuByKey(menuKey string) (*models.Menu, error)
	CreateMenu(menu *models.Menu) error
	UpdateMenuPartial(id int, changes map[string]interface{}) error
	DeleteMenu(id int) error
}

type menuRepository struct {
	db *sqlx.DB
}

func NewMenuRepository(db *sqlx.DB) MenuRepository {
	return &menuRepository{db: db}
}

var menuUpdatableFields = map[string]bool{
	"menu_key":         true,
	"section_title":    true,
	"parent_id":        true,
	"label":            true,
	"href":             true,
	"icon":             true,
	"list_id":          true,
	"badge_text":       true,
	"badge_class_name": true,
	"is_active":        true,
	"is_hidden":        true,
	"show_more_toggle": true,
	"initially_open":   true,
	"depth":            true,
	"sort_order":       true,
}

func (m *menuRepository) ListMenus(limit, offset int) ([]*models.Menu, error) {
	var menus []*models.Menu
	query := `SELECT * FROM menus ORDER BY section_title, sort_order, id LIMIT $1 OFFSET $2`

	err := m.db.Select(&menus, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}

	return menus, nil
}

func (m *menuRepository) CountMenus() (int, error) {
	var count int
	if err := m.db.Get(&count, `SELECT COUNT(*) FROM menus`); err != nil {
		return 0, fmt.Errorf("failed to count menus: %w", err)
	}
	return count, nil
}

func (m *menuRepository) GetMenuByID(id int) (*models.Menu, error) {
	var menu models.Menu
	query := `SELECT * FROM menus WHERE id = $1`

	err := m.db.Get(&menu, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get menu by ID: %w", err)
	}

	return &menu, nil
}

func (m *menuRepository) GetMenuByKey(menuKey string) (*models.Menu, error) {
	var menu models.Menu
	query := `SELECT * FROM menus WHERE menu_key = $1`

	err := m.db.Get(&menu, query, menuKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get menu by key: %w", err)
	}

	return &menu, nil
}

func (m *menuRepository) CreateMenu(menu *models.Menu) error {
	query := `
		INSERT INTO menus (menu_key, section_title, parent_id, label, href, icon, list_id,
		                   badge_text, badge_class_name, is_active, is_hidden,
		                   show_more_toggle, initially_open, depth, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`

	err := m.db.QueryRow(query,
		menu.MenuKey, menu.SectionTitle, menu.ParentID, menu.Label, menu.Href,
		menu.Icon, menu.ListID, menu.BadgeText, menu.BadgeClassName,
		menu.IsActive, menu.IsHidden, menu.ShowMoreToggle, menu.InitiallyOpen,
		menu.Depth, menu.SortOrder,
	).Scan(&menu.ID, &menu.CreatedAt, &menu.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create menu: %w", translatePQError(err))
	}

	return nil
}

func (m *menuRepository) UpdateMenuPartial(id int, changes map[string]interface{}) error {
	built, err := utils.BuildDynamicUpdateQuery("menus", changes, menuUpdatableFields, "id", id, true)
	if err != nil {
		return err
	}

	result, err := m.db.Exec(built.Query, built.Args...)
	if err != nil {
		return fmt.Errorf("failed to update menu: %w", translatePQError(err))
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

// DeleteMenu hard deletes a menu. Descendant nodes go with it via the
// parent_id ON DELETE CASCADE.
func (m *menuRepository) DeleteMenu(id int) error {
	result, err := m.db.Exec(`DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
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
