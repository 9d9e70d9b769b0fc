package models

import "time"

// Menu is a node in the sidebar menu forest. parent_id is nil for roots,
// depth is materialized (root = 0) and sort_order orders siblings.
type Menu struct {
	ID             int       `json:"id" db:"id"`
	MenuKey        string    `json:"menu_key" db:"menu_key"`
	SectionTitle   string    `json:"section_title" db:"section_title"`
	ParentID       *int      `json:"parent_id" db:"parent_id"`
	Label          string    `json:"label" db:"label"`
	Href           *string   `json:"href" db:"href"`
	Icon           *string   `json:"icon" db:"icon"`
	ListID         *string   `json:"list_id" db:"list_id"`
	BadgeText      *string   `json:"badge_text" db:"badge_text"`
	BadgeClassName *string   `json:"badge_class_name" db:"badge_class_name"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	IsHidden       bool      `json:"is_hidden" db:"is_hidden"`
	ShowMoreToggle bool      `json:"show_more_toggle" db:"show_more_toggle"`
	InitiallyOpen  bool      `json:"initially_open" db:"initially_open"`
	Depth          int       `json:"depth" db:"depth"`
	SortOrder      int       `json:"sort_order" db:"sort_order"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
