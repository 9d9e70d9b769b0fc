package models

// Authentication DTOs

type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// RefreshResponse carries a new token pair; refresh tokens rotate on use.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type MeResponse struct {
	ID          int      `json:"id"`
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// User management DTOs

type CreateUserRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserRequest is a partial update: nil fields are left untouched.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=2,max=120"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6,max=128"`
	IsActive *bool   `json:"is_active"`
}

// Role / permission DTOs

type CreateRoleRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=80"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=80"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

type CreatePermissionRequest struct {
	Code        string  `json:"code" binding:"required,min=1,max=120"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

type UpdatePermissionRequest struct {
	Code        *string `json:"code" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

// Menu DTOs

type CreateMenuRequest struct {
	MenuKey        string  `json:"menu_key" binding:"required,min=1,max=255"`
	SectionTitle   string  `json:"section_title" binding:"required,min=1,max=80"`
	ParentID       *int    `json:"parent_id"`
	Label          string  `json:"label" binding:"required,min=1,max=120"`
	Href           *string `json:"href" binding:"omitempty,max=255"`
	Icon           *string `json:"icon" binding:"omitempty,max=80"`
	ListID         *string `json:"list_id" binding:"omitempty,max=120"`
	BadgeText      *string `json:"badge_text" binding:"omitempty,max=50"`
	BadgeClassName *string `json:"badge_class_name"`
	IsActive       *bool   `json:"is_active"`
	IsHidden       bool    `json:"is_hidden"`
	ShowMoreToggle bool    `json:"show_more_toggle"`
	InitiallyOpen  bool    `json:"initially_open"`
	Depth          int     `json:"depth" binding:"gte=0"`
	SortOrder      int     `json:"sort_order" binding:"gte=0"`
}

// UpdateMenuRequest is a partial update: nil fields are left untouched.
type UpdateMenuRequest struct {
	MenuKey        *string `json:"menu_key" binding:"omitempty,min=1,max=255"`
	SectionTitle   *string `json:"section_title" binding:"omitempty,min=1,max=80"`
	ParentID       *int    `json:"parent_id"`
	Label          *string `json:"label" binding:"omitempty,min=1,max=120"`
	Href           *string `json:"href" binding:"omitempty,max=255"`
	Icon           *string `json:"icon" binding:"omitempty,max=80"`
	ListID         *string `json:"list_id" binding:"omitempty,max=120"`
	BadgeText      *string `json:"badge_text" binding:"omitempty,max=50"`
	BadgeClassName *string `json:"badge_class_name"`
	IsActive       *bool   `json:"is_active"`
	IsHidden       *bool   `json:"is_hidden"`
	ShowMoreToggle *bool   `json:"show_more_toggle"`
	InitiallyOpen  *bool   `json:"initially_open"`
	Depth          *int    `json:"depth" binding:"omitempty,gte=0"`
	SortOrder      *int    `json:"sort_order" binding:"omitempty,gte=0"`
}

// Paginated list responses

type PaginatedUsersResponse struct {
	Users  []*User `json:"users"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type PaginatedRolesResponse struct {
	Roles  []*RoleWithPermissions `json:"roles"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type PaginatedPermissionsResponse struct {
	Permissions []*PermissionWithRoles `json:"permissions"`
	Total       int                    `json:"total"`
	Limit       int                    `json:"limit"`
	Offset      int                    `json:"offset"`
}

type PaginatedMenusResponse struct {
	Menus  []*Menu `json:"menus"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
