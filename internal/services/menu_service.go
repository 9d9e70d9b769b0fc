package services

import (
	"context"
	"errors"
	"fmt"

	"admin-service/internal/event"
	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// MenuService provides business logic for navigation menu management
type MenuService struct {
	menuRepo       repository.MenuRepository
	eventPublisher *event.AuditPublisher
}

// NewMenuService creates a new menu service
func NewMenuService(menuRepo repository.MenuRepository, eventPublisher *event.AuditPublisher) *MenuService {
	return &MenuService{
		menuRepo:       menuRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *MenuService) GetAllMenus(limit, offset int) (*models.PaginatedMenusResponse, error) {
	menus, err := s.menuRepo.ListMenus(limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.menuRepo.CountMenus()
	if err != nil {
		return nil, err
	}

	return &models.PaginatedMenusResponse{
		Menus:  menus,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *MenuService) GetMenu(menuID int) (*models.Menu, error) {
	return s.menuRepo.GetMenuByID(menuID)
}

// CreateMenu creates a menu item. The menu key must be unique and the
// parent, when given, must already exist.
func (s *MenuService) CreateMenu(ctx context.Context, req *models.CreateMenuRequest) (*models.Menu, error) {
	if _, err := s.menuRepo.GetMenuByKey(req.MenuKey); err == nil {
		return nil, fmt.Errorf("menu %q: %w", req.MenuKey, repository.ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if req.ParentID != nil {
		if _, err := s.menuRepo.GetMenuByID(*req.ParentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("parent menu %d: %w", *req.ParentID, repository.ErrInvalidReference)
			}
			return nil, err
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	menu := &models.Menu{
		MenuKey:        req.MenuKey,
		SectionTitle:   req.SectionTitle,
		ParentID:       req.ParentID,
		Label:          req.Label,
		Href:           req.Href,
		Icon:           req.Icon,
		ListID:         req.ListID,
		BadgeText:      req.BadgeText,
		BadgeClassName: req.BadgeClassName,
		IsActive:       isActive,
		IsHidden:       req.IsHidden,
		ShowMoreToggle: req.ShowMoreToggle,
		InitiallyOpen:  req.InitiallyOpen,
		Depth:          req.Depth,
		SortOrder:      req.SortOrder,
	}
	if err := s.menuRepo.CreateMenu(menu); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "menu.created",
		Detail: map[string]interface{}{"menu_id": menu.ID, "menu_key": menu.MenuKey},
	})

	return menu, nil
}

// UpdateMenu applies a partial update. A menu key change colliding with a
// different menu is a conflict; a new parent must exist and must not be the
// menu itself.
func (s *MenuService) UpdateMenu(ctx context.Context, menuID int, req *models.UpdateMenuRequest) (*models.Menu, error) {
	// Resolve the target first so a missing menu reads as not found rather
	// than tripping the key or parent checks.
	menu, err := s.menuRepo.GetMenuByID(menuID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.MenuKey != nil {
		existing, err := s.menuRepo.GetMenuByKey(*req.MenuKey)
		if err == nil && existing.ID != menuID {
			return nil, fmt.Errorf("menu %q: %w", *req.MenuKey, repository.ErrConflict)
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		changes["menu_key"] = *req.MenuKey
	}
	if req.ParentID != nil {
		if *req.ParentID == menuID {
			return nil, fmt.Errorf("menu %d cannot be its own parent: %w", menuID, repository.ErrInvalidReference)
		}
		if _, err := s.menuRepo.GetMenuByID(*req.ParentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("parent menu %d: %w", *req.ParentID, repository.ErrInvalidReference)
			}
			return nil, err
		}
		changes["parent_id"] = *req.ParentID
	}
	if req.SectionTitle != nil {
		changes["section_title"] = *req.SectionTitle
	}
	if req.Label != nil {
		changes["label"] = *req.Label
	}
	if req.Href != nil {
		changes["href"] = *req.Href
	}
	if req.Icon != nil {
		changes["icon"] = *req.Icon
	}
	if req.ListID != nil {
		changes["list_id"] = *req.ListID
	}
	if req.BadgeText != nil {
		changes["badge_text"] = *req.BadgeText
	}
	if req.BadgeClassName != nil {
		changes["badge_class_name"] = *req.BadgeClassName
	}
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
	}
	if req.IsHidden != nil {
		changes["is_hidden"] = *req.IsHidden
	}
	if req.ShowMoreToggle != nil {
		changes["show_more_toggle"] = *req.ShowMoreToggle
	}
	if req.InitiallyOpen != nil {
		changes["initially_open"] = *req.InitiallyOpen
	}
	if req.Depth != nil {
		changes["depth"] = *req.Depth
	}
	if req.SortOrder != nil {
		changes["sort_order"] = *req.SortOrder
	}

	if len(changes) == 0 {
		return menu, nil
	}

	if err := s.menuRepo.UpdateMenuPartial(menuID, changes); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "menu.updated",
		Detail: map[string]interface{}{"menu_id": menuID},
	})

	return s.menuRepo.GetMenuByID(menuID)
}

// DeleteMenu removes a menu item. Children go with it through the
// cascading self-referencing foreign key.
func (s *MenuService) DeleteMenu(ctx context.Context, menuID int) error {
	if err := s.menuRepo.DeleteMenu(menuID); err != nil {
		return err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "menu.deleted",
		Detail: map[string]interface{}{"menu_id": menuID},
	})

	return nil
}
