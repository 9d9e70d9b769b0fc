package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"admin-service/internal/event"
	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// RBACService provides business logic for role and permission management
type RBACService struct {
	rbacRepo       repository.RBACRepository
	userRepo       repository.IUserRepository
	sessionService *SessionService
	eventPublisher *event.AuditPublisher
}

// NewRBACService creates a new RBAC service
func NewRBACService(rbacRepo repository.RBACRepository, userRepo repository.IUserRepository, sessionService *SessionService, eventPublisher *event.AuditPublisher) *RBACService {
	return &RBACService{
		rbacRepo:       rbacRepo,
		userRepo:       userRepo,
		sessionService: sessionService,
		eventPublisher: eventPublisher,
	}
}

// CreateRole creates a role; a duplicate name is a conflict.
func (s *RBACService) CreateRole(ctx context.Context, req *models.CreateRoleRequest) (*models.Role, error) {
	if _, err := s.rbacRepo.GetRoleByName(req.Name); err == nil {
		return nil, fmt.Errorf("role %q: %w", req.Name, repository.ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	role := &models.Role{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.rbacRepo.CreateRole(role); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "role.created",
		Detail: map[string]interface{}{"role_id": role.ID, "name": role.Name},
	})

	return role, nil
}

func (s *RBACService) GetRole(roleID int) (*models.RoleWithPermissions, error) {
	return s.rbacRepo.GetRoleWithPermissions(roleID)
}

func (s *RBACService) GetRoleByName(name string) (*models.Role, error) {
	return s.rbacRepo.GetRoleByName(name)
}

func (s *RBACService) GetAllRoles(limit, offset int) (*models.PaginatedRolesResponse, error) {
	roles, err := s.rbacRepo.ListRoles(limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.rbacRepo.CountRoles()
	if err != nil {
		return nil, err
	}

	return &models.PaginatedRolesResponse{
		Roles:  roles,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// UpdateRole applies a partial update. A name change colliding with a
// different role is a conflict.
func (s *RBACService) UpdateRole(ctx context.Context, roleID int, req *models.UpdateRoleRequest) (*models.Role, error) {
	// Resolve the target first so a missing role reads as not found even
	// when the requested name belongs to another role.
	role, err := s.rbacRepo.GetRoleByID(roleID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		existing, err := s.rbacRepo.GetRoleByName(*req.Name)
		if err == nil && existing.ID != roleID {
			return nil, fmt.Errorf("role %q: %w", *req.Name, repository.ErrConflict)
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		changes["name"] = *req.Name
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}

	if len(changes) == 0 {
		return role, nil
	}

	if err := s.rbacRepo.UpdateRolePartial(roleID, changes); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "role.updated",
		Detail: map[string]interface{}{"role_id": roleID},
	})

	return s.rbacRepo.GetRoleByID(roleID)
}

// DeleteRole removes a role; its user and permission associations go with
// it through the cascading foreign keys.
func (s *RBACService) DeleteRole(ctx context.Context, roleID int) error {
	if err := s.rbacRepo.DeleteRole(roleID); err != nil {
		return err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "role.deleted",
		Detail: map[string]interface{}{"role_id": roleID},
	})

	return nil
}

// CreatePermission creates a permission; a duplicate code is a conflict.
func (s *RBACService) CreatePermission(ctx context.Context, req *models.CreatePermissionRequest) (*models.Permission, error) {
	if _, err := s.rbacRepo.GetPermissionByCode(req.Code); err == nil {
		return nil, fmt.Errorf("permission %q: %w", req.Code, repository.ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	permission := &models.Permission{
		Code:        req.Code,
		Description: req.Description,
	}
	if err := s.rbacRepo.CreatePermission(permission); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "permission.created",
		Detail: map[string]interface{}{"permission_id": permission.ID, "code": permission.Code},
	})

	return permission, nil
}

func (s *RBACService) GetPermission(permissionID int) (*models.Permission, error) {
	return s.rbacRepo.GetPermissionByID(permissionID)
}

func (s *RBACService) GetPermissionByCode(code string) (*models.Permission, error) {
	return s.rbacRepo.GetPermissionByCode(code)
}

func (s *RBACService) GetAllPermissions(limit, offset int) (*models.PaginatedPermissionsResponse, error) {
	permissions, err := s.rbacRepo.ListPermissions(limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.rbacRepo.CountPermissions()
	if err != nil {
		return nil, err
	}

	return &models.PaginatedPermissionsResponse{
		Permissions: permissions,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	}, nil
}

func (s *RBACService) UpdatePermission(ctx context.Context, permissionID int, req *models.UpdatePermissionRequest) (*models.Permission, error) {
	permission, err := s.rbacRepo.GetPermissionByID(permissionID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.Code != nil {
		existing, err := s.rbacRepo.GetPermissionByCode(*req.Code)
		if err == nil && existing.ID != permissionID {
			return nil, fmt.Errorf("permission %q: %w", *req.Code, repository.ErrConflict)
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		changes["code"] = *req.Code
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}

	if len(changes) == 0 {
		return permission, nil
	}

	if err := s.rbacRepo.UpdatePermissionPartial(permissionID, changes); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "permission.updated",
		Detail: map[string]interface{}{"permission_id": permissionID},
	})

	return s.rbacRepo.GetPermissionByID(permissionID)
}

func (s *RBACService) DeletePermission(ctx context.Context, permissionID int) error {
	if err := s.rbacRepo.DeletePermission(permissionID); err != nil {
		return err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "permission.deleted",
		Detail: map[string]interface{}{"permission_id": permissionID},
	})

	return nil
}

// AssignRoleToUser links a role to a user. Both sides must exist; an
// already-present link is a no-op.
func (s *RBACService) AssignRoleToUser(ctx context.Context, userID, roleID int) error {
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		return fmt.Errorf("user %d: %w", userID, err)
	}
	if _, err := s.rbacRepo.GetRoleByID(roleID); err != nil {
		return fmt.Errorf("role %d: %w", roleID, err)
	}

	if err := s.rbacRepo.AssignRoleToUser(userID, roleID); err != nil {
		return err
	}

	s.invalidateUserSessions(ctx, userID)

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "role.assigned",
		Detail: map[string]interface{}{"user_id": userID, "role_id": roleID},
	})

	return nil
}

// RemoveRoleFromUser unlinks a role from a user. A missing link is
// reported as not found even when both entities exist.
func (s *RBACService) RemoveRoleFromUser(ctx context.Context, userID, roleID int) error {
	if err := s.rbacRepo.RemoveRoleFromUser(userID, roleID); err != nil {
		return err
	}

	s.invalidateUserSessions(ctx, userID)

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "role.removed",
		Detail: map[string]interface{}{"user_id": userID, "role_id": roleID},
	})

	return nil
}

// GetUserRoles retrieves the user with their assigned roles.
func (s *RBACService) GetUserRoles(userID int) (*models.UserWithRoles, error) {
	return s.rbacRepo.GetUserWithRoles(userID)
}

// AssignPermissionToRole links a permission to a role. Both sides must
// exist; an already-present link is a no-op.
func (s *RBACService) AssignPermissionToRole(ctx context.Context, roleID, permissionID int) error {
	if _, err := s.rbacRepo.GetRoleByID(roleID); err != nil {
		return fmt.Errorf("role %d: %w", roleID, err)
	}
	if _, err := s.rbacRepo.GetPermissionByID(permissionID); err != nil {
		return fmt.Errorf("permission %d: %w", permissionID, err)
	}

	if err := s.rbacRepo.AssignPermissionToRole(roleID, permissionID); err != nil {
		return err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "permission.assigned",
		Detail: map[string]interface{}{"role_id": roleID, "permission_id": permissionID},
	})

	return nil
}

func (s *RBACService) RemovePermissionFromRole(ctx context.Context, roleID, permissionID int) error {
	if err := s.rbacRepo.RemovePermissionFromRole(roleID, permissionID); err != nil {
		return err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action: "permission.removed",
		Detail: map[string]interface{}{"role_id": roleID, "permission_id": permissionID},
	})

	return nil
}

// invalidateUserSessions forces the user to log in again so their next
// token reflects the changed role set. A failure here only means the
// current token stays stale until it expires.
func (s *RBACService) invalidateUserSessions(ctx context.Context, userID int) {
	if s.sessionService == nil {
		return
	}
	if err := s.sessionService.InvalidateUserSessions(ctx, userID); err != nil {
		log.Printf("Warning: failed to invalidate sessions for user %d: %v", userID, err)
	}
}
