package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"admin-service/internal/config"
	"admin-service/internal/models"
	"admin-service/internal/repository"
	"admin-service/internal/services"
	"admin-service/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService services.IUserService
	rbacService *services.RBACService
}

func NewAuthHandler(userService services.IUserService, rbacService *services.RBACService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		rbacService: rbacService,
	}
}

func (a *AuthHandler) RegisterRoutes(router *gin.Engine, m *Middleware) {
	public := router.Group("/api/v1/auth")
	public.POST("/register", a.Register)
	public.POST("/login", a.Login)
	public.POST("/refresh", a.Refresh)

	protected := router.Group("/api/v1/auth", m.RequireAuth())
	protected.GET("/me", a.Me)
	protected.POST("/logout", a.Logout)
}

// seededPermissions is the permission catalog attached to the admin role on
// first start.
var seededPermissions = []string{
	"users.read", "users.write",
	"roles.read", "roles.write",
	"permissions.read", "permissions.write",
	"menus.read", "menus.write",
}

// InitDefaultData seeds the default roles, the permission catalog and the
// bootstrap admin account. Every step is idempotent across restarts.
func InitDefaultData(userService services.IUserService, rbacService *services.RBACService, cfg *config.AdminServiceConfig) error {
	ctx := context.Background()
	adminRole, err := ensureRole(ctx, rbacService, models.DefaultAdminRoleName, "Full administrative access")
	if err != nil {
		return err
	}
	if _, err := ensureRole(ctx, rbacService, models.DefaultUserRoleName, "Default role for new users"); err != nil {
		return err
	}

	for _, code := range seededPermissions {
		permission, err := ensurePermission(ctx, rbacService, code)
		if err != nil {
			return err
		}
		if err := rbacService.AssignPermissionToRole(ctx, adminRole.ID, permission.ID); err != nil {
			return fmt.Errorf("failed to attach permission %q to admin role: %w", code, err)
		}
	}

	if cfg.BootstrapCfg.AdminPassword == "" {
		log.Println("ADMIN_PWD not set, skipping admin account bootstrap")
		return nil
	}

	admin, err := userService.Register(ctx, &models.RegisterRequest{
		FullName: cfg.BootstrapCfg.AdminFullName,
		Email:    cfg.BootstrapCfg.AdminEmail,
		Password: cfg.BootstrapCfg.AdminPassword,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	if err := rbacService.AssignRoleToUser(ctx, admin.ID, adminRole.ID); err != nil {
		return fmt.Errorf("failed to assign admin role: %w", err)
	}

	log.Printf("bootstrap admin account created: %s", admin.Email)
	return nil
}

func ensureRole(ctx context.Context, rbacService *services.RBACService, name, description string) (*models.Role, error) {
	role, err := rbacService.CreateRole(ctx, &models.CreateRoleRequest{
		Name:        name,
		Description: &description,
	})
	if err == nil {
		return role, nil
	}
	if errors.Is(err, repository.ErrConflict) {
		return rbacService.GetRoleByName(name)
	}
	return nil, fmt.Errorf("failed to create role %q: %w", name, err)
}

func ensurePermission(ctx context.Context, rbacService *services.RBACService, code string) (*models.Permission, error) {
	permission, err := rbacService.CreatePermission(ctx, &models.CreatePermissionRequest{Code: code})
	if err == nil {
		return permission, nil
	}
	if errors.Is(err, repository.ErrConflict) {
		return rbacService.GetPermissionByCode(code)
	}
	return nil, fmt.Errorf("failed to create permission %q: %w", code, err)
}

// Register creates an account and attaches the default role.
func (a *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	user, err := a.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, user)
}

// Login authenticates with email and password and returns a token pair.
func (a *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	deviceInfo := c.GetHeader("User-Agent")
	ipAddress := c.ClientIP()

	tokens, err := a.userService.Login(c.Request.Context(), &req, &deviceInfo, &ipAddress)
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Email, err)
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, tokens)
}

// Refresh exchanges a refresh token for a new token pair.
func (a *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	tokens, err := a.userService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, tokens)
}

// Me returns the authenticated user with their roles and permissions.
func (a *AuthHandler) Me(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		utils.SendError(c, http.StatusUnauthorized, "MISSING_TOKEN", "authorization required")
		return
	}

	profile, err := a.userService.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, profile)
}

// Logout revokes the session behind the presented token.
func (a *AuthHandler) Logout(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		utils.SendError(c, http.StatusUnauthorized, "MISSING_TOKEN", "authorization required")
		return
	}

	if err := a.userService.Logout(c.Request.Context(), claims.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendMessage(c, http.StatusOK, "logged out")
}
