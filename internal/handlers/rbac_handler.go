package handlers

import (
	"net/http"

	"admin-service/internal/models"
	"admin-service/internal/services"
	"admin-service/utils"

	"github.com/gin-gonic/gin"
)

type RBACHandler struct {
	rbacService *services.RBACService
}

func NewRBACHandler(rbacService *services.RBACService) *RBACHandler {
	return &RBACHandler{
		rbacService: rbacService,
	}
}

func (r *RBACHandler) RegisterRoutes(router *gin.Engine, m *Middleware) {
	roles := router.Group("/api/v1/roles", m.RequireAuth())
	roles.GET("", m.RequirePermission("roles.read"), r.ListRoles)
	roles.GET("/:id", m.RequirePermission("roles.read"), r.GetRole)
	roles.POST("", m.RequirePermission("roles.write"), r.CreateRole)
	roles.PATCH("/:id", m.RequirePermission("roles.write"), r.UpdateRole)
	roles.DELETE("/:id", m.RequirePermission("roles.write"), r.DeleteRole)
	roles.GET("/:id/permissions", m.RequirePermission("roles.read"), r.GetRolePermissions)
	roles.POST("/:id/permissions/:permission_id", m.RequirePermission("roles.write"), r.AssignPermission)
	roles.DELETE("/:id/permissions/:permission_id", m.RequirePermission("roles.write"), r.RemovePermission)

	permissions := router.Group("/api/v1/permissions", m.RequireAuth())
	permissions.GET("", m.RequirePermission("permissions.read"), r.ListPermissions)
	permissions.GET("/:id", m.RequirePermission("permissions.read"), r.GetPermission)
	permissions.POST("", m.RequirePermission("permissions.write"), r.CreatePermission)
	permissions.PATCH("/:id", m.RequirePermission("permissions.write"), r.UpdatePermission)
	permissions.DELETE("/:id", m.RequirePermission("permissions.write"), r.DeletePermission)

	userRoles := router.Group("/api/v1/users/:id/roles", m.RequireAuth())
	userRoles.GET("", m.RequirePermission("users.read"), r.GetUserRoles)
	userRoles.POST("/:role_id", m.RequirePermission("roles.write"), r.AssignRole)
	userRoles.DELETE("/:role_id", m.RequirePermission("roles.write"), r.RemoveRole)
}

func (r *RBACHandler) ListRoles(c *gin.Context) {
	limit, offset := utils.ParsePaginationParams(c)

	roles, err := r.rbacService.GetAllRoles(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, roles)
}

func (r *RBACHandler) GetRole(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	role, err := r.rbacService.GetRole(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, role)
}

func (r *RBACHandler) CreateRole(c *gin.Context) {
	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	role, err := r.rbacService.CreateRole(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, role)
}

func (r *RBACHandler) UpdateRole(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	role, err := r.rbacService.UpdateRole(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, role)
}

func (r *RBACHandler) DeleteRole(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := r.rbacService.DeleteRole(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (r *RBACHandler) ListPermissions(c *gin.Context) {
	limit, offset := utils.ParsePaginationParams(c)

	permissions, err := r.rbacService.GetAllPermissions(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, permissions)
}

func (r *RBACHandler) GetPermission(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	permission, err := r.rbacService.GetPermission(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, permission)
}

func (r *RBACHandler) CreatePermission(c *gin.Context) {
	var req models.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	permission, err := r.rbacService.CreatePermission(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, permission)
}

func (r *RBACHandler) UpdatePermission(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req models.UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	permission, err := r.rbacService.UpdatePermission(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, permission)
}

func (r *RBACHandler) DeletePermission(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := r.rbacService.DeletePermission(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (r *RBACHandler) GetUserRoles(c *gin.Context) {
	userID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	user, err := r.rbacService.GetUserRoles(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, user)
}

func (r *RBACHandler) AssignRole(c *gin.Context) {
	userID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	roleID, err := utils.ParseIDParam(c, "role_id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := r.rbacService.AssignRoleToUser(c.Request.Context(), userID, roleID); err != nil {
		respondServiceError(c, err)
		return
	}

	user, err := r.rbacService.GetUserRoles(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, user)
}

func (r *RBACHandler) RemoveRole(c *gin.Context) {
	userID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	roleID, err := utils.ParseIDParam(c, "role_id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := r.rbacService.RemoveRoleFromUser(c.Request.Context(), userID, roleID); err != nil {
		respondServiceError(c, err)
		return
	}

	user, err := r.rbacService.GetUserRoles(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, user)
}

func (r *RBACHandler) GetRolePermissions(c *gin.Context) {
	roleID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	role, err := r.rbacService.GetRole(roleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, role)
}

func (r *RBACHandler) AssignPermission(c *gin.Context) {
	roleID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	permissionID, err := utils.ParseIDParam(c, "permission_id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := r.rbacService.AssignPermissionToRole(c.Request.Context(), roleID, permissionID); err != nil {
		respondServiceError(c, err)
		return
	}

	role, err := r.rbacService.GetRole(roleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, role)
}

func (r *RBACHandler) RemovePermission(c *gin.Context) {
	roleID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	permissionID, err := utils.ParseIDParam(c, "permission_id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := r.rbacService.RemovePermissionFromRole(c.Request.Context(), roleID, permissionID); err != nil {
		respondServiceError(c, err)
		return
	}

	role, err := r.rbacService.GetRole(roleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, role)
}
