package handlers

import (
	"net/http"

	"admin-service/internal/models"
	"admin-service/internal/services"
	"admin-service/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService       services.IUserService
	dataTablesService *services.DataTablesService
}

func NewUserHandler(userService services.IUserService, dataTablesService *services.DataTablesService) *UserHandler {
	return &UserHandler{
		userService:       userService,
		dataTablesService: dataTablesService,
	}
}

func (u *UserHandler) RegisterRoutes(router *gin.Engine, m *Middleware) {
	users := router.Group("/api/v1/users", m.RequireAuth())
	users.GET("", m.RequirePermission("users.read"), u.ListUsers)
	users.GET("/datatables", m.RequirePermission("users.read"), u.ListUsersDataTables)
	users.GET("/:id", m.RequirePermission("users.read"), u.GetUser)
	users.POST("", m.RequirePermission("users.write"), u.CreateUser)
	users.PATCH("/:id", m.RequirePermission("users.write"), u.UpdateUser)
	users.DELETE("/:id", m.RequirePermission("users.write"), u.DeleteUser)
}

// userDataTablesQuery exposes the user list to DataTables. password_hash is
// deliberately absent from the base query.
var userDataTablesQuery = services.DataTablesQuery{
	BaseQuery: `SELECT id, full_name, email, is_active, created_at, updated_at FROM users`,
	SearchableColumns: map[string]string{
		"id":         "id",
		"full_name":  "full_name",
		"email":      "email",
		"is_active":  "is_active",
		"created_at": "created_at",
	},
	OrderableColumns: map[string]string{
		"id":         "id",
		"full_name":  "full_name",
		"email":      "email",
		"is_active":  "is_active",
		"created_at": "created_at",
	},
	DefaultOrderColumn:    "id",
	DefaultOrderDirection: "asc",
}

func (u *UserHandler) ListUsers(c *gin.Context) {
	limit, offset := utils.ParsePaginationParams(c)

	users, err := u.userService.GetAllUsers(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, users)
}

// ListUsersDataTables serves the server-side DataTables protocol. The raw
// DataTables envelope is returned as-is, not wrapped, because the
// client-side table reads it directly.
func (u *UserHandler) ListUsersDataTables(c *gin.Context) {
	response, err := u.dataTablesService.BuildResponse(userDataTablesQuery, c.Request.URL.Query())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (u *UserHandler) GetUser(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	user, err := u.userService.GetUserByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, user)
}

func (u *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	user, err := u.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, user)
}

func (u *UserHandler) UpdateUser(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	user, err := u.userService.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, user)
}

func (u *UserHandler) DeleteUser(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := u.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
