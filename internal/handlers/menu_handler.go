package handlers

import (
	"net/http"

	"admin-service/internal/models"
	"admin-service/internal/services"
	"admin-service/utils"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService       *services.MenuService
	dataTablesService *services.DataTablesService
}

func NewMenuHandler(menuService *services.MenuService, dataTablesService *services.DataTablesService) *MenuHandler {
	return &MenuHandler{
		menuService:       menuService,
		dataTablesService: dataTablesService,
	}
}

func (h *MenuHandler) RegisterRoutes(router *gin.Engine, m *Middleware) {
	menus := router.Group("/api/v1/menus", m.RequireAuth())
	menus.GET("", m.RequirePermission("menus.read"), h.ListMenus)
	menus.GET("/datatables", m.RequirePermission("menus.read"), h.ListMenusDataTables)
	menus.GET("/:id", m.RequirePermission("menus.read"), h.GetMenu)
	menus.POST("", m.RequirePermission("menus.write"), h.CreateMenu)
	menus.PATCH("/:id", m.RequirePermission("menus.write"), h.UpdateMenu)
	menus.DELETE("/:id", m.RequirePermission("menus.write"), h.DeleteMenu)
}

var menuDataTablesQuery = services.DataTablesQuery{
	BaseQuery: `SELECT id, menu_key, section_title, parent_id, label, href, icon, is_active, is_hidden, depth, sort_order, created_at, updated_at FROM menus`,
	SearchableColumns: map[string]string{
		"menu_key":      "menu_key",
		"section_title": "section_title",
		"label":         "label",
		"href":          "href",
	},
	OrderableColumns: map[string]string{
		"id":            "id",
		"menu_key":      "menu_key",
		"section_title": "section_title",
		"label":         "label",
		"depth":         "depth",
		"sort_order":    "sort_order",
		"created_at":    "created_at",
	},
	DefaultOrderColumn:    "sort_order",
	DefaultOrderDirection: "asc",
}

func (h *MenuHandler) ListMenus(c *gin.Context) {
	limit, offset := utils.ParsePaginationParams(c)

	menus, err := h.menuService.GetAllMenus(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, menus)
}

func (h *MenuHandler) ListMenusDataTables(c *gin.Context) {
	response, err := h.dataTablesService.BuildResponse(menuDataTablesQuery, c.Request.URL.Query())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MenuHandler) GetMenu(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	menu, err := h.menuService.GetMenu(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, menu)
}

func (h *MenuHandler) CreateMenu(c *gin.Context) {
	var req models.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	menu, err := h.menuService.CreateMenu(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusCreated, menu)
}

func (h *MenuHandler) UpdateMenu(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req models.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	menu, err := h.menuService.UpdateMenu(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, http.StatusOK, menu)
}

func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := h.menuService.DeleteMenu(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
