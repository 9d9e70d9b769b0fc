package handlers

import (
	"errors"
	"net/http"

	"admin-service/internal/repository"
	"admin-service/internal/services"
	"admin-service/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service and repository errors onto HTTP statuses.
// Anything unrecognized is a 500 with no internals leaked to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.SendError(c, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, repository.ErrConflict):
		utils.SendError(c, http.StatusConflict, "CONFLICT", "resource already exists")
	case errors.Is(err, repository.ErrInvalidReference):
		utils.SendError(c, http.StatusBadRequest, "INVALID_REFERENCE", "referenced resource is invalid")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.SendError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	case errors.Is(err, services.ErrAccountDisabled):
		utils.SendError(c, http.StatusForbidden, "ACCOUNT_DISABLED", "account is disabled")
	default:
		utils.SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
