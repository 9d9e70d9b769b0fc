package handlers

import (
	"log"
	"net/http"
	"strings"

	"admin-service/internal/models"
	"admin-service/internal/services"
	"admin-service/utils"

	"github.com/gin-gonic/gin"
)

const contextClaimsKey = "claims"

type Middleware struct {
	jwtService     *services.JWTService
	sessionService *services.SessionService
}

func NewMiddleware(jwtService *services.JWTService, sessionService *services.SessionService) *Middleware {
	return &Middleware{
		jwtService:     jwtService,
		sessionService: sessionService,
	}
}

// RequireAuth validates the Bearer token and its backing session, then
// stores the claims on the request context for downstream handlers.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendError(c, http.StatusUnauthorized, "MISSING_TOKEN", "authorization header required")
			c.Abort()
			return
		}

		tokenString := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader[7:]
		}

		claims, err := m.jwtService.VerifyAccessToken(tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			utils.SendError(c, http.StatusUnauthorized, "INVALID_TOKEN", "token validation failed")
			c.Abort()
			return
		}

		session, err := m.sessionService.ValidateSession(c.Request.Context(), claims.ID)
		if err != nil {
			utils.SendError(c, http.StatusUnauthorized, "SESSION_INVALID", "no session found or session invalid")
			c.Abort()
			return
		}
		if session.TokenHash != services.HashToken(tokenString) {
			utils.SendError(c, http.StatusUnauthorized, "SESSION_INVALID", "token does not match session")
			c.Abort()
			return
		}

		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

// RequirePermission gates a route on a permission code carried in the
// access token. RequireAuth must run first on the route chain.
func (m *Middleware) RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			utils.SendError(c, http.StatusUnauthorized, "MISSING_TOKEN", "authorization required")
			c.Abort()
			return
		}

		for _, permission := range claims.Permissions {
			if permission == code {
				c.Next()
				return
			}
		}

		utils.SendError(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
		c.Abort()
	}
}

// ClaimsFromContext returns the verified claims RequireAuth stored.
func ClaimsFromContext(c *gin.Context) (*models.Claims, bool) {
	value, exists := c.Get(contextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.Claims)
	return claims, ok
}
