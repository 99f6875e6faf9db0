package middleware

import (
	"github.com/gin-gonic/gin"
	appAuth "github.com/ucsb-cs156/crudapi/internal/app/auth"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
	"github.com/ucsb-cs156/crudapi/internal/pkg/apperrors"
	"github.com/ucsb-cs156/crudapi/internal/pkg/auth"
	"github.com/ucsb-cs156/crudapi/internal/pkg/logger"
)

// Context keys set by Authenticate
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRoles  = "roles"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate resolves the caller from the bearer token. A missing or
// invalid token leaves the caller anonymous, so the authorization step
// decides the response.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			c.Next()
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Ignoring invalid bearer token")
			c.Next()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoles, claims.Roles)

		c.Next()
	}
}

// Require aborts with 403 unless the caller may perform op
func (m *AuthMiddleware) Require(op appAuth.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appAuth.IsAuthorized(op, RolesFromContext(c)) {
			HandleAPIError(c, apperrors.NewForbiddenError("Access Denied"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RolesFromContext returns the caller's roles, nil when anonymous
func RolesFromContext(c *gin.Context) []models.Role {
	roles, ok := c.Get(ContextRoles)
	if !ok {
		return nil
	}
	r, _ := roles.([]models.Role)
	return r
}
