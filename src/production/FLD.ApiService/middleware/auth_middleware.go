package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	errs "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Errors"
	api_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/api"
	jwt "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/implementation/jwt"
)

// Context keys
const (
	IdentityContextKey = "identity"
	RoleContextKey     = "role"
	ClaimsContextKey   = "claims"
)

// AuthMiddleware provides middleware functions for authentication
type AuthMiddleware struct {
	jwtService *jwt.Service
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// extractBearer returns the token carried as "Bearer <token>", or "" when the
// header is absent or uses another scheme.
func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// RequireToken verifies the bearer credential. A missing or malformed header
// and an expired token map to 401; a structurally invalid token or a failed
// signature check maps to 403. Token possession, not identity binding, is
// sufficient: the guard does not consult the machine registry.
func (m *AuthMiddleware) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			if errors.Is(err, errs.ErrForbidden) {
				c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Invalid token"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Token expired"})
			}
			c.Abort()
			return
		}

		c.Set(IdentityContextKey, claims.Identity)
		c.Set(RoleContextKey, claims.Role)
		c.Set(ClaimsContextKey, claims)

		c.Next()
	}
}

// GetClaimsFromGinContext retrieves the verified claims stored by RequireToken
func GetClaimsFromGinContext(c *gin.Context) (*api_models.Claims, bool) {
	val, exists := c.Get(ClaimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*api_models.Claims)
	return claims, ok
}

// GetIdentityFromGinContext retrieves the authenticated identity
func GetIdentityFromGinContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(IdentityContextKey)
	if !exists {
		return "", false
	}
	identity, ok := val.(string)
	return identity, ok
}
