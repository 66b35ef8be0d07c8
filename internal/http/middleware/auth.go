package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gojwt "github.com/go-jose/go-jose/v4/jwt"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/jwt"
)

const (
	accessClaimsKey = "accessClaims"
	stdClaimsKey    = "stdClaims"
	userIDKey       = "userID"
)

// Auth validates Authorization headers and attaches claims.
type Auth struct {
	JWT *jwt.Generator
}

// ValidateJWT ensures the request has a valid bearer access token.
func (m *Auth) ValidateJWT(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authorization header required."})
		return
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Bearer token required."})
		return
	}

	std, custom, err := m.JWT.ValidateToken(parts[1], jwt.UseAccess)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Invalid access token."})
		return
	}
	userID, err := jwt.Subject(std)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Invalid access token."})
		return
	}

	c.Set(stdClaimsKey, std)
	c.Set(accessClaimsKey, custom)
	c.Set(userIDKey, userID)
	c.Next()
}

// RequireRole aborts unless the access token carries the role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetAccessClaims(c)
		if !ok || !hasRole(claims.Roles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "error_description": "Insufficient role."})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts unless the caller is a superuser.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// GetAccessClaims exposes custom access token claims to handlers.
func GetAccessClaims(c *gin.Context) (*jwt.AccessTokenClaims, bool) {
	value, ok := c.Get(accessClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*jwt.AccessTokenClaims)
	return claims, ok
}

// GetStdClaims returns the standard JWT claims set.
func GetStdClaims(c *gin.Context) (*gojwt.Claims, bool) {
	value, ok := c.Get(stdClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*gojwt.Claims)
	return claims, ok
}

// GetUserID returns the authenticated user ID, or 0 for anonymous requests.
func GetUserID(c *gin.Context) int64 {
	value, ok := c.Get(userIDKey)
	if !ok {
		return 0
	}
	id, _ := value.(int64)
	return id
}
