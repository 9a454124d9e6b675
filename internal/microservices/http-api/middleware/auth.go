package middleware

import (
	"errors"
	"net/http"
	"strings"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware
const (
	ContextUser   = "user"
	ContextUserID = "userID"
)

// AuthMiddleware resolves an optional bearer token. Requests without an
// Authorization header continue as anonymous; a malformed header or a token
// that does not resolve to an active user is rejected with 401.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), parts[1])
		switch {
		case errors.Is(err, service.ErrInactiveUser):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		case err != nil:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		// Set user info in context for handlers to use
		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// Authorize applies the access policy for resource to every request of the group,
// deriving the action from the HTTP method.
func Authorize(authorizer service.Authorizer, resource authz.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := authz.Request{
			Resource: resource,
			Action:   authz.ActionFor(c.Request.Method),
		}
		if user := CurrentUser(c); user != nil {
			req.Role = string(user.EffectiveRole())
		}

		switch authorizer.Decide(req) {
		case authz.Allow:
			c.Next()
		case authz.Unauthorized:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthorized.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": service.ErrForbidden.Error()})
		}
	}
}
