package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/service"
)

const actorKey = "actor"

// TokenValidator is the slice of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// Identify resolves the bearer token into an Actor when one is present.
// Requests without an Authorization header pass through as anonymous; a
// header that is present but invalid is rejected.
func Identify(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(actorKey, permissions.Anonymous())
			c.Next()
			return
		}

		actor, ok := resolveActor(c, validator, authHeader)
		if !ok {
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// Authenticate rejects requests that do not carry a valid bearer token.
func Authenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		actor, ok := resolveActor(c, validator, authHeader)
		if !ok {
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func resolveActor(c *gin.Context, validator TokenValidator, authHeader string) (permissions.Actor, bool) {
	// Format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		c.Abort()
		return permissions.Actor{}, false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return permissions.Actor{}, false
	}

	return permissions.Actor{
		ID:            claims.UserID,
		Role:          claims.Role,
		Staff:         claims.Staff,
		Authenticated: true,
	}, true
}

// ActorFromContext returns the Actor set by Identify or Authenticate,
// defaulting to anonymous when neither ran.
func ActorFromContext(c *gin.Context) permissions.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return permissions.Anonymous()
	}
	actor, ok := value.(permissions.Actor)
	if !ok {
		return permissions.Anonymous()
	}
	return actor
}
