package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkpot-blog/core/internal/pkg/jwt"
	"github.com/inkpot-blog/core/internal/pkg/response"
)

const (
	// CookieName carries the admin session JWT.
	CookieName = "token"

	ContextKeyUsername = "username"
)

// Auth returns a middleware that enforces JWT authentication. The token is
// read from the session cookie, with an Authorization Bearer fallback.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			response.Unauthorized(c, "authentication required")
			return
		}
		claims, err := jwt.Parse(raw)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(ContextKeyUsername, claims.Username)
		c.Next()
	}
}

// OptionalAuth sets the identity if a valid token is present, but does not
// block the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := extractToken(c); raw != "" {
			if claims, err := jwt.Parse(raw); err == nil {
				c.Set(ContextKeyUsername, claims.Username)
			}
		}
		c.Next()
	}
}

// CurrentUsername extracts the authenticated username from context.
func CurrentUsername(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUsername)
	name, _ := v.(string)
	return name
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUsername(c) != ""
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return strings.TrimSpace(cookie)
	}
	return normalizeToken(c.GetHeader("Authorization"))
}

// normalizeToken trims spaces and strips an optional Bearer prefix.
func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
