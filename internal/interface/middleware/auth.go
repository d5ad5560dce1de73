package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gracegather/community-api/pkg/helpers"
	"github.com/gracegather/community-api/pkg/response"
)

// Context keys set by Auth on success.
const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// Auth extracts and verifies the Authorization bearer token and injects the
// caller's identity into the Gin context. It rejects before any handler runs,
// so mutation endpoints never see an unauthenticated request.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.AbortError(c, http.StatusUnauthorized, "No token provided")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			if errors.Is(err, helpers.ErrTokenExpired) {
				response.AbortError(c, http.StatusUnauthorized, "Token expired")
				return
			}
			response.AbortError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

// OptionalAuth populates the caller's identity when a valid bearer token is
// present but never rejects. Used on public reads whose visibility depends
// on who is asking.
func OptionalAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if claims, err := jwt.ParseAccessToken(token); err == nil {
				c.Set(CtxUserIDKey, claims.UserID)
				c.Set(CtxUserEmailKey, claims.Email)
			}
		}
		c.Next()
	}
}
