package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"justiplay-backend/internal/shared/auth"
	"justiplay-backend/internal/shared/server/respond"
)

const (
	userIDKey      = "userId"
	userEmailKey   = "userEmail"
	userNameKey    = "userName"
	userPictureKey = "userPicture"
	isGuestKey     = "isGuest"
)

// openPaths are reachable without any identity: the login flow itself
// plus liveness and scrape endpoints.
func openPath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/auth/google/") ||
		path == "/api/v1/health" ||
		path == "/api/v1/metrics"
}

// Auth resolves the caller identity. A bearer token yields a logged-in
// user; an X-Guest-Id header yields a guest identity with its own
// namespace. Requests with neither are rejected.
func Auth(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}
		if openPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
			if !bearerAuth(c, header) {
				return
			}
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}
		c.Set(userIDKey, "guest:"+guestID)
		c.Set(isGuestKey, true)
		c.Next()
	}
}

// bearerAuth verifies a token header and stores the claims; it reports
// whether the request may continue.
func bearerAuth(c *gin.Context, header string) bool {
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	if !strings.HasPrefix(header, "Bearer ") || token == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return false
	}

	claims, err := auth.VerifyJWT(token)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return false
	}

	c.Set(userIDKey, claims.Sub)
	c.Set(isGuestKey, false)
	if claims.Email != "" {
		c.Set(userEmailKey, claims.Email)
	}
	if claims.Name != "" {
		c.Set(userNameKey, claims.Name)
	}
	if claims.Picture != "" {
		c.Set(userPictureKey, claims.Picture)
	}
	return true
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	s, _ := val.(string)
	return s
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string { return contextString(c, userIDKey) }

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string { return contextString(c, userEmailKey) }

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string { return contextString(c, userNameKey) }

// UserPictureFromContext fetches the user picture set by the auth middleware.
func UserPictureFromContext(c *gin.Context) string { return contextString(c, userPictureKey) }
