package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"justiplay-backend/internal/shared/telemetry"
)

// Logging emits one structured line per request. Handlers may stash
// "documentId" and "analysisId" in the context to tie the line to the
// records it touched.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if userID := contextString(c, userIDKey); userID != "" {
			fields["user_id"] = userID
		}
		if isGuest, ok := c.Get(isGuestKey); ok {
			fields["is_guest"] = isGuest
		}
		if documentID := contextString(c, "documentId"); documentID != "" {
			fields["document_id"] = documentID
		}
		if analysisID := contextString(c, "analysisId"); analysisID != "" {
			fields["analysis_id"] = analysisID
		}

		telemetry.Info("request.complete", fields)
	}
}
