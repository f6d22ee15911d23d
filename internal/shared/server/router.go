package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"justiplay-backend/internal/analyses"
	googleauth "justiplay-backend/internal/auth"
	"justiplay-backend/internal/documents"
	"justiplay-backend/internal/shared/config"
	"justiplay-backend/internal/shared/metrics"
	"justiplay-backend/internal/shared/server/middleware"
	"justiplay-backend/internal/shared/server/respond"
	"justiplay-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up. Bootstrap builds
// them; the router only does HTTP concerns.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	DocumentHandler *documents.Handler
	UserHandler     *users.Handler
	GoogleAuth      *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				// Analysis fans out to extraction and a model call, so it
				// gets a much tighter budget than plain reads.
				"ANALYZE": {Rate: 0.2, Burst: 3},
				"DEFAULT": {Rate: 10, Burst: 30},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost &&
					c.FullPath() == "/api/v1/documents/analyze" {
					return "ANALYZE"
				}
				return ""
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
