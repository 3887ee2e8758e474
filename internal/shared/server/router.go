package server

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"a11y-backend/internal/analysis"
	"a11y-backend/internal/shared/config"
	"a11y-backend/internal/shared/metrics"
	"a11y-backend/internal/shared/server/middleware"
	"a11y-backend/internal/shared/server/respond"
	"a11y-backend/internal/shared/storage/db"
	"a11y-backend/web"
)

const (
	rateLimitGroupModel = "MODEL"
	healthPingTimeout   = 2 * time.Second
)

// RouterDeps bundles the handlers and collaborators mounted on the router.
type RouterDeps struct {
	Config          config.Config
	Metrics         *metrics.Metrics
	AnalysisHandler *analysis.Handler
	// DB is nil when artifacts live in memory.
	DB *sql.DB
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.IsDevLike() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Session(!cfg.IsDevLike()),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	// Only model-backed POST routes spend the per-session budget.
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			rateLimitGroupModel: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost {
				return rateLimitGroupModel
			}
			return ""
		},
	}))

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
	})
	r.GET("/healthz", healthz(deps.DB))
	if deps.Metrics != nil {
		r.GET("/metrics", deps.Metrics.Handler())
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(r)
	}
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

func healthz(pool *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pool == nil {
			respond.OK(c, gin.H{"ok": true, "database": "memory"})
			return
		}
		status, err := db.Check(c.Request.Context(), pool, healthPingTimeout)
		if err != nil {
			respond.Error(c, http.StatusServiceUnavailable, "service_unavailable", "database unreachable", nil)
			return
		}
		respond.OK(c, gin.H{"ok": true, "database": status})
	}
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
