package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"situation-analyzer/internal/analyze"
	"situation-analyzer/internal/services/health"
	"situation-analyzer/internal/shared/config"
	"situation-analyzer/internal/shared/metrics"
	"situation-analyzer/internal/shared/server/middleware"
)

const analyzeRateScope = "analyze"

// RouterDeps are the handlers mounted by NewRouter.
type RouterDeps struct {
	Config         config.Config
	AnalyzeHandler *analyze.Handler
	Health         *health.Service
	RateLimiter    *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		log.Printf("router: invalid TRUSTED_PROXIES, trusting none: %v", err)
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	limit := middleware.RateLimit(middleware.RateLimitRule{
		Scope: analyzeRateScope,
		Rate:  deps.Config.AnalyzeRateLimitRPS,
		Burst: deps.Config.AnalyzeRateBurst,
	}, deps.RateLimiter)

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Health.Status())
	}

	r.GET("/health", healthHandler)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler)

	if deps.AnalyzeHandler != nil {
		deps.AnalyzeHandler.RegisterRoutes(r, limit)
		deps.AnalyzeHandler.RegisterRoutes(api, limit)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
