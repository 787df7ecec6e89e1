package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/catalog"
	"resume-builder/internal/host"
	"resume-builder/internal/relay"
	"resume-builder/internal/session"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

const (
	apiPrefix   = "/api/v1"
	rateGroupAI = "AI"
)

// RouterDeps are the handlers mounted by NewRouter.
type RouterDeps struct {
	Config  config.Config
	Host    *host.Handler
	Relay   *relay.Handler
	Catalog *catalog.Handler
	Session *session.Handler
	Limiter *middleware.RateLimiter
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
	)

	public := r.Group(apiPrefix)
	public.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	authed := r.Group("",
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(rateLimitConfig(deps.Config.RelayPath, deps.Limiter)),
	)
	if deps.Relay != nil {
		deps.Relay.Register(authed, deps.Config.RelayPath)
	}

	api := authed.Group(apiPrefix)
	registerMeRoutes(api)
	if deps.Host != nil {
		deps.Host.RegisterRoutes(api)
	}
	if deps.Catalog != nil {
		deps.Catalog.RegisterRoutes(api)
	}
	if deps.Session != nil {
		deps.Session.RegisterRoutes(api)
	}

	return r
}

func rateLimitConfig(relayPath string, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	ai := map[string]bool{relayPath: true}
	for _, route := range session.AIRoutes {
		ai[apiPrefix+route] = true
	}
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":   {Rate: 10, Burst: 60},
			rateGroupAI: {Rate: 0.2, Burst: 5},
		},
		Limiter: limiter,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && ai[c.FullPath()] {
				return rateGroupAI
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
