package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/llmgate/promptrefiner/internal/config"
	"github.com/llmgate/promptrefiner/internal/handlers"
	"github.com/llmgate/promptrefiner/internal/logging"
	"github.com/llmgate/promptrefiner/internal/utils"
	"github.com/llmgate/promptrefiner/localratelimiter"
	"github.com/llmgate/promptrefiner/session"
)

type Dependencies struct {
	Config      *config.Config
	Refiner     handlers.Refiner
	Provider    string
	Store       *session.Store
	RateLimiter *localratelimiter.RateLimiter
	Gatherer    prometheus.Gatherer
}

func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	router := gin.New()
	router.Use(logging.GinLogger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
		utils.ProcessGenericInternalError(c)
	}))
	if len(cfg.Server.CorsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CorsOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Content-Type", "X-CSRFToken", "X-CSRF-Token"},
			ExposeHeaders:    []string{"Content-Disposition", "X-Refinement-Strategy"},
			AllowCredentials: true,
		}))
	}

	// Health Handler
	healthHandler := handlers.NewHealthHandler()
	router.GET("/healthz", healthHandler.IsHealthy)
	// Metrics handler
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	defaultLimits := deps.RateLimiter.Middleware(
		localratelimiter.PerDay(cfg.RateLimit.PerDay),
		localratelimiter.PerHour(cfg.RateLimit.PerHour),
	)
	refineLimit := deps.RateLimiter.Middleware(localratelimiter.PerMinute(cfg.RateLimit.RefinePerMinute))

	app := router.Group("",
		handlers.SessionMiddleware(deps.Store, handlers.SessionConfig{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.IsProduction(),
		}),
		handlers.CSRFMiddleware(cfg.Server.CSRF),
	)

	indexHandler := handlers.NewIndexHandler(deps.Refiner, deps.Provider)
	app.GET("/", defaultLimits, indexHandler.Index)

	csrfHandler := handlers.NewCSRFHandler()
	app.GET("/csrf", defaultLimits, csrfHandler.Token)

	refineHandler := handlers.NewRefineHandler(deps.Refiner, deps.Store)
	app.POST("/refine", refineLimit, refineHandler.Refine)
	app.GET("/download", defaultLimits, refineHandler.Download)

	return router
}
