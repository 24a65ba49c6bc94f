package router

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	docs "github.com/crystalbudget/backend/api"
	"github.com/crystalbudget/backend/internal/controllers/healthz"
	"github.com/crystalbudget/backend/internal/controllers/root"
	v1 "github.com/crystalbudget/backend/internal/controllers/v1"
	"github.com/crystalbudget/backend/internal/controllers/version"
	"github.com/crystalbudget/backend/internal/telegram"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time with -ldflags "-X github.com/crystalbudget/backend/internal/router.buildVersion=..."
var buildVersion = "0.0.0"

// Telegram bundles everything the router needs to serve the bot
// and the login widget.
type Telegram struct {
	Bot           *telegram.Bot
	WebhookSecret string
	Login         *telegram.LoginVerifier
}

// Config creates the engine with all middlewares.
//
// The returned teardown function unregisters the metrics and must
// always be called, even if an error is returned.
func Config(url *url.URL) (*gin.Engine, func(), error) {
	teardown := func() {
		if !unregisterPrometheusMetrics() {
			log.Debug().Msg("Not all prometheus metrics were registered on teardown")
		}
	}

	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.Use(MetricsMiddleware())
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "This HTTP method is not allowed for the endpoint you called"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "There is no endpoint at this path"})
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	if err := registerPrometheusMetrics(); err != nil {
		return nil, teardown, err
	}

	log.Debug().Str("API Base URL", url.String()).Str("Host", url.Host).Str("Path", url.Path).Msg("Router")
	log.Info().Str("version", buildVersion).Msg("Router")

	docs.SwaggerInfo.Host = url.Host
	docs.SwaggerInfo.BasePath = url.Path
	docs.SwaggerInfo.Title = "CrystalBudget"
	docs.SwaggerInfo.Version = buildVersion
	docs.SwaggerInfo.Description = "The backend for CrystalBudget. Income is distributed to expense categories by percentage and fixed allocation rules."

	return r, teardown, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in.
//
// tg may be nil, the telegram webhook is then not served and
// the login endpoint responds with 501 Not Implemented.
func AttachRoutes(group *gin.RouterGroup, tg *Telegram) {
	root.RegisterRoutes(group.Group(""))
	healthz.RegisterRoutes(group.Group("/healthz"))
	version.RegisterRoutes(group.Group("/version"), buildVersion)
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 setup
	api := group.Group("/v1")
	v1.RegisterRootRoutes(api)
	v1.RegisterUserRoutes(api.Group("/users"))
	v1.RegisterIncomeCategoryRoutes(api.Group("/income-categories"))
	v1.RegisterExpenseCategoryRoutes(api.Group("/expense-categories"))
	v1.RegisterIncomeRoutes(api.Group("/incomes"))
	v1.RegisterAllocationRoutes(api.Group("/allocations"))
	v1.RegisterTemplateRoutes(api.Group("/templates"))

	var login *telegram.LoginVerifier
	if tg != nil {
		login = tg.Login
	}
	v1.RegisterAuthRoutes(api.Group("/auth"), login)

	if tg != nil && tg.Bot != nil {
		group.POST("/telegram/webhook", tg.Bot.Webhook(tg.WebhookSecret))
	}
}
