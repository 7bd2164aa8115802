// Package httpapi wires the HTTP transport (Gin) to the component handlers,
// middleware, and operational endpoints. It centralizes cross-cutting
// concerns such as tracing, correlation ids, logging/redaction, panic
// recovery, typed error rendering, metrics, CORS, security headers, internal
// auth and rate limiting.
//
// Design goals:
//   - Every response carries x-correlation-id, including failures
//   - Safe-by-default middleware ordering (correlation → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-component-service/internal/config"
	"github.com/tbourn/go-component-service/internal/correlation"
	"github.com/tbourn/go-component-service/internal/docs"
	"github.com/tbourn/go-component-service/internal/http/handlers"
	"github.com/tbourn/go-component-service/internal/http/middleware"
	"github.com/tbourn/go-component-service/internal/workflow"
)

// Deps are the collaborators RegisterRoutes needs. Zero values are valid:
// no readiness probe, the default Prometheus registry, and a workflow client
// built from cfg when the serve endpoint is enabled.
type Deps struct {
	Ready    handlers.ReadinessProbe
	Metrics  *prometheus.Registry
	Workflow *workflow.Client
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. CorrelationID: stamp/propagate x-correlation-id
//  3. ContextLogger + RedactingLogger: request-scoped structured logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. CORS, security headers, gzip
//  8. ErrorHandler: renders typed failures before the outer layers observe
//     the final status
//
// Protected routes add the rate limiter and InternalAuth.
func RegisterRoutes(r *gin.Engine, cfg config.Config, deps Deps) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.CorrelationID())

	// 3) Structured logging with redaction
	r.Use(middleware.ContextLogger())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{workflow.HeaderSignature},
	}))

	// 4) Panic recovery to JSON 500 (with correlation id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(cfg.MaxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		reg, gatherer = deps.Metrics, deps.Metrics
	}
	r.Use(middleware.NewHTTPMetrics(reg).Handler())

	// 7) CORS posture, security headers, compression
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
		NoStore:    true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/docs"})))

	// 8) Typed failures → {"error","detail"}
	r.Use(middleware.ErrorHandler())

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrNameNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrNameMethodNotAllowed, "method not allowed")
	})

	h := handlers.New(deps.Ready)

	// Probes and metrics (no auth)
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Service-to-service API
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	internal := r.Group("", rl.Handler(), middleware.InternalAuth(cfg.InternalSecret))
	{
		internal.POST("/run", h.Run)
	}

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.Title = cfg.ComponentName + " component API"
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Event-workflow serve endpoint, only when Inngest can sign calls to us
	if cfg.Workflow.SigningKey != "" {
		client := deps.Workflow
		if client == nil {
			c, err := workflow.NewClient(cfg)
			if err != nil {
				log.Warn().Err(err).Msg("workflow serve endpoint disabled")
				return
			}
			client = c
		}
		client.Register(r)
	}
}

// corsMiddleware returns the CORS chain. With no allowlist every origin is
// allowed without credentials; otherwise only listed origins are echoed.
func corsMiddleware(allowedOrigins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", correlation.Header},
		ExposeHeaders:    []string{correlation.Header, "Content-Length", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			// Force ACAO: * even for requests without an Origin header.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = allowedOrigins
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

// limitBody caps the request body at maxBytes using http.MaxBytesReader.
// Requests exceeding the cap fail when the body is read. maxBytes <= 0
// disables the cap.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
