// Package router assembles the gin engine: the middleware chain and the
// versioned API routes.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tijara/backend/internal/infrastructure/logger"
	"github.com/tijara/backend/internal/infrastructure/telemetry"
	"github.com/tijara/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	root       []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar mounted under /api/<version>
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// RegisterRoot adds a RouteRegistrar mounted on the engine root, for
// probes that load balancers call without a version prefix
func (r *Router) RegisterRoot(registrars ...RouteRegistrar) *Router {
	r.root = append(r.root, registrars...)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	for _, registrar := range r.root {
		registrar.RegisterRoutes(&r.engine.RouterGroup)
	}

	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// EngineConfig configures the middleware chain of the engine
type EngineConfig struct {
	Logger          *zap.Logger
	ServiceName     string
	DefaultTenantID uuid.UUID
	TracingEnabled  bool
	MeterProvider   *telemetry.MeterProvider
	Profiling       middleware.ProfilingConfig
	CORS            middleware.CORSConfig
	Security        middleware.SecurityConfig
	MaxBodyBytes    int64
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter    *middleware.RateLimiter
	RequestTimeout time.Duration
}

// NewEngine creates a gin engine with the middleware chain in order:
// request ID and recovery first so every later failure is logged with an
// ID, then tracing, transport guards, tenant resolution and the
// per-tenant instrumentation.
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
	)
	if cfg.TracingEnabled {
		engine.Use(
			middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.ServiceName, Enabled: true}),
			middleware.SpanErrorMarker(),
		)
	}
	engine.Use(
		middleware.CORSWithConfig(cfg.CORS),
		middleware.SecureWithConfig(cfg.Security),
	)
	if cfg.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	}

	tenantCfg := middleware.DefaultTenantConfig(cfg.DefaultTenantID)
	tenantCfg.Logger = log
	engine.Use(middleware.TenantMiddleware(tenantCfg))
	if cfg.TracingEnabled {
		engine.Use(middleware.TracingAttributeInjector())
	}
	engine.Use(
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{MeterProvider: cfg.MeterProvider, Logger: log}),
		middleware.Profiling(cfg.Profiling),
	)
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}
	if cfg.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	return engine
}
