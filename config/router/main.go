package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/akeren/innr-waitlist/pkg/constants"
	"github.com/akeren/innr-waitlist/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterService struct {
	engine          *gin.Engine
	server          *http.Server
	logger          *log.Logger
	options         *HTTPOptions
	requestTimeout  time.Duration
	metricsRegistry *prometheus.Registry

	routes map[routeKey]*RESTController
}

type RouterConfig struct {
	RequestTimeout time.Duration
	// HTTP defaults to LoadHTTPOptions when nil.
	HTTP *HTTPOptions
}

func CreateRouterService(logger *log.Logger, routerConfig *RouterConfig) *RouterService {
	if routerConfig == nil {
		routerConfig = &RouterConfig{}
	}

	timeout := routerConfig.RequestTimeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}

	options := routerConfig.HTTP
	if options == nil {
		options = LoadHTTPOptions()
	}

	if options.GinMode != "" {
		logger.Info("Setting Gin mode", "mode", options.GinMode)
		gin.SetMode(options.GinMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.HandleMethodNotAllowed = true
	engine.RedirectTrailingSlash = true

	if utils.IsTracingEnabled() {
		engine.Use(otelgin.Middleware(utils.OTelServiceName()))
		logger.Info("Tracing middleware enabled")
	}

	// ClientIP() only reads X-Forwarded-For from proxies listed in TRUSTED_PROXIES.
	if err := engine.SetTrustedProxies(options.TrustedProxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES; trusting no proxies", "error", err)
		_ = engine.SetTrustedProxies(nil)
	}

	rs := &RouterService{
		engine:         engine,
		logger:         logger,
		options:        options,
		requestTimeout: timeout,
		routes:         make(map[routeKey]*RESTController),
	}

	rs.mountMetrics()

	engine.Use(
		rs.correlationMiddleware(),
		rs.accessLogMiddleware(),
		rs.securityHeadersMiddleware(),
		rs.bodyLimitMiddleware(),
		rs.corsMiddleware(),
		rs.deadlineMiddleware(),
	)

	engine.NoRoute(rs.fallbackHandler(http.StatusNotFound, "Route not found"))
	engine.NoMethod(rs.fallbackHandler(http.StatusMethodNotAllowed, "Method not allowed"))

	rs.server = &http.Server{
		Addr:              ":" + options.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized",
		"port", options.Port,
		"request_timeout", timeout.String(),
		"max_body_bytes", options.MaxBodyBytes,
		"cors_origins", len(options.AllowedOrigins),
	)
	return rs
}

func (routerService *RouterService) fallbackHandler(status int, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		routerService.logger.WithCorrelationID(c.Request.Context()).Warn(message, "method", c.Request.Method, "path", c.Request.URL.Path)
		c.JSON(status, ErrorResult(status, message, nil).ToJSON())
	}
}

func (routerService *RouterService) GetEngine() *gin.Engine {
	return routerService.engine
}

func (routerService *RouterService) GetLogger(c *RequestContext) *log.Logger {
	return routerService.logger.WithCorrelationID(c.Request.Context())
}

// MetricsRegisterer returns the registry behind /metrics, or nil when metrics are disabled.
func (routerService *RouterService) MetricsRegisterer() prometheus.Registerer {
	if routerService.metricsRegistry == nil {
		return nil
	}
	return routerService.metricsRegistry
}

func (routerService *RouterService) Cleanup() {
	routerService.logger.Info("Router service cleanup completed", "routes", len(routerService.routes))
}

func (routerService *RouterService) MountController(controller *RESTController) {
	controller.prepare(routerService, controller)

	routerService.logger.Info("Controller mounted",
		"name", controller.name,
		"path", controller.mountPoint,
		"version", controller.version,
		"handlers", controller.handlerCount,
	)
}

func (routerService *RouterService) RunHTTPServer() error {
	routerService.logger.Info("Starting HTTP server", "addr", routerService.server.Addr)

	if err := routerService.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		routerService.logger.Error("HTTP server stopped", "error", err)
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

func (routerService *RouterService) Shutdown(ctx context.Context) error {
	routerService.logger.Info("Shutting down HTTP server")
	return routerService.server.Shutdown(ctx)
}
