package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers groups the API's handlers
type Handlers struct {
	Orders        *handler.OrderHandler
	AdminOrders   *handler.AdminOrderHandler
	Customers     *handler.CustomerHandler
	Notifications *handler.NotificationHandler
	Inventory     *handler.InventoryHandler
	System        *handler.SystemHandler
}

// Options configures the engine's middleware chain
type Options struct {
	ServiceName      string
	Validator        *auth.TokenValidator
	Logger           *zap.Logger
	CORSAllowOrigins []string
	MaxBodyBytes     int64
	TracingEnabled   bool
	ProfilingEnabled bool
	// Meter enables HTTP metrics when set
	Meter metric.Meter
	// RateLimiter limits authenticated routes when set
	RateLimiter *middleware.RateLimiter
	// Swagger mounts the API docs UI at /swagger/*any
	Swagger bool
}

// NewEngine builds the gin engine serving the storefront API
func NewEngine(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(opts.CORSAllowOrigins),
		middleware.Tracing(opts.ServiceName, opts.TracingEnabled),
		middleware.SpanErrorMarker(),
		middleware.Profiling(opts.ProfilingEnabled),
	)
	if opts.Meter != nil {
		engine.Use(middleware.HTTPMetrics(opts.Meter))
	}
	if opts.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodyBytes))
	}

	engine.GET("/health", h.System.Health)
	if opts.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authenticated := []gin.HandlerFunc{
		middleware.Authenticate(middleware.AuthConfig{Validator: opts.Validator, Logger: log}),
		middleware.TracingAttributeInjector(),
	}
	if opts.RateLimiter != nil {
		authenticated = append(authenticated, middleware.RateLimit(opts.RateLimiter))
	}

	system := NewDomainGroup("system", "").
		GET("/health", h.System.Health)

	store := NewDomainGroup("storefront", "").Use(authenticated...).
		POST("/checkout", h.Orders.Checkout).
		GET("/orders", h.Orders.List).
		GET("/orders/:id", h.Orders.Get).
		POST("/orders/:id/cancel", h.Orders.Cancel).
		GET("/profile", h.Customers.GetProfile).
		PUT("/profile", h.Customers.UpdateProfile).
		GET("/addresses", h.Customers.ListAddresses).
		POST("/addresses", h.Customers.CreateAddress).
		PUT("/addresses/:id", h.Customers.UpdateAddress).
		DELETE("/addresses/:id", h.Customers.DeleteAddress).
		POST("/addresses/:id/default", h.Customers.SetDefaultAddress).
		GET("/notifications", h.Notifications.List).
		GET("/notifications/unread-count", h.Notifications.UnreadCount).
		POST("/notifications/:id/read", h.Notifications.MarkRead).
		POST("/notifications/read-all", h.Notifications.MarkAllRead)

	admin := NewDomainGroup("admin", "/admin").Use(authenticated...).Use(middleware.RequireAdmin()).
		GET("/orders", h.AdminOrders.Queue).
		GET("/orders/counts", h.AdminOrders.Counts).
		POST("/orders/:id/transitions", h.AdminOrders.Transition).
		GET("/inventory/:product_id", h.Inventory.GetStock).
		PUT("/inventory/:product_id", h.Inventory.SetStock)

	NewRouter(engine).Register(system, store, admin).Setup()
	return engine
}
