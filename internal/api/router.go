package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/monochrome/services-api/docs"
	"github.com/monochrome/services-api/internal/api/handler"
	"github.com/monochrome/services-api/internal/api/middleware"
	"github.com/monochrome/services-api/internal/core/domain"
	"github.com/monochrome/services-api/internal/core/ports"
	"github.com/monochrome/services-api/internal/core/service"
	mongorepo "github.com/monochrome/services-api/internal/infrastructure/db/mongo"
	redisstore "github.com/monochrome/services-api/internal/infrastructure/db/redis"
	"github.com/monochrome/services-api/internal/pkg/config"
	"github.com/monochrome/services-api/internal/pkg/password"
	"github.com/monochrome/services-api/internal/pkg/token"
)

const Version = "1.0.0"

// Dependencies are the adapters the router wires into use-case services.
type Dependencies struct {
	Users    ports.UserRepository
	Services ports.ServiceRepository
	Bookings ports.BookingRepository
	// Idempotency may be nil; bookings are then never replayed.
	Idempotency ports.IdempotencyStore

	Tokens *token.Manager
	Hasher *password.Hasher

	// Health maps dependency names to readiness checks.
	Health map[string]handler.Pinger

	// Registry receives the HTTP metrics. Defaults to the global registry.
	Registry *prometheus.Registry
}

// NewRouter wires the MongoDB and Redis adapters and builds the Echo instance.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	tokens, err := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	deps := Dependencies{
		Users:    mongorepo.NewUserRepository(db),
		Services: mongorepo.NewServiceRepository(db),
		Bookings: mongorepo.NewBookingRepository(db),
		Tokens:   tokens,
		Hasher:   password.NewHasher(cfg.BcryptCost),
		Health: map[string]handler.Pinger{
			"mongodb": mongorepo.NewPinger(db),
		},
	}
	if rdb != nil {
		deps.Idempotency = redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		deps.Health["redis"] = redisstore.NewPinger(rdb)
	}

	return New(cfg, deps, log), nil
}

// New builds and returns the Echo instance with all routes registered.
func New(cfg *config.Config, deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.IsProduction())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "Idempotency-Key"},
		AllowCredentials: true,
	}))
	e.Use(httpMetrics(deps.Registry))

	// --- Dependencies ---
	authService := service.NewAuthService(deps.Users, deps.Hasher, deps.Tokens, log.With().Str("component", "auth").Logger())
	catalogService := service.NewCatalogService(deps.Services, log.With().Str("component", "catalog").Logger())
	bookingService := service.NewBookingService(deps.Bookings, deps.Services, deps.Users, deps.Idempotency,
		log.With().Str("component", "bookings").Logger())

	authHandler := handler.NewAuthHandler(authService)
	serviceHandler := handler.NewServiceHandler(catalogService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	healthHandler := handler.NewHealthHandler(Version, deps.Health)

	authn := middleware.NewAuthenticator(deps.Tokens, deps.Users, log)
	protect := authn.RequireIdentity()
	adminOnly := middleware.Authorize(domain.RoleAdmin)
	limit := middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	// --- Health, docs and metrics (no auth required) ---
	e.GET("/", healthHandler.Index)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/health", healthHandler.Status)

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register, limit)
	auth.POST("/login", authHandler.Login, limit)
	auth.GET("/me", authHandler.Me, protect)

	// --- Service catalogue ---
	services := api.Group("/services")
	services.GET("", serviceHandler.List)
	services.GET("/slug/:slug", serviceHandler.GetBySlug)
	services.GET("/:id", serviceHandler.Get)
	services.POST("", serviceHandler.Create, protect, adminOnly)
	services.PUT("/:id", serviceHandler.Update, protect, adminOnly)
	services.DELETE("/:id", serviceHandler.Delete, protect, adminOnly)

	// --- Bookings ---
	bookings := api.Group("/bookings")
	bookings.POST("", bookingHandler.Create, authn.AttachIdentityIfPresent())
	bookings.GET("", bookingHandler.List, protect, adminOnly)
	bookings.GET("/stats", bookingHandler.Stats, protect, adminOnly)
	bookings.GET("/my-bookings", bookingHandler.Mine, protect)
	bookings.GET("/:id", bookingHandler.Get, protect, adminOnly)
	bookings.PUT("/:id", bookingHandler.Update, protect, adminOnly)
	bookings.DELETE("/:id", bookingHandler.Delete, protect, adminOnly)

	return e
}

func httpMetrics(reg *prometheus.Registry) echo.MiddlewareFunc {
	conf := echoprometheus.MiddlewareConfig{
		Namespace:                 "monochrome",
		Subsystem:                 "http",
		DoNotUseRequestPathFor404: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		conf.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(conf)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
