package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/portalcliente/portal-api/docs"
	"github.com/portalcliente/portal-api/internal/api/handler"
	"github.com/portalcliente/portal-api/internal/api/metrics"
	"github.com/portalcliente/portal-api/internal/api/middleware"
	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
	"github.com/portalcliente/portal-api/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth     ports.AuthService
	Requests ports.RequestService

	// Revocations rejects tokens revoked by logout.
	Revocations middleware.RevocationChecker
	// Locker backs the in-flight guard on mutating routes.
	Locker middleware.Locker
	// Readiness lists the dependencies checked by /health/ready.
	Readiness map[string]handlers.Pinger

	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Identity events feed metrics and the audit log ---
	d.Auth.Subscribe(func(ev domain.IdentityEvent) {
		metrics.IdentityEventsTotal.WithLabelValues(string(ev.Type)).Inc()
		d.Log.Info().Str("type", string(ev.Type)).Str("user_id", ev.UserID).Msg("identity event")
	})

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	requestHandler := handler.NewRequestHandler(d.Requests)
	adminHandler := handler.NewAdminHandler(d.Requests)
	planHandler := handler.NewPlanHandler()

	authMiddleware := middleware.Auth(d.JWTSecret, d.Revocations)
	limiter := middleware.IPRateLimit(middleware.NewRateLimiter(d.RateLimitRPS, d.RateLimitBurst))
	inFlight := middleware.InFlight(d.Locker, d.Log)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register, limiter)
	auth.POST("/login", authHandler.Login, limiter)
	auth.POST("/password/forgot", authHandler.ForgotPassword, limiter)
	auth.POST("/password/reset", authHandler.ResetPassword, limiter)
	auth.POST("/logout", authHandler.Logout, authMiddleware)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Customer routes ---
	v1 := e.Group("/v1")
	v1.GET("/plans", planHandler.List)

	requests := v1.Group("/requests", authMiddleware)
	requests.POST("", requestHandler.Submit, inFlight)
	requests.GET("", requestHandler.ListOwn)
	requests.GET("/:id", requestHandler.Get)

	// --- Admin routes ---
	admin := v1.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/requests", adminHandler.ListAll)
	admin.POST("/requests/:id/answer", adminHandler.Answer, inFlight)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
