package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userauth/auth-service/internal/api/handler"
	"github.com/userauth/auth-service/internal/api/middleware"
	"github.com/userauth/auth-service/internal/core/security"
	"github.com/userauth/auth-service/internal/core/service"
	mongodb "github.com/userauth/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/userauth/auth-service/internal/infrastructure/db/redis"
	"github.com/userauth/auth-service/internal/infrastructure/http/handlers"
	"github.com/userauth/auth-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit service.AuditSink, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("userauth"))

	// --- Dependencies ---
	tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Algorithm, time.Duration(cfg.JWT.ExpirationSeconds)*time.Second)
	if err != nil {
		return nil, err
	}

	userRepo := mongodb.NewUserRepository(db)
	historyRepo := mongodb.NewLoginHistoryRepository(db)
	txManager := mongodb.NewTxManager(db.Client())
	hasher := security.NewHasher(cfg.BcryptCost)
	cache := redisdb.NewProfileCache(rdb)

	authService := service.NewAuthService(userRepo, historyRepo, txManager, hasher, cache, audit, log)
	authHandler := handler.NewAuthHandler(authService, tokens)
	authGate := middleware.Auth(tokens)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/check-token", authHandler.CheckToken)

	e.GET("/auth/me", authHandler.Me, authGate)
	e.GET("/auth/login-history", authHandler.LoginHistory, authGate)
	e.PUT("/auth/update", authHandler.UpdateProfile, authGate)
	e.PUT("/auth/update-password", authHandler.UpdatePassword, authGate)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
