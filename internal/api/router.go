package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reimburse/expense-system/internal/api/handler"
	"github.com/reimburse/expense-system/internal/api/middleware"
	"github.com/reimburse/expense-system/internal/core/domain"
	"github.com/reimburse/expense-system/internal/core/service"
	mongodb "github.com/reimburse/expense-system/internal/infrastructure/db/mongo"
	redisdb "github.com/reimburse/expense-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(client *mongo.Client, db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("expense_http"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	expenseRepo := mongodb.NewExpenseRepository(db)
	approvalRepo := mongodb.NewApprovalRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)
	txRunner := mongodb.NewTxRunner(client)
	idemStore := redisdb.NewIdempotencyStore(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	workflowService := service.NewWorkflowService(
		userRepo, expenseRepo, approvalRepo, notificationRepo, txRunner, idemStore, log,
	)

	authHandler := handler.NewAuthHandler(authService)
	expenseHandler := handler.NewExpenseHandler(workflowService)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Workflow routes (authenticated) ---
	v1 := e.Group("/v1", authMiddleware, middleware.RBAC(domain.RoleAdmin, domain.RoleEmployee))
	v1.POST("/expenses", expenseHandler.Submit)
	v1.GET("/expenses", expenseHandler.List)
	v1.GET("/expenses/:id", expenseHandler.Get)
	v1.POST("/expenses/:id/decision", expenseHandler.Decide)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
