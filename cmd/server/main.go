package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	financeapp "github.com/microloan/backend/internal/application/finance"
	lendingapp "github.com/microloan/backend/internal/application/lending"
	partnerapp "github.com/microloan/backend/internal/application/partner"
	reportapp "github.com/microloan/backend/internal/application/report"
	"github.com/microloan/backend/internal/infrastructure/auth"
	"github.com/microloan/backend/internal/infrastructure/cache"
	"github.com/microloan/backend/internal/infrastructure/config"
	"github.com/microloan/backend/internal/infrastructure/logger"
	"github.com/microloan/backend/internal/infrastructure/persistence"
	"github.com/microloan/backend/internal/interfaces/http/handler"
	"github.com/microloan/backend/internal/interfaces/http/middleware"
	"github.com/microloan/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting microloan backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Idempotency store: Redis when enabled, in-memory otherwise
	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRecordRepository(db.DB)
	txScope := persistence.NewGormLendingTransactionScope(db.DB)

	// Initialize application services
	clientService := partnerapp.NewClientService(clientRepo, log)
	partnerService := partnerapp.NewPartnerService(partnerRepo, log)
	loanService := lendingapp.NewLoanService(loanRepo, receiptRepo, clientRepo, log)
	receiptService := lendingapp.NewReceiptService(txScope, receiptRepo, idempotencyStore, log)
	expenseService := financeapp.NewExpenseService(expenseRepo, log)
	portfolioService := reportapp.NewPortfolioService(loanRepo, receiptRepo, expenseRepo, partnerRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	clientHandler := handler.NewClientHandler(clientService)
	partnerHandler := handler.NewPartnerHandler(partnerService)
	loanHandler := handler.NewLoanHandler(loanService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	dashboardHandler := handler.NewDashboardHandler(portfolioService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so every later log line carries it
	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Client records
	clientRoutes := router.NewDomainGroup("clients", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/:id", clientHandler.GetByID)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.DELETE("/:id", clientHandler.Delete)
	clientRoutes.POST("/:id/activate", clientHandler.Activate)
	clientRoutes.POST("/:id/deactivate", clientHandler.Deactivate)

	// Loan origination and lifecycle
	loanRoutes := router.NewDomainGroup("loans", "/loans")
	loanRoutes.POST("", loanHandler.Originate)
	loanRoutes.POST("/schedule/preview", loanHandler.PreviewSchedule)
	loanRoutes.GET("", loanHandler.List)
	loanRoutes.GET("/:id", loanHandler.GetByID)
	loanRoutes.GET("/:id/schedule", loanHandler.GetSchedule)
	loanRoutes.POST("/:id/cancel", loanHandler.Cancel)
	loanRoutes.DELETE("/:id", loanHandler.Delete)

	// Payment receipts
	receiptRoutes := router.NewDomainGroup("receipts", "/receipts")
	receiptRoutes.POST("", receiptHandler.RecordPayment)
	receiptRoutes.GET("", receiptHandler.List)
	receiptRoutes.GET("/:id", receiptHandler.GetByID)
	receiptRoutes.POST("/:id/void", receiptHandler.Void)

	// Capital partners: ledger mutations are admin-only
	partnerRoutes := router.NewDomainGroup("partners", "/partners")
	partnerRoutes.GET("", partnerHandler.List)
	partnerRoutes.GET("/:id", partnerHandler.GetByID)
	partnerRoutes.POST("", middleware.RequireAdmin(), partnerHandler.Create)
	partnerRoutes.POST("/:id/contributions", middleware.RequireAdmin(), partnerHandler.Contribute)
	partnerRoutes.POST("/:id/withdrawals", middleware.RequireAdmin(), partnerHandler.Withdraw)
	partnerRoutes.POST("/:id/interest", middleware.RequireAdmin(), partnerHandler.AccrueInterest)
	partnerRoutes.DELETE("/:id", middleware.RequireAdmin(), partnerHandler.Delete)

	// Expense bookkeeping
	expenseRoutes := router.NewDomainGroup("expenses", "/expenses")
	expenseRoutes.POST("", expenseHandler.Create)
	expenseRoutes.GET("", expenseHandler.List)
	expenseRoutes.GET("/:id", expenseHandler.GetByID)
	expenseRoutes.PUT("/:id", expenseHandler.Update)
	expenseRoutes.POST("/:id/cancel", expenseHandler.Cancel)

	// Portfolio dashboard
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/summary", dashboardHandler.PortfolioSummary)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(clientRoutes).
		Register(loanRoutes).
		Register(receiptRoutes).
		Register(partnerRoutes).
		Register(expenseRoutes).
		Register(dashboardRoutes).
		Register(systemRoutes)

	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
