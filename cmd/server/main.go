package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/apex/backoffice/internal/application/audit"
	catalogapp "github.com/apex/backoffice/internal/application/catalog"
	financeapp "github.com/apex/backoffice/internal/application/finance"
	fulfillmentapp "github.com/apex/backoffice/internal/application/fulfillment"
	identityapp "github.com/apex/backoffice/internal/application/identity"
	partnerapp "github.com/apex/backoffice/internal/application/partner"
	reportapp "github.com/apex/backoffice/internal/application/report"
	tradeapp "github.com/apex/backoffice/internal/application/trade"
	"github.com/apex/backoffice/internal/infrastructure/auth"
	"github.com/apex/backoffice/internal/infrastructure/cache"
	"github.com/apex/backoffice/internal/infrastructure/config"
	"github.com/apex/backoffice/internal/infrastructure/logger"
	"github.com/apex/backoffice/internal/infrastructure/payment"
	"github.com/apex/backoffice/internal/infrastructure/persistence"
	"github.com/apex/backoffice/internal/interfaces/http/handler"
	"github.com/apex/backoffice/internal/interfaces/http/middleware"
	"github.com/apex/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Apex Backoffice API
//	@version		1.0
//	@description	Back-office API for a firearms licensing advisory: clients, service catalog, sales and financial documents.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting backoffice",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	serviceRepo := persistence.NewGormServiceRepository(db.DB)
	categoryRepo := persistence.NewGormExpenseCategoryRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	receivableRepo := persistence.NewGormReceivableRepository(db.DB)
	payableRepo := persistence.NewGormPayableRepository(db.DB)
	processRepo := persistence.NewGormProcessRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	webhookRepo := persistence.NewGormWebhookRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Audit recorder: buffered, fire and forget. Close drains the queue
	// on shutdown.
	recorder := auditapp.NewRecorder(auditRepo, log, cfg.Audit.BufferSize)
	defer recorder.Close()

	// Idempotency store for webhook deduplication: Redis when enabled,
	// in-memory otherwise
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Payment gateways
	gateways := payment.NewRegistry(
		payment.NewMercadoPagoGateway(cfg.Payment),
	)
	log.Info("Payment gateways registered", zap.Strings("providers", gateways.Providers()))

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, recorder, log)
	clientService := partnerapp.NewClientService(clientRepo, recorder)
	serviceService := catalogapp.NewServiceService(serviceRepo, categoryRepo, recorder)
	categoryService := catalogapp.NewCategoryService(categoryRepo, recorder)
	saleService := tradeapp.NewSaleService(saleRepo, clientRepo, serviceRepo, recorder)
	receivableService := financeapp.NewReceivableService(receivableRepo, recorder)
	payableService := financeapp.NewPayableService(payableRepo, categoryRepo, recorder)
	paymentLinkService := financeapp.NewPaymentLinkService(receivableRepo, clientRepo, gateways, cfg.Payment, recorder, log)
	reconciliationService := financeapp.NewReconciliationService(
		receivableRepo, webhookRepo, gateways, idempotencyStore, recorder, log,
	)
	processService := fulfillmentapp.NewProcessService(processRepo, recorder)
	reportService := reportapp.NewService(reportRepo)
	auditService := auditapp.NewService(auditRepo)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie)
	clientHandler := handler.NewClientHandler(clientService)
	serviceHandler := handler.NewServiceHandler(serviceService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	saleHandler := handler.NewSaleHandler(saleService)
	receivableHandler := handler.NewReceivableHandler(receivableService, paymentLinkService)
	payableHandler := handler.NewPayableHandler(payableService)
	processHandler := handler.NewProcessHandler(processService)
	reportHandler := handler.NewReportHandler(reportService)
	auditHandler := handler.NewAuditHandler(auditService)
	webhookHandler := handler.NewWebhookHandler(reconciliationService, cfg.Webhook, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Provider webhooks are unauthenticated: providers cannot carry our
	// JWT. The generic endpoint is HMAC-signed instead.
	webhookGroup := engine.Group("/webhooks")
	webhookGroup.POST("/payments", webhookHandler.Generic)
	webhookGroup.POST("/mercadopago", webhookHandler.MercadoPago)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		CookieName: "session_token",
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/ping",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth routes. Login gets its own strict limiter so catalog
	// browsing cannot starve it and brute force cannot hide in the
	// global allowance.
	authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", middleware.AuthRateLimit(authLimiter), authHandler.Login)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)

	// Partner domain (clients)
	partnerRoutes := router.NewDomainGroup("partner", "/partners")
	partnerRoutes.POST("/clients", clientHandler.Create)
	partnerRoutes.GET("/clients", clientHandler.List)
	partnerRoutes.GET("/clients/:id", clientHandler.GetByID)
	partnerRoutes.PUT("/clients/:id", clientHandler.Update)
	partnerRoutes.DELETE("/clients/:id", clientHandler.Delete)

	// Catalog domain (services, expense categories)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/services", serviceHandler.Create)
	catalogRoutes.GET("/services", serviceHandler.List)
	catalogRoutes.GET("/services/:id", serviceHandler.GetByID)
	catalogRoutes.PUT("/services/:id", serviceHandler.Update)
	catalogRoutes.PUT("/services/:id/templates", serviceHandler.ReplaceTemplates)
	catalogRoutes.DELETE("/services/:id", serviceHandler.Delete)
	catalogRoutes.POST("/expense-categories", categoryHandler.Create)
	catalogRoutes.GET("/expense-categories", categoryHandler.List)
	catalogRoutes.PUT("/expense-categories/:id", categoryHandler.Update)
	catalogRoutes.DELETE("/expense-categories/:id", categoryHandler.Delete)

	// Trade domain (sales)
	tradeRoutes := router.NewDomainGroup("trade", "/trade")
	tradeRoutes.POST("/sales", saleHandler.Create)
	tradeRoutes.GET("/sales", saleHandler.List)
	tradeRoutes.GET("/sales/:id", saleHandler.GetByID)

	// Finance domain (receivables, payables)
	financeRoutes := router.NewDomainGroup("finance", "/finance")
	financeRoutes.POST("/receivables", receivableHandler.Create)
	financeRoutes.GET("/receivables", receivableHandler.List)
	financeRoutes.GET("/receivables/:id", receivableHandler.GetByID)
	financeRoutes.PUT("/receivables/:id", receivableHandler.Update)
	financeRoutes.POST("/receivables/:id/payments", receivableHandler.ApplyPayment)
	financeRoutes.POST("/receivables/:id/cancel", receivableHandler.Cancel)
	financeRoutes.DELETE("/receivables/:id", receivableHandler.Delete)
	financeRoutes.POST("/payables", payableHandler.Create)
	financeRoutes.GET("/payables", payableHandler.List)
	financeRoutes.GET("/payables/:id", payableHandler.GetByID)
	financeRoutes.PUT("/payables/:id", payableHandler.Update)
	financeRoutes.POST("/payables/:id/pay", payableHandler.Pay)
	financeRoutes.DELETE("/payables/:id", payableHandler.Delete)

	// Payment links
	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.POST("/mercadopago/preference", receivableHandler.CreatePaymentLink)

	// Fulfillment domain (licensing processes)
	fulfillmentRoutes := router.NewDomainGroup("fulfillment", "/fulfillment")
	fulfillmentRoutes.GET("/processes", processHandler.List)
	fulfillmentRoutes.GET("/processes/:id", processHandler.GetByID)
	fulfillmentRoutes.PATCH("/processes/:id", processHandler.Update)

	// Audit trail, admin only
	auditRoutes := router.NewDomainGroup("audit", "/audit")
	auditRoutes.Use(middleware.RequireRole("ADMIN"))
	auditRoutes.GET("/logs", auditHandler.List)

	// Reports and dashboard
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/financial", reportHandler.FinancialSummary)
	reportRoutes.GET("/extract", reportHandler.Extract)

	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/stats", reportHandler.Dashboard)

	r.Register(authRoutes).
		Register(partnerRoutes).
		Register(catalogRoutes).
		Register(tradeRoutes).
		Register(financeRoutes).
		Register(paymentRoutes).
		Register(fulfillmentRoutes).
		Register(auditRoutes).
		Register(reportRoutes).
		Register(dashboardRoutes)

	r.Setup()

	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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
