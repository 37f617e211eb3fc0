package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	auditapp "github.com/quoteflow/backend/internal/application/audit"
	billingapp "github.com/quoteflow/backend/internal/application/billing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/infrastructure/auth"
	"github.com/quoteflow/backend/internal/infrastructure/cache"
	"github.com/quoteflow/backend/internal/infrastructure/config"
	"github.com/quoteflow/backend/internal/infrastructure/event"
	"github.com/quoteflow/backend/internal/infrastructure/logger"
	"github.com/quoteflow/backend/internal/infrastructure/persistence"
	"github.com/quoteflow/backend/internal/interfaces/http/handler"
	"github.com/quoteflow/backend/internal/interfaces/http/middleware"
	"github.com/quoteflow/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting quoteflow backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Idempotency store: Redis when configured, process-local otherwise
	var idemStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		idemStore = store
		log.Info("Idempotency store backed by redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idemStore = cache.NewInMemoryIdempotencyStore()
		log.Info("Idempotency store running in memory")
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	eventBus.Subscribe(event.NewLoggingHandler(log))

	// Repositories
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db)

	// Application services
	quoteService := billingapp.NewQuoteService(quoteRepo, invoiceRepo, activityRepo, eventBus, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, paymentRepo, log)
	paymentService := billingapp.NewPaymentService(uow, invoiceRepo, paymentRepo, activityRepo, eventBus, log)
	activityService := auditapp.NewActivityService(activityRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.GET("/health", healthHandler(db))

	// Handlers
	quoteHandler := handler.NewQuoteHandler(quoteService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	activityHandler := handler.NewActivityHandler(activityService)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
	}))

	idem := middleware.Idempotency(idemStore, cfg.HTTP.IdempotencyTTL)

	billingRoutes := router.NewDomainGroup("billing", "/billing")

	// Quote lifecycle
	billingRoutes.POST("/quotes", quoteHandler.Create)
	billingRoutes.GET("/quotes", quoteHandler.List)
	billingRoutes.GET("/quotes/:id", quoteHandler.GetByID)
	billingRoutes.POST("/quotes/:id/items", quoteHandler.AddItem)
	billingRoutes.PUT("/quotes/:id/items/:itemId", quoteHandler.UpdateItem)
	billingRoutes.DELETE("/quotes/:id/items/:itemId", quoteHandler.RemoveItem)
	billingRoutes.PUT("/quotes/:id/pricing", quoteHandler.UpdatePricing)
	billingRoutes.POST("/quotes/:id/send", quoteHandler.Send)
	billingRoutes.POST("/quotes/:id/accept", quoteHandler.Accept)
	billingRoutes.POST("/quotes/:id/decline", quoteHandler.Decline)
	billingRoutes.POST("/quotes/:id/finalize", quoteHandler.Finalize)

	// Invoices
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/number/:number", invoiceHandler.GetByNumber)
	billingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	billingRoutes.GET("/invoices/:id/detail", invoiceHandler.GetDetail)
	billingRoutes.PUT("/invoices/:id/due-date", invoiceHandler.UpdateDueDate)
	billingRoutes.PUT("/invoices/:id/remark", invoiceHandler.UpdateRemark)

	// Payment ledger; mutations honor the Idempotency-Key header
	billingRoutes.POST("/invoices/:id/payments", idem, paymentHandler.Add)
	billingRoutes.GET("/invoices/:id/payments", paymentHandler.ListByInvoice)
	billingRoutes.POST("/invoices/:id/reconcile", paymentHandler.Reconcile)
	billingRoutes.GET("/payments/:paymentId", paymentHandler.GetByID)
	billingRoutes.DELETE("/payments/:paymentId", idem, paymentHandler.Delete)

	auditRoutes := router.NewDomainGroup("audit", "/audit")
	auditRoutes.GET("/activity", activityHandler.List)

	r.Register(billingRoutes).Register(auditRoutes)
	r.Setup()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Event bus shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness including database reachability
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
