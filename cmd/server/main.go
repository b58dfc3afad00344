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

	"github.com/vendora/backend/internal/application/account"
	"github.com/vendora/backend/internal/application/inbox"
	"github.com/vendora/backend/internal/application/vendorreq"
	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/infrastructure/auth"
	"github.com/vendora/backend/internal/infrastructure/cache"
	"github.com/vendora/backend/internal/infrastructure/config"
	"github.com/vendora/backend/internal/infrastructure/event"
	"github.com/vendora/backend/internal/infrastructure/logger"
	"github.com/vendora/backend/internal/infrastructure/persistence"
	"github.com/vendora/backend/internal/infrastructure/telemetry"
	"github.com/vendora/backend/internal/interfaces/http/handler"
	"github.com/vendora/backend/internal/interfaces/http/middleware"
	"github.com/vendora/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Vendora Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
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
	log.Info("Database connected successfully")

	// Telemetry: tracing and metrics providers
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
			Enabled: true,
			DBName:  cfg.Database.DBName,
		}, log); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Cart pricing policy from config
	policy, err := cart.NewPricingPolicy(cfg.Cart.TaxRate, cfg.Cart.FreeShippingThreshold, cfg.Cart.FlatShippingFee)
	if err != nil {
		log.Fatal("Invalid cart pricing configuration", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	vendorRequestRepo := persistence.NewGormVendorRequestRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	cartStore := persistence.NewGormCartStore(db.DB, policy)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Guest cart tier: Redis, with an in-memory fallback outside production
	sessionFactory := cache.NewSessionStoreFactory(cfg.Redis, cfg.Cart.SessionTTL,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	sessionStore, err := sessionFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create cart session store", zap.Error(err))
	}

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := account.NewAuthService(userRepo, jwtService, eventBus, log)
	submissionService := vendorreq.NewSubmissionService(vendorRequestRepo, userRepo, eventBus, log)
	approvalService := vendorreq.NewApprovalService(uow, eventBus, log)
	inboxService := inbox.NewService(notificationRepo, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	cartHandler := handler.NewCartHandler(cartStore, sessionStore, policy, cfg.Cart.RemoteTimeout, cfg.Cart.SessionTTL, log)
	vendorRequestHandler := handler.NewVendorRequestHandler(submissionService, approvalService)
	notificationHandler := handler.NewNotificationHandler(inboxService)
	systemHandler := handler.NewSystemHandler(db)

	// Business metrics ride the OTLP meter when telemetry is on
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("vendora.business"), log)
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			cartHandler.SetMetrics(businessMetrics)
			vendorRequestHandler.SetMetrics(businessMetrics)
		}
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	if meterProvider.IsEnabled() {
		engine.Use(middleware.HTTPMetrics(meterProvider.Meter("vendora.http"), log))
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/auth/login",
			"/api/v1/auth/register",
			"/api/v1/auth/refresh",
			"/api/v1/system/info",
		},
		// cart endpoints serve guests and logged-in users alike
		OptionalPathPrefixes: []string{
			"/api/v1/cart",
		},
		Logger: log,
	}))

	// Health check endpoint outside API versioning
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(authHandler).
		Register(cartHandler).
		Register(vendorRequestHandler).
		Register(notificationHandler).
		Register(systemHandler)
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
