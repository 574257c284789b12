package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/tijara/backend/internal/application/catalog"
	financeapp "github.com/tijara/backend/internal/application/finance"
	inventoryapp "github.com/tijara/backend/internal/application/inventory"
	partnerapp "github.com/tijara/backend/internal/application/partner"
	printingapp "github.com/tijara/backend/internal/application/printing"
	settingsapp "github.com/tijara/backend/internal/application/settings"
	tradeapp "github.com/tijara/backend/internal/application/trade"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/cache"
	"github.com/tijara/backend/internal/infrastructure/config"
	"github.com/tijara/backend/internal/infrastructure/event"
	"github.com/tijara/backend/internal/infrastructure/locale"
	"github.com/tijara/backend/internal/infrastructure/logger"
	"github.com/tijara/backend/internal/infrastructure/persistence"
	"github.com/tijara/backend/internal/infrastructure/printing"
	"github.com/tijara/backend/internal/infrastructure/storage"
	"github.com/tijara/backend/internal/infrastructure/telemetry"
	"github.com/tijara/backend/internal/interfaces/http/handler"
	"github.com/tijara/backend/internal/interfaces/http/middleware"
	"github.com/tijara/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const slowQueryThreshold = 200 * time.Millisecond

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.ForEnvironment(cfg.App.Env, cfg.Log.Level, cfg.Log.Output))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	// Telemetry first so every later component logs through the bridge
	telemetryCfg := telemetry.ConfigFrom(cfg.Telemetry)
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, cfg.Telemetry.LogsEnabled, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	defer shutdown(log, "logger provider", logProvider.Shutdown)
	log = logProvider.Bridge(log, zapcore.InfoLevel)

	log.Info("Starting Tijara backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer shutdown(log, "tracer provider", tracerProvider.Shutdown)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}
	defer shutdown(log, "meter provider", meterProvider.Shutdown)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	defaultTenant, err := uuid.Parse(cfg.App.DefaultTenant)
	if err != nil {
		log.Fatal("Invalid default tenant", zap.String("default_tenant", cfg.App.DefaultTenant), zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), slowQueryThreshold)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.DBTraceEnabled {
		tracingCfg := telemetry.DefaultDBTracingConfig()
		tracingCfg.Enabled = true
		tracingCfg.DBName = cfg.Database.DBName
		tracingCfg.SlowQueryThresh = slowQueryThreshold
		if err := telemetry.NewDBTracingPlugin(tracingCfg, log).Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version).
		AddCheck("database", db.Ping)

	// Redis backs order locks and event idempotency; without it both stay in process
	var (
		locker    trade.OrderLocker
		idemStore shared.IdempotencyStore
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		locker = cache.NewRedisOrderLocker(redisClient, cfg.Redis.KeyPrefix, log)
		idemStore = cache.NewRedisIdempotencyStore(redisClient, cfg.Redis.KeyPrefix)
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		locker = cache.NewInMemoryOrderLocker()
		idemStore = cache.NewInMemoryIdempotencyStore(time.Hour)
		log.Info("Redis disabled, using in-process order locks")
	}
	defer func() { _ = idemStore.Close() }()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	paymentRepo := persistence.NewGormSupplierPaymentRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Metrics
	ledgerMetrics, err := telemetry.NewLedgerMetrics(
		meterProvider.Meter("tijara/ledger"),
		telemetry.NewGormLowStockCounter(db.DB),
		log,
	)
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}
	defer func() { _ = ledgerMetrics.Stop() }()

	formatter := locale.French()

	// Application services
	companyService := settingsapp.NewCompanyService(companyRepo, log)
	productService := catalogapp.NewProductService(productRepo, movementRepo, salesOrderRepo, txScope, log)
	productService.SetLedgerRecorder(ledgerMetrics)
	stockService := inventoryapp.NewStockService(productRepo, movementRepo, salesOrderRepo, txScope, log)
	stockService.SetLedgerRecorder(ledgerMetrics)
	stockService.SetFormatter(formatter)
	salesOrderService := tradeapp.NewSalesOrderService(salesOrderRepo, productRepo, clientRepo, txScope, locker, log)
	salesOrderService.SetLedgerRecorder(ledgerMetrics)
	salesOrderService.SetFormatter(formatter)
	salesOrderService.SetInvoiceLookup(invoiceRepo)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, supplierRepo, productRepo, log)
	clientService := partnerapp.NewClientService(clientRepo, salesOrderRepo, invoiceRepo, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, purchaseOrderRepo, paymentRepo, log)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, salesOrderRepo, clientRepo, companyService, log)
	linkService := tradeapp.NewProductLinkService(persistence.NewProductBackfill(db.DB, log), log)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log, event.WithMeter(meterProvider.Meter("tijara/events")))
	if cfg.Ledger.LowStockAlerts {
		alerts := inventoryapp.NewLowStockAlertHandler(productRepo, nil, log)
		eventBus.Subscribe(event.NewIdempotentHandler("low_stock_alert", alerts, idemStore, log))
		log.Info("Low stock alerts enabled", zap.Strings("events", alerts.EventTypes()))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	for _, s := range []interface{ SetEventPublisher(shared.EventPublisher) }{
		productService, stockService, salesOrderService, purchaseOrderService,
		clientService, supplierService, invoiceService,
	} {
		s.SetEventPublisher(eventBus)
	}

	// Delivery notes
	deliveryService, closeRenderer := newDeliveryNoteService(ctx, cfg, log, formatter,
		salesOrderRepo, clientRepo, companyService, ledgerMetrics)
	defer closeRenderer()

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimit > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateLimitBurst)
		defer rateLimiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Int("per_second", cfg.HTTP.RateLimit),
			zap.Int("burst", cfg.HTTP.RateLimitBurst))
	}

	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = profiler.IsEnabled()
	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.Env == "production"

	engine := router.NewEngine(router.EngineConfig{
		Logger:          log,
		ServiceName:     cfg.Telemetry.ServiceName,
		DefaultTenantID: defaultTenant,
		TracingEnabled:  tracerProvider.IsEnabled(),
		MeterProvider:   meterProvider,
		Profiling:       profilingCfg,
		CORS:            corsConfig(cfg.HTTP),
		Security:        security,
		MaxBodyBytes:    cfg.HTTP.MaxBodyBytes,
		RateLimiter:     rateLimiter,
		RequestTimeout:  cfg.HTTP.WriteTimeout,
	})

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		RegisterRoot(systemHandler).
		Register(
			systemHandler,
			handler.NewProductHandler(productService, stockService),
			handler.NewSalesOrderHandler(salesOrderService, invoiceService, deliveryService),
			handler.NewPurchaseOrderHandler(purchaseOrderService),
			handler.NewClientHandler(clientService, invoiceService),
			handler.NewSupplierHandler(supplierService, purchaseOrderService),
			handler.NewInvoiceHandler(invoiceService),
			handler.NewSettingsHandler(companyService),
			handler.NewMaintenanceHandler(stockService, linkService),
		).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newDeliveryNoteService wires the PDF renderer with the local copy and the
// optional S3 archive. The returned func closes the browser.
func newDeliveryNoteService(
	ctx context.Context,
	cfg *config.Config,
	log *zap.Logger,
	formatter *locale.Formatter,
	orders *persistence.GormSalesOrderRepository,
	clients *persistence.GormClientRepository,
	company *settingsapp.CompanyService,
	recorder printingapp.RenderRecorder,
) (*printingapp.DeliveryNoteService, func()) {
	tmpl, err := printing.NewDeliveryNoteTemplate(formatter)
	if err != nil {
		log.Fatal("Failed to parse delivery note template", zap.Error(err))
	}
	renderer := printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.Printing, log))

	svc := printingapp.NewDeliveryNoteService(orders, clients, company, tmpl, renderer, log)
	svc.SetRecorder(recorder)

	if cfg.Printing.StorageDir != "" {
		fs, err := printing.NewFileSystemStorage(cfg.Printing.StorageDir, log)
		if err != nil {
			log.Fatal("Failed to prepare document storage", zap.Error(err))
		}
		svc.SetStorage(fs)
	}

	if cfg.Storage.Enabled {
		archive, err := storage.NewS3Archive(ctx, cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration))
		if err != nil {
			log.Fatal("Failed to configure document archive", zap.Error(err))
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Warn("Document archive bucket unavailable", zap.String("bucket", archive.Bucket()), zap.Error(err))
		}
		svc.SetArchive(archive, cfg.Storage.PresignExpiration)
		log.Info("Document archive enabled", zap.String("bucket", archive.Bucket()))
	}

	return svc, func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSAllowOrigins
	}
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}

func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
