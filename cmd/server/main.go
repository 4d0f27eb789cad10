package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dukerupert/festa/internal"
	"github.com/dukerupert/festa/internal/cookie"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler/admin"
	"github.com/dukerupert/festa/internal/handler/storefront"
	"github.com/dukerupert/festa/internal/handoff"
	"github.com/dukerupert/festa/internal/jobs"
	"github.com/dukerupert/festa/internal/middleware"
	"github.com/dukerupert/festa/internal/postgres"
	"github.com/dukerupert/festa/internal/router"
	"github.com/dukerupert/festa/internal/routes"
	"github.com/dukerupert/festa/internal/service"
	"github.com/dukerupert/festa/internal/storage"
	"github.com/dukerupert/festa/internal/telemetry"
	"github.com/dukerupert/festa/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Env,
	}, logger)
	if err != nil {
		return err
	}
	defer flushSentry()

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	// Verify database connection
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Repositories
	componentRepo := postgres.NewComponentRepository(pool)
	sectionRepo := postgres.NewSectionRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)

	// Image storage
	store, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "provider", cfg.Storage.Provider)

	// Order handoff
	var publisher handoff.Publisher = handoff.LogPublisher{Logger: logger}
	if cfg.NATS.URL != "" {
		natsPublisher, err := handoff.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("Order handoff publishing to NATS", "subject", cfg.NATS.Subject)
	} else {
		logger.Warn("NATS_URL not set, submitted orders are only logged")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics("festa", registry)
	businessMetrics := telemetry.NewBusinessMetrics("festa", registry)

	// Services
	settingsService := service.NewSettingsService(settingsRepo, domain.StoreSettings{
		StoreName:     cfg.Store.Name,
		WhatsAppPhone: cfg.Store.WhatsAppPhone,
	})
	catalogService := service.NewCatalogService(componentRepo, sectionRepo)
	cartService := service.NewCartService(cartRepo, componentRepo, businessMetrics, logger)
	kitService := service.NewKitService(componentRepo, cartService, service.KitConfig{
		TTL:         cfg.Session.KitTTL,
		MaxSessions: cfg.Session.MaxSessions,
	}, businessMetrics, logger)
	checkoutService := service.NewCheckoutService(cartService, orderRepo, componentRepo, settingsService, publisher, cfg.Store.Location, businessMetrics, logger)
	componentService := service.NewComponentService(componentRepo, store, logger)
	sectionService := service.NewSectionService(sectionRepo)
	orderService := service.NewOrderService(orderRepo, logger)
	authService := service.NewAdminAuthService(service.AdminCredentials{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
	}, cfg.Session.AdminTTL, businessMetrics, logger)

	if cfg.Admin.Email == "" {
		logger.Warn("FESTA_ADMIN_EMAIL not set, admin sign-in is disabled")
	}

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	cookies := cookie.NewConfig(cfg.Session.Secure)

	limit := middleware.StrictRateLimiterConfig()
	limit.RequestsPerSecond = cfg.RateLimit.Rate
	limit.BurstSize = cfg.RateLimit.Burst

	storefrontDeps := routes.StorefrontDeps{
		CatalogHandler:  storefront.NewCatalogHandler(catalogService),
		KitHandler:      storefront.NewKitHandler(kitService),
		CartHandler:     storefront.NewCartHandler(cartService),
		CheckoutHandler: storefront.NewCheckoutHandler(checkoutService),
		Cookies:         cookies,
		SessionCookie:   cfg.Session.CookieName,
		SessionTTL:      cfg.Session.KitTTL,
		CheckoutLimit:   limit,
	}

	adminDeps := routes.AdminDeps{
		AuthService:      authService,
		Cookies:          cookies,
		AuthHandler:      admin.NewAuthHandler(authService, cookies, cfg.Session.AdminTTL),
		ComponentHandler: admin.NewComponentHandler(componentService),
		SectionHandler:   admin.NewSectionHandler(sectionService),
		OrderHandler:     admin.NewOrderHandler(orderService),
		SettingsHandler:  admin.NewSettingsHandler(settingsService),
		LoginLimit:       limit,
	}

	systemDeps := routes.SystemDeps{
		Health: func(w http.ResponseWriter, req *http.Request) {
			pingCtx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(pingCtx); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		},
		Metrics: httpMetrics.Handler(),
	}
	if cfg.Storage.Provider == "local" || cfg.Storage.Provider == "" {
		systemDeps.UploadsPrefix = cfg.Storage.LocalURL
		systemDeps.UploadsDir = cfg.Storage.LocalPath
	}

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0 // Disable HSTS in development
	}

	r := router.New(
		middleware.RequestID,
		middleware.WithClientIP(cfg.TrustProxy),
		middleware.WithRequestLogger(logger),
		router.Recovery(logger),
		telemetry.SentryMiddleware,
		httpMetrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		router.Logger(logger),
	)

	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterAdminRoutes(r, adminDeps)
	routes.RegisterSystemRoutes(r, systemDeps)

	// The mux answers OPTIONS itself, so CORS has to sit in front of it.
	var handler http.Handler = r
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = router.CORS(cfg.CORSAllowedOrigins)(r)
		logger.Info("CORS enabled", "origins", cfg.CORSAllowedOrigins)
	}

	// ==========================================================================
	// Background worker
	// ==========================================================================

	w := worker.NewWorker(worker.Config{PollInterval: cfg.Worker.Interval}, logger, worker.Job{
		Type:    jobs.JobTypeCleanupStaleCarts,
		Timeout: time.Minute,
		Run: func(ctx context.Context) error {
			result, err := jobs.CleanupStaleCarts(ctx, cartRepo, cfg.Worker.CartRetention, time.Now())
			if err != nil {
				return err
			}
			logger.Info("stale carts purged", "carts_deleted", result.CartsDeleted)
			return nil
		},
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("worker stopped", "error", err)
		}
	}()

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	stop()
	<-workerDone
	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
