package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"employee-service/internal/auth"
	"employee-service/internal/config"
	"employee-service/internal/db"
	"employee-service/internal/employee"
	"employee-service/internal/events"
	"employee-service/internal/health"
	"employee-service/internal/logger"
	"employee-service/internal/metrics"
	"employee-service/internal/middleware"
	"employee-service/internal/storage"
	"employee-service/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type App struct {
	config        *config.Config
	router        chi.Router
	server        *http.Server
	logger        *slog.Logger
	database      *bun.DB
	producer      *events.Producer
	meterProvider *sdkmetric.MeterProvider
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	database := db.New(cfg.Database)
	app.database = database

	ctx := context.Background()
	if err := db.RunMigrations(ctx, database,
		(*auth.User)(nil),
		(*auth.RefreshToken)(nil),
		(*employee.Employee)(nil),
	); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	// Metrics are optional: if the OTel exporter cannot be set up the
	// service runs with no-op recorders.
	var m *metrics.Metrics
	meterProvider, err := telemetry.InitMeterProvider(ctx, ServiceName, Version, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize telemetry, metrics disabled", "error", err)
		m = metrics.NewMock()
	} else {
		app.meterProvider = meterProvider
		m, err = metrics.New(otel.Meter(ServiceName))
		if err != nil {
			slogLogger.Warn("failed to create metrics, metrics disabled", "error", err)
			m = metrics.NewMock()
		}
	}

	imageStore, err := storage.NewDiskStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatal("failed to initialize image store:", err)
	}
	slogLogger.Info("image store initialized", "dir", cfg.Storage.Dir)

	// NATS producer setup (optional)
	var publisher employee.EventPublisher
	if cfg.NATS.URL != "" {
		producer, err := events.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, slogLogger)
		if err != nil {
			slogLogger.Warn("failed to initialize NATS producer", "error", err)
		} else {
			app.producer = producer
			publisher = producer
		}
	}

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	// Auth setup
	userRepo := auth.NewUserRepository(database)
	tokenRepo := auth.NewTokenRepository(database)
	authService := auth.NewService(userRepo, tokenRepo)
	authHandler := auth.NewHandler(authService, slogLogger, m)
	authHandler.RegisterRoutes(app.router)

	// Employee endpoints (auth required)
	employeeRepo := employee.NewRepository(database)
	employeeService := employee.NewService(employeeRepo, imageStore, publisher, slogLogger, m)
	employeeHandler := employee.NewHandler(employeeService, slogLogger, m, cfg.Storage.MaxUploadBytes)

	app.router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(slogLogger))
		employeeHandler.RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	if a.producer != nil {
		a.producer.Close()
	}
	if a.meterProvider != nil {
		if err := telemetry.Shutdown(ctx, a.meterProvider, a.logger); err != nil {
			a.logger.Warn("telemetry shutdown failed", "error", err)
		}
	}
	defer db.Close(a.database)

	return a.server.Shutdown(ctx)
}
