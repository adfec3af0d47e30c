package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/fortuna/networth-backend/internal/config"
	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/dafibh/fortuna/networth-backend/internal/handler"
	"github.com/dafibh/fortuna/networth-backend/internal/middleware"
	"github.com/dafibh/fortuna/networth-backend/internal/repository/postgres"
	"github.com/dafibh/fortuna/networth-backend/internal/repository/storage"
	"github.com/dafibh/fortuna/networth-backend/internal/service"
	"github.com/dafibh/fortuna/networth-backend/internal/util"
	"github.com/dafibh/fortuna/networth-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
	log.Info().Msg("Server exited")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	dashboardService, err := loadDashboard(cfg)
	if err != nil {
		return err
	}

	// Late dashboards receive the startup snapshot on connect
	hub := websocket.NewHub()
	dashboardService.SetEventPublisher(hub)
	dashboardService.PublishSnapshot()

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	e := newServer(cfg, hub)
	handler.RegisterRoutes(e, rateLimiter,
		handler.NewDashboardHandler(dashboardService),
		handler.NewCostHandler(dashboardService),
		handler.NewAssumptionHandler(dashboardService),
		handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadDashboard reads the dataset once from the configured source
func loadDashboard(cfg *config.Config) (*service.DashboardService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	source, closeSource, err := openDatasetSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s dataset source: %w", cfg.DataSource, err)
	}
	defer closeSource()

	metricsService := service.NewMetricsService(util.SystemClock{}, cfg.TrendThreshold)
	dashboardService := service.NewDashboardService(metricsService)
	if err := dashboardService.LoadDataset(ctx, source); err != nil {
		return nil, fmt.Errorf("load %s dataset: %w", cfg.DataSource, err)
	}
	log.Info().Str("data_source", cfg.DataSource).Msg("Dataset ready")
	return dashboardService, nil
}

// newServer builds the echo instance with the shared middleware chain and /health
func newServer(cfg *config.Config, hub *websocket.Hub) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ProblemErrorHandler

	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After", echo.HeaderXRequestID},
		MaxAge:        86400,
	}))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))
	e.Use(zerologMiddleware())
	e.Use(echomiddleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"dashboards": hub.SubscriberCount(),
			"dataSource": cfg.DataSource,
		})
	})
	return e
}

// openDatasetSource builds the configured source. The returned close func
// releases whatever connection the source holds once the dataset is loaded.
func openDatasetSource(ctx context.Context, cfg *config.Config) (domain.DatasetSource, func(), error) {
	noop := func() {}

	switch cfg.DataSource {
	case config.DataSourceSeed:
		return storage.NewSeedDatasetRepository(), noop, nil

	case config.DataSourceFile:
		return storage.NewFileDatasetRepository(cfg.DataFile), noop, nil

	case config.DataSourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		log.Info().Msg("Connected to database")
		return postgres.NewDatasetRepository(pool), pool.Close, nil

	case config.DataSourceS3:
		repo, err := storage.NewS3DatasetRepository(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Str("key", cfg.S3.ObjectKey).Msg("S3 dataset source configured")
		return repo, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
}

// zerologMiddleware logs one line per request, at warn level for 4xx and error for 5xx
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			res := c.Response()
			evt := log.Info()
			switch {
			case res.Status >= http.StatusInternalServerError:
				evt = log.Error()
			case res.Status >= http.StatusBadRequest:
				evt = log.Warn()
			}
			evt.
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")
			return nil
		}
	}
}
