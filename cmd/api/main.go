package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/dejobratic/sharedorders/internal/config"
	"github.com/dejobratic/sharedorders/internal/database"
	idemmemory "github.com/dejobratic/sharedorders/internal/idempotency/memory"
	idempostgres "github.com/dejobratic/sharedorders/internal/idempotency/postgres"
	idemredis "github.com/dejobratic/sharedorders/internal/idempotency/redis"
	"github.com/dejobratic/sharedorders/internal/orders/adapters"
	httpadapter "github.com/dejobratic/sharedorders/internal/orders/adapters/http"
	ordersmemory "github.com/dejobratic/sharedorders/internal/orders/adapters/memory"
	ordersnats "github.com/dejobratic/sharedorders/internal/orders/adapters/natskv"
	orderspostgres "github.com/dejobratic/sharedorders/internal/orders/adapters/postgres"
	ordersredis "github.com/dejobratic/sharedorders/internal/orders/adapters/redis"
	ordersapp "github.com/dejobratic/sharedorders/internal/orders/app"
	ordersmetrics "github.com/dejobratic/sharedorders/internal/orders/metrics"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
	"github.com/dejobratic/sharedorders/internal/telemetry"
)

const meterName = "github.com/dejobratic/sharedorders"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(os.Stdout, telemetry.ParseLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exporting := cfg.Telemetry.OTelEndpoint != ""
	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:      cfg.Service.Name,
		ServiceVersion:   cfg.Service.Version,
		Environment:      cfg.Service.Environment,
		OTLPEndpoint:     cfg.Telemetry.OTelEndpoint,
		SampleRate:       cfg.Telemetry.SampleRate,
		EnableTracing:    cfg.Telemetry.EnableTracing && exporting,
		EnableMetrics:    cfg.Telemetry.EnableMetrics && exporting,
		EnablePrometheus: cfg.Telemetry.EnablePrometheus,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	meter := otel.Meter(meterName)

	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer backend.close()

	storeMetrics, err := database.NewMetrics(meter, string(cfg.Store.Backend))
	if err != nil {
		logger.Error("failed to create store metrics", "error", err)
		os.Exit(1)
	}
	store := adapters.NewObservableStore(backend.store, storeMetrics)

	orderMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create order metrics", "error", err)
		os.Exit(1)
	}

	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create http metrics", "error", err)
		os.Exit(1)
	}

	service := ordersapp.NewService(store, cfg.Store.Key, backend.idempotency, logger, orderMetrics)
	ordersHandler := httpadapter.NewHandler(service, logger, httpadapter.DefaultPath)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Idempotency-Key"},
			ExposedHeaders: []string{"Idempotent-Replayed"},
			MaxAge:         300,
		}),
		httpadapter.Recover(logger),
		httpadapter.RequestLogger(logger),
		httpadapter.WithMetrics(httpMetrics),
	)

	httpadapter.RegisterHealth(r, store, logger)
	r.Handle(cfg.HTTP.MetricsPath, tel.MetricsHandler())
	ordersHandler.Register(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           otelhttp.NewHandler(r, cfg.Service.Name),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port, "backend", cfg.Store.Backend, "key", cfg.Store.Key)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}

	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown failed", "error", err)
	}
}

type backend struct {
	store       ports.ListStore
	idempotency ports.IdempotencyStore
	close       func()
}

// openBackend connects the configured list store and the idempotency store
// that lives next to it.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	ttl := cfg.Idempotency.TTL

	switch cfg.Store.Backend {
	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return &backend{
			store:       ordersredis.NewStore(client),
			idempotency: idemredis.NewStore(client, ttl),
			close:       func() { _ = client.Close() },
		}, nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("create database pool: %w", err)
		}
		if cfg.Database.AutoMigrate {
			logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
			version, err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath)
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
			logger.Info("migrations completed successfully", "version", version)
		}
		return &backend{
			store:       orderspostgres.NewStore(pool),
			idempotency: idempostgres.NewStore(pool, ttl),
			close:       pool.Close,
		}, nil

	case config.BackendNATS:
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name(cfg.Service.Name))
		if err != nil {
			return nil, fmt.Errorf("connect to nats: %w", err)
		}
		store, err := ordersnats.NewStore(ctx, nc, cfg.NATS.Bucket)
		if err != nil {
			nc.Close()
			return nil, err
		}
		return &backend{
			store:       store,
			idempotency: idemmemory.NewStore(ttl),
			close:       nc.Close,
		}, nil

	case config.BackendMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return &backend{
			store:       ordersmemory.NewStore(),
			idempotency: idemmemory.NewStore(ttl),
			close:       func() {},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Store.Backend)
	}
}
