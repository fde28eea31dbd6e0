package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	temporallog "go.temporal.io/sdk/log"
	"golang.org/x/sync/errgroup"

	ecommerceserver "github.com/Apurer/go-gin-ecommerce-api/go"
	authports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
	orderworkflows "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/adapters/workflows"
	orderports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-ecommerce-api/internal/platform/observability"
)

// Run boots the HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	services, cleanup, err := NewServices(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.SeedOnStart {
		if _, err := services.Seeder.Run(ctx); err != nil {
			logger.Error("seed on start failed", slog.String("error", err.Error()))
		}
	}

	var orderWorkflows orderports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(services.Orders)
	if temporalClient, err := DialTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := ecommerceserver.ApiHandleFunctions{
		AuthAPI:     ecommerceserver.NewAuthAPI(services.Auth),
		UserAPI:     ecommerceserver.NewUserAPI(services.Users),
		CategoryAPI: ecommerceserver.NewCategoryAPI(services.Categories),
		ProductAPI:  ecommerceserver.NewProductAPI(services.Products),
		FileAPI:     ecommerceserver.NewFileAPI(services.Files),
		OrderAPI:    ecommerceserver.NewOrderAPI(services.Orders, orderWorkflows),
	}
	if cfg.SeedEndpointEnabled {
		handlers.SeedAPI = ecommerceserver.NewSeedAPI(services.Seeder)
	}
	router := ecommerceserver.NewRouter(handlers, logger, otelgin.Middleware(serviceName))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("ecommerce API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ecommerce API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down ecommerce API")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.RevocationPurgeInterval > 0 {
		g.Go(func() error {
			purgeRevocations(gctx, services.Revocations, cfg.RevocationPurgeInterval, logger)
			return nil
		})
	}
	return g.Wait()
}

// purgeRevocations drops expired token revocations every interval until ctx ends.
func purgeRevocations(ctx context.Context, store authports.RevocationStore, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("failed to purge revoked tokens", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("purged revoked tokens", slog.Int64("purged", purged))
		}
	}
}

// DialTemporal connects a traced Temporal client unless TEMPORAL_DISABLED is set.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer("temporal-client"),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    temporallog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
