package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-ecommerce-api/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-ecommerce-api/internal/platform/observability"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN or DB_HOST/DB_NAME must be set; seeding in-memory repositories has no effect")
	}
	instruments, shutdown, err := platformobservability.Init(ctx, "ecommerce-seeder")
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	services, cleanup, err := api.NewServices(ctx, cfg, instruments)
	if err != nil {
		instruments.Logger.Error("failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	result, err := services.Seeder.Run(ctx)
	if err != nil {
		instruments.Logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	instruments.Logger.Info("seed finished",
		slog.Int("categories", result.Categories),
		slog.Int("products", result.Products),
		slog.Int("users", result.Users),
	)
}
