package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	authpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, platformpostgres.DSNFromEnv(), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("database not configured or connection failed; cannot purge revoked tokens")
	}

	purged, err := authpostgres.NewRevocationStore(db).PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge revoked tokens: %v", err)
	}
	logger.Info("revoked token purge completed", slog.Int64("purged", purged))
}
