package api

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	authbcrypt "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/adapters/bcrypt"
	authjwt "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/adapters/jwt"
	authmemory "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/adapters/memory"
	authobs "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/adapters/observability"
	authpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/adapters/persistence/postgres"
	authapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/application"
	authports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
	categorymemory "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/adapters/memory"
	categorypostgres "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/adapters/persistence/postgres"
	categoryapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/application"
	categoryports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/ports"
	filescloudinary "github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/adapters/cloudinary"
	filesapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/application"
	filesports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/files/ports"
	ordermemory "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	productcache "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/cache"
	productmemory "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/memory"
	productobs "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/observability"
	productpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/persistence/postgres"
	productapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/application"
	productports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	usermemory "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
	platformcache "github.com/Apurer/go-gin-ecommerce-api/internal/platform/cache"
	"github.com/Apurer/go-gin-ecommerce-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-ecommerce-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-ecommerce-api/internal/platform/seed"
)

const serviceName = "ecommerce-api"

// Services is the decorated service graph shared by the API, worker and seeder.
type Services struct {
	Auth        authports.Service
	Users       userports.Service
	Categories  categoryports.Service
	Products    productports.Service
	Files       filesports.Service
	Orders      orderports.Service
	Seeder      *seed.Seeder
	Revocations authports.RevocationStore
}

type repositories struct {
	users         userports.Repository
	categories    categoryports.Repository
	products      productports.Repository
	unitOfWork    orderports.UnitOfWork
	orders        orderports.Repository
	userOrders    userports.OrderLookup
	productOrders productports.OrderLookup
	idempotency   orderports.IdempotencyStore
	revocations   authports.RevocationStore
}

// NewServices connects infrastructure from cfg and builds every service.
// Postgres, Redis and Cloudinary are optional: without them the graph runs on
// in-memory repositories, no cache and no image store.
func NewServices(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Services, func(), error) {
	logger := instruments.Logger
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	db, closeDB := platformpostgres.ConnectFromEnv(ctx, cfg.PostgresDSN, logger)
	cleanups = append(cleanups, closeDB)
	var repos repositories
	if db != nil {
		if err := migrations.Run(db); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		repos = postgresRepositories(db)
		logger.Info("repositories configured with postgres")
	} else {
		repos = memoryRepositories()
	}

	cache, closeCache := buildCache(ctx, cfg, logger)
	cleanups = append(cleanups, closeCache)

	issuer, err := authjwt.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	hasher := authbcrypt.NewHasher(authbcrypt.DefaultCost)
	authService := authobs.New(
		authapp.NewService(repos.users, hasher, issuer, repos.revocations),
		authobs.WithLogger(logger),
		authobs.WithTracer(instruments.Tracer("internal.auth.application")),
		authobs.WithMeter(instruments.Meter("internal.auth.application")),
	)

	userService := userobs.New(
		userapp.NewService(repos.users, userapp.WithOrderLookup(repos.userOrders)),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	categoryService := categoryapp.NewService(repos.categories)

	productService := productcache.New(
		productobs.New(
			productapp.NewService(repos.products, repos.categories, productapp.WithOrderLookup(repos.productOrders)),
			productobs.WithLogger(logger),
			productobs.WithTracer(instruments.Tracer("internal.products.application")),
			productobs.WithMeter(instruments.Meter("internal.products.application")),
		),
		cache,
		cfg.ProductCacheTTL,
		logger,
	)

	orderService := orderobs.New(
		orderapp.NewService(repos.unitOfWork, repos.orders,
			orderapp.WithIdempotencyStore(repos.idempotency),
			orderapp.WithCacheInvalidator(productService),
		),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var imageStore filesports.ImageStore
	if cfg.CloudinaryConfigured() {
		store, err := filescloudinary.NewStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Warn("cloudinary unavailable, image uploads disabled", slog.String("error", err.Error()))
		} else {
			imageStore = store
		}
	} else {
		logger.Warn("cloudinary not configured, image uploads disabled")
	}

	return &Services{
		Auth:        authService,
		Users:       userService,
		Categories:  categoryService,
		Products:    productService,
		Files:       filesapp.NewService(productService, imageStore),
		Orders:      orderService,
		Seeder:      seed.New(categoryService, repos.products, repos.users, hasher, orderService, logger),
		Revocations: repos.revocations,
	}, cleanup, nil
}

func postgresRepositories(db *gorm.DB) repositories {
	store := orderpostgres.NewStore(db)
	return repositories{
		users:         userpostgres.NewRepository(db),
		categories:    categorypostgres.NewRepository(db),
		products:      productpostgres.NewRepository(db),
		unitOfWork:    store,
		orders:        store,
		userOrders:    store,
		productOrders: store,
		idempotency:   orderpostgres.NewIdempotencyStore(db),
		revocations:   authpostgres.NewRevocationStore(db),
	}
}

func memoryRepositories() repositories {
	users := usermemory.NewRepository()
	products := productmemory.NewRepository()
	store := ordermemory.NewStore(users, products)
	return repositories{
		users:         users,
		categories:    categorymemory.NewRepository(),
		products:      products,
		unitOfWork:    store,
		orders:        store,
		userOrders:    store,
		productOrders: store,
		idempotency:   store.IdempotencyKeys(),
		revocations:   authmemory.NewRevocationStore(),
	}
}

func buildCache(ctx context.Context, cfg Config, logger *slog.Logger) (platformcache.Cache, func()) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, product cache disabled")
		return platformcache.Noop{}, func() {}
	}
	client, err := platformcache.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, product cache disabled", slog.String("error", err.Error()))
		return platformcache.Noop{}, func() {}
	}
	logger.Info("product cache configured with redis", slog.String("addr", cfg.RedisAddr))
	return platformcache.NewRedisCache(client, serviceName), func() { _ = client.Close() }
}
