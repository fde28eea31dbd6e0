//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	categorydomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
	categorypostgres "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/adapters/persistence/postgres"
	orderpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/application"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	productpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/persistence/postgres"
	productdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	userpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/adapters/persistence/postgres"
	userdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/platform/postgres/pgtest"
)

type pgFixture struct {
	db       *gorm.DB
	store    *orderpostgres.Store
	products *productpostgres.Repository
	svc      *orderapp.Service
	alice    *userdomain.User
	boots    *productdomain.Product
	hat      *productdomain.Product
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()
	db := pgtest.Start(t)

	category, err := categorydomain.NewCategory("Clothes")
	require.NoError(t, err)
	category, err = categorypostgres.NewRepository(db).Create(ctx, category)
	require.NoError(t, err)

	user, err := userdomain.NewUser(userdomain.Profile{
		Name: "Alice Doe", Email: "alice@example.com", Phone: 3511111111,
		Country: "Argentina", City: "Cordoba", Address: "Street 123",
	}, "hash")
	require.NoError(t, err)
	alice, err := userpostgres.NewRepository(db).Create(ctx, user)
	require.NoError(t, err)

	products := productpostgres.NewRepository(db)
	mkProduct := func(name, price string, stock int) *productdomain.Product {
		p, err := productdomain.NewProduct(productdomain.Attributes{
			Name: name, Description: "A product for testing", Price: decimal.RequireFromString(price), Stock: stock,
		}, *category)
		require.NoError(t, err)
		created, err := products.Create(ctx, p)
		require.NoError(t, err)
		return created
	}

	store := orderpostgres.NewStore(db)
	return &pgFixture{
		db:       db,
		store:    store,
		products: products,
		svc:      orderapp.NewService(store, store, orderapp.WithIdempotencyStore(orderpostgres.NewIdempotencyStore(db))),
		alice:    alice,
		boots:    mkProduct("Boots", "49.90", 5),
		hat:      mkProduct("Hat", "15.00", 1),
	}
}

func (f *pgFixture) caller() authdomain.Principal {
	return authdomain.Principal{UserID: f.alice.ID, Email: f.alice.Email, Role: authdomain.RoleUser}
}

func (f *pgFixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestStore_PlaceOrderPersistsOrderAndStock(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	order, err := f.svc.PlaceOrder(ctx, ports.PlaceOrderCommand{
		UserID: f.alice.ID,
		Caller: f.caller(),
		Lines: []domain.Line{
			{ProductID: f.boots.ID, Quantity: 2},
			{ProductID: f.hat.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "114.80", order.Total.StringFixed(2))

	stored, err := f.store.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, stored.Customer.ID)
	assert.Len(t, stored.Details, 2)
	assert.True(t, order.Total.Equal(stored.Total))

	assert.Equal(t, 3, f.stock(t, f.boots.ID))
	assert.Equal(t, 0, f.stock(t, f.hat.ID))

	hasOrders, err := f.store.UserHasOrders(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.True(t, hasOrders)
	hasLines, err := f.store.ProductHasOrderLines(ctx, f.hat.ID)
	require.NoError(t, err)
	assert.True(t, hasLines)

	owner := f.alice.ID
	orders, total, err := f.store.List(ctx, ports.ListFilter{UserID: &owner, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestStore_InsufficientStockRollsBack(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, ports.PlaceOrderCommand{
		UserID: f.alice.ID,
		Caller: f.caller(),
		Lines: []domain.Line{
			{ProductID: f.boots.ID, Quantity: 1},
			{ProductID: f.hat.ID, Quantity: 2},
		},
	})
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, f.hat.ID, stockErr.ProductID)
	assert.Equal(t, 1, stockErr.Available)

	assert.Equal(t, 5, f.stock(t, f.boots.ID))
	assert.Equal(t, 1, f.stock(t, f.hat.ID))
	hasOrders, err := f.store.UserHasOrders(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.False(t, hasOrders)
}

func TestStore_ConcurrentPlacementsNeverOversell(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.PlaceOrder(ctx, ports.PlaceOrderCommand{
				UserID: f.alice.ID,
				Caller: f.caller(),
				Lines:  []domain.Line{{ProductID: f.boots.ID, Quantity: 1}},
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, f.stock(t, f.boots.ID))
}

func TestStore_IdempotencyKeyReplaysOrder(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	cmd := ports.PlaceOrderCommand{
		UserID:         f.alice.ID,
		Caller:         f.caller(),
		Lines:          []domain.Line{{ProductID: f.boots.ID, Quantity: 1}},
		IdempotencyKey: fmt.Sprintf("key-%s", uuid.NewString()),
	}

	first, err := f.svc.PlaceOrder(ctx, cmd)
	require.NoError(t, err)
	second, err := f.svc.PlaceOrder(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, f.stock(t, f.boots.ID))

	cmd.Lines = []domain.Line{{ProductID: f.boots.ID, Quantity: 2}}
	_, err = f.svc.PlaceOrder(ctx, cmd)
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestStore_ConcurrentSameKeyPlacesOnce(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	// No fast-path store: every request reaches the in-transaction claim.
	svc := orderapp.NewService(f.store, f.store)
	cmd := ports.PlaceOrderCommand{
		UserID:         f.alice.ID,
		Caller:         f.caller(),
		Lines:          []domain.Line{{ProductID: f.boots.ID, Quantity: 1}},
		IdempotencyKey: "checkout-concurrent",
	}

	const attempts = 6
	ids := make([]uuid.UUID, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order, err := svc.PlaceOrder(ctx, cmd)
			if assert.NoError(t, err) {
				ids[i] = order.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 4, f.stock(t, f.boots.ID))
	owner := f.alice.ID
	_, total, err := f.store.List(ctx, ports.ListFilter{UserID: &owner, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestStore_FailedPlacementReleasesKey(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	cmd := ports.PlaceOrderCommand{
		UserID:         f.alice.ID,
		Caller:         f.caller(),
		Lines:          []domain.Line{{ProductID: f.hat.ID, Quantity: 2}},
		IdempotencyKey: "checkout-retry",
	}

	_, err := f.svc.PlaceOrder(ctx, cmd)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var keys int64
	require.NoError(t, f.db.Table("order_idempotency_keys").Count(&keys).Error)
	assert.Zero(t, keys)

	cmd.Lines = []domain.Line{{ProductID: f.hat.ID, Quantity: 1}}
	order, err := f.svc.PlaceOrder(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, f.hat.ID))

	record, err := orderpostgres.NewIdempotencyStore(f.db).Get(ctx, ports.ScopedIdempotencyKey(f.alice.ID, "checkout-retry"))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, order.ID, record.OrderID)
}

func TestStore_DeleteRemovesOrderAndDetails(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	order, err := f.svc.PlaceOrder(ctx, ports.PlaceOrderCommand{
		UserID: f.alice.ID,
		Caller: f.caller(),
		Lines:  []domain.Line{{ProductID: f.hat.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	deleted, err := f.svc.Delete(ctx, order.ID, f.caller())
	require.NoError(t, err)
	assert.Equal(t, order.ID, deleted)

	_, err = f.store.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	var details int64
	require.NoError(t, f.db.Table("order_details").Where("order_id = ?", order.ID).Count(&details).Error)
	assert.Zero(t, details)
}
