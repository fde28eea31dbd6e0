package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	categorymemory "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/adapters/memory"
	categorydomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
	categoryports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/memory"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

type fakeOrderLookup struct {
	referenced map[uuid.UUID]bool
}

func (f fakeOrderLookup) ProductHasOrderLines(_ context.Context, id uuid.UUID) (bool, error) {
	return f.referenced[id], nil
}

func newTestService(t *testing.T, opts ...Option) (*Service, *memory.Repository) {
	t.Helper()
	categories := categorymemory.NewRepository()
	for _, name := range []string{"Shoes", "Shirts"} {
		c, err := categorydomain.NewCategory(name)
		require.NoError(t, err)
		_, err = categories.Create(context.Background(), c)
		require.NoError(t, err)
	}
	repo := memory.NewRepository()
	return NewService(repo, categories, opts...), repo
}

func validCreate() ports.CreateInput {
	return ports.CreateInput{
		Name:        "Air Runner",
		Description: "Lightweight running shoe",
		Price:       decimal.RequireFromString("9.99"),
		Stock:       10,
		Category:    "shoes",
	}
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)

	product, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	require.Equal(t, "Shoes", product.Category.Name)
	require.Equal(t, domain.DefaultImageURL, product.ImgURL)

	_, err = svc.Create(context.Background(), validCreate())
	require.ErrorIs(t, err, ports.ErrConflict)
}

func TestCreate_UnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)
	input := validCreate()
	input.Category = "Hats"

	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, categoryports.ErrNotFound)
}

func TestCreate_InvalidPrice(t *testing.T) {
	svc, _ := newTestService(t)
	input := validCreate()
	input.Price = decimal.RequireFromString("9.999")

	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestUpdate_PartialAndCategory(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	product, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	stock := 3
	category := "Shirts"
	id, err := svc.Update(ctx, product.ID, ports.UpdateInput{Stock: &stock, Category: &category})
	require.NoError(t, err)
	require.Equal(t, product.ID, id)

	stored, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 3, stored.Stock)
	require.Equal(t, "Shirts", stored.Category.Name)
	require.Equal(t, "Air Runner", stored.Name)
}

func TestUpdate_NameTaken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)
	other := validCreate()
	other.Name = "Trail Runner"
	second, err := svc.Create(ctx, other)
	require.NoError(t, err)

	name := "air runner"
	_, err = svc.Update(ctx, second.ID, ports.UpdateInput{Name: &name})
	require.ErrorIs(t, err, ports.ErrConflict)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	lookup := fakeOrderLookup{referenced: map[uuid.UUID]bool{}}
	svc, _ := newTestService(t, WithOrderLookup(lookup))
	product, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	lookup.referenced[product.ID] = true
	_, err = svc.Delete(ctx, product.ID)
	require.ErrorIs(t, err, ports.ErrInUse)

	lookup.referenced[product.ID] = false
	id, err := svc.Delete(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, product.ID, id)

	_, err = svc.GetByID(ctx, product.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSetImageURL(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	product, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	_, err = svc.SetImageURL(ctx, product.ID, " ")
	require.ErrorIs(t, err, ErrInvalidInput)

	updated, err := svc.SetImageURL(ctx, product.ID, "https://cdn.example.com/air.png")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/air.png", updated.ImgURL)
}

func TestList_EmptyPage(t *testing.T) {
	svc, _ := newTestService(t)
	page, err := pagination.New(3, 5)
	require.NoError(t, err)
	products, err := svc.List(context.Background(), page)
	require.NoError(t, err)
	require.Empty(t, products)
}
