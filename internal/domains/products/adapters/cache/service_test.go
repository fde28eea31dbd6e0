package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	categorydomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

type mapCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMapCache() *mapCache { return &mapCache{values: map[string]string{}} }

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.values[key] = string(v)
	case string:
		c.values[key] = v
	}
	return nil
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *mapCache) GenerateKey(operation, key string) string { return "test:" + operation + ":" + key }

type countingService struct {
	product *domain.Product
	gets    int
}

func (s *countingService) List(context.Context, pagination.Page) ([]*domain.Product, error) {
	return []*domain.Product{s.product}, nil
}

func (s *countingService) GetByID(context.Context, uuid.UUID) (*domain.Product, error) {
	s.gets++
	clone := *s.product
	return &clone, nil
}

func (s *countingService) Create(context.Context, ports.CreateInput) (*domain.Product, error) {
	return s.product, nil
}

func (s *countingService) Update(_ context.Context, id uuid.UUID, input ports.UpdateInput) (uuid.UUID, error) {
	if input.Stock != nil {
		s.product.Stock = *input.Stock
	}
	return id, nil
}

func (s *countingService) Delete(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	return id, nil
}

func (s *countingService) SetImageURL(context.Context, uuid.UUID, string) (*domain.Product, error) {
	return s.product, nil
}

func TestGetByID_ReadThrough(t *testing.T) {
	inner := &countingService{product: &domain.Product{
		ID:          uuid.New(),
		Name:        "Air Runner",
		Description: "Lightweight running shoe",
		Price:       decimal.RequireFromString("9.99"),
		Stock:       10,
		ImgURL:      domain.DefaultImageURL,
		Category:    categorydomain.Category{ID: uuid.New(), Name: "Shoes"},
	}}
	svc := New(inner, newMapCache(), time.Minute, nil)
	ctx := context.Background()

	first, err := svc.GetByID(ctx, inner.product.ID)
	require.NoError(t, err)
	second, err := svc.GetByID(ctx, inner.product.ID)
	require.NoError(t, err)
	require.Equal(t, 1, inner.gets)
	require.True(t, first.Price.Equal(second.Price))
	require.Equal(t, "Shoes", second.Category.Name)

	stock := 4
	_, err = svc.Update(ctx, inner.product.ID, ports.UpdateInput{Stock: &stock})
	require.NoError(t, err)

	third, err := svc.GetByID(ctx, inner.product.ID)
	require.NoError(t, err)
	require.Equal(t, 2, inner.gets)
	require.Equal(t, 4, third.Stock)
}

func TestInvalidate(t *testing.T) {
	inner := &countingService{product: &domain.Product{ID: uuid.New(), Name: "Air Runner"}}
	svc := New(inner, newMapCache(), 0, nil)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, inner.product.ID)
	require.NoError(t, err)
	svc.Invalidate(ctx, inner.product.ID)
	_, err = svc.GetByID(ctx, inner.product.ID)
	require.NoError(t, err)
	require.Equal(t, 2, inner.gets)
}
