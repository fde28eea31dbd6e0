package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
)

var (
	ErrNotFound = errors.New("product not found")
	ErrConflict = errors.New("product with this name already exists")
	// ErrInUse blocks deleting a product that order details still reference.
	ErrInUse = errors.New("product is referenced by existing orders")
)

type Repository interface {
	List(ctx context.Context, offset, limit int) ([]*domain.Product, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// Upsert inserts or overwrites the product with the same name.
	Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderLookup tells whether any order line references a product.
type OrderLookup interface {
	ProductHasOrderLines(ctx context.Context, productID uuid.UUID) (bool, error)
}
