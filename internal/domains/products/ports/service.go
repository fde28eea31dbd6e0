package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

// CreateInput names the category rather than referencing it by id.
type CreateInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImgURL      string
	Category    string
}

// UpdateInput carries a partial change; nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImgURL      *string
	Category    *string
}

type Service interface {
	List(ctx context.Context, page pagination.Page) ([]*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, input CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	SetImageURL(ctx context.Context, id uuid.UUID, url string) (*domain.Product, error)
}

// CacheInvalidator drops cached product reads after writes made outside the products service.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, ids ...uuid.UUID)
}
