package ports

import (
	"context"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

type Service interface {
	List(ctx context.Context, page pagination.Page) ([]*domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
	// Ensure returns the category with name, creating it when absent.
	Ensure(ctx context.Context, name string) (*domain.Category, error)
}
