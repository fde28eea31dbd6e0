package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
)

var (
	ErrNotFound = errors.New("category not found")
	ErrConflict = errors.New("this category already exists")
)

type Repository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Category, int64, error)
}
