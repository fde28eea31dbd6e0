package ports

import (
	"context"

	"github.com/google/uuid"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

// UpdateInput carries a partial profile change; nil fields are left untouched.
type UpdateInput struct {
	Name    *string
	Email   *string
	Phone   *int64
	Country *string
	City    *string
	Address *string
	IsAdmin *bool
}

// Service exposes account use cases to adapters.
type Service interface {
	List(ctx context.Context, page pagination.Page) ([]*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput, caller authdomain.Principal) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID, caller authdomain.Principal) (uuid.UUID, error)
}
