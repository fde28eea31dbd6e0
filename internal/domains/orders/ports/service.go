package ports

import (
	"context"

	"github.com/google/uuid"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

// PlaceOrderCommand asks to place an order for UserID on behalf of Caller.
type PlaceOrderCommand struct {
	UserID         uuid.UUID
	Lines          []domain.Line
	Caller         authdomain.Principal
	IdempotencyKey string
}

type Service interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindAll(ctx context.Context, caller authdomain.Principal, page pagination.Page) ([]*domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID, caller authdomain.Principal) (uuid.UUID, error)
}

// WorkflowOrchestrator runs order placement, durably or inline.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
}
