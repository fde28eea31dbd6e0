package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
)

// UserReader resolves the order owner inside a transaction.
type UserReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

// ProductStore reads and decrements catalog stock inside a transaction.
type ProductStore interface {
	// FindByIDsForUpdate loads the products with ids in one query, locking
	// the rows in id order. Missing ids are omitted from the result.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
}

// OrderStore writes orders and their details inside a transaction.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateDetails(ctx context.Context, orderID uuid.UUID, details []domain.Detail) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	DeleteDetails(ctx context.Context, orderID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Tx is the explicit handle to one open transaction.
type Tx interface {
	Users() UserReader
	Products() ProductStore
	Orders() OrderStore
	Idempotency() IdempotencyClaims
}

// UnitOfWork runs fn in a transaction: commit when fn returns nil, roll back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// ListFilter restricts List to one owner when UserID is set.
type ListFilter struct {
	UserID *uuid.UUID
	Offset int
	Limit  int
}

// Repository serves order reads that need no transaction.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, int64, error)
}
