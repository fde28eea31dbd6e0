package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrConflict reports an email or phone number already held by another account.
	ErrConflict = errors.New("user with this email or phone number already exists")
	// ErrHasOrders blocks deleting an account that still owns orders.
	ErrHasOrders = errors.New("user still has orders")
)

type Repository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ExistsByEmailOrPhone ignores the account identified by exclude.
	ExistsByEmailOrPhone(ctx context.Context, email string, phone int64, exclude uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error)
}

// OrderLookup tells whether a user still owns orders.
type OrderLookup interface {
	UserHasOrders(ctx context.Context, userID uuid.UUID) (bool, error)
}
