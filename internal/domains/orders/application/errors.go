package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
)

// MissingProductsError lists every requested product id that does not exist.
type MissingProductsError struct {
	IDs []uuid.UUID
}

func (e *MissingProductsError) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("products not found: %s", strings.Join(ids, ", "))
}

func (e *MissingProductsError) Is(target error) bool {
	return target == ports.ErrProductNotFound
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyOrder) ||
		errors.Is(err, domain.ErrMissingUser) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrMissingProduct) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
