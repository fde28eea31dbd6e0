package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid user input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrInvalidPhone) ||
		errors.Is(err, domain.ErrInvalidCountry) ||
		errors.Is(err, domain.ErrInvalidCity) ||
		errors.Is(err, domain.ErrInvalidAddress) ||
		errors.Is(err, domain.ErrEmptyPassword) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
