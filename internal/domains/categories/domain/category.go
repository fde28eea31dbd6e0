package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrInvalidName = errors.New("category name must be between 1 and 50 characters")

type Category struct {
	ID   uuid.UUID
	Name string
}

// NewCategory trims the name and assigns a fresh identifier.
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > 50 {
		return nil, ErrInvalidName
	}
	return &Category{ID: uuid.New(), Name: name}, nil
}
