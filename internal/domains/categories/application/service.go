package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid category input")

type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, page pagination.Page) ([]*domain.Category, error) {
	categories, _, err := s.repo.List(ctx, page.Offset(), page.Limit)
	return categories, err
}

func (s *Service) Create(ctx context.Context, name string) (*domain.Category, error) {
	category, err := domain.NewCategory(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := s.repo.GetByName(ctx, category.Name); err == nil {
		return nil, ports.ErrConflict
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return s.repo.Create(ctx, category)
}

func (s *Service) Ensure(ctx context.Context, name string) (*domain.Category, error) {
	existing, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	created, err := s.Create(ctx, name)
	if errors.Is(err, ports.ErrConflict) {
		return s.repo.GetByName(ctx, name)
	}
	return created, err
}

var _ ports.Service = (*Service)(nil)
