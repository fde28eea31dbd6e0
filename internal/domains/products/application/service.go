package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	categoryports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid product input")

type Service struct {
	repo       ports.Repository
	categories categoryports.Repository
	orders     ports.OrderLookup
}

type Option func(*Service)

// WithOrderLookup enables the "referenced by orders" guard on Delete.
func WithOrderLookup(lookup ports.OrderLookup) Option {
	return func(s *Service) {
		s.orders = lookup
	}
}

func NewService(repo ports.Repository, categories categoryports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, categories: categories}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) List(ctx context.Context, page pagination.Page) ([]*domain.Product, error) {
	products, _, err := s.repo.List(ctx, page.Offset(), page.Limit)
	return products, err
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input ports.CreateInput) (*domain.Product, error) {
	if _, err := s.repo.GetByName(ctx, input.Name); err == nil {
		return nil, ports.ErrConflict
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	category, err := s.categories.GetByName(ctx, input.Category)
	if err != nil {
		if errors.Is(err, categoryports.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s not found", categoryports.ErrNotFound, strings.TrimSpace(input.Category))
		}
		return nil, err
	}
	product, err := domain.NewProduct(domain.Attributes{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImgURL:      input.ImgURL,
	}, *category)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input ports.UpdateInput) (uuid.UUID, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	attrs := existing.Attributes()
	if input.Name != nil {
		attrs.Name = *input.Name
	}
	if input.Description != nil {
		attrs.Description = *input.Description
	}
	if input.Price != nil {
		attrs.Price = *input.Price
	}
	if input.Stock != nil {
		attrs.Stock = *input.Stock
	}
	if input.ImgURL != nil {
		attrs.ImgURL = *input.ImgURL
	}
	updated := *existing
	if err := updated.Apply(attrs); err != nil {
		return uuid.Nil, mapError(err)
	}
	if input.Category != nil {
		category, err := s.categories.GetByName(ctx, *input.Category)
		if err != nil {
			if errors.Is(err, categoryports.ErrNotFound) {
				return uuid.Nil, fmt.Errorf("%w: category %s not found", categoryports.ErrNotFound, strings.TrimSpace(*input.Category))
			}
			return uuid.Nil, err
		}
		if err := updated.SetCategory(*category); err != nil {
			return uuid.Nil, mapError(err)
		}
	}
	if !strings.EqualFold(updated.Name, existing.Name) {
		if other, err := s.repo.GetByName(ctx, updated.Name); err == nil && other.ID != existing.ID {
			return uuid.Nil, ports.ErrConflict
		} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
			return uuid.Nil, err
		}
	}
	if _, err := s.repo.Save(ctx, &updated); err != nil {
		return uuid.Nil, err
	}
	return updated.ID, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return uuid.Nil, err
	}
	if s.orders != nil {
		referenced, err := s.orders.ProductHasOrderLines(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		if referenced {
			return uuid.Nil, ports.ErrInUse
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *Service) SetImageURL(ctx context.Context, id uuid.UUID, url string) (*domain.Product, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: image url is required", ErrInvalidInput)
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.ImgURL = url
	return s.repo.Save(ctx, existing)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidName) ||
		errors.Is(err, domain.ErrInvalidDescription) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidStock) ||
		errors.Is(err, domain.ErrMissingCategory) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
