package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

// Service exposes account use cases.
type Service struct {
	repo   ports.Repository
	orders ports.OrderLookup
}

type Option func(*Service)

// WithOrderLookup enables the "user still has orders" guard on Delete.
func WithOrderLookup(lookup ports.OrderLookup) Option {
	return func(s *Service) {
		s.orders = lookup
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) List(ctx context.Context, page pagination.Page) ([]*domain.User, error) {
	users, _, err := s.repo.List(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input ports.UpdateInput, caller authdomain.Principal) (uuid.UUID, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if err := authdomain.Authorize(caller, existing.ID); err != nil {
		return uuid.Nil, fmt.Errorf("%w: you cannot update another user", err)
	}
	if input.IsAdmin != nil && *input.IsAdmin != existing.IsAdmin && !caller.IsAdmin() {
		return uuid.Nil, fmt.Errorf("%w: you cannot change your admin status", authdomain.ErrUnauthorized)
	}

	profile := existing.Profile()
	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Email != nil {
		profile.Email = *input.Email
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.Country != nil {
		profile.Country = *input.Country
	}
	if input.City != nil {
		profile.City = *input.City
	}
	if input.Address != nil {
		profile.Address = *input.Address
	}

	updated := *existing
	if err := updated.ApplyProfile(profile); err != nil {
		return uuid.Nil, mapError(err)
	}
	if input.IsAdmin != nil && caller.IsAdmin() {
		updated.IsAdmin = *input.IsAdmin
	}
	if updated.Email != existing.Email || updated.Phone != existing.Phone {
		taken, err := s.repo.ExistsByEmailOrPhone(ctx, updated.Email, updated.Phone, updated.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if taken {
			return uuid.Nil, ports.ErrConflict
		}
	}
	if _, err := s.repo.Save(ctx, &updated); err != nil {
		return uuid.Nil, err
	}
	return updated.ID, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, caller authdomain.Principal) (uuid.UUID, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if err := authdomain.Authorize(caller, existing.ID); err != nil {
		return uuid.Nil, fmt.Errorf("%w: you cannot delete another user", err)
	}
	if s.orders != nil {
		hasOrders, err := s.orders.UserHasOrders(ctx, existing.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if hasOrders {
			return uuid.Nil, ports.ErrHasOrders
		}
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		return uuid.Nil, err
	}
	return existing.ID, nil
}

var _ ports.Service = (*Service)(nil)
