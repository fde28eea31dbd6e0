package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	productports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

// Service implements order placement, retrieval, and deletion.
type Service struct {
	uow         ports.UnitOfWork
	repo        ports.Repository
	idempotency ports.IdempotencyStore
	cache       productports.CacheInvalidator
	now         func() time.Time
}

type Option func(*Service)

// WithIdempotencyStore lets PlaceOrder replay committed keys without opening a
// unit of work.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithCacheInvalidator evicts cached products whose stock an order changed.
func WithCacheInvalidator(inv productports.CacheInvalidator) Option {
	return func(s *Service) {
		s.cache = inv
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(uow ports.UnitOfWork, repo ports.Repository, opts ...Option) *Service {
	s := &Service{uow: uow, repo: repo, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates cmd, then decrements stock and writes the order and its
// details in one transaction. An idempotency key is claimed in that same
// transaction, before any stock is touched; a key already claimed with the
// same request replays the stored order.
func (s *Service) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*domain.Order, error) {
	if cmd.UserID == uuid.Nil {
		return nil, mapError(domain.ErrMissingUser)
	}
	if err := domain.ValidateNotEmpty(cmd.Lines); err != nil {
		return nil, mapError(err)
	}
	if err := authdomain.Authorize(cmd.Caller, cmd.UserID); err != nil {
		return nil, fmt.Errorf("%w: cannot create an order for another user", err)
	}
	if err := domain.ValidateLines(cmd.Lines); err != nil {
		return nil, mapError(err)
	}

	claim, err := s.idempotencyClaim(cmd)
	if err != nil {
		return nil, err
	}
	if claim != nil && s.idempotency != nil {
		existing, err := s.idempotency.Get(ctx, claim.Key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return s.replay(ctx, existing, claim.RequestHash)
		}
	}

	lines := domain.CoalesceLines(cmd.Lines)
	orderID := uuid.New()
	var placed *domain.Order
	var claimed *ports.IdempotencyRecord
	err = s.uow.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		if claim != nil {
			record := *claim
			record.OrderID = orderID
			stored, ok, err := tx.Idempotency().Claim(ctx, record)
			if err != nil {
				return err
			}
			if !ok {
				claimed = stored
				return nil
			}
		}

		customer, err := tx.Users().FindByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}

		ids := domain.ProductIDs(lines)
		rows, err := tx.Products().FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		products := make(map[uuid.UUID]domain.Product, len(rows))
		for _, p := range rows {
			products[p.ID] = p
		}
		if missing := missingIDs(ids, products); len(missing) > 0 {
			return &MissingProductsError{IDs: missing}
		}

		order, stock, err := domain.Place(orderID, *customer, lines, products, s.now().UTC())
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := tx.Products().UpdateStock(ctx, id, stock[id]); err != nil {
				return err
			}
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := tx.Orders().CreateDetails(ctx, order.ID, order.Details); err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	if claimed != nil {
		return s.replay(ctx, claimed, claim.RequestHash)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, domain.ProductIDs(lines)...)
	}
	return placed, nil
}

// idempotencyClaim returns nil when cmd carries no key.
func (s *Service) idempotencyClaim(cmd ports.PlaceOrderCommand) (*ports.IdempotencyRecord, error) {
	key := strings.TrimSpace(cmd.IdempotencyKey)
	if key == "" {
		return nil, nil
	}
	if len(key) > ports.MaxIdempotencyKeyLength {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, ports.ErrIdempotencyKeyTooLong)
	}
	fingerprint, err := FingerprintPlaceOrder(cmd)
	if err != nil {
		return nil, err
	}
	return &ports.IdempotencyRecord{
		Key:         ports.ScopedIdempotencyKey(cmd.Caller.UserID, key),
		RequestHash: fingerprint,
	}, nil
}

func (s *Service) replay(ctx context.Context, existing *ports.IdempotencyRecord, fingerprint string) (*domain.Order, error) {
	if existing.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	return s.repo.FindByID(ctx, existing.OrderID)
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// FindAll pages through every order for admins and through their own orders for users.
func (s *Service) FindAll(ctx context.Context, caller authdomain.Principal, page pagination.Page) ([]*domain.Order, error) {
	filter := ports.ListFilter{Offset: page.Offset(), Limit: page.Limit}
	if !caller.IsAdmin() {
		owner := caller.UserID
		filter.UserID = &owner
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := page.Check(total); err != nil {
		if errors.Is(err, pagination.ErrNoResults) {
			return nil, fmt.Errorf("%w: no orders found", ports.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return orders, nil
}

// Delete removes the order and its details in one transaction.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, caller authdomain.Principal) (uuid.UUID, error) {
	err := s.uow.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		order, err := tx.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := authdomain.Authorize(caller, order.Customer.ID); err != nil {
			return fmt.Errorf("%w: cannot delete an order of another user", err)
		}
		if err := tx.Orders().DeleteDetails(ctx, id); err != nil {
			return err
		}
		return tx.Orders().Delete(ctx, id)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func missingIDs(ids []uuid.UUID, found map[uuid.UUID]domain.Product) []uuid.UUID {
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

var _ ports.Service = (*Service)(nil)
