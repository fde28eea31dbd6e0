// Package cache adds a read-through cache in front of product lookups.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	categorydomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	platformcache "github.com/Apurer/go-gin-ecommerce-api/internal/platform/cache"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

const DefaultTTL = 5 * time.Minute

const keyOperation = "product"

var (
	_ ports.Service          = (*Service)(nil)
	_ ports.CacheInvalidator = (*Service)(nil)
)

// Service caches GetByID and evicts on every write it sees.
// Cache failures are logged and fall through to the inner service.
type Service struct {
	inner  ports.Service
	cache  platformcache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func New(inner ports.Service, cache platformcache.Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if cache == nil {
		cache = platformcache.Noop{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

type cachedProduct struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ImgURL       string          `json:"imgUrl"`
	CategoryID   uuid.UUID       `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
}

func (s *Service) List(ctx context.Context, page pagination.Page) ([]*domain.Product, error) {
	return s.inner.List(ctx, page)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	key := s.key(id)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.warn(ctx, "product cache read failed", err, id)
	} else if raw != "" {
		var cached cachedProduct
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached.toDomain(), nil
		}
	}

	product, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(fromDomain(product))
	if err == nil {
		err = s.cache.Set(ctx, key, payload, s.ttl)
	}
	if err != nil {
		s.warn(ctx, "product cache write failed", err, id)
	}
	return product, nil
}

func (s *Service) Create(ctx context.Context, input ports.CreateInput) (*domain.Product, error) {
	return s.inner.Create(ctx, input)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input ports.UpdateInput) (uuid.UUID, error) {
	result, err := s.inner.Update(ctx, id, input)
	s.Invalidate(ctx, id)
	return result, err
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	result, err := s.inner.Delete(ctx, id)
	s.Invalidate(ctx, id)
	return result, err
}

func (s *Service) SetImageURL(ctx context.Context, id uuid.UUID, url string) (*domain.Product, error) {
	result, err := s.inner.SetImageURL(ctx, id, url)
	s.Invalidate(ctx, id)
	return result, err
}

// Invalidate evicts cached reads for ids.
func (s *Service) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil && s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "product cache eviction failed",
			slog.Int("keys", len(keys)), slog.String("error", err.Error()))
	}
}

func (s *Service) key(id uuid.UUID) string {
	return s.cache.GenerateKey(keyOperation, id.String())
}

func (s *Service) warn(ctx context.Context, msg string, err error, id uuid.UUID) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, slog.String("product.id", id.String()), slog.String("error", err.Error()))
}

func fromDomain(p *domain.Product) cachedProduct {
	return cachedProduct{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		ImgURL:       p.ImgURL,
		CategoryID:   p.Category.ID,
		CategoryName: p.Category.Name,
	}
}

func (c cachedProduct) toDomain() *domain.Product {
	return &domain.Product{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		Stock:       c.Stock,
		ImgURL:      c.ImgURL,
		Category:    categorydomain.Category{ID: c.CategoryID, Name: c.CategoryName},
	}
}
