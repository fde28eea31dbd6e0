package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog. Snapshot and ApplyStock back the
// orders in-memory unit of work.
type Repository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
}

func NewRepository() *Repository {
	return &Repository{products: map[uuid.UUID]*domain.Product{}}
}

func (r *Repository) List(_ context.Context, offset, limit int) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		clone := *p
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return pagination.Window(all, offset, limit), int64(len(all)), nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *Repository) GetByName(_ context.Context, name string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p := r.byNameLocked(name); p != nil {
		clone := *p
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byNameLocked(product.Name) != nil {
		return nil, ports.ErrConflict
	}
	clone := *product
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	if other := r.byNameLocked(product.Name); other != nil && other.ID != product.ID {
		return nil, ports.ErrConflict
	}
	clone := *product
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Upsert(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *product
	if existing := r.byNameLocked(product.Name); existing != nil {
		clone.ID = existing.ID
	} else if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// Snapshot returns copies of the products with ids; missing ids are skipped.
func (r *Repository) Snapshot(ids []uuid.UUID) map[uuid.UUID]domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out[id] = *p
		}
	}
	return out
}

// ApplyStock overwrites stock levels for existing products.
func (r *Repository) ApplyStock(levels map[uuid.UUID]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, stock := range levels {
		if p, ok := r.products[id]; ok {
			p.Stock = stock
		}
	}
}

func (r *Repository) byNameLocked(name string) *domain.Product {
	name = strings.TrimSpace(name)
	for _, p := range r.products {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}
