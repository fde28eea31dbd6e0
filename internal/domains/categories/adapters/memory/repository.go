package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory category store keyed by lowercase name.
type Repository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category
}

func NewRepository() *Repository {
	return &Repository{categories: map[string]*domain.Category{}}
}

func (r *Repository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	key := strings.ToLower(category.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[key]; ok {
		return nil, ports.ErrConflict
	}
	clone := *category
	r.categories[key] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByName(_ context.Context, name string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.categories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *Repository) List(_ context.Context, offset, limit int) ([]*domain.Category, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		clone := *category
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return pagination.Window(all, offset, limit), int64(len(all)), nil
}
