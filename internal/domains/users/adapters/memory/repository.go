package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory account store.
type Repository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
	now   func() time.Time
}

func NewRepository() *Repository {
	return &Repository{users: map[uuid.UUID]*domain.User{}, now: time.Now}
}

func (r *Repository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.takenLocked(user.Email, user.Phone, user.ID) {
		return nil, ports.ErrConflict
	}
	clone := *user
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = r.now().UTC()
	}
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	if r.takenLocked(user.Email, user.Phone, user.ID) {
		return nil, ports.ErrConflict
	}
	clone := *user
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) ExistsByEmailOrPhone(_ context.Context, email string, phone int64, exclude uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.takenLocked(email, phone, exclude), nil
}

func (r *Repository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// List orders users by creation time so pages are stable.
func (r *Repository) List(_ context.Context, offset, limit int) ([]*domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return pagination.Window(all, offset, limit), int64(len(all)), nil
}

func (r *Repository) takenLocked(email string, phone int64, exclude uuid.UUID) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for id, user := range r.users {
		if id == exclude {
			continue
		}
		if user.Email == email || (phone != 0 && user.Phone == phone) {
			return true
		}
	}
	return false
}
