package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	productmemory "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/adapters/memory"
	productports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	userports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

var (
	_ ports.UnitOfWork         = (*Store)(nil)
	_ ports.Repository         = (*Store)(nil)
	_ userports.OrderLookup    = (*Store)(nil)
	_ productports.OrderLookup = (*Store)(nil)
)

// Store keeps orders in memory and runs units of work one at a time.
// Stock changes, order writes and idempotency claims are buffered per unit and
// applied on commit.
type Store struct {
	mu       sync.Mutex
	users    userports.Repository
	products *productmemory.Repository
	orders   map[uuid.UUID]*domain.Order
	keys     *IdempotencyStore
}

func NewStore(users userports.Repository, products *productmemory.Repository) *Store {
	return &Store{
		users:    users,
		products: products,
		orders:   map[uuid.UUID]*domain.Order{},
		keys:     NewIdempotencyStore(),
	}
}

// IdempotencyKeys exposes the committed keys for replays that skip the unit of work.
func (s *Store) IdempotencyKeys() *IdempotencyStore {
	return s.keys
}

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		store:   s,
		stock:   map[uuid.UUID]int{},
		created: map[uuid.UUID]*domain.Order{},
		deleted: map[uuid.UUID]bool{},
		claims:  map[string]ports.IdempotencyRecord{},
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if len(tx.claims) > 0 {
		s.keys.commit(tx.claims)
	}
	if len(tx.stock) > 0 {
		s.products.ApplyStock(tx.stock)
	}
	for id := range tx.deleted {
		delete(s.orders, id)
	}
	for id, order := range tx.created {
		s.orders[id] = cloneOrder(order)
	}
	return nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

// List orders newest first; listed orders carry no details.
func (s *Store) List(_ context.Context, filter ports.ListFilter) ([]*domain.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.UserID != nil && o.Customer.ID != *filter.UserID {
			continue
		}
		clone := *o
		clone.Details = nil
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	return pagination.Window(all, filter.Offset, filter.Limit), int64(len(all)), nil
}

func (s *Store) UserHasOrders(_ context.Context, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.Customer.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ProductHasOrderLines(_ context.Context, productID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		for _, d := range o.Details {
			if d.Product.ID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

type memoryTx struct {
	store   *Store
	stock   map[uuid.UUID]int
	created map[uuid.UUID]*domain.Order
	deleted map[uuid.UUID]bool
	claims  map[string]ports.IdempotencyRecord
}

func (tx *memoryTx) Users() ports.UserReader              { return txUsers{tx} }
func (tx *memoryTx) Products() ports.ProductStore         { return txProducts{tx} }
func (tx *memoryTx) Orders() ports.OrderStore             { return txOrders{tx} }
func (tx *memoryTx) Idempotency() ports.IdempotencyClaims { return txClaims{tx} }

type txUsers struct{ tx *memoryTx }

func (u txUsers) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	user, err := u.tx.store.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userports.ErrNotFound) {
			return nil, ports.ErrUserNotFound
		}
		return nil, err
	}
	return &domain.Customer{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

type txProducts struct{ tx *memoryTx }

func (p txProducts) FindByIDsForUpdate(_ context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	snapshot := p.tx.store.products.Snapshot(ids)
	out := make([]domain.Product, 0, len(snapshot))
	for _, id := range ids {
		row, ok := snapshot[id]
		if !ok {
			continue
		}
		product := domain.Product{ID: row.ID, Name: row.Name, Price: row.Price, Stock: row.Stock}
		if stock, ok := p.tx.stock[id]; ok {
			product.Stock = stock
		}
		out = append(out, product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (p txProducts) UpdateStock(_ context.Context, id uuid.UUID, stock int) error {
	if len(p.tx.store.products.Snapshot([]uuid.UUID{id})) == 0 {
		return ports.ErrProductNotFound
	}
	p.tx.stock[id] = stock
	return nil
}

type txOrders struct{ tx *memoryTx }

func (o txOrders) Create(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	clone := *order
	clone.Details = nil
	o.tx.created[order.ID] = &clone
	return nil
}

func (o txOrders) CreateDetails(_ context.Context, orderID uuid.UUID, details []domain.Detail) error {
	order, ok := o.tx.created[orderID]
	if !ok {
		return ports.ErrNotFound
	}
	order.Details = append(order.Details, details...)
	return nil
}

func (o txOrders) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if o.tx.deleted[id] {
		return nil, ports.ErrNotFound
	}
	if order, ok := o.tx.created[id]; ok {
		return cloneOrder(order), nil
	}
	if order, ok := o.tx.store.orders[id]; ok {
		return cloneOrder(order), nil
	}
	return nil, ports.ErrNotFound
}

func (o txOrders) DeleteDetails(_ context.Context, orderID uuid.UUID) error {
	if order, ok := o.tx.created[orderID]; ok {
		order.Details = nil
	}
	return nil
}

func (o txOrders) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := o.FindByID(ctx, id); err != nil {
		return err
	}
	delete(o.tx.created, id)
	o.tx.deleted[id] = true
	return nil
}

type txClaims struct{ tx *memoryTx }

func (c txClaims) Claim(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, bool, error) {
	if pending, ok := c.tx.claims[record.Key]; ok {
		return &pending, false, nil
	}
	existing, err := c.tx.store.keys.Get(ctx, record.Key)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	stored := c.tx.store.keys.stamp(record)
	c.tx.claims[record.Key] = stored
	return &stored, true, nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Details = append([]domain.Detail(nil), o.Details...)
	return &clone
}
