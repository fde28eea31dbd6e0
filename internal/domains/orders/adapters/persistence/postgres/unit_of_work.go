package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
	productports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
	userports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
)

var (
	_ ports.UnitOfWork         = (*Store)(nil)
	_ ports.Repository         = (*Store)(nil)
	_ userports.OrderLookup    = (*Store)(nil)
	_ productports.OrderLookup = (*Store)(nil)
)

// Store persists orders in PostgreSQL using GORM. Caller manages DB lifecycle.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Do runs fn inside a database transaction.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(ctx, &gormTx{db: db})
	})
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return findOrder(s.db.WithContext(ctx), id)
}

// List returns a page of orders, newest first, with the owner preloaded.
func (s *Store) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, int64, error) {
	if err := s.ensureDB(); err != nil {
		return nil, 0, err
	}
	db := s.db.WithContext(ctx)
	scoped := func() *gorm.DB {
		query := db.Model(&orderRecord{})
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		return query
	}
	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []orderRecord
	if err := scoped().Preload("User").
		Order("date DESC").Order("id").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, total, nil
}

func (s *Store) UserHasOrders(ctx context.Context, userID uuid.UUID) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&orderRecord{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ProductHasOrderLines(ctx context.Context, productID uuid.UUID) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&orderDetailRecord{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres order store not configured")
	}
	return nil
}

type gormTx struct {
	db *gorm.DB
}

func (tx *gormTx) Users() ports.UserReader              { return txUsers{tx.db} }
func (tx *gormTx) Products() ports.ProductStore         { return txProducts{tx.db} }
func (tx *gormTx) Orders() ports.OrderStore             { return txOrders{tx.db} }
func (tx *gormTx) Idempotency() ports.IdempotencyClaims { return txClaims{tx.db} }

type txUsers struct{ db *gorm.DB }

func (u txUsers) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var record ownerRecord
	if err := u.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrUserNotFound
		}
		return nil, err
	}
	return &domain.Customer{ID: record.ID, Name: record.Name, Email: record.Email}, nil
}

type txProducts struct{ db *gorm.DB }

// FindByIDsForUpdate issues SELECT ... FOR UPDATE ordered by id so concurrent
// placements lock overlapping rows in the same order.
func (p txProducts) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []stockRecord
	if err := p.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		products = append(products, r.toDomain())
	}
	return products, nil
}

func (p txProducts) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	result := p.db.WithContext(ctx).Model(&stockRecord{}).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

type txOrders struct{ db *gorm.DB }

func (o txOrders) Create(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record := toOrderRecord(order)
	return o.db.WithContext(ctx).Omit(clause.Associations).Create(&record).Error
}

func (o txOrders) CreateDetails(ctx context.Context, orderID uuid.UUID, details []domain.Detail) error {
	if len(details) == 0 {
		return nil
	}
	records := toDetailRecords(orderID, details)
	return o.db.WithContext(ctx).Omit(clause.Associations).Create(&records).Error
}

func (o txOrders) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return findOrder(o.db.WithContext(ctx), id)
}

func (o txOrders) DeleteDetails(ctx context.Context, orderID uuid.UUID) error {
	return o.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&orderDetailRecord{}).Error
}

func (o txOrders) Delete(ctx context.Context, id uuid.UUID) error {
	result := o.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func findOrder(db *gorm.DB, id uuid.UUID) (*domain.Order, error) {
	var record orderRecord
	if err := db.Preload("User").Preload("Details.Product").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}
