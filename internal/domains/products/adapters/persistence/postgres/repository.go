package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	categorydomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the catalog in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type categoryRecord struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Name string    `gorm:"column:name"`
}

func (categoryRecord) TableName() string { return "categories" }

type productRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	Name        string          `gorm:"column:name;size:50;uniqueIndex;not null"`
	Description string          `gorm:"column:description;size:255;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null"`
	ImgURL      string          `gorm:"column:img_url;type:text"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;column:category_id;index"`
	Category    categoryRecord  `gorm:"foreignKey:CategoryID"`
}

func (productRecord) TableName() string { return "products" }

func (r *Repository) List(ctx context.Context, offset, limit int) ([]*domain.Product, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Preload("Category").Order("name").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, total, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	return r.first(ctx, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Category").Create(&record).Error; err != nil {
		return nil, translate(err)
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"name":        record.Name,
		"description": record.Description,
		"price":       record.Price,
		"stock":       record.Stock,
		"img_url":     record.ImgURL,
		"category_id": record.CategoryID,
	})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Omit("Category").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "price", "stock", "img_url", "category_id"}),
		}).
		Create(&record).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.GetByName(ctx, record.Name)
}

// Delete removes a product; order details referencing it surface as ports.ErrInUse.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).Preload("Category").Where(query, args...).First(&record).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ports.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ports.ErrInUse
	default:
		return err
	}
}

func toRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImgURL:      p.ImgURL,
		CategoryID:  p.Category.ID,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		ImgURL:      r.ImgURL,
		Category:    categorydomain.Category{ID: r.Category.ID, Name: r.Category.Name},
	}
}
