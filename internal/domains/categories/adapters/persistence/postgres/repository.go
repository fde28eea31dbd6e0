package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists categories in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type categoryRecord struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Name string    `gorm:"column:name;size:50;uniqueIndex;not null"`
}

func (categoryRecord) TableName() string { return "categories" }

func (r *Repository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category is nil")
	}
	record := categoryRecord{ID: category.ID, Name: category.Name}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrConflict
		}
		return nil, err
	}
	return &domain.Category{ID: record.ID, Name: record.Name}, nil
}

func (r *Repository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record categoryRecord
	err := r.db.WithContext(ctx).First(&record, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &domain.Category{ID: record.ID, Name: record.Name}, nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]*domain.Category, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&categoryRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("name").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	categories := make([]*domain.Category, 0, len(records))
	for _, rec := range records {
		categories = append(categories, &domain.Category{ID: rec.ID, Name: rec.Name})
	}
	return categories, total, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres category repository not configured")
	}
	return nil
}
