package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists accounts in PostgreSQL using GORM. Schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type userRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Name         string    `gorm:"column:name;size:80;not null"`
	Email        string    `gorm:"column:email;size:50;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password;size:128;not null"`
	Phone        int64     `gorm:"column:phone;uniqueIndex;not null"`
	Country      string    `gorm:"column:country;size:20"`
	City         string    `gorm:"column:city;size:20"`
	Address      string    `gorm:"column:address;size:80"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Create inserts a new account; unique violations surface as ports.ErrConflict.
func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	record := toRecord(user)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

// Save updates every mutable column of an existing account.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	record := toRecord(user)
	result := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"name":       record.Name,
		"email":      record.Email,
		"password":   record.PasswordHash,
		"phone":      record.Phone,
		"country":    record.Country,
		"city":       record.City,
		"address":    record.Address,
		"is_admin":   record.IsAdmin,
		"updated_at": gorm.Expr("NOW()"),
	})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).First(&record, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

func (r *Repository) ExistsByEmailOrPhone(ctx context.Context, email string, phone int64, exclude uuid.UUID) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("(email = ? OR phone = ?) AND id <> ?", strings.ToLower(strings.TrimSpace(email)), phone, exclude).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes an account; a foreign key violation means orders still reference it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&userRecord{}, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return ports.ErrHasOrders
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []userRecord
	if err := r.db.WithContext(ctx).Order("created_at, id").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, total, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ports.ErrConflict
	default:
		return err
	}
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Phone:        user.Phone,
		Country:      user.Country,
		City:         user.City,
		Address:      user.Address,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Phone:        r.Phone,
		Country:      r.Country,
		City:         r.City,
		Address:      r.Address,
		IsAdmin:      r.IsAdmin,
		CreatedAt:    r.CreatedAt,
	}
}
