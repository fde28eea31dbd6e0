package migrations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context. Adapters never migrate on their own.
// Tables are listed parents first so foreign keys resolve.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&categoryRecord{},
		&productRecord{},
		&orderRecord{},
		&orderDetailRecord{},
		&orderIdempotencyRecord{},
		&revokedTokenRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
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
	CreatedAt    time.Time `gorm:"column:created_at;index"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

type categoryRecord struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Name string    `gorm:"column:name;size:50;uniqueIndex;not null"`
}

func (categoryRecord) TableName() string { return "categories" }

type productRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	Name        string          `gorm:"column:name;size:50;uniqueIndex;not null"`
	Description string          `gorm:"column:description;size:255;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null;check:stock >= 0"`
	ImgURL      string          `gorm:"column:img_url;type:text;default:'No image'"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;column:category_id;index;not null"`
	Category    categoryRecord  `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (productRecord) TableName() string { return "products" }

type orderRecord struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	Date   time.Time       `gorm:"column:date;index;not null"`
	Total  decimal.Decimal `gorm:"column:total;type:decimal(10,2);not null"`
	UserID uuid.UUID       `gorm:"type:uuid;column:user_id;index;not null"`
	User   userRecord      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (orderRecord) TableName() string { return "orders" }

type orderDetailRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	Quantity  int             `gorm:"column:quantity;not null;check:quantity > 0"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2);not null"`
	OrderID   uuid.UUID       `gorm:"type:uuid;column:order_id;index;not null"`
	Order     orderRecord     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ProductID uuid.UUID       `gorm:"type:uuid;column:product_id;index;not null"`
	Product   productRecord   `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (orderDetailRecord) TableName() string { return "order_details" }

// Order idempotency schema mirrors the orders idempotency store.
type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     uuid.UUID `gorm:"type:uuid;column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Revoked token schema mirrors the auth revocation store.
type revokedTokenRecord struct {
	TokenID   string    `gorm:"primaryKey;column:token_id;size:64"`
	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (revokedTokenRecord) TableName() string { return "revoked_tokens" }
