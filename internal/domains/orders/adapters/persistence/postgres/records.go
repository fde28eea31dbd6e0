package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
)

// ownerRecord reads the columns of users an order needs.
type ownerRecord struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Name  string    `gorm:"column:name"`
	Email string    `gorm:"column:email"`
}

func (ownerRecord) TableName() string { return "users" }

// stockRecord reads and updates the columns of products an order line needs.
type stockRecord struct {
	ID    uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	Name  string          `gorm:"column:name"`
	Price decimal.Decimal `gorm:"type:decimal(10,2);column:price"`
	Stock int             `gorm:"column:stock"`
}

func (stockRecord) TableName() string { return "products" }

type orderRecord struct {
	ID      uuid.UUID           `gorm:"type:uuid;primaryKey;column:id"`
	Date    time.Time           `gorm:"column:date;index"`
	Total   decimal.Decimal     `gorm:"type:decimal(10,2);column:total"`
	UserID  uuid.UUID           `gorm:"type:uuid;column:user_id;index"`
	User    ownerRecord         `gorm:"foreignKey:UserID"`
	Details []orderDetailRecord `gorm:"foreignKey:OrderID"`
}

func (orderRecord) TableName() string { return "orders" }

type orderDetailRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	Quantity  int             `gorm:"column:quantity"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);column:subtotal"`
	OrderID   uuid.UUID       `gorm:"type:uuid;column:order_id;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;column:product_id;index"`
	Product   stockRecord     `gorm:"foreignKey:ProductID"`
}

func (orderDetailRecord) TableName() string { return "order_details" }

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:     order.ID,
		Date:   order.Date,
		Total:  order.Total,
		UserID: order.Customer.ID,
	}
}

func toDetailRecords(orderID uuid.UUID, details []domain.Detail) []orderDetailRecord {
	records := make([]orderDetailRecord, 0, len(details))
	for _, d := range details {
		records = append(records, orderDetailRecord{
			ID:        d.ID,
			Quantity:  d.Quantity,
			Subtotal:  d.Subtotal,
			OrderID:   orderID,
			ProductID: d.Product.ID,
		})
	}
	return records
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:       r.ID,
		Date:     r.Date,
		Total:    r.Total,
		Customer: domain.Customer{ID: r.UserID, Name: r.User.Name, Email: r.User.Email},
	}
	if len(r.Details) > 0 {
		order.Details = make([]domain.Detail, 0, len(r.Details))
		for _, d := range r.Details {
			order.Details = append(order.Details, domain.Detail{
				ID:       d.ID,
				Quantity: d.Quantity,
				Subtotal: d.Subtotal,
				Product:  d.Product.toDomain(),
			})
		}
	}
	return order
}

func (r stockRecord) toDomain() domain.Product {
	return domain.Product{ID: r.ID, Name: r.Name, Price: r.Price, Stock: r.Stock}
}
