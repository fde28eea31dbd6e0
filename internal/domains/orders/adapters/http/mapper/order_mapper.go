package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/domain"
)

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type Detail struct {
	ID       string          `json:"id"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Product  Product         `json:"product"`
}

type Order struct {
	ID      string          `json:"id"`
	Date    time.Time       `json:"date"`
	Total   decimal.Decimal `json:"total"`
	User    Customer        `json:"user"`
	Details []Detail        `json:"orderDetails,omitempty"`
}

func FromDomainOrder(o *domain.Order) Order {
	if o == nil {
		return Order{}
	}
	out := Order{
		ID:    o.ID.String(),
		Date:  o.Date,
		Total: o.Total,
		User: Customer{
			ID:    o.Customer.ID.String(),
			Name:  o.Customer.Name,
			Email: o.Customer.Email,
		},
	}
	if len(o.Details) > 0 {
		out.Details = make([]Detail, 0, len(o.Details))
		for _, d := range o.Details {
			out.Details = append(out.Details, Detail{
				ID:       d.ID.String(),
				Quantity: d.Quantity,
				Subtotal: d.Subtotal,
				Product: Product{
					ID:    d.Product.ID.String(),
					Name:  d.Product.Name,
					Price: d.Product.Price,
					Stock: d.Product.Stock,
				},
			})
		}
	}
	return out
}

func FromDomainOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomainOrder(o))
	}
	return out
}
