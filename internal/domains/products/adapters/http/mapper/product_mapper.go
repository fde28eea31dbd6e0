package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/products/domain"
)

// Category is the category as embedded in product responses.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImgURL      string          `json:"imgUrl"`
	Category    Category        `json:"category"`
}

func FromDomainProduct(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImgURL:      p.ImgURL,
		Category: Category{
			ID:   p.Category.ID.String(),
			Name: p.Category.Name,
		},
	}
}

func FromDomainProducts(products []*domain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromDomainProduct(p))
	}
	return out
}
