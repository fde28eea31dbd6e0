package mapper

import (
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/categories/domain"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func FromDomainCategory(c *domain.Category) Category {
	if c == nil {
		return Category{}
	}
	return Category{ID: c.ID.String(), Name: c.Name}
}

func FromDomainCategories(categories []*domain.Category) []Category {
	result := make([]Category, 0, len(categories))
	for _, c := range categories {
		result = append(result, FromDomainCategory(c))
	}
	return result
}
